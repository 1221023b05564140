package main

import (
	"fmt"

	"damage-game/internal/config"
	"damage-game/internal/eventlog"
	"damage-game/internal/table"
	"damage-game/internal/tournament"
)

type TournamentCmd struct {
	GameFlags     `embed:""`
	ProviderFlags `embed:""`

	Entrants         *int     `help:"Number of entrants (E1..En)"`
	SeatFormat       *int     `help:"Seats per table, 6 or 8"`
	TurnsPerGame     *int     `help:"Hands per table game"`
	AdvancePerTable  *int     `help:"Players advancing from each table"`
	StakesMultiplier *float64 `help:"Ante multiplier applied each round"`
}

func (c *TournamentCmd) resolve() (config.TournamentConfig, error) {
	tc, err := config.LoadTournament()
	if err != nil {
		return tc, err
	}
	set(&tc.Entrants, c.Entrants)
	set(&tc.SeatFormat, c.SeatFormat)
	set(&tc.Turns, c.TurnsPerGame)
	set(&tc.AdvancePerTable, c.AdvancePerTable)
	set(&tc.StakesMultiplier, c.StakesMultiplier)
	return tc, nil
}

func (c *TournamentCmd) Run() error {
	gc, err := c.GameFlags.Resolve()
	if err != nil {
		return err
	}
	pc, err := c.ProviderFlags.Resolve()
	if err != nil {
		return err
	}
	tc, err := c.resolve()
	if err != nil {
		return err
	}
	sc, err := config.LoadStore()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	archive, err := openArchive(ctx, sc)
	if err != nil {
		return err
	}
	if archive != nil {
		defer archive.Close()
	}

	stack := newProviderStack(ctx, pc)
	runner, err := tournament.New(tc, gc, pc.Model, pc.PlayerModels, tournament.Deps{
		Decider: func(_ string, events table.Emitter, models map[string]string) table.Decider {
			return stack.decider(events, gc, models)
		},
		Sink: func(id string) (eventlog.Sink, error) {
			s, err := openSink(gc.LogDir, id, archive)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	})
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := renderTournament(res); err != nil {
		return err
	}
	fmt.Printf("tournament log: %s\n", eventlog.LogPath(gc.LogDir, res.TournamentID))
	return nil
}
