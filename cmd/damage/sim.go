package main

import (
	"fmt"

	"damage-game/internal/config"
	"damage-game/internal/eventlog"
	"damage-game/internal/gameid"
	"damage-game/internal/table"

	"github.com/rs/zerolog/log"
)

type SimCmd struct {
	GameFlags     `embed:""`
	ProviderFlags `embed:""`

	Seats []string `help:"Explicit player ids, comma separated (default P1..Pn)" sep:","`
}

func (c *SimCmd) Run() error {
	gc, err := c.GameFlags.Resolve()
	if err != nil {
		return err
	}
	pc, err := c.ProviderFlags.Resolve()
	if err != nil {
		return err
	}
	sc, err := config.LoadStore()
	if err != nil {
		return err
	}

	id := gameid.New(gameid.PrefixGame)
	cfg := table.NewConfig(gc, id, c.Seats, pc.PlayerModels)
	if err := cfg.Validate(); err != nil {
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
	sink, err := openSink(gc.LogDir, id, archive)
	if err != nil {
		return err
	}
	defer sink.Close()

	rec := eventlog.NewRecorder(id, sink, nil)
	stack := newProviderStack(ctx, pc)
	g, err := table.New(cfg, stack.decider(rec, gc, pc.PlayerModels), rec)
	if err != nil {
		return err
	}
	log.Info().Str("game_id", id).Str("log", sink.file.Path()).Str("model", pc.Model).Msg("simulation starting")

	summary := g.Run(ctx)
	writeBios(gc.LogDir, id, g.Bios(summary))
	if n := rec.Failures(); n > 0 {
		log.Warn().Int("failures", n).Str("game_id", id).Msg("some events were not written")
	}

	if err := renderStandings(summary); err != nil {
		return err
	}
	fmt.Printf("event log: %s\n", sink.file.Path())
	return nil
}
