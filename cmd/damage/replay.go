package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"damage-game/internal/config"
	"damage-game/internal/eventlog"
	"damage-game/internal/gameid"

	"github.com/pterm/pterm"
)

var errLogComplete = errors.New("log_complete")

type ReplayCmd struct {
	List ReplayListCmd `cmd:"" help:"List recorded games or tournaments"`
	Show ReplayShowCmd `cmd:"" help:"Print the events of one log"`
	Tail ReplayTailCmd `cmd:"" help:"Follow a log as it is written"`
}

// logDir falls back to DAMAGE_LOG_DIR when no flag was given.
func logDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	gc, err := config.LoadGame()
	if err != nil {
		return "", err
	}
	return gc.LogDir, nil
}

type ReplayListCmd struct {
	LogDir      string `help:"Directory holding event logs" type:"path"`
	Tournaments bool   `help:"List tournaments instead of games"`
}

func (c *ReplayListCmd) Run() error {
	dir, err := logDir(c.LogDir)
	if err != nil {
		return err
	}
	prefix := gameid.PrefixGame + "_"
	if c.Tournaments {
		prefix = gameid.PrefixTournament + "_"
	}
	logs, err := eventlog.List(dir, prefix)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		pterm.Info.Printfln("no logs under %s", dir)
		return nil
	}
	data := pterm.TableData{{"ID", "Events", "Modified"}}
	for _, l := range logs {
		data = append(data, []string{l.GameID, strconv.Itoa(l.EventCount), l.Modified.Format(time.RFC3339)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

type ReplayShowCmd struct {
	ID     string  `arg:"" help:"Game or tournament id"`
	LogDir string  `help:"Directory holding event logs" type:"path"`
	Type   string  `help:"Only print events of this type"`
	Speed  float64 `help:"Replay speed relative to recorded time, 0 prints immediately" default:"0"`
}

func (c *ReplayShowCmd) Run() error {
	dir, err := logDir(c.LogDir)
	if err != nil {
		return err
	}
	events, err := eventlog.Load(dir, c.ID)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	enc := json.NewEncoder(os.Stdout)
	return eventlog.Replay(ctx, events, c.Speed, nil, func(ev eventlog.Event) error {
		if c.Type != "" && ev.Type != c.Type {
			return nil
		}
		return enc.Encode(ev)
	})
}

type ReplayTailCmd struct {
	ID     string        `arg:"" help:"Game or tournament id"`
	LogDir string        `help:"Directory holding event logs" type:"path"`
	Poll   time.Duration `help:"Polling interval" default:"400ms"`
}

func (c *ReplayTailCmd) Run() error {
	dir, err := logDir(c.LogDir)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	err = eventlog.Tail(ctx, dir, c.ID, nil, c.Poll, func(ev eventlog.Event) error {
		fmt.Printf("%s %-20s %s\n", ev.Timestamp.Format(time.TimeOnly), ev.Type, ev.Payload)
		if ev.Type == "game_ended" || ev.Type == "tournament_ended" {
			return errLogComplete
		}
		return nil
	})
	if errors.Is(err, errLogComplete) || ctx.Err() != nil {
		return nil
	}
	return err
}
