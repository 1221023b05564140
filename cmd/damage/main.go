package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"damage-game/internal/config"
	"damage-game/internal/logging"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

var version = "dev"

type CLI struct {
	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Sim        SimCmd           `cmd:"" help:"Play one table of LLM-driven players"`
	Tournament TournamentCmd    `cmd:"" help:"Run a knockout tournament across tables"`
	Replay     ReplayCmd        `cmd:"" help:"List, print or follow event logs"`
	Viz        VizCmd           `cmd:"" help:"Serve the replay visualizer"`
	Probe      ProbeCmd         `cmd:"" help:"Check provider connectivity and exit"`
	Profiles   ProfilesCmd      `cmd:"" help:"List builtin game profiles"`
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	closer, err := logging.Init(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}
	defer closer.Close()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("damage"),
		kong.Description("Multi-player poker where the players are language models trying to rattle each other"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version":  version,
			"profiles": strings.Join(config.ProfileNames(), ", "),
		},
	)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
