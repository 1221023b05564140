package main

import (
	"context"
	"fmt"

	"damage-game/internal/agent"
	"damage-game/internal/config"
	"damage-game/internal/eventlog"
	"damage-game/internal/provider"
	"damage-game/internal/store"

	"github.com/rs/zerolog/log"
)

// providerStack is the shared client plus the model list it reported.
type providerStack struct {
	cfg       config.ProviderConfig
	client    *provider.Client
	available []string
}

func newProviderStack(ctx context.Context, cfg config.ProviderConfig) providerStack {
	client := provider.NewClient(cfg)
	models, err := client.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Str("base_url", cfg.BaseURL).Msg("model list unavailable, routing to configured models")
	}
	return providerStack{cfg: cfg, client: client, available: models}
}

func (p providerStack) router(overrides map[string]string) *provider.Router {
	r := provider.NewRouter(p.cfg.Model, p.cfg.FallbackModels)
	r.SetAvailable(p.available)
	r.SetOverrides(overrides)
	return r
}

func (p providerStack) decider(events agent.Emitter, gc config.GameConfig, overrides map[string]string) *agent.LLMDecider {
	return agent.NewLLMDecider(p.client, p.router(overrides), provider.NewTokenMonitor(), events, agent.Options{
		ContextWindow: gc.ContextWindow,
		DirectAttacks: gc.DirectAttacks,
	})
}

// openArchive connects the optional Postgres archive. It returns nil when no
// DSN is configured.
func openArchive(ctx context.Context, cfg config.StoreConfig) (*store.Store, error) {
	if cfg.PostgresDSN == "" {
		return nil, nil
	}
	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("ping archive: %w", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("archive schema: %w", err)
	}
	return st, nil
}

// logSink writes one log file and, when archive is set, the same events to
// Postgres. Close only closes the file.
type logSink struct {
	eventlog.MultiSink
	file *eventlog.FileSink
}

func (s *logSink) Close() error {
	return s.file.Close()
}

func openSink(dir, id string, archive *store.Store) (*logSink, error) {
	file, err := eventlog.NewFileSink(dir, id)
	if err != nil {
		return nil, err
	}
	sinks := eventlog.MultiSink{file}
	if archive != nil {
		sinks = append(sinks, archive)
	}
	return &logSink{MultiSink: sinks, file: file}, nil
}

func writeBios(dir, id string, bios map[string]string) {
	for player, body := range bios {
		if err := eventlog.WriteBio(dir, id, player, body); err != nil {
			log.Warn().Err(err).Str("game_id", id).Str("player_id", player).Msg("write bio")
		}
	}
}
