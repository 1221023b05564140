package config

import "testing"

func TestLoadWatchDefaults(t *testing.T) {
	cfg, err := LoadWatch()
	if err != nil {
		t.Fatalf("LoadWatch() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:8787/api/ws" {
		t.Fatalf("WSURL = %q, want ws://127.0.0.1:8787/api/ws", cfg.WSURL)
	}
	if cfg.GameID != "" {
		t.Fatalf("GameID = %q, want empty", cfg.GameID)
	}
}

func TestLoadWatchOverrides(t *testing.T) {
	t.Setenv("DAMAGE_WATCH_URL", "ws://10.0.0.2:9000/api/ws")
	t.Setenv("DAMAGE_WATCH_GAME", "game_20260101T000000Z_abcdef")

	cfg, err := LoadWatch()
	if err != nil {
		t.Fatalf("LoadWatch() error = %v", err)
	}
	if cfg.WSURL != "ws://10.0.0.2:9000/api/ws" || cfg.GameID != "game_20260101T000000Z_abcdef" {
		t.Fatalf("unexpected watch config: %+v", cfg)
	}
}
