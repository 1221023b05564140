package config

import "github.com/caarlos0/env/v11"

type WatchConfig struct {
	WSURL  string `env:"DAMAGE_WATCH_URL" envDefault:"ws://127.0.0.1:8787/api/ws"`
	GameID string `env:"DAMAGE_WATCH_GAME"`
}

func LoadWatch() (WatchConfig, error) {
	var cfg WatchConfig
	err := env.Parse(&cfg)
	return cfg, err
}
