package config

import "github.com/caarlos0/env/v11"

// StoreConfig enables the Postgres event archive when DSN is set.
type StoreConfig struct {
	PostgresDSN string `env:"DAMAGE_POSTGRES_DSN"`
}

func LoadStore() (StoreConfig, error) {
	var cfg StoreConfig
	err := env.Parse(&cfg)
	return cfg, err
}
