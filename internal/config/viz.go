package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type VizConfig struct {
	Host         string        `env:"DAMAGE_VIZ_HOST" envDefault:"127.0.0.1"`
	Port         int           `env:"DAMAGE_VIZ_PORT" envDefault:"8787"`
	PollInterval time.Duration `env:"DAMAGE_VIZ_POLL" envDefault:"400ms"`
	PingInterval time.Duration `env:"DAMAGE_VIZ_PING" envDefault:"15s"`
}

func LoadViz() (VizConfig, error) {
	var cfg VizConfig
	err := env.Parse(&cfg)
	return cfg, err
}
