package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ProviderConfig struct {
	BaseURL        string            `env:"DAMAGE_BASE_URL" envDefault:"http://localhost:1234/v1"`
	Model          string            `env:"DAMAGE_MODEL" envDefault:"qwen2.5-14b-instruct-mlx"`
	FallbackModels []string          `env:"DAMAGE_FALLBACK_MODELS" envSeparator:"," envDefault:"mistral-small-3.2-24b-instruct-2506-mlx"`
	APIKey         string            `env:"DAMAGE_API_KEY"`
	Timeout        time.Duration     `env:"DAMAGE_PROVIDER_TIMEOUT" envDefault:"30s"`
	Temperature    float64           `env:"DAMAGE_TEMPERATURE" envDefault:"0.7"`
	PlayerModels   map[string]string `env:"DAMAGE_PLAYER_MODELS" envKeyValSeparator:"="`
}

func LoadProvider() (ProviderConfig, error) {
	var cfg ProviderConfig
	err := env.Parse(&cfg)
	return cfg, err
}
