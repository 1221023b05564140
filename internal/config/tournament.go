package config

import "github.com/caarlos0/env/v11"

type TournamentConfig struct {
	Entrants         int     `env:"DAMAGE_TOURNAMENT_ENTRANTS" envDefault:"16"`
	SeatFormat       int     `env:"DAMAGE_TOURNAMENT_SEAT_FORMAT" envDefault:"6"`
	Turns            int     `env:"DAMAGE_TOURNAMENT_TURNS" envDefault:"3"`
	AdvancePerTable  int     `env:"DAMAGE_ADVANCE_PER_TABLE" envDefault:"1"`
	StakesMultiplier float64 `env:"DAMAGE_STAKES_MULTIPLIER" envDefault:"1.5"`
}

func LoadTournament() (TournamentConfig, error) {
	var cfg TournamentConfig
	err := env.Parse(&cfg)
	return cfg, err
}
