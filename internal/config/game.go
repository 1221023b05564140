package config

import "github.com/caarlos0/env/v11"

type GameConfig struct {
	Seed                    int64  `env:"DAMAGE_SEED" envDefault:"42"`
	Players                 int    `env:"DAMAGE_PLAYERS" envDefault:"4"`
	Turns                   int    `env:"DAMAGE_TURNS" envDefault:"3"`
	Ante                    int    `env:"DAMAGE_ANTE" envDefault:"10"`
	MinRaise                int    `env:"DAMAGE_MIN_RAISE" envDefault:"10"`
	StartingBankroll        int    `env:"DAMAGE_STARTING_BANKROLL" envDefault:"200"`
	Lives                   int    `env:"DAMAGE_LIVES" envDefault:"3"`
	CardStyle               string `env:"DAMAGE_CARD_STYLE" envDefault:"draw5"`
	EnableLives             bool   `env:"DAMAGE_ENABLE_LIVES" envDefault:"true"`
	DirectAttacks           bool   `env:"DAMAGE_DIRECT_ATTACKS" envDefault:"true"`
	Discussion              bool   `env:"DAMAGE_DISCUSSION" envDefault:"true"`
	OffturnSelfRegulate     bool   `env:"DAMAGE_OFFTURN_SELF_REGULATE" envDefault:"true"`
	OffturnChatter          bool   `env:"DAMAGE_OFFTURN_CHATTER" envDefault:"true"`
	Blinds                  bool   `env:"DAMAGE_BLINDS" envDefault:"false"`
	SmallBlind              int    `env:"DAMAGE_SMALL_BLIND" envDefault:"5"`
	BigBlind                int    `env:"DAMAGE_BIG_BLIND" envDefault:"10"`
	OngoingTable            bool   `env:"DAMAGE_ONGOING_TABLE" envDefault:"false"`
	ContinueUntilSurvivors  int    `env:"DAMAGE_CONTINUE_UNTIL_SURVIVORS" envDefault:"0"`
	EliminateOnBankrollZero bool   `env:"DAMAGE_ELIMINATE_ON_BANKROLL_ZERO" envDefault:"false"`
	DeadChips               bool   `env:"DAMAGE_DEAD_CHIPS" envDefault:"false"`
	ContextWindow           int    `env:"DAMAGE_CONTEXT_WINDOW" envDefault:"8192"`
	LogDir                  string `env:"DAMAGE_LOG_DIR" envDefault:"runs"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
