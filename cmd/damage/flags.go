package main

import (
	"strings"

	"damage-game/internal/config"
)

// GameFlags override the profile and environment. Unset pointers keep the
// lower layer.
type GameFlags struct {
	Profile     string `help:"Builtin profile (${profiles})" default:"damage-game"`
	ProfileFile string `help:"JSON or HCL profile file applied over the builtin profile" type:"path"`

	Seed                    *int64  `help:"Deterministic seed"`
	Players                 *int    `help:"Number of seats"`
	Turns                   *int    `help:"Hands to play"`
	Ante                    *int    `help:"Ante per hand"`
	MinRaise                *int    `help:"Minimum raise"`
	StartingBankroll        *int    `help:"Starting bankroll"`
	Lives                   *int    `help:"Lives per player"`
	CardStyle               *string `help:"draw5 or holdem"`
	EnableLives             *bool   `help:"Lose a life per lost hand"`
	DirectAttacks           *bool   `help:"Allow raises to carry emotional attacks"`
	Discussion              *bool   `help:"Run the table-talk phase"`
	Blinds                  *bool   `help:"Post small and big blinds"`
	SmallBlind              *int    `help:"Small blind"`
	BigBlind                *int    `help:"Big blind"`
	OngoingTable            *bool   `help:"Play until one player remains"`
	ContinueUntilSurvivors  *int    `help:"Keep dealing past the turn cap until this many remain"`
	EliminateOnBankrollZero *bool   `help:"Eliminate players whose bankroll reaches zero"`
	DeadChips               *bool   `help:"Leave side-pot levels no live player reached unpaid"`
	ContextWindow           *int    `help:"Model context window in tokens"`
	LogDir                  *string `help:"Directory for event logs"`
}

// Resolve layers env defaults, the profile and explicit flags, in that order.
func (f GameFlags) Resolve() (config.GameConfig, error) {
	cfg, err := config.LoadGame()
	if err != nil {
		return cfg, err
	}
	p, err := config.LoadProfile(f.Profile, f.ProfileFile)
	if err != nil {
		return cfg, err
	}
	p.Apply(&cfg)
	f.apply(&cfg)
	return cfg, nil
}

func (f GameFlags) apply(cfg *config.GameConfig) {
	set(&cfg.Seed, f.Seed)
	set(&cfg.Players, f.Players)
	set(&cfg.Turns, f.Turns)
	set(&cfg.Ante, f.Ante)
	set(&cfg.MinRaise, f.MinRaise)
	set(&cfg.StartingBankroll, f.StartingBankroll)
	set(&cfg.Lives, f.Lives)
	set(&cfg.CardStyle, f.CardStyle)
	set(&cfg.EnableLives, f.EnableLives)
	set(&cfg.DirectAttacks, f.DirectAttacks)
	set(&cfg.Discussion, f.Discussion)
	set(&cfg.Blinds, f.Blinds)
	set(&cfg.SmallBlind, f.SmallBlind)
	set(&cfg.BigBlind, f.BigBlind)
	set(&cfg.OngoingTable, f.OngoingTable)
	set(&cfg.ContinueUntilSurvivors, f.ContinueUntilSurvivors)
	set(&cfg.EliminateOnBankrollZero, f.EliminateOnBankrollZero)
	set(&cfg.DeadChips, f.DeadChips)
	set(&cfg.ContextWindow, f.ContextWindow)
	set(&cfg.LogDir, f.LogDir)
}

type ProviderFlags struct {
	BaseURL        *string  `name:"base-url" help:"OpenAI-compatible base URL"`
	Model          *string  `help:"Primary model"`
	FallbackModels []string `help:"Fallback models, comma separated" sep:","`
	APIKey         *string  `name:"api-key" help:"Bearer token for the provider"`
}

func (f ProviderFlags) Resolve() (config.ProviderConfig, error) {
	cfg, err := config.LoadProvider()
	if err != nil {
		return cfg, err
	}
	set(&cfg.BaseURL, f.BaseURL)
	set(&cfg.Model, f.Model)
	set(&cfg.APIKey, f.APIKey)
	if len(f.FallbackModels) > 0 {
		cfg.FallbackModels = nil
		for _, m := range f.FallbackModels {
			if m = strings.TrimSpace(m); m != "" {
				cfg.FallbackModels = append(cfg.FallbackModels, m)
			}
		}
	}
	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
