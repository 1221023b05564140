package table

import (
	"errors"
	"fmt"
	"strings"

	"damage-game/internal/config"
)

const (
	CardStyleDraw5  = "draw5"
	CardStyleHoldem = "holdem"

	MaxPlayers = 10
	// MaxHands bounds open-ended tables.
	MaxHands = 500
)

var ErrInvalidConfig = errors.New("invalid_config")

type Seat struct {
	ID    string
	Model string
}

type Config struct {
	GameID                  string
	Seed                    int64
	Seats                   []Seat
	Hands                   int
	Ante                    int
	MinRaise                int
	StartingBankroll        int
	Lives                   int
	CardStyle               string
	EnableLives             bool
	DirectAttacks           bool
	Discussion              bool
	OffturnSelfRegulate     bool
	OffturnChatter          bool
	Blinds                  bool
	SmallBlind              int
	BigBlind                int
	OngoingTable            bool
	ContinueUntilSurvivors  int
	EliminateOnBankrollZero bool
	// DeadChips leaves unreached tranches unpaid instead of rolling them down.
	DeadChips               bool
	ContextWindow           int
}

// NewConfig builds a table config from env/profile settings. Empty ids get
// P1..Pn.
func NewConfig(gc config.GameConfig, gameID string, ids []string, models map[string]string) Config {
	if len(ids) == 0 {
		ids = make([]string, gc.Players)
		for i := range ids {
			ids[i] = fmt.Sprintf("P%d", i+1)
		}
	}
	seats := make([]Seat, len(ids))
	for i, id := range ids {
		seats[i] = Seat{ID: id, Model: models[strings.ToUpper(id)]}
	}
	return Config{
		GameID:                  gameID,
		Seed:                    gc.Seed,
		Seats:                   seats,
		Hands:                   gc.Turns,
		Ante:                    gc.Ante,
		MinRaise:                gc.MinRaise,
		StartingBankroll:        gc.StartingBankroll,
		Lives:                   gc.Lives,
		CardStyle:               strings.ToLower(strings.TrimSpace(gc.CardStyle)),
		EnableLives:             gc.EnableLives,
		DirectAttacks:           gc.DirectAttacks,
		Discussion:              gc.Discussion,
		OffturnSelfRegulate:     gc.OffturnSelfRegulate,
		OffturnChatter:          gc.OffturnChatter,
		Blinds:                  gc.Blinds,
		SmallBlind:              gc.SmallBlind,
		BigBlind:                gc.BigBlind,
		OngoingTable:            gc.OngoingTable,
		ContinueUntilSurvivors:  gc.ContinueUntilSurvivors,
		EliminateOnBankrollZero: gc.EliminateOnBankrollZero,
		DeadChips:               gc.DeadChips,
		ContextWindow:           gc.ContextWindow,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (c Config) Validate() error {
	if n := len(c.Seats); n < 2 || n > MaxPlayers {
		return invalid("players must be between 2 and %d, got %d", MaxPlayers, n)
	}
	seen := map[string]bool{}
	for _, s := range c.Seats {
		if s.ID == "" {
			return invalid("empty player id")
		}
		if seen[s.ID] {
			return invalid("duplicate player id %q", s.ID)
		}
		seen[s.ID] = true
	}
	switch c.CardStyle {
	case CardStyleDraw5, CardStyleHoldem:
	default:
		return invalid("unknown card_style %q", c.CardStyle)
	}
	if c.Hands < 1 && !c.OngoingTable && c.ContinueUntilSurvivors == 0 {
		return invalid("turns must be >= 1")
	}
	if c.Ante < 0 {
		return invalid("ante must be >= 0")
	}
	if c.MinRaise <= 0 {
		return invalid("min_raise must be > 0")
	}
	if c.StartingBankroll <= 0 {
		return invalid("starting_bankroll must be > 0")
	}
	if c.EnableLives && c.Lives < 1 {
		return invalid("lives must be >= 1 when lives are enabled")
	}
	if c.Blinds {
		if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
			return invalid("blinds need 0 < small_blind <= big_blind")
		}
	}
	if c.Ante == 0 && !c.Blinds {
		return invalid("ante is 0 and blinds are disabled; nothing forces a pot")
	}
	if c.ContinueUntilSurvivors < 0 || c.ContinueUntilSurvivors >= len(c.Seats) {
		return invalid("continue_until_survivors must be in [0, %d)", len(c.Seats))
	}
	return nil
}

// StakeUnit is the forced bet that scales affect stakes.
func (c Config) StakeUnit() int {
	if c.Ante > 0 {
		return c.Ante
	}
	if c.Blinds {
		return c.BigBlind
	}
	return c.MinRaise
}
