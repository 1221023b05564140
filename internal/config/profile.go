package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

var (
	ErrUnknownProfile = errors.New("unknown_profile")
	ErrProfileFile    = errors.New("invalid_profile_file")
)

// Profile is a partial GameConfig. Nil fields leave the base value alone.
type Profile struct {
	CardStyle               *string `json:"card_style,omitempty" hcl:"card_style,optional"`
	Players                 *int    `json:"players,omitempty" hcl:"players,optional"`
	Turns                   *int    `json:"turns,omitempty" hcl:"turns,optional"`
	Lives                   *int    `json:"lives,omitempty" hcl:"lives,optional"`
	EnableLives             *bool   `json:"enable_lives,omitempty" hcl:"enable_lives,optional"`
	DirectAttacks           *bool   `json:"enable_direct_emoter_attacks,omitempty" hcl:"enable_direct_emoter_attacks,optional"`
	Discussion              *bool   `json:"enable_discussion_layer,omitempty" hcl:"enable_discussion_layer,optional"`
	OffturnSelfRegulate     *bool   `json:"enable_offturn_self_regulate,omitempty" hcl:"enable_offturn_self_regulate,optional"`
	OffturnChatter          *bool   `json:"enable_offturn_chatter,omitempty" hcl:"enable_offturn_chatter,optional"`
	Blinds                  *bool   `json:"enable_blinds,omitempty" hcl:"enable_blinds,optional"`
	SmallBlind              *int    `json:"small_blind,omitempty" hcl:"small_blind,optional"`
	BigBlind                *int    `json:"big_blind,omitempty" hcl:"big_blind,optional"`
	OngoingTable            *bool   `json:"ongoing_table,omitempty" hcl:"ongoing_table,optional"`
	ContinueUntilSurvivors  *int    `json:"continue_until_survivors,omitempty" hcl:"continue_until_survivors,optional"`
	EliminateOnBankrollZero *bool   `json:"eliminate_on_bankroll_zero,omitempty" hcl:"eliminate_on_bankroll_zero,optional"`
	Ante                    *int    `json:"ante,omitempty" hcl:"ante,optional"`
	MinRaise                *int    `json:"min_raise,omitempty" hcl:"min_raise,optional"`
	StartingBankroll        *int    `json:"starting_bankroll,omitempty" hcl:"starting_bankroll,optional"`
}

func ptr[T any](v T) *T { return &v }

func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		"damage-game": {
			CardStyle:           ptr("draw5"),
			EnableLives:         ptr(true),
			DirectAttacks:       ptr(true),
			Discussion:          ptr(true),
			OffturnSelfRegulate: ptr(true),
			OffturnChatter:      ptr(true),
			Blinds:              ptr(false),
			OngoingTable:        ptr(false),
			Ante:                ptr(10),
			MinRaise:            ptr(10),
			StartingBankroll:    ptr(200),
		},
		"poker-texasholdem": {
			CardStyle:           ptr("holdem"),
			EnableLives:         ptr(false),
			DirectAttacks:       ptr(false),
			Discussion:          ptr(true),
			OffturnSelfRegulate: ptr(false),
			OffturnChatter:      ptr(false),
			Blinds:              ptr(true),
			OngoingTable:        ptr(false),
			SmallBlind:          ptr(5),
			BigBlind:            ptr(10),
			Ante:                ptr(0),
			MinRaise:            ptr(10),
			StartingBankroll:    ptr(300),
		},
	}
}

func ProfileNames() []string {
	names := make([]string, 0, 2)
	for name := range builtinProfiles() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func BuiltinProfile(name string) (Profile, error) {
	p, ok := builtinProfiles()[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// LoadProfile merges the named builtin profile with an optional profile file.
// File values win. Files ending in .hcl are decoded as HCL, anything else as JSON.
func LoadProfile(name, file string) (Profile, error) {
	var merged Profile
	if name != "" {
		p, err := BuiltinProfile(name)
		if err != nil {
			return Profile{}, err
		}
		merged = merged.Merge(p)
	}
	if file == "" {
		return merged, nil
	}
	p, err := readProfileFile(file)
	if err != nil {
		return Profile{}, err
	}
	return merged.Merge(p), nil
}

func readProfileFile(file string) (Profile, error) {
	var p Profile
	if strings.EqualFold(filepath.Ext(file), ".hcl") {
		parser := hclparse.NewParser()
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return Profile{}, fmt.Errorf("%w: parse %s: %s", ErrProfileFile, file, diags.Error())
		}
		if diags := gohcl.DecodeBody(f.Body, nil, &p); diags.HasErrors() {
			return Profile{}, fmt.Errorf("%w: decode %s: %s", ErrProfileFile, file, diags.Error())
		}
		return p, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProfileFile, err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: decode %s: %v", ErrProfileFile, file, err)
	}
	return p, nil
}

// Merge returns p with every field set in o taking precedence.
func (p Profile) Merge(o Profile) Profile {
	pick(&p.CardStyle, o.CardStyle)
	pick(&p.Players, o.Players)
	pick(&p.Turns, o.Turns)
	pick(&p.Lives, o.Lives)
	pick(&p.EnableLives, o.EnableLives)
	pick(&p.DirectAttacks, o.DirectAttacks)
	pick(&p.Discussion, o.Discussion)
	pick(&p.OffturnSelfRegulate, o.OffturnSelfRegulate)
	pick(&p.OffturnChatter, o.OffturnChatter)
	pick(&p.Blinds, o.Blinds)
	pick(&p.SmallBlind, o.SmallBlind)
	pick(&p.BigBlind, o.BigBlind)
	pick(&p.OngoingTable, o.OngoingTable)
	pick(&p.ContinueUntilSurvivors, o.ContinueUntilSurvivors)
	pick(&p.EliminateOnBankrollZero, o.EliminateOnBankrollZero)
	pick(&p.Ante, o.Ante)
	pick(&p.MinRaise, o.MinRaise)
	pick(&p.StartingBankroll, o.StartingBankroll)
	return p
}

// Apply writes every field set in p onto cfg.
func (p Profile) Apply(cfg *GameConfig) {
	set(&cfg.CardStyle, p.CardStyle)
	set(&cfg.Players, p.Players)
	set(&cfg.Turns, p.Turns)
	set(&cfg.Lives, p.Lives)
	set(&cfg.EnableLives, p.EnableLives)
	set(&cfg.DirectAttacks, p.DirectAttacks)
	set(&cfg.Discussion, p.Discussion)
	set(&cfg.OffturnSelfRegulate, p.OffturnSelfRegulate)
	set(&cfg.OffturnChatter, p.OffturnChatter)
	set(&cfg.Blinds, p.Blinds)
	set(&cfg.SmallBlind, p.SmallBlind)
	set(&cfg.BigBlind, p.BigBlind)
	set(&cfg.OngoingTable, p.OngoingTable)
	set(&cfg.ContinueUntilSurvivors, p.ContinueUntilSurvivors)
	set(&cfg.EliminateOnBankrollZero, p.EliminateOnBankrollZero)
	set(&cfg.Ante, p.Ante)
	set(&cfg.MinRaise, p.MinRaise)
	set(&cfg.StartingBankroll, p.StartingBankroll)
}

func pick[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
