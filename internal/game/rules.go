package game

import (
	"errors"
	"fmt"
)

type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionRaise ActionType = "raise"
)

var (
	ErrIllegalAction     = errors.New("illegal_action")
	ErrMissingAttackPlan = errors.New("missing_attack_plan")
	ErrInvalidAmount     = errors.New("invalid_raise_amount")
)

// Attack is the emotional side effect a raise may carry.
type Attack struct {
	TargetID string          `json:"target_player_id"`
	Intent   EmotionalIntent `json:"emotional_intent"`
	Kinetic  string          `json:"kinetic_intent,omitempty"`
}

type Action struct {
	Type   ActionType `json:"kind"`
	Amount int        `json:"amount,omitempty"`
	Attack *Attack    `json:"attack,omitempty"`
}

func LegalActions(t *Table, p *Player) []ActionType {
	toCall := t.ToCall(p)
	legal := []ActionType{ActionFold}
	if toCall == 0 {
		legal = append(legal, ActionCheck)
	} else {
		legal = append(legal, ActionCall)
	}
	if p.Bankroll > toCall+t.MinRaise {
		legal = append(legal, ActionRaise)
	}
	return legal
}

func IsLegal(t *Table, p *Player, at ActionType) bool {
	for _, l := range LegalActions(t, p) {
		if l == at {
			return true
		}
	}
	return false
}

// SafeDefault is the conservative substitute for any rejected action.
func SafeDefault(t *Table, p *Player) Action {
	legal := LegalActions(t, p)
	if t.ToCall(p) > 0 {
		for _, l := range legal {
			if l == ActionCall {
				return Action{Type: ActionCall}
			}
		}
	} else {
		for _, l := range legal {
			if l == ActionCheck {
				return Action{Type: ActionCheck}
			}
		}
	}
	return Action{Type: legal[0]}
}

// Validate checks a proposed action against the table. requireAttack makes an
// attack plan mandatory on raises.
func Validate(t *Table, p *Player, a Action, requireAttack bool) error {
	if !IsLegal(t, p, a.Type) {
		return fmt.Errorf("%w: %s with to_call=%d", ErrIllegalAction, a.Type, t.ToCall(p))
	}
	if a.Type != ActionRaise {
		return nil
	}
	if a.Amount <= 0 {
		return ErrInvalidAmount
	}
	if requireAttack && (a.Attack == nil || a.Attack.TargetID == "") {
		return ErrMissingAttackPlan
	}
	return nil
}
