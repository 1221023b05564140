package agent

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"damage-game/internal/game"
)

const maxChatterRunes = 240

var (
	ErrMissingAttackPlan = errors.New("missing_attack_plan")
	ErrMissingTarget     = errors.New("missing_attack_target")
	ErrBadAmount         = errors.New("raise_amount_not_positive")
)

type AttackPlan struct {
	KineticIntent         KineticIntent        `json:"kinetic_intent"`
	EmotionalIntent       game.EmotionalIntent `json:"emotional_intent"`
	ManipulationPlan      ManipulationPlan     `json:"manipulation_plan"`
	DeliveryChannel       DeliveryChannel      `json:"delivery_channel"`
	TargetPlayerID        string               `json:"target_player_id"`
	ExpectedBehaviorShift string               `json:"expected_behavior_shift,omitempty"`
	Confidence            float64              `json:"confidence"`
}

// ActionEnvelope is a betting decision as the model phrased it, after fuzzy
// normalization.
type ActionEnvelope struct {
	PlayerID         string         `json:"player_id"`
	Kind             ActionKind     `json:"kind"`
	Amount           int            `json:"amount,omitempty"`
	AttackPlan       *AttackPlan    `json:"attack_plan,omitempty"`
	ReasoningSummary string         `json:"reasoning_summary,omitempty"`
	Payload          map[string]any `json:"payload,omitempty"`
}

func parseAttackPlan(obj map[string]any) *AttackPlan {
	if obj == nil {
		return nil
	}
	conf, _ := numberField(obj, "confidence")
	return &AttackPlan{
		KineticIntent:         ParseKinetic(stringField(obj, "kinetic_intent")),
		EmotionalIntent:       ParseEmotionalIntent(stringField(obj, "emotional_intent")),
		ManipulationPlan:      ParseManipulationPlan(stringField(obj, "manipulation_plan")),
		DeliveryChannel:       ParseDeliveryChannel(stringField(obj, "delivery_channel")),
		TargetPlayerID:        stringField(obj, "target_player_id", "target"),
		ExpectedBehaviorShift: stringField(obj, "expected_behavior_shift"),
		Confidence:            math.Max(0, math.Min(1, conf)),
	}
}

func ParseActionEnvelope(obj map[string]any, playerID string) ActionEnvelope {
	payload := objectField(obj, "payload")
	amount, ok := numberField(obj, "amount", "raise_amount")
	if !ok && payload != nil {
		amount, _ = numberField(payload, "amount")
	}
	return ActionEnvelope{
		PlayerID:         playerID,
		Kind:             ParseActionKind(stringField(obj, "kind", "action")),
		Amount:           int(math.Round(amount)),
		AttackPlan:       parseAttackPlan(objectField(obj, "attack_plan")),
		ReasoningSummary: stringField(obj, "reasoning_summary", "reasoning"),
		Payload:          payload,
	}
}

// ValidateAction checks the envelope's own structure. Table legality is the
// engine's concern.
func ValidateAction(a ActionEnvelope, requireAttack bool) error {
	if a.Kind != KindRaise {
		return nil
	}
	if a.Amount <= 0 {
		return ErrBadAmount
	}
	if !requireAttack {
		return nil
	}
	if a.AttackPlan == nil {
		return ErrMissingAttackPlan
	}
	if a.AttackPlan.TargetPlayerID == "" {
		return ErrMissingTarget
	}
	return nil
}

func (a ActionEnvelope) ToAction() game.Action {
	var out game.Action
	switch a.Kind {
	case KindFold:
		out.Type = game.ActionFold
	case KindCall:
		out.Type = game.ActionCall
	case KindRaise:
		out.Type = game.ActionRaise
		out.Amount = a.Amount
	default:
		out.Type = game.ActionCheck
	}
	if a.Kind == KindRaise && a.AttackPlan != nil {
		out.Attack = &game.Attack{
			TargetID: a.AttackPlan.TargetPlayerID,
			Intent:   a.AttackPlan.EmotionalIntent,
			Kinetic:  string(a.AttackPlan.KineticIntent),
		}
	}
	return out
}

func ParseIntent(obj map[string]any, playerID string) game.Intent {
	spend, _ := numberField(obj, "focus_spend", "spend")
	in := game.Intent{
		PlayerID:  playerID,
		Kind:      ParseIntentKind(stringField(obj, "intent", "kind")),
		TargetID:  stringField(obj, "target_player_id", "target"),
		Spend:     math.Max(0, spend),
		SupportID: stringField(obj, "support_player_id", "support"),
	}
	if raw := stringField(obj, "emotion"); raw != "" {
		in.Emotion = ParseEmotion(raw)
	}
	return in
}

// ChatterLine is one free-text line from the discussion layer.
type ChatterLine struct {
	SpeakerID string       `json:"speaker_player_id"`
	TargetID  string       `json:"target_player_id"`
	Emotion   game.Emotion `json:"intended_emotion"`
	Tone      string       `json:"tone,omitempty"`
	Message   string       `json:"message"`
}

func ParseChatter(obj map[string]any, speakerID string) ChatterLine {
	line := ChatterLine{
		SpeakerID: speakerID,
		TargetID:  stringField(obj, "target_player_id", "target"),
		Emotion:   ParseEmotion(stringField(obj, "intended_emotion", "emotion")),
		Tone:      stringField(obj, "tone"),
		Message:   strings.TrimSpace(stringField(obj, "message", "text")),
	}
	if r := []rune(line.Message); len(r) > maxChatterRunes {
		line.Message = string(r[:maxChatterRunes])
	}
	return line
}

// ChatterEffect is the listener-side reading of a chatter line.
type ChatterEffect struct {
	Emotion  game.Emotion `json:"emotion"`
	Delta    float64      `json:"delta"`
	Reason   string       `json:"reason,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
}

func ParseChatterEffect(obj map[string]any, intended game.Emotion) (ChatterEffect, error) {
	d, ok := numberField(obj, "delta")
	if !ok {
		return ChatterEffect{}, fmt.Errorf("%w: delta missing", ErrSchemaValidation)
	}
	em := intended
	if raw := stringField(obj, "emotion"); raw != "" {
		em = ParseEmotion(raw)
	}
	return ChatterEffect{
		Emotion: em,
		Delta:   math.Max(-game.MaxChatterDelta, math.Min(game.MaxChatterDelta, d)),
		Reason:  stringField(obj, "reason"),
	}, nil
}
