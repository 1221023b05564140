package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"damage-game/internal/game/viewmodel"
)

type Prompt struct {
	System string
	User   string
}

func stateJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func ActionPrompt(view viewmodel.SeatStateView, requireAttack bool) Prompt {
	legal := make([]string, 0, len(view.LegalActions))
	for _, a := range view.LegalActions {
		legal = append(legal, string(a))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Choose one legal action from [%s]. ", strings.Join(legal, ", "))
	b.WriteString(`Reply with JSON {"kind", "amount", "attack_plan", "reasoning_summary"}. `)
	b.WriteString("amount is the raise above the call and must be positive for a raise. ")
	if requireAttack {
		b.WriteString("A raise must carry attack_plan with kinetic_intent, emotional_intent, manipulation_plan, " +
			"delivery_channel, target_player_id, expected_behavior_shift and confidence in [0,1]. ")
	}
	b.WriteString("State: ")
	b.WriteString(stateJSON(view))
	return Prompt{
		System: "You are a player in a high-stakes card game where opponents also fight over each other's emotions. Return only JSON.",
		User:   b.String(),
	}
}

// IntentPrompt asks for an affect-phase intent. selfOnly restricts the reply
// to self_regulate or none, as used in off-turn windows.
func IntentPrompt(view viewmodel.SeatStateView, selfOnly bool) Prompt {
	var b strings.Builder
	if selfOnly {
		b.WriteString(`You are out of the current action. Pick "self_regulate" or "none". `)
	} else {
		b.WriteString(`Pick one intent: "attack", "assist", "guard", "self_regulate" or "none". `)
		b.WriteString("attack and assist need target_player_id and emotion (fear, anger, shame, confidence, tilt); ")
		b.WriteString("assist may name support_player_id, the attacker you back. ")
	}
	fmt.Fprintf(&b, "focus_spend must not exceed %.1f. ", view.MyMaxSpend)
	b.WriteString(`Reply with JSON {"intent", "target_player_id", "emotion", "focus_spend", "support_player_id"}. State: `)
	b.WriteString(stateJSON(view))
	return Prompt{
		System: "You manage your composure and pressure rivals between card decisions. Return only JSON.",
		User:   b.String(),
	}
}

func ChatterPrompt(view viewmodel.SeatStateView) Prompt {
	return Prompt{
		System: "You are table talk for a card player. One short line, at most 240 characters. Return only JSON.",
		User: `Send one line at a rival. Reply with JSON {"message", "target_player_id", "intended_emotion", "tone"}. State: ` +
			stateJSON(view),
	}
}

// ChatterEvalPrompt asks the listener's own model how much a line landed.
func ChatterEvalPrompt(listener viewmodel.SeatStateView, line ChatterLine) Prompt {
	return Prompt{
		System: "You judge how a remark affects the listener. Return only JSON.",
		User: fmt.Sprintf(
			`Player %s said to you: %q (intended %s, tone %q). Rate the effect on your %s as delta in [-0.15, 0.15]. `+
				`Reply with JSON {"emotion", "delta", "reason"}. Your state: %s`,
			line.SpeakerID, line.Message, line.Emotion, line.Tone, line.Emotion, stateJSON(listener)),
	}
}
