package agent

import (
	"testing"

	"damage-game/internal/game"
)

func TestParseActionKind(t *testing.T) {
	cases := map[string]ActionKind{
		"fold":        KindFold,
		" CALL ":      KindCall,
		"Raise":       KindRaise,
		"bet":         KindRaise,
		"play_card":   KindRaise,
		"play card":   KindRaise,
		"reaction":    KindRaise,
		"pass":        KindCheck,
		"check":       KindCheck,
		"I will call": KindCall,
		"":            KindCheck,
		"dance":       KindCheck,
	}
	for raw, want := range cases {
		if got := ParseActionKind(raw); got != want {
			t.Fatalf("ParseActionKind(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	if got := ParseKinetic("whatever"); got != KineticDiscardPressure {
		t.Fatalf("kinetic default = %s", got)
	}
	if got := ParseEmotionalIntent("???"); got != game.IntentFear {
		t.Fatalf("emotional default = %s", got)
	}
	if got := ParseManipulationPlan(""); got != PlanThreatFraming {
		t.Fatalf("plan default = %s", got)
	}
	if got := ParseDeliveryChannel("carrier pigeon"); got != ChannelPublic {
		t.Fatalf("channel default = %s", got)
	}
	if got := ParseIntentKind("nap"); got != game.IntentNone {
		t.Fatalf("intent default = %s", got)
	}
}

func TestParseFuzzyMatches(t *testing.T) {
	if got := ParseKinetic("Tempo-Swing"); got != KineticTempoSwing {
		t.Fatalf("kinetic = %s", got)
	}
	if got := ParseManipulationPlan("a bit of bait"); got != PlanBait {
		t.Fatalf("plan = %s", got)
	}
	if got := ParseIntentKind("defend"); got != game.IntentGuard {
		t.Fatalf("intent = %s", got)
	}
	if got := ParseIntentKind("self regulate"); got != game.IntentSelfRegulate {
		t.Fatalf("intent = %s", got)
	}
	if got := ParseEmotion("rage"); got != game.EmotionAnger {
		t.Fatalf("emotion = %s", got)
	}
	if got := ParseEmotion("Confidence"); got != game.EmotionConfidence {
		t.Fatalf("emotion = %s", got)
	}
}

func TestParseSeveralSynonymsIsStable(t *testing.T) {
	for i := 0; i < 200; i++ {
		if got := ParseActionKind("match_then_all_in"); got != KindCall {
			t.Fatalf("run %d: ParseActionKind = %s, want call", i, got)
		}
		if got := ParseActionKind("go all in, or just match"); got != KindRaise {
			t.Fatalf("run %d: ParseActionKind = %s, want raise", i, got)
		}
		if got := ParseEmotion("rage_and_humiliation"); got != game.EmotionAnger {
			t.Fatalf("run %d: ParseEmotion = %s, want anger", i, got)
		}
		if got := ParseEmotion("humiliation, then rage"); got != game.EmotionShame {
			t.Fatalf("run %d: ParseEmotion = %s, want shame", i, got)
		}
		if got := ParseEmotionalIntent("rage_and_humiliation"); got != game.IntentAnger {
			t.Fatalf("run %d: ParseEmotionalIntent = %s, want anger", i, got)
		}
		if got := ParseIntentKind("help_then_strike"); got != game.IntentAssist {
			t.Fatalf("run %d: ParseIntentKind = %s, want assist", i, got)
		}
	}
}
