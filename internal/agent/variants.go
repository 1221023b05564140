package agent

import (
	"strings"

	"damage-game/internal/game"
)

type ActionKind string

const (
	KindFold  ActionKind = "fold"
	KindCheck ActionKind = "check"
	KindCall  ActionKind = "call"
	KindRaise ActionKind = "raise"
	KindPass  ActionKind = "pass"
)

type KineticIntent string

const (
	KineticDiscardPressure KineticIntent = "discard_pressure"
	KineticLockout         KineticIntent = "lockout"
	KineticComboBreak      KineticIntent = "combo_break"
	KineticTempoSwing      KineticIntent = "tempo_swing"
	KineticForcedLine      KineticIntent = "forced_line"
)

type ManipulationPlan string

const (
	PlanThreatFraming   ManipulationPlan = "threat_framing"
	PlanBait            ManipulationPlan = "bait"
	PlanFalseConcession ManipulationPlan = "false_concession"
	PlanPublicIsolation ManipulationPlan = "public_isolation"
	PlanStatusChallenge ManipulationPlan = "status_challenge"
	PlanBetrayalCue     ManipulationPlan = "betrayal_cue"
)

type DeliveryChannel string

const (
	ChannelPublic  DeliveryChannel = "public"
	ChannelPrivate DeliveryChannel = "private"
	ChannelMixed   DeliveryChannel = "mixed"
)

var (
	actionKinds = []ActionKind{KindFold, KindCheck, KindCall, KindRaise, KindPass}
	kinetics    = []KineticIntent{KineticDiscardPressure, KineticLockout, KineticComboBreak, KineticTempoSwing, KineticForcedLine}
	emotionals  = []game.EmotionalIntent{
		game.IntentFear, game.IntentAnger, game.IntentShame,
		game.IntentTilt, game.IntentOverconfidence, game.IntentParanoia,
	}
	plans    = []ManipulationPlan{PlanThreatFraming, PlanBait, PlanFalseConcession, PlanPublicIsolation, PlanStatusChallenge, PlanBetrayalCue}
	channels = []DeliveryChannel{ChannelPublic, ChannelPrivate, ChannelMixed}
	intents  = []game.IntentKind{game.IntentAttack, game.IntentAssist, game.IntentGuard, game.IntentSelfRegulate, game.IntentNone}
)

// synonym maps a word models use in place of a closed variant.
type synonym[T ~string] struct {
	word string
	to   T
}

var actionSynonyms = []synonym[ActionKind]{
	{"bet", KindRaise},
	{"all_in", KindRaise},
	{"allin", KindRaise},
	{"play_card", KindRaise},
	{"activate", KindRaise},
	{"reaction", KindRaise},
	{"pass", KindCheck},
	{"wait", KindCheck},
	{"match", KindCall},
	{"muck", KindFold},
}

var intentSynonyms = []synonym[game.IntentKind]{
	{"support", game.IntentAssist},
	{"help", game.IntentAssist},
	{"defend", game.IntentGuard},
	{"block", game.IntentGuard},
	{"shield", game.IntentGuard},
	{"calm", game.IntentSelfRegulate},
	{"regulate", game.IntentSelfRegulate},
	{"meditate", game.IntentSelfRegulate},
	{"pass", game.IntentNone},
	{"skip", game.IntentNone},
	{"strike", game.IntentAttack},
	{"manipulate", game.IntentAttack},
}

var emotionSynonyms = []synonym[game.Emotion]{
	{"paranoia", game.EmotionFear},
	{"anxiety", game.EmotionFear},
	{"rage", game.EmotionAnger},
	{"fury", game.EmotionAnger},
	{"humiliation", game.EmotionShame},
	{"embarrassment", game.EmotionShame},
	{"overconfidence", game.EmotionConfidence},
	{"doubt", game.EmotionConfidence},
	{"frustration", game.EmotionTilt},
}

var emotionalSynonyms = []synonym[game.EmotionalIntent]{
	{"rage", game.IntentAnger},
	{"humiliation", game.IntentShame},
	{"panic", game.IntentFear},
	{"arrogance", game.IntentOverconfidence},
	{"suspicion", game.IntentParanoia},
}

var emotions = []game.Emotion{game.EmotionFear, game.EmotionAnger, game.EmotionShame, game.EmotionConfidence, game.EmotionTilt}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// fuzzy folds raw onto the nearest known variant: exact match, then synonym,
// then substring containment either way, then the synonym that appears first
// in raw (longer word on a tie). Anything else yields def.
func fuzzy[T ~string](raw string, known []T, synonyms []synonym[T], def T) T {
	s := normalize(raw)
	if s == "" {
		return def
	}
	for _, k := range known {
		if string(k) == s {
			return k
		}
	}
	for _, syn := range synonyms {
		if syn.word == s {
			return syn.to
		}
	}
	for _, k := range known {
		if strings.Contains(s, string(k)) || strings.Contains(string(k), s) {
			return k
		}
	}
	best, at := -1, len(s)
	for i, syn := range synonyms {
		idx := strings.Index(s, syn.word)
		if idx < 0 {
			continue
		}
		if idx < at || (idx == at && len(syn.word) > len(synonyms[best].word)) {
			best, at = i, idx
		}
	}
	if best >= 0 {
		return synonyms[best].to
	}
	return def
}

func ParseActionKind(raw string) ActionKind {
	k := fuzzy(raw, actionKinds, actionSynonyms, KindPass)
	if k == KindPass {
		return KindCheck
	}
	return k
}

func ParseKinetic(raw string) KineticIntent {
	return fuzzy(raw, kinetics, nil, KineticDiscardPressure)
}

func ParseEmotionalIntent(raw string) game.EmotionalIntent {
	return fuzzy(raw, emotionals, emotionalSynonyms, game.IntentFear)
}

func ParseManipulationPlan(raw string) ManipulationPlan {
	return fuzzy(raw, plans, nil, PlanThreatFraming)
}

func ParseDeliveryChannel(raw string) DeliveryChannel {
	return fuzzy(raw, channels, nil, ChannelPublic)
}

func ParseIntentKind(raw string) game.IntentKind {
	return fuzzy(raw, intents, intentSynonyms, game.IntentNone)
}

func ParseEmotion(raw string) game.Emotion {
	return fuzzy(raw, emotions, emotionSynonyms, game.EmotionFear)
}
