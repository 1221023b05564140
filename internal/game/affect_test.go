package game

import (
	"math"
	rand "math/rand/v2"
	"testing"
)

type fixedNoise float64

func (f fixedNoise) Float64() float64 { return float64(f) }

func affectTable(n int) *Table {
	return NewTable(seatPlayers(n, 200), 10, 10)
}

func TestStakeMultiplierBounds(t *testing.T) {
	if got := StakeMultiplier(0, 10, 2); got != 1 {
		t.Fatalf("empty pot should give 1.0, got %v", got)
	}
	if got := StakeMultiplier(100, 10, 2); got != 1.8 {
		t.Fatalf("large pot should cap at 1.8, got %v", got)
	}
	if got := StakeMultiplier(50, 10, 5); math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("expected 1.2, got %v", got)
	}
	if got := StakeMultiplier(50, 0, 5); got != 1 {
		t.Fatalf("zero stake unit should give 1.0, got %v", got)
	}
}

func TestApplyShiftRespectsCap(t *testing.T) {
	p := NewPlayer(0, PlayerSetup{ID: "a", Bankroll: 10})
	total := 0.0
	for i := 0; i < 10; i++ {
		total += ApplyShift(p, EmotionTilt, 0.25)
	}
	if math.Abs(total-EmotionCap) > 1e-9 || math.Abs(p.HandShift[EmotionTilt]-EmotionCap) > 1e-9 {
		t.Fatalf("expected shift capped at %v, got %v (%v)", EmotionCap, p.HandShift[EmotionTilt], total)
	}
	if got := ApplyShift(p, EmotionTilt, -0.3); math.Abs(got+0.3) > 1e-9 {
		t.Fatalf("reverse shift should apply fully, got %v", got)
	}
}

func TestApplyShiftClampsEmotionRange(t *testing.T) {
	p := NewPlayer(0, PlayerSetup{ID: "a", Bankroll: 10})
	p.Emotions.Fear = 0.9
	if got := ApplyShift(p, EmotionFear, 0.25); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("expected 0.1 of headroom, got %v", got)
	}
	if p.Emotions.Fear != 1 || math.Abs(p.HandShift[EmotionFear]-0.1) > 1e-9 {
		t.Fatalf("unexpected state fear=%v shift=%v", p.Emotions.Fear, p.HandShift[EmotionFear])
	}
}

func TestResolveAffectCapsAcrossRounds(t *testing.T) {
	tb := affectTable(4)
	for _, p := range tb.Players {
		p.SkillAffect = 100
		p.Will = 100
	}
	target := tb.Players[3]
	target.Will = 1
	target.SkillAffect = 1
	rng := rand.New(rand.NewPCG(42, 7))
	for round := 0; round < 12; round++ {
		for _, p := range tb.Players {
			p.Focus = FocusMax
		}
		ResolveAffect(tb, []Intent{
			{PlayerID: "a", Kind: IntentAttack, TargetID: "d", Emotion: EmotionShame, Spend: 40},
			{PlayerID: "b", Kind: IntentAssist, TargetID: "d", Emotion: EmotionShame, Spend: 40, SupportID: "a"},
			{PlayerID: "c", Kind: IntentAttack, TargetID: "d", Emotion: EmotionConfidence, Spend: 40},
		}, AffectContext{Pot: 400, StakeUnit: 10, PlayerCount: 4, Noise: rng})
		for _, p := range tb.Players {
			for _, em := range AllEmotions {
				if math.Abs(p.HandShift[em]) > EmotionCap+1e-9 {
					t.Fatalf("round %d: %s shift %v exceeds cap", round, em, p.HandShift[em])
				}
				if v := p.Emotions.Get(em); v < -1 || v > 1 {
					t.Fatalf("round %d: %s=%v out of range", round, em, v)
				}
			}
			if p.Stress < 0 || p.Stress > StressMax || p.Focus < 0 {
				t.Fatalf("round %d: stress=%v focus=%v out of range", round, p.Stress, p.Focus)
			}
		}
	}
	if target.HandShift[EmotionShame] <= 0 || target.HandShift[EmotionConfidence] >= 0 {
		t.Fatalf("expected shame up and confidence down, got %v", target.HandShift)
	}
}

func attackOn(guarded bool) AffectResult {
	tb := affectTable(2)
	a := tb.Players[0]
	a.SkillAffect, a.Will = 100, 100
	intents := []Intent{{PlayerID: "a", Kind: IntentAttack, TargetID: "b", Emotion: EmotionFear, Spend: 30}}
	if guarded {
		intents = append(intents, Intent{PlayerID: "b", Kind: IntentGuard, Spend: 20})
	}
	results := ResolveAffect(tb, intents, AffectContext{Pot: 20, StakeUnit: 10, PlayerCount: 2, Noise: rand.New(rand.NewPCG(9, 9))})
	for _, r := range results {
		if r.Kind == IntentAttack {
			return r
		}
	}
	return AffectResult{}
}

func TestGuardReducesAppliedDelta(t *testing.T) {
	open := attackOn(false)
	guarded := attackOn(true)
	if guarded.Defense <= open.Defense {
		t.Fatalf("guard should raise defense: %v vs %v", guarded.Defense, open.Defense)
	}
	if guarded.AppliedDelta >= open.AppliedDelta {
		t.Fatalf("guarded delta %v should be below unguarded %v", guarded.AppliedDelta, open.AppliedDelta)
	}
}

func TestAssistPairsWithLead(t *testing.T) {
	tb := affectTable(3)
	results := ResolveAffect(tb, []Intent{
		{PlayerID: "a", Kind: IntentAttack, TargetID: "c", Emotion: EmotionAnger},
		{PlayerID: "b", Kind: IntentAssist, TargetID: "c", Emotion: EmotionAnger},
	}, AffectContext{Noise: fixedNoise(0.5)})
	if len(results) != 1 {
		t.Fatalf("expected the assist to fold into the attack, got %+v", results)
	}
	r := results[0]
	if len(r.Assistants) != 1 || r.Assistants[0] != "b" {
		t.Fatalf("expected b as assistant, got %+v", r)
	}
	lead := AffectPower(tb.Players[0], 0)
	if r.TeamPower <= 0 || r.TeamPower > 2*(lead+0.2*DefaultAffectSpend) {
		t.Fatalf("team power %v out of bounds", r.TeamPower)
	}
	if tb.Players[1].Focus != FocusMax-DefaultAffectSpend {
		t.Fatalf("assist should spend default focus, got %v", tb.Players[1].Focus)
	}
}

func TestUnpairedAssistIsSmallDirectEffect(t *testing.T) {
	tb := affectTable(3)
	results := ResolveAffect(tb, []Intent{
		{PlayerID: "b", Kind: IntentAssist, TargetID: "c", Emotion: EmotionTilt, Spend: 10},
	}, AffectContext{Noise: fixedNoise(0.5)})
	if len(results) != 1 || results[0].Note != "unpaired" {
		t.Fatalf("expected unpaired result, got %+v", results)
	}
	d := results[0].AppliedDelta
	if d <= 0 || d > MaxUnpairedAssist {
		t.Fatalf("unpaired delta %v out of range", d)
	}
	if got := tb.Players[2].Stress; math.Abs(got-AssistStressMult*d) > 1e-9 {
		t.Fatalf("expected stress %v, got %v", AssistStressMult*d, got)
	}
}

func TestSelfRegulateLowersTiltAndStress(t *testing.T) {
	tb := affectTable(2)
	p := tb.Players[0]
	p.Emotions.Tilt = 0.5
	p.Emotions.Fear = 0.4
	p.Stress = 30
	ResolveAffect(tb, []Intent{{PlayerID: "a", Kind: IntentSelfRegulate, Spend: 20}}, AffectContext{})
	if math.Abs(p.Emotions.Tilt-0.3) > 1e-9 {
		t.Fatalf("expected tilt 0.3, got %v", p.Emotions.Tilt)
	}
	if p.Emotions.Fear >= 0.4 || p.Emotions.Confidence <= 0 {
		t.Fatalf("unexpected emotions %+v", p.Emotions)
	}
	if p.Stress != 20 || p.Focus != FocusMax-20 {
		t.Fatalf("expected stress 20 focus 80, got %v/%v", p.Stress, p.Focus)
	}
}

func TestSpendNeverExceedsLimit(t *testing.T) {
	tb := affectTable(2)
	p := tb.Players[0]
	p.Focus = 12
	results := ResolveAffect(tb, []Intent{{PlayerID: "a", Kind: IntentGuard, Spend: 90}}, AffectContext{})
	if results[0].Spent != 12 || p.Focus != 0 {
		t.Fatalf("expected spend clamped to focus, got %+v", results[0])
	}
	p.Focus = FocusMax
	results = ResolveAffect(tb, []Intent{{PlayerID: "a", Kind: IntentGuard, Spend: 90}}, AffectContext{})
	if want := 20 + float64(p.SkillAffect)/5; results[0].Spent != want {
		t.Fatalf("expected spend clamped to skill limit, got %v", results[0].Spent)
	}
}

func TestInvalidTargetBecomesNone(t *testing.T) {
	tb := affectTable(2)
	tb.Players[1].InHand = false
	results := ResolveAffect(tb, []Intent{
		{PlayerID: "a", Kind: IntentAttack, TargetID: "b", Emotion: EmotionFear},
		{PlayerID: "a", Kind: IntentAttack, TargetID: "a", Emotion: EmotionFear},
	}, AffectContext{})
	for _, r := range results {
		if r.Kind != IntentNone || r.Note != "invalid_target" {
			t.Fatalf("expected invalid target, got %+v", r)
		}
	}
	if tb.Players[0].Focus != FocusMax {
		t.Fatalf("invalid intents must not spend focus")
	}
}

func TestApplyChatterBounded(t *testing.T) {
	p := NewPlayer(0, PlayerSetup{ID: "a", Bankroll: 10})
	got := ApplyChatter(p, EmotionAnger, 0.9)
	if got != MaxChatterDelta {
		t.Fatalf("expected chatter clamp %v, got %v", MaxChatterDelta, got)
	}
	if math.Abs(p.Stress-ChatterStressMult*MaxChatterDelta) > 1e-9 {
		t.Fatalf("unexpected stress %v", p.Stress)
	}
	speaker := NewPlayer(1, PlayerSetup{ID: "b", Bankroll: 10})
	if d := ChatterFallback(speaker, p, fixedNoise(0.5)); d < 0 || d > MaxChatterDelta {
		t.Fatalf("fallback %v out of range", d)
	}
}

func TestFoldedPlayerMaySelfRegulateOnly(t *testing.T) {
	tb := affectTable(3)
	folded := tb.Players[2]
	folded.InHand = false
	folded.Emotions.Tilt = 0.4
	res := ResolveAffect(tb, []Intent{
		{PlayerID: "c", Kind: IntentAttack, TargetID: "a", Emotion: EmotionFear},
		{PlayerID: "c", Kind: IntentSelfRegulate, Spend: 10},
	}, AffectContext{Pot: 30, StakeUnit: 10, PlayerCount: 2})
	if res[0].Kind != IntentNone || res[0].Note != "not_in_hand" {
		t.Fatalf("folded attack = %+v", res[0])
	}
	if res[1].Kind != IntentSelfRegulate || folded.Emotions.Tilt >= 0.4 {
		t.Fatalf("self-regulate = %+v, tilt %v", res[1], folded.Emotions.Tilt)
	}
}
