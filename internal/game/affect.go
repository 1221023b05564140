package game

import "math"

// EmotionalIntent is the emotion a raise-attack aims for.
type EmotionalIntent string

const (
	IntentFear           EmotionalIntent = "fear"
	IntentAnger          EmotionalIntent = "anger"
	IntentShame          EmotionalIntent = "shame"
	IntentTilt           EmotionalIntent = "tilt"
	IntentOverconfidence EmotionalIntent = "overconfidence"
	IntentParanoia       EmotionalIntent = "paranoia"
)

type IntentKind string

const (
	IntentAttack       IntentKind = "attack"
	IntentAssist       IntentKind = "assist"
	IntentGuard        IntentKind = "guard"
	IntentSelfRegulate IntentKind = "self_regulate"
	IntentNone         IntentKind = "none"
)

const (
	EmotionCap         = 0.6
	MaxAttackDelta     = 0.25
	MaxChatterDelta    = 0.15
	MaxUnpairedAssist  = 0.08
	DefaultAffectSpend = 10.0
	AssistWeight       = 0.6
	AttackStressMult   = 18.0
	AssistStressMult   = 10.0
	ChatterStressMult  = 8.0
	GuardConversion    = 0.8
	noiseSpan          = 5.0
)

// Noise supplies uniform values in [0,1). *rand.Rand satisfies it.
type Noise interface {
	Float64() float64
}

type Intent struct {
	PlayerID  string     `json:"player_id"`
	Kind      IntentKind `json:"intent"`
	TargetID  string     `json:"target_player_id,omitempty"`
	Emotion   Emotion    `json:"emotion,omitempty"`
	Spend     float64    `json:"focus_spend"`
	SupportID string     `json:"support_player_id,omitempty"`
}

type AffectContext struct {
	Pot         int
	StakeUnit   int
	PlayerCount int
	Noise       Noise
}

type AffectResult struct {
	Kind         IntentKind          `json:"kind"`
	ActorID      string              `json:"actor_player_id"`
	TargetID     string              `json:"target_player_id,omitempty"`
	Emotion      Emotion             `json:"emotion,omitempty"`
	Assistants   []string            `json:"assistants,omitempty"`
	Spent        float64             `json:"focus_spent"`
	TeamPower    float64             `json:"team_power,omitempty"`
	Stake        float64             `json:"stake_multiplier,omitempty"`
	AttackScore  float64             `json:"attack_score,omitempty"`
	Defense      float64             `json:"defense,omitempty"`
	RawDelta     float64             `json:"raw_delta,omitempty"`
	AppliedDelta float64             `json:"applied_delta"`
	Resistance   float64             `json:"resistance_bonus,omitempty"`
	Regulated    map[Emotion]float64 `json:"regulated,omitempty"`
	Note         string              `json:"note,omitempty"`
}

// StakeMultiplier scales attack power with the pot relative to the forced stake.
func StakeMultiplier(pot, stakeUnit, players int) float64 {
	if stakeUnit <= 0 || players <= 0 {
		return 1
	}
	return clamp(1+0.2*float64(pot)/float64(stakeUnit*players), 1, 1.8)
}

func AffectPower(p *Player, spent float64) float64 {
	v := 0.45*float64(p.SkillAffect) + 0.35*float64(p.Will) + 0.20*spent - 0.25*p.Stress
	return math.Max(0, v)
}

func Defense(p *Player) float64 {
	return float64(p.Will) + p.ResistanceBonus + 0.3*float64(p.SkillAffect)
}

// ApplyShift applies d to one emotion, clipped first by the per-hand headroom
// and then by the emotion range. It returns the delta actually applied.
func ApplyShift(p *Player, em Emotion, d float64) float64 {
	if p.HandShift == nil {
		p.HandShift = map[Emotion]float64{}
	}
	shift := p.HandShift[em]
	target := clamp(shift+d, -EmotionCap, EmotionCap)
	applied := p.Emotions.Add(em, target-shift)
	p.HandShift[em] = shift + applied
	return applied
}

// direction returns the sign an attack on em should push. Attacks lower confidence.
func direction(em Emotion) float64 {
	if em == EmotionConfidence {
		return -1
	}
	return 1
}

func noise(n Noise) float64 {
	if n == nil {
		return 0
	}
	return n.Float64()*2*noiseSpan - noiseSpan
}

type plannedIntent struct {
	Intent
	actor  *Player
	target *Player
	spend  float64
}

// ResolveAffect settles one round of affect intents. Guards and self-regulation
// land first, then attacks with their paired assists, then unpaired assists.
func ResolveAffect(t *Table, intents []Intent, ctx AffectContext) []AffectResult {
	planned := make([]*plannedIntent, 0, len(intents))
	results := []AffectResult{}
	for _, in := range intents {
		pi, res := plan(t, in)
		if res != nil {
			results = append(results, *res)
			continue
		}
		planned = append(planned, pi)
	}

	for _, pi := range planned {
		switch pi.Kind {
		case IntentGuard:
			results = append(results, resolveGuard(pi))
		case IntentSelfRegulate:
			results = append(results, resolveSelfRegulate(pi))
		}
	}

	stake := StakeMultiplier(ctx.Pot, ctx.StakeUnit, ctx.PlayerCount)
	attacks := []*plannedIntent{}
	for _, pi := range planned {
		if pi.Kind == IntentAttack {
			attacks = append(attacks, pi)
		}
	}
	crew := map[*plannedIntent][]*plannedIntent{}
	unpaired := []*plannedIntent{}
	for _, pi := range planned {
		if pi.Kind != IntentAssist {
			continue
		}
		if lead := pairAssist(pi, attacks); lead != nil {
			crew[lead] = append(crew[lead], pi)
		} else {
			unpaired = append(unpaired, pi)
		}
	}

	for _, lead := range attacks {
		results = append(results, resolveAttack(lead, crew[lead], stake, ctx.Noise))
	}
	for _, pi := range unpaired {
		results = append(results, resolveUnpairedAssist(pi))
	}
	return results
}

func plan(t *Table, in Intent) (*plannedIntent, *AffectResult) {
	actor := t.Find(in.PlayerID)
	if actor == nil || !actor.Alive() || in.Kind == IntentNone || in.Kind == "" {
		return nil, &AffectResult{Kind: IntentNone, ActorID: in.PlayerID}
	}
	// Folded players may still calm themselves.
	if !actor.InHand && in.Kind != IntentSelfRegulate {
		return nil, &AffectResult{Kind: IntentNone, ActorID: in.PlayerID, Note: "not_in_hand"}
	}
	pi := &plannedIntent{Intent: in, actor: actor}
	if in.Kind == IntentAttack || in.Kind == IntentAssist {
		target := t.Find(in.TargetID)
		if target == nil || !target.InHand || target == actor {
			return nil, &AffectResult{Kind: IntentNone, ActorID: in.PlayerID, TargetID: in.TargetID, Note: "invalid_target"}
		}
		pi.target = target
		if pi.Emotion == "" {
			pi.Emotion = EmotionFear
		}
	}
	req := in.Spend
	if req <= 0 {
		req = DefaultAffectSpend
	}
	pi.spend = math.Min(req, actor.MaxAffectSpend())
	if pi.spend < 0 {
		pi.spend = 0
	}
	return pi, nil
}

func spendFocus(p *Player, amount float64) {
	p.Focus = clamp(p.Focus-amount, 0, FocusMax)
}

func resolveGuard(pi *plannedIntent) AffectResult {
	spendFocus(pi.actor, pi.spend)
	bonus := GuardConversion * pi.spend
	pi.actor.ResistanceBonus += bonus
	return AffectResult{
		Kind:       IntentGuard,
		ActorID:    pi.actor.ID,
		Spent:      pi.spend,
		Resistance: pi.actor.ResistanceBonus,
	}
}

func resolveSelfRegulate(pi *plannedIntent) AffectResult {
	p := pi.actor
	spendFocus(p, pi.spend)
	reg := map[Emotion]float64{
		EmotionTilt:       ApplyShift(p, EmotionTilt, -math.Min(0.2, pi.spend/100)),
		EmotionFear:       ApplyShift(p, EmotionFear, -math.Min(0.15, pi.spend/120)),
		EmotionConfidence: ApplyShift(p, EmotionConfidence, math.Min(0.1, pi.spend/150)),
	}
	p.AddStress(-0.5 * pi.spend)
	return AffectResult{
		Kind:      IntentSelfRegulate,
		ActorID:   p.ID,
		Spent:     pi.spend,
		Regulated: reg,
	}
}

func pairAssist(assist *plannedIntent, attacks []*plannedIntent) *plannedIntent {
	if assist.SupportID != "" {
		for _, a := range attacks {
			if a.actor.ID == assist.SupportID && a.target == assist.target && a.Emotion == assist.Emotion {
				return a
			}
		}
	}
	for _, a := range attacks {
		if a.target == assist.target && a.Emotion == assist.Emotion && a.actor != assist.actor {
			return a
		}
	}
	return nil
}

func resolveAttack(lead *plannedIntent, assists []*plannedIntent, stake float64, n Noise) AffectResult {
	leadPower := AffectPower(lead.actor, lead.spend)
	support := 0.0
	names := []string{}
	for _, a := range assists {
		support += AffectPower(a.actor, a.spend)
		names = append(names, a.actor.ID)
	}
	team := math.Min(leadPower+AssistWeight*support, 2*leadPower)

	spendFocus(lead.actor, lead.spend)
	lead.actor.AddStress(0.1 * lead.spend)
	lead.actor.Exposure++
	for _, a := range assists {
		spendFocus(a.actor, a.spend)
		a.actor.AddStress(0.05 * a.spend)
	}

	target := lead.target
	attack := team*stake + noise(n)
	defense := Defense(target) + noise(n)
	raw := clamp((attack-defense)/120, -MaxAttackDelta, MaxAttackDelta)
	applied := ApplyShift(target, lead.Emotion, direction(lead.Emotion)*raw)
	target.AddStress(AttackStressMult * math.Abs(applied))
	if raw > 0 {
		lead.actor.Tempo++
	}
	return AffectResult{
		Kind:         IntentAttack,
		ActorID:      lead.actor.ID,
		TargetID:     target.ID,
		Emotion:      lead.Emotion,
		Assistants:   names,
		Spent:        lead.spend,
		TeamPower:    round2(team),
		Stake:        round2(stake),
		AttackScore:  round2(attack),
		Defense:      round2(defense),
		RawDelta:     raw,
		AppliedDelta: applied,
	}
}

func resolveUnpairedAssist(pi *plannedIntent) AffectResult {
	power := AffectPower(pi.actor, pi.spend)
	spendFocus(pi.actor, pi.spend)
	raw := clamp(0.06*power/100, 0, MaxUnpairedAssist)
	applied := ApplyShift(pi.target, pi.Emotion, direction(pi.Emotion)*raw)
	pi.target.AddStress(AssistStressMult * math.Abs(applied))
	return AffectResult{
		Kind:         IntentAssist,
		ActorID:      pi.actor.ID,
		TargetID:     pi.target.ID,
		Emotion:      pi.Emotion,
		Spent:        pi.spend,
		RawDelta:     raw,
		AppliedDelta: applied,
		Note:         "unpaired",
	}
}

type bump struct {
	em Emotion
	d  float64
}

var directBumps = map[EmotionalIntent][]bump{
	IntentFear:           {{EmotionFear, 0.2}, {EmotionConfidence, -0.1}},
	IntentAnger:          {{EmotionAnger, 0.2}, {EmotionTilt, 0.1}},
	IntentShame:          {{EmotionShame, 0.2}, {EmotionConfidence, -0.1}},
	IntentTilt:           {{EmotionTilt, 0.25}},
	IntentOverconfidence: {{EmotionConfidence, 0.2}, {EmotionTilt, 0.1}},
	IntentParanoia:       {{EmotionFear, 0.15}, {EmotionTilt, 0.15}},
}

// ApplyDirectAttack applies the fixed raise-attack bumps. These do not count
// toward HandShift and are not limited by EmotionCap.
func ApplyDirectAttack(target *Player, a Attack) map[Emotion]float64 {
	out := map[Emotion]float64{}
	for _, b := range directBumps[a.Intent] {
		out[b.em] += target.Emotions.Add(b.em, b.d)
	}
	target.Exposure++
	if a.Kinetic == "tempo_swing" {
		target.Exposure++
	}
	return out
}

// ChatterFallback estimates a chatter line's effect without the provider.
func ChatterFallback(speaker, target *Player, n Noise) float64 {
	v := 0.05 + float64(speaker.SkillAffect-target.Will)/1000 + noise(n)/200
	return clamp(v, 0, MaxChatterDelta)
}

// ApplyChatter lands a chatter effect of magnitude d on target through the cap.
func ApplyChatter(target *Player, em Emotion, d float64) float64 {
	d = clamp(d, -MaxChatterDelta, MaxChatterDelta)
	applied := ApplyShift(target, em, direction(em)*d)
	target.AddStress(ChatterStressMult * math.Abs(applied))
	return applied
}
