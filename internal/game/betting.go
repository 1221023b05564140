package game

import "errors"

const (
	RejectProviderFailure  = "provider_failure"
	RejectSchemaValidation = "schema_validation_failed"
)

// ErrProviderFailure marks a decision that never reached the engine because the
// upstream model call failed.
var ErrProviderFailure = errors.New("provider_failure")

const MaxLaps = 2

type ActionResult struct {
	PlayerID      string              `json:"player_id"`
	Action        Action              `json:"action"`
	ToCall        int                 `json:"to_call"`
	Committed     int                 `json:"committed"`
	Pot           int                 `json:"pot"`
	Bankroll      int                 `json:"bankroll"`
	HighBet       int                 `json:"current_high_bet"`
	Substituted   bool                `json:"substituted,omitempty"`
	DirectEffects map[Emotion]float64 `json:"direct_effects,omitempty"`
}

type BettingOptions struct {
	DirectAttacks bool
	MaxLaps       int
}

// BettingHooks connects a betting round to its decision source and observers.
// Decide is required; the rest may be nil.
type BettingHooks struct {
	Decide   func(t *Table, p *Player, legal []ActionType) (Action, error)
	Rejected func(p *Player, proposed Action, reason string, err error)
	Resolved func(p *Player, res ActionResult)
}

// BettingRound runs up to opts.MaxLaps laps over order. A second lap only runs
// when the first one increased the high bet. It returns the number of laps played.
func BettingRound(t *Table, order []*Player, opts BettingOptions, hooks BettingHooks) int {
	maxLaps := opts.MaxLaps
	if maxLaps <= 0 {
		maxLaps = MaxLaps
	}
	laps := 0
	for laps < maxLaps {
		if t.CountInHand() <= 1 || countCanAct(order) == 0 {
			break
		}
		laps++
		raised := false
		for _, p := range order {
			if t.CountInHand() <= 1 {
				return laps
			}
			if !p.InHand || p.Bankroll == 0 {
				continue
			}
			if countCanAct(order) <= 1 && t.ToCall(p) == 0 {
				continue
			}
			if takeTurn(t, p, opts, hooks) {
				raised = true
			}
		}
		if !raised {
			break
		}
	}
	return laps
}

func countCanAct(order []*Player) int {
	n := 0
	for _, p := range order {
		if p.InHand && p.Bankroll > 0 {
			n++
		}
	}
	return n
}

func takeTurn(t *Table, p *Player, opts BettingOptions, hooks BettingHooks) bool {
	legal := LegalActions(t, p)
	proposed, err := hooks.Decide(t, p, legal)
	substituted := false
	if err == nil {
		err = Validate(t, p, proposed, opts.DirectAttacks)
	}
	if err != nil {
		reason := RejectSchemaValidation
		if errors.Is(err, ErrProviderFailure) {
			reason = RejectProviderFailure
		}
		if hooks.Rejected != nil {
			hooks.Rejected(p, proposed, reason, err)
		}
		p.Exposure++
		proposed = SafeDefault(t, p)
		substituted = true
	}
	res, raised := apply(t, p, proposed, opts)
	res.Substituted = substituted
	if hooks.Resolved != nil {
		hooks.Resolved(p, res)
	}
	return raised
}

func apply(t *Table, p *Player, a Action, opts BettingOptions) (ActionResult, bool) {
	toCall := t.ToCall(p)
	res := ActionResult{PlayerID: p.ID, Action: a, ToCall: toCall}
	raised := false
	switch a.Type {
	case ActionFold:
		p.InHand = false
		p.Exposure++
	case ActionCheck:
		if p.Exposure > 0 {
			p.Exposure--
		}
	case ActionCall:
		before := p.Bankroll
		res.Committed = t.Commit(p, toCall, true)
		if before > 0 {
			p.AddStress(10 * float64(res.Committed) / float64(before))
		}
	case ActionRaise:
		want := toCall + max(t.MinRaise, a.Amount)
		high := t.HighBet
		res.Committed = t.Commit(p, want, true)
		raised = t.HighBet > high
		p.Tempo++
		if opts.DirectAttacks && a.Attack != nil {
			if target := t.Find(a.Attack.TargetID); target != nil && target != p && target.Alive() {
				res.DirectEffects = ApplyDirectAttack(target, *a.Attack)
			}
		}
	}
	res.Pot = t.Pot
	res.Bankroll = p.Bankroll
	res.HighBet = t.HighBet
	return res, raised
}
