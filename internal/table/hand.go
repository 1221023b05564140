package table

import (
	"context"
	"errors"

	"damage-game/internal/agent"
	"damage-game/internal/game"
	"damage-game/internal/game/viewmodel"

	"github.com/rs/zerolog/log"
)

// handState is scoped to one hand and discarded at its end.
type handState struct {
	ctx   context.Context
	t     *game.Table
	dealt []*game.Player
}

func (g *Game) phase(phase string, street game.Street) {
	g.events.Emit(EventPhaseChanged, phaseChanged{HandNo: g.handNo, Phase: phase, Street: string(street)})
}

func (g *Game) playHand(ctx context.Context) {
	h := g.setup(ctx)

	g.phase(PhaseAffect, h.t.Street)
	g.affectRound(h, h.dealt, false, PhaseAffect)

	if g.cfg.Discussion {
		g.phase(PhaseDiscussion, h.t.Street)
		for _, p := range h.dealt {
			if p.InHand {
				g.chatter(h, p, PhaseDiscussion)
			}
		}
	}

	g.betting(h)

	g.phase(PhaseShowdown, h.t.Street)
	alloc := g.showdown(h)

	g.phase(PhaseOutcome, h.t.Street)
	g.outcome(h, alloc)
}

func (g *Game) setup(ctx context.Context) *handState {
	for _, p := range g.players {
		p.ResetForHand()
	}
	if !g.players[g.button].CanPlay() {
		g.button = g.after(g.button)
	}
	t := game.NewTable(g.players, g.cfg.Ante, g.cfg.MinRaise)
	h := &handState{ctx: ctx, t: t}
	for _, p := range g.orderFrom(g.after(g.button)) {
		if p.InHand {
			h.dealt = append(h.dealt, p)
		}
	}
	g.phase(PhaseSetup, "")
	g.events.Emit(EventHandStarted, handStarted{
		HandNo:    g.handNo,
		Button:    g.players[g.button].ID,
		CardStyle: g.cfg.CardStyle,
		Players:   g.snapshots(),
	})
	log.Info().Str("game_id", g.cfg.GameID).Int("hand_no", g.handNo).Int("dealt", len(h.dealt)).Msg("hand started")

	if g.cfg.CardStyle == CardStyleHoldem {
		t.StartStreet(game.StreetPreFlop)
	} else {
		t.StartStreet(game.StreetDraw)
	}
	if g.cfg.Ante > 0 {
		for _, p := range h.dealt {
			g.force(t, p, "ante", g.cfg.Ante, false)
		}
	}
	if g.cfg.Blinds && len(h.dealt) >= 2 {
		g.force(t, h.dealt[0], "small_blind", g.cfg.SmallBlind, true)
		g.force(t, h.dealt[1], "big_blind", g.cfg.BigBlind, true)
	}

	deck := game.NewDeck()
	deck.Shuffle(g.rng)
	holeCards := 5
	if g.cfg.CardStyle == CardStyleHoldem {
		holeCards = 2
	}
	for _, p := range h.dealt {
		p.Hand = deck.Deal(holeCards)
		g.events.Emit(EventCardsDealt, cardsDealt{HandNo: g.handNo, PlayerID: p.ID, Cards: game.CardCodes(p.Hand)})
	}
	if g.cfg.CardStyle == CardStyleHoldem {
		t.SetBoard(deck.Deal(5))
	}
	return h
}

func (g *Game) force(t *game.Table, p *game.Player, kind string, amount int, towardBet bool) {
	paid := t.Commit(p, amount, towardBet)
	g.events.Emit(EventForcedBet, forcedBet{HandNo: g.handNo, PlayerID: p.ID, Kind: kind, Amount: paid})
}

// affectRound collects one intent per eligible player and resolves them
// together. selfOnly limits players to self-regulation.
func (g *Game) affectRound(h *handState, who []*game.Player, selfOnly bool, phase string) {
	intents := make([]game.Intent, 0, len(who))
	for _, p := range who {
		if !p.Alive() || (!selfOnly && !p.InHand) {
			continue
		}
		view := viewmodel.BuildSeatState(h.t, p, g.handNo, nil)
		in, err := g.decider.DecideIntent(h.ctx, view, selfOnly)
		ev := affectIntent{HandNo: g.handNo, Phase: phase}
		if err != nil {
			in = game.Intent{PlayerID: p.ID, Kind: game.IntentNone}
			ev.Error = err.Error()
		}
		in.PlayerID = p.ID
		ev.Intent = in
		g.events.Emit(EventAffectIntent, ev)
		intents = append(intents, in)
	}
	if len(intents) == 0 {
		return
	}
	results := game.ResolveAffect(h.t, intents, game.AffectContext{
		Pot:         h.t.Pot,
		StakeUnit:   g.cfg.StakeUnit(),
		PlayerCount: h.t.CountInHand(),
		Noise:       g.rng,
	})
	for _, r := range results {
		g.events.Emit(EventAffectResolved, affectResolved{HandNo: g.handNo, Phase: phase, Result: r})
	}
}

func (g *Game) chatter(h *handState, speaker *game.Player, phase string) {
	line, err := g.decider.Chatter(h.ctx, viewmodel.BuildSeatState(h.t, speaker, g.handNo, nil))
	if err != nil || line.Message == "" {
		if err != nil {
			log.Debug().Err(err).Str("player_id", speaker.ID).Msg("chatter skipped")
		}
		return
	}
	line.SpeakerID = speaker.ID
	g.events.Emit(EventChatterLine, chatterLine{HandNo: g.handNo, Phase: phase, Line: line})

	res := chatterResolved{HandNo: g.handNo, Phase: phase, Speaker: speaker.ID, Target: line.TargetID, Emotion: line.Emotion}
	target := h.t.Find(line.TargetID)
	if target == nil || target == speaker || !target.Alive() {
		res.Note = "invalid_target"
		g.events.Emit(EventChatterResolved, res)
		return
	}
	eff, err := g.decider.EvaluateChatter(h.ctx, viewmodel.BuildSeatState(h.t, target, g.handNo, nil), line)
	if err != nil {
		eff = agent.ChatterEffect{
			Emotion:  line.Emotion,
			Delta:    game.ChatterFallback(speaker, target, g.rng),
			Fallback: true,
		}
	}
	res.Emotion = eff.Emotion
	res.Delta = eff.Delta
	res.Reason = eff.Reason
	res.Fallback = eff.Fallback
	res.Applied = game.ApplyChatter(target, eff.Emotion, eff.Delta)
	g.events.Emit(EventChatterResolved, res)
}

func (g *Game) betting(h *handState) {
	if g.cfg.CardStyle != CardStyleHoldem {
		g.phase(PhaseBetting, h.t.Street)
		g.bettingRound(h, g.actionOrder(h, true))
		g.offturn(h)
		return
	}
	for i, st := range game.HoldemStreets {
		if h.t.CountInHand() <= 1 {
			return
		}
		if i > 0 {
			h.t.StartStreet(st.Street)
			if fresh := h.t.RevealTo(st.Board); len(fresh) > 0 {
				g.events.Emit(EventCommunityRevealed, communityRevealed{
					HandNo: g.handNo,
					Street: string(st.Street),
					Cards:  game.CardCodes(fresh),
					Board:  game.CardCodes(h.t.Community),
				})
			}
		}
		g.phase(PhaseBetting, st.Street)
		g.bettingRound(h, g.actionOrder(h, i == 0))
		g.offturn(h)
	}
}

// actionOrder starts left of the button, or left of the big blind on the
// first round when blinds are posted.
func (g *Game) actionOrder(h *handState, first bool) []*game.Player {
	order := h.dealt
	if first && g.cfg.Blinds && len(order) > 2 {
		order = append(append([]*game.Player(nil), order[2:]...), order[:2]...)
	}
	return order
}

func (g *Game) bettingRound(h *handState, order []*game.Player) {
	street := string(h.t.Street)
	game.BettingRound(h.t, order, game.BettingOptions{DirectAttacks: g.cfg.DirectAttacks}, game.BettingHooks{
		Decide: func(t *game.Table, p *game.Player, legal []game.ActionType) (game.Action, error) {
			view := viewmodel.BuildSeatState(t, p, g.handNo, legal)
			env, err := g.decider.DecideAction(h.ctx, view)
			env.PlayerID = p.ID
			g.events.Emit(EventActionSubmitted, actionSubmitted{HandNo: g.handNo, Street: street, Action: env})
			return env.ToAction(), err
		},
		Rejected: func(p *game.Player, proposed game.Action, reason string, err error) {
			ev := actionRejected{
				HandNo:   g.handNo,
				Street:   street,
				PlayerID: p.ID,
				Reason:   reason,
				Detail:   err.Error(),
				Proposed: proposed,
			}
			var rr *agent.RejectedReply
			if errors.As(err, &rr) {
				ev.RawResponse = rr.Raw
			}
			log.Warn().Str("player_id", p.ID).Str("reason", reason).Err(err).Msg("action rejected")
			g.events.Emit(EventActionRejected, ev)
		},
		Resolved: func(p *game.Player, res game.ActionResult) {
			log.Debug().Str("player_id", p.ID).Str("action", string(res.Action.Type)).Int("committed", res.Committed).
				Int("pot", res.Pot).Msg("action resolved")
			g.events.Emit(EventActionResolved, actionResolved{HandNo: g.handNo, Street: street, ActionResult: res})
		},
	})
}

// offturn gives folded players a window to self-regulate and heckle.
func (g *Game) offturn(h *handState) {
	if !g.cfg.OffturnSelfRegulate && !g.cfg.OffturnChatter {
		return
	}
	var out []*game.Player
	for _, p := range h.dealt {
		if !p.InHand && p.Alive() {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return
	}
	g.phase(PhaseOffturn, h.t.Street)
	if g.cfg.OffturnSelfRegulate {
		g.affectRound(h, out, true, PhaseOffturn)
	}
	if g.cfg.OffturnChatter {
		for _, p := range out {
			g.chatter(h, p, PhaseOffturn)
		}
	}
}
