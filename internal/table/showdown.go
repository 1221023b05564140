package table

import (
	"damage-game/internal/game"

	"github.com/rs/zerolog/log"
)

func (g *Game) showdown(h *handState) game.Allocation {
	t := h.t
	inHand := t.InHand()
	ev := showdown{HandNo: g.handNo, Walk: len(inHand) == 1}
	// Seat order decides who gets odd chips.
	contenders := make([]game.Contender, 0, len(h.dealt))
	for _, p := range t.Players {
		if p.Contribution == 0 && !p.InHand {
			continue
		}
		c := game.Contender{PlayerID: p.ID, Contribution: p.Contribution, InHand: p.InHand}
		if p.InHand && !ev.Walk {
			cards := append(append([]game.Card(nil), p.Hand...), t.Community...)
			rank, best := game.BestHand(cards)
			c.Rank = rank
			ev.Hands = append(ev.Hands, showdownHand{
				PlayerID: p.ID,
				Cards:    game.CardCodes(p.Hand),
				Best:     game.CardCodes(best),
				Rank:     rank,
			})
		}
		contenders = append(contenders, c)
	}
	g.events.Emit(EventShowdown, ev)

	if g.cfg.DeadChips {
		return game.AllocateDeadChips(contenders)
	}
	alloc := game.AllocatePots(contenders)
	if alloc.Unclaimed > 0 && len(inHand) > 0 {
		alloc.Payouts[inHand[0].ID] += alloc.Unclaimed
		alloc.Unclaimed = 0
	}
	return alloc
}

func (g *Game) outcome(h *handState, alloc game.Allocation) {
	winners := []string{}
	for _, p := range h.dealt {
		if won := alloc.Payouts[p.ID]; won > 0 {
			p.Bankroll += won
			winners = append(winners, p.ID)
		}
	}
	for _, p := range h.dealt {
		if g.cfg.EnableLives && p.InHand && alloc.Payouts[p.ID] == 0 && p.Lives > 0 {
			p.Lives--
			g.lifeEvent(p, "lost_showdown")
		}
		if g.cfg.EliminateOnBankrollZero && p.Bankroll == 0 && p.Lives > 0 {
			p.Lives = 0
			g.lifeEvent(p, "bankroll_zero")
		}
	}
	g.events.Emit(EventHandEnded, handEnded{
		HandNo:    g.handNo,
		Pot:       h.t.Pot,
		Payouts:   alloc.Payouts,
		Tranches:  alloc.Tranches,
		Unclaimed: alloc.Unclaimed,
		Winners:   winners,
		Players:   g.snapshots(),
	})
	log.Info().Str("game_id", g.cfg.GameID).Int("hand_no", g.handNo).Int("pot", h.t.Pot).Strs("winners", winners).
		Msg("hand ended")
}

func (g *Game) lifeEvent(p *game.Player, reason string) {
	kind := EventLifeLost
	if p.Lives <= 0 {
		kind = EventPlayerEliminated
	}
	g.events.Emit(kind, lifeEvent{HandNo: g.handNo, PlayerID: p.ID, RemainingLives: p.Lives, Reason: reason})
}
