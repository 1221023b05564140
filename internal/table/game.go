package table

import (
	"context"
	"math/rand/v2"
	"sort"

	"damage-game/internal/agent"
	"damage-game/internal/game"
	"damage-game/internal/game/viewmodel"
	"damage-game/internal/provider"
	"damage-game/internal/randutil"

	"github.com/rs/zerolog/log"
)

// Decider supplies every choice a seat makes. agent.LLMDecider implements it.
type Decider interface {
	DecideAction(ctx context.Context, view viewmodel.SeatStateView) (agent.ActionEnvelope, error)
	DecideIntent(ctx context.Context, view viewmodel.SeatStateView, selfOnly bool) (game.Intent, error)
	Chatter(ctx context.Context, view viewmodel.SeatStateView) (agent.ChatterLine, error)
	EvaluateChatter(ctx context.Context, listener viewmodel.SeatStateView, line agent.ChatterLine) (agent.ChatterEffect, error)
}

type Emitter interface {
	Emit(eventType string, payload any)
}

type tokenSource interface {
	Tokens() *provider.TokenMonitor
}

const (
	EndNoOpponents = "fewer_than_two_players"
	EndTurnCap     = "turn_cap"
	EndSurvivors   = "survivors_reached"
	EndHandCap     = "hand_cap"
	EndCancelled   = "cancelled"
)

type Summary struct {
	GameID  string                `json:"game_id"`
	Reason  string                `json:"reason"`
	Hands   int                   `json:"hands_played"`
	Winner  string                `json:"winner_player_id"`
	Ranking []game.PlayerSnapshot `json:"final_state"`
}

// RankingIDs lists player ids best first.
func (s Summary) RankingIDs() []string {
	out := make([]string, len(s.Ranking))
	for i, p := range s.Ranking {
		out[i] = p.PlayerID
	}
	return out
}

// Game runs one table from seating to its terminal condition. It is not safe
// for concurrent use.
type Game struct {
	cfg     Config
	decider Decider
	events  Emitter
	rng     *rand.Rand
	players []*game.Player
	button  int
	handNo  int
}

func New(cfg Config, d Decider, events Emitter) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if events == nil {
		events = discard{}
	}
	g := &Game{
		cfg:     cfg,
		decider: d,
		events:  events,
		rng:     randutil.New(cfg.Seed),
	}
	lives := cfg.Lives
	if !cfg.EnableLives && lives < 1 {
		lives = 1
	}
	for i, s := range cfg.Seats {
		g.players = append(g.players, game.NewPlayer(i, game.PlayerSetup{
			ID:          s.ID,
			Model:       s.Model,
			Lives:       lives,
			Bankroll:    cfg.StartingBankroll,
			Will:        50 + g.rng.IntN(21),
			SkillAffect: 45 + g.rng.IntN(21),
		}))
	}
	return g, nil
}

type discard struct{}

func (discard) Emit(string, any) {}

func (g *Game) Players() []*game.Player {
	return g.players
}

func (g *Game) Run(ctx context.Context) Summary {
	g.emitStarted()
	log.Info().Str("game_id", g.cfg.GameID).Int("players", len(g.players)).Str("card_style", g.cfg.CardStyle).
		Msg("game started")
	reason := ""
	for {
		if ctx.Err() != nil {
			reason = EndCancelled
			break
		}
		var more bool
		if more, reason = g.shouldContinue(); !more {
			break
		}
		g.handNo++
		g.playHand(ctx)
		g.emitTurnSummary()
		g.advanceButton()
	}
	sum := Summary{GameID: g.cfg.GameID, Reason: reason, Hands: g.handNo, Ranking: g.ranking()}
	if len(sum.Ranking) > 0 {
		sum.Winner = sum.Ranking[0].PlayerID
	}
	ended := gameEnded{Reason: reason, Hands: g.handNo, Winner: sum.Winner, FinalState: sum.Ranking}
	if ts, ok := g.decider.(tokenSource); ok {
		stats := ts.Tokens().Stats()
		ended.TokenStats = &stats
	}
	g.events.Emit(EventGameEnded, ended)
	log.Info().Str("game_id", g.cfg.GameID).Str("reason", reason).Int("hands", g.handNo).Str("winner", sum.Winner).
		Msg("game ended")
	return sum
}

func (g *Game) playable() int {
	n := 0
	for _, p := range g.players {
		if p.CanPlay() {
			n++
		}
	}
	return n
}

func (g *Game) shouldContinue() (bool, string) {
	left := g.playable()
	switch {
	case left < 2:
		return false, EndNoOpponents
	case g.handNo >= MaxHands:
		return false, EndHandCap
	case g.cfg.OngoingTable:
		return true, ""
	case g.handNo < g.cfg.Hands:
		return true, ""
	case g.cfg.ContinueUntilSurvivors > 0:
		if left > g.cfg.ContinueUntilSurvivors {
			return true, ""
		}
		return false, EndSurvivors
	}
	return false, EndTurnCap
}

// after returns the index of the next player who can be dealt in, after i.
func (g *Game) after(i int) int {
	n := len(g.players)
	for step := 1; step <= n; step++ {
		j := (i + step) % n
		if g.players[j].CanPlay() {
			return j
		}
	}
	return i
}

func (g *Game) advanceButton() {
	g.button = g.after(g.button)
}

// orderFrom lists every seat starting at index start.
func (g *Game) orderFrom(start int) []*game.Player {
	n := len(g.players)
	out := make([]*game.Player, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, g.players[(start+k)%n])
	}
	return out
}

// ranking orders by lives, then bankroll, then seat.
func (g *Game) ranking() []game.PlayerSnapshot {
	ps := append([]*game.Player(nil), g.players...)
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Lives != ps[j].Lives {
			return ps[i].Lives > ps[j].Lives
		}
		if ps[i].Bankroll != ps[j].Bankroll {
			return ps[i].Bankroll > ps[j].Bankroll
		}
		return ps[i].Seat < ps[j].Seat
	})
	out := make([]game.PlayerSnapshot, len(ps))
	for i, p := range ps {
		out[i] = p.Snapshot()
	}
	return out
}

func (g *Game) snapshots() []game.PlayerSnapshot {
	out := make([]game.PlayerSnapshot, len(g.players))
	for i, p := range g.players {
		out[i] = p.Snapshot()
	}
	return out
}

func (g *Game) emitStarted() {
	seats := make([]seatInfo, len(g.players))
	for i, p := range g.players {
		seats[i] = seatInfo{
			PlayerID:    p.ID,
			Seat:        p.Seat,
			Model:       p.Model,
			Will:        p.Will,
			SkillAffect: p.SkillAffect,
			Lives:       p.Lives,
			Bankroll:    p.Bankroll,
		}
	}
	c := g.cfg
	ev := gameStarted{
		GameID:           c.GameID,
		Seed:             c.Seed,
		CardStyle:        c.CardStyle,
		Hands:            c.Hands,
		Ante:             c.Ante,
		MinRaise:         c.MinRaise,
		Blinds:           c.Blinds,
		EnableLives:      c.EnableLives,
		DirectAttacks:    c.DirectAttacks,
		Discussion:       c.Discussion,
		OngoingTable:     c.OngoingTable,
		ContinueUntil:    c.ContinueUntilSurvivors,
		StartingBankroll: c.StartingBankroll,
		Players:          seats,
	}
	if c.Blinds {
		ev.SmallBlind, ev.BigBlind = c.SmallBlind, c.BigBlind
	}
	g.events.Emit(EventGameStarted, ev)
}

func (g *Game) emitTurnSummary() {
	ts, ok := g.decider.(tokenSource)
	if !ok {
		return
	}
	tm := ts.Tokens()
	warning := tm.ContextWarning(g.cfg.ContextWindow)
	if warning != "" {
		log.Warn().Str("game_id", g.cfg.GameID).Msg(warning)
	}
	g.events.Emit(EventTurnSummary, turnSummary{
		HandNo:         g.handNo,
		TokenStats:     tm.Stats(),
		TokenByModel:   tm.StatsByModel(),
		ContextWarning: warning,
	})
}
