package tournament

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"damage-game/internal/config"
	"damage-game/internal/eventlog"
	"damage-game/internal/gameid"
	"damage-game/internal/logging"
	"damage-game/internal/table"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"
)

var ErrInvalidTournament = errors.New("invalid_tournament")

// Deps wires a runner to its decision source and event storage.
type Deps struct {
	// Decider builds the decision source for one table. models maps entrant
	// id to the model pinned for that seat.
	Decider func(gameID string, events table.Emitter, models map[string]string) table.Decider
	// Sink opens the event sink for a game or tournament id. A sink that is
	// also an io.Closer is closed when that log is complete.
	Sink  func(id string) (eventlog.Sink, error)
	Clock quartz.Clock
	NewID func(prefix string) string
}

type TableResult struct {
	TableID  string   `json:"table_id"`
	GameID   string   `json:"game_id,omitempty"`
	Players  []string `json:"players"`
	Ranking  []string `json:"ranking"`
	Advanced []string `json:"advanced"`
	Bye      bool     `json:"bye,omitempty"`
}

type RoundResult struct {
	Round    int           `json:"round"`
	Ante     int           `json:"ante"`
	Tables   []TableResult `json:"tables"`
	Advanced []string      `json:"advanced_players"`
}

type Result struct {
	TournamentID string        `json:"tournament_id"`
	Champion     string        `json:"champion_player_id"`
	Rounds       []RoundResult `json:"rounds"`
}

type Runner struct {
	cfg          config.TournamentConfig
	game         config.GameConfig
	defaultModel string
	models       map[string]string
	deps         Deps
}

func New(cfg config.TournamentConfig, game config.GameConfig, defaultModel string, playerModels map[string]string, deps Deps) (*Runner, error) {
	if cfg.SeatFormat != 6 && cfg.SeatFormat != 8 {
		return nil, fmt.Errorf("%w: seat_format must be 6 or 8, got %d", ErrInvalidTournament, cfg.SeatFormat)
	}
	if cfg.Entrants < 2 {
		return nil, fmt.Errorf("%w: entrants must be >= 2", ErrInvalidTournament)
	}
	if cfg.AdvancePerTable < 1 {
		return nil, fmt.Errorf("%w: advance_per_table must be >= 1", ErrInvalidTournament)
	}
	if cfg.StakesMultiplier <= 0 {
		return nil, fmt.Errorf("%w: stakes_multiplier must be > 0", ErrInvalidTournament)
	}
	if deps.Decider == nil || deps.Sink == nil {
		return nil, fmt.Errorf("%w: decider and sink are required", ErrInvalidTournament)
	}
	if deps.Clock == nil {
		deps.Clock = quartz.NewReal()
	}
	if deps.NewID == nil {
		deps.NewID = gameid.New
	}
	models := make(map[string]string, len(playerModels))
	for k, v := range playerModels {
		models[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return &Runner{cfg: cfg, game: game, defaultModel: defaultModel, models: models, deps: deps}, nil
}

func Entrants(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("E%d", i+1)
	}
	return out
}

// RoundAnte scales the base ante by mult^(round-1), never below 1.
func RoundAnte(base int, mult float64, round int) int {
	v := int(math.Round(float64(base) * math.Pow(mult, float64(round-1))))
	return max(1, v)
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(ids); i += size {
		out = append(out, ids[i:min(i+size, len(ids))])
	}
	return out
}

func (r *Runner) modelFor(id string) string {
	if m, ok := r.models[strings.ToUpper(id)]; ok {
		return m
	}
	return r.defaultModel
}

func closeSink(s eventlog.Sink) {
	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close event sink")
		}
	}
}

func (r *Runner) Run(ctx context.Context) (Result, error) {
	id := r.deps.NewID(gameid.PrefixTournament)
	sink, err := r.deps.Sink(id)
	if err != nil {
		return Result{}, err
	}
	defer closeSink(sink)
	events := eventlog.NewRecorder(id, sink, r.deps.Clock)
	lg := logging.Component("tournament")
	res := Result{TournamentID: id}

	active := Entrants(r.cfg.Entrants)
	events.Emit("tournament_started", map[string]any{
		"tournament_id":     id,
		"entrants":          len(active),
		"seat_format":       r.cfg.SeatFormat,
		"turns_per_game":    r.cfg.Turns,
		"advance_per_table": r.cfg.AdvancePerTable,
		"stakes_multiplier": r.cfg.StakesMultiplier,
	})
	lg.Info().Str("tournament_id", id).Int("entrants", len(active)).Msg("tournament started")

	for round := 1; len(active) > 1; round++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tables := chunk(active, r.cfg.SeatFormat)
		ante := RoundAnte(r.game.Ante, r.cfg.StakesMultiplier, round)
		events.Emit("round_started", map[string]any{
			"tournament_id":  id,
			"round":          round,
			"active_players": active,
			"table_count":    len(tables),
			"ante":           ante,
		})
		rr := RoundResult{Round: round, Ante: ante}
		var next []string
		for i, players := range tables {
			tr, err := r.playTable(ctx, events, id, round, i+1, ante, players)
			if err != nil {
				return res, err
			}
			rr.Tables = append(rr.Tables, tr)
			next = append(next, tr.Advanced...)
		}
		if len(next) == len(active) && len(next) > 1 {
			next = next[:max(1, (len(next)+1)/2)]
		}
		rr.Advanced = next
		res.Rounds = append(res.Rounds, rr)
		events.Emit("round_ended", map[string]any{
			"tournament_id":    id,
			"round":            round,
			"advanced_players": next,
		})
		active = next
	}
	if len(active) > 0 {
		res.Champion = active[0]
	}
	events.Emit("tournament_ended", map[string]any{
		"tournament_id":      id,
		"champion_player_id": res.Champion,
	})
	lg.Info().Str("tournament_id", id).Str("champion", res.Champion).Msg("tournament ended")
	return res, nil
}

func (r *Runner) playTable(ctx context.Context, events *eventlog.Recorder, tid string, round, idx, ante int, players []string) (TableResult, error) {
	tableID := fmt.Sprintf("R%dT%d", round, idx)
	tr := TableResult{TableID: tableID, Players: players}
	events.Emit("table_spawned", map[string]any{
		"tournament_id": tid,
		"round":         round,
		"table_id":      tableID,
		"players":       players,
		"seat_count":    r.cfg.SeatFormat,
		"ante":          ante,
	})
	if len(players) == 1 {
		tr.Ranking = players
		tr.Advanced = players
		tr.Bye = true
		events.Emit("table_result", map[string]any{
			"tournament_id": tid,
			"round":         round,
			"table_id":      tableID,
			"ranking":       tr.Ranking,
			"advanced":      tr.Advanced,
			"bye":           true,
		})
		return tr, nil
	}

	gc := r.game
	gc.Seed = r.game.Seed + int64(round*100+idx)
	gc.Ante = ante
	gc.Turns = r.cfg.Turns
	models := make(map[string]string, len(players))
	for _, p := range players {
		models[strings.ToUpper(p)] = r.modelFor(p)
	}
	gameID := r.deps.NewID(gameid.PrefixGame)
	cfg := table.NewConfig(gc, gameID, players, models)
	sink, err := r.deps.Sink(gameID)
	if err != nil {
		return tr, err
	}
	defer closeSink(sink)
	rec := eventlog.NewRecorder(gameID, sink, r.deps.Clock)
	g, err := table.New(cfg, r.deps.Decider(gameID, rec, models), rec)
	if err != nil {
		return tr, err
	}
	summary := g.Run(ctx)
	tr.GameID = gameID
	tr.Ranking = summary.RankingIDs()
	slots := max(1, min(r.cfg.AdvancePerTable, len(tr.Ranking)))
	tr.Advanced = append([]string(nil), tr.Ranking[:slots]...)
	events.Emit("table_result", map[string]any{
		"tournament_id": tid,
		"round":         round,
		"table_id":      tableID,
		"game_id":       gameID,
		"ranking":       tr.Ranking,
		"advanced":      tr.Advanced,
	})
	return tr, nil
}
