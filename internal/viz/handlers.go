package viz

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"damage-game/internal/eventlog"
	"damage-game/internal/gameid"
)

type resource struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Query       []string `json:"query,omitempty"`
	Description string   `json:"description"`
}

var apiResources = []resource{
	{Path: "/api", Method: http.MethodGet, Description: "API index"},
	{Path: "/api/games", Method: http.MethodGet, Description: "List game logs"},
	{Path: "/api/tournaments", Method: http.MethodGet, Description: "List tournament logs"},
	{Path: "/api/replay", Method: http.MethodGet, Query: []string{"game_id"}, Description: "Load full replay events for a game"},
	{Path: "/api/stream", Method: http.MethodGet, Query: []string{"game_id"}, Description: "Server-sent live stream of appended events"},
	{Path: "/api/ws", Method: http.MethodGet, Query: []string{"game_id"}, Description: "Websocket live stream of appended events"},
	{Path: "/api/bio", Method: http.MethodGet, Query: []string{"game_id", "player_id"}, Description: "Load markdown bio for a player in a game"},
	{Path: "/mcp", Method: http.MethodPost, Description: "MCP tools list_games, list_tournaments, get_replay"},
}

type gameSummary struct {
	GameID     string    `json:"game_id"`
	EventCount int       `json:"event_count"`
	Modified   time.Time `json:"modified"`
}

type tournamentSummary struct {
	TournamentID string    `json:"tournament_id"`
	EventCount   int       `json:"event_count"`
	Modified     time.Time `json:"modified"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"resources": apiResources})
}

func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	logs, err := eventlog.List(s.logDir, gameid.PrefixGame+"_")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	out := make([]gameSummary, 0, len(logs))
	for _, l := range logs {
		out = append(out, gameSummary{GameID: l.GameID, EventCount: l.EventCount, Modified: l.Modified})
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": out})
}

func (s *Server) handleTournaments(w http.ResponseWriter, _ *http.Request) {
	logs, err := eventlog.List(s.logDir, gameid.PrefixTournament+"_")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	out := make([]tournamentSummary, 0, len(logs))
	for _, l := range logs {
		out = append(out, tournamentSummary{TournamentID: l.GameID, EventCount: l.EventCount, Modified: l.Modified})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tournaments": out})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id", "game_id is required")
		return
	}
	metricReplayTotal.Add(1)
	events, err := eventlog.Load(s.logDir, id)
	switch {
	case errors.Is(err, eventlog.ErrLogNotFound):
		metricReplayErrors.Add(1)
		writeError(w, http.StatusNotFound, "game_not_found", id)
		return
	case err != nil:
		metricReplayErrors.Add(1)
		writeError(w, http.StatusInternalServerError, "replay_failed", err.Error())
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"game_id": id, "events": events})
}

func (s *Server) handleBio(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game_id")
	player := r.URL.Query().Get("player_id")
	if id == "" || player == "" {
		writeError(w, http.StatusBadRequest, "missing_parameters", "game_id and player_id are required")
		return
	}
	if !eventlog.ValidID(id) || !eventlog.ValidID(player) {
		writeError(w, http.StatusNotFound, "bio_not_found", player)
		return
	}
	path := eventlog.BioPath(s.logDir, id, player)
	body, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		writeError(w, http.StatusNotFound, "bio_not_found", player)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "bio_read_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":   id,
		"player_id": player,
		"markdown":  string(body),
		"path":      filepath.Base(path),
	})
}
