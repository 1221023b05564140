package mcpserver

import (
	"context"
	"strings"

	"damage-game/internal/eventlog"
	"damage-game/internal/gameid"

	"github.com/mark3labs/mcp-go/mcp"
)

type listResponse struct {
	Items  []eventlog.LogInfo `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type replayResponse struct {
	GameID    string           `json:"game_id"`
	Total     int              `json:"total"`
	Truncated bool             `json:"truncated"`
	Events    []eventlog.Event `json:"events"`
}

func (s *Server) registerReplayTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_games",
			mcp.WithDescription("List game logs, newest first"),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 500")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.listHandler(gameid.PrefixGame+"_"),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_tournaments",
			mcp.WithDescription("List tournament logs, newest first"),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 500")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.listHandler(gameid.PrefixTournament+"_"),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_replay",
			mcp.WithDescription("Return the events of one game or tournament log"),
			mcp.WithString("game_id", mcp.Required(), mcp.Description("Game or tournament id")),
			mcp.WithString("type", mcp.Description("Only return events of this type")),
		),
		s.handleGetReplay,
	)
}

func (s *Server) listHandler(prefix string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit, offset := clampPagination(request.GetInt("limit", defaultPageLimit), request.GetInt("offset", 0), maxPageLimit)
		logs, err := eventlog.List(s.logDir, prefix)
		if err != nil {
			return mapLogError(err), nil
		}
		return toolResult(listResponse{
			Items:  page(logs, limit, offset),
			Total:  len(logs),
			Limit:  limit,
			Offset: offset,
		}), nil
	}
}

func (s *Server) handleGetReplay(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(request.GetString("game_id", ""))
	if id == "" {
		return toolError("invalid_request", "game_id is required"), nil
	}
	events, err := eventlog.Load(s.logDir, id)
	if err != nil {
		return mapLogError(err), nil
	}
	if kind := strings.TrimSpace(request.GetString("type", "")); kind != "" {
		filtered := events[:0]
		for _, ev := range events {
			if ev.Type == kind {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}
	resp := replayResponse{GameID: id, Total: len(events), Events: events}
	if len(events) > maxReplayEvents {
		resp.Events = events[:maxReplayEvents]
		resp.Truncated = true
	}
	return toolResult(resp), nil
}
