package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"

	"damage-game/internal/eventlog"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

func writeLog(t *testing.T, dir, id string, types ...string) {
	t.Helper()
	sink, err := eventlog.NewFileSink(dir, id)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	rec := eventlog.NewRecorder(id, sink, nil)
	for _, kind := range types {
		rec.Emit(kind, map[string]string{"id": id})
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMCPReplayTools(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "game_20260101T000000Z_aaaaaa", "game_started", "hand_started", "game_ended")
	writeLog(t, dir, "game_20260101T000100Z_bbbbbb", "game_started")
	writeLog(t, dir, "tournament_20260101T000000Z_cccccc", "tournament_started", "tournament_ended")

	httpSrv := httptest.NewServer(New(dir).Handler())
	defer httpSrv.Close()
	c, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	assertToolNames(t, mustListTools(t, c), "list_games", "list_tournaments", "get_replay")

	var games listResponse
	decodeStructured(t, mustCallTool(t, c, "list_games", map[string]any{}), &games)
	if games.Total != 2 || len(games.Items) != 2 || games.Limit != defaultPageLimit {
		t.Fatalf("list_games = %+v", games)
	}

	var paged listResponse
	decodeStructured(t, mustCallTool(t, c, "list_games", map[string]any{"limit": 1, "offset": 1}), &paged)
	if paged.Total != 2 || len(paged.Items) != 1 {
		t.Fatalf("paged list_games = %+v", paged)
	}

	var tours listResponse
	decodeStructured(t, mustCallTool(t, c, "list_tournaments", map[string]any{}), &tours)
	if tours.Total != 1 || tours.Items[0].EventCount != 2 {
		t.Fatalf("list_tournaments = %+v", tours)
	}

	var replay replayResponse
	decodeStructured(t, mustCallTool(t, c, "get_replay", map[string]any{
		"game_id": "game_20260101T000000Z_aaaaaa",
		"type":    "hand_started",
	}), &replay)
	if replay.Total != 1 || replay.Events[0].Type != "hand_started" || replay.Truncated {
		t.Fatalf("get_replay = %+v", replay)
	}
}

func TestMCPReplayErrors(t *testing.T) {
	httpSrv := httptest.NewServer(New(t.TempDir()).Handler())
	defer httpSrv.Close()
	c, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	cases := []struct {
		args map[string]any
		code string
	}{
		{map[string]any{}, "invalid_request"},
		{map[string]any{"game_id": "game_missing"}, "not_found"},
		{map[string]any{"game_id": "../secret"}, "not_found"},
	}
	for _, tc := range cases {
		res := mustCallTool(t, c, "get_replay", tc.args)
		if !res.IsError {
			t.Fatalf("get_replay(%v) expected error", tc.args)
		}
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		decodeStructured(t, res, &body)
		if body.Error.Code != tc.code {
			t.Fatalf("get_replay(%v) code = %q, want %q", tc.args, body.Error.Code, tc.code)
		}
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3}
	if got := page(items, 2, 2); len(got) != 1 || got[0] != 3 {
		t.Fatalf("page = %v", got)
	}
	if got := page(items, 2, 5); len(got) != 0 {
		t.Fatalf("page past end = %v", got)
	}
	if limit, offset := clampPagination(0, -3, maxPageLimit); limit != defaultPageLimit || offset != 0 {
		t.Fatalf("clamp = %d %d", limit, offset)
	}
}

func newMCPClient(t *testing.T, endpoint string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(endpoint)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func decodeStructured(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode structured %s: %v", raw, err)
	}
}
