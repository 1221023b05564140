package store_test

import (
	"context"
	"errors"
	"testing"

	"damage-game/internal/eventlog"
	"damage-game/internal/store"
	"damage-game/internal/testutil"

	"github.com/coder/quartz"
)

func TestStoreArchivesRecorderEvents(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema must be idempotent: %v", err)
	}

	rec := eventlog.NewRecorder("game_x", st, quartz.NewMock(t))
	rec.Emit("game_started", map[string]int{"players": 3})
	rec.Emit("hand_started", map[string]int{"hand_no": 1})
	rec.Emit("game_ended", nil)
	if rec.Failures() != 0 {
		t.Fatalf("recorder saw %d sink failures", rec.Failures())
	}

	total, err := st.CountEvents(ctx, "game_x", "")
	if err != nil || total != 3 {
		t.Fatalf("CountEvents = %d %v", total, err)
	}
	hands, err := st.CountEvents(ctx, "game_x", "hand_started")
	if err != nil || hands != 1 {
		t.Fatalf("CountEvents(hand_started) = %d %v", hands, err)
	}

	events, err := st.LoadEvents(ctx, "game_x")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 3 || events[0].Type != "game_started" || events[2].Type != "game_ended" {
		t.Fatalf("events = %+v", events)
	}
	var payload map[string]int
	if err := events[0].Decode(&payload); err != nil || payload["players"] != 3 {
		t.Fatalf("payload = %v %v", payload, err)
	}
}

func TestStoreLoadMissingGame(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	if _, err := st.LoadEvents(context.Background(), "game_none"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
