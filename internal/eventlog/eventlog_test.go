package eventlog

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/coder/quartz"
)

type failingSink struct{}

func (failingSink) Write(context.Context, Event) error { return errors.New("disk full") }

func TestRecorderStampsEvents(t *testing.T) {
	clock := quartz.NewMock(t)
	at := clock.Now().UTC()
	mem := NewMemorySink(0)
	rec := NewRecorder("game_x", mem, clock)
	rec.Emit("hand_started", map[string]any{"hand_no": 1})

	evs := mem.Events()
	if len(evs) != 1 {
		t.Fatalf("events = %d", len(evs))
	}
	ev := evs[0]
	if ev.SchemaVersion != SchemaVersion || ev.Type != "hand_started" || ev.GameID != "game_x" {
		t.Fatalf("event = %+v", ev)
	}
	if !ev.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v", ev.Timestamp)
	}
	var payload struct {
		HandNo int `json:"hand_no"`
	}
	if err := ev.Decode(&payload); err != nil || payload.HandNo != 1 {
		t.Fatalf("payload = %+v, %v", payload, err)
	}
}

func TestRecorderSurvivesSinkFailure(t *testing.T) {
	mem := NewMemorySink(0)
	rec := NewRecorder("game_x", MultiSink{failingSink{}, mem}, nil)
	rec.Emit("a", nil)
	rec.Emit("b", nil)
	if rec.Failures() != 2 {
		t.Fatalf("failures = %d", rec.Failures())
	}
	if len(mem.Events()) != 2 {
		t.Fatalf("healthy sink should still receive events")
	}
}

func TestFileSinkLoadAndList(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, "game_a")
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	rec := NewRecorder("game_a", sink, nil)
	for i := 0; i < 3; i++ {
		rec.Emit("tick", map[string]int{"i": i})
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	other, _ := NewFileSink(dir, "tournament_b")
	NewRecorder("tournament_b", other, nil).Emit("tournament_started", nil)
	_ = other.Close()

	evs, err := Load(dir, "game_a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(evs) != 3 || evs[2].Type != "tick" {
		t.Fatalf("loaded = %+v", evs)
	}
	games, err := List(dir, "game_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 1 || games[0].GameID != "game_a" || games[0].EventCount != 3 {
		t.Fatalf("games = %+v", games)
	}
	if _, err := Load(dir, "game_missing"); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("want ErrLogNotFound, got %v", err)
	}
	if _, err := Load(dir, "../game_a"); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("path escape must be refused, got %v", err)
	}
}

func TestTailFollowsAppends(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, "game_t")
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	defer sink.Close()
	rec := NewRecorder("game_t", sink, nil)
	rec.Emit("first", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	seen := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Tail(ctx, dir, "game_t", nil, 10*time.Millisecond, func(ev Event) error {
			seen <- ev.Type
			if ev.Type == "second" {
				return errStop
			}
			return nil
		})
	}()
	if got := <-seen; got != "first" {
		t.Fatalf("first event = %s", got)
	}
	rec.Emit("second", nil)
	if got := <-seen; got != "second" {
		t.Fatalf("second event = %s", got)
	}
	if err := <-done; !errors.Is(err, errStop) {
		t.Fatalf("tail returned %v", err)
	}
}

var errStop = errors.New("stop")

func TestTailPartialLine(t *testing.T) {
	dir := t.TempDir()
	path := LogPath(dir, "game_p")
	if err := os.WriteFile(path, []byte(`{"type":"whole"}`+"\n"+`{"type":"ha`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var types []string
	go func() {
		time.Sleep(50 * time.Millisecond)
		f, _ := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		_, _ = f.WriteString(`lf"}` + "\n")
		_ = f.Close()
	}()
	err := Tail(ctx, dir, "game_p", nil, 10*time.Millisecond, func(ev Event) error {
		types = append(types, ev.Type)
		if len(types) == 2 {
			return errStop
		}
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("tail: %v", err)
	}
	if types[0] != "whole" || types[1] != "half" {
		t.Fatalf("types = %v", types)
	}
}

func TestReplayWithoutDelay(t *testing.T) {
	base := time.Now()
	evs := []Event{
		{Type: "a", Timestamp: base},
		{Type: "b", Timestamp: base.Add(time.Hour)},
	}
	var got []string
	err := Replay(context.Background(), evs, 0, nil, func(ev Event) error {
		got = append(got, ev.Type)
		return nil
	})
	if err != nil || len(got) != 2 {
		t.Fatalf("replay = %v, %v", got, err)
	}
}

func TestMemorySinkKeepsNewest(t *testing.T) {
	mem := NewMemorySink(2)
	rec := NewRecorder("g", mem, nil)
	rec.Emit("a", nil)
	rec.Emit("b", nil)
	rec.Emit("c", nil)
	if evs := mem.Events(); len(evs) != 2 || evs[0].Type != "b" || evs[1].Type != "c" {
		t.Fatalf("retained = %+v", evs)
	}
	if got := mem.OfType("c"); len(got) != 1 {
		t.Fatalf("OfType(c) = %+v", got)
	}
}
