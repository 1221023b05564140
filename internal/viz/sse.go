package viz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"damage-game/internal/eventlog"

	"github.com/rs/zerolog/log"
)

// SetSSEHeaders applies headers that keep event streams stable across proxies.
func SetSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("X-Content-Type-Options", "nosniff")
}

func WriteSSE(w http.ResponseWriter, id, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if id != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return nil
}

const (
	sseEventLog  = "log"
	sseEventPing = "ping"
	sseEventEnd  = "end"
)

// follow tails one log into a channel until ctx ends. The returned error
// channel receives exactly one value once the tail stops.
func (s *Server) follow(ctx context.Context, id string) (<-chan eventlog.Event, <-chan error) {
	events := make(chan eventlog.Event, 64)
	done := make(chan error, 1)
	go func() {
		done <- eventlog.Tail(ctx, s.logDir, id, s.clock, s.cfg.PollInterval, func(ev eventlog.Event) error {
			select {
			case events <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return events, done
}

// drain hands emit whatever the tail buffered before it stopped. The tail
// reports on done only after its last send, so nothing is left behind.
func drain(events <-chan eventlog.Event, emit func(eventlog.Event) error) error {
	for {
		select {
		case ev := <-events:
			if err := emit(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id", "game_id is required")
		return
	}
	if !s.logExists(id) {
		writeError(w, http.StatusNotFound, "game_not_found", id)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream_not_supported", "")
		return
	}

	SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metricSSEConnectionsTotal.Add(1)
	metricSSEConnectionsActive.Add(1)
	defer metricSSEConnectionsActive.Add(-1)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	events, done := s.follow(ctx, id)
	ticker := s.clock.NewTicker(s.pingInterval())
	defer ticker.Stop()

	sent := 0
	send := func(ev eventlog.Event) error {
		sent++
		if err := WriteSSE(w, strconv.Itoa(sent), sseEventLog, ev); err != nil {
			return err
		}
		metricSSEEventsSent.Add(1)
		flusher.Flush()
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-done:
			if drain(events, send) != nil {
				return
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Str("game_id", id).Msg("stream tail stopped")
				_ = WriteSSE(w, "", sseEventEnd, errorResponse{Error: "tail_failed", Message: err.Error()})
				flusher.Flush()
			}
			return
		case ev := <-events:
			if send(ev) != nil {
				return
			}
		case <-ticker.C:
			ping := map[string]any{"timestamp": s.clock.Now().UTC(), "sent": sent}
			if err := WriteSSE(w, "", sseEventPing, ping); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
