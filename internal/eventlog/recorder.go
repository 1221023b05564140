package eventlog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"
)

// Recorder stamps events for one game id and hands them to a sink. Sink
// failures are logged and counted, never returned: a broken log must not stop
// play.
type Recorder struct {
	mu       sync.Mutex
	gameID   string
	sink     Sink
	clock    quartz.Clock
	failures int
}

func NewRecorder(gameID string, sink Sink, clock quartz.Clock) *Recorder {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Recorder{gameID: gameID, sink: sink, clock: clock}
}

func (r *Recorder) Emit(eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("event payload not encodable")
		raw = []byte("{}")
	}
	ev := Event{
		SchemaVersion: SchemaVersion,
		Type:          eventType,
		GameID:        r.gameID,
		Timestamp:     r.clock.Now().UTC(),
		Payload:       raw,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sink == nil {
		return
	}
	if err := r.sink.Write(context.Background(), ev); err != nil {
		r.failures++
		log.Warn().Err(err).Str("game_id", r.gameID).Str("type", eventType).Msg("event sink write failed")
	}
}

func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}
