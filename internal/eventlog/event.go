package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const SchemaVersion = "0.1"

var ErrLogNotFound = errors.New("log_not_found")

// Event is one line of a game or tournament log.
type Event struct {
	SchemaVersion string          `json:"schema_version"`
	Type          string          `json:"type"`
	GameID        string          `json:"game_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
