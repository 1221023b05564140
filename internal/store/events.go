package store

import (
	"context"
	"encoding/json"
	"fmt"

	"damage-game/internal/eventlog"

	"github.com/jackc/pgx/v5"
)

// Write appends ev after the last stored event of its game. It satisfies
// eventlog.Sink.
func (s *Store) Write(ctx context.Context, ev eventlog.Event) error {
	payload := ev.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ev.GameID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO game_events (game_id, seq, event_type, schema_version, occurred_at, payload)
			SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4, $5
			FROM game_events WHERE game_id = $1`,
			ev.GameID, ev.Type, ev.SchemaVersion, ev.Timestamp, []byte(payload))
		if err != nil {
			return fmt.Errorf("store: write %s/%s: %w", ev.GameID, ev.Type, err)
		}
		return nil
	})
}

// CountEvents returns how many events are stored for gameID. An empty kind
// counts every type.
func (s *Store) CountEvents(ctx context.Context, gameID, kind string) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_events WHERE game_id = $1 AND ($2 = '' OR event_type = $2)`,
		gameID, kind).Scan(&n)
	return n, err
}

// LoadEvents returns the stored events of gameID in write order.
func (s *Store) LoadEvents(ctx context.Context, gameID string) ([]eventlog.Event, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT schema_version, event_type, game_id, occurred_at, payload
		FROM game_events WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []eventlog.Event
	for rows.Next() {
		var ev eventlog.Event
		var payload []byte
		if err := rows.Scan(&ev.SchemaVersion, &ev.Type, &ev.GameID, &ev.Timestamp, &payload); err != nil {
			return nil, err
		}
		ev.Payload = payload
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, gameID)
	}
	return out, nil
}
