package store

import "context"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS game_events (
	id             BIGSERIAL PRIMARY KEY,
	game_id        TEXT        NOT NULL,
	seq            INTEGER     NOT NULL,
	event_type     TEXT        NOT NULL,
	schema_version TEXT        NOT NULL,
	occurred_at    TIMESTAMPTZ NOT NULL,
	payload        JSONB       NOT NULL DEFAULT '{}'::jsonb,
	UNIQUE (game_id, seq)
);
CREATE INDEX IF NOT EXISTS game_events_type_idx ON game_events (game_id, event_type);
`

// EnsureSchema creates the archive table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schemaDDL)
	return err
}
