package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a durable session backend persisting one JSON document per
// session row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS travel_sessions (
			session_id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_travel_sessions_updated ON travel_sessions (last_updated);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, sessionID string) (Record, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM travel_sessions WHERE session_id=$1`, sessionID,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("query session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return Record{}, fmt.Errorf("decode session document: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, record Record) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session document: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO travel_sessions (session_id, doc, last_updated)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE SET doc=EXCLUDED.doc, last_updated=EXCLUDED.last_updated`,
		record.SessionID, doc, record.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM travel_sessions WHERE session_id=$1`, sessionID,
	); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions idle past the cutoff, returning how many rows
// were dropped.
func (s *PostgresStore) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM travel_sessions WHERE last_updated < $1`, olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
