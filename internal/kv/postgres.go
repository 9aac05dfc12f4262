package kv

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is a PostgreSQL-backed Store for shared deployments. Records live
// in a single kv_records table keyed by the same string keys the file store
// uses, so the two media are interchangeable.
type PGStore struct {
	pool *pgxpool.Pool
}

// ConnectPG establishes a connection pool and ensures the records table
// exists.
func ConnectPG(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS kv_records (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_records table: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Get returns the value for key and whether it was present.
func (s *PGStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(context.Background(),
		`SELECT value FROM kv_records WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
func (s *PGStore) Set(key string, value []byte) error {
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO kv_records (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Absent keys are a no-op.
func (s *PGStore) Delete(key string) error {
	_, err := s.pool.Exec(context.Background(),
		`DELETE FROM kv_records WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", key, err)
	}
	return nil
}

// Keys lists all stored keys.
func (s *PGStore) Keys() ([]string, error) {
	rows, err := s.pool.Query(context.Background(), `SELECT key FROM kv_records`)
	if err != nil {
		return nil, fmt.Errorf("failed to list record keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan record key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
