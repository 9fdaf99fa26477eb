// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storefront/internal/platform/database/schema"
)

// PostgresStorage keeps each key as one row of client.state under a shared
// prefix. The table is created by the migration package.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	prefix string
}

// NewPostgresStorage wraps an already connected pool.
func NewPostgresStorage(pool *pgxpool.Pool, prefix string) *PostgresStorage {
	return &PostgresStorage{pool: pool, prefix: prefix}
}

/*
Get retrieves a value.

Returns:
  - string: Stored value
  - bool: false when no row exists (pgx.ErrNoRows)
  - error: Query failures
*/
func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.ClientState.Value, schema.ClientState.Table, schema.ClientState.Key,
	)

	var value string
	if err := s.pool.QueryRow(ctx, query, s.prefix+key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres_storage_get_failed: %w", err)
	}
	return value, true, nil
}

// Set upserts a value and refreshes its timestamp.
func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, now())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.ClientState.Table, schema.ClientState.Key, schema.ClientState.Value, schema.ClientState.UpdatedAt,
		schema.ClientState.Key,
		schema.ClientState.Value, schema.ClientState.Value,
		schema.ClientState.UpdatedAt, schema.ClientState.UpdatedAt,
	)

	if _, err := s.pool.Exec(ctx, query, s.prefix+key, value); err != nil {
		return fmt.Errorf("postgres_storage_set_failed: %w", err)
	}
	return nil
}

// Remove deletes a key.
func (s *PostgresStorage) Remove(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ClientState.Table, schema.ClientState.Key,
	)

	if _, err := s.pool.Exec(ctx, query, s.prefix+key); err != nil {
		return fmt.Errorf("postgres_storage_delete_failed: %w", err)
	}
	return nil
}
