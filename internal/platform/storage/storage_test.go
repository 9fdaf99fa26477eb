// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/platform/migration"
	"github.com/taibuivan/storefront/internal/platform/postgres"
	"github.com/taibuivan/storefront/internal/platform/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openPostgres needs a disposable database named by TEST_DATABASE_URL.
func openPostgres(t *testing.T) storage.Storage {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, migration.RunUp(dsn, discardLogger()))
	pool, err := postgres.NewPool(context.Background(), dsn, discardLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return storage.NewPostgresStorage(pool, "test:"+t.Name()+":")
}

/*
TestStorage_Contract runs the same Get/Set/Remove expectations on every backend.
*/
func TestStorage_Contract(t *testing.T) {
	backends := map[string]func(t *testing.T) storage.Storage{
		"memory": func(t *testing.T) storage.Storage {
			return storage.NewMemoryStorage()
		},
		"file": func(t *testing.T) storage.Storage {
			s, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "state.json"), discardLogger())
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) storage.Storage {
			server := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: server.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return storage.NewRedisStorage(client, "test:")
		},
		"postgres": openPostgres,
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			// 1. Missing key
			_, ok, err := s.Get(ctx, "shop-user")
			require.NoError(t, err)
			assert.False(t, ok)

			// 2. Set and read back
			require.NoError(t, s.Set(ctx, "shop-user", `{"token":"T1"}`))
			value, ok, err := s.Get(ctx, "shop-user")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"token":"T1"}`, value)

			// 3. Remove is idempotent
			require.NoError(t, s.Remove(ctx, "shop-user"))
			require.NoError(t, s.Remove(ctx, "shop-user"))
			_, ok, err = s.Get(ctx, "shop-user")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

/*
TestFileStorage_SurvivesReopen simulates a process restart.
*/
func TestFileStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	first, err := storage.NewFileStorage(path, discardLogger())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "shop-user", `{"token":"T1"}`))

	second, err := storage.NewFileStorage(path, discardLogger())
	require.NoError(t, err)

	value, ok, err := second.Get(ctx, "shop-user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"token":"T1"}`, value)
}

/*
TestFileStorage_MalformedIsEmpty verifies that a corrupt file is never fatal.
*/
func TestFileStorage_MalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := storage.NewFileStorage(path, discardLogger())
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "shop-user")
	require.NoError(t, err)
	assert.False(t, ok)

	// The next write replaces the corrupt document.
	require.NoError(t, s.Set(ctx, "shop-user", `{"token":"T2"}`))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shop-user":"{\"token\":\"T2\"}"}`, string(raw))
}

/*
TestRedisStorage_Prefix verifies that keys are namespaced.
*/
func TestRedisStorage_Prefix(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	s := storage.NewRedisStorage(client, "storefront:")
	require.NoError(t, s.Set(context.Background(), "shop-user", "v"))

	got, err := server.Get("storefront:shop-user")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
