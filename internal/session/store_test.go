// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/storage"
	"github.com/taibuivan/storefront/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// brokenStorage fails every operation.
type brokenStorage struct{}

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (brokenStorage) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (brokenStorage) Remove(context.Context, string) error      { return errors.New("disk on fire") }

/*
TestStore_LoginAndLogout covers the full-replace and full-reset mutators.
*/
func TestStore_LoginAndLogout(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(ctx, storage.NewMemoryStorage(), discardLogger())

	assert.Equal(t, session.Anonymous(), store.Snapshot())
	assert.False(t, store.IsAuthenticated())

	store.Login(ctx, session.Payload{Account: "alice", CartTotal: 3, Role: "admin", Token: "T1"})

	snapshot := store.Snapshot()
	assert.Equal(t, "alice", snapshot.Account)
	assert.Equal(t, 3, snapshot.CartTotal)
	assert.Equal(t, session.RoleAdmin, snapshot.Role)
	assert.Equal(t, "T1", snapshot.Token)
	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsPrivileged())

	store.Logout(ctx)
	once := store.Snapshot()
	store.Logout(ctx)

	assert.Equal(t, session.Anonymous(), once)
	assert.Equal(t, once, store.Snapshot())
}

/*
TestStore_LoginWithoutToken verifies that profile payloads keep the credential.
*/
func TestStore_LoginWithoutToken(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(ctx, storage.NewMemoryStorage(), discardLogger())
	store.SetToken(ctx, "T1")

	store.Login(ctx, session.Payload{Account: "bob", CartTotal: 1, Role: "user"})

	assert.Equal(t, "T1", store.Token())
	assert.Equal(t, "bob", store.Snapshot().Account)
}

/*
TestStore_RoleAndCartSanitized checks unknown roles and negative cart totals.
*/
func TestStore_RoleAndCartSanitized(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(ctx, storage.NewMemoryStorage(), discardLogger())

	store.Login(ctx, session.Payload{Account: "eve", CartTotal: -4, Role: "root", Token: "T1"})

	assert.Equal(t, session.RoleUser, store.Snapshot().Role)
	assert.Zero(t, store.Snapshot().CartTotal)

	store.SetCartTotal(ctx, 7)
	assert.Equal(t, 7, store.Snapshot().CartTotal)
}

/*
TestStore_RestartRoundTrip verifies that only the credential survives a restart.
*/
func TestStore_RestartRoundTrip(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryStorage()

	first := session.NewStore(ctx, durable, discardLogger())
	first.Login(ctx, session.Payload{Account: "alice", CartTotal: 5, Role: "admin", Token: "T1"})

	raw, ok, err := durable.Get(ctx, constants.StorageKeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"token":"T1"}`, raw)

	restarted := session.NewStore(ctx, durable, discardLogger())
	snapshot := restarted.Snapshot()

	assert.Equal(t, "T1", snapshot.Token)
	assert.Empty(t, snapshot.Account)
	assert.Zero(t, snapshot.CartTotal)
	assert.Equal(t, session.RoleUser, snapshot.Role)
}

/*
TestStore_MalformedStateIsAbsent verifies that bad durable state is never fatal.
*/
func TestStore_MalformedStateIsAbsent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"not_json", "{oops"},
		{"no_token", `{"account":"alice"}`},
		{"number_token", `{"token":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			durable := storage.NewMemoryStorage()
			require.NoError(t, durable.Set(ctx, constants.StorageKeyUser, tt.raw))

			store := session.NewStore(ctx, durable, discardLogger())
			assert.Empty(t, store.Token())
		})
	}
}

/*
TestStore_StorageFailuresSwallowed verifies that persistence errors never surface.
*/
func TestStore_StorageFailuresSwallowed(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(ctx, brokenStorage{}, discardLogger())

	assert.Empty(t, store.Token())

	store.Login(ctx, session.Payload{Account: "alice", Role: "user", Token: "T1"})
	assert.Equal(t, "T1", store.Token())

	store.Logout(ctx)
	assert.Equal(t, session.Anonymous(), store.Snapshot())
}
