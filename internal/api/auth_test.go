// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/session"
)

/*
TestAuthClient_AttachesCurrentCredential verifies the header equals the store value at send time.
*/
func TestAuthClient_AttachesCurrentCredential(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
		writeJSON(w, http.StatusOK, map[string]any{"orders": []any{}})
	})
	ctx := context.Background()

	// 1. Anonymous: the header is still attached, with an empty credential
	_, err := api.Get(ctx, f.auth, "/order/my", nil)
	require.NoError(t, err)

	// 2. After login and after a manual credential swap
	f.signIn("T1")
	_, err = api.Get(ctx, f.auth, "/order/my", nil)
	require.NoError(t, err)

	f.store.SetToken(ctx, "T9")
	_, err = api.Get(ctx, f.auth, "/order/my", nil)
	require.NoError(t, err)

	calls := f.backend.Calls()
	require.Len(t, calls, 3)
	assert.True(t, calls[0].HasAuth)
	assert.Equal(t, "Bearer", strings.TrimSpace(calls[0].Authorization))
	assert.Equal(t, "Bearer T1", calls[1].Authorization)
	assert.Equal(t, "Bearer T9", calls[2].Authorization)
}

/*
TestAuthClient_RefreshAndReplay covers expiry, refresh to T2 and a replay with T2.
*/
func TestAuthClient_RefreshAndReplay(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
		switch {
		case c.Path == "/user/refresh":
			assert.Equal(t, "Bearer T1", c.Authorization)
			writeJSON(w, http.StatusOK, map[string]string{"token": "T2"})
		case c.Authorization == "Bearer T1":
			writeExpired(w)
		default:
			writeJSON(w, http.StatusCreated, map[string]string{"order": "o-1", "echo": c.Body})
		}
	})
	f.signIn("T1")
	ctx := context.Background()

	resp, err := api.Post(ctx, f.auth, "/order", map[string]int{"quantity": 2})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)

	var body map[string]string
	require.NoError(t, resp.Decode(&body))
	assert.Equal(t, "o-1", body["order"])

	calls := f.backend.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "/order", calls[0].Path)
	assert.Equal(t, "/user/refresh", calls[1].Path)
	assert.Equal(t, http.MethodPatch, calls[1].Method)
	assert.Equal(t, "/order", calls[2].Path)
	assert.Equal(t, http.MethodPost, calls[2].Method)
	assert.Equal(t, "Bearer T2", calls[2].Authorization)
	assert.Equal(t, calls[0].Body, calls[2].Body)

	// Only the credential changed
	snapshot := f.store.Snapshot()
	assert.Equal(t, "T2", snapshot.Token)
	assert.Equal(t, "alice", snapshot.Account)
	assert.Equal(t, session.RoleAdmin, snapshot.Role)
}

/*
TestAuthClient_RefreshFailureLogsOut verifies that the caller gets the original error.
*/
func TestAuthClient_RefreshFailureLogsOut(t *testing.T) {
	tests := []struct {
		name    string
		refresh func(w http.ResponseWriter)
	}{
		{"rejected", func(w http.ResponseWriter) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "請重新登入"})
		}},
		{"refresh_also_expired", func(w http.ResponseWriter) { writeExpired(w) }},
		{"empty_token", func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, map[string]string{"token": ""})
		}},
		{"garbage_body", func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
				if c.Path == "/user/refresh" {
					tt.refresh(w)
					return
				}
				writeExpired(w)
			})
			f.signIn("T1")

			_, err := api.Get(context.Background(), f.auth, "/order/my", nil)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.KindAuthExpiry, ae.Kind)
			assert.Equal(t, "/order/my", ae.Path)

			assert.Equal(t, session.Anonymous(), f.store.Snapshot())

			// Exactly: original, refresh. No replay, no recursive refresh.
			assert.Len(t, f.backend.Calls(), 2)
		})
	}
}

/*
TestAuthClient_RefreshNetworkFailure verifies logout when the refresh gets no response.
*/
func TestAuthClient_RefreshNetworkFailure(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
		if c.Path == "/user/refresh" {
			// Drop the connection without a response.
			if hijacker, ok := w.(http.Hijacker); ok {
				if conn, _, err := hijacker.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return
		}
		writeExpired(w)
	})
	f.signIn("T1")

	_, err := api.Get(context.Background(), f.auth, "/user/cart", nil)

	assert.True(t, apperr.IsAuthExpiry(err))
	assert.False(t, f.store.IsAuthenticated())
}

/*
TestAuthClient_ReplayAtMostOnce verifies that a second expiry after replay is final.
*/
func TestAuthClient_ReplayAtMostOnce(t *testing.T) {
	var refreshes atomic.Int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
		if c.Path == "/user/refresh" {
			refreshes.Add(1)
			writeJSON(w, http.StatusOK, map[string]string{"token": "T2"})
			return
		}
		writeExpired(w)
	})
	f.signIn("T1")

	_, err := api.Get(context.Background(), f.auth, "/order/all", nil)

	assert.True(t, apperr.IsAuthExpiry(err))
	assert.EqualValues(t, 1, refreshes.Load())
	assert.Len(t, f.backend.Calls(), 3)

	// The refresh itself succeeded, so the session keeps the new credential.
	assert.Equal(t, "T2", f.store.Token())
}

/*
TestAuthClient_ReplayFailureIsFinal verifies that a non-expiry replay failure is returned as-is.
*/
func TestAuthClient_ReplayFailureIsFinal(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
		switch {
		case c.Path == "/user/refresh":
			writeJSON(w, http.StatusOK, map[string]string{"token": "T2"})
		case c.Authorization == "Bearer T1":
			writeExpired(w)
		default:
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "權限不足"})
		}
	})
	f.signIn("T1")

	_, err := api.Get(context.Background(), f.auth, "/order/all", nil)

	assert.Equal(t, http.StatusForbidden, apperr.Status(err))
	assert.Equal(t, "T2", f.store.Token())
}

/*
TestAuthClient_RefreshPathNeverRefreshes verifies the recursion guard.
*/
func TestAuthClient_RefreshPathNeverRefreshes(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
		writeExpired(w)
	})
	f.signIn("T1")

	_, err := api.Patch(context.Background(), f.auth, "/user/refresh", nil)

	assert.True(t, apperr.IsAuthExpiry(err))
	assert.Len(t, f.backend.Calls(), 1)
	// Not eligible, so no logout either.
	assert.Equal(t, "T1", f.store.Token())
}

/*
TestAuthClient_NonEligibleFailures verifies that other errors skip the refresh cycle.
*/
func TestAuthClient_NonEligibleFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]string
	}{
		{"other_400", http.StatusBadRequest, map[string]string{"message": "資料格式錯誤"}},
		{"sentinel_on_401", http.StatusUnauthorized, map[string]string{"message": expired}},
		{"server_error", http.StatusInternalServerError, map[string]string{"message": "未知錯誤"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {
				writeJSON(w, tt.status, tt.body)
			})
			f.signIn("T1")

			_, err := api.Get(context.Background(), f.auth, "/user/profile", nil)

			assert.Equal(t, tt.status, apperr.Status(err))
			assert.Len(t, f.backend.Calls(), 1)
			assert.Equal(t, "T1", f.store.Token())
		})
	}
}

/*
TestAuthClient_NetworkFailureNotRetried verifies that no-response failures propagate unmodified.
*/
func TestAuthClient_NetworkFailureNotRetried(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request, c call) {})
	f.signIn("T1")
	f.server.Close()

	_, err := api.Get(context.Background(), f.auth, "/order/my", nil)

	assert.True(t, apperr.IsNetwork(err))
	assert.Equal(t, "T1", f.store.Token())
}
