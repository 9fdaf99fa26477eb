// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shoptest_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/shoptest"
)

func profile(t *testing.T, doer api.Doer) error {
	t.Helper()
	_, err := api.Get(context.Background(), doer, "/user/profile", nil)
	return err
}

// rawProfile sends one profile request carrying token, outside any refresh cycle.
func rawProfile(t *testing.T, backend *shoptest.Backend, token string) *apperr.AppError {
	t.Helper()
	request, err := http.NewRequest(http.MethodGet, backend.URL()+"/user/profile", nil)
	require.NoError(t, err)
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return apperr.FromResponse(http.MethodGet, "/user/profile", response.StatusCode, body)
}

/*
TestBackend_CredentialLifecycle walks a credential through valid, expired,
renewable and dead.
*/
func TestBackend_CredentialLifecycle(t *testing.T) {
	backend := shoptest.New(t, shoptest.Options{TokenTTL: time.Hour, RefreshWindow: 24 * time.Hour})
	backend.SeedUser("alice", "secret", sec.RoleUser)
	stack := backend.NewStack()
	stack.SignIn(backend, "alice")

	// 1. Valid
	require.NoError(t, profile(t, stack.Auth))
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(profile(t, stack.Public)), "public client sends no credential")

	// 2. Expired: the bare credential gets the sentinel
	backend.Advance(2 * time.Hour)
	expired := rawProfile(t, backend, stack.Store.Token())
	assert.True(t, apperr.IsAuthExpiry(expired))

	backend.ResetRequests()
	require.NoError(t, profile(t, stack.Auth), "authenticated client renews and replays")

	methods := []string{}
	for _, r := range backend.Requests() {
		methods = append(methods, r.Method+" "+r.Path)
	}
	assert.Equal(t, []string{"GET /user/profile", "PATCH /user/refresh", "GET /user/profile"}, methods)

	// 3. Past the refresh window the renewal itself is refused and the session reset
	backend.Advance(48 * time.Hour)
	err := profile(t, stack.Auth)
	assert.True(t, apperr.IsAuthExpiry(err))
	assert.False(t, stack.Store.IsAuthenticated())
}

/*
TestBackend_Revoke verifies that revoked credentials are rejected outright.
*/
func TestBackend_Revoke(t *testing.T) {
	backend := shoptest.New(t, shoptest.Options{})
	backend.SeedUser("bob", "secret", sec.RoleUser)
	stack := backend.NewStack()
	stack.SignIn(backend, "bob")

	backend.Revoke("bob")

	err := profile(t, stack.Auth)
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
}

/*
TestBackend_Fail verifies fault injection on a single path.
*/
func TestBackend_Fail(t *testing.T) {
	backend := shoptest.New(t, shoptest.Options{})
	stack := backend.NewStack()

	backend.Fail("/product", http.StatusServiceUnavailable, "維護中")
	_, err := api.Get(context.Background(), stack.Public, "/product", nil)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusServiceUnavailable, ae.HTTPStatus)
	assert.Equal(t, "維護中", ae.Message)

	backend.Heal("/product")
	_, err = api.Get(context.Background(), stack.Public, "/product", nil)
	assert.NoError(t, err)
}
