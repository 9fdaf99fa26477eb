// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package router_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/platform/storage"
	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/internal/router"
	"github.com/taibuivan/storefront/internal/session"
	"github.com/taibuivan/storefront/internal/shoptest"
	"github.com/taibuivan/storefront/internal/user"
)

// # Test Doubles

type titles struct{ last []string }

func (s *titles) SetTitle(title string) { s.last = append(s.last, title) }

type reloads struct{ paths []string }

func (r *reloads) Reload(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return nil
}

type harness struct {
	durable *storage.MemoryStorage
	store   *session.Store
	titles  *titles
	reloads *reloads
	router  *router.Router
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newHarness(t *testing.T, profiles router.ProfileResolver, routes ...router.Route) *harness {
	t.Helper()

	durable := storage.NewMemoryStorage()
	h := &harness{
		durable: durable,
		store:   session.NewStore(context.Background(), durable, quiet()),
		titles:  &titles{},
		reloads: &reloads{},
	}
	if len(routes) == 0 {
		routes = router.DefaultRoutes()
	}

	var err error
	h.router, err = router.New(router.Options{
		Store:    h.store,
		Profiles: profiles,
		Storage:  durable,
		Titles:   h.titles,
		Reloader: h.reloads,
		Logger:   quiet(),
	}, routes...)
	require.NoError(t, err)
	return h
}

func (h *harness) flag(t *testing.T) string {
	t.Helper()
	raw, _, err := h.durable.Get(context.Background(), "shop:dynamic-reload")
	require.NoError(t, err)
	return raw
}

/*
TestNavigate_AdminOnly checks an admin-only page for both roles.
*/
func TestNavigate_AdminOnly(t *testing.T) {
	tests := []struct {
		name string
		role string
		to   string
	}{
		{"shopper_goes_home", "user", "/"},
		{"admin_allowed", "admin", "/admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.store.Login(context.Background(), session.Payload{Account: "a", Role: tt.role, Token: "t"})

			nav, err := h.router.Navigate(context.Background(), "/admin")
			require.NoError(t, err)

			assert.Equal(t, tt.to, nav.To())
			assert.Equal(t, tt.to, h.router.Current())
		})
	}
}

/*
TestNavigate_Redirects covers the gate's redirect targets and the title hook.
*/
func TestNavigate_Redirects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	nav, err := h.router.Navigate(ctx, "/cart")
	require.NoError(t, err)
	assert.Equal(t, "/login", nav.To())
	assert.Equal(t, []string{"/login"}, nav.Redirects)
	assert.Equal(t, "登入 | 購物網站", nav.Title)

	h.store.Login(ctx, session.Payload{Account: "alice", Role: "user", Token: "t"})

	nav, err = h.router.Navigate(ctx, "/register")
	require.NoError(t, err)
	assert.Equal(t, "/", nav.To())
	assert.Equal(t, "/login", nav.From)

	assert.Equal(t, []string{"登入 | 購物網站", "首頁 | 購物網站"}, h.titles.last)
}

/*
TestNavigate_Match verifies parameters, queries and unknown paths.
*/
func TestNavigate_Match(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.router.Navigate(ctx, "/nowhere")
	assert.ErrorIs(t, err, router.ErrNotFound)
	assert.Equal(t, router.StartLocation, h.router.Current())
	assert.Empty(t, h.titles.last)

	nav, err := h.router.Navigate(ctx, "/product/65f1c0ffee?ref=home")
	require.NoError(t, err)
	assert.Equal(t, "/product/{id}", nav.Match.Pattern)
	assert.Equal(t, "65f1c0ffee", nav.Match.Params["id"])
	assert.Equal(t, "home", nav.Match.Query.Get("ref"))
}

/*
TestNavigate_TooManyRedirects verifies that a gate loop is cut off.
*/
func TestNavigate_TooManyRedirects(t *testing.T) {
	h := newHarness(t, nil,
		router.Route{Path: "/", Meta: router.Meta{Access: router.AccessAuthenticatedOnly}},
		router.Route{Path: "/login", Meta: router.Meta{Access: router.AccessAuthenticatedOnly}},
	)

	_, err := h.router.Navigate(context.Background(), "/")
	assert.ErrorIs(t, err, router.ErrTooManyRedirects)
}

/*
TestNew_Invalid rejects malformed route tables.
*/
func TestNew_Invalid(t *testing.T) {
	store := session.NewStore(context.Background(), storage.NewMemoryStorage(), quiet())

	_, err := router.New(router.Options{Store: store}, router.Route{Path: "/"}, router.Route{Path: "/"})
	assert.Error(t, err)

	_, err = router.New(router.Options{Store: store}, router.Route{Path: "cart"})
	assert.Error(t, err)

	_, err = router.New(router.Options{})
	assert.Error(t, err)
}

// # Bootstrap

/*
TestNavigate_Bootstrap_Resolves restores a credential, then resolves the
identity on the first navigation without touching the credential.
*/
func TestNavigate_Bootstrap_Resolves(t *testing.T) {
	ctx := context.Background()
	backend := shoptest.New(t, shoptest.Options{})
	backend.SeedUser("root", "secret", sec.RoleAdmin)
	tea := backend.SeedProduct(product.CreateInput{Name: "茶", Price: 1, Description: "d", Category: "c", Sell: true})

	// Previous process: sign in and fill the cart
	previous := backend.NewStack()
	token := previous.SignIn(backend, "root")
	_, err := user.NewService(previous.Public, previous.Auth).AddToCart(ctx, user.CartInput{Product: tea.ID, Quantity: 2})
	require.NoError(t, err)

	// Restart: only the credential survives
	stack := backend.StackOn(previous.Durable)
	require.Equal(t, session.Session{Role: session.RoleUser, Token: token}, stack.Store.Snapshot())

	r, err := router.New(router.Options{Store: stack.Store, Profiles: user.NewService(stack.Public, stack.Auth), Logger: quiet()}, router.DefaultRoutes()...)
	require.NoError(t, err)

	backend.ResetRequests()
	nav, err := r.Navigate(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, "/admin", nav.To())

	assert.Equal(t, session.Session{Account: "root", CartTotal: 2, Role: session.RoleAdmin, Token: token}, stack.Store.Snapshot())

	// Later navigations do not resolve again
	_, err = r.Navigate(ctx, "/")
	require.NoError(t, err)
	assert.Len(t, backend.Requests(), 1)
}

/*
TestNavigate_Bootstrap_Failure verifies that a dead stored credential is
cleared without blocking the pending navigation.
*/
func TestNavigate_Bootstrap_Failure(t *testing.T) {
	ctx := context.Background()
	backend := shoptest.New(t, shoptest.Options{})
	backend.SeedUser("alice", "secret", sec.RoleUser)

	stack := backend.NewStack()
	stack.SignIn(backend, "alice")
	backend.Revoke("alice")

	r, err := router.New(router.Options{Store: stack.Store, Profiles: user.NewService(stack.Public, stack.Auth), Logger: quiet()}, router.DefaultRoutes()...)
	require.NoError(t, err)

	nav, err := r.Navigate(ctx, "/product/p1")
	require.NoError(t, err)
	assert.Equal(t, "/product/p1", nav.To())
	assert.Equal(t, session.Anonymous(), stack.Store.Snapshot())

	// The cleared credential is gone from durable state too
	restarted := backend.StackOn(stack.Durable)
	assert.False(t, restarted.Store.IsAuthenticated())
}

/*
TestNavigate_Bootstrap_RetriedAfterFailedFirst verifies that the router stays
at the start location until a navigation succeeds, so the next one resolves
the identity again.
*/
func TestNavigate_Bootstrap_RetriedAfterFailedFirst(t *testing.T) {
	ctx := context.Background()
	backend := shoptest.New(t, shoptest.Options{})
	backend.SeedUser("alice", "secret", sec.RoleUser)

	stack := backend.NewStack()
	stack.SignIn(backend, "alice")

	r, err := router.New(router.Options{Store: stack.Store, Profiles: user.NewService(stack.Public, stack.Auth), Logger: quiet()}, router.DefaultRoutes()...)
	require.NoError(t, err)

	backend.ResetRequests()
	_, err = r.Navigate(ctx, "/nowhere")
	require.ErrorIs(t, err, router.ErrNotFound)
	assert.Equal(t, router.StartLocation, r.Current())
	assert.Len(t, backend.Requests(), 1)

	_, err = r.Navigate(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, "/", r.Current())
	assert.Len(t, backend.Requests(), 2)

	_, err = r.Navigate(ctx, "/cart")
	require.NoError(t, err)
	assert.Len(t, backend.Requests(), 2)
}

/*
TestNavigate_Bootstrap_Anonymous verifies that no profile call is made
without a credential.
*/
func TestNavigate_Bootstrap_Anonymous(t *testing.T) {
	backend := shoptest.New(t, shoptest.Options{})
	stack := backend.NewStack()

	r, err := router.New(router.Options{Store: stack.Store, Profiles: user.NewService(stack.Public, stack.Auth), Logger: quiet()}, router.DefaultRoutes()...)
	require.NoError(t, err)

	_, err = r.Navigate(context.Background(), "/")
	require.NoError(t, err)
	assert.Empty(t, backend.Requests())
}

// # Reload Recovery

/*
TestNavigate_ReloadRecovery verifies the one-shot reload guard across a
failing, a still-failing and a recovered navigation.
*/
func TestNavigate_ReloadRecovery(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("chunk fetch failed")
	broken := true

	h := newHarness(t, nil,
		router.Route{Path: "/", Meta: router.Meta{Title: "首頁"}},
		router.Route{Path: "/flaky", Meta: router.Meta{Title: "Flaky"}, Load: func(context.Context, router.Match) error {
			if broken {
				return router.ModuleLoadError(cause)
			}
			return nil
		}},
	)

	// 1. First failure: flag set, one reload
	_, err := h.router.Navigate(ctx, "/flaky")
	assert.ErrorIs(t, err, router.ErrModuleLoad)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"/flaky"}, h.reloads.paths)
	assert.Equal(t, "set", h.flag(t))

	// 2. The reload did not help: no second reload
	h.router.Reset()
	_, err = h.router.Navigate(ctx, "/flaky")
	assert.ErrorIs(t, err, router.ErrModuleLoad)
	assert.Len(t, h.reloads.paths, 1)

	// 3. Recovery clears the flag
	broken = false
	_, err = h.router.Navigate(ctx, "/flaky")
	require.NoError(t, err)
	assert.Equal(t, "cleared", h.flag(t))

	// 4. A later failure may reload again
	broken = true
	_, err = h.router.Navigate(ctx, "/flaky")
	assert.Error(t, err)
	assert.Len(t, h.reloads.paths, 2)
}

/*
TestNavigate_LoadError verifies that other load failures never reload.
*/
func TestNavigate_LoadError(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("boom")

	h := newHarness(t, nil,
		router.Route{Path: "/", Load: func(context.Context, router.Match) error { return cause }},
	)

	_, err := h.router.Navigate(ctx, "/")
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, h.reloads.paths)
	assert.Empty(t, h.flag(t))
	assert.Equal(t, router.StartLocation, h.router.Current())
}
