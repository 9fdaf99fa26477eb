// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package shoptest provides an in-memory storefront backend for tests.

The backend speaks the same wire contract as the real one: HS256 bearer
credentials that expire on a controllable clock, the "token 已過期" expiry
response, credential renewal on PATCH /user/refresh, accounts, a catalogue,
carts and orders. Every request is recorded so tests can assert on exactly
what the clients sent.

Usage:

	backend := shoptest.New(t, shoptest.Options{})
	backend.SeedUser("alice", "secret", sec.RoleAdmin)
	token := backend.IssueToken("alice")
	backend.Advance(2 * time.Hour) // token is now expired but renewable
*/
package shoptest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/platform/respond"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/pkg/uuid"
)

// # Defaults

const (
	DefaultTokenTTL      = time.Hour
	DefaultRefreshWindow = 7 * 24 * time.Hour

	issuer = "shoptest"
)

// Options tunes credential lifetimes.
type Options struct {
	// TokenTTL is how long an issued credential is accepted.
	TokenTTL time.Duration
	// RefreshWindow is how long after expiry a credential can still be renewed.
	RefreshWindow time.Duration
	// Logger receives the request log. Discarded when nil.
	Logger *slog.Logger
}

// Recorded is one request as received by the backend.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
}

// fault is an injected response for one path.
type fault struct {
	status  int
	message string
}

// Backend is a running in-memory storefront backend.
type Backend struct {
	t       testing.TB
	server  *httptest.Server
	tokens  *sec.TokenService
	options Options

	// offset shifts the backend clock relative to wall time.
	offset atomic.Int64

	mu       sync.Mutex
	accounts map[string]*account
	catalog  []*product.Product
	orders   []*storedOrder
	requests []Recorded
	faults   map[string]fault
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB, options Options) *Backend {
	t.Helper()

	if options.TokenTTL == 0 {
		options.TokenTTL = DefaultTokenTTL
	}
	if options.RefreshWindow == 0 {
		options.RefreshWindow = DefaultRefreshWindow
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	backend := &Backend{
		t:        t,
		options:  options,
		accounts: make(map[string]*account),
		faults:   make(map[string]fault),
	}
	backend.tokens = sec.NewTokenService([]byte(uuid.New()), issuer, backend.Now)
	backend.server = httptest.NewServer(backend.routes())
	t.Cleanup(backend.server.Close)

	return backend
}

// # Server Initialization

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(b.record)
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(b.options.Logger))
	r.Use(middleware.PanicRecovery(b.options.Logger))
	r.Use(b.inject)
	r.Use(middleware.Authenticate(verifier{b}))
	r.Use(chimw.CleanPath)

	r.Route(constants.PathUser, func(r chi.Router) {
		r.Post("/", b.register)
		r.Post("/login", b.login)
		r.Patch("/refresh", b.refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/profile", b.profile)
			r.Delete("/logout", b.logout)
			r.Patch("/cart", b.updateCart)
			r.Get("/cart", b.cart)
		})
	})

	r.Route(constants.PathProduct, func(r chi.Router) {
		r.Get("/", b.listProducts)
		r.Get("/{id}", b.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(sec.RoleAdmin))
			r.Post("/", b.createProduct)
			r.Get("/all", b.listAllProducts)
			r.Patch("/{id}", b.updateProduct)
		})
	})

	r.Route(constants.PathOrder, func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", b.createOrder)
		r.Get("/my", b.myOrders)
		r.With(middleware.RequireRole(sec.RoleAdmin)).Get("/all", b.allOrders)
	})

	return r
}

// record keeps a copy of every request line and credential header.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method:        request.Method,
			Path:          request.URL.Path,
			Authorization: request.Header.Get(constants.HeaderAuthorization),
		})
		b.mu.Unlock()

		next.ServeHTTP(writer, request)
	})
}

// inject answers with a configured fault before any handler runs.
func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		b.mu.Lock()
		f, found := b.faults[request.URL.Path]
		b.mu.Unlock()

		if found {
			respond.Message(writer, f.status, f.message)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Test Controls

// URL is the base URL of the backend.
func (b *Backend) URL() string { return b.server.URL }

// Close stops the backend; later requests fail with a network error.
func (b *Backend) Close() { b.server.Close() }

// Now is the backend clock.
func (b *Backend) Now() time.Time {
	return time.Now().Add(time.Duration(b.offset.Load()))
}

// Advance moves the backend clock forward.
func (b *Backend) Advance(d time.Duration) {
	b.offset.Add(int64(d))
}

// Fail makes every request to path answer status with message until [Backend.Heal].
func (b *Backend) Fail(path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[path] = fault{status: status, message: message}
}

// Heal removes an injected fault.
func (b *Backend) Heal(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.faults, path)
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// ResetRequests forgets the recorded requests.
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// SeedUser creates an account directly, bypassing registration rules.
func (b *Backend) SeedUser(name, password string, role sec.UserRole) {
	b.t.Helper()

	hash, err := sec.HashPassword(password, bcrypt.MinCost)
	require.NoError(b.t, err)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[sec.NormalizeAccount(name)] = &account{
		Account:      name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
}

// IssueToken signs in an existing account and returns its credential.
func (b *Backend) IssueToken(name string) string {
	b.t.Helper()

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, found := b.accounts[sec.NormalizeAccount(name)]
	require.True(b.t, found, "unknown account %q", name)

	token, err := b.issueLocked(acct)
	require.NoError(b.t, err)
	return token
}

// Revoke drops every active credential of an account.
func (b *Backend) Revoke(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acct, found := b.accounts[sec.NormalizeAccount(name)]; found {
		acct.Tokens = nil
	}
}

// SeedProduct adds a catalogue entry and returns it.
func (b *Backend) SeedProduct(input product.CreateInput) product.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.addProductLocked(input)
}

// CartOf returns the cart of an account as product ID → quantity.
func (b *Backend) CartOf(name string) map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]int)
	if acct, found := b.accounts[sec.NormalizeAccount(name)]; found {
		for _, line := range acct.Cart {
			out[line.ProductID] = line.Quantity
		}
	}
	return out
}

// # Credential Verification

// verifier checks the signature and expiry of a credential, and that the
// credential has not been revoked by logout or renewal.
type verifier struct {
	b *Backend
}

func (v verifier) Verify(tokenString string) (*sec.Claims, error) {
	claims, err := v.b.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return v.active(claims, tokenString)
}

func (v verifier) VerifySignature(tokenString string) (*sec.Claims, error) {
	claims, err := v.b.tokens.VerifySignature(tokenString)
	if err != nil {
		return nil, err
	}
	return v.active(claims, tokenString)
}

func (v verifier) active(claims *sec.Claims, tokenString string) (*sec.Claims, error) {
	v.b.mu.Lock()
	defer v.b.mu.Unlock()

	acct, found := v.b.accounts[sec.NormalizeAccount(claims.Account)]
	if !found || acct.tokenIndex(tokenString) < 0 {
		return nil, errRevoked
	}
	return claims, nil
}
