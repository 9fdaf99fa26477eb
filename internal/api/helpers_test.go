// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/storage"
	"github.com/taibuivan/storefront/internal/session"
)

const expired = "token 已過期"

// call is one request observed by the scripted backend.
type call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	HasAuth       bool
	RequestID     string
	Body          string
}

// scripted is an httptest backend whose behaviour is a per-test function.
type scripted struct {
	mu     sync.Mutex
	calls  []call
	handle func(w http.ResponseWriter, r *http.Request, c call)
}

func (s *scripted) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_, hasAuth := r.Header["Authorization"]
	c := call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		HasAuth:       hasAuth,
		RequestID:     r.Header.Get("X-Request-ID"),
		Body:          string(body),
	}

	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()

	s.handle(w, r, c)
}

func (s *scripted) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeExpired(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": expired})
}

// fixture bundles a backend, a session store and both clients.
type fixture struct {
	backend *scripted
	server  *httptest.Server
	store   *session.Store
	public  *api.Client
	auth    *api.AuthClient
}

func newFixture(t *testing.T, handle func(w http.ResponseWriter, r *http.Request, c call)) *fixture {
	t.Helper()

	backend := &scripted{handle: handle}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(context.Background(), storage.NewMemoryStorage(), logger)

	public, err := api.NewClient(api.Options{BaseURL: server.URL, Logger: logger})
	require.NoError(t, err)

	return &fixture{
		backend: backend,
		server:  server,
		store:   store,
		public:  public,
		auth:    api.NewAuthClient(public, store),
	}
}

func (f *fixture) signIn(token string) {
	f.store.Login(context.Background(), session.Payload{Account: "alice", CartTotal: 2, Role: "admin", Token: token})
}
