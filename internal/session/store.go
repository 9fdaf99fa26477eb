// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/storage"
)

// Store owns the current [Session].
//
// # Persistence
//
// Every mutation writes {"token": ...} to durable storage under
// [constants.StorageKeyUser]. Storage failures are logged and swallowed: the
// in-memory session stays authoritative for the running process.
//
// # Concurrency
//
// Store is safe for concurrent use. Mutations and their persistence happen in
// one critical section, so readers never observe a half-applied login or logout.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger

	mu    sync.RWMutex
	state Session
}

// NewStore creates a store with default fields and the credential restored
// from durable storage. Missing or malformed state yields an empty credential.
func NewStore(ctx context.Context, durable storage.Storage, logger *slog.Logger) *Store {
	s := &Store{
		storage: durable,
		logger:  logger,
		state:   Anonymous(),
	}
	s.state.Token = s.restore(ctx)
	return s
}

// restore reads the persisted credential.
func (s *Store) restore(ctx context.Context) string {
	raw, ok, err := s.storage.Get(ctx, constants.StorageKeyUser)
	if err != nil {
		s.logger.Warn("session_restore_failed", slog.Any("error", err))
		return ""
	}
	if !ok {
		return ""
	}

	token, err := decodePersisted([]byte(raw))
	if err != nil {
		s.logger.Warn("session_restore_malformed", slog.Any("error", err))
		return ""
	}
	return token
}

// # Mutators

// Login applies a login, registration or profile payload.
//
// Account, cart total and role are replaced unconditionally. The credential is
// replaced only when the payload carries one; profile responses do not.
func (s *Store) Login(ctx context.Context, payload Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Account = payload.Account
	s.state.CartTotal = max(payload.CartTotal, 0)
	s.state.Role = ParseRole(payload.Role)
	if payload.Token != "" {
		s.state.Token = payload.Token
	}
	s.persistLocked(ctx)
}

// SetToken replaces only the credential. Used by the refresh cycle.
func (s *Store) SetToken(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Token = token
	s.persistLocked(ctx)
}

// SetCartTotal records the cart count returned by a cart mutation.
func (s *Store) SetCartTotal(ctx context.Context, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CartTotal = max(total, 0)
	s.persistLocked(ctx)
}

// Logout resets every field to its default. It always succeeds and is idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Anonymous()
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	b, err := encodePersisted(s.state.Token)
	if err != nil {
		s.logger.Warn("session_persist_failed", slog.Any("error", err))
		return
	}
	if err := s.storage.Set(ctx, constants.StorageKeyUser, string(b)); err != nil {
		s.logger.Warn("session_persist_failed", slog.Any("error", err))
	}
}

// # Readers

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current credential, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// IsPrivileged reports whether the signed-in account is an administrator.
func (s *Store) IsPrivileged() bool {
	return s.Snapshot().IsPrivileged()
}
