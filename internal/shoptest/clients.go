// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shoptest

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/storage"
	"github.com/taibuivan/storefront/internal/session"
)

// Stack is a session store and both clients wired to a [Backend].
type Stack struct {
	Durable *storage.MemoryStorage
	Store   *session.Store
	Public  *api.Client
	Auth    *api.AuthClient
}

// NewStack wires a fresh memory-backed session store and both clients.
func (b *Backend) NewStack() *Stack {
	b.t.Helper()
	return b.StackOn(storage.NewMemoryStorage())
}

// StackOn wires a session store restored from durable, as a restarted
// process would be.
func (b *Backend) StackOn(durable *storage.MemoryStorage) *Stack {
	b.t.Helper()

	store := session.NewStore(context.Background(), durable, b.options.Logger)

	public, err := api.NewClient(api.Options{BaseURL: b.URL(), Logger: b.options.Logger})
	require.NoError(b.t, err)

	return &Stack{
		Durable: durable,
		Store:   store,
		Public:  public,
		Auth:    api.NewAuthClient(public, store),
	}
}

// SignIn stores a fresh credential for name, as a login would.
func (s *Stack) SignIn(b *Backend, name string) string {
	token := b.IssueToken(name)
	s.Store.SetToken(context.Background(), token)
	return token
}
