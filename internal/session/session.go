// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the client-side record of who is signed in.

It is the single stateful entity of the storefront client: account handle,
cart count, role and bearer credential. One [Store] is created per process and
injected into every component that reads or mutates it.

Invariants:

  - Only the credential is persisted; everything else starts from defaults and
    is re-resolved from the backend.
  - The role is never restored from durable state.
  - Logout resets all four fields in one critical section.
*/
package session

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// RoleUser is the default role for shoppers and anonymous sessions.
	RoleUser Role = "user"

	// RoleAdmin may manage products and see every order.
	RoleAdmin Role = "admin"
)

// ParseRole maps a backend role string to a [Role].
// Anything unknown falls back to [RoleUser].
func ParseRole(raw string) Role {
	if Role(raw) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// # Session

// Session is an immutable snapshot of the store.
type Session struct {
	Account   string `json:"account"`
	CartTotal int    `json:"cartTotal"`
	Role      Role   `json:"role"`
	Token     string `json:"-"`
}

// Anonymous returns the default session.
func Anonymous() Session {
	return Session{Role: RoleUser}
}

// IsAuthenticated reports whether a credential is present.
func (s Session) IsAuthenticated() bool {
	return len(s.Token) > 0
}

// IsPrivileged reports whether the session belongs to an administrator.
func (s Session) IsPrivileged() bool {
	return s.Role == RoleAdmin
}

// Payload is the user object returned by login, registration and profile
// responses. Token is empty on profile responses.
type Payload struct {
	Account   string `json:"account"`
	CartTotal int    `json:"cartTotal"`
	Role      string `json:"role"`
	Token     string `json:"token,omitempty"`
}
