// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package router

import "github.com/taibuivan/storefront/internal/session"

// # Access Classes

// Access classifies who may enter a route.
type Access int

const (
	// AccessNone lets everyone in.
	AccessNone Access = iota
	// AccessAnonymousOnly sends signed-in visitors home (login, register).
	AccessAnonymousOnly
	// AccessAuthenticatedOnly sends anonymous visitors to the login page.
	AccessAuthenticatedOnly
	// AccessAdminOnly sends non-administrators home.
	AccessAdminOnly
)

func (a Access) String() string {
	switch a {
	case AccessAnonymousOnly:
		return "anonymous-only"
	case AccessAuthenticatedOnly:
		return "authenticated-only"
	case AccessAdminOnly:
		return "admin-only"
	default:
		return "none"
	}
}

// Redirect targets.
const (
	PathHome  = "/"
	PathLogin = "/login"
)

// Decision is the outcome of the gate for one route.
type Decision struct {
	Allow    bool
	Redirect string
}

// Decide evaluates the gate in fixed priority order. It reads nothing but
// its arguments.
func Decide(access Access, current session.Session) Decision {
	switch {
	case access == AccessAnonymousOnly && current.IsAuthenticated():
		return Decision{Redirect: PathHome}
	case access == AccessAuthenticatedOnly && !current.IsAuthenticated():
		return Decision{Redirect: PathLogin}
	case access == AccessAdminOnly && !current.IsPrivileged():
		return Decision{Redirect: PathHome}
	default:
		return Decision{Allow: true}
	}
}
