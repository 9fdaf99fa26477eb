// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/internal/platform/respond"
	"github.com/taibuivan/storefront/internal/platform/sec"
)

// TokenVerifier verifies bearer credentials.
//
// VerifySignature must accept expired credentials; it is only consulted for
// the refresh endpoint.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
	VerifySignature(tokenString string) (*sec.Claims, error)
}

// Authenticate extracts and verifies the bearer credential.
//
// # Flow
//  1. No credential (or an empty one): the request proceeds as anonymous.
//  2. Valid credential: its claims are injected into the context.
//  3. Expired credential on the refresh endpoint: accepted, the handler
//     decides whether it is still renewable.
//  4. Expired credential elsewhere: 400 with the expiry sentinel.
//  5. Anything else: 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString, present := bearer(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				if !sec.IsExpired(err) {
					respond.Error(writer, request, apperr.HTTPError(http.StatusUnauthorized, "登入無效"))
					return
				}

				// ── 3. Expiry ─────────────────────────────────────────────────
				if request.URL.Path != constants.PathRefresh {
					respond.Expired(writer)
					return
				}
				if claims, err = verifier.VerifySignature(tokenString); err != nil {
					respond.Error(writer, request, apperr.HTTPError(http.StatusUnauthorized, "登入無效"))
					return
				}
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearer returns the credential of an "Authorization: Bearer <token>" header.
func bearer(request *http.Request) (string, bool) {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return RequireRole(sec.RoleUser)(next)
}

// RequireRole blocks requests whose credential role is below role.
//
// Must be registered AFTER [Authenticate]. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.HTTPError(http.StatusUnauthorized, "未登入"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.HTTPError(http.StatusForbidden, "沒有權限"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
