// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/session"
)

// errEmptyRefresh is logged when the refresh endpoint answers 2xx without a token.
var errEmptyRefresh = errors.New("api: refresh response carried no token")

// # Request Lifecycle

// state is one step of an authenticated request.
//
//	SENT ─┬─> SUCCEEDED
//	      └─> FAILED ─┬─> (not eligible) return original error
//	                  └─> REFRESHING ─┬─> (refresh failed) logout, return original error
//	                                  └─> REPLAYED ─┬─> SUCCEEDED
//	                                                └─> FAILED_FINAL
type state int

const (
	stateSent state = iota
	stateSucceeded
	stateFailed
	stateRefreshing
	stateReplayed
	stateFailedFinal
)

func (s state) String() string {
	switch s {
	case stateSent:
		return "SENT"
	case stateSucceeded:
		return "SUCCEEDED"
	case stateFailed:
		return "FAILED"
	case stateRefreshing:
		return "REFRESHING"
	case stateReplayed:
		return "REPLAYED"
	case stateFailedFinal:
		return "FAILED_FINAL"
	default:
		return "UNKNOWN"
	}
}

// AuthClient attaches the session credential to every request and recovers
// from an expired credential by refreshing it and replaying the request once.
//
// # Concurrency
//
// Concurrent requests that fail with expiry at the same time each run their
// own refresh; refreshes are not coalesced.
type AuthClient struct {
	client *Client
	store  *session.Store
	logger *slog.Logger
}

// NewAuthClient wraps client with the credential held by store.
func NewAuthClient(client *Client, store *session.Store) *AuthClient {
	return &AuthClient{
		client: client,
		store:  store,
		logger: client.logger,
	}
}

/*
Do sends req with "Authorization: Bearer <credential>".

Flow:
 1. SENT: the credential is read from the store at send time.
 2. FAILED: a network failure or a non-expiry response is returned unchanged.
 3. REFRESHING: PATCH /user/refresh; on success the store takes the new token.
 4. REPLAYED: the same method, path and body bytes are sent once more with the
    new token; that outcome is final, even if it is another expiry.

If the refresh fails the session is logged out and the ORIGINAL error is
returned.
*/
func (c *AuthClient) Do(ctx context.Context, req Request) (*Response, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}

	var (
		current  = stateSent
		original attempt
		outcome  attempt
		fresh    string
	)

	for {
		switch current {
		case stateSent:
			credential := c.store.Token()
			outcome = c.client.send(ctx, p, &credential)
			if outcome.ok() {
				current = c.transition(p, current, stateSucceeded)
			} else {
				original = outcome
				current = c.transition(p, current, stateFailed)
			}

		case stateFailed:
			if !refreshEligible(p, original.err) {
				return nil, original.err
			}
			current = c.transition(p, current, stateRefreshing)

		case stateRefreshing:
			token, err := c.refresh(ctx)
			if err != nil {
				c.logger.Warn("credential_refresh_failed",
					slog.String("path", p.path),
					slog.Any("error", err),
				)
				c.store.Logout(ctx)
				return nil, original.err
			}
			c.store.SetToken(ctx, token)
			fresh = token
			current = c.transition(p, current, stateReplayed)

		case stateReplayed:
			outcome = c.client.send(ctx, p, &fresh)
			if outcome.ok() {
				current = c.transition(p, current, stateSucceeded)
			} else {
				current = c.transition(p, current, stateFailedFinal)
			}

		case stateSucceeded:
			return outcome.resp, nil

		case stateFailedFinal:
			return nil, outcome.err
		}
	}
}

// refreshEligible is the single guard of the FAILED → REFRESHING transition.
//
// The failure must be a server response with status 400 and the exact expiry
// sentinel, and the request must not be the refresh call itself.
func refreshEligible(p prepared, err error) bool {
	return apperr.IsAuthExpiry(err) && p.path != constants.PathRefresh
}

// refreshResponse is the body of PATCH /user/refresh.
type refreshResponse struct {
	Token string `json:"token"`
}

// refresh exchanges the current credential for a new one. It goes through
// [AuthClient.Do] like any other call; the path guard keeps it from
// refreshing itself.
func (c *AuthClient) refresh(ctx context.Context) (string, error) {
	body, err := DecodeInto[refreshResponse](ctx, c, Request{Method: http.MethodPatch, Path: constants.PathRefresh})
	if err != nil {
		return "", err
	}
	if body.Token == "" {
		return "", errEmptyRefresh
	}
	return body.Token, nil
}

func (c *AuthClient) transition(p prepared, from, to state) state {
	c.logger.Debug("auth_request_transition",
		slog.String("method", p.method),
		slog.String("path", p.path),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	return to
}
