// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/taibuivan/storefront/internal/platform/apperr"
)

// Doer issues one logical request against the backend.
//
// Both [Client] and [AuthClient] implement it; service wrappers depend on the
// interface so tests can substitute either.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Request describes one backend call.
type Request struct {
	// Method is the HTTP verb (http.MethodGet, ...).
	Method string
	// Path is relative to the configured base URL, e.g. "/order/my".
	Path string
	// Query is appended as the URL query string when non-empty.
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// Response is a fully read 2xx backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte

	method string
	path   string
}

// Decode unmarshals the JSON body into target.
func (r *Response) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return apperr.Decode(r.method, r.path, r.Status, err)
	}
	return nil
}

// prepared is a [Request] with its body already encoded, so the exact same
// bytes can be sent again on replay.
type prepared struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

func prepare(req Request) (prepared, error) {
	p := prepared{
		method: req.Method,
		path:   req.Path,
		query:  req.Query,
	}
	if p.method == "" {
		p.method = http.MethodGet
	}

	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return prepared{}, fmt.Errorf("api: encode %s %s body: %w", p.method, p.path, err)
		}
		p.body = b
	}
	return p, nil
}

// attempt is the outcome of sending one prepared request: exactly one of
// resp and err is set.
type attempt struct {
	resp *Response
	err  error
}

func (a attempt) ok() bool { return a.err == nil }

// # Convenience helpers

// Get issues a GET request.
func Get(ctx context.Context, doer Doer, path string, query url.Values) (*Response, error) {
	return doer.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with an optional JSON body.
func Post(ctx context.Context, doer Doer, path string, body any) (*Response, error) {
	return doer.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch issues a PATCH request with an optional JSON body.
func Patch(ctx context.Context, doer Doer, path string, body any) (*Response, error) {
	return doer.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request.
func Delete(ctx context.Context, doer Doer, path string) (*Response, error) {
	return doer.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// DecodeInto runs a request and decodes its body into a fresh T.
func DecodeInto[T any](ctx context.Context, doer Doer, req Request) (*T, error) {
	resp, err := doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	target := new(T)
	if err := resp.Decode(target); err != nil {
		return nil, err
	}
	return target, nil
}
