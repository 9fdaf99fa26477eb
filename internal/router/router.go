// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package router implements the storefront's navigation guard.

Every navigation is matched against a chi route table, gated on the current
session and, when allowed, completed by the route's optional load hook and a
title update. The very first navigation of a process also resolves the
identity behind a restored credential.

Flow of [Router.Navigate]:

 1. Bootstrap (first navigation only): resolve the profile for a stored credential.
 2. Match the path against the route table.
 3. Gate with [Decide]; follow redirects, at most [constants.MaxRedirects].
 4. Run the route's [LoadFunc]; a module-load failure triggers one reload.
 5. Clear the reload flag, then publish the title.

Navigations are serialized; the router is safe for concurrent use.
*/
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/storage"
	"github.com/taibuivan/storefront/internal/session"
)

// # Errors

var (
	// ErrNotFound is returned for a path no route matches.
	ErrNotFound = errors.New("router: no route matches path")

	// ErrTooManyRedirects is returned when redirects do not settle.
	ErrTooManyRedirects = errors.New("router: too many redirects")
)

// StartLocation is the pseudo-location a router sits at before its first
// successful navigation.
const StartLocation = ""

// # Route Table

// Meta is the static description of a route.
type Meta struct {
	Title  string
	Access Access
}

// Match is a resolved navigation target.
type Match struct {
	Pattern string
	Path    string
	Query   url.Values
	Params  map[string]string
}

// LoadFunc prepares a page after the gate allowed it.
type LoadFunc func(ctx context.Context, match Match) error

// Route binds a chi pattern to its metadata and load hook.
type Route struct {
	Path string
	Meta Meta
	Load LoadFunc
}

// # Collaborators

// ProfileResolver resolves the identity behind the current credential.
type ProfileResolver interface {
	Profile(ctx context.Context) (*session.Payload, error)
}

// TitleSink receives the composed title after every successful navigation.
type TitleSink interface {
	SetTitle(title string)
}

// Options wires a [Router].
type Options struct {
	Store    *session.Store
	Profiles ProfileResolver
	Storage  storage.Storage
	Titles   TitleSink
	Reloader Reloader
	SiteName string
	Logger   *slog.Logger
}

// Navigation describes a completed navigation.
type Navigation struct {
	From      string
	Requested string
	Redirects []string
	Match     Match
	Title     string
}

// To is the path the navigation settled on.
func (n *Navigation) To() string { return n.Match.Path }

// Router is the navigation guard.
type Router struct {
	mux      *chi.Mux
	routes   map[string]Route
	store    *session.Store
	profiles ProfileResolver
	titles   TitleSink
	reloader Reloader
	flag     reloadFlag
	siteName string
	logger   *slog.Logger

	mu      sync.Mutex
	current string
}

// New builds a router over routes. Patterns must be unique.
func New(options Options, routes ...Route) (*Router, error) {
	if options.Store == nil {
		return nil, fmt.Errorf("router: session store is required")
	}
	if options.Storage == nil {
		options.Storage = storage.NewMemoryStorage()
	}
	if options.SiteName == "" {
		options.SiteName = constants.DefaultSiteName
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	r := &Router{
		mux:      chi.NewRouter(),
		routes:   make(map[string]Route, len(routes)),
		store:    options.Store,
		profiles: options.Profiles,
		titles:   options.Titles,
		reloader: options.Reloader,
		flag:     reloadFlag{durable: options.Storage, logger: options.Logger},
		siteName: options.SiteName,
		logger:   options.Logger,
		current:  StartLocation,
	}

	for _, route := range routes {
		if !strings.HasPrefix(route.Path, "/") {
			return nil, fmt.Errorf("router: pattern %q must start with '/'", route.Path)
		}
		if _, duplicate := r.routes[route.Path]; duplicate {
			return nil, fmt.Errorf("router: duplicate pattern %q", route.Path)
		}
		r.routes[route.Path] = route

		// The mux only matches; it never serves
		r.mux.Get(route.Path, http.NotFound)
	}

	return r, nil
}

// Current is the path of the last successful navigation, or [StartLocation].
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reset returns the router to [StartLocation], as a restarted process would be.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = StartLocation
}

// # Navigation

// Navigate runs one navigation to path.
//
// The first navigation from [StartLocation] bootstraps the session. A failed
// navigation leaves the current location unchanged, so after a failed first
// navigation the next one bootstraps again.
func (r *Router) Navigate(ctx context.Context, path string) (*Navigation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from := r.current
	if from == StartLocation {
		r.bootstrap(ctx)
	}

	nav := &Navigation{From: from, Requested: path}

	route, match, err := r.settle(ctx, path, nav)
	if err != nil {
		return nil, err
	}

	if route.Load != nil {
		if err := route.Load(ctx, match); err != nil {
			return nil, r.recoverLoad(ctx, match.Path, err)
		}
	}

	r.current = match.Path
	r.flag.set(ctx, FlagCleared)

	nav.Match = match
	nav.Title = r.composeTitle(route.Meta.Title)
	if r.titles != nil {
		r.titles.SetTitle(nav.Title)
	}

	r.logger.DebugContext(ctx, "navigation_completed",
		slog.String("from", from),
		slog.String("to", match.Path),
		slog.Int("redirects", len(nav.Redirects)),
	)
	return nav, nil
}

// bootstrap resolves a restored credential into a full identity.
//
// A failed resolution resets the whole session, so no stale role or account
// outlives the credential it belonged to. The navigation proceeds either way.
func (r *Router) bootstrap(ctx context.Context) {
	if r.profiles == nil || !r.store.IsAuthenticated() {
		return
	}

	payload, err := r.profiles.Profile(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "bootstrap_profile_failed", slog.Any("error", err))
		r.store.Logout(ctx)
		return
	}

	payload.Token = ""
	r.store.Login(ctx, *payload)
}

// settle matches path and follows gate redirects until a route allows entry.
func (r *Router) settle(ctx context.Context, path string, nav *Navigation) (Route, Match, error) {
	target := path
	for {
		route, match, err := r.match(target)
		if err != nil {
			return Route{}, Match{}, err
		}

		decision := Decide(route.Meta.Access, r.store.Snapshot())
		if decision.Allow {
			return route, match, nil
		}

		if len(nav.Redirects) == constants.MaxRedirects {
			return Route{}, Match{}, fmt.Errorf("%w: %s", ErrTooManyRedirects, strings.Join(nav.Redirects, " -> "))
		}

		r.logger.DebugContext(ctx, "navigation_redirected",
			slog.String("path", match.Path),
			slog.String("access", route.Meta.Access.String()),
			slog.String("redirect", decision.Redirect),
		)
		nav.Redirects = append(nav.Redirects, decision.Redirect)
		target = decision.Redirect
	}
}

// match resolves a path (with optional query) against the route table.
func (r *Router) match(target string) (Route, Match, error) {
	parsed, err := url.Parse(target)
	if err != nil || !strings.HasPrefix(parsed.Path, "/") {
		return Route{}, Match{}, fmt.Errorf("%w: %q", ErrNotFound, target)
	}

	rctx := chi.NewRouteContext()
	pattern := r.mux.Find(rctx, http.MethodGet, parsed.Path)
	route, found := r.routes[pattern]
	if !found {
		return Route{}, Match{}, fmt.Errorf("%w: %q", ErrNotFound, target)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}

	return route, Match{
		Pattern: pattern,
		Path:    parsed.Path,
		Query:   parsed.Query(),
		Params:  params,
	}, nil
}

// recoverLoad performs the one-shot reload for module-load failures.
// The original error is always returned.
func (r *Router) recoverLoad(ctx context.Context, path string, err error) error {
	if !errors.Is(err, ErrModuleLoad) {
		r.logger.ErrorContext(ctx, "navigation_load_failed", slog.String("path", path), slog.Any("error", err))
		return err
	}

	if r.flag.get(ctx) == FlagSet {
		r.logger.ErrorContext(ctx, "reload_did_not_fix_module_load", slog.String("path", path), slog.Any("error", err))
		return err
	}

	r.logger.InfoContext(ctx, "reloading_after_module_load_failure", slog.String("path", path))
	r.flag.set(ctx, FlagSet)

	if r.reloader == nil {
		return err
	}
	if reloadErr := r.reloader.Reload(ctx, path); reloadErr != nil {
		return errors.Join(err, reloadErr)
	}
	return err
}

func (r *Router) composeTitle(title string) string {
	if title == "" {
		return r.siteName
	}
	return title + " | " + r.siteName
}
