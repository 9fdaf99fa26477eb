// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/order"
	"github.com/taibuivan/storefront/internal/platform/config"
	"github.com/taibuivan/storefront/internal/platform/migration"
	"github.com/taibuivan/storefront/internal/platform/postgres"
	redisstore "github.com/taibuivan/storefront/internal/platform/redis"
	"github.com/taibuivan/storefront/internal/platform/storage"
	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/internal/router"
	"github.com/taibuivan/storefront/internal/session"
	"github.com/taibuivan/storefront/internal/user"
)

// app holds every wired component for one process.
type app struct {
	cfg *config.Config
	log *slog.Logger
	out io.Writer

	durable storage.Storage
	store   *session.Store
	users   *user.Service
	catalog *product.Service
	orders  *order.Service
	router  *router.Router
	reload  *reloadRequest

	// page is whatever the last load hook fetched.
	page any

	closeOnce sync.Once
	closers   []func() error
}

// newApp opens durable state and wires the session, clients, services and router.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) (*app, error) {
	a := &app{cfg: cfg, log: log, out: out, reload: &reloadRequest{}}

	durable, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.durable = durable
	a.store = session.NewStore(ctx, durable, log)

	public, err := api.NewClientFromConfig(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	auth := api.NewAuthClient(public, a.store)

	a.users = user.NewService(public, auth)
	a.catalog = product.NewService(public, auth)
	a.orders = order.NewService(auth)

	a.router, err = router.New(router.Options{
		Store:    a.store,
		Profiles: a.users,
		Storage:  durable,
		Titles:   titleLog{log: log},
		Reloader: a.reload,
		SiteName: cfg.SiteName,
		Logger:   log,
	}, a.routes()...)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// openStorage selects the durable backend named by STATE_BACKEND.
func (a *app) openStorage(ctx context.Context) (storage.Storage, error) {
	switch a.cfg.StateBackend {
	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, a.cfg.RedisURL, a.log)
		if err != nil {
			return nil, fmt.Errorf("open redis state: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return storage.NewRedisStorage(client, a.cfg.StatePrefix), nil

	case config.BackendPostgres:
		if err := migration.RunUp(a.cfg.DatabaseURL, a.log); err != nil {
			return nil, fmt.Errorf("migrate postgres state: %w", err)
		}
		pool, err := postgres.NewPool(ctx, a.cfg.DatabaseURL, a.log)
		if err != nil {
			return nil, fmt.Errorf("open postgres state: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		return storage.NewPostgresStorage(pool, a.cfg.StatePrefix), nil

	case config.BackendMemory:
		return storage.NewMemoryStorage(), nil

	default:
		durable, err := storage.NewFileStorage(a.cfg.StateFile, a.log)
		if err != nil {
			return nil, fmt.Errorf("open state file: %w", err)
		}
		return durable, nil
	}
}

// Close releases storage connections. Safe to call more than once.
func (a *app) Close() {
	a.closeOnce.Do(func() {
		for _, closer := range a.closers {
			if err := closer(); err != nil {
				a.log.Error("close_failed", slog.Any("error", err))
			}
		}
	})
}

// # Navigation

// visit navigates to path, performing the one-shot reload when the router
// asks for it.
func (a *app) visit(ctx context.Context, path string) (*router.Navigation, error) {
	a.page = nil

	nav, err := a.router.Navigate(ctx, path)
	if err == nil {
		return nav, nil
	}

	target, requested := a.reload.take()
	if !requested {
		return nil, err
	}

	a.log.Info("page_reloading", slog.String("path", target))
	a.router.Reset()
	return a.router.Navigate(ctx, target)
}

// reloadRequest records a reload the router asked for. The reload is carried
// out by [app.visit] once the failed navigation has returned.
type reloadRequest struct {
	mu   sync.Mutex
	path string
}

func (r *reloadRequest) Reload(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
	return nil
}

func (r *reloadRequest) take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path := r.path
	r.path = ""
	return path, path != ""
}

// titleLog publishes page titles to the log.
type titleLog struct {
	log *slog.Logger
}

func (t titleLog) SetTitle(title string) {
	t.log.Debug("page_title", slog.String("title", title))
}

// # Output

func (a *app) print(value any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}
