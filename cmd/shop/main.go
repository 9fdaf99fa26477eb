// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command shop is the command-line storefront.
//
// # Startup Sequence
//
//  1. Initialize structured logger (JSON on stderr).
//  2. Load configuration from environment variables.
//  3. Open durable state (file, redis, postgres or memory).
//  4. Restore the session and wire clients, services and the navigation guard.
//  5. Run the requested command; results are JSON on stdout.
//
// Every command navigates to its page first, so the credential bootstrap and
// the access gate run exactly as they would on a page load.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/taibuivan/storefront/internal/platform/config"
	"github.com/taibuivan/storefront/internal/platform/constants"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// stdout carries command results, so logs go to stderr.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Debug("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("api_url", cfg.APIURL),
		slog.String("state_backend", cfg.StateBackend),
	)

	// ── 3-4. Wiring ───────────────────────────────────────────────────────
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	application, err := newApp(startupCtx, cfg, log, os.Stdout)
	must(log, err, "wire application")
	defer application.Close()

	// ── 5. Command ────────────────────────────────────────────────────────
	if err := newRootCommand(application).ExecuteContext(context.Background()); err != nil {
		log.Error("command_failed", slog.Any("error", err))
		application.Close()
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring; command failures are returned and reported.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
