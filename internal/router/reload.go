// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/storage"
)

// ErrModuleLoad marks a page whose resources failed to load. A [LoadFunc]
// returning an error that matches it triggers the one-shot reload recovery.
var ErrModuleLoad = errors.New("router: page module failed to load")

// ModuleLoadError wraps cause so that it matches [ErrModuleLoad].
func ModuleLoadError(cause error) error {
	return fmt.Errorf("%w: %w", ErrModuleLoad, cause)
}

// Reloader performs a full reload of path, as if the process had just started.
//
// Reload runs while the router is mid-navigation and must not call back into
// it; schedule the fresh navigation instead.
type Reloader interface {
	Reload(ctx context.Context, path string) error
}

// # Reload Flag

// Flag is the persisted state of the one-shot reload guard.
type Flag int

const (
	// FlagAbsent means no reload was ever attempted.
	FlagAbsent Flag = iota
	// FlagSet means a reload was attempted and no navigation succeeded since.
	FlagSet
	// FlagCleared means a navigation succeeded after the last reload.
	FlagCleared
)

const (
	flagValueSet     = "set"
	flagValueCleared = "cleared"
)

func (f Flag) String() string {
	switch f {
	case FlagSet:
		return "set"
	case FlagCleared:
		return "cleared"
	default:
		return "absent"
	}
}

// reloadFlag reads and writes [Flag] under [constants.StorageKeyReloadFlag].
// Storage failures are logged and read as [FlagAbsent].
type reloadFlag struct {
	durable storage.Storage
	logger  *slog.Logger
}

func (f reloadFlag) get(ctx context.Context) Flag {
	raw, found, err := f.durable.Get(ctx, constants.StorageKeyReloadFlag)
	if err != nil {
		f.logger.WarnContext(ctx, "reload_flag_read_failed", slog.Any("error", err))
		return FlagAbsent
	}

	switch {
	case !found:
		return FlagAbsent
	case raw == flagValueSet:
		return FlagSet
	case raw == flagValueCleared:
		return FlagCleared
	default:
		f.logger.WarnContext(ctx, "reload_flag_malformed", slog.String("value", raw))
		return FlagAbsent
	}
}

func (f reloadFlag) set(ctx context.Context, flag Flag) {
	var err error
	switch flag {
	case FlagSet:
		err = f.durable.Set(ctx, constants.StorageKeyReloadFlag, flagValueSet)
	case FlagCleared:
		err = f.durable.Set(ctx, constants.StorageKeyReloadFlag, flagValueCleared)
	default:
		err = f.durable.Remove(ctx, constants.StorageKeyReloadFlag)
	}
	if err != nil {
		f.logger.WarnContext(ctx, "reload_flag_write_failed", slog.String("flag", flag.String()), slog.Any("error", err))
	}
}
