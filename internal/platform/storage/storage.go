// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides the durable client-side key/value state.

It is the Go counterpart of a browser's localStorage: a handful of string keys
that survive process restarts. Two keys are used by the client, the persisted
session subset and the one-shot reload flag.

Backends:

  - FileStorage: a single JSON document on disk (default).
  - RedisStorage: prefixed keys in Redis, shared between processes.
  - PostgresStorage: one row per key in client.state.
  - MemoryStorage: process-local, for tests and STATE_BACKEND=memory.

Reads and writes are synchronous from the caller's point of view.
*/
package storage

import "context"

// Storage is the durable key/value contract shared by all backends.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
