// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers.

It wraps the standard UUID library to generate Version 7 values. The HTTP
clients use them as X-Request-ID correlation values and the test backend uses
them as entity and token IDs.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision), so
    request IDs in a log read in send order.
  - Compact: 128-bit, compatible with standard 'uuid' parsers.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
//
// It falls back to a random v4 value when the v7 generator fails, so callers
// never have to handle an error for a correlation ID.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
