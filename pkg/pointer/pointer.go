// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer helps with optional fields.

Partial updates (product PATCH bodies, CLI flags that were or were not set)
model "absent" as a nil pointer; these helpers build and read such fields.
*/
package pointer

// To returns a pointer to a copy of v, e.g. pointer.To(120) for a price flag.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, yielding the zero value for nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, yielding current for nil. It is how a partial
// update keeps the fields the caller left out.
func Fallback[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}
