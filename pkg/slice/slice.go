// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice adds the generic Map, Filter and Reduce helpers that the
standard [slices] package leaves out.

Map and Filter never return nil, so results encode as [] rather than null
in JSON payloads.
*/
package slice

// Map applies transform to every element.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter keeps the elements for which keep returns true.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Reduce folds input into a single value, e.g. a cart total.
func Reduce[T any, U any](input []T, initial U, reducer func(accumulator U, current T) U) U {
	result := initial
	for _, v := range input {
		result = reducer(result, v)
	}
	return result
}
