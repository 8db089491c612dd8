// Package collection provides generic, functional-style helpers for slices —
// Map, Filter, Reduce, SortBy.
//
// Usage:
//
//	names := collection.Map(products, func(p api.Product) string { return p.Name })
//	inStock := collection.Filter(products, func(p api.Product) bool { return p.StockQuantity > 0 })
//	total := collection.Reduce(items, 0, func(sum int, it api.CartItem) int { return sum + it.Quantity })
package collection

import "sort"

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reduce folds s into a single value, starting from init.
func Reduce[T, R any](s []T, init R, fn func(R, T) R) R {
	acc := init
	for _, v := range s {
		acc = fn(acc, v)
	}
	return acc
}

// SortBy returns a sorted copy of s, ordered by the key extracted by fn.
func SortBy[T any, K int | int64 | float64 | string](s []T, fn func(T) K) []T {
	out := make([]T, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return fn(out[i]) < fn(out[j]) })
	return out
}
