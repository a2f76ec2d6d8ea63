// Package collection provides generic helpers for slices: Map, Filter,
// First, Chunk, GroupBy, Contains.
package collection

// Map transforms each element of s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which fn is true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Chunk splits s into slices of at most size elements.
func Chunk[T any](s []T, size int) [][]T {
	if size <= 0 {
		return [][]T{s}
	}
	var out [][]T
	for size < len(s) {
		out = append(out, s[:size])
		s = s[size:]
	}
	if len(s) > 0 {
		out = append(out, s)
	}
	return out
}

// GroupBy buckets elements of s by the key fn returns.
func GroupBy[T any, K comparable](s []T, fn func(T) K) map[K][]T {
	out := map[K][]T{}
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// Contains reports whether s holds v.
func Contains[T comparable](s []T, v T) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
