// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ddpoautil

// RemoveAt returns a copy of s with the element at index i removed. If i is
// out of range, s is returned unchanged: callers use this when racing
// against concurrent mutation of the underlying list and would rather
// no-op than panic.
func RemoveAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// IndexOf returns the index of the first element equal to v, or -1.
func IndexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Remove returns a copy of s with the first occurrence of v removed. If v
// is not present, s is returned unchanged.
func Remove[T comparable](s []T, v T) []T {
	return RemoveAt(s, IndexOf(s, v))
}
