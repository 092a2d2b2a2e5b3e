// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ddpoautil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveAt(t *testing.T) {
	require := require.New(t)

	s := []string{"a", "b", "c"}
	require.Equal([]string{"a", "c"}, RemoveAt(s, 1))
	require.Equal(s, RemoveAt(s, -1))
	require.Equal(s, RemoveAt(s, 3))
}

func TestRemove(t *testing.T) {
	require := require.New(t)

	s := []string{"a", "b", "c"}
	require.Equal([]string{"a", "c"}, Remove(s, "b"))
	require.Equal(s, Remove(s, "z"))
}

func TestIndexOf(t *testing.T) {
	require := require.New(t)

	require.Equal(1, IndexOf([]string{"a", "b"}, "b"))
	require.Equal(-1, IndexOf([]string{"a", "b"}, "z"))
}
