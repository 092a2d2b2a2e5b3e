// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ddpoautil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcatAndHashDeterministic(t *testing.T) {
	require := require.New(t)

	a := ConcatAndHash("witness-a", "seed123", 4)
	b := ConcatAndHash("witness-a", "seed123", 4)
	require.Equal(a, b)
	require.Len(a, 64)
}

func TestConcatAndHashOrderSensitive(t *testing.T) {
	require := require.New(t)

	a := ConcatAndHash("x", "y")
	b := ConcatAndHash("y", "x")
	require.NotEqual(a, b)
}

func TestConcatAndHashDiffersOnInputChange(t *testing.T) {
	require := require.New(t)

	a := ConcatAndHash("witness-a", "seed123", 4)
	b := ConcatAndHash("witness-a", "seed123", 5)
	require.NotEqual(a, b)
}
