// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

func TestBreakTiesFillsToCount(t *testing.T) {
	require := require.New(t)

	result := []types.Key{"a"}
	ballots := []types.Ballot{
		{"a", "b", "c"},
		{"a", "c", "b"},
		{"a", "b", "c"},
	}

	out := breakTies(result, ballots, 3, 42)
	require.Len(out, 3)
	require.Equal(types.Key("a"), out[0])
	require.ElementsMatch([]types.Key{"a", "b", "c"}, out)
}

func TestBreakTiesDeterministic(t *testing.T) {
	require := require.New(t)

	result := []types.Key{}
	ballots := []types.Ballot{
		{"a", "b"},
		{"b", "a"},
	}

	out1 := breakTies(append([]types.Key(nil), result...), ballots, 2, 7)
	out2 := breakTies(append([]types.Key(nil), result...), ballots, 2, 7)
	require.Equal(out1, out2)
}

func TestGetSlotWinnerSingleCandidate(t *testing.T) {
	require := require.New(t)

	require.Equal(types.Key("x"), getSlotWinner([]types.Key{"x"}, 1))
}

func TestGetSlotWinnerDeterministic(t *testing.T) {
	require := require.New(t)

	a := getSlotWinner([]types.Key{"x", "y", "z"}, 99)
	b := getSlotWinner([]types.Key{"x", "y", "z"}, 99)
	require.Equal(a, b)
}
