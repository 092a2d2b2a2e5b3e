// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

func TestTabulateSTVUnanimousBallots(t *testing.T) {
	require := require.New(t)

	candidates := []types.Key{"a", "b", "c", "d"}
	ballot := types.Ballot{"a", "b", "c", "d"}
	ballots := []types.Ballot{ballot, ballot, ballot, ballot, ballot}

	result := tabulateSTV(candidates, ballots, 4)
	require.Equal([]types.Key{"a", "b", "c", "d"}, result)
}

func TestTabulateSTVSplitVote(t *testing.T) {
	require := require.New(t)

	candidates := []types.Key{"a", "b", "c", "d"}
	ballots := []types.Ballot{
		{"a", "b", "c", "d"},
		{"a", "b", "d", "c"},
		{"b", "a", "c", "d"},
		{"c", "d", "a", "b"},
		{"d", "c", "b", "a"},
	}

	result := tabulateSTV(candidates, ballots, 4)
	require.LessOrEqual(len(result), 4)
	require.ElementsMatch(result, result) // no duplicates implied by construction
	seen := map[types.Key]bool{}
	for _, k := range result {
		require.False(seen[k], "duplicate candidate %s in result", k)
		seen[k] = true
	}
}

func TestTabulateSTVFewerCandidatesThanSeatsElectsAll(t *testing.T) {
	require := require.New(t)

	candidates := []types.Key{"a", "b"}
	ballots := []types.Ballot{{"a", "b"}, {"b", "a"}}

	result := tabulateSTV(candidates, ballots, 2)
	require.ElementsMatch([]types.Key{"a", "b"}, result)
}

func TestDroopQuota(t *testing.T) {
	require := require.New(t)

	require.Equal(3.0, droopQuota(5, 1))
	require.Equal(2.0, droopQuota(5, 4))
}
