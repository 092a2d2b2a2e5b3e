// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package epoch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
)

func members(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestSetCandidatesAndWitnesses(t *testing.T) {
	require := require.New(t)

	e := New(1, 3)
	e.SetCandidatesAndWitnesses(members(5))
	require.Equal([]string{"a", "b", "c"}, e.witnesses)
	require.Equal([]string{"d", "e"}, e.candidates)
	require.True(e.IsInitialized())
}

func TestSetCandidatesAndWitnessesFewerThanSlots(t *testing.T) {
	require := require.New(t)

	e := New(1, 5)
	e.SetCandidatesAndWitnesses(members(3))
	require.Equal([]string{"a", "b", "c"}, e.witnesses)
	require.Empty(e.candidates)
}

func TestCurrentAndNextWitness(t *testing.T) {
	require := require.New(t)

	e := New(1, 3)
	e.SetCandidatesAndWitnesses(members(3))
	require.Equal("a", e.CurrentWitness())
	require.Equal("b", e.NextWitness())
}

func TestCurrentWitnessEmpty(t *testing.T) {
	require := require.New(t)

	e := New(1, 3)
	require.Equal("", e.CurrentWitness())
	require.Equal("", e.NextWitness())
	require.False(e.IsInitialized())
}

func TestIncrementWitnessNotInitialized(t *testing.T) {
	require := require.New(t)

	e := New(1, 3)
	err := e.IncrementWitness("block1")
	require.ErrorIs(err, config.ErrEpochNotInitialized)
}

func TestIncrementWitnessAdvancesAndWraps(t *testing.T) {
	require := require.New(t)

	e := New(1, 3)
	e.SetCandidatesAndWitnesses(members(3))

	require.NoError(e.IncrementWitness("block1"))
	require.Equal(1, e.CurrentWitnessIdx)
	require.NoError(e.IncrementWitness("block2"))
	require.Equal(2, e.CurrentWitnessIdx)

	// third increment wraps current_witness_idx % len(witnesses) == 0,
	// triggering a reshuffle (order may change but membership must not).
	require.NoError(e.IncrementWitness("block3"))
	require.Equal(3, e.CurrentWitnessIdx)
	require.ElementsMatch([]string{"a", "b", "c"}, e.witnesses)
}

func TestReorderIsDeterministic(t *testing.T) {
	require := require.New(t)

	e1 := New(1, 3)
	e1.SetCandidatesAndWitnesses(members(3))
	e2 := New(1, 3)
	e2.SetCandidatesAndWitnesses(members(3))

	for i := 0; i < 3; i++ {
		require.NoError(e1.IncrementWitness("block1"))
		require.NoError(e2.IncrementWitness("block1"))
	}
	require.Equal(e1.witnesses, e2.witnesses)
}

func TestDowngradeWitness(t *testing.T) {
	require := require.New(t)

	e := New(1, 2)
	e.SetCandidatesAndWitnesses(members(4))
	require.Equal([]string{"a", "b"}, e.witnesses)
	require.Equal([]string{"c", "d"}, e.candidates)

	e.DowngradeWitness("a")
	require.Equal([]string{"c", "b"}, e.witnesses)
	require.Equal([]string{"d", "a"}, e.candidates)
	require.False(e.IsWitness("a"))
	require.True(e.IsWitness("c"))
}

func TestDowngradeWitnessNonWitnessNoop(t *testing.T) {
	require := require.New(t)

	e := New(1, 2)
	e.SetCandidatesAndWitnesses(members(4))
	before := append([]string(nil), e.witnesses...)
	e.DowngradeWitness("d")
	require.Equal(before, e.witnesses)
}

func TestPositionInWitnessList(t *testing.T) {
	require := require.New(t)

	e := New(1, 3)
	e.SetCandidatesAndWitnesses(members(3))
	require.Equal(1, e.PositionInWitnessList("b"))
	require.Equal(-1, e.PositionInWitnessList("z"))
}

func TestIsOverAndIsLastRound(t *testing.T) {
	require := require.New(t)

	e := New(1, 2)
	e.SetCandidatesAndWitnesses(members(2))
	// RoundsPerEpoch == 3, 2 witnesses => over at idx 6, last round starts at idx 4.
	require.False(e.IsOver())
	require.False(e.IsLastRound())

	e.CurrentWitnessIdx = 4
	require.True(e.IsLastRound())
	require.False(e.IsOver())

	e.CurrentWitnessIdx = 6
	require.True(e.IsOver())
}

func TestSlotsRemainingInEpoch(t *testing.T) {
	require := require.New(t)

	e := New(1, 2)
	e.SetCandidatesAndWitnesses(members(2))
	require.Equal(6, e.SlotsRemainingInEpoch())
	e.CurrentWitnessIdx = 2
	require.Equal(4, e.SlotsRemainingInEpoch())
}

func TestFullCandidateList(t *testing.T) {
	require := require.New(t)

	e := New(1, 2)
	e.SetCandidatesAndWitnesses(members(4))
	require.Equal([]string{"a", "b", "c", "d"}, e.FullCandidateList())
}

func TestNextEpochNumber(t *testing.T) {
	require := require.New(t)

	e := New(7, 2)
	require.Equal(8, e.NextEpochNumber())
}

func TestString(t *testing.T) {
	require := require.New(t)

	e := New(1, 2)
	e.SetCandidatesAndWitnesses(members(2))
	require.Contains(e.String(), "Epoch(")
}
