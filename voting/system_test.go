// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

func newTestSystem() *System {
	return NewSystem("self", []types.Key{"self", "b", "c", "d"}, 2, rand.New(rand.NewSource(1)))
}

func TestAddAndHasVoted(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	require.False(s.HasVoted("self", 1))
	s.AddBallot(1, "self", types.Ballot{"self", "b", "c", "d"})
	require.True(s.HasVoted("self", 1))
	require.False(s.HasVoted("b", 1))
}

func TestConsensusAmount(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	// num_slots=2, online=4 -> max(2, 1+(4*2)//3) = max(2, 3) = 3
	require.Equal(3, s.ConsensusAmount(4))
	// online=1 -> max(2, 1+(2)//3)=max(2,1)=2
	require.Equal(2, s.ConsensusAmount(1))
}

func TestHasEnoughAndAllBallots(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	s.AddBallot(1, "self", types.Ballot{"self", "b", "c", "d"})
	s.AddBallot(1, "b", types.Ballot{"b", "self", "c", "d"})
	require.False(s.HasEnoughBallots(1, 4))
	s.AddBallot(1, "c", types.Ballot{"c", "b", "self", "d"})
	require.True(s.HasEnoughBallots(1, 4))
	require.False(s.HasAllBallots(1, 4))
	s.AddBallot(1, "d", types.Ballot{"d", "c", "b", "self"})
	require.True(s.HasAllBallots(1, 4))
}

func TestGetConsensusResult(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	r1 := types.Result{"a", "b"}
	r2 := types.Result{"b", "a"}
	s.SetPeerResult(1, "self", r1)
	s.SetPeerResult(1, "b", r1)
	s.SetPeerResult(1, "c", r2)

	result, count := s.GetConsensusResult(1)
	require.Equal(r1, result)
	require.Equal(2, count)
}

func TestHasEnoughSimilarResults(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	r := types.Result{"a", "b"}
	require.False(s.HasEnoughSimilarResults(1, 4))

	s.SetPeerResult(1, "self", r)
	s.SetPeerResult(1, "b", r)
	s.SetPeerResult(1, "c", r)
	// consensus amount for online=4 is 3; 3 matching results -> true.
	require.True(s.HasEnoughSimilarResults(1, 4))
}

func TestRemoveOldEpochData(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	for e := 1; e <= 11; e++ {
		s.SetPeerResult(e, "self", types.Result{"a"})
		s.SetCandidates(e, types.Result{"a"})
		s.AddBallot(e, "self", types.Ballot{"a"})
	}
	require.Len(s.results, 11)
	s.RemoveOldEpochData()
	require.Len(s.results, 5)
	require.Len(s.candidates, 5)
	require.Len(s.ballots, 5)
	// kept epochs are the 5 most recent: 7..11
	_, ok := s.results[11]
	require.True(ok)
	_, ok = s.results[6]
	require.False(ok)
}

func TestCalculateResultSetsOwnResult(t *testing.T) {
	require := require.New(t)

	s := newTestSystem()
	s.AddBallot(1, "self", types.Ballot{"self", "b", "c", "d"})
	s.AddBallot(1, "b", types.Ballot{"b", "self", "c", "d"})
	s.AddBallot(1, "c", types.Ballot{"c", "d", "self", "b"})
	s.AddBallot(1, "d", types.Ballot{"d", "c", "b", "self"})

	result := s.CalculateResult(1)
	require.Len(result, 4)
	require.ElementsMatch([]types.Key{"self", "b", "c", "d"}, result)

	stored := s.GetCandidates(1)
	require.Nil(stored) // SetCandidates is driven separately by the engine
	ownResult, count := s.GetConsensusResult(1)
	require.Equal(result, ownResult)
	require.Equal(1, count)
}
