// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"math/rand"
	"sort"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// System creates ballots, collects ballots and results from peers, and
// tabulates the STV-plus-tie-break election result for each epoch.
//
// It is not safe for concurrent use; the driver loop is its sole
// mutator.
type System struct {
	key      types.Key
	peerKeys []types.Key
	numSlots int

	ballots    map[int]map[types.Key]types.Ballot
	results    map[int]map[types.Key]types.Result
	candidates map[int][]types.Key

	rng *rand.Rand
}

// NewSystem returns a System for the node identified by key, over the
// given closed peer set, electing numSlots witnesses per epoch.
func NewSystem(key types.Key, peerKeys []types.Key, numSlots int, rng *rand.Rand) *System {
	return &System{
		key:        key,
		peerKeys:   append([]types.Key(nil), peerKeys...),
		numSlots:   numSlots,
		ballots:    make(map[int]map[types.Key]types.Ballot),
		results:    make(map[int]map[types.Key]types.Result),
		candidates: make(map[int][]types.Key),
		rng:        rng,
	}
}

// FillBallot draws this node's own ballot for the given peer liveness
// snapshot.
func (s *System) FillBallot(peers map[types.Key]PeerInfo) types.Ballot {
	return FillBallot(s.peerKeys, peers, s.rng)
}

// AddBallot stores a ballot received from key (which may be this node
// itself) for epochNumber.
func (s *System) AddBallot(epochNumber int, key types.Key, ballot types.Ballot) {
	if _, ok := s.ballots[epochNumber]; !ok {
		s.ballots[epochNumber] = make(map[types.Key]types.Ballot)
	}
	s.ballots[epochNumber][key] = ballot
}

// Ballot returns the ballot key submitted for epochNumber, if any.
func (s *System) Ballot(epochNumber int, key types.Key) (types.Ballot, bool) {
	ballots, ok := s.ballots[epochNumber]
	if !ok {
		return nil, false
	}
	b, ok := ballots[key]
	return b, ok
}

// SetCandidates records the elected candidate list for epochNumber.
func (s *System) SetCandidates(epochNumber int, result types.Result) {
	s.candidates[epochNumber] = append([]types.Key(nil), result...)
}

// GetCandidates returns the candidate list recorded for epochNumber, or
// nil if none has been set yet.
func (s *System) GetCandidates(epochNumber int) types.Result {
	return s.candidates[epochNumber]
}

// GetConsensusResult returns the most-agreed-upon result received for
// epochNumber and how many peers reported it.
func (s *System) GetConsensusResult(epochNumber int) (types.Result, int) {
	counts := make(map[string]int)
	values := make(map[string]types.Result)
	for _, r := range s.results[epochNumber] {
		h := r.Hash()
		counts[h]++
		values[h] = r
	}

	var best string
	bestCount := -1
	for h, c := range counts {
		if c > bestCount {
			best = h
			bestCount = c
		}
	}
	return values[best], bestCount
}

// CalculateResult tabulates this node's own STV-plus-tie-break result
// for epochNumber from all ballots received so far, records it as this
// node's own result, and returns it.
func (s *System) CalculateResult(epochNumber int) types.Result {
	ballots := make([]types.Ballot, 0, len(s.ballots[epochNumber]))
	for _, b := range s.ballots[epochNumber] {
		ballots = append(ballots, b)
	}

	result := tabulateSTV(s.peerKeys, ballots, len(s.peerKeys))
	if len(result) < len(s.peerKeys) {
		result = breakTies(result, ballots, len(s.peerKeys), epochNumber)
	}

	s.SetPeerResult(epochNumber, s.key, result)
	return result
}

// SetPeerResult stores the voting result peerKey reported for
// epochNumber.
func (s *System) SetPeerResult(epochNumber int, peerKey types.Key, result types.Result) {
	if _, ok := s.results[epochNumber]; !ok {
		s.results[epochNumber] = make(map[types.Key]types.Result)
	}
	s.results[epochNumber][peerKey] = result
}

// HasVoted reports whether key has submitted a ballot for epochNumber.
func (s *System) HasVoted(key types.Key, epochNumber int) bool {
	ballots, ok := s.ballots[epochNumber]
	if !ok {
		return false
	}
	_, voted := ballots[key]
	return voted
}

// HasEnoughBallots reports whether enough ballots have arrived for
// epochNumber to compute a valid result: at least ConsensusAmount of
// the online peers.
func (s *System) HasEnoughBallots(epochNumber, onlinePeers int) bool {
	return len(s.ballots[epochNumber]) >= s.ConsensusAmount(onlinePeers)
}

// HasAllBallots reports whether ballots have arrived from every online
// peer for epochNumber.
func (s *System) HasAllBallots(epochNumber, onlinePeers int) bool {
	hasMinimum := onlinePeers >= s.ConsensusAmount(onlinePeers)
	hasAll := len(s.ballots[epochNumber]) >= onlinePeers
	return hasMinimum && hasAll
}

// HasEnoughSimilarResults reports whether at least ConsensusAmount of
// the online peers reported the same result as this node's own result
// for epochNumber. Not called by the node: epoch advancement is gated on
// the count GetConsensusResult returns.
func (s *System) HasEnoughSimilarResults(epochNumber, onlinePeers int) bool {
	ownResult, ok := s.results[epochNumber][s.key]
	if !ok {
		return false
	}

	minResults := s.ConsensusAmount(onlinePeers)
	if len(s.results[epochNumber]) < minResults {
		return false
	}

	ownHash := ownResult.Hash()
	similar := 0
	for _, r := range s.results[epochNumber] {
		if r.Hash() == ownHash {
			similar++
		}
	}
	return similar >= minResults
}

// ConsensusAmount is the number of peers that must agree for a
// consensus decision to be considered met: two-thirds of the online
// members, but never fewer than the witness-committee size.
func (s *System) ConsensusAmount(onlinePeers int) int {
	if s.numSlots > 1+(onlinePeers*2)/3 {
		return s.numSlots
	}
	return 1 + (onlinePeers*2)/3
}

// RemoveOldEpochData prunes ballots, results, and candidates for all but
// the 5 most recent epochs, once 10 or more epochs are held.
func (s *System) RemoveOldEpochData() {
	if len(s.results) < 10 {
		return
	}
	epochs := make([]int, 0, len(s.results))
	for e := range s.results {
		epochs = append(epochs, e)
	}
	sort.Ints(epochs)

	for _, e := range epochs[:len(epochs)-5] {
		delete(s.results, e)
		delete(s.candidates, e)
		delete(s.ballots, e)
	}
}
