// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package epoch tracks the rotating witness committee and candidate queue
// for a single epoch of the DDPoA schedule.
package epoch

import (
	"fmt"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/ddpoautil"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// Epoch holds the witness list and candidate queue for one epoch and
// tracks progress through its rounds. It is not safe for concurrent use;
// the driver loop is its sole mutator.
type Epoch struct {
	Number            int
	CurrentWitnessIdx int
	NumSlots          int

	witnesses  []types.Key
	candidates []types.Key // FIFO: index 0 is the front
}

// New returns an Epoch with the given number and witness-committee size,
// with no witnesses or candidates assigned yet.
func New(number, numSlots int) *Epoch {
	return &Epoch{Number: number, NumSlots: numSlots}
}

// SetCandidatesAndWitnesses puts the top NumSlots candidates (in the given
// order) into the witness list, and the remainder into the candidate
// queue, front to back.
func (e *Epoch) SetCandidatesAndWitnesses(candidates []types.Key) {
	n := e.NumSlots
	if n > len(candidates) {
		n = len(candidates)
	}
	e.witnesses = append([]types.Key(nil), candidates[:n]...)
	e.candidates = append([]types.Key(nil), candidates[n:]...)
}

// IncrementWitness advances to the next slot in the witness list,
// reordering the witness list with preBlockID as the reshuffle seed
// whenever the advance wraps back to the front of a round. It returns
// config.ErrEpochNotInitialized if the epoch has no witnesses to advance
// through; the caller should treat that as a signal to catch up rather
// than retry.
func (e *Epoch) IncrementWitness(preBlockID string) error {
	e.CurrentWitnessIdx++
	if len(e.witnesses) == 0 {
		return config.ErrEpochNotInitialized
	}
	if e.CurrentWitnessIdx%len(e.witnesses) == 0 && !e.IsOver() {
		e.reorderWitnessList(preBlockID)
	}
	return nil
}

// DowngradeWitness replaces witnessKey in the witness list with the
// candidate at the front of the queue, and pushes witnessKey to the back
// of the candidate queue. It is a no-op if witnessKey is not currently a
// witness.
func (e *Epoch) DowngradeWitness(witnessKey types.Key) {
	idx := ddpoautil.IndexOf(e.witnesses, witnessKey)
	if idx < 0 {
		return
	}
	if len(e.candidates) == 0 {
		return
	}
	upgraded := e.candidates[0]
	e.candidates = e.candidates[1:]
	e.candidates = append(e.candidates, witnessKey)
	e.witnesses[idx] = upgraded
}

// IsWitness reports whether nodeKey currently holds a witness seat.
func (e *Epoch) IsWitness(nodeKey types.Key) bool {
	return ddpoautil.IndexOf(e.witnesses, nodeKey) >= 0
}

// PositionInWitnessList returns the witness list index of nodeKey, or -1
// if nodeKey does not currently hold a witness seat.
func (e *Epoch) PositionInWitnessList(nodeKey types.Key) int {
	return ddpoautil.IndexOf(e.witnesses, nodeKey)
}

// reorderWitnessList reshuffles the witness list deterministically from
// seed and the current witness index, so every honest node derives the
// identical ordering without a network round-trip, and the ordering
// differs even if the same block id is reused as seed across rounds.
func (e *Epoch) reorderWitnessList(seed string) {
	type scored struct {
		witness types.Key
		hash    string
	}
	scores := make([]scored, len(e.witnesses))
	for i, w := range e.witnesses {
		scores[i] = scored{witness: w, hash: ddpoautil.ConcatAndHash(w, seed, e.CurrentWitnessIdx)}
	}
	// stable insertion sort by hash: witness counts are small (num_slots),
	// and a stable sort keeps ties (which should not occur, hashes being
	// effectively unique) in their original relative order.
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].hash < scores[j-1].hash; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	reordered := make([]types.Key, len(scores))
	for i, s := range scores {
		reordered[i] = s.witness
	}
	e.witnesses = reordered
}

// CurrentWitness returns the key of the witness whose slot it currently
// is, or "" if the epoch has no witnesses.
func (e *Epoch) CurrentWitness() types.Key {
	if len(e.witnesses) == 0 {
		return ""
	}
	return e.witnesses[e.CurrentWitnessIdx%len(e.witnesses)]
}

// NextWitness returns the key of the witness whose slot comes after the
// current one, or "" if the epoch has no witnesses.
func (e *Epoch) NextWitness() types.Key {
	if len(e.witnesses) == 0 {
		return ""
	}
	return e.witnesses[(e.CurrentWitnessIdx+1)%len(e.witnesses)]
}

// IsInitialized reports whether the epoch has been seeded via
// SetCandidatesAndWitnesses.
func (e *Epoch) IsInitialized() bool {
	return !(e.CurrentWitnessIdx == 0 && len(e.witnesses) == 0)
}

// IsOver reports whether every round of the epoch has been exhausted.
func (e *Epoch) IsOver() bool {
	return e.CurrentWitnessIdx >= len(e.witnesses)*config.RoundsPerEpoch
}

// NextEpochNumber returns the number of the epoch that follows this one.
func (e *Epoch) NextEpochNumber() int {
	return e.Number + 1
}

// IsLastRound reports whether the epoch is in its final round, at which
// point a new witness list must be ready for when this epoch ends.
func (e *Epoch) IsLastRound() bool {
	return e.CurrentWitnessIdx >= len(e.witnesses)*(config.RoundsPerEpoch-1)
}

// SlotsRemainingInEpoch returns how many slots remain before the epoch
// ends.
func (e *Epoch) SlotsRemainingInEpoch() int {
	return len(e.witnesses)*config.RoundsPerEpoch - e.CurrentWitnessIdx
}

// FullCandidateList returns the witness list followed by the candidate
// queue, in order — the list a newly-bootstrapped peer needs to
// reconstruct this epoch's state.
func (e *Epoch) FullCandidateList() []types.Key {
	out := make([]types.Key, 0, len(e.witnesses)+len(e.candidates))
	out = append(out, e.witnesses...)
	out = append(out, e.candidates...)
	return out
}

func (e *Epoch) String() string {
	return fmt.Sprintf("Epoch(Number: %d, Current witness idx: %d, Candidates: %v, Witnesses: %v)",
		e.Number, e.CurrentWitnessIdx, e.candidates, e.witnesses)
}
