// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package voting implements ballot generation, Single Transferable Vote
// tabulation, and seeded tie-breaking for epoch witness-list elections.
package voting

import (
	"math/rand"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// PeerInfo is the minimal view of a peer's liveness and reputation that
// ballot generation needs. It is defined here, rather than imported from
// the node package, so voting has no dependency on node's state machine.
type PeerInfo struct {
	Score  float64
	Online bool
}

// FillBallot draws a full ranking of population, highest preference
// first, using weighted sampling without replacement: each draw favors
// higher-reputation peers, but every peer is eventually included. An
// offline peer is given config.OfflineBallotWeight instead of its score,
// so it stays eligible without being favored over active peers.
//
// This mirrors random.choices-based weighted draw-and-remove: at each
// step a weighted cumulative search picks one remaining candidate, which
// is then removed from the pool for the next draw.
func FillBallot(population []types.Key, peers map[types.Key]PeerInfo, rng *rand.Rand) types.Ballot {
	remaining := append([]types.Key(nil), population...)
	weights := make([]float64, len(remaining))
	for i, key := range remaining {
		info := peers[key]
		if info.Online {
			weights[i] = info.Score
		} else {
			weights[i] = config.OfflineBallotWeight
		}
	}

	ballot := make(types.Ballot, 0, len(remaining))
	for len(remaining) > 0 {
		idx := weightedChoice(weights, rng)
		ballot = append(ballot, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return ballot
}

// weightedChoice picks a single index from weights via cumulative-weight
// search. All-zero weights fall back to a uniform pick so a draw never
// panics on an entirely-offline population.
func weightedChoice(weights []float64, rng *rand.Rand) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	target := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}
