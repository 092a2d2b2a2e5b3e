// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"github.com/SINTEF-SE/Sawtooth-DDPOA/ddpoautil"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// breakTies fills out a short STV result to numCandidates using seeded
// positional-weight scoring over the received ballots: candidates not
// already in result earn weight 0.5 for appearing first on a ballot,
// 0.25 for second, halving per rank. The highest-scoring remaining
// candidate is appended each round; draws are resolved with
// getSlotWinner so every honest peer fills the same seats in the same
// order without a network round-trip.
func breakTies(result []types.Key, ballots []types.Ballot, numCandidates int, seed int) []types.Key {
	weights := make([]float64, numCandidates)
	weights[0] = 0.5
	for i := 1; i < numCandidates; i++ {
		weights[i] = weights[i-1] / 2
	}

	already := make(map[types.Key]bool, len(result))
	for _, k := range result {
		already[k] = true
	}

	scores := make(map[types.Key]float64)
	order := make([]types.Key, 0)
	for _, ballot := range ballots {
		for i, candidate := range ballot {
			if already[candidate] {
				continue
			}
			if i >= len(weights) {
				break
			}
			if _, ok := scores[candidate]; !ok {
				order = append(order, candidate)
			}
			scores[candidate] += weights[i]
		}
	}

	out := append([]types.Key(nil), result...)
	for len(out) < numCandidates && len(scores) > 0 {
		maxScore := -1.0
		for _, s := range scores {
			if s > maxScore {
				maxScore = s
			}
		}
		var draws []types.Key
		for _, c := range order {
			if s, ok := scores[c]; ok && s == maxScore {
				draws = append(draws, c)
			}
		}
		winner := getSlotWinner(draws, seed)
		delete(scores, winner)
		out = append(out, winner)
	}
	return out
}

// getSlotWinner deterministically picks one candidate out of a tied
// group by seeded hash: every peer computes the same hash from the same
// (candidate, seed) pair and so arrives at the same winner.
func getSlotWinner(candidates []types.Key, seed int) types.Key {
	if len(candidates) == 1 {
		return candidates[0]
	}
	var winner types.Key
	best := ""
	for _, c := range candidates {
		h := ddpoautil.ConcatAndHash(c, seed)
		if h > best {
			best = h
			winner = c
		}
	}
	return winner
}
