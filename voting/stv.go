// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"sort"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// candidateStatus tracks where a candidate stands in the count.
type candidateStatus int

const (
	hopeful candidateStatus = iota
	electedStatus
	excluded
)

// ballotCursor is one ballot's position in the Scottish STV count: the
// value it currently carries (reduced by surplus transfers) and the
// index of its next not-yet-considered preference.
type ballotCursor struct {
	prefs []types.Key
	next  int
	value float64
}

// currentChoice returns the first candidate in the ballot's remaining
// preferences that is still hopeful, advancing next past any candidate
// that has already been elected or excluded. ok is false once the ballot
// is exhausted.
func (c *ballotCursor) currentChoice(status map[types.Key]candidateStatus) (types.Key, bool) {
	for c.next < len(c.prefs) {
		cand := c.prefs[c.next]
		if status[cand] == hopeful {
			return cand, true
		}
		c.next++
	}
	return "", false
}

// tieEpsilon is the float tolerance used when deciding whether two
// candidates are tied on vote count. STV tallies here are built from a
// handful of ballots with weights that are exact fractions of small
// integers, so a tight tolerance is enough to catch genuine ties without
// false positives from accumulated floating point error.
const tieEpsilon = 1e-9

// tabulateSTV runs a Scottish-STV-style count (Droop quota, fractional
// surplus transfer, lowest-candidate elimination) over ballots and
// returns the candidates elected, in the order they were elected.
//
// It deliberately stops and returns a short result the moment a
// decisive next step (who crosses quota, who gets eliminated) is
// ambiguous due to an exact tie: the caller is expected to fill any
// remaining seats with a seeded tie-break, exactly as the quota-based
// count proper only decides what it can decide without guessing.
func tabulateSTV(candidates []types.Key, ballots []types.Ballot, seats int) []types.Key {
	if seats > len(candidates) {
		seats = len(candidates)
	}

	status := make(map[types.Key]candidateStatus, len(candidates))
	for _, c := range candidates {
		status[c] = hopeful
	}

	cursors := make([]*ballotCursor, len(ballots))
	for i, b := range ballots {
		cursors[i] = &ballotCursor{prefs: b, value: 1.0}
	}

	quota := droopQuota(len(ballots), seats)
	elected := make([]types.Key, 0, seats)

	hopefulCount := func() int {
		n := 0
		for _, s := range status {
			if s == hopeful {
				n++
			}
		}
		return n
	}

	for len(elected) < seats {
		tally := tallyVotes(candidates, status, cursors)

		if hopefulCount() == 0 {
			break
		}

		// If exactly as many hopefuls remain as seats left, elect them
		// all in descending-tally order; hopefuls with equal tallies keep
		// their order in candidates, and no seeded tie-break is applied.
		if hopefulCount() == seats-len(elected) {
			remaining := hopefulsByTally(candidates, status, tally)
			elected = append(elected, remaining...)
			break
		}

		winner, isTie := topAboveQuota(candidates, status, tally, quota)
		if isTie {
			break
		}
		if winner != "" {
			elected = append(elected, winner)
			status[winner] = electedStatus
			surplus := tally[winner] - quota
			transferSurplus(winner, surplus, tally[winner], cursors, status)
			continue
		}

		loser, isTie := bottomHopeful(candidates, status, tally)
		if isTie {
			break
		}
		status[loser] = excluded
	}

	return elected
}

// droopQuota is the standard STV quota: the smallest vote count a
// candidate can hold that at most `seats` candidates can reach.
func droopQuota(totalBallots, seats int) float64 {
	return float64(totalBallots/(seats+1)) + 1
}

// tallyVotes sums, per hopeful candidate, the value of every ballot
// whose current preference points at them.
func tallyVotes(candidates []types.Key, status map[types.Key]candidateStatus, cursors []*ballotCursor) map[types.Key]float64 {
	tally := make(map[types.Key]float64, len(candidates))
	for _, c := range candidates {
		if status[c] == hopeful {
			tally[c] = 0
		}
	}
	for _, cur := range cursors {
		choice, ok := cur.currentChoice(status)
		if !ok {
			continue
		}
		tally[choice] += cur.value
	}
	return tally
}

// topAboveQuota returns the hopeful candidate with the highest tally, if
// it is at or above quota. isTie is true if more than one hopeful
// candidate shares that highest tally (ambiguous who crossed first).
func topAboveQuota(candidates []types.Key, status map[types.Key]candidateStatus, tally map[types.Key]float64, quota float64) (winner types.Key, isTie bool) {
	var best types.Key
	bestVal := -1.0
	tiedCount := 0
	for _, c := range candidates {
		if status[c] != hopeful {
			continue
		}
		v := tally[c]
		if v > bestVal+tieEpsilon {
			best = c
			bestVal = v
			tiedCount = 1
		} else if v > bestVal-tieEpsilon {
			tiedCount++
		}
	}
	if bestVal < quota {
		return "", false
	}
	if tiedCount > 1 {
		return "", true
	}
	return best, false
}

// bottomHopeful returns the hopeful candidate with the lowest tally.
// isTie is true if more than one hopeful candidate shares that lowest
// tally.
func bottomHopeful(candidates []types.Key, status map[types.Key]candidateStatus, tally map[types.Key]float64) (loser types.Key, isTie bool) {
	var worst types.Key
	worstVal := 0.0
	first := true
	tiedCount := 0
	for _, c := range candidates {
		if status[c] != hopeful {
			continue
		}
		v := tally[c]
		if first || v < worstVal-tieEpsilon {
			worst = c
			worstVal = v
			tiedCount = 1
			first = false
		} else if v < worstVal+tieEpsilon {
			tiedCount++
		}
	}
	if tiedCount > 1 {
		return "", true
	}
	return worst, false
}

// transferSurplus scales down the value of every ballot currently
// sitting at winner by surplus/total (the fraction of its vote that
// wasn't needed to meet quota) and advances each such ballot's cursor
// past winner, so the next tally round picks up its next preference.
func transferSurplus(winner types.Key, surplus, total float64, cursors []*ballotCursor, status map[types.Key]candidateStatus) {
	if total <= 0 || surplus <= 0 {
		for _, cur := range cursors {
			if choice, ok := cur.currentChoice(status); ok && choice == winner {
				cur.next++
			}
		}
		return
	}
	factor := surplus / total
	for _, cur := range cursors {
		choice, ok := cur.currentChoice(status)
		if !ok || choice != winner {
			continue
		}
		cur.value *= factor
		cur.next++
	}
}

// hopefulsByTally returns every hopeful candidate sorted by descending
// tally, used when the remaining hopefuls exactly fill the remaining
// seats.
func hopefulsByTally(candidates []types.Key, status map[types.Key]candidateStatus, tally map[types.Key]float64) []types.Key {
	out := make([]types.Key, 0, len(candidates))
	for _, c := range candidates {
		if status[c] == hopeful {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return tally[out[i]] > tally[out[j]]
	})
	return out
}
