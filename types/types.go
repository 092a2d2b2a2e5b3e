// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types holds the small set of domain types shared across the
// epoch, voting, node, and engine packages.
package types

import "strings"

// Key uniquely identifies a validator: a hex-encoded public key string, as
// declared in the on-chain sawtooth.consensus.ddpoa.members setting. Keys
// are variable-length hex strings handed to us by the host, not fixed-width
// content hashes, so a plain string models them without truncation.
type Key = string

// Ballot is an ordered permutation of all known member keys, highest
// preference first.
type Ballot []Key

// Result is the ordered candidate list produced by STV tabulation plus
// deterministic tie-breaking. Its length equals the member-set size.
type Result []Key

// resultSeparator joins Key strings for use as a map key. Keys are hex and
// never contain '|', so this never collides.
const resultSeparator = "|"

// Hash returns a comparable representation of the result, suitable for use
// as a map key (Go slices are not comparable, but the voting system needs
// to count occurrences of identical results from different peers).
func (r Result) Hash() string {
	return strings.Join(r, resultSeparator)
}

// Clone returns an independent copy of the result.
func (r Result) Clone() Result {
	out := make(Result, len(r))
	copy(out, r)
	return out
}
