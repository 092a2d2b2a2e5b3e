// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ddpoautil holds small deterministic helpers shared by the epoch,
// voting, and engine packages: the seeded hash used for witness reshuffling
// and tie-breaking, and a handful of slice utilities.
package ddpoautil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ConcatAndHash stringifies each argument with fmt.Sprint, concatenates
// them in order, and returns the hex-encoded sha256 digest. It is the sole
// source of pseudo-randomness in the engine: witness reshuffling and
// tie-break winner selection both reduce to "hash these things together and
// compare", so every peer reaches the same answer from the same chain
// state without any network round-trip.
func ConcatAndHash(args ...interface{}) string {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprint(&b, a)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
