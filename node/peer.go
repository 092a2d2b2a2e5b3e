// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node holds the per-validator state machine: peer liveness and
// reputation tracking, and the DDPoA witness/election/production state
// machine layered on top of epoch and voting.
package node

import (
	"fmt"
	"time"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// PeerNode tracks one member's liveness and reputation as observed by
// this node.
type PeerNode struct {
	Key      types.Key
	Score    float64
	LastSeen time.Time
	Online   bool
}

// NewPeerNode returns a PeerNode starting at full reputation and
// offline.
func NewPeerNode(key types.Key) *PeerNode {
	return &PeerNode{Key: key, Score: 1.0, LastSeen: time.Now()}
}

// Seen marks the peer online and refreshes its last-seen timestamp.
func (p *PeerNode) Seen() {
	p.Online = true
	p.LastSeen = time.Now()
}

// SetOnline sets the peer's online flag directly, without touching
// LastSeen.
func (p *PeerNode) SetOnline(online bool) {
	p.Online = online
}

func (p *PeerNode) String() string {
	return fmt.Sprintf("peer(%s, online=%t)", p.Key, p.Online)
}
