// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the fixed timing constants and on-chain settings
// used by the DDPoA consensus engine. The constants are config-bound at
// startup and immutable thereafter.
package config

import "time"

const (
	// RoundsPerEpoch is how many times the witness list rotates through
	// before a new vote is required.
	RoundsPerEpoch = 3

	// BlockInterval is the size of a slot: seconds between block creation.
	BlockInterval = 6 * time.Second

	// SlotTimeout is how long after BlockInterval elapses before a slot is
	// considered missed. Kept generous since validators can be slow.
	SlotTimeout = 90 * time.Second

	// RebroadcastBallotInterval: ballots are rebroadcast at this cadence
	// in case a peer was down or had network trouble.
	RebroadcastBallotInterval = 5 * time.Second

	// PeerCheckInterval is how often peer liveness is re-checked.
	PeerCheckInterval = 3 * time.Second

	// PingThreshold is how long it has been since a peer was seen before
	// it is pinged.
	PingThreshold = 30 * time.Second

	// VotingSlots is how many slots before the end of an epoch voting for
	// the next epoch should start.
	VotingSlots = 5

	// ResultQuorumTimeout is the one-shot "quorum reached, await
	// stragglers" timer armed once enough (but not all) ballots arrive.
	ResultQuorumTimeout = 15 * time.Second

	// StartupGracePeriod lets the fleet warm up and connect before the
	// driver starts acting on missed slots or votes.
	StartupGracePeriod = 70 * time.Second

	// BootstrapRequestInterval is the minimum spacing between repeated
	// BOOTSTRAP_REQUEST broadcasts while WAITING_FOR_BOOTSTRAP.
	BootstrapRequestInterval = 5 * time.Second

	// ForkBootstrapThrottle bounds how often a new BOOTSTRAP_REQUEST is
	// sent in response to repeated out-of-order NEW block notifications.
	ForkBootstrapThrottle = 6 * time.Second

	// BlockCacheSize is the number of most-recent blocks retained for
	// fork detection and chain traversal.
	BlockCacheSize = 10

	// MaxCommonAncestorLookback bounds how far back the engine walks the
	// host's chain head when searching for a fork's common ancestor.
	MaxCommonAncestorLookback = 10

	// RetainedEpochs is how many historical epochs of voting data are
	// kept once the voting store grows past RetainedEpochsTrigger.
	RetainedEpochs = 5

	// RetainedEpochsTrigger is the number of held epochs that triggers a
	// prune down to RetainedEpochs.
	RetainedEpochsTrigger = 10

	// PeerRPCPort is the TCP port the peer overlay's gRPC service binds.
	PeerRPCPort = 50051

	// PeerConnectGrace is how long a freshly-discovered peer is given to
	// start its own engine before the first connection attempt.
	PeerConnectGrace = 3 * time.Second

	// PeerPingRetryInterval is the cadence of the readiness ping loop run
	// against a peer that has not yet responded.
	PeerPingRetryInterval = 500 * time.Millisecond

	// HostPollTimeout bounds how long the driver blocks waiting on the
	// host message queue per iteration.
	HostPollTimeout = 80 * time.Millisecond

	// ScoreDecayFactor is applied multiplicatively to a peer's reputation
	// score on penalty.
	ScoreDecayFactor = 0.75

	// ScoreRecoveryFactor is applied multiplicatively to a peer's
	// reputation score on reward.
	ScoreRecoveryFactor = 1.075

	// OfflineBallotWeight is the ballot-generation weight assigned to an
	// offline peer, keeping it eligible without favoring it.
	OfflineBallotWeight = 0.001
)

// GenesisBlockID is the sentinel previous-block id of the chain's first
// block, as reported by the host runtime.
const GenesisBlockID = "0000000000000000"

// EngineName and EngineVersion identify this consensus engine to the host
// runtime and are embedded in every ConsensusData payload as "name:version".
const (
	EngineName    = "ddpoa"
	EngineVersion = "0.1"
)
