// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/epoch"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/overlay"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/voting"
)

// Node is the DDPoA state machine layered on ConsensusNode: the current
// epoch, election/production state, and the voting system that decides
// the next epoch's witness committee.
type Node struct {
	*ConsensusNode

	Epoch    *epoch.Epoch
	State    State
	Voting   *voting.System
	NumSlots int

	previousVoteTS   time.Time
	previousResultTS time.Time
	readyResult      map[int]bool

	resultTimer *time.Timer
	resultDue   chan int

	preOnline int
}

// New returns a Node for key over the closed peerKeys set, starting
// idle with an empty (epoch 0) witness list.
func New(key types.Key, peerKeys []types.Key, numSlots int, comm Communicator, logger log.Logger, rng *rand.Rand) *Node {
	return &Node{
		ConsensusNode: NewConsensusNode(key, peerKeys, comm, logger),
		Epoch:         epoch.New(0, numSlots),
		State:         StateIdle,
		Voting:        voting.NewSystem(key, peerKeys, numSlots, rng),
		NumSlots:      numSlots,
		readyResult:   make(map[int]bool),
		resultDue:     make(chan int, 1),
	}
}

// ResultDue delivers the epoch number of a vote result whose quorum
// timer has elapsed, for the driver loop to act on with BroadcastResult.
// Keeping the timer's own callback limited to a non-blocking channel
// send (see HandleVote) preserves the invariant that only the driver
// loop mutates Node state.
func (n *Node) ResultDue() <-chan int {
	return n.resultDue
}

// Vote fills and broadcasts this node's own ballot for the upcoming
// epoch.
func (n *Node) Vote() {
	ballot := n.Voting.FillBallot(n.peerInfoSnapshot())
	n.Voting.AddBallot(n.Epoch.NextEpochNumber(), n.key, ballot)
	if n.State != StateCatchingUp {
		n.State = StateElection
	}
	n.Broadcast(overlay.Message{
		Type:  overlay.MessageVote,
		Votes: ballot,
		Epoch: int64(n.Epoch.NextEpochNumber()),
	})
	n.previousVoteTS = time.Now()
}

// PeerScores returns the current reputation score of every known peer,
// for metrics export.
func (n *Node) PeerScores() map[types.Key]float64 {
	out := make(map[types.Key]float64, len(n.peers))
	for k, p := range n.peers {
		out[k] = p.Score
	}
	return out
}

func (n *Node) peerInfoSnapshot() map[types.Key]voting.PeerInfo {
	out := make(map[types.Key]voting.PeerInfo, len(n.peers))
	for k, p := range n.peers {
		out[k] = voting.PeerInfo{Score: p.Score, Online: p.Online}
	}
	return out
}

// ShouldVote reports whether this node should draw and broadcast its
// ballot for the next epoch: it hasn't already, and enough peers are
// online to make the vote meaningful.
func (n *Node) ShouldVote() bool {
	isBeforeFirstEpoch := n.Epoch.Number == 0
	if n.Epoch.SlotsRemainingInEpoch() <= config.VotingSlots || n.Epoch.IsOver() || isBeforeFirstEpoch {
		notVoted := !n.Voting.HasVoted(n.key, n.Epoch.NextEpochNumber())
		enoughPeers := n.OnlinePeers() > n.NumSlots
		return enoughPeers && notVoted
	}
	return false
}

// ShouldRebroadcastBallot reports whether this node's own ballot for
// the upcoming epoch should be resent, to reach slow or newly-connected
// peers.
func (n *Node) ShouldRebroadcastBallot() bool {
	votableState := n.State == StateElection
	timeoutReached := time.Since(n.previousVoteTS) > config.RebroadcastBallotInterval
	return votableState && timeoutReached
}

// RebroadcastBallot resends this node's own ballot for the upcoming
// epoch, if one has been cast.
func (n *Node) RebroadcastBallot() {
	ballot, ok := n.Voting.Ballot(n.Epoch.NextEpochNumber(), n.key)
	if !ok {
		return
	}
	n.Broadcast(overlay.Message{
		Type:  overlay.MessageVote,
		Votes: ballot,
		Epoch: int64(n.Epoch.NextEpochNumber()),
	})
	n.previousVoteTS = time.Now()
}

// OnlinePeers is the communicator's online peer count plus one for
// self, which is always online.
func (n *Node) OnlinePeers() int {
	online := n.comm.OnlinePeers() + 1
	if online != n.preOnline {
		n.log.Debug("online peers", zap.Int("count", online))
		n.preOnline = online
	}
	return online
}

// IsCurrentWitness reports whether this node holds the current slot.
func (n *Node) IsCurrentWitness() bool {
	return n.Epoch.CurrentWitness() == n.key
}

// NextWitness returns the key of the witness whose slot comes next.
func (n *Node) NextWitness() types.Key {
	return n.Epoch.NextWitness()
}

// ExpectedSigner returns the key of the witness that should sign the
// next block.
func (n *Node) ExpectedSigner() types.Key {
	return n.Epoch.CurrentWitness()
}

// BroadcastResult tabulates this node's own result for epochNum and
// broadcasts it.
func (n *Node) BroadcastResult(epochNum int) {
	n.log.Debug("broadcasting result", zap.Int("epoch", epochNum))
	result := n.Voting.CalculateResult(epochNum)
	n.Broadcast(overlay.Message{
		Type:   overlay.MessageVoteResult,
		Result: result,
		Epoch:  int64(epochNum),
	})
}

// Bootstrap seeds this node directly into an in-progress epoch, as
// reported by a peer, skipping the election process entirely.
func (n *Node) Bootstrap(epochNum, witnessIdx int, candidates []types.Key, numSlots int) {
	n.NumSlots = numSlots
	n.Epoch = epoch.New(epochNum, numSlots)
	n.Epoch.SetCandidatesAndWitnesses(candidates)
	n.Epoch.CurrentWitnessIdx = witnessIdx
	n.State = StateProduction
}

// InitializeEpoch starts epochNum using the candidate list already
// decided by voting.
func (n *Node) InitializeEpoch(epochNum int) {
	n.log.Debug("initializing epoch", zap.Int("epoch", epochNum))

	n.Epoch = epoch.New(epochNum, n.NumSlots)
	if n.State != StateCatchingUp {
		n.State = StateProduction
	}
	n.Epoch.SetCandidatesAndWitnesses(n.Voting.GetCandidates(n.Epoch.Number))

	if n.Epoch.IsWitness(n.key) {
		n.log.Info("node is witness this epoch",
			zap.Int("position", n.Epoch.PositionInWitnessList(n.key)),
			zap.Int("epoch", n.Epoch.Number))
	}

	n.Voting.RemoveOldEpochData()
}

// FinalizeEpoch closes out the current epoch and discards the
// now-unneeded ready-result marker two epochs back.
func (n *Node) FinalizeEpoch() {
	n.log.Debug("finalizing epoch", zap.Int("epoch", n.Epoch.Number))
	if n.State != StateCatchingUp {
		n.State = StateIdle
	}
	delete(n.readyResult, n.Epoch.Number-2)
}

// Downgrade replaces peerKey's witness seat with the next candidate.
func (n *Node) Downgrade(peerKey types.Key) {
	n.log.Info("downgrading witness", zap.String("peer", peerKey))
	n.Epoch.DowngradeWitness(peerKey)
}

// Penalize decays peerKey's reputation score. A no-op against self.
func (n *Node) Penalize(peerKey types.Key) {
	if peerKey == n.key {
		return
	}
	p, ok := n.peers[peerKey]
	if !ok {
		return
	}
	n.log.Info("penalizing peer", zap.String("peer", peerKey))
	p.Score = math.Max(0.0, p.Score*config.ScoreDecayFactor)
}

// Reward recovers peerKey's reputation score toward 1.0. A no-op
// against self.
func (n *Node) Reward(peerKey types.Key) {
	if peerKey == n.key {
		return
	}
	p, ok := n.peers[peerKey]
	if !ok {
		return
	}
	n.log.Debug("rewarding peer", zap.String("peer", peerKey))
	p.Score = math.Min(1.0, p.Score*config.ScoreRecoveryFactor)
}

// BroadcastEmptySlot tells peers this node, as the current witness, is
// skipping its own slot without producing a block.
func (n *Node) BroadcastEmptySlot() {
	n.Broadcast(overlay.Message{Type: overlay.MessageEmptySlot})
}

// BroadcastBootstrapRequest asks the network for this node's missing
// chain state.
func (n *Node) BroadcastBootstrapRequest() {
	n.Broadcast(overlay.Message{Type: overlay.MessageBootstrapRequest})
}
