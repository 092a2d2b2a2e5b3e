// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"go.uber.org/zap"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/overlay"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// HandleVote records a peer's ballot for the upcoming epoch, triggering
// an immediate BroadcastResult if every online peer has now voted, or
// arming a ResultDue timer once quorum (but not everyone) has.
func (n *Node) HandleVote(msg overlay.Message, peerKey types.Key) {
	epochNum := int(msg.Epoch)
	// A mismatched epoch means the sender is lagging badly or is
	// malicious; either way, not ours to handle.
	if epochNum != n.Epoch.NextEpochNumber() {
		return
	}
	if n.Voting.HasVoted(peerKey, epochNum) {
		return
	}

	n.log.Debug("received ballot", zap.Int("epoch", epochNum), zap.String("peer", peerKey))
	n.Voting.AddBallot(epochNum, peerKey, msg.Votes)

	n.cancelResultTimer()

	online := n.OnlinePeers()
	switch {
	case n.Voting.HasAllBallots(epochNum, online):
		n.BroadcastResult(epochNum)
	case n.Voting.HasEnoughBallots(epochNum, online):
		n.armResultTimer(epochNum)
	}
}

func (n *Node) cancelResultTimer() {
	if n.resultTimer != nil {
		n.resultTimer.Stop()
		n.resultTimer = nil
	}
}

// armResultTimer schedules a non-blocking notification on resultDue
// once config.ResultQuorumTimeout elapses, giving stragglers one last
// chance to vote before this node forces a result with what it has.
func (n *Node) armResultTimer(epochNum int) {
	n.resultTimer = newTimerFunc(config.ResultQuorumTimeout, func() {
		select {
		case n.resultDue <- epochNum:
		default:
		}
	})
}

// HandleVoteResult records a peer's reported election result and
// reports whether receiving it pushed this node into a new epoch.
func (n *Node) HandleVoteResult(msg overlay.Message, peerKey types.Key) bool {
	epochNum := int(msg.Epoch)
	if epochNum != n.Epoch.NextEpochNumber() {
		return false
	}

	n.Voting.SetPeerResult(epochNum, peerKey, msg.Result)
	result, count := n.Voting.GetConsensusResult(epochNum)

	online := n.OnlinePeers()
	triggerNewEpoch := count >= n.Voting.ConsensusAmount(online) && n.Epoch.Number != 0
	triggerFirstEpoch := count == online && n.Epoch.Number == 0

	if !triggerNewEpoch && !triggerFirstEpoch {
		return false
	}

	n.readyResult[epochNum] = true
	n.Voting.SetCandidates(epochNum, result)

	if n.Epoch.IsOver() {
		n.InitializeEpoch(epochNum)
		return true
	}
	return false
}

// NextSlot advances the witness rotation past the block just produced
// (or skipped), finalizing and initializing epochs as their rounds run
// out. It reports whether the advance initialized a new epoch.
func (n *Node) NextSlot(blockID string) bool {
	if err := n.Epoch.IncrementWitness(blockID); err != nil {
		n.log.Info("failed to increment witness", zap.Error(err))
		return false
	}

	if !n.Epoch.IsOver() {
		return false
	}

	n.FinalizeEpoch()

	next := n.Epoch.NextEpochNumber()
	if n.readyResult[next] {
		n.InitializeEpoch(next)
		return true
	}

	n.log.Debug("result for next epoch not ready",
		zap.Bool("has_voted", n.Voting.HasVoted(n.key, next)),
		zap.Int("epoch", n.Epoch.Number))
	return false
}
