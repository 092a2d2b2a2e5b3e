// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/overlay"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// fakeComm is a minimal in-memory Communicator double: it records every
// broadcast/unicast and reports a fixed online count, enough to drive
// Node without a real gRPC overlay.
type fakeComm struct {
	online     int
	broadcasts []overlay.Message
	sent       map[types.Key][]overlay.Message
	pingOK     bool
}

func newFakeComm(online int) *fakeComm {
	return &fakeComm{online: online, sent: make(map[types.Key][]overlay.Message), pingOK: true}
}

func (f *fakeComm) AddPeer(types.Key, string)   {}
func (f *fakeComm) OnlinePeers() int            { return f.online }
func (f *fakeComm) Ping(types.Key) bool         { return f.pingOK }
func (f *fakeComm) Send(k types.Key, m overlay.Message) error {
	f.sent[k] = append(f.sent[k], m)
	return nil
}
func (f *fakeComm) Broadcast(m overlay.Message) error {
	f.broadcasts = append(f.broadcasts, m)
	return nil
}
func (f *fakeComm) Recv(ctx context.Context) (overlay.Inbound, bool) { return overlay.Inbound{}, false }
func (f *fakeComm) TryRecv() (overlay.Inbound, bool)                 { return overlay.Inbound{}, false }

func members() []types.Key { return []types.Key{"A", "B", "C", "D"} }

func newTestNode(self types.Key, online int) (*Node, *fakeComm) {
	comm := newFakeComm(online)
	n := New(self, members(), 3, comm, log.NewNoOpLogger(), rand.New(rand.NewSource(1)))
	return n, comm
}

func TestShouldVoteAtEpochZero(t *testing.T) {
	n, _ := newTestNode("A", 3)
	require.True(t, n.ShouldVote(), "epoch 0 should always be votable once enough peers are online")
}

func TestShouldVoteRequiresMoreThanNumSlotsOnline(t *testing.T) {
	n, _ := newTestNode("A", 2)
	require.False(t, n.ShouldVote(), "online peers must exceed num_slots, not merely equal it")
}

func TestShouldVoteFalseAfterVoting(t *testing.T) {
	n, _ := newTestNode("A", 3)
	require.True(t, n.ShouldVote())
	n.Vote()
	require.False(t, n.ShouldVote(), "a node that already voted for the next epoch should not vote again")
}

func TestVoteTransitionsToElection(t *testing.T) {
	n, comm := newTestNode("A", 3)
	n.Vote()
	require.Equal(t, StateElection, n.State)
	require.Len(t, comm.broadcasts, 1)
	require.Equal(t, overlay.MessageVote, comm.broadcasts[0].Type)
}

func TestHandleVoteIgnoresWrongEpoch(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.HandleVote(overlay.Message{Epoch: 99, Votes: members()}, "B")
	require.False(t, n.Voting.HasVoted("B", 99))
}

func TestHandleVoteBroadcastsResultWhenAllOnlineHaveVoted(t *testing.T) {
	n, comm := newTestNode("A", 3)
	next := n.Epoch.NextEpochNumber()
	n.Voting.AddBallot(next, "A", members())
	n.HandleVote(overlay.Message{Epoch: int64(next), Votes: members()}, "B")
	n.HandleVote(overlay.Message{Epoch: int64(next), Votes: members()}, "C")
	before := len(comm.broadcasts)
	n.HandleVote(overlay.Message{Epoch: int64(next), Votes: members()}, "D")
	require.Greater(t, len(comm.broadcasts), before, "last ballot from the final online peer should trigger an immediate result broadcast")
}

func TestHandleVoteIgnoresDuplicateFromSameSigner(t *testing.T) {
	n, _ := newTestNode("A", 3)
	next := n.Epoch.NextEpochNumber()
	n.HandleVote(overlay.Message{Epoch: int64(next), Votes: []types.Key{"A", "B", "C", "D"}}, "B")
	n.HandleVote(overlay.Message{Epoch: int64(next), Votes: []types.Key{"D", "C", "B", "A"}}, "B")
	b, _ := n.Voting.Ballot(next, "B")
	require.Equal(t, types.Ballot{"A", "B", "C", "D"}, b, "a second ballot from the same signer must not overwrite the first")
}

func TestHandleVoteResultTriggersFirstEpochOnlyAtUnanimity(t *testing.T) {
	n, _ := newTestNode("A", 3)
	next := n.Epoch.NextEpochNumber()
	result := types.Result{"A", "B", "C", "D"}
	n.Voting.SetPeerResult(next, "A", result)

	// At epoch 0 a two-thirds majority is not enough: every online member
	// must report the same result.
	require.False(t, n.HandleVoteResult(overlay.Message{Epoch: int64(next), Result: result}, "B"))
	require.False(t, n.HandleVoteResult(overlay.Message{Epoch: int64(next), Result: result}, "C"))

	// The final result reaches unanimity, and epoch 0 has no rounds to run
	// out, so the first epoch initializes immediately.
	require.True(t, n.HandleVoteResult(overlay.Message{Epoch: int64(next), Result: result}, "D"))
	require.True(t, n.readyResult[next])
	require.Equal(t, next, n.Epoch.Number)
	require.Equal(t, StateProduction, n.State)
}

func TestHandleVoteResultInitializesEpochOnceOver(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Bootstrap(2, 0, members(), 3)
	// Exhaust every round of epoch 2 so the deciding result lands on an
	// epoch that is already over.
	for !n.Epoch.IsOver() {
		n.Epoch.CurrentWitnessIdx++
	}

	next := n.Epoch.NextEpochNumber()
	result := types.Result{"D", "C", "B", "A"}
	require.False(t, n.HandleVoteResult(overlay.Message{Epoch: int64(next), Result: result}, "B"))
	require.False(t, n.HandleVoteResult(overlay.Message{Epoch: int64(next), Result: result}, "C"))

	// The third matching result meets the two-thirds threshold for a
	// non-genesis epoch; the epoch being over, the next one starts now.
	require.True(t, n.HandleVoteResult(overlay.Message{Epoch: int64(next), Result: result}, "D"))
	require.Equal(t, next, n.Epoch.Number)
	require.True(t, n.Epoch.IsWitness("D"))
}

func TestNextSlotInitializesReadyEpoch(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Epoch.SetCandidatesAndWitnesses(members())
	next := n.Epoch.NextEpochNumber()
	n.readyResult[next] = true
	n.Voting.SetCandidates(next, types.Result{"D", "C", "B", "A"})

	for i := 0; i < len(n.Epoch.FullCandidateList())*3; i++ {
		n.NextSlot("seed")
	}
	require.Equal(t, next, n.Epoch.Number, "epoch should have advanced once its result was ready")
}

func TestNextSlotLeavesEpochIdleWhenResultNotReady(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Epoch.SetCandidatesAndWitnesses(members())
	initialized := false
	for i := 0; i < len(n.Epoch.FullCandidateList())*3; i++ {
		if n.NextSlot("seed") {
			initialized = true
		}
	}
	require.False(t, initialized, "without a ready result, the epoch should finalize but not advance")
	require.Equal(t, StateIdle, n.State)
}

func TestPenalizeDecaysScoreAndIsNoOpOnSelf(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Penalize("B")
	require.InDelta(t, 0.75, n.peers["B"].Score, 1e-9)

	n.Penalize("A")
	require.Equal(t, 1.0, n.peers["A"].Score, "a node must never penalize itself")
}

func TestRewardCapsAtOne(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.peers["B"].Score = 0.99
	n.Reward("B")
	require.Equal(t, 1.0, n.peers["B"].Score)
}

func TestRewardThenPenalizeStaysInRange(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Reward("B")
	require.LessOrEqual(t, n.peers["B"].Score, 1.0)
	for i := 0; i < 50; i++ {
		n.Penalize("B")
	}
	require.GreaterOrEqual(t, n.peers["B"].Score, 0.0)
}

func TestDowngradeSwapsWitnessWithCandidate(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Epoch.SetCandidatesAndWitnesses(members())
	n.Downgrade("B")
	require.False(t, n.Epoch.IsWitness("B"))
	require.True(t, n.Epoch.IsWitness("D"))
}

func TestBootstrapSeedsProductionState(t *testing.T) {
	n, _ := newTestNode("A", 3)
	n.Bootstrap(7, 2, []types.Key{"C", "D", "A", "B"}, 3)
	require.Equal(t, StateProduction, n.State)
	require.Equal(t, 7, n.Epoch.Number)
	require.Equal(t, 2, n.Epoch.CurrentWitnessIdx)
	require.True(t, n.Epoch.IsWitness("C"))
}

func TestOnlinePeersCountsSelf(t *testing.T) {
	n, _ := newTestNode("A", 3)
	require.Equal(t, 4, n.OnlinePeers(), "self is always online and counted")
}
