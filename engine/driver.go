// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/consensusdata"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/node"
)

// Run drives the engine's main loop until ctx is done or Stop is called.
// Exactly one goroutine should ever call Run: it is the sole mutator of
// the epoch, voting, node, and block-cache state. A panic recovered
// mid-tick is logged and the loop continues.
func (e *Engine) Run(ctx context.Context) {
	for !e.exit {
		select {
		case <-ctx.Done():
			return
		default:
		}
		e.tick(ctx)
	}
}

func (e *Engine) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("recovered panic in driver loop tick", zap.Any("panic", r))
		}
	}()

	hostCtx, cancel := context.WithTimeout(ctx, config.HostPollTimeout)
	n, ok := e.service.Recv(hostCtx)
	cancel()
	if ok {
		e.dispatchHostNotification(n)
	}

	if msg, from, ok := e.node.TryRecv(); ok {
		e.handlePeerMessage(msg, from)
	}

	if e.startingUp() {
		e.updateMetrics()
		return
	}

	if e.node.State == node.StateWaitingForBootstrap {
		if time.Since(e.lastBootstrapRequest) > config.BootstrapRequestInterval {
			e.lastBootstrapRequest = time.Now()
			e.node.BroadcastBootstrapRequest()
		}
		e.updateMetrics()
		return
	}

	if e.node.State == node.StateCatchingUp {
		e.updateMetrics()
		return
	}

	if e.node.State != node.StateIdle {
		if e.timeForNextBlock() && e.node.IsCurrentWitness() && !e.waiting() {
			e.produceOrSkipSlot()
		}
		if e.slotIsMissed() && (e.node.State == node.StateProduction || e.node.State == node.StateElection) {
			e.handleMissedSlot()
		}
	}

	if e.node.ShouldVote() {
		e.node.Vote()
		e.metrics.VotesCast().Inc()
	}
	if e.node.ShouldRebroadcastBallot() {
		e.node.RebroadcastBallot()
	}
	e.node.CheckOnPeers()

	select {
	case epochNum := <-e.node.ResultDue():
		e.node.BroadcastResult(epochNum)
	default:
	}

	e.updateMetrics()
}

// startingUp reports whether the driver should still sit out its
// startup grace: within the first config.StartupGracePeriod of the
// loop, not yet waiting for bootstrap, and not yet seeing the whole
// member set online. A fleet that fully connects early starts producing
// before the grace runs out, and a bootstrapping node is never held
// back from re-requesting chain state.
func (e *Engine) startingUp() bool {
	return e.node.State != node.StateWaitingForBootstrap &&
		e.node.OnlinePeers() != len(e.members) &&
		time.Since(e.engineStart) < config.StartupGracePeriod
}

// timeForNextBlock reports whether enough of the slot interval has
// elapsed that this node, if it is the current witness, should attempt
// to produce a block now.
func (e *Engine) timeForNextBlock() bool {
	return time.Since(e.slotStartedAt) >= config.BlockInterval
}

// slotIsMissed reports whether the current slot has run well past its
// normal interval with no block produced and no production in flight.
func (e *Engine) slotIsMissed() bool {
	timedOut := time.Since(e.slotStartedAt) >= config.BlockInterval+config.SlotTimeout
	return timedOut && !e.waiting() && e.node.Epoch.IsInitialized()
}

// produceOrSkipSlot attempts to summarize and finalize a block for this
// node's own slot. If the host has nothing to summarize yet, it
// broadcasts an empty-slot notice and advances unilaterally rather than
// waiting indefinitely for a block that may never come.
func (e *Engine) produceOrSkipSlot() {
	payload, ok := e.summarizeBlock()
	if ok {
		e.finalizeBlock(payload)
		return
	}
	e.log.Debug("nothing to summarize, broadcasting empty slot")
	e.node.BroadcastEmptySlot()
	e.advanceSlot(time.Now())
}

// summarizeBlock asks the host for the next block's payload, swallowing
// ErrBlockNotReady/ErrInvalidState as steady-state: the driver simply
// retries on a later tick.
func (e *Engine) summarizeBlock() ([]byte, bool) {
	data := consensusdata.New(
		time.Now().Unix(),
		int64(e.node.Epoch.Number),
		int64(e.node.Epoch.CurrentWitnessIdx),
		int64(e.node.NumSlots),
		e.node.Epoch.FullCandidateList(),
	)

	summary, err := e.service.SummarizeBlock()
	if err != nil {
		if err != host.ErrBlockNotReady && err != host.ErrInvalidState {
			e.log.Warn("summarize_block failed", zap.Error(err))
		}
		return nil, false
	}
	if summary == nil {
		return nil, false
	}

	return data.Marshal(), true
}

// finalizeBlock submits payload to the host for finalization. A
// not-ready host is steady-state and silently retried later; any other
// error is logged.
func (e *Engine) finalizeBlock(payload []byte) {
	if _, err := e.service.FinalizeBlock(payload); err != nil {
		if err != host.ErrBlockNotReady && err != host.ErrInvalidState {
			e.log.Warn("finalize_block failed", zap.Error(err))
		}
		return
	}
	e.waitingForOwnBlock = true
	e.metrics.BlocksFinalized().Inc()
}

// handleMissedSlot penalizes and downgrades the witness that failed to
// produce and advances past the slot.
func (e *Engine) handleMissedSlot() {
	signer := e.node.ExpectedSigner()
	e.log.Info("slot missed", zap.String("expected_signer", signer))

	e.node.Penalize(signer)
	e.node.Downgrade(signer)
	e.metrics.SlotsMissed().Inc()

	e.advanceSlot(time.Now())
}

// advanceSlot moves the epoch's witness rotation forward by one slot,
// seeded by the pre-committed block id (never the caller's start
// timestamp — only slotStartedAt is reset to it), cancels any
// in-flight block the host was building, and, if the rotation now hands
// this node the seat, asks the host to start building the next one. A
// missing or empty witness list is logged and the slot advance is
// abandoned rather than crashing the loop.
func (e *Engine) advanceSlot(startTS time.Time) {
	e.slotStartedAt = startTS

	if e.node.NextSlot(e.preID) {
		e.metrics.EpochsInitialized().Inc()
	}

	if err := e.service.CancelBlock(); err != nil && err != host.ErrInvalidState {
		e.log.Debug("cancel_block on slot advance failed", zap.Error(err))
	}

	if e.node.IsCurrentWitness() {
		if err := e.service.InitializeBlock(); err != nil && err != host.ErrInvalidState {
			e.log.Warn("initialize_block failed", zap.Error(err))
		}
	}
}
