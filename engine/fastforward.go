// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/ddpoautil"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/node"
)

// fastforward begins catching this node up to a chain head a quorum of
// peers has endorsed. A targetID already equal to the pre-committed block
// only clears the pending bootstrap request state: the engine is already
// there. A call while a catch-up is already running does nothing.
func (e *Engine) fastforward(targetID host.BlockID, targetNum uint64) {
	if targetID == e.preID {
		e.hasRequestedBootstrap = false
		e.bootstrapMessagesReceived = nil
		return
	}

	if e.node.State == node.StateCatchingUp {
		return
	}

	e.log.Info("starting fastforward", zap.Uint64("target_num", targetNum), zap.String("target_id", targetID))
	e.node.State = node.StateCatchingUp
	e.fastforwardTargetID = targetID
	e.fastforwardTargetNum = targetNum

	switch {
	case e.cache.Contains(targetID):
		e.fastforwardFromCache(targetID)
	default:
		e.fastforwardFromBootstrapCache(targetID)
	}
}

func (e *Engine) fastforwardFromCache(targetID host.BlockID) {
	if e.cache.Traversable(targetID, e.preID) {
		ids := e.cache.Path(targetID, e.preID)
		e.waitingForValidation += len(ids)
		e.checkBlocks(ids)
		return
	}

	chain := e.cache.LongestChain(targetID)
	common, forked, ok := e.commonAndForkedBlock(chain)
	if !ok {
		return
	}

	e.log.Info("fork detected", zap.String("common_block", common), zap.String("forked_block", forked))
	e.failBlock(forked)

	idx := ddpoautil.IndexOf(chain, common)
	newFork := append([]host.BlockID(nil), chain[idx:]...)
	newFork = ddpoautil.Remove(newFork, e.preID)
	newFork = ddpoautil.Remove(newFork, common)
	e.waitingForValidation += len(newFork)
	e.checkBlocks(newFork)
}

func (e *Engine) fastforwardFromBootstrapCache(targetID host.BlockID) {
	if _, ok := e.bootstrapCache[targetID]; !ok {
		return
	}

	blocks := make([]host.Block, 0, len(e.bootstrapCache))
	for _, b := range e.bootstrapCache {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].BlockNum < blocks[j].BlockNum })

	ids := make([]host.BlockID, len(blocks))
	for i, b := range blocks {
		ids[i] = b.BlockID
	}
	e.waitingForValidation += len(ids)
	e.checkBlocks(ids)
}

// commonAndForkedBlock walks the host's own chain head back up to
// config.MaxCommonAncestorLookback predecessors, looking for the first
// one that also appears in chain (the consensus-endorsed longest chain
// reachable from the fastforward target). The predecessor found in both
// is the common ancestor; the host's own block right after it is the
// forked one to fail.
func (e *Engine) commonAndForkedBlock(chain []host.BlockID) (common, forked host.BlockID, ok bool) {
	cur, err := e.service.GetChainHead()
	if err != nil {
		e.log.Warn("get_chain_head failed during fork search", zap.Error(err))
		return "", "", false
	}

	for i := 0; i < config.MaxCommonAncestorLookback; i++ {
		preID := cur.PreviousID
		if ddpoautil.IndexOf(chain, preID) >= 0 {
			return preID, cur.BlockID, true
		}
		blocks, err := e.service.GetBlocks([]host.BlockID{preID})
		if err != nil {
			e.log.Warn("get_blocks failed during fork search", zap.Error(err))
			return "", "", false
		}
		next, ok := blocks[preID]
		if !ok {
			return "", "", false
		}
		cur = next
	}
	return "", "", false
}

