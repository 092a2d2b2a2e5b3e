// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/consensusdata"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/node"
)

// dispatchHostNotification routes one host-runtime notification to its
// handler. Unknown notification types are logged and dropped.
func (e *Engine) dispatchHostNotification(n host.Notification) {
	switch n.Type {
	case host.NotifyBlockNew:
		e.handleNewBlock(n.Block)
	case host.NotifyBlockValid:
		e.handleValidBlock(n.BlockID)
	case host.NotifyBlockInvalid:
		e.handleInvalidBlock(n.BlockID)
	case host.NotifyBlockCommit:
		e.handleCommittedBlock(n.BlockID)
	case host.NotifyPeerConnected:
		e.handlePeerConnected(n.PeerID)
	case host.NotifyPeerDisconnected:
		e.handlePeerDisconnected(n.PeerID)
	default:
		e.log.Error("unknown host notification type", zap.Stringer("type", n.Type))
	}
}

func (e *Engine) handleNewBlock(block host.Block) {
	e.log.Debug("handling new block", zap.Uint64("block_num", block.BlockNum),
		zap.String("block_id", block.BlockID), zap.String("signer", block.SignerID))

	if !e.isMember(block.SignerID) {
		e.failBlock(block.BlockID)
		return
	}

	data, err := consensusdata.Unmarshal(block.Payload)
	if err != nil {
		e.log.Warn("malformed consensus data on new block", zap.Error(err))
		e.node.Penalize(block.SignerID)
		e.failBlock(block.BlockID)
		return
	}

	if time.Now().Unix() < data.Timestamp {
		e.log.Warn("block consensus data timestamp is in the future")
		e.node.Penalize(block.SignerID)
		e.failBlock(block.BlockID)
		return
	}

	e.node.Seen(block.SignerID)
	e.cache.Append(block)

	if block.PreviousID == e.preID && block.BlockNum == e.preNum+1 {
		if block.SignerID == e.node.ExpectedSigner() {
			if e.waitingForOwnBlock {
				e.waitingForOwnBlock = block.SignerID != e.selfKey
			}
			e.waitingForValidation++
			e.checkBlocks([]host.BlockID{block.BlockID})
		}
	}

	switch {
	case e.node.State == node.StateWaitingForBootstrap:
		e.bootstrapCache[block.BlockID] = block
		return
	case e.node.State == node.StateCatchingUp && e.cache.Traversable(block.BlockID, e.fastforwardTargetID):
		e.waitingForValidation++
		e.checkBlocks([]host.BlockID{block.BlockID})
		return
	}

	if block.BlockNum > e.preNum+1 && !e.waiting() {
		if e.cache.Traversable(block.PreviousID, e.preID) {
			e.log.Debug("traversed block cache despite out-of-order block; may be desynced")
		} else {
			e.log.Debug("could not traverse block cache; a fork has happened")
		}

		if time.Since(e.lastForkBootstrapRequest) > config.ForkBootstrapThrottle || !e.hasRequestedBootstrap {
			e.lastForkBootstrapRequest = time.Now()
			e.hasRequestedBootstrap = true
			e.node.BroadcastBootstrapRequest()
		}
	}
}

func (e *Engine) handleValidBlock(id host.BlockID) {
	e.log.Debug("handling valid block", zap.String("block_id", id))
	e.waitingForValidation--

	block, ok := e.getBlock(id)
	if !ok {
		return
	}

	if e.node.State == node.StateCatchingUp && block.PreviousID == e.preID {
		e.commitBlock(id)
		return
	}

	correctSigner := block.SignerID == e.node.ExpectedSigner()
	correctPrev := block.PreviousID == e.preID
	correctNum := block.BlockNum == e.preNum+1

	if correctSigner && correctPrev && correctNum {
		e.waitingForCommit++
		e.commitBlock(id)
		return
	}

	e.log.Debug("failing block after validation",
		zap.String("block_id", id), zap.Bool("signer", correctSigner),
		zap.Bool("prev", correctPrev), zap.Bool("num", correctNum))
	e.failBlock(id)
}

func (e *Engine) handleInvalidBlock(id host.BlockID) {
	e.log.Info("handling invalid block", zap.String("block_id", id))

	block, ok := e.cache.BlockFromID(id)
	if !ok {
		block, ok = e.getBlock(id)
		if !ok {
			e.waitingForValidation--
			return
		}
	}

	data, err := consensusdata.Unmarshal(block.Payload)
	if err != nil {
		e.log.Warn("malformed consensus data on invalid block", zap.Error(err))
		data.Timestamp = time.Now().Unix()
	}

	e.node.Penalize(block.SignerID)
	e.node.Downgrade(block.SignerID)
	e.advanceSlot(time.Unix(data.Timestamp, 0))
	e.waitingForValidation--
}

func (e *Engine) handleCommittedBlock(id host.BlockID) {
	block, ok := e.bootstrapCache[id]
	if !ok {
		block, ok = e.cache.BlockFromID(id)
		if !ok {
			block, ok = e.getBlock(id)
		}
	}
	if !ok {
		e.log.Info("committed block not found in host, cache, or bootstrap cache", zap.String("block_id", id))
		e.waitingForCommit--
		return
	}

	e.log.Info("handling committed block", zap.Uint64("block_num", block.BlockNum), zap.String("block_id", id))

	data, err := consensusdata.Unmarshal(block.Payload)
	if err != nil {
		e.log.Warn("malformed consensus data on committed block", zap.Error(err))
	}

	e.preID, e.preNum = block.BlockID, block.BlockNum
	e.node.Reward(block.SignerID)
	e.waitingForCommit--
	e.metrics.BlocksCommitted().Inc()

	if e.node.State == node.StateCatchingUp && block.BlockNum == e.fastforwardTargetNum {
		e.node.Bootstrap(int(data.Epoch), int(data.WitnessIdx), data.FullCandidateList, int(data.NumSlots))
		e.bootstrapMessagesReceived = nil
		e.hasRequestedBootstrap = false
	}

	e.advanceSlot(time.Unix(data.Timestamp, 0))

	if next, ok := e.cache.BlockByNumAndSigner(block.BlockNum+1, e.node.ExpectedSigner()); ok {
		e.waitingForValidation++
		e.checkBlocks([]host.BlockID{next.BlockID})
	}
}

func (e *Engine) handlePeerConnected(peerID string) {
	e.log.Info("handling peer connected", zap.String("peer", peerID), zap.Bool("is_member", e.isMember(peerID)))

	if !e.isMember(peerID) {
		return
	}

	if e.node.State == node.StateWaitingForBootstrap {
		e.node.SendBootstrapRequest(peerID)
	}
	e.node.PeerConnected(peerID, e.memberIPs[peerID])
}

func (e *Engine) handlePeerDisconnected(peerID string) {
	e.log.Info("handling peer disconnected", zap.String("peer", peerID))
	e.node.RemovePeer(peerID)
}

// getBlock fetches a single block from the host service, logging and
// reporting failure rather than panicking if it's unknown to the host.
func (e *Engine) getBlock(id host.BlockID) (host.Block, bool) {
	blocks, err := e.service.GetBlocks([]host.BlockID{id})
	if err != nil {
		e.log.Warn("get_blocks failed", zap.String("block_id", id), zap.Error(err))
		return host.Block{}, false
	}
	block, ok := blocks[id]
	return block, ok
}

func (e *Engine) checkBlocks(ids []host.BlockID) {
	if err := e.service.CheckBlocks(ids); err != nil {
		e.log.Debug("check_blocks failed", zap.Error(err))
	}
}

func (e *Engine) commitBlock(id host.BlockID) {
	if err := e.service.CommitBlock(id); err != nil {
		e.log.Debug("commit_block failed", zap.String("block_id", id), zap.Error(err))
	}
}

func (e *Engine) failBlock(id host.BlockID) {
	if err := e.service.FailBlock(id); err != nil {
		e.log.Debug("fail_block failed", zap.String("block_id", id), zap.Error(err))
	}
}
