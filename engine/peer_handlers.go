// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/overlay"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// handlePeerMessage dispatches one consensus gossip message by type.
// Messages from non-members are dropped silently.
func (e *Engine) handlePeerMessage(msg overlay.Message, signer types.Key) {
	if !e.isMember(signer) {
		return
	}
	e.node.Seen(signer)

	switch msg.Type {
	case overlay.MessageVote:
		e.node.HandleVote(msg, signer)
	case overlay.MessageVoteResult:
		e.log.Debug("received vote result", zap.String("peer", signer))
		if e.node.HandleVoteResult(msg, signer) {
			e.slotStartedAt = time.Now()
		}
	case overlay.MessageEmptySlot:
		e.log.Debug("received empty slot", zap.String("peer", signer))
		if signer == e.node.ExpectedSigner() {
			e.advanceSlot(time.Unix(msg.Timestamp, 0))
		}
	case overlay.MessageBootstrapRequest:
		e.log.Debug("received bootstrap request", zap.String("peer", signer))
		head, err := e.service.GetChainHead()
		if err != nil {
			e.log.Warn("get_chain_head failed answering bootstrap request", zap.Error(err))
			return
		}
		e.node.SendBootstrapMessage(signer, head.BlockID, int64(head.BlockNum), head.PreviousID)
	case overlay.MessageBootstrap:
		e.handleBootstrap(msg)
	default:
		e.log.Debug("unknown peer message type", zap.Stringer("type", msg.Type))
	}
}

// handleBootstrap folds msg.Bootstrap into the received-bootstraps
// tally, fastforwarding toward whichever chain head a quorum of peers
// endorse.
func (e *Engine) handleBootstrap(msg overlay.Message) {
	if msg.Bootstrap == nil {
		return
	}
	b := *msg.Bootstrap
	e.log.Debug("received bootstrap message",
		zap.Int64("num_blocks", b.NumBlocks), zap.String("chain_head_id", b.ChainHeadID))
	e.bootstrapMessagesReceived = append(e.bootstrapMessagesReceived, bootstrapTally{
		chainHeadID: b.ChainHeadID,
		numBlocks:   b.NumBlocks,
		preID:       b.PreID,
	})

	type tally struct {
		num   int64
		count int
	}
	counts := make(map[host.BlockID]*tally)
	bump := func(id host.BlockID, num int64) {
		if t, ok := counts[id]; ok {
			t.count++
			return
		}
		counts[id] = &tally{num: num, count: 1}
	}
	for _, m := range e.bootstrapMessagesReceived {
		bump(m.chainHeadID, m.numBlocks)
		bump(m.preID, m.numBlocks-1)
	}

	type candidate struct {
		id    host.BlockID
		num   int64
		count int
	}
	candidates := make([]candidate, 0, len(counts))
	for id, t := range counts {
		candidates = append(candidates, candidate{id: id, num: t.num, count: t.count})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].num > candidates[j].num
	})

	top := candidates[0]
	online := e.node.OnlinePeers()
	threshold := e.node.Voting.ConsensusAmount(online) - 1
	e.log.Debug("bootstrap consensus check", zap.Int("count", top.count), zap.Int("threshold", threshold))
	if top.count >= threshold {
		e.fastforward(top.id, uint64(top.num))
	}

	if len(e.bootstrapMessagesReceived) == online-1 {
		e.bootstrapMessagesReceived = nil
		e.hasRequestedBootstrap = false
	}
}
