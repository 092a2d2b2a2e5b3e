// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/overlay"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// Communicator is the networking surface ConsensusNode needs. Defined
// here, at the point of use, so this package depends only on the shape
// it needs rather than overlay's concrete type; *overlay.Communicator
// satisfies it without any adapter.
type Communicator interface {
	AddPeer(peerKey types.Key, peerIP string)
	OnlinePeers() int
	Ping(peerKey types.Key) bool
	Send(peerKey types.Key, msg overlay.Message) error
	Broadcast(msg overlay.Message) error
	Recv(ctx context.Context) (overlay.Inbound, bool)
	TryRecv() (overlay.Inbound, bool)
}

// ConsensusNode tracks peer liveness across the closed member set and
// wraps a Communicator with the timestamp/signer stamping every
// outbound message needs.
type ConsensusNode struct {
	key      types.Key
	peers    map[types.Key]*PeerNode
	peerKeys []types.Key

	lastPeerCheck time.Time

	comm Communicator
	log  log.Logger
}

// NewConsensusNode returns a ConsensusNode for key over peerKeys (which
// must include key itself), marking key as always online.
func NewConsensusNode(key types.Key, peerKeys []types.Key, comm Communicator, logger log.Logger) *ConsensusNode {
	n := &ConsensusNode{
		key:      key,
		peers:    make(map[types.Key]*PeerNode, len(peerKeys)),
		peerKeys: append([]types.Key(nil), peerKeys...),
		comm:     comm,
		log:      logger,
	}
	for _, p := range peerKeys {
		n.addPeer(p)
	}
	if self, ok := n.peers[key]; ok {
		self.SetOnline(true)
	}
	return n
}

func (n *ConsensusNode) addPeer(peerKey types.Key) {
	if _, ok := n.peers[peerKey]; !ok {
		n.peers[peerKey] = NewPeerNode(peerKey)
	}
}

// RemovePeer marks peerKey offline without forgetting its reputation
// score.
func (n *ConsensusNode) RemovePeer(peerKey types.Key) {
	if p, ok := n.peers[peerKey]; ok {
		p.SetOnline(false)
	}
}

// PeerConnected registers peerIP as where peerKey's overlay listens.
func (n *ConsensusNode) PeerConnected(peerKey types.Key, peerIP string) {
	n.comm.AddPeer(peerKey, peerIP)
}

// CheckOnPeers re-pings any peer not seen within config.PingThreshold,
// at most once per config.PeerCheckInterval.
func (n *ConsensusNode) CheckOnPeers() {
	now := time.Now()
	if now.Sub(n.lastPeerCheck) <= config.PeerCheckInterval {
		return
	}
	for _, p := range n.peers {
		if p.Key == n.key {
			continue
		}
		if now.Sub(p.LastSeen) >= config.PingThreshold {
			if n.comm.Ping(p.Key) {
				p.Seen()
			} else {
				n.RemovePeer(p.Key)
			}
		}
	}
	n.lastPeerCheck = now
}

// Seen marks peerKey as seen just now.
func (n *ConsensusNode) Seen(peerKey types.Key) {
	if p, ok := n.peers[peerKey]; ok {
		p.Seen()
	}
}

// SendPing probes peerKey directly, bypassing the CheckOnPeers cadence.
func (n *ConsensusNode) SendPing(peerKey types.Key) bool {
	return n.comm.Ping(peerKey)
}

// SendBootstrapMessage answers a peer's bootstrap request with this
// node's chain state.
func (n *ConsensusNode) SendBootstrapMessage(peerKey types.Key, chainHeadID string, numBlocks int64, preID string) {
	n.SendTo(peerKey, overlay.Message{
		Type:      overlay.MessageBootstrap,
		Bootstrap: &overlay.Bootstrap{ChainHeadID: chainHeadID, NumBlocks: numBlocks, PreID: preID},
	})
}

// SendBootstrapRequest asks peerKey for this node's missing chain state.
func (n *ConsensusNode) SendBootstrapRequest(peerKey types.Key) {
	n.SendTo(peerKey, overlay.Message{Type: overlay.MessageBootstrapRequest})
}

// Broadcast stamps msg with this node's identity and the time, and
// fans it out to every peer.
func (n *ConsensusNode) Broadcast(msg overlay.Message) {
	msg.Timestamp = time.Now().Unix()
	msg.Signer = n.key
	if err := n.comm.Broadcast(msg); err != nil {
		n.log.Debug("broadcast failed", zap.Stringer("type", msg.Type), zap.Error(err))
	}
}

// SendTo stamps msg and sends it to a single peer.
func (n *ConsensusNode) SendTo(peerKey types.Key, msg overlay.Message) {
	msg.Timestamp = time.Now().Unix()
	msg.Signer = n.key
	if err := n.comm.Send(peerKey, msg); err != nil {
		n.log.Debug("send failed", zap.String("peer", peerKey), zap.Stringer("type", msg.Type), zap.Error(err))
	}
}

// Recv returns the next inbound peer message, or false if ctx is done
// first.
func (n *ConsensusNode) Recv(ctx context.Context) (overlay.Message, types.Key, bool) {
	in, ok := n.comm.Recv(ctx)
	if !ok {
		return overlay.Message{}, "", false
	}
	return in.Msg, in.From, true
}

// TryRecv returns the next queued inbound peer message without
// blocking, for the driver loop's non-blocking per-tick poll.
func (n *ConsensusNode) TryRecv() (overlay.Message, types.Key, bool) {
	in, ok := n.comm.TryRecv()
	if !ok {
		return overlay.Message{}, "", false
	}
	return in.Msg, in.From, true
}
