// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// Inbound is one message received from a peer, queued for the driver
// loop to dispatch on its own schedule.
type Inbound struct {
	Msg  Message
	From types.Key
}

// Communicator owns the gRPC server that receives peer messages and the
// per-peer clients used to send them. All exported methods are safe for
// concurrent use; the driver loop reads inbound messages with TryRecv,
// which drains the queue fed by the server goroutine.
type Communicator struct {
	log     log.Logger
	selfKey types.Key

	mu    sync.Mutex
	peers map[types.Key]*Peer

	queue chan Inbound

	server *grpc.Server
}

// NewCommunicator returns a Communicator for selfKey with no peers yet
// registered. Call Serve to start accepting connections.
func NewCommunicator(selfKey types.Key, logger log.Logger) *Communicator {
	return &Communicator{
		log:     logger,
		selfKey: selfKey,
		peers:   make(map[types.Key]*Peer),
		queue:   make(chan Inbound, 256),
	}
}

// AddPeer registers peerIP as where peerKey's overlay listens, and
// starts a background connect-and-probe goroutine for it if this is the
// first time we've heard of this peer.
func (c *Communicator) AddPeer(peerKey types.Key, peerIP string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.peers[peerKey]; ok {
		return
	}
	p := newPeer(peerKey, peerIP, c.log)
	c.peers[peerKey] = p
	go p.run(context.Background())
}

// OnlinePeers returns the number of peers (other than self) whose
// connection has been confirmed reachable by at least one successful
// Ping.
func (c *Communicator) OnlinePeers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, p := range c.peers {
		if p.isConnected() {
			n++
		}
	}
	return n
}

func (c *Communicator) peer(peerKey types.Key) (*Peer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.peers[peerKey]
	return p, ok
}

// Ping sends a readiness probe to peerKey and reports whether it
// answered.
func (c *Communicator) Ping(peerKey types.Key) bool {
	p, ok := c.peer(peerKey)
	if !ok {
		return false
	}
	return p.ping(context.Background()) == nil
}

// Send delivers msg to a single peer.
func (c *Communicator) Send(peerKey types.Key, msg Message) error {
	p, ok := c.peer(peerKey)
	if !ok {
		return fmt.Errorf("overlay: unknown peer %s", peerKey)
	}
	return p.send(context.Background(), msg)
}

// Broadcast delivers msg to every known peer concurrently. Individual
// peer failures are logged but do not fail the whole broadcast — a
// single down peer should never block gossip to the rest of the set.
func (c *Communicator) Broadcast(msg Message) error {
	c.mu.Lock()
	peers := make([]*Peer, 0, len(c.peers))
	for _, p := range c.peers {
		peers = append(peers, p)
	}
	c.mu.Unlock()

	var g errgroup.Group
	for _, p := range peers {
		p := p
		g.Go(func() error {
			if err := p.send(context.Background(), msg); err != nil {
				c.log.Debug("broadcast to peer failed", zap.String("peer", p.key), zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// Recv blocks until a message arrives from the server goroutine, or ctx
// is done.
func (c *Communicator) Recv(ctx context.Context) (Inbound, bool) {
	select {
	case in := <-c.queue:
		return in, true
	case <-ctx.Done():
		return Inbound{}, false
	}
}

// TryRecv returns the next queued inbound message without blocking, for
// the driver loop's non-blocking per-tick drain of the peer-message
// queue.
func (c *Communicator) TryRecv() (Inbound, bool) {
	select {
	case in := <-c.queue:
		return in, true
	default:
		return Inbound{}, false
	}
}

// Serve binds the gRPC server to addr and blocks accepting peer
// messages until the server is stopped. Typically run in its own
// goroutine alongside the driver loop.
func (c *Communicator) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("overlay: listen %s: %w", addr, err)
	}
	c.server = grpc.NewServer(grpc.ForceServerCodec(wireCodec{}))
	RegisterConsensusRPCServer(c.server, &rpcHandler{comm: c})
	c.log.Info("overlay listening", zap.String("addr", addr))
	return c.server.Serve(lis)
}

// Stop gracefully shuts down the gRPC server.
func (c *Communicator) Stop() {
	if c.server != nil {
		c.server.GracefulStop()
	}
}

// rpcHandler implements ConsensusRPCServer by forwarding every received
// Message onto the Communicator's inbound queue, and answering Ping
// unconditionally: being reachable enough to answer is the entire
// liveness signal.
type rpcHandler struct {
	comm *Communicator
}

func (h *rpcHandler) Message(ctx context.Context, msg *Message) (*Empty, error) {
	select {
	case h.comm.queue <- Inbound{Msg: *msg, From: msg.Signer}:
	default:
		h.comm.log.Warn("inbound queue full, dropping message", zap.Stringer("type", msg.Type))
	}
	return &Empty{}, nil
}

func (h *rpcHandler) Ping(ctx context.Context, _ *Empty) (*Empty, error) {
	return &Empty{}, nil
}
