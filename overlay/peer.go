// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// Peer is one other validator's overlay connection: a lazily-dialed
// gRPC channel plus a readiness flag set once a Ping round-trips.
type Peer struct {
	key types.Key
	ip  string
	log log.Logger

	mu        sync.Mutex
	conn      *grpc.ClientConn
	client    ConsensusRPCClient
	connected bool
}

func newPeer(key types.Key, ip string, logger log.Logger) *Peer {
	return &Peer{key: key, ip: ip, log: logger}
}

func (p *Peer) addr() string {
	return fmt.Sprintf("%s:%d", p.ip, config.PeerRPCPort)
}

// run dials the peer after PeerConnectGrace (giving its own engine time
// to start listening) and then probes it with Ping at
// PeerPingRetryInterval until one succeeds, at which point the peer is
// considered connected. It returns once connected or ctx is done.
func (p *Peer) run(ctx context.Context) {
	select {
	case <-time.After(config.PeerConnectGrace):
	case <-ctx.Done():
		return
	}

	conn, err := grpc.NewClient(
		p.addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wireCodec{})),
	)
	if err != nil {
		p.log.Error("dial peer failed", zap.String("peer", p.key), zap.Error(err))
		return
	}

	p.mu.Lock()
	p.conn = conn
	p.client = NewConsensusRPCClient(conn)
	p.mu.Unlock()

	ticker := time.NewTicker(config.PeerPingRetryInterval)
	defer ticker.Stop()
	for {
		if p.ping(ctx) == nil {
			p.mu.Lock()
			p.connected = true
			p.mu.Unlock()
			p.log.Debug("peer connected", zap.String("peer", p.key))
			return
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (p *Peer) isConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *Peer) currentClient() ConsensusRPCClient {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client
}

func (p *Peer) ping(ctx context.Context) error {
	client := p.currentClient()
	if client == nil {
		return fmt.Errorf("overlay: peer %s not dialed yet", p.key)
	}
	ctx, cancel := context.WithTimeout(ctx, config.PeerPingRetryInterval)
	defer cancel()
	_, err := client.Ping(ctx, &Empty{})
	return err
}

func (p *Peer) send(ctx context.Context, msg Message) error {
	client := p.currentClient()
	if client == nil {
		return fmt.Errorf("overlay: peer %s not dialed yet", p.key)
	}
	_, err := client.Message(ctx, &msg)
	return err
}
