// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hostdriver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	zmq "github.com/pebbe/zmq4"
	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
)

// errBlockNotReadyTag/errInvalidStateTag are the sentinel ErrMsg values
// the host driver process sends back for host.ErrBlockNotReady /
// host.ErrInvalidState, so those two steady-state conditions survive
// the wire round trip as the same sentinels the engine already knows
// how to swallow.
const (
	errBlockNotReadyTag = "block_not_ready"
	errInvalidStateTag  = "invalid_state"
)

// client is the low-level request/response multiplexer over a single
// DEALER socket: correlated request/response frames plus a side channel
// for unsolicited host notifications.
type client struct {
	sock *zmq.Socket
	log  log.Logger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan envelope

	notifications chan host.Notification
	done          chan struct{}
}

func newClient(connect, identity string, logger log.Logger) (*client, error) {
	sock, err := zmq.NewSocket(zmq.DEALER)
	if err != nil {
		return nil, fmt.Errorf("hostdriver: new socket: %w", err)
	}
	if err := sock.SetIdentity(identity); err != nil {
		sock.Close()
		return nil, fmt.Errorf("hostdriver: set identity: %w", err)
	}
	if err := sock.Connect(connect); err != nil {
		sock.Close()
		return nil, fmt.Errorf("hostdriver: connect %s: %w", connect, err)
	}

	c := &client{
		sock:          sock,
		log:           logger,
		pending:       make(map[uint64]chan envelope),
		notifications: make(chan host.Notification, 64),
		done:          make(chan struct{}),
	}
	go c.recvLoop()
	return c, nil
}

func (c *client) close() error {
	close(c.done)
	return c.sock.Close()
}

func (c *client) recvLoop() {
	for {
		frames, err := c.sock.RecvMessageBytes(0)
		if err != nil {
			select {
			case <-c.done:
				return
			default:
				c.log.Debug("host driver recv failed", zap.Error(err))
				continue
			}
		}
		for _, frame := range frames {
			c.handleFrame(frame)
		}
	}
}

func (c *client) handleFrame(frame []byte) {
	env, err := unmarshalEnvelope(frame)
	if err != nil {
		c.log.Warn("malformed frame from host driver", zap.Error(err))
		return
	}

	if env.Kind == kindNotification {
		n, err := unmarshalNotification(env.Payload)
		if err != nil {
			c.log.Warn("malformed notification from host driver", zap.Error(err))
			return
		}
		select {
		case c.notifications <- n:
		default:
			c.log.Warn("notification channel full, dropping", zap.Stringer("type", n.Type))
		}
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	delete(c.pending, env.ID)
	c.mu.Unlock()
	if !ok {
		c.log.Debug("response for unknown request id", zap.Uint64("id", env.ID))
		return
	}
	ch <- env
}

// request sends a (kind, payload) request and blocks for its matching
// response, or until ctx is done.
func (c *client) request(ctx context.Context, kind requestKind, payload []byte) (envelope, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	replyCh := make(chan envelope, 1)
	c.pending[id] = replyCh
	req := envelope{Kind: kind, ID: id, Payload: payload}
	_, err := c.sock.SendBytes(req.marshal(), 0)
	c.mu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return envelope{}, fmt.Errorf("hostdriver: send: %w", err)
	}

	select {
	case resp := <-replyCh:
		if !resp.OK {
			return envelope{}, sentinelError(resp.ErrMsg)
		}
		return resp, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return envelope{}, ctx.Err()
	}
}

func sentinelError(tag string) error {
	switch tag {
	case errBlockNotReadyTag:
		return host.ErrBlockNotReady
	case errInvalidStateTag:
		return host.ErrInvalidState
	case "":
		return errors.New("hostdriver: request failed")
	default:
		return errors.New(tag)
	}
}
