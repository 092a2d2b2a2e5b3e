// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host defines the boundary between the DDPoA engine and the host
// blockchain runtime that actually executes, persists, and disseminates
// blocks. The runtime itself is an external collaborator; this package
// only names the Go-shaped interface the engine drives it through, and
// the small set of types that cross it.
package host

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// BlockID is a lower-case hex block identifier, as reported by the host.
type BlockID = string

// Block is the host runtime's view of one block, as handed to the engine
// by GetBlocks/GetChainHead or carried on a BLOCK_NEW notification.
type Block struct {
	BlockID    BlockID
	PreviousID BlockID
	SignerID   string // hex member key
	BlockNum   uint64
	Payload    []byte // ConsensusData, wire-encoded
	Summary    []byte
}

// LogFields renders b for a structured log line.
func (b Block) LogFields() []zap.Field {
	return []zap.Field{
		zap.Uint64("block_num", b.BlockNum),
		zap.String("block_id", b.BlockID),
		zap.String("previous_id", b.PreviousID),
		zap.String("signer_id", b.SignerID),
		zap.Int("payload_len", len(b.Payload)),
	}
}

// Sentinel errors the engine treats as steady-state, not failures.
var (
	// ErrBlockNotReady means a summarize/finalize call found nothing to
	// produce yet. Not an error: the driver simply retries next tick.
	ErrBlockNotReady = errors.New("host: block not ready")

	// ErrInvalidState means a call was made at a point in the host's own
	// state machine that doesn't allow it right now (e.g. finalizing
	// with no block initialized). Logged and swallowed.
	ErrInvalidState = errors.New("host: invalid state for operation")
)

// NotificationType tags a Notification's payload.
type NotificationType int

const (
	NotifyUnknown NotificationType = iota
	NotifyBlockNew
	NotifyBlockValid
	NotifyBlockInvalid
	NotifyBlockCommit
	NotifyPeerConnected
	NotifyPeerDisconnected
)

func (t NotificationType) String() string {
	switch t {
	case NotifyBlockNew:
		return "BLOCK_NEW"
	case NotifyBlockValid:
		return "BLOCK_VALID"
	case NotifyBlockInvalid:
		return "BLOCK_INVALID"
	case NotifyBlockCommit:
		return "BLOCK_COMMIT"
	case NotifyPeerConnected:
		return "PEER_CONNECTED"
	case NotifyPeerDisconnected:
		return "PEER_DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Notification is one inbound host-runtime event, dispatched by the
// driver loop. Exactly the fields relevant to Type are populated.
type Notification struct {
	Type    NotificationType
	Block   Block   // NotifyBlockNew
	BlockID BlockID // NotifyBlockValid / NotifyBlockInvalid / NotifyBlockCommit
	PeerID  string  // NotifyPeerConnected / NotifyPeerDisconnected
}

func (n Notification) String() string {
	return fmt.Sprintf("Notification(%s)", n.Type)
}

// Service is the host runtime's bidirectional channel. hostdriver binds
// a concrete implementation of it over ZMQ; tests and host/hostmock
// substitute a fake or generated mock.
type Service interface {
	InitializeBlock() error
	SummarizeBlock() ([]byte, error)
	FinalizeBlock(payload []byte) (BlockID, error)
	CancelBlock() error
	CheckBlocks(ids []BlockID) error
	CommitBlock(id BlockID) error
	FailBlock(id BlockID) error
	IgnoreBlock(id BlockID) error
	GetBlocks(ids []BlockID) (map[BlockID]Block, error)
	GetChainHead() (Block, error)
	GetSettings(blockID BlockID, names []string) (map[string]string, error)

	// Recv blocks until the next host notification arrives or ctx is
	// done, bounding how long the driver loop can stall on any single
	// poll.
	Recv(ctx context.Context) (Notification, bool)
}
