// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package overlay is the peer-to-peer messaging layer: a gRPC service
// carrying the small fixed set of consensus gossip messages (ballots,
// results, empty-slot notices, bootstrap requests and responses) between
// members of the closed validator set.
package overlay

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/wire"
)

// MessageType tags the payload carried by a Message.
type MessageType uint32

const (
	MessageUnknown MessageType = iota
	MessageVote
	MessageVoteResult
	MessageEmptySlot
	MessageBootstrapRequest
	MessageBootstrap
)

func (t MessageType) String() string {
	switch t {
	case MessageVote:
		return "VOTE"
	case MessageVoteResult:
		return "VOTE_RESULT"
	case MessageEmptySlot:
		return "EMPTY_SLOT"
	case MessageBootstrapRequest:
		return "BOOTSTRAP_REQUEST"
	case MessageBootstrap:
		return "BOOTSTRAP"
	default:
		return "UNKNOWN"
	}
}

// Bootstrap carries the chain state a newly (re)joined peer needs to
// catch up.
type Bootstrap struct {
	ChainHeadID string
	NumBlocks   int64
	PreID       string
}

const (
	bootstrapFieldChainHeadID protowire.Number = 1
	bootstrapFieldNumBlocks   protowire.Number = 2
	bootstrapFieldPreID       protowire.Number = 3
)

func (b Bootstrap) marshal() []byte {
	var out []byte
	out = wire.AppendString(out, bootstrapFieldChainHeadID, b.ChainHeadID)
	out = wire.AppendVarint(out, bootstrapFieldNumBlocks, uint64(b.NumBlocks))
	out = wire.AppendString(out, bootstrapFieldPreID, b.PreID)
	return out
}

func unmarshalBootstrap(raw []byte) (Bootstrap, error) {
	var b Bootstrap
	err := wire.Walk(raw, func(f wire.Field) error {
		switch f.Num {
		case bootstrapFieldChainHeadID:
			b.ChainHeadID = string(f.Raw)
		case bootstrapFieldNumBlocks:
			b.NumBlocks = int64(f.Varint)
		case bootstrapFieldPreID:
			b.PreID = string(f.Raw)
		}
		return nil
	})
	return b, err
}

// Message is the envelope exchanged between peer overlays: exactly one
// of Votes, Result, or Bootstrap is meaningful, selected by Type.
type Message struct {
	Type      MessageType
	Votes     []string
	Result    []string
	Epoch     int64
	Bootstrap *Bootstrap
	Timestamp int64
	Signer    string
}

const (
	messageFieldType      protowire.Number = 1
	messageFieldVotes     protowire.Number = 2
	messageFieldResult    protowire.Number = 3
	messageFieldEpoch     protowire.Number = 4
	messageFieldBootstrap protowire.Number = 5
	messageFieldTimestamp protowire.Number = 6
	messageFieldSigner    protowire.Number = 7
)

// Marshal encodes the message into its wire form.
func (m Message) Marshal() []byte {
	var b []byte
	b = wire.AppendVarint(b, messageFieldType, uint64(m.Type))
	b = wire.AppendStrings(b, messageFieldVotes, m.Votes)
	b = wire.AppendStrings(b, messageFieldResult, m.Result)
	b = wire.AppendVarint(b, messageFieldEpoch, uint64(m.Epoch))
	if m.Bootstrap != nil {
		b = wire.AppendMessage(b, messageFieldBootstrap, m.Bootstrap.marshal())
	}
	b = wire.AppendVarint(b, messageFieldTimestamp, uint64(m.Timestamp))
	b = wire.AppendString(b, messageFieldSigner, m.Signer)
	return b
}

// Unmarshal decodes a Message from its wire form.
func Unmarshal(raw []byte) (Message, error) {
	var m Message
	err := wire.Walk(raw, func(f wire.Field) error {
		switch f.Num {
		case messageFieldType:
			m.Type = MessageType(f.Varint)
		case messageFieldVotes:
			m.Votes = append(m.Votes, string(f.Raw))
		case messageFieldResult:
			m.Result = append(m.Result, string(f.Raw))
		case messageFieldEpoch:
			m.Epoch = int64(f.Varint)
		case messageFieldBootstrap:
			boot, err := unmarshalBootstrap(f.Raw)
			if err != nil {
				return fmt.Errorf("overlay: bad bootstrap field: %w", err)
			}
			m.Bootstrap = &boot
		case messageFieldTimestamp:
			m.Timestamp = int64(f.Varint)
		case messageFieldSigner:
			m.Signer = string(f.Raw)
		}
		return nil
	})
	if err != nil {
		return Message{}, fmt.Errorf("overlay: unmarshal: %w", err)
	}
	return m, nil
}
