// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hostdriver binds host.Service to the host runtime over a ZMQ
// DEALER socket connected to the -C/--connect endpoint, with
// frames wire-encoded the same way the rest of this module talks to the
// network (see wire, consensusdata, overlay). The envelope here is this
// module's own small request/response protocol, not a port of the host
// runtime's private consensus_api.proto.
package hostdriver

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/wire"
)

type requestKind uint64

const (
	kindInitializeBlock requestKind = iota + 1
	kindSummarizeBlock
	kindFinalizeBlock
	kindCancelBlock
	kindCheckBlocks
	kindCommitBlock
	kindFailBlock
	kindIgnoreBlock
	kindGetBlocks
	kindGetChainHead
	kindGetSettings
	kindNotification
)

const (
	fieldKind    protowire.Number = 1
	fieldID      protowire.Number = 2
	fieldOK      protowire.Number = 3
	fieldErrMsg  protowire.Number = 4
	fieldPayload protowire.Number = 5
)

// envelope is one frame exchanged with the host driver process: a
// request (engine -> driver), its response (driver -> engine), or an
// unsolicited notification (driver -> engine, id always 0).
type envelope struct {
	Kind    requestKind
	ID      uint64
	OK      bool
	ErrMsg  string
	Payload []byte
}

func (e envelope) marshal() []byte {
	var b []byte
	b = wire.AppendVarint(b, fieldKind, uint64(e.Kind))
	b = wire.AppendVarint(b, fieldID, e.ID)
	ok := uint64(0)
	if e.OK {
		ok = 1
	}
	b = wire.AppendVarint(b, fieldOK, ok)
	b = wire.AppendString(b, fieldErrMsg, e.ErrMsg)
	b = wire.AppendMessage(b, fieldPayload, e.Payload)
	return b
}

func unmarshalEnvelope(b []byte) (envelope, error) {
	var e envelope
	err := wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case fieldKind:
			e.Kind = requestKind(f.Varint)
		case fieldID:
			e.ID = f.Varint
		case fieldOK:
			e.OK = f.Varint != 0
		case fieldErrMsg:
			e.ErrMsg = string(f.Raw)
		case fieldPayload:
			e.Payload = f.Raw
		}
		return nil
	})
	if err != nil {
		return envelope{}, fmt.Errorf("hostdriver: unmarshal envelope: %w", err)
	}
	return e, nil
}
