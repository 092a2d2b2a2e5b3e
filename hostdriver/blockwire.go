// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hostdriver

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/wire"
)

const (
	fieldBlockID     protowire.Number = 1
	fieldPreviousID  protowire.Number = 2
	fieldSignerID    protowire.Number = 3
	fieldBlockNum    protowire.Number = 4
	fieldBlockPay    protowire.Number = 5
	fieldBlockSumm   protowire.Number = 6
)

func marshalBlock(b host.Block) []byte {
	var out []byte
	out = wire.AppendString(out, fieldBlockID, b.BlockID)
	out = wire.AppendString(out, fieldPreviousID, b.PreviousID)
	out = wire.AppendString(out, fieldSignerID, b.SignerID)
	out = wire.AppendVarint(out, fieldBlockNum, b.BlockNum)
	out = wire.AppendMessage(out, fieldBlockPay, b.Payload)
	out = wire.AppendMessage(out, fieldBlockSumm, b.Summary)
	return out
}

func unmarshalBlock(b []byte) (host.Block, error) {
	var blk host.Block
	err := wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case fieldBlockID:
			blk.BlockID = string(f.Raw)
		case fieldPreviousID:
			blk.PreviousID = string(f.Raw)
		case fieldSignerID:
			blk.SignerID = string(f.Raw)
		case fieldBlockNum:
			blk.BlockNum = f.Varint
		case fieldBlockPay:
			blk.Payload = f.Raw
		case fieldBlockSumm:
			blk.Summary = f.Raw
		}
		return nil
	})
	if err != nil {
		return host.Block{}, fmt.Errorf("hostdriver: unmarshal block: %w", err)
	}
	return blk, nil
}

// marshalBlocks/unmarshalBlocks wrap a repeated Block field under num,
// the wire shape GetBlocks' response and CheckBlocks' request share.
func marshalBlocks(num protowire.Number, blocks []host.Block) []byte {
	var out []byte
	for _, b := range blocks {
		out = wire.AppendMessage(out, num, marshalBlock(b))
	}
	return out
}

func unmarshalBlocks(num protowire.Number, b []byte) ([]host.Block, error) {
	var blocks []host.Block
	err := wire.Walk(b, func(f wire.Field) error {
		if f.Num != num {
			return nil
		}
		blk, err := unmarshalBlock(f.Raw)
		if err != nil {
			return err
		}
		blocks = append(blocks, blk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
