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
	fieldNotifyType    protowire.Number = 1
	fieldNotifyBlockID protowire.Number = 2
	fieldNotifyPeerID  protowire.Number = 3
	fieldNotifyBlock   protowire.Number = 4
)

func unmarshalNotification(b []byte) (host.Notification, error) {
	var n host.Notification
	var blockPayload []byte
	err := wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case fieldNotifyType:
			n.Type = host.NotificationType(f.Varint)
		case fieldNotifyBlockID:
			n.BlockID = string(f.Raw)
		case fieldNotifyPeerID:
			n.PeerID = string(f.Raw)
		case fieldNotifyBlock:
			blockPayload = f.Raw
		}
		return nil
	})
	if err != nil {
		return host.Notification{}, fmt.Errorf("hostdriver: unmarshal notification: %w", err)
	}
	if n.Type == host.NotifyBlockNew && blockPayload != nil {
		blk, err := unmarshalBlock(blockPayload)
		if err != nil {
			return host.Notification{}, err
		}
		n.Block = blk
	}
	return n, nil
}
