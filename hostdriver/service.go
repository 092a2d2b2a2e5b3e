// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hostdriver

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/wire"
)

const (
	fieldReqIDs      protowire.Number = 1
	fieldReqPayload  protowire.Number = 2
	fieldReqBlockID  protowire.Number = 1
	fieldReqNames    protowire.Number = 2
	fieldRespBlocks  protowire.Number = 1
	fieldRespBlockID protowire.Number = 1
	fieldRespBlock   protowire.Number = 1
	fieldRespPairK   protowire.Number = 1
	fieldRespPairV   protowire.Number = 2
)

// Service is a host.Service bound to a remote host driver process over
// a ZMQ DEALER socket. One Service owns one socket; it is safe for the
// single engine driver goroutine to use.
type Service struct {
	c *client
}

// New dials connect (the -C/--connect endpoint) and returns a Service
// identifying itself to the host driver as identity (typically this
// node's key).
func New(connect, identity string, logger log.Logger) (*Service, error) {
	c, err := newClient(connect, identity, logger)
	if err != nil {
		return nil, err
	}
	return &Service{c: c}, nil
}

// Close releases the underlying socket.
func (s *Service) Close() error {
	return s.c.close()
}

func (s *Service) InitializeBlock() error {
	_, err := s.c.request(context.Background(), kindInitializeBlock, nil)
	return err
}

func (s *Service) SummarizeBlock() ([]byte, error) {
	resp, err := s.c.request(context.Background(), kindSummarizeBlock, nil)
	if err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

func (s *Service) FinalizeBlock(payload []byte) (host.BlockID, error) {
	req := wire.AppendMessage(nil, fieldReqPayload, payload)
	resp, err := s.c.request(context.Background(), kindFinalizeBlock, req)
	if err != nil {
		return "", err
	}
	return decodeSingleString(resp.Payload, fieldRespBlockID)
}

func (s *Service) CancelBlock() error {
	_, err := s.c.request(context.Background(), kindCancelBlock, nil)
	return err
}

func (s *Service) CheckBlocks(ids []host.BlockID) error {
	_, err := s.c.request(context.Background(), kindCheckBlocks, encodeIDs(ids))
	return err
}

func (s *Service) CommitBlock(id host.BlockID) error {
	_, err := s.c.request(context.Background(), kindCommitBlock, encodeSingleID(id))
	return err
}

func (s *Service) FailBlock(id host.BlockID) error {
	_, err := s.c.request(context.Background(), kindFailBlock, encodeSingleID(id))
	return err
}

func (s *Service) IgnoreBlock(id host.BlockID) error {
	_, err := s.c.request(context.Background(), kindIgnoreBlock, encodeSingleID(id))
	return err
}

func (s *Service) GetBlocks(ids []host.BlockID) (map[host.BlockID]host.Block, error) {
	resp, err := s.c.request(context.Background(), kindGetBlocks, encodeIDs(ids))
	if err != nil {
		return nil, err
	}
	blocks, err := unmarshalBlocks(fieldRespBlocks, resp.Payload)
	if err != nil {
		return nil, err
	}
	out := make(map[host.BlockID]host.Block, len(blocks))
	for _, b := range blocks {
		out[b.BlockID] = b
	}
	return out, nil
}

func (s *Service) GetChainHead() (host.Block, error) {
	resp, err := s.c.request(context.Background(), kindGetChainHead, nil)
	if err != nil {
		return host.Block{}, err
	}
	var block host.Block
	err = wire.Walk(resp.Payload, func(f wire.Field) error {
		if f.Num == fieldRespBlock {
			b, err := unmarshalBlock(f.Raw)
			if err != nil {
				return err
			}
			block = b
		}
		return nil
	})
	return block, err
}

func (s *Service) GetSettings(blockID host.BlockID, names []string) (map[string]string, error) {
	var req []byte
	req = wire.AppendString(req, fieldReqBlockID, blockID)
	req = wire.AppendStrings(req, fieldReqNames, names)

	resp, err := s.c.request(context.Background(), kindGetSettings, req)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(names))
	var curKey string
	err = wire.Walk(resp.Payload, func(f wire.Field) error {
		switch f.Num {
		case fieldRespPairK:
			curKey = string(f.Raw)
		case fieldRespPairV:
			out[curKey] = string(f.Raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Recv waits for the next host notification or ctx's expiry.
func (s *Service) Recv(ctx context.Context) (host.Notification, bool) {
	select {
	case n := <-s.c.notifications:
		return n, true
	case <-ctx.Done():
		return host.Notification{}, false
	}
}

func encodeSingleID(id host.BlockID) []byte {
	return wire.AppendString(nil, fieldReqIDs, id)
}

func encodeIDs(ids []host.BlockID) []byte {
	return wire.AppendStrings(nil, fieldReqIDs, ids)
}

func decodeSingleString(b []byte, num protowire.Number) (string, error) {
	var s string
	err := wire.Walk(b, func(f wire.Field) error {
		if f.Num == num {
			s = string(f.Raw)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hostdriver: decode string: %w", err)
	}
	return s, nil
}
