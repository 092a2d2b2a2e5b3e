// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensusdata defines the payload embedded in every block's
// consensus field: the epoch and witness-slot state a validating peer
// needs to check a block without replaying the whole chain.
package consensusdata

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/wire"
)

// ConsensusData is serialized into Block.Payload by FinalizeBlock and
// parsed back out by the engine's new, invalid and committed block
// handlers.
type ConsensusData struct {
	Timestamp         int64
	Epoch             int64
	WitnessIdx        int64
	FullCandidateList []string
	NumSlots          int64
	// Consensus identifies the engine and version that produced the
	// block, as "name:version" — e.g. "ddpoa:0.1".
	Consensus string
}

const (
	fieldTimestamp  protowire.Number = 1
	fieldEpoch      protowire.Number = 2
	fieldWitnessIdx protowire.Number = 3
	fieldCandidates protowire.Number = 4
	fieldNumSlots   protowire.Number = 5
	fieldConsensus  protowire.Number = 6
)

// New builds a ConsensusData stamped with this engine's name:version
// identifier.
func New(timestamp, epochNum, witnessIdx, numSlots int64, candidates []string) ConsensusData {
	return ConsensusData{
		Timestamp:         timestamp,
		Epoch:             epochNum,
		WitnessIdx:        witnessIdx,
		FullCandidateList: candidates,
		NumSlots:          numSlots,
		Consensus:         fmt.Sprintf("%s:%s", config.EngineName, config.EngineVersion),
	}
}

// Marshal encodes the payload into its wire form.
func (d ConsensusData) Marshal() []byte {
	var b []byte
	b = wire.AppendVarint(b, fieldTimestamp, uint64(d.Timestamp))
	b = wire.AppendVarint(b, fieldEpoch, uint64(d.Epoch))
	b = wire.AppendVarint(b, fieldWitnessIdx, uint64(d.WitnessIdx))
	b = wire.AppendStrings(b, fieldCandidates, d.FullCandidateList)
	b = wire.AppendVarint(b, fieldNumSlots, uint64(d.NumSlots))
	b = wire.AppendString(b, fieldConsensus, d.Consensus)
	return b
}

// Unmarshal decodes a ConsensusData from its wire form.
func Unmarshal(b []byte) (ConsensusData, error) {
	var d ConsensusData
	err := wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case fieldTimestamp:
			d.Timestamp = int64(f.Varint)
		case fieldEpoch:
			d.Epoch = int64(f.Varint)
		case fieldWitnessIdx:
			d.WitnessIdx = int64(f.Varint)
		case fieldCandidates:
			d.FullCandidateList = append(d.FullCandidateList, string(f.Raw))
		case fieldNumSlots:
			d.NumSlots = int64(f.Varint)
		case fieldConsensus:
			d.Consensus = string(f.Raw)
		}
		return nil
	})
	if err != nil {
		return ConsensusData{}, fmt.Errorf("consensusdata: unmarshal: %w", err)
	}
	return d, nil
}
