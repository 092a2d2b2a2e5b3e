// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics registers the engine's prometheus gauges and counters:
// a constructor that takes a namespace and a prometheus.Registerer,
// registers every metric eagerly, and returns an interface rather than
// the concrete type.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// Metrics is the set of engine-health signals exposed for scraping.
type Metrics interface {
	SetEpochNumber(n int)
	SetCurrentWitnessIdx(n int)
	SetPeerScore(peer types.Key, score float64)

	BlocksFinalized() prometheus.Counter
	BlocksCommitted() prometheus.Counter
	SlotsMissed() prometheus.Counter
	VotesCast() prometheus.Counter
	EpochsInitialized() prometheus.Counter
}

type metrics struct {
	epochNumber       prometheus.Gauge
	currentWitnessIdx prometheus.Gauge
	peerScore         *prometheus.GaugeVec

	blocksFinalized   prometheus.Counter
	blocksCommitted   prometheus.Counter
	slotsMissed       prometheus.Counter
	votesCast         prometheus.Counter
	epochsInitialized prometheus.Counter
}

// New registers the ddpoa_* metrics against registerer under namespace
// and returns the handle the engine updates from its driver loop.
func New(namespace string, registerer prometheus.Registerer) (Metrics, error) {
	m := &metrics{
		epochNumber: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "epoch_number",
			Help:      "Current epoch number.",
		}),
		currentWitnessIdx: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_witness_idx",
			Help:      "Cumulative slot count since the current epoch started.",
		}),
		peerScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peer_score",
			Help:      "Reputation score of each known peer.",
		}, []string{"peer"}),
		blocksFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_finalized_total",
			Help:      "Blocks this node has finalized as witness.",
		}),
		blocksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_committed_total",
			Help:      "Blocks committed by the host runtime.",
		}),
		slotsMissed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_missed_total",
			Help:      "Slots whose expected witness failed to produce in time.",
		}),
		votesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Ballots this node has cast.",
		}),
		epochsInitialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "epochs_initialized_total",
			Help:      "Epochs this node has initialized.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.epochNumber, m.currentWitnessIdx, m.peerScore,
		m.blocksFinalized, m.blocksCommitted, m.slotsMissed,
		m.votesCast, m.epochsInitialized,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *metrics) SetEpochNumber(n int)          { m.epochNumber.Set(float64(n)) }
func (m *metrics) SetCurrentWitnessIdx(n int)    { m.currentWitnessIdx.Set(float64(n)) }
func (m *metrics) SetPeerScore(peer types.Key, score float64) {
	m.peerScore.WithLabelValues(peer).Set(score)
}

func (m *metrics) BlocksFinalized() prometheus.Counter   { return m.blocksFinalized }
func (m *metrics) BlocksCommitted() prometheus.Counter   { return m.blocksCommitted }
func (m *metrics) SlotsMissed() prometheus.Counter       { return m.slotsMissed }
func (m *metrics) VotesCast() prometheus.Counter         { return m.votesCast }
func (m *metrics) EpochsInitialized() prometheus.Counter { return m.epochsInitialized }

// NoOp returns a Metrics implementation that discards every update, for
// tests and for running with --metrics disabled.
func NoOp() Metrics { return noOp{} }

type noOp struct{}

func (noOp) SetEpochNumber(int)                    {}
func (noOp) SetCurrentWitnessIdx(int)              {}
func (noOp) SetPeerScore(types.Key, float64)       {}
func (noOp) BlocksFinalized() prometheus.Counter   { return noOpCounter }
func (noOp) BlocksCommitted() prometheus.Counter   { return noOpCounter }
func (noOp) SlotsMissed() prometheus.Counter       { return noOpCounter }
func (noOp) VotesCast() prometheus.Counter         { return noOpCounter }
func (noOp) EpochsInitialized() prometheus.Counter { return noOpCounter }

var noOpCounter = prometheus.NewCounter(prometheus.CounterOpts{Name: "ddpoa_noop"})
