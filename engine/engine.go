// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine binds the epoch, voting, node, overlay, and block-cache
// packages into the single event loop that drives block production and
// finalization: it is the sole mutator of the DDPoA state machine, the
// active epoch, the block cache, and the voting store.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/blockcache"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/metrics"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/node"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/types"
)

// Engine is the DDPoA consensus engine: the host-runtime boundary, the
// peer overlay, the DDPoA node state machine, and the bookkeeping the
// driver loop needs to decide when to finalize, validate, commit, or
// discard blocks. All of its exported methods are intended to be called
// only from the single goroutine running Run; nothing here is safe for
// concurrent use beyond what node and overlay already guarantee for
// their own background contexts.
type Engine struct {
	log     log.Logger
	service host.Service
	node    *node.Node
	metrics metrics.Metrics

	selfKey   types.Key
	members   []types.Key
	memberIPs map[types.Key]string

	cache   *blockcache.Cache
	preID   host.BlockID
	preNum  uint64

	engineStart   time.Time
	slotStartedAt time.Time
	exit          bool

	waitingForOwnBlock    bool
	waitingForValidation  int
	waitingForCommit      int

	bootstrapMessagesReceived []bootstrapTally
	bootstrapCache            map[host.BlockID]host.Block
	fastforwardTargetID       host.BlockID
	fastforwardTargetNum      uint64
	hasRequestedBootstrap     bool
	lastForkBootstrapRequest  time.Time
	lastBootstrapRequest      time.Time
}

type bootstrapTally struct {
	chainHeadID host.BlockID
	numBlocks   int64
	preID       host.BlockID
}

// Communicator is an alias of node.Communicator, *node.Node's constructor
// dependency, so this package can name it explicitly; *overlay.Communicator
// satisfies it.
type Communicator = node.Communicator

// New returns an Engine for selfKey, not yet started. Call Start to read
// on-chain settings and build the DDPoA node, then Run to drive the
// event loop.
func New(selfKey types.Key, service host.Service, logger log.Logger, m metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.NoOp()
	}
	return &Engine{
		log:            logger,
		service:        service,
		selfKey:        selfKey,
		metrics:        m,
		bootstrapCache: make(map[host.BlockID]host.Block),
		slotStartedAt:  time.Now(),
	}
}

// rngOrDefault returns rng, or a time-seeded default if nil.
func rngOrDefault(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Start reads the on-chain ddpoa settings at the current chain head,
// builds the DDPoA node over the declared member set, and seeds the
// block cache and pre-committed pointer from the chain head the host
// reports at startup. It returns a *config.LocalConfigurationError if
// settings cannot be read or parsed; the caller should log it and exit
// with status 1 without calling Run.
func (e *Engine) Start(comm Communicator, rng *rand.Rand) error {
	e.log.Info("DDPoA engine starting")

	head, err := e.service.GetChainHead()
	if err != nil {
		return config.NewLocalConfigurationError("failed to read chain head", err)
	}

	rawSettings, err := e.service.GetSettings(head.BlockID, config.SettingNames())
	if err != nil {
		return config.NewLocalConfigurationError("failed to read on-chain settings", err)
	}
	settings, err := config.ParseSettings(rawSettings)
	if err != nil {
		return err
	}

	e.members = settings.Members
	e.memberIPs = make(map[types.Key]string, len(settings.Members))
	for i, m := range settings.Members {
		e.memberIPs[m] = settings.MemberIPs[i]
	}

	e.node = node.New(e.selfKey, e.members, settings.Slots, comm, e.log, rngOrDefault(rng))

	if head.PreviousID == config.GenesisBlockID {
		e.log.Info("genesis block detected")
	} else {
		e.log.Info("non-genesis block detected, waiting for bootstrap")
		e.node.State = node.StateWaitingForBootstrap
	}

	e.cache = blockcache.New(func(id host.BlockID) {
		if err := e.service.IgnoreBlock(id); err != nil {
			e.log.Debug("ignore evicted block failed", zap.String("block_id", id), zap.Error(err))
		}
	})
	e.cache.Append(head)
	e.preID, e.preNum = head.BlockID, head.BlockNum

	now := time.Now()
	e.engineStart = now
	e.slotStartedAt = now
	e.lastBootstrapRequest = now
	e.lastForkBootstrapRequest = now

	e.log.Info("chain head at startup",
		zap.String("block_id", head.BlockID), zap.Uint64("block_num", head.BlockNum))
	e.log.Debug("members", zap.Strings("members", e.members))

	return nil
}

// Stop requests the driver loop exit at its next iteration.
func (e *Engine) Stop() {
	e.exit = true
}

func (e *Engine) isMember(key types.Key) bool {
	for _, m := range e.members {
		if m == key {
			return true
		}
	}
	return false
}

func (e *Engine) waiting() bool {
	return e.waitingForOwnBlock || e.waitingForValidation > 0 || e.waitingForCommit > 0
}

func (e *Engine) updateMetrics() {
	e.metrics.SetEpochNumber(e.node.Epoch.Number)
	e.metrics.SetCurrentWitnessIdx(e.node.Epoch.CurrentWitnessIdx)
	for peer, score := range e.node.PeerScores() {
		e.metrics.SetPeerScore(peer, score)
	}
}

func (e *Engine) String() string {
	return fmt.Sprintf("Engine(self=%s, members=%d)", e.selfKey, len(e.members))
}
