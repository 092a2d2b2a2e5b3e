// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package blockcache holds a short, insertion-ordered ring of the most
// recently seen blocks, used by the engine driver for fork detection and
// chain traversal during catch-up.
package blockcache

import (
	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/host"
)

// Cache is a bounded, insertion-ordered map of the config.BlockCacheSize
// most recent blocks by id. It is not safe for concurrent use; the driver
// loop is its sole mutator.
type Cache struct {
	blocks map[host.BlockID]host.Block
	order  []host.BlockID

	onEvict func(host.BlockID)
}

// New returns an empty Cache. onEvict is called with the id of any block
// pushed out by Append once the cache is full, so the caller can tell the
// host runtime it no longer needs to be kept around.
func New(onEvict func(host.BlockID)) *Cache {
	return &Cache{
		blocks:  make(map[host.BlockID]host.Block),
		onEvict: onEvict,
	}
}

// Append inserts block, evicting the oldest entry (strictly FIFO by
// insertion order) if the cache is now over config.BlockCacheSize.
func (c *Cache) Append(block host.Block) {
	if _, exists := c.blocks[block.BlockID]; !exists {
		c.order = append(c.order, block.BlockID)
	}
	c.blocks[block.BlockID] = block

	if len(c.order) > config.BlockCacheSize {
		evicted := c.order[0]
		c.order = c.order[1:]
		delete(c.blocks, evicted)
		if c.onEvict != nil {
			c.onEvict(evicted)
		}
	}
}

// BlockFromID returns the cached block for id, if any.
func (c *Cache) BlockFromID(id host.BlockID) (host.Block, bool) {
	b, ok := c.blocks[id]
	return b, ok
}

// Contains reports whether id is currently cached.
func (c *Cache) Contains(id host.BlockID) bool {
	_, ok := c.blocks[id]
	return ok
}

// BlockByNumAndSigner returns the cached block with the given number and
// signer, if any is present.
func (c *Cache) BlockByNumAndSigner(num uint64, signer string) (host.Block, bool) {
	for _, b := range c.blocks {
		if b.BlockNum == num && b.SignerID == signer {
			return b, true
		}
	}
	return host.Block{}, false
}

// Traversable reports whether toID is reachable from fromID by following
// PreviousID links through cached blocks. toID itself need not be cached:
// the walk also succeeds when it leaves the cache exactly at toID.
func (c *Cache) Traversable(fromID, toID host.BlockID) bool {
	prev := fromID
	for {
		cur, ok := c.blocks[prev]
		if !ok {
			return prev == toID
		}
		if cur.BlockID == toID {
			return true
		}
		prev = cur.PreviousID
	}
}

// Path returns the block ids from fromID back to (but not including)
// toID, oldest first — the sequence check_blocks should validate in
// order to walk from toID up to fromID. fromID must be cached and toID
// must be reachable from it via Traversable.
func (c *Cache) Path(fromID, toID host.BlockID) []host.BlockID {
	var ids []host.BlockID
	cur := c.blocks[fromID]
	for cur.PreviousID != toID {
		ids = append(ids, cur.BlockID)
		cur = c.blocks[cur.PreviousID]
	}
	ids = append(ids, cur.BlockID)

	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// LongestChain returns the longest run of cached blocks reachable from
// fromID by walking PreviousID links, oldest first.
func (c *Cache) LongestChain(fromID host.BlockID) []host.BlockID {
	ids := []host.BlockID{fromID}
	cur := c.blocks[fromID]
	for {
		next, ok := c.blocks[cur.PreviousID]
		if !ok {
			break
		}
		ids = append(ids, next.BlockID)
		cur = next
	}

	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}
