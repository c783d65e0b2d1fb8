// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"github.com/hubsync/hub/fc"
)

// MessageCache remembers messages already fetched from a peer this sync
// round, keyed by their raw message hash, so that when the same hash turns
// up under more than one diverging trie prefix it is only ever fetched
// once.
type MessageCache struct {
	lru *LRU
}

// NewMessageCache creates a message cache holding up to maxSize entries.
func NewMessageCache(maxSize int) *MessageCache {
	return &MessageCache{lru: NewLRU(maxSize)}
}

// Get returns the cached message for hash, if present.
func (c *MessageCache) Get(hash string) (fc.Message, bool) {
	v, ok := c.lru.Get(hash)
	if !ok {
		return nil, false
	}
	return v.(fc.Message), true
}

// Put primes the cache with a message just fetched, keyed by its raw
// message hash.
func (c *MessageCache) Put(hash string, m fc.Message) {
	c.lru.Add(hash, m)
}
