// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"github.com/hubsync/hub/fc"
)

// CustodyCache remembers custody events fetched from a peer while
// recovering from ErrUnknownUser, so a burst of messages for the same FID
// triggers at most one GetCustodyEventByUser round trip.
type CustodyCache struct {
	lru *LRU
}

// NewCustodyCache creates a custody event cache holding up to maxSize
// entries.
func NewCustodyCache(maxSize int) *CustodyCache {
	return &CustodyCache{lru: NewLRU(maxSize)}
}

// GetOrFetch returns the cached custody event for fid, fetching it via
// fetch on a miss and caching the result.
func (c *CustodyCache) GetOrFetch(fid fc.FID, fetch func(fc.FID) (fc.IdRegistryEvent, error)) (fc.IdRegistryEvent, error) {
	v, err := c.lru.GetOrLoad(fid, func(key interface{}) (interface{}, error) {
		return fetch(key.(fc.FID))
	})
	if err != nil {
		return nil, err
	}
	return v.(fc.IdRegistryEvent), nil
}

// Remove evicts any cached custody event for fid, used when merging that
// event failed so the next recovery attempt fetches it afresh instead of
// reusing the cached copy.
func (c *CustodyCache) Remove(fid fc.FID) {
	c.lru.Remove(fid)
}
