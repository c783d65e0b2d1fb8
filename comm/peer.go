// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"sync"

	"github.com/hubsync/hub/peerclient"
)

// Peer is one remote hub known to this Communicator via gossip contact
// records. score orders peers for sync-partner selection: it increases by
// one on every contact record seen from this peer, so the most often
// advertised peer is preferred (recency is not tracked), mirroring the
// teacher's notion of "best head" for choosing a sync partner.
type Peer struct {
	mu sync.Mutex

	id             string
	gossipAddress  string
	rpcAddress     string
	excludedHashes []string
	score          uint64

	client peerclient.Client
}

// newPeer constructs a Peer known by id, talking to it through client.
func newPeer(id string, client peerclient.Client) *Peer {
	return &Peer{id: id, client: client}
}

// ID returns the peer's gossip-advertised identifier.
func (p *Peer) ID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// Score returns the peer's current selection score.
func (p *Peer) Score() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score
}

// ExcludedHashes returns the peer's most recently advertised excluded-hash
// list (see §4.6), used to decide should_sync without a round trip.
func (p *Peer) ExcludedHashes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.excludedHashes...)
}

// touch records a fresh contact record from this peer, bumping its score
// and refreshing its addresses and excluded-hash advertisement.
func (p *Peer) touch(gossipAddress, rpcAddress string, excludedHashes []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.score++
	if gossipAddress != "" {
		p.gossipAddress = gossipAddress
	}
	if rpcAddress != "" {
		p.rpcAddress = rpcAddress
	}
	p.excludedHashes = append([]string(nil), excludedHashes...)
}

// PeerSet tracks every peer currently known via gossip.
type PeerSet struct {
	mu sync.Mutex
	m  map[string]*Peer
}

// newPeerSet returns an empty PeerSet.
func newPeerSet() *PeerSet {
	return &PeerSet{m: map[string]*Peer{}}
}

// getOrCreate returns the existing Peer for id, creating one via newClient
// if this is the first time id has been seen.
func (s *PeerSet) getOrCreate(id string, newClient func() peerclient.Client) *Peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.m[id]; ok {
		return p
	}
	p := newPeer(id, newClient())
	s.m[id] = p
	return p
}

// Len reports how many peers are currently known.
func (s *PeerSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// WithBestScore returns the known peer with the highest score (the most
// often contacted) and its score. Returns (nil, 0) when no peer is
// known yet.
func (s *PeerSet) WithBestScore() (*Peer, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *Peer
	var bestScore uint64
	for _, p := range s.m {
		score := p.Score()
		if best == nil || score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best, bestScore
}
