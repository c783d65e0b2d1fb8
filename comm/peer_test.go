// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubsync/hub/peerclient"
)

func makePeerWithScore(id string, score uint64) *Peer {
	p := newPeer(id, nil)
	p.score = score
	return p
}

func TestPeerSetWithBestScore(t *testing.T) {
	peer1 := makePeerWithScore("peer-1", 100)
	peer2 := makePeerWithScore("peer-2", 200)
	peer3 := makePeerWithScore("peer-3", 150)

	set := newPeerSet()
	set.m["peer-1"] = peer1
	set.m["peer-2"] = peer2
	set.m["peer-3"] = peer3

	best, score := set.WithBestScore()
	assert.NotNil(t, best)
	assert.Equal(t, "peer-2", best.ID())
	assert.Equal(t, uint64(200), score)
}

func TestPeerSetWithBestScoreEmpty(t *testing.T) {
	set := newPeerSet()
	best, score := set.WithBestScore()
	assert.Nil(t, best)
	assert.Equal(t, uint64(0), score)
}

func TestPeerTouchBumpsScoreAndTracksAdvertisement(t *testing.T) {
	p := newPeer("peer-1", nil)
	assert.Equal(t, uint64(0), p.Score())

	p.touch("127.0.0.1:3000", "127.0.0.1:3001", []string{"aa", "bb"})
	assert.Equal(t, uint64(1), p.Score())
	assert.Equal(t, []string{"aa", "bb"}, p.ExcludedHashes())

	p.touch("", "", []string{"cc"})
	assert.Equal(t, uint64(2), p.Score())
	assert.Equal(t, []string{"cc"}, p.ExcludedHashes())
}

func TestPeerSetGetOrCreate(t *testing.T) {
	set := newPeerSet()
	created := 0
	newClient := func() peerclient.Client { created++; return nil }

	p1 := set.getOrCreate("peer-1", newClient)
	p2 := set.getOrCreate("peer-1", newClient)

	assert.Same(t, p1, p2)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, set.Len())
}
