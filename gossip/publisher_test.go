// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gossip

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPublisher struct {
	n atomic.Int64
}

func (p *countingPublisher) Publish(topic string, env Envelope) error {
	p.n.Add(1)
	return nil
}

func TestPublishEveryTicksAndStops(t *testing.T) {
	pub := &countingPublisher{}
	count := 0
	record := func() ContactRecord {
		count++
		return ContactRecord{PeerID: "peer-1", Count: count}
	}

	c := publishEvery(pub, record, 5*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	c.Stop()
	c.Wait()

	seenAfterStop := pub.n.Load()
	assert.GreaterOrEqual(t, seenAfterStop, int64(3))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, seenAfterStop, pub.n.Load(), "no more publishes after Stop")
}
