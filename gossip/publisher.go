// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gossip

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/hubsync/hub/co"
)

var logger = log.New("pkg", "gossip")

// RecordFunc produces the ContactRecord to publish at each tick; called
// fresh every interval so Count and ExcludedHashes always reflect current
// state.
type RecordFunc func() ContactRecord

// Publish starts a background loop that republishes the result of record
// every ContactInterval until stopped via the returned *co.Choes's Stop.
func Publish(pub Publisher, record RecordFunc) *co.Choes {
	return publishEvery(pub, record, ContactInterval*time.Millisecond)
}

func publishEvery(pub Publisher, record RecordFunc, interval time.Duration) *co.Choes {
	c := co.NewChoes()
	c.Go(func(stop chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				env, err := NewContactEnvelope(record())
				if err != nil {
					logger.Warn("encode contact record", "err", err)
					continue
				}
				if err := pub.Publish(TopicContact, env); err != nil {
					logger.Debug("publish contact record", "err", err)
				}
			}
		}
	})
	return c
}
