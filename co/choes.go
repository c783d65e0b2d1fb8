// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Choes ("cancellable goes") tracks goroutines that accept a stop channel,
// used for the sync engine's periodic background loops (gossip publishing,
// the should-sync poll) that must unwind cleanly on shutdown instead of
// running to completion like Goes assumes.
type Choes struct {
	wg        sync.WaitGroup
	stopOnce  sync.Once
	stopChan  chan struct{}
}

// NewChoes returns a ready-to-use Choes.
func NewChoes() *Choes {
	return &Choes{stopChan: make(chan struct{})}
}

// Go starts f in a new goroutine, passing it the shared stop channel.
func (c *Choes) Go(f func(stopChan chan struct{})) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		f(c.stopChan)
	}()
}

// Stop closes the stop channel, signalling every running goroutine to
// unwind. Safe to call more than once.
func (c *Choes) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// Wait blocks until every goroutine started via Go has returned.
func (c *Choes) Wait() {
	c.wg.Wait()
}
