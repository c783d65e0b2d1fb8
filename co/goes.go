// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co collects the small concurrency helpers the sync engine uses
// to run its background loops: a WaitGroup-like goroutine tracker, a
// broadcast signal and a bounded parallel-queue runner.
package co

import "sync"

// Goes tracks a set of goroutines so callers can Wait for all of them to
// return, e.g. during an orderly shutdown.
type Goes struct {
	wg       sync.WaitGroup
	initOnce sync.Once
	closeOnce sync.Once
	done     chan struct{}
}

func (g *Goes) initDone() {
	g.initOnce.Do(func() {
		g.done = make(chan struct{})
	})
}

// Go starts f in a new goroutine tracked by g.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait blocks until every goroutine started via Go has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
	g.initDone()
	g.closeOnce.Do(func() { close(g.done) })
}

// Done returns a channel that is closed once Wait has observed every
// goroutine finish.
func (g *Goes) Done() <-chan struct{} {
	g.initDone()
	return g.done
}
