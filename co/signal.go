// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Signal is a broadcast, edge-triggered wakeup: every Waiter created before
// a Broadcast observes it exactly once.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

// Waiter observes one Broadcast.
type Waiter struct {
	ch <-chan struct{}
}

// C returns the channel that closes when the corresponding Broadcast
// fires.
func (w Waiter) C() <-chan struct{} {
	return w.ch
}

// NewWaiter returns a Waiter that fires on the next Broadcast.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return Waiter{ch: s.ch}
}

// Broadcast wakes every outstanding Waiter.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	close(s.ch)
	s.ch = nil
}
