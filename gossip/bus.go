// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gossip

import "sync"

// Publisher sends an already-framed Envelope on topic. Transport-agnostic:
// a real deployment backs this with a pubsub network; tests and the
// single-process demo entrypoint use Bus below.
type Publisher interface {
	Publish(topic string, env Envelope) error
}

// Subscriber hands every Envelope published on topic to fn, until the
// returned unsubscribe function is called.
type Subscriber interface {
	Subscribe(topic string, fn func(Envelope)) (unsubscribe func())
}

// Bus is an in-process Publisher+Subscriber, the reference transport used
// by the demo entrypoint and by tests that exercise more than one
// Communicator without a real network.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]func(Envelope)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]func(Envelope))}
}

// Publish fans env out, synchronously, to every subscriber of topic.
func (b *Bus) Publish(topic string, env Envelope) error {
	b.mu.Lock()
	fns := append([]func(Envelope){}, b.subs[topic]...)
	b.mu.Unlock()

	for _, fn := range fns {
		if fn != nil {
			fn(env)
		}
	}
	return nil
}

// Subscribe registers fn for topic. The returned function removes it.
func (b *Bus) Subscribe(topic string, fn func(Envelope)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[topic] = append(b.subs[topic], fn)
	idx := len(b.subs[topic]) - 1

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		fns := b.subs[topic]
		if idx < len(fns) {
			fns[idx] = nil
		}
	}
}
