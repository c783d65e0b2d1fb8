// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gossip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var received []Envelope
	bus.Subscribe(TopicContact, func(env Envelope) {
		received = append(received, env)
	})

	env, err := NewContactEnvelope(ContactRecord{PeerID: "peer-1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(TopicContact, env))

	require.Len(t, received, 1)
	assert.Equal(t, env, received[0])
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe(TopicContact, func(Envelope) { calls++ })
	unsub()

	env, err := NewContactEnvelope(ContactRecord{PeerID: "peer-1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(TopicContact, env))

	assert.Equal(t, 0, calls)
}

func TestBusTopicsAreIndependent(t *testing.T) {
	bus := NewBus()

	contactCalls, primaryCalls := 0, 0
	bus.Subscribe(TopicContact, func(Envelope) { contactCalls++ })
	bus.Subscribe(TopicPrimary, func(Envelope) { primaryCalls++ })

	env, err := NewContactEnvelope(ContactRecord{PeerID: "peer-1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(TopicContact, env))

	assert.Equal(t, 1, contactCalls)
	assert.Equal(t, 0, primaryCalls)
}
