// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gossip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactEnvelopeRoundTrip(t *testing.T) {
	rec := ContactRecord{
		PeerID:         "peer-1",
		GossipAddress:  "127.0.0.1:3000",
		RPCAddress:     "127.0.0.1:3001",
		ExcludedHashes: []string{"aa", "bb"},
		Count:          5,
	}

	env, err := NewContactEnvelope(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{TopicContact}, env.Topics)

	decoded, err := DecodeContactRecord(env)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestContactEnvelopeOmitsEmptyAddresses(t *testing.T) {
	rec := ContactRecord{PeerID: "peer-1", ExcludedHashes: nil, Count: 0}
	env, err := NewContactEnvelope(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(env.Content), "gossip_address")
	assert.NotContains(t, string(env.Content), "rpc_address")
}
