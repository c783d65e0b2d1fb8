// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package syncid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/hub/fc"
)

type fakeMessage struct {
	fid  uint64
	ts   uint32
	hash []byte
}

func (m fakeMessage) FID() fc.FID               { return fc.FID(m.fid) }
func (m fakeMessage) Type() fc.MessageType       { return fc.MessageTypeCast }
func (m fakeMessage) Hash() []byte               { return m.hash }
func (m fakeMessage) Timestamp() uint32          { return m.ts }

func TestFromMessage(t *testing.T) {
	id, err := FromMessage(fakeMessage{ts: 1000, hash: []byte("ab")})
	require.NoError(t, err)
	assert.Equal(t, ID("0000001000ab"), id)
	assert.Equal(t, []byte("ab"), id.Hash())
}

func TestFromMessageBadInput(t *testing.T) {
	_, err := FromMessage(nil)
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = FromMessage(fakeMessage{ts: 1000, hash: nil})
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestTimestampPrefix(t *testing.T) {
	id, err := FromMessage(fakeMessage{ts: 1000, hash: []byte("ab")})
	require.NoError(t, err)
	assert.Equal(t, []byte("00000010"), TimestampPrefix(id, 8))
	assert.Equal(t, id.Bytes(), TimestampPrefix(id, 100))
}
