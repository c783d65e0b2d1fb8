package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/hub/cache"
	"github.com/hubsync/hub/fc"
)

type fakeMessage struct {
	fid  uint64
	ts   uint32
	hash []byte
}

func (m fakeMessage) FID() fc.FID          { return fc.FID(m.fid) }
func (m fakeMessage) Type() fc.MessageType { return fc.MessageTypeCast }
func (m fakeMessage) Hash() []byte         { return m.hash }
func (m fakeMessage) Timestamp() uint32    { return m.ts }

func TestMessageCacheMissThenHit(t *testing.T) {
	c := cache.NewMessageCache(16)

	_, ok := c.Get("ab")
	assert.False(t, ok)

	c.Put("ab", fakeMessage{fid: 1, ts: 1000, hash: []byte("ab")})

	m, ok := c.Get("ab")
	require.True(t, ok)
	assert.Equal(t, []byte("ab"), m.Hash())
}

func TestMessageCachePutOverwrites(t *testing.T) {
	c := cache.NewMessageCache(16)
	c.Put("cd", fakeMessage{fid: 2, ts: 2000, hash: []byte("cd")})
	c.Put("cd", fakeMessage{fid: 3, ts: 3000, hash: []byte("cd")})

	m, ok := c.Get("cd")
	require.True(t, ok)
	assert.Equal(t, fc.FID(3), m.FID())
}

func TestMessageCacheDistinctKeysDoNotCollide(t *testing.T) {
	c := cache.NewMessageCache(16)
	c.Put("ab", fakeMessage{fid: 1, hash: []byte("ab")})
	c.Put("cd", fakeMessage{fid: 2, hash: []byte("cd")})

	m, ok := c.Get("cd")
	require.True(t, ok)
	assert.Equal(t, fc.FID(2), m.FID())
}
