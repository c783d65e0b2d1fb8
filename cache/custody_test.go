package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/hub/cache"
	"github.com/hubsync/hub/fc"
)

type fakeCustodyEvent struct{ fid fc.FID }

func (e fakeCustodyEvent) FID() fc.FID { return e.fid }

func TestCustodyCacheFetchesOnce(t *testing.T) {
	c := cache.NewCustodyCache(16)
	calls := 0

	fetch := func(fid fc.FID) (fc.IdRegistryEvent, error) {
		calls++
		return fakeCustodyEvent{fid: fid}, nil
	}

	ev, err := c.GetOrFetch(fc.FID(7), fetch)
	require.NoError(t, err)
	assert.Equal(t, fc.FID(7), ev.FID())

	ev2, err := c.GetOrFetch(fc.FID(7), fetch)
	require.NoError(t, err)
	assert.Equal(t, fc.FID(7), ev2.FID())
	assert.Equal(t, 1, calls)
}

func TestCustodyCacheRemove(t *testing.T) {
	c := cache.NewCustodyCache(16)
	calls := 0
	fetch := func(fid fc.FID) (fc.IdRegistryEvent, error) {
		calls++
		return fakeCustodyEvent{fid: fid}, nil
	}

	_, err := c.GetOrFetch(fc.FID(1), fetch)
	require.NoError(t, err)
	c.Remove(fc.FID(1))
	_, err = c.GetOrFetch(fc.FID(1), fetch)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}
