// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package leveldbstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/store"
	"github.com/hubsync/hub/store/leveldbstore"
)

func openTestStore(t *testing.T) *leveldbstore.Store {
	t.Helper()
	s, err := leveldbstore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLevelDBMergeMessageUnknownUser(t *testing.T) {
	s := openTestStore(t)
	msg := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("aa"), TimestampValue: 100}

	err := s.MergeMessage(context.Background(), msg, store.SourceSync)
	assert.ErrorIs(t, err, store.ErrUnknownUser)
}

func TestLevelDBMergeAndFetchMessage(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.MergeIDRegistryEvent(context.Background(), fc.SimpleIDRegistryEvent{FidValue: 1}, store.SourceSync))

	msg := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("aa"), TimestampValue: 100}
	require.NoError(t, s.MergeMessage(context.Background(), msg, store.SourceSync))

	got, err := s.GetMessagesByHashes(context.Background(), [][]byte{[]byte("aa"), []byte("missing")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, msg.HashValue, got[0].Hash())
}

func TestLevelDBCustodyEventRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetCustodyEvent(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.MergeIDRegistryEvent(context.Background(), fc.SimpleIDRegistryEvent{FidValue: 7}, store.SourceSync))

	ev, ok, err := s.GetCustodyEvent(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fc.FID(7), ev.FID())
}

func TestLevelDBForEachMessage(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.MergeIDRegistryEvent(context.Background(), fc.SimpleIDRegistryEvent{FidValue: 1}, store.SourceSync))

	msg1 := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("aa"), TimestampValue: 100}
	msg2 := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("bb"), TimestampValue: 101}
	require.NoError(t, s.MergeMessage(context.Background(), msg1, store.SourceSync))
	require.NoError(t, s.MergeMessage(context.Background(), msg2, store.SourceSync))

	var seen int
	err := s.ForEachMessage(context.Background(), func(fc.Message) error {
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestLevelDBGetMessagesByFID(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.MergeIDRegistryEvent(context.Background(), fc.SimpleIDRegistryEvent{FidValue: 1}, store.SourceSync))

	cast := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("aa"), TimestampValue: 100}
	signer := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeSignerAdd, HashValue: []byte("bb"), TimestampValue: 101}
	require.NoError(t, s.MergeMessage(context.Background(), cast, store.SourceSync))
	require.NoError(t, s.MergeMessage(context.Background(), signer, store.SourceSync))

	signers, err := s.GetMessagesByFID(context.Background(), 1, fc.MessageTypeSignerAdd)
	require.NoError(t, err)
	require.Len(t, signers, 1)
	assert.Equal(t, signer.HashValue, signers[0].Hash())
}
