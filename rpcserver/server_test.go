// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rpcserver

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/hub/comm/proto"
	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/store"
	"github.com/hubsync/hub/syncid"
	"github.com/hubsync/hub/trie"
)

func newTestServer(t *testing.T) (*Server, *store.MemStore, *trie.MerkleTrie) {
	t.Helper()
	ms := store.NewMemStore()
	tr := trie.New()
	return New(tr, ms), ms, tr
}

func mustMergeMessage(t *testing.T, ms *store.MemStore, tr *trie.MerkleTrie, m fc.SimpleMessage) {
	t.Helper()
	ms.SeedKnownUser(m.FidValue)
	require.NoError(t, ms.MergeMessage(context.Background(), m, store.SourceSync))
	id, err := syncid.FromMessage(m)
	require.NoError(t, err)
	tr.Insert(id)
}

func TestGetSyncMetadataByPrefix(t *testing.T) {
	srv, ms, tr := newTestServer(t)
	mustMergeMessage(t, ms, tr, fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("h1"), TimestampValue: 100})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	md, err := client.GetSyncMetadataByPrefix(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, md.NumMessages)
	assert.Equal(t, tr.RootHash(), md.Hash)
}

func TestGetSyncIdsByPrefix(t *testing.T) {
	srv, ms, tr := newTestServer(t)
	mustMergeMessage(t, ms, tr, fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("h1"), TimestampValue: 100})
	mustMergeMessage(t, ms, tr, fc.SimpleMessage{FidValue: 2, TypeValue: fc.MessageTypeCast, HashValue: []byte("h2"), TimestampValue: 200})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	ids, err := client.GetSyncIdsByPrefix(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestGetMessagesByHashes(t *testing.T) {
	srv, ms, tr := newTestServer(t)
	m1 := fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("h1"), TimestampValue: 100}
	mustMergeMessage(t, ms, tr, m1)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// GetSyncIdsByPrefix answers with full SyncIds (timestamp prefix +
	// hash), and that's what a real caller feeds back into
	// GetMessagesByHashes, so the request here must carry the same shape
	// rather than a bare message hash.
	id1, err := syncid.FromMessage(m1)
	require.NoError(t, err)
	unknownID, err := syncid.FromMessage(fc.SimpleMessage{FidValue: 1, TypeValue: fc.MessageTypeCast, HashValue: []byte("nope"), TimestampValue: 100})
	require.NoError(t, err)

	client := NewClient(ts.URL)
	msgs, err := client.GetMessagesByHashes(context.Background(), []string{proto.HexBytes(id1.Bytes()), proto.HexBytes(unknownID.Bytes())})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, fc.FID(1), msgs[0].FID())
	assert.Equal(t, []byte("h1"), msgs[0].Hash())
}

func TestGetCustodyEventByUser(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ms.SeedKnownUser(fc.FID(42))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	ev, err := client.GetCustodyEventByUser(context.Background(), fc.FID(42))
	require.NoError(t, err)
	assert.Equal(t, fc.FID(42), ev.FID())
}

func TestGetCustodyEventByUser_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.GetCustodyEventByUser(context.Background(), fc.FID(99))
	assert.Error(t, err)
}

func TestGetAllSignerMessagesByUser(t *testing.T) {
	srv, ms, tr := newTestServer(t)
	mustMergeMessage(t, ms, tr, fc.SimpleMessage{FidValue: 5, TypeValue: fc.MessageTypeSignerAdd, HashValue: []byte("s1"), TimestampValue: 100})
	mustMergeMessage(t, ms, tr, fc.SimpleMessage{FidValue: 5, TypeValue: fc.MessageTypeCast, HashValue: []byte("c1"), TimestampValue: 100})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	msgs, err := client.GetAllSignerMessagesByUser(context.Background(), fc.FID(5))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, fc.MessageTypeSignerAdd, msgs[0].Type())
}

func TestHandleGetMessagesByFID_UnknownType(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/fid/5/bogus", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}

func TestHandleGetMessagesByFID_BadFID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/fid/not-a-number/casts", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}
