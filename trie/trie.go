// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"sync"

	"github.com/hubsync/hub/syncid"
)

// MerkleTrie owns a single root node and exposes the operations the sync
// engine needs: insert/delete/lookup, metadata-by-prefix, snapshot and
// divergence-prefix. It is mutated by the sync engine's event subscriber
// and read concurrently by sync rounds and the RPC server (see packages comm
// and rpcserver); the mutex serialises those writes against the reads.
type MerkleTrie struct {
	mu   sync.RWMutex
	root *node
}

// New returns an empty trie.
func New() *MerkleTrie {
	return &MerkleTrie{root: newNode()}
}

// Insert adds id to the trie. Inserting an id already present is a no-op.
func (t *MerkleTrie) Insert(id syncid.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root.insert(id, 0)
}

// Delete removes id from the trie. Deleting an absent id is a no-op.
func (t *MerkleTrie) Delete(id syncid.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root.delete(id, 0)
}

// Exists reports whether id is present.
func (t *MerkleTrie) Exists(id syncid.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.exists(id, 0)
}

// RootHash is the content hash of the whole trie.
func (t *MerkleTrie) RootHash() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.hash
}

// Items is the total number of SyncIds in the trie.
func (t *MerkleTrie) Items() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.items
}

// GetAllValues returns every SyncId under prefix in ascending order.
func (t *MerkleTrie) GetAllValues(prefix []byte) []syncid.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root.getNode(prefix, 0)
	if n == nil {
		return nil
	}
	var out []syncid.ID
	n.getAllValues(&out)
	return out
}

// GetTrieNodeMetadata returns the metadata of the subtree rooted at prefix,
// or, when prefix is unknown, metadata carrying that prefix with
// NumMessages 0, no children and the empty-input digest as its hash — reads
// are total, never erroring.
func (t *MerkleTrie) GetTrieNodeMetadata(prefix []byte) NodeMetadata {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root.getNode(prefix, 0)
	return metadataOf(n, prefix)
}

// GetSnapshot walks the root along each byte of timestampPrefix, recording
// at each step the hash of the current node with the on-path child
// excluded. The returned Snapshot's NumMessages is the item count at the
// node reached by following the full prefix (0 if the path runs out).
func (t *MerkleTrie) GetSnapshot(timestampPrefix []byte) Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	excluded := make([]string, len(timestampPrefix))
	cur := t.root
	for i, b := range timestampPrefix {
		excluded[i] = cur.hashExcluding(b)
		cur = cur.child(b)
	}

	numMessages := 0
	if cur != nil {
		numMessages = cur.items
	}

	return Snapshot{
		Prefix:         append([]byte(nil), timestampPrefix...),
		NumMessages:    numMessages,
		ExcludedHashes: excluded,
	}
}

// GetDivergencePrefix compares our snapshot (taken at ourPrefix) against a
// peer's excludedHashes and returns the longest prefix of ourPrefix for
// which the two excluded-hash lists agree position-by-position. If the two
// lists differ in length, comparison is truncated to the shorter one.
func (t *MerkleTrie) GetDivergencePrefix(ourPrefix []byte, theirExcludedHashes []string) []byte {
	our := t.GetSnapshot(ourPrefix)
	n := len(our.ExcludedHashes)
	if len(theirExcludedHashes) < n {
		n = len(theirExcludedHashes)
	}

	agree := 0
	for agree < n && our.ExcludedHashes[agree] == theirExcludedHashes[agree] {
		agree++
	}
	if agree > len(ourPrefix) {
		agree = len(ourPrefix)
	}
	return append([]byte(nil), ourPrefix[:agree]...)
}
