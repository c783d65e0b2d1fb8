// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubsync/hub/syncid"
)

// Property 5: two tries holding the same set yield byte-identical
// excludedHashes at the same timestamp prefix.
func TestSnapshotAgreement(t *testing.T) {
	ids := []string{"0000001000ab", "0000001000cd", "0000001001ef"}

	a, b := New(), New()
	for _, id := range ids {
		a.Insert(syncIDOf(id))
		b.Insert(syncIDOf(id))
	}

	prefix := []byte("000000100")
	sa := a.GetSnapshot(prefix)
	sb := b.GetSnapshot(prefix)

	assert.Equal(t, sa.ExcludedHashes, sb.ExcludedHashes)
	assert.Equal(t, sa.NumMessages, sb.NumMessages)
}

// Divergence policy: when the first position already differs, the
// divergence prefix is empty.
func TestDivergencePrefixEmptyOnImmediateMismatch(t *testing.T) {
	a, b := New(), New()
	// a has siblings '1' and '2' at the root; b has only '1'. Excluding the
	// on-path byte '1' from each leaves a's hash non-trivial (sibling '2'
	// remains) while b's is the empty digest: they differ at position 0.
	a.Insert(syncIDOf("1000000000aa"))
	a.Insert(syncIDOf("2000000000bb"))
	b.Insert(syncIDOf("1000000000aa"))

	prefix := []byte("1")
	snap := a.GetSnapshot(prefix)

	div := b.GetDivergencePrefix(prefix, snap.ExcludedHashes)
	assert.Empty(t, div)
}

// Divergence policy: when every position agrees, the divergence prefix is
// the full prefix (the peer is ahead only in the still-settling segment).
func TestDivergencePrefixFullOnAgreement(t *testing.T) {
	a, b := New(), New()
	for _, id := range []string{"0000001000ab", "0000001000cd"} {
		a.Insert(syncIDOf(id))
		b.Insert(syncIDOf(id))
	}
	// b is ahead by a message whose prefix extends beyond the snapshot
	// boundary; the settled portion still agrees exactly.
	b.Insert(syncIDOf("0000001002zz"))

	prefix := []byte("000000100")
	snap := a.GetSnapshot(prefix)

	div := b.GetDivergencePrefix(prefix, snap.ExcludedHashes)
	assert.Equal(t, prefix, div)
}

// Property 6: divergence bound — if two tries differ only beneath a
// prefix p, the divergence prefix found is itself a prefix of p.
func TestDivergenceBound(t *testing.T) {
	a, b := New(), New()
	for _, id := range []string{"0000001000ab", "0000002000cd"} {
		a.Insert(syncIDOf(id))
		b.Insert(syncIDOf(id))
	}
	// diverge only beneath "00000010"
	a.Insert(syncIDOf("0000001099xx"))
	b.Insert(syncIDOf("0000001099yy"))

	p := []byte("00000010")
	snap := a.GetSnapshot(p)
	div := b.GetDivergencePrefix(p, snap.ExcludedHashes)

	assert.True(t, len(div) <= len(p))
	assert.Equal(t, p[:len(div)], div)
}

func syncIDOf(s string) syncid.ID { return syncid.ID(s) }
