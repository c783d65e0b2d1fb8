// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package syncid builds the timestamp-prefixed trie key the sync core
// indexes every message under.
package syncid

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hubsync/hub/fc"
)

// TimestampLen is the width, in ASCII bytes, of the decimal timestamp
// prefix carried by every SyncId.
const TimestampLen = 10

// ID is a SyncId: a 10-byte zero-padded decimal ASCII timestamp followed by
// the message's raw hash. It sorts lexicographically in (timestamp, hash)
// order, which is exactly the order the trie needs.
type ID string

// ErrBadInput is returned when a message cannot yield a well-formed SyncId.
var ErrBadInput = errors.New("bad_input: message missing timestamp or hash")

// FromMessage derives the SyncId for m.
func FromMessage(m fc.Message) (ID, error) {
	if m == nil {
		return "", ErrBadInput
	}
	h := m.Hash()
	if len(h) == 0 {
		return "", ErrBadInput
	}
	return ID(formatTimestamp(m.Timestamp()) + string(h)), nil
}

// Must is FromMessage for callers that have already validated m elsewhere
// (e.g. the storage engine, before emitting a messageMerged event).
func Must(m fc.Message) ID {
	id, err := FromMessage(m)
	if err != nil {
		panic(err)
	}
	return id
}

// TimestampPrefix returns the first n bytes of id, clamped to len(id). It is
// used both to build divergence-walk prefixes and to take snapshots at a
// given timestamp boundary.
func TimestampPrefix(id ID, n int) []byte {
	if n > len(id) {
		n = len(id)
	}
	return []byte(id)[:n]
}

// formatTimestamp renders ts as a zero-padded 10-digit ASCII decimal string.
func formatTimestamp(ts uint32) string {
	return fmt.Sprintf("%0*d", TimestampLen, ts)
}

// Hash returns the message-hash suffix of id (everything past the timestamp
// prefix).
func (id ID) Hash() []byte {
	if len(id) <= TimestampLen {
		return nil
	}
	return []byte(id)[TimestampLen:]
}

// Bytes is the raw byte form consumed by the trie.
func (id ID) Bytes() []byte {
	return []byte(id)
}
