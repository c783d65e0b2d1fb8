// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proto defines the wire types exchanged between a sync engine and
// a remote peer's RPC surface (§4.5/§6): JSON projections of the trie and
// storage-engine types, with every hash and prefix carried as a 0x-prefixed
// hex string rather than raw bytes.
package proto

import (
	"encoding/hex"
	"sort"

	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/trie"
)

// HexBytes encodes b as a 0x-prefixed lowercase hex string.
func HexBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// ParseHexBytes decodes a 0x-prefixed (or bare) hex string back to bytes.
func ParseHexBytes(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

// ChildMetadataResponse is the wire projection of trie.ChildMetadata.
type ChildMetadataResponse struct {
	Prefix      string `json:"prefix"`
	NumMessages int    `json:"numMessages"`
	Hash        string `json:"hash"`
}

// NodeMetadataResponse is the wire projection of trie.NodeMetadata returned
// by get_sync_metadata_by_prefix.
type NodeMetadataResponse struct {
	Prefix      string                           `json:"prefix"`
	NumMessages int                              `json:"numMessages"`
	Hash        string                           `json:"hash"`
	Children    map[string]ChildMetadataResponse `json:"children"`
}

// NewNodeMetadataResponse projects md onto its wire form.
func NewNodeMetadataResponse(md trie.NodeMetadata) NodeMetadataResponse {
	resp := NodeMetadataResponse{
		Prefix:      HexBytes(md.Prefix),
		NumMessages: md.NumMessages,
		Hash:        md.Hash,
		Children:    make(map[string]ChildMetadataResponse, len(md.Children)),
	}
	for b, child := range md.Children {
		resp.Children[HexBytes([]byte{b})] = ChildMetadataResponse{
			Prefix:      HexBytes(child.Prefix),
			NumMessages: child.NumMessages,
			Hash:        child.Hash,
		}
	}
	return resp
}

// NodeMetadata reconstructs a trie.NodeMetadata from its wire form.
func (r NodeMetadataResponse) NodeMetadata() (trie.NodeMetadata, error) {
	prefix, err := ParseHexBytes(r.Prefix)
	if err != nil {
		return trie.NodeMetadata{}, err
	}
	md := trie.NodeMetadata{
		Prefix:      prefix,
		NumMessages: r.NumMessages,
		Hash:        r.Hash,
		Children:    make(map[byte]trie.ChildMetadata, len(r.Children)),
	}
	for key, child := range r.Children {
		kb, err := ParseHexBytes(key)
		if err != nil || len(kb) != 1 {
			continue
		}
		childPrefix, err := ParseHexBytes(child.Prefix)
		if err != nil {
			return trie.NodeMetadata{}, err
		}
		md.Children[kb[0]] = trie.ChildMetadata{
			Prefix:      childPrefix,
			NumMessages: child.NumMessages,
			Hash:        child.Hash,
		}
	}
	return md, nil
}

// SyncIdsResponse carries the answer to get_sync_ids_by_prefix.
type SyncIdsResponse struct {
	Ids []string `json:"ids"`
}

// SortedIds returns a defensive, sorted copy of Ids, used by tests that
// don't want to depend on wire ordering.
func (r SyncIdsResponse) SortedIds() []string {
	out := append([]string(nil), r.Ids...)
	sort.Strings(out)
	return out
}

// MessagesResponse carries the answer to get_messages_by_hashes and
// get_all_signer_messages_by_user.
type MessagesResponse struct {
	Messages []fc.SimpleMessage `json:"messages"`
}

// CustodyEventResponse carries the answer to get_custody_event_by_user.
// Event is nil when the wire round-trips a peer's "not found" response as
// plain JSON null rather than an error status; the reference rpcserver
// instead answers a missing custody event with a 404 status, so this is
// normally populated.
type CustodyEventResponse struct {
	Event *fc.SimpleIDRegistryEvent `json:"event"`
}
