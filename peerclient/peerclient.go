// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package peerclient states the RPC surface the sync engine consumes from
// a remote hub. The wire format and transport are supplied by package
// rpcserver; this package owns only the contract and its domain errors.
package peerclient

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/trie"
)

// ErrNetworkFailure tags any RPC failure talking to a peer.
var ErrNetworkFailure = errors.New("unavailable.network_failure")

// Client is the capability set the sync engine needs from a remote hub.
// Implementations wrap whatever transport is in play (HTTP in this repo's
// reference rpcserver package); every method returns ErrNetworkFailure, or
// an error wrapping it, on transport/remote failure. Implementations must
// be safe for concurrent use: FetchMissingHashesByNode calls a Client
// concurrently across diverging sibling subtrees.
type Client interface {
	// GetSyncMetadataByPrefix fetches the peer's trie metadata rooted at
	// prefix.
	GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (trie.NodeMetadata, error)

	// GetSyncIdsByPrefix fetches every SyncId (hex, 0x-prefixed) the peer
	// holds under prefix.
	GetSyncIdsByPrefix(ctx context.Context, prefix []byte) ([]string, error)

	// GetMessagesByHashes fetches the messages behind the given SyncId
	// hex strings.
	GetMessagesByHashes(ctx context.Context, hashes []string) ([]fc.Message, error)

	// GetCustodyEventByUser fetches fid's on-chain custody event.
	GetCustodyEventByUser(ctx context.Context, fid fc.FID) (fc.IdRegistryEvent, error)

	// GetAllSignerMessagesByUser fetches every signer message fid has
	// published.
	GetAllSignerMessagesByUser(ctx context.Context, fid fc.FID) ([]fc.Message, error)
}
