// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"encoding/hex"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // 160-bit digest, matches the spec's commitment width exactly.
)

// digest computes the node's content hash: a lowercase-hex 160-bit digest
// over the concatenated input. Any collision-resistant 160-bit function is
// spec-conformant as long as every node in the network agrees; ripemd160
// gives us that width directly instead of truncating a wider hash.
func digest(data []byte) string {
	h := ripemd160.New()
	h.Write(data) //nolint:errcheck // hash.Hash.Write never errors.
	return hex.EncodeToString(h.Sum(nil))
}
