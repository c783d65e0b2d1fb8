// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package comm owns the two pieces of the sync core that talk to the
// outside world: the Communicator, which tracks gossip-advertised peers and
// decides who to reconcile with, and the SyncEngine (§4.4), which owns the
// MerkleTrie and drives one reconciliation round against a chosen peer.
package comm

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("pkg", "comm")

// sameMajor reports whether peerName's advertised protocol version shares
// appVersion's major component. An empty or unparsable appVersion accepts
// any peer: we'd rather sync with something than refuse out of caution
// over our own malformed version string. peerName is the gossip-advertised
// identifier, of the form "<agent>/v<major>.<minor>.<patch>-<rest>".
func sameMajor(appVersion, peerName string) bool {
	if appVersion == "" {
		return true
	}
	appMajor, err := majorOf(appVersion)
	if err != nil {
		return true
	}
	peerVersion := versionFromPeerName(peerName)
	if peerVersion == "" {
		return true
	}
	peerMajor, err := majorOf(peerVersion)
	if err != nil {
		return true
	}
	return appMajor == peerMajor
}

// majorOf extracts the leading integer component of a dotted version
// string such as "2.1.1".
func majorOf(version string) (int, error) {
	parts := strings.SplitN(version, ".", 2)
	return strconv.Atoi(parts[0])
}

// versionFromPeerName extracts the "2.1.1" out of
// "hub/v2.1.1-88c7c86-release/linux/go1.21.9", or "" if the name doesn't
// carry a recognizable "/v<version>" segment.
func versionFromPeerName(peerName string) string {
	idx := strings.Index(peerName, "/v")
	if idx == -1 {
		return ""
	}
	rest := peerName[idx+2:]
	if dash := strings.IndexByte(rest, '-'); dash >= 0 {
		rest = rest[:dash]
	}
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}
