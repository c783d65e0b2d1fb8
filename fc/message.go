// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fc

// SimpleMessage is a concrete, wire-serializable Message. Real hubs carry a
// signed protobuf envelope; this is the minimal concrete shape the sync
// core's reference storage/RPC implementations need to move messages
// around without depending on the real engine's schema.
type SimpleMessage struct {
	FidValue       FID         `json:"fid"`
	TypeValue      MessageType `json:"type"`
	HashValue      []byte      `json:"hash"`
	TimestampValue uint32      `json:"timestamp"`
}

func (m SimpleMessage) FID() FID            { return m.FidValue }
func (m SimpleMessage) Type() MessageType   { return m.TypeValue }
func (m SimpleMessage) Hash() []byte        { return m.HashValue }
func (m SimpleMessage) Timestamp() uint32   { return m.TimestampValue }

// SimpleIDRegistryEvent is the concrete IdRegistryEvent counterpart.
type SimpleIDRegistryEvent struct {
	FidValue FID `json:"fid"`
}

func (e SimpleIDRegistryEvent) FID() FID { return e.FidValue }
