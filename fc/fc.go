// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fc defines the minimal message-shape primitives the sync core
// needs from the storage engine. It owns no validation or persistence
// logic; those belong to the external storage engine (see package store).
package fc

import "time"

// Epoch is the Farcaster protocol epoch (2021-01-01T00:00:00Z), the origin
// for every message timestamp.
var Epoch = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// FID is an opaque Farcaster user identifier.
type FID uint64

// MessageType distinguishes the kinds of signed messages the hub stores.
type MessageType int

const (
	MessageTypeCast MessageType = iota + 1
	MessageTypeReaction
	MessageTypeAmp
	MessageTypeVerification
	MessageTypeSignerAdd
	MessageTypeUserData
)

// Message is the shape the sync core needs from a persisted message: enough
// to derive a SyncId and enough to hand back over the wire. The storage
// engine owns the concrete type and its validation.
type Message interface {
	FID() FID
	Type() MessageType
	Hash() []byte
	// Timestamp is Farcaster time: seconds elapsed since Epoch.
	Timestamp() uint32
}

// IdRegistryEvent is the custody event associated with a FID's on-chain
// registration. The sync core only ever merges these opaquely; it never
// inspects their fields.
type IdRegistryEvent interface {
	FID() FID
}
