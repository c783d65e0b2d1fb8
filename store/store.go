// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store defines the storage-engine surface the sync core consumes.
// Validation, persistence and on-disk layout are the storage engine's
// concern; this package only states the contract plus a reference
// in-memory/goleveldb-backed implementation used by tests and the demo
// entrypoint.
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hubsync/hub/fc"
)

// ErrUnknownUser is returned by Merge* when a message references a FID the
// storage engine has never seen a custody event for (wire status 412).
var ErrUnknownUser = errors.New("not_found: unknown user")

// Source tags a merge request with the caller that issued it, mirroring
// the teacher's merge-source bookkeeping used for provenance/metrics.
type Source string

// SourceSync is the provenance tag the sync engine stamps on every merge it
// drives, distinguishing reconciliation writes from gossip/RPC writes.
const SourceSync Source = "SyncEngine"

// MergeResult is the per-message outcome of a batch merge.
type MergeResult struct {
	Message fc.Message
	Err     error
}

// Engine is the external storage engine the sync core consumes: message
// validation, persistence and event emission live on the other side of
// this interface.
type Engine interface {
	// ForEachMessage streams every locally persisted message in arbitrary
	// order, invoking fn for each. It returns fn's first error, if any.
	ForEachMessage(ctx context.Context, fn func(fc.Message) error) error

	// MergeMessage validates and persists m, returning ErrUnknownUser if m's
	// signer/FID is not yet known.
	MergeMessage(ctx context.Context, m fc.Message, source Source) error

	// MergeMessages merges each message independently, returning one
	// result per input message in the same order.
	MergeMessages(ctx context.Context, msgs []fc.Message, source Source) []MergeResult

	// MergeIDRegistryEvent merges a custody event.
	MergeIDRegistryEvent(ctx context.Context, ev fc.IdRegistryEvent, source Source) error

	// Events returns the engine's mutation event stream.
	Events() *EventBus

	// GetMessagesByHashes returns every currently persisted message whose
	// hash matches one of hashes; hashes with no matching message are
	// silently skipped. Backs the mirrored get_messages_by_hashes RPC.
	GetMessagesByHashes(ctx context.Context, hashes [][]byte) ([]fc.Message, error)

	// GetCustodyEvent returns fid's merged custody event, or ok=false if
	// none has ever been merged. Backs get_custody_event_by_user.
	GetCustodyEvent(ctx context.Context, fid fc.FID) (ev fc.IdRegistryEvent, ok bool, err error)

	// GetMessagesByFID returns every persisted message belonging to fid.
	// msgType filters to one message type; the zero value (no MessageType
	// constant is zero-valued) matches every type, backing both
	// get_all_signer_messages_by_user (msgType =
	// fc.MessageTypeSignerAdd) and the RPC surface's
	// get_all_*_messages_by_fid extension (one call per type, or msgType
	// 0 for all of them).
	GetMessagesByFID(ctx context.Context, fid fc.FID, msgType fc.MessageType) ([]fc.Message, error)
}

// EventKind distinguishes the two mutation signals the sync engine reacts
// to.
type EventKind int

const (
	EventMerged EventKind = iota
	EventDeleted
)

// Event is one storage mutation notification. A delete event is advisory:
// the underlying transaction may still have failed, and the trie will
// re-converge on the next sync round regardless.
type Event struct {
	Kind    EventKind
	Message fc.Message
}

// EventBus is a simple in-process pub/sub channel. Storage emits events in
// the order the underlying transactions committed; subscribers consume
// them in that same order. There is exactly one consumer in this system
// (the sync engine), but the bus supports more for testing.
type EventBus struct {
	subs []chan Event
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel that receives every future event. The
// channel is buffered so a slow consumer does not stall the storage
// engine's commit path; callers that care about backpressure should drain
// promptly regardless.
func (b *EventBus) Subscribe() <-chan Event {
	ch := make(chan Event, 256)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish fans an event out to every subscriber.
func (b *EventBus) Publish(ev Event) {
	for _, ch := range b.subs {
		ch <- ev
	}
}
