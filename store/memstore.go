// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"context"
	"sync"

	"github.com/hubsync/hub/fc"
)

// MemStore is a reference in-memory Engine implementation used by tests and
// the integration harness. It is not a production storage engine: it has
// no real validation, and "custody known" is tracked by a simple FID set.
type MemStore struct {
	mu       sync.Mutex
	messages map[string]fc.Message      // hash -> message
	custody  map[fc.FID]fc.IdRegistryEvent
	events   *EventBus
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		messages: make(map[string]fc.Message),
		custody:  make(map[fc.FID]fc.IdRegistryEvent),
		events:   NewEventBus(),
	}
}

func (s *MemStore) Events() *EventBus { return s.events }

// ForEachMessage streams a snapshot of the currently held messages.
func (s *MemStore) ForEachMessage(ctx context.Context, fn func(fc.Message) error) error {
	s.mu.Lock()
	snapshot := make([]fc.Message, 0, len(s.messages))
	for _, m := range s.messages {
		snapshot = append(snapshot, m)
	}
	s.mu.Unlock()

	for _, m := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// MergeMessage persists m if its FID is known, otherwise returns
// ErrUnknownUser without mutating state.
func (s *MemStore) MergeMessage(ctx context.Context, m fc.Message, source Source) error {
	s.mu.Lock()
	if _, known := s.custody[m.FID()]; !known {
		s.mu.Unlock()
		return ErrUnknownUser
	}
	key := string(m.Hash())
	if _, dup := s.messages[key]; dup {
		s.mu.Unlock()
		return nil
	}
	s.messages[key] = m
	s.mu.Unlock()

	s.events.Publish(Event{Kind: EventMerged, Message: m})
	return nil
}

// MergeMessages merges each message independently and in order.
func (s *MemStore) MergeMessages(ctx context.Context, msgs []fc.Message, source Source) []MergeResult {
	results := make([]MergeResult, len(msgs))
	for i, m := range msgs {
		results[i] = MergeResult{Message: m, Err: s.MergeMessage(ctx, m, source)}
	}
	return results
}

// MergeIDRegistryEvent marks ev's FID as known, unblocking any signer or
// cast messages that were previously rejected with ErrUnknownUser.
func (s *MemStore) MergeIDRegistryEvent(ctx context.Context, ev fc.IdRegistryEvent, source Source) error {
	s.mu.Lock()
	s.custody[ev.FID()] = ev
	s.mu.Unlock()
	return nil
}

// SeedKnownUser marks fid as known without a real custody event, for test
// setup convenience.
func (s *MemStore) SeedKnownUser(fid fc.FID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custody[fid] = fc.SimpleIDRegistryEvent{FidValue: fid}
}

// Delete removes a previously merged message and emits a deletion event,
// for test setup that exercises the engine's delete hook.
func (s *MemStore) Delete(m fc.Message) {
	s.mu.Lock()
	delete(s.messages, string(m.Hash()))
	s.mu.Unlock()
	s.events.Publish(Event{Kind: EventDeleted, Message: m})
}

// GetMessagesByHashes returns every currently held message whose hash
// matches one of hashes, in no particular order.
func (s *MemStore) GetMessagesByHashes(ctx context.Context, hashes [][]byte) ([]fc.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fc.Message, 0, len(hashes))
	for _, h := range hashes {
		if m, ok := s.messages[string(h)]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetCustodyEvent returns fid's merged custody event, if any.
func (s *MemStore) GetCustodyEvent(ctx context.Context, fid fc.FID) (fc.IdRegistryEvent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.custody[fid]
	return ev, ok, nil
}

// GetMessagesByFID returns every held message belonging to fid, optionally
// filtered to msgType (msgType 0 matches every type).
func (s *MemStore) GetMessagesByFID(ctx context.Context, fid fc.FID, msgType fc.MessageType) ([]fc.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []fc.Message
	for _, m := range s.messages {
		if m.FID() != fid {
			continue
		}
		if msgType != 0 && m.Type() != msgType {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
