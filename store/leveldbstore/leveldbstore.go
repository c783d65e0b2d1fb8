// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package leveldbstore is a disk-backed reference implementation of
// store.Engine, wired the same way the teacher's muxdb backs onto
// goleveldb. It exists for the CLI entrypoint and integration tests; it is
// not the production storage engine the sync core is designed against
// (see store.Engine's doc comment).
package leveldbstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/store"
)

const (
	messagePrefix = "m/"
	custodyPrefix = "c/"
)

// Store is a store.Engine backed by a single goleveldb database.
type Store struct {
	db     *leveldb.DB
	events *store.EventBus
}

// Open opens (creating if absent) the database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb store")
	}
	return &Store{db: db, events: store.NewEventBus()}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Events() *store.EventBus { return s.events }

// ForEachMessage iterates every persisted message in key order (which is
// also hash order, not sync order; the sync engine reindexes by SyncId at
// startup regardless).
func (s *Store) ForEachMessage(ctx context.Context, fn func(fc.Message) error) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(messagePrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var m fc.SimpleMessage
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			return errors.Wrap(err, "decode message")
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return iter.Error()
}

// MergeMessage persists m if its FID has a known custody event.
func (s *Store) MergeMessage(ctx context.Context, m fc.Message, source store.Source) error {
	known, err := s.db.Has(custodyKey(m.FID()), nil)
	if err != nil {
		return errors.Wrap(err, "check custody")
	}
	if !known {
		return store.ErrUnknownUser
	}

	data, err := json.Marshal(toSimple(m))
	if err != nil {
		return errors.Wrap(err, "encode message")
	}
	if err := s.db.Put(messageKey(m.Hash()), data, nil); err != nil {
		return errors.Wrap(err, "put message")
	}

	s.events.Publish(store.Event{Kind: store.EventMerged, Message: m})
	return nil
}

// MergeMessages merges each message independently and in order, matching
// the sequential-dependency contract the sync engine relies on.
func (s *Store) MergeMessages(ctx context.Context, msgs []fc.Message, source store.Source) []store.MergeResult {
	results := make([]store.MergeResult, len(msgs))
	for i, m := range msgs {
		results[i] = store.MergeResult{Message: m, Err: s.MergeMessage(ctx, m, source)}
	}
	return results
}

// MergeIDRegistryEvent marks ev's FID as custody-known.
func (s *Store) MergeIDRegistryEvent(ctx context.Context, ev fc.IdRegistryEvent, source store.Source) error {
	data, err := json.Marshal(fc.SimpleIDRegistryEvent{FidValue: ev.FID()})
	if err != nil {
		return errors.Wrap(err, "encode custody event")
	}
	if err := s.db.Put(custodyKey(ev.FID()), data, nil); err != nil {
		return errors.Wrap(err, "put custody event")
	}
	return nil
}

// GetMessagesByHashes returns every persisted message whose hash matches
// one of hashes, skipping any not found.
func (s *Store) GetMessagesByHashes(ctx context.Context, hashes [][]byte) ([]fc.Message, error) {
	out := make([]fc.Message, 0, len(hashes))
	for _, h := range hashes {
		data, err := s.db.Get(messageKey(h), nil)
		if err == leveldb.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "get message")
		}
		var m fc.SimpleMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, "decode message")
		}
		out = append(out, m)
	}
	return out, nil
}

// GetCustodyEvent returns fid's merged custody event, if any.
func (s *Store) GetCustodyEvent(ctx context.Context, fid fc.FID) (fc.IdRegistryEvent, bool, error) {
	data, err := s.db.Get(custodyKey(fid), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get custody event")
	}
	var ev fc.SimpleIDRegistryEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, false, errors.Wrap(err, "decode custody event")
	}
	return ev, true, nil
}

// GetMessagesByFID returns every persisted message belonging to fid,
// optionally filtered to msgType (msgType 0 matches every type). It scans
// the full message keyspace: the reference store has no secondary index,
// unlike a production engine that would maintain one.
func (s *Store) GetMessagesByFID(ctx context.Context, fid fc.FID, msgType fc.MessageType) ([]fc.Message, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(messagePrefix)), nil)
	defer iter.Release()

	var out []fc.Message
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var m fc.SimpleMessage
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			return nil, errors.Wrap(err, "decode message")
		}
		if m.FID() != fid {
			continue
		}
		if msgType != 0 && m.Type() != msgType {
			continue
		}
		out = append(out, m)
	}
	return out, iter.Error()
}

func toSimple(m fc.Message) fc.SimpleMessage {
	if sm, ok := m.(fc.SimpleMessage); ok {
		return sm
	}
	return fc.SimpleMessage{
		FidValue:       m.FID(),
		TypeValue:      m.Type(),
		HashValue:      m.Hash(),
		TimestampValue: m.Timestamp(),
	}
}

func messageKey(hash []byte) []byte {
	return append([]byte(messagePrefix), hash...)
}

func custodyKey(fid fc.FID) []byte {
	key := make([]byte, 0, len(custodyPrefix)+8)
	key = append(key, custodyPrefix...)
	for i := 7; i >= 0; i-- {
		key = append(key, byte(fid>>(8*i)))
	}
	return key
}
