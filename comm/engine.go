// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hubsync/hub/cache"
	"github.com/hubsync/hub/co"
	"github.com/hubsync/hub/comm/proto"
	"github.com/hubsync/hub/fc"
	m "github.com/hubsync/hub/metrics"
	"github.com/hubsync/hub/peerclient"
	"github.com/hubsync/hub/store"
	"github.com/hubsync/hub/syncid"
	"github.com/hubsync/hub/trie"
)

// SyncThresholdSeconds is the snapshot alignment boundary (§6
// SYNC_THRESHOLD_IN_SECONDS): data newer than this many seconds is never
// included in a snapshot, so two peers racing a sync round can't disagree
// over data still in flight.
const SyncThresholdSeconds = 10

// HashesPerFetch is the node-size threshold (§6 HASHES_PER_FETCH) below
// which the engine stops recursing and fetches every id under a prefix in
// one call.
const HashesPerFetch = 50

var (
	syncRoundsTotal  = m.LazyLoadCounterVec("sync_rounds_total", []string{"outcome"})
	syncItemsFetched = m.LazyLoadGauge("sync_items_fetched")
)

// SyncEngine owns a MerkleTrie mirroring the storage engine's message set
// and drives anti-entropy reconciliation against a chosen peer (§4.4).
type SyncEngine struct {
	trie    *trie.MerkleTrie
	storage store.Engine

	initOnce  sync.Once
	syncing   atomic.Bool

	custodyCache *cache.CustodyCache
	msgCache     *cache.MessageCache
}

// NewSyncEngine returns an engine that will own an empty trie until
// Initialize is run.
func NewSyncEngine(storage store.Engine) *SyncEngine {
	return &SyncEngine{
		trie:         trie.New(),
		storage:      storage,
		custodyCache: cache.NewCustodyCache(1024),
		msgCache:     cache.NewMessageCache(4096),
	}
}

// Trie exposes the owned trie read-only, for the RPC server to serve
// metadata and snapshot queries from.
func (e *SyncEngine) Trie() *trie.MerkleTrie { return e.trie }

// Initialize streams every locally persisted message through
// storage.ForEachMessage and inserts its SyncId (§4.4 initialize()). It
// must be called at most once per process; a second call is a no-op.
// Callers should subscribe to storage events via Subscribe before or
// immediately after calling Initialize, so no messageMerged/messageDeleted
// event is missed between the initial scan and live event consumption.
func (e *SyncEngine) Initialize(ctx context.Context) error {
	var err error
	e.initOnce.Do(func() {
		count := 0
		err = e.storage.ForEachMessage(ctx, func(msg fc.Message) error {
			id, derr := syncid.FromMessage(msg)
			if derr != nil {
				logger.Warn("skipping message with malformed SyncId", "err", derr)
				return nil
			}
			e.trie.Insert(id)
			count++
			if count%10000 == 0 {
				logger.Info("initialize progress", "inserted", count)
			}
			return nil
		})
	})
	return err
}

// Subscribe drains storage's event bus onto the trie until ctx is done. It
// implements the §4.4 event hooks: messageMerged inserts, messageDeleted
// deletes. Both operations are idempotent, so a duplicate delivery leaves
// the trie in the same state as a single one. Events are applied in the
// order they are received; a merge and a delete of the same message
// delivered in the opposite order leave the opposite end state.
func (e *SyncEngine) Subscribe(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			id, err := syncid.FromMessage(ev.Message)
			if err != nil {
				continue
			}
			switch ev.Kind {
			case store.EventMerged:
				e.trie.Insert(id)
			case store.EventDeleted:
				e.trie.Delete(id)
			}
		}
	}
}

// SnapshotTimestamp is the current UNIX time floored to the nearest
// multiple of SyncThresholdSeconds (§4.4 snapshot_timestamp()).
func SnapshotTimestamp(now time.Time) int64 {
	t := now.Unix()
	return t - t%SyncThresholdSeconds
}

// Snapshot takes the trie's snapshot at the settled boundary (§4.4
// snapshot()). The division by 10 drops the least-significant decimal
// digit of the timestamp so the snapshot prefix aligns on the 10-second
// boundary.
func (e *SyncEngine) Snapshot(now time.Time) trie.Snapshot {
	prefix := decimalASCII(SnapshotTimestamp(now) / 10)
	return e.trie.GetSnapshot(prefix)
}

// ShouldSync reports whether reconciliation against a peer advertising
// theirExcludedHashes is warranted right now (§4.4 should_sync()): false
// while a round is already in flight, otherwise true iff our settled
// snapshot's excluded-hash list differs element-wise from theirs.
func (e *SyncEngine) ShouldSync(now time.Time, theirExcludedHashes []string) bool {
	if e.syncing.Load() {
		return false
	}
	ours := e.Snapshot(now).ExcludedHashes
	if len(ours) != len(theirExcludedHashes) {
		return true
	}
	for i := range ours {
		if ours[i] != theirExcludedHashes[i] {
			return true
		}
	}
	return false
}

// PerformSync drives one reconciliation round against peer (§4.4
// perform_sync()). is_syncing guards the whole round; any pipeline error is
// logged and swallowed since the next scheduled round will retry.
func (e *SyncEngine) PerformSync(ctx context.Context, now time.Time, theirExcludedHashes []string, peer peerclient.Client) {
	if !e.syncing.CompareAndSwap(false, true) {
		return
	}
	defer e.syncing.Store(false)

	round := uuid.NewString()
	rlog := logger.New("round", round)

	snap := e.Snapshot(now)
	divergence := e.trie.GetDivergencePrefix(snap.Prefix, theirExcludedHashes)

	missing, err := e.FetchMissingHashesByPrefix(ctx, divergence, peer)
	if err != nil {
		rlog.Debug("fetch_missing_hashes_by_prefix failed", "err", err)
		syncRoundsTotal().AddWithLabel(1, map[string]string{"outcome": "error"})
		return
	}

	merged, err := e.FetchAndMergeMessages(ctx, missing, peer)
	if err != nil {
		rlog.Debug("fetch_and_merge_messages failed", "err", err)
		syncRoundsTotal().AddWithLabel(1, map[string]string{"outcome": "error"})
		return
	}

	syncItemsFetched().Add(int64(len(missing)))
	outcome := "noop"
	if merged {
		outcome = "merged"
	}
	syncRoundsTotal().AddWithLabel(1, map[string]string{"outcome": outcome})
}

// FetchMissingHashesByPrefix fetches the peer's metadata rooted at prefix
// and delegates to FetchMissingHashesByNode (§4.4
// fetch_missing_hashes_by_prefix()).
func (e *SyncEngine) FetchMissingHashesByPrefix(ctx context.Context, prefix []byte, peer peerclient.Client) ([]string, error) {
	ourNode := e.trie.GetTrieNodeMetadata(prefix)

	var theirNode trie.NodeMetadata
	err := retryWithBackoff(ctx, 3, 50*time.Millisecond, 500*time.Millisecond, func(ctx context.Context) error {
		var rerr error
		theirNode, rerr = peer.GetSyncMetadataByPrefix(ctx, prefix)
		return rerr
	})
	if err != nil {
		return nil, nil
	}

	return e.FetchMissingHashesByNode(ctx, theirNode, ourNode, peer)
}

// FetchMissingHashesByNode is the central recursion of §4.4
// fetch_missing_hashes_by_node(): below HashesPerFetch it fetches every id
// under the prefix directly; above it, it recurses only into children
// whose hash disagrees with (or is absent from) our own metadata.
func (e *SyncEngine) FetchMissingHashesByNode(ctx context.Context, theirNode, ourNode trie.NodeMetadata, peer peerclient.Client) ([]string, error) {
	if theirNode.NumMessages <= HashesPerFetch {
		var ids []string
		err := retryWithBackoff(ctx, 3, 50*time.Millisecond, 500*time.Millisecond, func(ctx context.Context) error {
			var rerr error
			ids, rerr = peer.GetSyncIdsByPrefix(ctx, theirNode.Prefix)
			return rerr
		})
		if err != nil {
			return nil, nil
		}
		return ids, nil
	}

	// Diverging children share no state, so the recursion into each one may
	// run in parallel (mirroring the §4.4 step 4 allowance for parallel
	// signer-message merges, applied here to sibling subtrees instead).
	var (
		mu  sync.Mutex
		out []string
	)
	<-co.Parallel(func(queue chan<- func()) {
		for _, b := range sortedChildKeys(theirNode.Children) {
			theirChild := theirNode.Children[b]
			ourChild, ok := ourNode.Children[b]
			if ok && ourChild.Hash == theirChild.Hash {
				continue
			}
			queue <- func() {
				childIDs, err := e.FetchMissingHashesByPrefix(ctx, theirChild.Prefix, peer)
				if err != nil {
					logger.Debug("child recursion failed, skipping sibling", "err", err)
					return
				}
				mu.Lock()
				out = append(out, childIDs...)
				mu.Unlock()
			}
		}
	})
	return out, nil
}

// FetchAndMergeMessages fetches the messages behind hashes and merges them
// sequentially (§4.4 fetch_and_merge_messages()), since a later message may
// depend on an earlier one (e.g. a cast depends on its signer). It returns
// whether any input was supplied.
func (e *SyncEngine) FetchAndMergeMessages(ctx context.Context, hashes []string, peer peerclient.Client) (bool, error) {
	if len(hashes) == 0 {
		return false, nil
	}

	msgs := make([]fc.Message, 0, len(hashes))
	var missing []string
	for _, h := range hashes {
		if msg, ok := e.msgCache.Get(messageCacheKey(h)); ok {
			msgs = append(msgs, msg)
			continue
		}
		missing = append(missing, h)
	}

	if len(missing) > 0 {
		var fetched []fc.Message
		err := retryWithBackoff(ctx, 3, 50*time.Millisecond, 500*time.Millisecond, func(ctx context.Context) error {
			var rerr error
			fetched, rerr = peer.GetMessagesByHashes(ctx, missing)
			return rerr
		})
		if err != nil {
			return false, err
		}
		for _, msg := range fetched {
			e.msgCache.Put(string(msg.Hash()), msg)
			msgs = append(msgs, msg)
		}
	}

	for _, msg := range msgs {
		mergeErr := e.storage.MergeMessage(ctx, msg, store.SourceSync)
		if mergeErr == nil {
			continue
		}
		if errors.Is(mergeErr, store.ErrUnknownUser) {
			if rerr := e.SyncUserAndRetryMessage(ctx, msg, peer); rerr != nil {
				logger.Debug("dependency recovery failed", "fid", msg.FID(), "err", rerr)
			}
			continue
		}
		logger.Debug("merge failed", "err", mergeErr)
	}
	return true, nil
}

// SyncUserAndRetryMessage recovers from an unknown-user merge failure by
// fetching the message's signer's custody event and every signer message
// they've published, merging both, then retrying the original message
// (§4.4 sync_user_and_retry_message()).
func (e *SyncEngine) SyncUserAndRetryMessage(ctx context.Context, message fc.Message, peer peerclient.Client) error {
	fid := message.FID()

	custody, err := e.custodyCache.GetOrFetch(fid, func(fid fc.FID) (fc.IdRegistryEvent, error) {
		return peer.GetCustodyEventByUser(ctx, fid)
	})
	if err != nil {
		return errors.Wrap(peerclient.ErrNetworkFailure, "get_custody_event_by_user")
	}

	if err := e.storage.MergeIDRegistryEvent(ctx, custody, store.SourceSync); err != nil {
		e.custodyCache.Remove(fid)
		return errors.Wrap(err, "unavailable.storage_failure")
	}

	signers, err := peer.GetAllSignerMessagesByUser(ctx, fid)
	if err != nil {
		return errors.Wrap(peerclient.ErrNetworkFailure, "get_all_signer_messages_by_user")
	}

	results := mergeSignerMessagesInParallel(ctx, e.storage, signers)
	allFailed := len(results) > 0
	for _, r := range results {
		if r.Err == nil {
			allFailed = false
		}
	}
	if allFailed {
		return errors.New("unavailable.storage_failure: every signer message merge failed")
	}

	if err := e.storage.MergeMessage(ctx, message, store.SourceSync); err != nil {
		return errors.Wrap(err, "unavailable.storage_failure")
	}
	return nil
}

// mergeSignerMessagesInParallel issues the signer-message merges
// concurrently via an errgroup, as §4.4 step 4 permits ("may be issued in
// parallel") since, unlike the original message, signer messages have no
// ordering dependency on each other once their own signer's custody event
// is already merged.
func mergeSignerMessagesInParallel(ctx context.Context, storage store.Engine, signers []fc.Message) []store.MergeResult {
	results := make([]store.MergeResult, len(signers))
	var g errgroup.Group
	for i, msg := range signers {
		i, msg := i, msg
		g.Go(func() error {
			err := storage.MergeMessage(ctx, msg, store.SourceSync)
			results[i] = store.MergeResult{Message: msg, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// messageCacheKey extracts the stable message-hash portion of a wire
// SyncId hash string (per peerclient.Client's hex-SyncId contract),
// falling back to the string itself when it cannot be decoded as hex, e.g.
// a test double using opaque ids directly.
func messageCacheKey(hash string) string {
	b, err := proto.ParseHexBytes(hash)
	if err != nil {
		return hash
	}
	return string(syncid.ID(b).Hash())
}

func sortedChildKeys(children map[byte]trie.ChildMetadata) []byte {
	keys := make([]byte, 0, len(children))
	for b := range children {
		keys = append(keys, b)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func decimalASCII(n int64) []byte {
	if n == 0 {
		return []byte("0")
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return append([]byte(nil), buf[i:]...)
}
