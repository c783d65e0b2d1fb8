// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"context"
	"time"

	"github.com/hubsync/hub/co"
	"github.com/hubsync/hub/gossip"
	"github.com/hubsync/hub/peerclient"
	"github.com/hubsync/hub/store"
)

// pollInterval is how often the Communicator checks whether its best peer
// warrants a sync round. It is independent of SyncThresholdSeconds: the
// poll can run often cheaply since ShouldSync is a pure local comparison.
const pollInterval = 2 * time.Second

// Communicator is the process's sync front door: it tracks every peer seen
// via gossip contact records, republishes this hub's own record, and polls
// its best-scoring peer to decide whether a reconciliation round is due.
type Communicator struct {
	peerID     string
	appVersion string

	engine *SyncEngine
	peers  *PeerSet

	newClient func(rpcAddress string) peerclient.Client

	choes *co.Choes
	pub   *co.Choes
	wake  co.Signal
}

// New returns a Communicator for the given peer identity and sync engine.
// newClient builds an RPC client for a peer's advertised rpc_address; it is
// the seam where the reference rpcserver.NewClient (or a fake, for tests)
// is injected.
func New(peerID, appVersion string, engine *SyncEngine, newClient func(rpcAddress string) peerclient.Client) *Communicator {
	return &Communicator{
		peerID:     peerID,
		appVersion: appVersion,
		engine:     engine,
		peers:      newPeerSet(),
		newClient:  newClient,
	}
}

// Start wires the Communicator into storage's event bus, begins polling for
// due sync rounds, subscribes to the gossip contact topic on sub, and
// starts republishing this hub's own contact record via pub. It returns
// once background loops are running; call Stop to unwind them.
func (c *Communicator) Start(ctx context.Context, events store.Engine, sub gossip.Subscriber, pub gossip.Publisher) error {
	if err := c.engine.Initialize(ctx); err != nil {
		return err
	}
	go c.engine.Subscribe(ctx, events.Events().Subscribe())

	sub.Subscribe(gossip.TopicContact, func(env gossip.Envelope) {
		c.handleContactRecord(env)
	})

	c.choes = co.NewChoes()
	c.choes.Go(func(stop chan struct{}) {
		c.pollLoop(ctx, stop)
	})

	c.pub = gossip.Publish(pub, c.ownContactRecord)
	return nil
}

// Stop unwinds every background loop started by Start and waits for them to
// exit.
func (c *Communicator) Stop() {
	if c.choes != nil {
		c.choes.Stop()
		c.choes.Wait()
	}
	if c.pub != nil {
		c.pub.Stop()
		c.pub.Wait()
	}
}

// ownContactRecord builds this hub's current self-advertisement from its
// engine's settled snapshot, for the gossip publisher loop.
func (c *Communicator) ownContactRecord() gossip.ContactRecord {
	snap := c.engine.Snapshot(time.Now())
	return gossip.ContactRecord{
		PeerID:         c.peerID,
		ExcludedHashes: snap.ExcludedHashes,
		Count:          snap.NumMessages,
	}
}

// handleContactRecord processes an inbound gossip contact record: it
// decodes it, skips records advertising an incompatible protocol major
// version, and otherwise registers/refreshes the advertising peer.
func (c *Communicator) handleContactRecord(env gossip.Envelope) {
	rec, err := gossip.DecodeContactRecord(env)
	if err != nil {
		logger.Debug("decode contact record", "err", err)
		return
	}
	if rec.PeerID == "" || rec.PeerID == c.peerID {
		return
	}
	// PeerID doubles as a user-agent string ("hub/v1.2.3-..."), the same
	// convention the teacher's p2p handshake uses for its peer Name.
	if !sameMajor(c.appVersion, rec.PeerID) {
		logger.Debug("skipping peer with incompatible protocol version", "peer", rec.PeerID)
		return
	}

	peer := c.peers.getOrCreate(rec.PeerID, func() peerclient.Client {
		return c.newClient(rec.RPCAddress)
	})
	peer.touch(rec.GossipAddress, rec.RPCAddress, rec.ExcludedHashes)

	// A peer's excluded-hash set just changed; don't make the poll loop
	// wait out the rest of pollInterval to notice.
	c.wake.Broadcast()
}

// pollLoop checks whether the best-scoring known peer warrants a sync
// round, either on its pollInterval tick or as soon as a fresh gossip
// contact record arrives, and drives one if so.
func (c *Communicator) pollLoop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		waiter := c.wake.NewWaiter()
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.maybeSync(ctx)
		case <-waiter.C():
			c.maybeSync(ctx)
		}
	}
}

func (c *Communicator) maybeSync(ctx context.Context) {
	peer, _ := c.peers.WithBestScore()
	if peer == nil {
		return
	}
	excluded := peer.ExcludedHashes()
	if !c.engine.ShouldSync(time.Now(), excluded) {
		return
	}
	c.engine.PerformSync(ctx, time.Now(), excluded, peer.client)
}
