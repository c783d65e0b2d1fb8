// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gossip implements the contact-record broadcast (§4.6): every hub
// periodically advertises itself and its current sync state so peers can
// decide, without a prior handshake, whether reconciliation is worthwhile.
package gossip

import "encoding/json"

// ProtocolVersion is the wire-format version tag every envelope carries.
const ProtocolVersion = "V1"

// Gossip topics (§6 "Gossip wire format").
const (
	TopicPrimary = "f_network_topic_primary"
	TopicContact = "f_network_topic_contact"
)

// ContactInterval is GOSSIP_CONTACT_INTERVAL: how often a contact record is
// republished.
const ContactInterval = 10_000 // milliseconds, per §6

// ContactRecord is one hub's self-advertisement (§4.6): its identity,
// optionally how to reach it for gossip and RPC, its current settled
// excluded-hash snapshot, and the message count of that snapshot.
type ContactRecord struct {
	PeerID         string   `json:"peer_id"`
	GossipAddress  string   `json:"gossip_address,omitempty"`
	RPCAddress     string   `json:"rpc_address,omitempty"`
	ExcludedHashes []string `json:"excluded_hashes"`
	Count          int      `json:"count"`
}

// Envelope is the outer wire frame every gossip message is wrapped in:
// arbitrary JSON content tagged with the topics it was published on.
type Envelope struct {
	Content json.RawMessage `json:"content"`
	Topics  []string        `json:"topics"`
}

// NewContactEnvelope wraps rec as an Envelope published on TopicContact.
func NewContactEnvelope(rec ContactRecord) (Envelope, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Content: data, Topics: []string{TopicContact}}, nil
}

// DecodeContactRecord unwraps env's content as a ContactRecord.
func DecodeContactRecord(env Envelope) (ContactRecord, error) {
	var rec ContactRecord
	err := json.Unmarshal(env.Content, &rec)
	return rec, err
}
