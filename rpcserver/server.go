// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rpcserver

import (
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hubsync/hub/comm/proto"
	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/store"
	"github.com/hubsync/hub/syncid"
	"github.com/hubsync/hub/trie"
)

// messageTypeNames maps the RPC surface's per-type listing extension path
// segment to the underlying fc.MessageType constant.
var messageTypeNames = map[string]fc.MessageType{
	"casts":         fc.MessageTypeCast,
	"reactions":     fc.MessageTypeReaction,
	"amps":          fc.MessageTypeAmp,
	"verifications": fc.MessageTypeVerification,
	"signers":       fc.MessageTypeSignerAdd,
	"userdata":      fc.MessageTypeUserData,
}

// Server serves §6's RPC surface over HTTP against a local trie + storage
// engine, so a peer's rpcserver.Client can drive reconciliation against
// this process.
type Server struct {
	trie    *trie.MerkleTrie
	storage store.Engine
}

// New returns a Server mirroring trie and storage over HTTP.
func New(tr *trie.MerkleTrie, storage store.Engine) *Server {
	return &Server{trie: tr, storage: storage}
}

// Handler builds the mux.Router serving every mirrored RPC endpoint, with
// the same gzip-compression middleware the teacher's admin.HTTPHandler
// wraps its router in.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/sync/metadata", wrapHandlerFunc(s.handleGetSyncMetadataByPrefix)).Methods(http.MethodGet)
	router.HandleFunc("/sync/ids", wrapHandlerFunc(s.handleGetSyncIdsByPrefix)).Methods(http.MethodGet)
	router.HandleFunc("/sync/messages", wrapHandlerFunc(s.handleGetMessagesByHashes)).Methods(http.MethodPost)
	router.HandleFunc("/fid/{fid}/custody", wrapHandlerFunc(s.handleGetCustodyEventByUser)).Methods(http.MethodGet)
	router.HandleFunc("/fid/{fid}/signers", wrapHandlerFunc(s.handleGetAllSignerMessagesByUser)).Methods(http.MethodGet)
	router.HandleFunc("/fid/{fid}/{type}", wrapHandlerFunc(s.handleGetMessagesByFID)).Methods(http.MethodGet)

	return handlers.CompressHandler(router)
}

func (s *Server) handleGetSyncMetadataByPrefix(w http.ResponseWriter, r *http.Request) error {
	prefix, err := proto.ParseHexBytes(r.URL.Query().Get("prefix"))
	if err != nil {
		return badRequest(errors.Wrap(err, "prefix"))
	}
	md := s.trie.GetTrieNodeMetadata(prefix)
	return writeJSON(w, proto.NewNodeMetadataResponse(md))
}

func (s *Server) handleGetSyncIdsByPrefix(w http.ResponseWriter, r *http.Request) error {
	prefix, err := proto.ParseHexBytes(r.URL.Query().Get("prefix"))
	if err != nil {
		return badRequest(errors.Wrap(err, "prefix"))
	}
	ids := s.trie.GetAllValues(prefix)
	resp := proto.SyncIdsResponse{Ids: make([]string, len(ids))}
	for i, id := range ids {
		resp.Ids[i] = proto.HexBytes(id.Bytes())
	}
	return writeJSON(w, resp)
}

func (s *Server) handleGetMessagesByHashes(w http.ResponseWriter, r *http.Request) error {
	var req proto.SyncIdsResponse
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(errors.Wrap(err, "body"))
	}

	// req.Ids carries full SyncIds (timestamp prefix + message hash, per
	// GetSyncIdsByPrefix), but the storage engine keys messages by their
	// raw hash alone: strip the timestamp prefix before looking them up.
	hashes := make([][]byte, 0, len(req.Ids))
	for _, hx := range req.Ids {
		id, err := proto.ParseHexBytes(hx)
		if err != nil {
			return badRequest(errors.Wrap(err, "hashes"))
		}
		hashes = append(hashes, syncid.ID(id).Hash())
	}

	msgs, err := s.storage.GetMessagesByHashes(r.Context(), hashes)
	if err != nil {
		return errors.Wrap(err, "get messages by hashes")
	}
	return writeJSON(w, proto.MessagesResponse{Messages: toSimpleMessages(msgs)})
}

func (s *Server) handleGetCustodyEventByUser(w http.ResponseWriter, r *http.Request) error {
	fid, err := parseFID(mux.Vars(r)["fid"])
	if err != nil {
		return badRequest(err)
	}

	ev, ok, err := s.storage.GetCustodyEvent(r.Context(), fid)
	if err != nil {
		return errors.Wrap(err, "get custody event")
	}
	if !ok {
		return notFound(errors.Errorf("not_found: no custody event for fid %d", fid))
	}

	simple := fc.SimpleIDRegistryEvent{FidValue: ev.FID()}
	return writeJSON(w, proto.CustodyEventResponse{Event: &simple})
}

func (s *Server) handleGetAllSignerMessagesByUser(w http.ResponseWriter, r *http.Request) error {
	fid, err := parseFID(mux.Vars(r)["fid"])
	if err != nil {
		return badRequest(err)
	}
	msgs, err := s.storage.GetMessagesByFID(r.Context(), fid, fc.MessageTypeSignerAdd)
	if err != nil {
		return errors.Wrap(err, "get signer messages")
	}
	return writeJSON(w, proto.MessagesResponse{Messages: toSimpleMessages(msgs)})
}

// handleGetMessagesByFID backs the per-type listing extension §6 mentions
// as offered by the surrounding server but not required by the sync core:
// get_all_*_messages_by_fid for one message type at a time.
func (s *Server) handleGetMessagesByFID(w http.ResponseWriter, r *http.Request) error {
	fid, err := parseFID(mux.Vars(r)["fid"])
	if err != nil {
		return badRequest(err)
	}
	typeName := mux.Vars(r)["type"]
	msgType, ok := messageTypeNames[typeName]
	if !ok {
		return badRequest(errors.Errorf("bad_input: unknown message type %q", typeName))
	}

	msgs, err := s.storage.GetMessagesByFID(r.Context(), fid, msgType)
	if err != nil {
		return errors.Wrap(err, "get messages by fid")
	}
	return writeJSON(w, proto.MessagesResponse{Messages: toSimpleMessages(msgs)})
}

func parseFID(s string) (fc.FID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "bad_input: fid")
	}
	return fc.FID(n), nil
}

func toSimpleMessages(msgs []fc.Message) []fc.SimpleMessage {
	out := make([]fc.SimpleMessage, len(msgs))
	for i, m := range msgs {
		if sm, ok := m.(fc.SimpleMessage); ok {
			out[i] = sm
			continue
		}
		out[i] = fc.SimpleMessage{
			FidValue:       m.FID(),
			TypeValue:      m.Type(),
			HashValue:      m.Hash(),
			TimestampValue: m.Timestamp(),
		}
	}
	return out
}
