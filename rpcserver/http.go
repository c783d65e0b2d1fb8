// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rpcserver mirrors §6's RPC surface as a small HTTP API: the five
// operations peerclient.Client consumes, plus the surrounding server's
// per-type "get_all_*_messages_by_fid" listing extension. It also provides
// Client, an HTTP-backed peerclient.Client a Communicator can dial a
// peer's advertised rpc_address with.
package rpcserver

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/log"
)

// decodeJSON decodes r's body into v in strict mode, rejecting unknown
// fields the same way the teacher's api/utils.ParseJSON does.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var logger = log.New("pkg", "rpcserver")

// httpError pairs a cause with the HTTP status it should be reported as,
// the same shape the teacher's api/utils package wraps handler errors in.
type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string { return e.cause.Error() }

func badRequest(cause error) error { return &httpError{cause: cause, status: http.StatusBadRequest} }
func notFound(cause error) error   { return &httpError{cause: cause, status: http.StatusNotFound} }

// handlerFunc is like http.HandlerFunc but returns an error; wrapHandlerFunc
// maps it to the right HTTP status.
type handlerFunc func(http.ResponseWriter, *http.Request) error

func wrapHandlerFunc(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if he, ok := err.(*httpError); ok {
			http.Error(w, he.cause.Error(), he.status)
			return
		}
		logger.Debug("unwrapped handler error", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSON encodes obj as the response body.
func writeJSON(w http.ResponseWriter, obj interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		logger.Error("encode JSON response", "err", err)
	}
	return nil
}
