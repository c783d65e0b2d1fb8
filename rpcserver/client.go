// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rpcserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/hubsync/hub/comm/proto"
	"github.com/hubsync/hub/fc"
	"github.com/hubsync/hub/peerclient"
	"github.com/hubsync/hub/trie"
)

// Client is an HTTP-backed peerclient.Client dialing a peer's advertised
// rpc_address, satisfying the §4.5 PeerClient interface over the §6 wire
// format this package's Server mirrors.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client talking to rpcAddress (a bare host:port or a
// full URL). A zero http.Client timeout would let a wedged peer hang a
// sync round forever, so this applies a fixed 10-second timeout.
func NewClient(rpcAddress string) *Client {
	return &Client{
		baseURL: normalizeBaseURL(rpcAddress),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func normalizeBaseURL(addr string) string {
	if len(addr) >= 7 && addr[:7] == "http://" {
		return addr
	}
	if len(addr) >= 8 && addr[:8] == "https://" {
		return addr
	}
	return "http://" + addr
}

var _ peerclient.Client = (*Client)(nil)

func (c *Client) GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (trie.NodeMetadata, error) {
	var resp proto.NodeMetadataResponse
	q := url.Values{"prefix": {proto.HexBytes(prefix)}}
	if err := c.getJSON(ctx, "/sync/metadata?"+q.Encode(), &resp); err != nil {
		return trie.NodeMetadata{}, err
	}
	return resp.NodeMetadata()
}

func (c *Client) GetSyncIdsByPrefix(ctx context.Context, prefix []byte) ([]string, error) {
	var resp proto.SyncIdsResponse
	q := url.Values{"prefix": {proto.HexBytes(prefix)}}
	if err := c.getJSON(ctx, "/sync/ids?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Ids, nil
}

func (c *Client) GetMessagesByHashes(ctx context.Context, hashes []string) ([]fc.Message, error) {
	var resp proto.MessagesResponse
	body, err := json.Marshal(proto.SyncIdsResponse{Ids: hashes})
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}
	if err := c.postJSON(ctx, "/sync/messages", body, &resp); err != nil {
		return nil, err
	}
	out := make([]fc.Message, len(resp.Messages))
	for i, m := range resp.Messages {
		out[i] = m
	}
	return out, nil
}

func (c *Client) GetCustodyEventByUser(ctx context.Context, fid fc.FID) (fc.IdRegistryEvent, error) {
	var resp proto.CustodyEventResponse
	path := fmt.Sprintf("/fid/%d/custody", uint64(fid))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Event == nil {
		return nil, errors.Wrap(peerclient.ErrNetworkFailure, "not_found: no custody event")
	}
	return *resp.Event, nil
}

func (c *Client) GetAllSignerMessagesByUser(ctx context.Context, fid fc.FID) ([]fc.Message, error) {
	var resp proto.MessagesResponse
	path := fmt.Sprintf("/fid/%d/signers", uint64(fid))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	out := make([]fc.Message, len(resp.Messages))
	for i, m := range resp.Messages {
		out[i] = m
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(peerclient.ErrNetworkFailure, err.Error())
	}
	return c.do(req, v)
}

func (c *Client) postJSON(ctx context.Context, path string, body []byte, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(peerclient.ErrNetworkFailure, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(peerclient.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return errors.Wrap(peerclient.ErrNetworkFailure, strconv.Itoa(resp.StatusCode)+": "+string(msg))
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(peerclient.ErrNetworkFailure, "decode response: "+err.Error())
	}
	return nil
}
