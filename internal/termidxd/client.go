package termidxd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"termidx/internal/model"
)

type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string { return fmt.Sprintf("rpc error (%d): %s", e.Code, e.Message) }

// Client is a minimal synchronous JSONL client for one daemon connection.
// Not safe for concurrent calls.
type Client struct {
	conn   net.Conn
	r      *bufio.Reader
	w      *bufio.Writer
	nextID int64
}

func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

func (c *Client) call(method string, params any, out any) error {
	if c == nil || c.conn == nil {
		return fmt.Errorf("client is nil")
	}
	id := atomic.AddInt64(&c.nextID, 1)
	req := Request{JSONRPC: "2.0", Method: method, ID: json.RawMessage(fmt.Sprintf("%d", id))}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return err
		}
		req.Params = b
	}

	if err := WriteOneLine(c.w, req); err != nil {
		return err
	}
	if err := c.w.Flush(); err != nil {
		return err
	}

	line, err := ReadOneLine(c.r)
	if err != nil {
		return err
	}
	var resp rawResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return &RPCError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}

func (c *Client) Ping() error {
	var out string
	if err := c.call("ping", nil, &out); err != nil {
		return err
	}
	if out != "pong" {
		return fmt.Errorf("unexpected ping result: %q", out)
	}
	return nil
}

func (c *Client) Version() (string, error) {
	var out string
	err := c.call("version", nil, &out)
	return out, err
}

func (c *Client) ProjectOpen(p ProjectOpenParams) (ProjectOpenResult, error) {
	var out ProjectOpenResult
	err := c.call("project.open", p, &out)
	return out, err
}

func (c *Client) ProjectClose(projectID string) error {
	return c.call("project.close", ProjectCloseParams{ProjectID: projectID}, nil)
}

func (c *Client) IndexBuild(p IndexBuildParams) (IndexBuildResult, error) {
	var out IndexBuildResult
	err := c.call("index.build", p, &out)
	return out, err
}

func (c *Client) IndexUpdate(p IndexUpdateParams) (IndexUpdateResult, error) {
	var out IndexUpdateResult
	err := c.call("index.update", p, &out)
	return out, err
}

func (c *Client) IndexRemove(p IndexRemoveParams) (IndexUpdateResult, error) {
	var out IndexUpdateResult
	err := c.call("index.remove", p, &out)
	return out, err
}

func (c *Client) IndexScan(p IndexBuildParams) (IndexBuildResult, error) {
	var out IndexBuildResult
	err := c.call("index.scan", p, &out)
	return out, err
}

func (c *Client) Query(p QueryParams) (model.QueryResult, error) {
	var out model.QueryResult
	err := c.call("query", p, &out)
	return out, err
}

func (c *Client) Signature(p SignatureParams) (model.Signature, error) {
	var out model.Signature
	err := c.call("signature", p, &out)
	return out, err
}

func (c *Client) Stats(projectID string) (model.Stats, error) {
	var out model.Stats
	err := c.call("stats", StatsParams{ProjectID: projectID}, &out)
	return out, err
}

func (c *Client) WatchStart(p WatchStartParams) (WatchStatusResult, error) {
	var out WatchStatusResult
	err := c.call("watch.start", p, &out)
	return out, err
}

func (c *Client) WatchStop(projectID string) (WatchStatusResult, error) {
	var out WatchStatusResult
	err := c.call("watch.stop", WatchStopParams{ProjectID: projectID}, &out)
	return out, err
}
