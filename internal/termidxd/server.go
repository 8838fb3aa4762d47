// Package termidxd is the index daemon: a JSONL JSON-RPC 2.0 server that
// holds projects open so the writer lock, parser state and watcher survive
// across client calls.
package termidxd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"termidx/internal/version"
)

type Options struct {
	Listen string
}

type Server struct {
	opts Options
	h    *Handlers

	mu        sync.Mutex
	listener  net.Listener
	closeOnce sync.Once
	closed    chan struct{}
}

func NewServer(opts Options) *Server {
	if opts.Listen == "" {
		opts.Listen = "127.0.0.1:7461"
	}
	return &Server{
		opts:   opts,
		h:      NewHandlers(),
		closed: make(chan struct{}),
	}
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Run() error {
	if s == nil {
		return fmt.Errorf("server is nil")
	}

	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	if s == nil {
		return nil
	}

	s.closeOnce.Do(func() { close(s.closed) })

	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()

	s.h.Close()

	if ln == nil {
		return nil
	}
	return ln.Close()
}

func (s *Server) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	defer func() { _ = w.Flush() }()

	for {
		line, err := ReadOneLine(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			return
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			_ = WriteOneLine(w, Response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &ErrorObject{Code: -32700, Message: "parse error"},
			})
			_ = w.Flush()
			continue
		}

		if len(req.ID) == 0 {
			// Notification: no response.
			_ = s.dispatch(req)
			continue
		}

		resp := s.dispatch(req)
		_ = WriteOneLine(w, resp)
		_ = w.Flush()
	}
}

// decode unmarshals params when present; a missing params object leaves the
// zero value so handlers validate required fields themselves.
func decode[T any](raw json.RawMessage) (T, *ErrorObject) {
	var p T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return p, &ErrorObject{Code: -32602, Message: "invalid params"}
		}
	}
	return p, nil
}

func result[T any](resp *Response, v T, err error) {
	if err != nil {
		resp.Error = &ErrorObject{Code: -32000, Message: err.Error()}
		return
	}
	resp.Result = v
}

func (s *Server) dispatch(req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	if req.JSONRPC != "" && req.JSONRPC != "2.0" {
		resp.Error = &ErrorObject{Code: -32600, Message: "invalid jsonrpc version"}
		return resp
	}

	switch req.Method {
	case "ping":
		resp.Result = "pong"
	case "version":
		resp.Result = version.String()
	case "project.open":
		p, perr := decode[ProjectOpenParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		v, err := s.h.ProjectOpen(p)
		result(&resp, v, err)
	case "project.close":
		p, perr := decode[ProjectCloseParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.ProjectClose(p)
		result(&resp, v, err)
	case "index.build":
		p, perr := decode[IndexBuildParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.IndexBuild(p)
		result(&resp, v, err)
	case "index.update":
		p, perr := decode[IndexUpdateParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.IndexUpdate(p)
		result(&resp, v, err)
	case "index.remove":
		p, perr := decode[IndexRemoveParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.IndexRemove(p)
		result(&resp, v, err)
	case "index.scan":
		p, perr := decode[IndexBuildParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.IndexScan(p)
		result(&resp, v, err)
	case "query":
		p, perr := decode[QueryParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		if strings.TrimSpace(p.Term) == "" {
			resp.Error = &ErrorObject{Code: -32602, Message: "term is required"}
			return resp
		}
		v, err := s.h.Query(p)
		result(&resp, v, err)
	case "signature":
		p, perr := decode[SignatureParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		if strings.TrimSpace(p.Path) == "" {
			resp.Error = &ErrorObject{Code: -32602, Message: "path is required"}
			return resp
		}
		v, err := s.h.Signature(p)
		result(&resp, v, err)
	case "stats":
		p, perr := decode[StatsParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.Stats(p)
		result(&resp, v, err)
	case "watch.start":
		p, perr := decode[WatchStartParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.WatchStart(p)
		result(&resp, v, err)
	case "watch.stop":
		p, perr := decode[WatchStopParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.WatchStop(p)
		result(&resp, v, err)
	case "watch.status":
		p, perr := decode[WatchStopParams](req.Params)
		if perr != nil {
			resp.Error = perr
			return resp
		}
		if e := requireProject(p.ProjectID); e != nil {
			resp.Error = e
			return resp
		}
		v, err := s.h.WatchStatus(p)
		result(&resp, v, err)
	default:
		resp.Error = &ErrorObject{Code: -32601, Message: "method not found"}
	}

	return resp
}

func requireProject(id string) *ErrorObject {
	if strings.TrimSpace(id) == "" {
		return &ErrorObject{Code: -32602, Message: "project_id is required"}
	}
	return nil
}
