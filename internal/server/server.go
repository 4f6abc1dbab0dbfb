// Package server implements the newline-delimited JSON-RPC 2.0 listener
// that exposes tool and resource registries over TCP.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freeshineit/mcp-server-go/internal/jsonrpc"
	"github.com/freeshineit/mcp-server-go/internal/logger"
	"github.com/freeshineit/mcp-server-go/internal/mcp"
	"github.com/freeshineit/mcp-server-go/internal/resources"
	"github.com/freeshineit/mcp-server-go/internal/tools"
)

// Server accepts TCP connections and serves MCP requests on each,
// one goroutine per connection. The registries are shared across
// connections.
type Server struct {
	addr      string
	tools     *tools.Registry
	resources *resources.Registry
	log       zerolog.Logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func New(addr string, t *tools.Registry, r *resources.Registry) *Server {
	return &Server{
		addr:      addr,
		tools:     t,
		resources: r,
		log:       logger.WithComponent("server"),
	}
}

// Listen binds the TCP listener without accepting yet. Addr is valid
// after Listen returns, which lets callers bind to port 0.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Info().Str("address", ln.Addr().String()).Msg("listening")
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until the listener is closed. It returns
// nil after Close.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server: Serve called before Listen")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting and waits for in-flight connections to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.wg.Wait()
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	log := s.log.With().
		Str("conn_id", connID).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	log.Debug().Msg("connection accepted")

	if err := s.writeInitialize(conn); err != nil {
		log.Error().Err(err).Msg("failed to send initialize")
		return
	}

	scanner := bufio.NewScanner(conn)
	// Lines larger than the default scanner buffer are still valid requests.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp, err := s.dispatch(line)
		if err != nil {
			log.Error().Err(err).Msg("failed to handle message")
			continue
		}
		if err := writeResponse(conn, resp); err != nil {
			log.Error().Err(err).Msg("failed to write response")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debug().Err(err).Msg("connection read ended")
	}
	log.Debug().Msg("connection closed")
}

// writeInitialize pushes the server's capabilities to a freshly
// connected client before any request arrives.
func (s *Server) writeInitialize(conn net.Conn) error {
	params, err := json.Marshal(mcp.InitializeParams{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities: map[string]struct{}{
			"tools":     {},
			"resources": {},
		},
	})
	if err != nil {
		return err
	}
	id := int64(1)
	msg := jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		Method:  mcp.MethodInitialize,
		Params:  params,
		ID:      &id,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = conn.Write(append(data, '\n'))
	return err
}

// dispatch routes one raw request line to its handler. A nil error with
// a response means the response must be written; an error means the
// message is logged and dropped without a reply.
func (s *Server) dispatch(raw []byte) (jsonrpc.Response, error) {
	var req jsonrpc.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return jsonrpc.Response{}, fmt.Errorf("failed to parse request: %w", err)
	}

	switch req.Method {
	case mcp.MethodListTools:
		return s.handleListTools(req), nil
	case mcp.MethodCallTool:
		return s.handleCallTool(req)
	case mcp.MethodListResources:
		return s.handleListResources(req), nil
	case mcp.MethodReadResource:
		return s.handleReadResource(req)
	default:
		return jsonrpc.NewError(req.ID, jsonrpc.CodeMethodNotFound, "method not found"), nil
	}
}

func (s *Server) handleListTools(req jsonrpc.Request) jsonrpc.Response {
	return jsonrpc.NewResult(req.ID, mcp.ListToolsResult{Tools: s.tools.List()})
}

func (s *Server) handleCallTool(req jsonrpc.Request) (jsonrpc.Response, error) {
	var params mcp.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.Response{}, fmt.Errorf("failed to parse tools/call params: %w", err)
	}

	result, err := s.tools.Call(context.Background(), params)
	if err != nil {
		var notFound *tools.ErrNotFound
		if errors.As(err, &notFound) {
			return jsonrpc.NewError(req.ID, jsonrpc.CodeMethodNotFound, "tool not found"), nil
		}
		return jsonrpc.Response{}, fmt.Errorf("tool %q failed: %w", params.Name, err)
	}
	return jsonrpc.NewResult(req.ID, result), nil
}

func (s *Server) handleListResources(req jsonrpc.Request) jsonrpc.Response {
	return jsonrpc.NewResult(req.ID, mcp.ListResourcesResult{Resources: s.resources.List()})
}

func (s *Server) handleReadResource(req jsonrpc.Request) (jsonrpc.Response, error) {
	var params mcp.ReadResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.Response{}, fmt.Errorf("failed to parse resources/read params: %w", err)
	}

	contents, err := s.resources.Read(params.URI)
	if err != nil {
		var notFound *resources.ErrNotFound
		if errors.As(err, &notFound) {
			return jsonrpc.NewError(req.ID, jsonrpc.CodeInvalidParams, "resource not found"), nil
		}
		return jsonrpc.Response{}, fmt.Errorf("resource %q failed: %w", params.URI, err)
	}
	return jsonrpc.NewResult(req.ID, mcp.ReadResourceResult{Contents: contents}), nil
}

func writeResponse(conn net.Conn, resp jsonrpc.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err = conn.Write(append(data, '\n'))
	return err
}
