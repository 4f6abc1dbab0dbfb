// Package probe implements a minimal smoke-test client for the MCP
// server: two fixed request/response exchanges over one TCP connection,
// with the decoded replies pretty-printed to an output writer.
//
// The probe is deliberately primitive. Each response is taken from a
// single read of at most 4096 bytes with no reassembly and no timeout,
// which is sufficient for the small, local payloads it targets. A reply
// truncated beyond one read surfaces as a JSON decode error, not as a
// detected truncation.
package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/freeshineit/mcp-server-go/internal/jsonrpc"
	"github.com/freeshineit/mcp-server-go/internal/mcp"
)

// DefaultAddr is the endpoint probed when no address is given.
const DefaultAddr = "127.0.0.1:8080"

const readBufSize = 4096

// Run dials addr, sends a tools/list request followed by a tools/call
// of get_weather, and writes both pretty-printed responses to out.
// The two exchanges are strictly sequential on the same connection.
func Run(addr string, out io.Writer) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	listID := int64(1)
	if err := exchange(conn, out, "tool list response:", jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		Method:  mcp.MethodListTools,
		ID:      &listID,
	}); err != nil {
		return err
	}

	params, err := json.Marshal(mcp.CallToolParams{
		Name:      "get_weather",
		Arguments: map[string]interface{}{"city": "北京"},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal tools/call params: %w", err)
	}
	callID := int64(2)
	return exchange(conn, out, "weather query response:", jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		Method:  mcp.MethodCallTool,
		Params:  params,
		ID:      &callID,
	})
}

// exchange writes one newline-delimited request and prints the reply
// from a single read under the given label.
func exchange(conn net.Conn, out io.Writer, label string, req jsonrpc.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", req.Method, err)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to send %s request: %w", req.Method, err)
	}

	buf := make([]byte, readBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", req.Method, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(buf[:n]), "", "  "); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.Method, err)
	}

	if _, err := fmt.Fprintf(out, "%s\n%s\n\n", label, pretty.String()); err != nil {
		return err
	}
	return nil
}
