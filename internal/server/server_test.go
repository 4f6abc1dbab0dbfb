package server

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"testing"

	"github.com/freeshineit/mcp-server-go/internal/resources"
	"github.com/freeshineit/mcp-server-go/internal/tools"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	srv := New("127.0.0.1:0", tools.NewRegistry(), resources.NewRegistry())
	if err := srv.Listen(); err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return srv.Addr().String()
}

// dial connects to the server and consumes the initialize message the
// server pushes on connect, returning it decoded.
func dial(t *testing.T, addr string) (net.Conn, *bufio.Reader, map[string]interface{}) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	reader := bufio.NewReader(conn)
	init := readMessage(t, reader)
	return conn, reader, init
}

func readMessage(t *testing.T, reader *bufio.Reader) map[string]interface{} {
	t.Helper()
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]interface{}
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		t.Fatalf("message is not valid JSON: %v\nline: %s", err, line)
	}
	return msg
}

func send(t *testing.T, conn net.Conn, req string) {
	t.Helper()
	if _, err := conn.Write([]byte(req + "\n")); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}
}

func result(t *testing.T, msg map[string]interface{}) map[string]interface{} {
	t.Helper()
	res, ok := msg["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("message has no result object: %v", msg)
	}
	return res
}

func TestInitializePushedOnConnect(t *testing.T) {
	addr := startTestServer(t)
	_, _, init := dial(t, addr)

	if init["method"] != "initialize" {
		t.Fatalf("first message method = %v, want initialize", init["method"])
	}
	params, ok := init["params"].(map[string]interface{})
	if !ok {
		t.Fatal("initialize message has no params")
	}
	if params["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion = %v", params["protocolVersion"])
	}
	caps, ok := params["capabilities"].(map[string]interface{})
	if !ok {
		t.Fatal("initialize message has no capabilities")
	}
	for _, key := range []string{"tools", "resources"} {
		if _, ok := caps[key]; !ok {
			t.Errorf("capabilities missing %q", key)
		}
	}
}

func TestListTools(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"tools/list","id":7}`)
	msg := readMessage(t, reader)

	if msg["id"] != float64(7) {
		t.Errorf("response id = %v, want 7", msg["id"])
	}
	toolList, ok := result(t, msg)["tools"].([]interface{})
	if !ok {
		t.Fatalf("result has no tools array: %v", msg)
	}
	if len(toolList) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(toolList))
	}
	first := toolList[0].(map[string]interface{})
	if _, ok := first["inputSchema"]; !ok {
		t.Error("tool definition missing inputSchema")
	}
}

func TestCallWeatherTool(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"get_weather","arguments":{"city":"北京"}},"id":2}`)
	msg := readMessage(t, reader)

	content, ok := result(t, msg)["content"].([]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", msg)
	}
	block := content[0].(map[string]interface{})
	if block["type"] != "text" {
		t.Errorf("content type = %v, want text", block["type"])
	}
	if text, _ := block["text"].(string); !strings.Contains(text, "北京") {
		t.Errorf("weather text does not mention the city: %q", text)
	}
}

func TestUnknownMethod(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"bogus/method","id":3}`)
	msg := readMessage(t, reader)

	errObj, ok := msg["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error response, got %v", msg)
	}
	if errObj["code"] != float64(-32601) {
		t.Errorf("error code = %v, want -32601", errObj["code"])
	}
}

func TestUnknownTool(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"no_such_tool","arguments":{}},"id":4}`)
	msg := readMessage(t, reader)

	errObj, ok := msg["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error response, got %v", msg)
	}
	if errObj["code"] != float64(-32601) {
		t.Errorf("error code = %v, want -32601", errObj["code"])
	}
	if errObj["message"] != "tool not found" {
		t.Errorf("error message = %v", errObj["message"])
	}
}

func TestFailedToolCallIsDropped(t *testing.T) {
	// A tool call with a missing required argument is logged and
	// dropped. The connection stays usable.
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"get_weather","arguments":{}},"id":5}`)
	send(t, conn, `{"jsonrpc":"2.0","method":"tools/list","id":6}`)

	msg := readMessage(t, reader)
	if msg["id"] != float64(6) {
		t.Fatalf("expected the tools/list response (id 6), got %v", msg)
	}
}

func TestListResources(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"resources/list","id":8}`)
	msg := readMessage(t, reader)

	resourceList, ok := result(t, msg)["resources"].([]interface{})
	if !ok {
		t.Fatalf("result has no resources array: %v", msg)
	}
	var uris []string
	for _, r := range resourceList {
		uris = append(uris, r.(map[string]interface{})["uri"].(string))
	}
	found := false
	for _, uri := range uris {
		if uri == "file:///etc/hosts" {
			found = true
		}
	}
	if !found {
		t.Errorf("resources = %v, want file:///etc/hosts present", uris)
	}
}

func TestReadResource(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"resources/read","params":{"uri":"file:///etc/hosts"},"id":9}`)
	msg := readMessage(t, reader)

	contents, ok := result(t, msg)["contents"].([]interface{})
	if !ok || len(contents) == 0 {
		t.Fatalf("unexpected contents: %v", msg)
	}
	block := contents[0].(map[string]interface{})
	if text, _ := block["text"].(string); !strings.Contains(text, "localhost") {
		t.Errorf("unexpected hosts content: %q", text)
	}
}

func TestReadUnknownResource(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `{"jsonrpc":"2.0","method":"resources/read","params":{"uri":"file:///nope"},"id":10}`)
	msg := readMessage(t, reader)

	errObj, ok := msg["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error response, got %v", msg)
	}
	if errObj["code"] != float64(-32602) {
		t.Errorf("error code = %v, want -32602", errObj["code"])
	}
}

func TestMalformedRequestIsDropped(t *testing.T) {
	addr := startTestServer(t)
	conn, reader, _ := dial(t, addr)

	send(t, conn, `this is not json`)
	send(t, conn, ``) // blank lines are skipped too
	send(t, conn, `{"jsonrpc":"2.0","method":"tools/list","id":11}`)

	msg := readMessage(t, reader)
	if msg["id"] != float64(11) {
		t.Fatalf("expected the tools/list response (id 11), got %v", msg)
	}
}

func TestConcurrentConnections(t *testing.T) {
	addr := startTestServer(t)

	conn1, reader1, _ := dial(t, addr)
	conn2, reader2, _ := dial(t, addr)

	send(t, conn2, `{"jsonrpc":"2.0","method":"tools/list","id":21}`)
	send(t, conn1, `{"jsonrpc":"2.0","method":"tools/list","id":20}`)

	if msg := readMessage(t, reader1); msg["id"] != float64(20) {
		t.Errorf("connection 1 got response %v", msg)
	}
	if msg := readMessage(t, reader2); msg["id"] != float64(21) {
		t.Errorf("connection 2 got response %v", msg)
	}
}
