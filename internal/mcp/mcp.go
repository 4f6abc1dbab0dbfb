// Package mcp holds the wire-level data model of the Model Context
// Protocol as this server speaks it: tools with JSON-schema style input
// descriptions, text content blocks, and readable resources.
package mcp

// Protocol method names handled by the server.
const (
	MethodInitialize    = "initialize"
	MethodListTools     = "tools/list"
	MethodCallTool      = "tools/call"
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"
)

// ProtocolVersion is the MCP revision announced in the initialize message.
const ProtocolVersion = "2024-11-05"

type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

type ToolInputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Content is a single block of tool or resource output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
}

type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

type CallToolResult struct {
	Content []Content `json:"content"`
}

type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

type ReadResourceParams struct {
	URI string `json:"uri"`
}

type ReadResourceResult struct {
	Contents []Content `json:"contents"`
}

type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// InitializeParams is pushed by the server when a client connects.
// Capability values are empty objects for now; the keys advertise
// which surfaces this server exposes.
type InitializeParams struct {
	ProtocolVersion string              `json:"protocolVersion"`
	Capabilities    map[string]struct{} `json:"capabilities"`
}
