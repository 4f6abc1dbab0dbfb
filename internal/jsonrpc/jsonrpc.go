package jsonrpc

import "encoding/json"

// Version is the protocol version carried in every message.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	// Params is left raw so each method can decode its own shape.
	Params json.RawMessage `json:"params,omitempty"`
	ID     *int64          `json:"id,omitempty"`
}

type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *ErrorObj   `json:"error,omitempty"`
	ID      *int64      `json:"id,omitempty"`
}

type ErrorObj struct {
	// The error type that occurred.
	Code int `json:"code"`
	// A short description of the error. The message SHOULD be limited
	// to a concise single sentence.
	Message string `json:"message"`
	// Additional information about the error. The value of this member
	// is defined by the sender (e.g. detailed error information, nested errors etc.).
	Data interface{} `json:"data,omitempty"`
}

// NewResult builds a success response for the given request id.
func NewResult(id *int64, result interface{}) Response {
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// NewError builds an error response for the given request id.
func NewError(id *int64, code int, message string) Response {
	return Response{
		JSONRPC: Version,
		Error:   &ErrorObj{Code: code, Message: message},
		ID:      id,
	}
}
