package a2a

import "encoding/json"

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeHandlerError   = -32000
)

type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Method  string        `json:"method"`
	Params  RequestParams `json:"params"`
}

type RequestParams struct {
	Message json.RawMessage `json:"message"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  *ResponseResult `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type ResponseResult struct {
	Message json.RawMessage `json:"message"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
