package model

import (
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// JSON-RPC shapes are recognized on a best-effort basis for display and
// suppression matching only; the proxy never enforces them on the wire.

// RpcError is the error member of a JSON-RPC error response
type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RpcErrorResponse is the JSON-RPC error response shape
type RpcErrorResponse struct {
	ID      int      `json:"id"`
	Jsonrpc string   `json:"jsonrpc"`
	Error   RpcError `json:"error"`
}

// Response is the buffered upstream response mirrored back to the caller
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// SniffRpcMethod extracts the method of a JSON-RPC call body. It returns
// false when the body does not match the {id, jsonrpc, method, params}
// request shape.
func SniffRpcMethod(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	if gjson.GetBytes(body, "id").Type != gjson.Number {
		return "", false
	}
	if gjson.GetBytes(body, "jsonrpc").Type != gjson.String {
		return "", false
	}
	method := gjson.GetBytes(body, "method")
	if method.Type != gjson.String {
		return "", false
	}
	if params := gjson.GetBytes(body, "params"); params.Exists() && !params.IsArray() {
		return "", false
	}
	return method.Str, true
}

// IsRpcErrorShape reports whether a body matches the JSON-RPC error
// response shape {id, jsonrpc, error:{code, message}}
func IsRpcErrorShape(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	if gjson.GetBytes(body, "id").Type != gjson.Number {
		return false
	}
	if gjson.GetBytes(body, "jsonrpc").Type != gjson.String {
		return false
	}
	if gjson.GetBytes(body, "error.code").Type != gjson.Number {
		return false
	}
	return gjson.GetBytes(body, "error.message").Type == gjson.String
}

// NewInternalErrorBody builds the synthesized JSON-RPC internal error
// body for a failed exchange phase
func NewInternalErrorBody(phase string, cause error) []byte {
	rpcErr := RpcErrorResponse{
		ID:      1,
		Jsonrpc: "2.0",
		Error: RpcError{
			Code:    -32603,
			Message: phase + ": " + cause.Error(),
		},
	}
	body, err := json.MarshalIndent(rpcErr, "", "  ")
	if err != nil {
		// the shape above always marshals
		return []byte(`{"id":1,"jsonrpc":"2.0","error":{"code":-32603,"message":"` + phase + `"}}`)
	}
	return body
}

// NewInternalErrorResponse wraps a synthesized internal error body in a
// 500 response
func NewInternalErrorResponse(phase string, cause error) *Response {
	return &Response{
		StatusCode: http.StatusInternalServerError,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       NewInternalErrorBody(phase, cause),
	}
}
