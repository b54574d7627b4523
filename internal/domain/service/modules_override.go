package service

import (
	"net/http"

	"github.com/tidwall/sjson"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
)

// ModulesOverride short-circuits rpc_modules calls with a locally
// synthesized response. Useful for attaching a geth console to endpoints
// that do not implement the rpc_modules method.
type ModulesOverride struct {
	modules []string
}

// NewModulesOverride creates a new ModulesOverride instance. It returns
// nil when no modules are configured, which disables the override.
func NewModulesOverride(modules []string) *ModulesOverride {
	if len(modules) == 0 {
		return nil
	}
	return &ModulesOverride{modules: modules}
}

// Applies reports whether the inbound body is a JSON-RPC rpc_modules call
func (o *ModulesOverride) Applies(body []byte) bool {
	if o == nil {
		return false
	}
	method, ok := model.SniffRpcMethod(body)
	return ok && method == "rpc_modules"
}

// Response synthesizes the rpc_modules result, mapping each configured
// module in order to "1.0"
func (o *ModulesOverride) Response() *model.Response {
	body := []byte(`{}`)
	body, _ = sjson.SetBytes(body, "jsonrpc", "2.0")
	body, _ = sjson.SetRawBytes(body, "result", []byte(`{}`))
	for _, module := range o.modules {
		body, _ = sjson.SetBytes(body, "result."+module, "1.0")
	}
	body, _ = sjson.SetBytes(body, "id", 1)

	return &model.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}
}
