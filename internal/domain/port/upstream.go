package port

import (
	"net/http"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
)

// Upstream sends an outbound request to the destination endpoint and
// returns the response with its body fully buffered
type Upstream interface {
	// Retrieve delivers the outbound request and buffers the complete response
	Retrieve(req *http.Request) (*model.Response, error)
}
