package port

import "net/http"

// Forwarder builds the outbound request from the inbound one
type Forwarder interface {
	// BuildOutbound rebuilds the inbound request for the destination
	// endpoint and returns it together with the buffered inbound body
	BuildOutbound(r *http.Request) (*http.Request, []byte, error)
}
