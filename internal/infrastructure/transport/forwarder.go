package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// Forwarder builds outbound requests for the destination endpoint.
// Bodies pass through unmodified; only the target URI and a few headers
// are rewritten.
type Forwarder struct {
	dest *url.URL
	base string
}

// NewForwarder creates a new Forwarder instance for a destination endpoint
func NewForwarder(dest *url.URL) *Forwarder {
	return &Forwarder{
		dest: dest,
		base: strings.TrimRight(dest.String(), "/"),
	}
}

// BuildOutbound rebuilds the inbound request against the destination and
// returns it together with the buffered inbound body
func (f *Forwarder) BuildOutbound(r *http.Request) (*http.Request, []byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading request body: %v", err)
	}

	outbound, err := http.NewRequest(r.Method, f.destinationFor(r), bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("building outbound request: %v", err)
	}

	for name, values := range r.Header {
		switch strings.ToLower(name) {
		case "accept-encoding":
			// force an uncompressed upstream reply
			continue
		case "host":
			continue
		}
		outbound.Header[name] = append([]string(nil), values...)
	}
	outbound.Host = f.dest.Host

	return outbound, body, nil
}

// destinationFor composes the destination URI: the configured base with
// trailing slashes stripped plus the inbound path and query. A bare /
// with no query uses the base unmodified.
func (f *Forwarder) destinationFor(r *http.Request) string {
	if r.URL.Path == "/" && r.URL.RawQuery == "" {
		return f.dest.String()
	}
	target := f.base + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target
}

// Ensure Forwarder implements port.Forwarder
var _ port.Forwarder = (*Forwarder)(nil)
