package transport

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// Upstream retrieves responses from the destination endpoint. Plain and
// encrypted HTTP are selected by the destination scheme; ws and wss
// destinations are served by a one-shot websocket exchange. Bodies are
// always buffered completely so they can be re-rendered for display.
type Upstream struct {
	client *http.Client
	logger port.Logger
}

// NewUpstream creates a new Upstream instance
func NewUpstream(logger port.Logger) *Upstream {
	return &Upstream{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				// keep the transport from negotiating compression on its
				// own; no accept-encoding must ever reach upstream
				DisableCompression: true,
			},
		},
		logger: logger,
	}
}

// Retrieve delivers the outbound request and buffers the complete response
func (u *Upstream) Retrieve(req *http.Request) (*model.Response, error) {
	switch req.URL.Scheme {
	case "ws", "wss":
		return u.retrieveWebSocket(req)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %v", err)
	}

	return &model.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

// retrieveWebSocket performs a one-shot exchange over a websocket
// destination: dial, write the request body as one text message, read
// one message back
func (u *Upstream) retrieveWebSocket(req *http.Request) (*model.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading outbound request body: %v", err)
	}

	header := req.Header.Clone()
	// the dialer owns the handshake headers
	for _, name := range []string{"Connection", "Upgrade", "Sec-Websocket-Key", "Sec-Websocket-Version", "Sec-Websocket-Extensions", "Sec-Websocket-Protocol", "Content-Length", "Content-Type"} {
		header.Del(name)
	}

	conn, handshake, err := websocket.DefaultDialer.Dial(req.URL.String(), header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %v", err)
	}
	defer conn.Close()
	if handshake != nil && handshake.Body != nil {
		handshake.Body.Close()
	}
	u.logger.Debug("websocket exchange with %s", req.URL.Host)

	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		return nil, fmt.Errorf("websocket write: %v", err)
	}
	_, reply, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("websocket read: %v", err)
	}

	return &model.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       reply,
	}, nil
}

// Ensure Upstream implements port.Upstream
var _ port.Upstream = (*Upstream)(nil)
