package transport

import (
	"errors"
	"net"
	"net/http"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// Server is the inbound HTTP listener. Every accepted exchange runs as
// its own goroutine; no admission limit is imposed.
type Server struct {
	addr    string
	handler port.ExchangeHandler
	logger  port.Logger
}

// NewServer creates a new Server instance
func NewServer(addr string, handler port.ExchangeHandler, logger port.Logger) *Server {
	return &Server{
		addr:    addr,
		handler: handler,
		logger:  logger,
	}
}

// ServeHTTP dispatches one exchange to the handler. A dropped exchange
// aborts the connection without a reply.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := s.handler.Handle(w, r)
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrRequestDropped) || errors.Is(err, model.ErrResponseDropped) {
		panic(http.ErrAbortHandler)
	}
	s.logger.Error("exchange failed: %v", err)
}

// Start binds the listen address and serves until the listener fails.
// A bind failure is returned to the caller instead of being retried.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening on %s", s.addr)
	return http.Serve(listener, s)
}
