package service

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	domain "github.com/rpcsnoop/rpcsnoop/internal/domain/service"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// ProxyService orchestrates one exchange: build the outbound request,
// classify both directions, decide logging, present, and produce exactly
// one response (forwarded, overridden, error, or drop failure).
type ProxyService struct {
	forwarder   port.Forwarder
	upstream    port.Upstream
	chaos       *domain.ChaosGate
	suppression *domain.SuppressionEngine
	override    *domain.ModulesOverride
	presenter   port.Presenter
	logger      port.Logger
}

// NewProxyService creates a new ProxyService instance
func NewProxyService(
	forwarder port.Forwarder,
	upstream port.Upstream,
	chaos *domain.ChaosGate,
	suppression *domain.SuppressionEngine,
	override *domain.ModulesOverride,
	presenter port.Presenter,
	logger port.Logger,
) *ProxyService {
	return &ProxyService{
		forwarder:   forwarder,
		upstream:    upstream,
		chaos:       chaos,
		suppression: suppression,
		override:    override,
		presenter:   presenter,
		logger:      logger,
	}
}

// Handle processes one inbound exchange end to end
func (s *ProxyService) Handle(w http.ResponseWriter, r *http.Request) error {
	exchangeID := uuid.NewString()
	requestPath := r.URL.Path

	outbound, body, err := s.forwarder.BuildOutbound(r)
	if err != nil {
		return s.failRequest(w, exchangeID, err)
	}
	s.logger.Debug("exchange %s: %s %s -> %s", exchangeID, r.Method, requestPath, outbound.URL)

	// Both directions are classified before anything is logged: the
	// suppression bypass for dropped exchanges needs the response
	// classification ahead of the request log line.
	requestType := s.chaos.ClassifyRequest()
	responseType := s.chaos.ClassifyResponse()

	s.present(requestType, body, model.SnapshotHeaders(outbound.Header), requestPath, 0,
		body, requestPath, requestType, responseType)

	if requestType.Dropped() {
		s.logger.Info("exchange %s: request dropped, failing after %s", exchangeID, requestType.Delay)
		time.Sleep(requestType.Delay)
		return model.ErrRequestDropped
	}

	var resp *model.Response
	if s.override.Applies(body) {
		s.logger.Debug("exchange %s: rpc_modules override applied", exchangeID)
		resp = s.override.Response()
	} else {
		resp, err = s.upstream.Retrieve(outbound)
		if err != nil {
			s.logger.Error("exchange %s: retrieving response: %v", exchangeID, err)
			resp = model.NewInternalErrorResponse("processing response", err)
		}
	}

	s.present(responseType, resp.Body, model.SnapshotHeaders(resp.Header), "", resp.StatusCode,
		body, requestPath, requestType, responseType)

	if responseType.Dropped() {
		s.logger.Info("exchange %s: response dropped, failing after %s", exchangeID, responseType.Delay)
		time.Sleep(responseType.Delay)
		return model.ErrResponseDropped
	}

	for name, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Warn("exchange %s: writing response to caller: %v", exchangeID, err)
	}
	return nil
}

// present logs one direction of the exchange, honoring the suppression
// decision for it
func (s *ProxyService) present(
	packet model.PacketType,
	directionBody []byte,
	headers model.HeaderSnapshot,
	defaultMessage string,
	status int,
	requestBody []byte,
	requestPath string,
	requestType, responseType model.PacketType,
) {
	decision := s.suppression.Decide(packet, requestBody, requestPath, requestType, responseType)
	if decision != nil && decision.Lines < 0 {
		// suppressed entirely, not even a header line
		return
	}
	message := defaultMessage
	if decision != nil && packet.IsRequest() {
		message = decision.Label
	}
	s.presenter.Present(model.LogEntry{
		Packet:   packet,
		Body:     directionBody,
		Headers:  headers,
		Message:  message,
		Status:   status,
		Decision: decision,
	})
}

// failRequest answers a request that could not be rebuilt for the
// destination; the request is not forwarded
func (s *ProxyService) failRequest(w http.ResponseWriter, exchangeID string, cause error) error {
	s.logger.Error("exchange %s: building outbound request: %v", exchangeID, cause)

	body := model.NewInternalErrorBody("processing request", cause)
	s.presenter.PresentError(body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("exchange %s: writing error response to caller: %v", exchangeID, err)
	}
	return nil
}

// Ensure ProxyService implements port.ExchangeHandler
var _ port.ExchangeHandler = (*ProxyService)(nil)
