package service

import (
	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// SuppressionEngine decides whether and how much of an exchange
// direction to log, based on the configured method and path tables.
type SuppressionEngine struct {
	methods model.SuppressTable
	paths   model.SuppressTable
	logger  port.Logger
}

// NewSuppressionEngine creates a new SuppressionEngine instance
func NewSuppressionEngine(methods, paths model.SuppressTable, logger port.Logger) *SuppressionEngine {
	return &SuppressionEngine{
		methods: methods,
		paths:   paths,
		logger:  logger,
	}
}

// Decide matches one direction of an exchange against the suppression
// tables. A dropped exchange bypasses suppression entirely, method rules
// win over path rules, and nil means log in full without a label.
func (e *SuppressionEngine) Decide(direction model.PacketType, requestBody []byte, requestPath string, requestType, responseType model.PacketType) *model.SuppressDecision {
	if requestType.Dropped() || responseType.Dropped() {
		// a dropped direction is always logged in full
		return nil
	}

	if len(e.methods) > 0 {
		if method, ok := model.SniffRpcMethod(requestBody); ok {
			if rule, found := e.methods[method]; found && direction.MatchesScope(rule.Scope) {
				return &model.SuppressDecision{Lines: rule.Lines, Label: "[method " + method + "]"}
			}
		} else if direction.IsRequest() && len(requestBody) > 0 && e.logger != nil {
			e.logger.Warn("request body does not match the JSON-RPC call shape, method suppression not applied")
		}
	}

	if rule, found := e.paths[requestPath]; found && direction.MatchesScope(rule.Scope) {
		return &model.SuppressDecision{Lines: rule.Lines, Label: requestPath}
	}

	return nil
}
