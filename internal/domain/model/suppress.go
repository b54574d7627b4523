package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SuppressScope defines which direction of an exchange a suppression
// rule applies to
type SuppressScope int

const (
	// SuppressAll suppresses both the request and the response log
	SuppressAll SuppressScope = iota
	// SuppressRequestOnly suppresses only the request log
	SuppressRequestOnly
	// SuppressResponseOnly suppresses only the response log
	SuppressResponseOnly
)

// String returns the string representation of the scope
func (s SuppressScope) String() string {
	switch s {
	case SuppressRequestOnly:
		return "REQUEST"
	case SuppressResponseOnly:
		return "RESPONSE"
	default:
		return "ALL"
	}
}

// ParseSuppressScope converts a string to SuppressScope (case-insensitive)
func ParseSuppressScope(s string) (SuppressScope, error) {
	switch strings.ToUpper(s) {
	case "REQUEST":
		return SuppressRequestOnly, nil
	case "RESPONSE":
		return SuppressResponseOnly, nil
	case "ALL":
		return SuppressAll, nil
	default:
		return SuppressAll, fmt.Errorf("invalid suppress type %q (expected REQUEST, RESPONSE or ALL)", s)
	}
}

// SuppressRule is the degree and scope of suppression for one method or path.
// Lines < 0 suppresses the log entirely, 0 keeps only the header line,
// > 0 truncates the body to that many lines.
type SuppressRule struct {
	Lines int
	Scope SuppressScope
}

// SuppressTable maps a method name or request path to its rule
type SuppressTable map[string]SuppressRule

// SuppressDecision is the outcome of matching an exchange direction
// against the suppression tables
type SuppressDecision struct {
	Lines int
	Label string
}

// ParseSuppressValue parses the VALUE[:LINES][:TYPE] flag grammar.
// LINES defaults to -1 and TYPE to ALL when omitted.
func ParseSuppressValue(value string) (string, SuppressRule, error) {
	rule := SuppressRule{Lines: -1, Scope: SuppressAll}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return "", rule, fmt.Errorf("invalid suppress value %q: too many fields", value)
	}
	if parts[0] == "" {
		return "", rule, fmt.Errorf("invalid suppress value %q: empty name", value)
	}

	if len(parts) >= 2 {
		lines, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", rule, fmt.Errorf("invalid suppress value %q: LINES must be an integer", value)
		}
		rule.Lines = lines
	}
	if len(parts) == 3 {
		scope, err := ParseSuppressScope(parts[2])
		if err != nil {
			return "", rule, fmt.Errorf("invalid suppress value %q: %v", value, err)
		}
		rule.Scope = scope
	}

	return parts[0], rule, nil
}

// ParseSuppressTable parses a list of VALUE[:LINES][:TYPE] entries into a table
func ParseSuppressTable(values []string) (SuppressTable, error) {
	if len(values) == 0 {
		return nil, nil
	}
	table := make(SuppressTable, len(values))
	for _, value := range values {
		name, rule, err := ParseSuppressValue(value)
		if err != nil {
			return nil, err
		}
		table[name] = rule
	}
	return table, nil
}
