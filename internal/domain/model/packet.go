package model

import (
	"net/http"
	"sort"
	"time"
)

// PacketKind identifies one direction of an exchange together with the
// chaos gate's drop decision for it.
type PacketKind int

const (
	// PacketRequest is a request that will be forwarded upstream
	PacketRequest PacketKind = iota
	// PacketResponse is a response that will be returned to the caller
	PacketResponse
	// PacketRequestDropped is a request the chaos gate decided to drop
	PacketRequestDropped
	// PacketResponseDropped is a response the chaos gate decided to drop
	PacketResponseDropped
)

// PacketType classifies one direction of an exchange. Dropped packets
// carry the delay to suspend for before failing the exchange.
type PacketType struct {
	Kind  PacketKind
	Delay time.Duration
}

// RequestPacket returns the classification for a normally forwarded request
func RequestPacket() PacketType {
	return PacketType{Kind: PacketRequest}
}

// ResponsePacket returns the classification for a normally returned response
func ResponsePacket() PacketType {
	return PacketType{Kind: PacketResponse}
}

// DroppedRequestPacket returns the classification for a dropped request
func DroppedRequestPacket(delay time.Duration) PacketType {
	return PacketType{Kind: PacketRequestDropped, Delay: delay}
}

// DroppedResponsePacket returns the classification for a dropped response
func DroppedResponsePacket(delay time.Duration) PacketType {
	return PacketType{Kind: PacketResponseDropped, Delay: delay}
}

// Dropped reports whether the chaos gate decided to drop this packet
func (p PacketType) Dropped() bool {
	return p.Kind == PacketRequestDropped || p.Kind == PacketResponseDropped
}

// IsRequest reports whether this packet is the request direction
func (p PacketType) IsRequest() bool {
	return p.Kind == PacketRequest || p.Kind == PacketRequestDropped
}

// Label returns the packet-type label used in log output
func (p PacketType) Label() string {
	switch p.Kind {
	case PacketRequest:
		return "REQUEST"
	case PacketResponse:
		return "RESPONSE"
	case PacketRequestDropped:
		return "DROPPED REQUEST"
	case PacketResponseDropped:
		return "DROPPED RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// MatchesScope reports whether a suppression rule with the given scope
// applies to this packet's direction
func (p PacketType) MatchesScope(scope SuppressScope) bool {
	switch scope {
	case SuppressAll:
		return true
	case SuppressRequestOnly:
		return p.IsRequest()
	case SuppressResponseOnly:
		return !p.IsRequest()
	default:
		return false
	}
}

// HeaderPair is one header name/value pair
type HeaderPair struct {
	Name  string
	Value string
}

// HeaderSnapshot is an ordered copy of headers taken at decision time,
// independent of the live request/response lifetime
type HeaderSnapshot []HeaderPair

// SnapshotHeaders copies headers into a deterministic, name-ordered snapshot
func SnapshotHeaders(h http.Header) HeaderSnapshot {
	if len(h) == 0 {
		return nil
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	snapshot := make(HeaderSnapshot, 0, len(h))
	for _, name := range names {
		for _, value := range h[name] {
			snapshot = append(snapshot, HeaderPair{Name: name, Value: value})
		}
	}
	return snapshot
}
