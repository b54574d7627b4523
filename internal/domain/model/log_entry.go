package model

// LogEntry is one exchange direction ready for presentation, created
// per exchange and discarded once logged
type LogEntry struct {
	// Packet is the direction and drop classification
	Packet PacketType
	// Body is the raw body of this direction
	Body []byte
	// Headers is the snapshot taken at decision time
	Headers HeaderSnapshot
	// Message is the suffix after the label (request path or rule label)
	Message string
	// Status is the response status code, 0 to omit
	Status int
	// Decision is the matched suppression rule, nil to log in full
	Decision *SuppressDecision
}
