package model

import "errors"

// Sentinel errors for chaos-dropped exchanges. The server aborts the
// connection instead of answering when it sees one of these.
var (
	// ErrRequestDropped fails an exchange before contacting upstream
	ErrRequestDropped = errors.New("request dropped")
	// ErrResponseDropped withholds the reply after upstream was contacted
	ErrResponseDropped = errors.New("response dropped")
)
