package port

import "net/http"

// ExchangeHandler handles one inbound exchange end to end. A returned
// drop sentinel tells the server to abort the connection instead of
// answering.
type ExchangeHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}
