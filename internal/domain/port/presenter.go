package port

import "github.com/rpcsnoop/rpcsnoop/internal/domain/model"

// Presenter formats logging decisions into terminal output
type Presenter interface {
	// Present writes one exchange direction to the terminal
	Present(entry model.LogEntry)

	// PresentError writes a synthesized error body in the error color
	PresentError(body []byte)
}
