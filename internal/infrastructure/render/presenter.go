package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// timestampLayout renders local time with millisecond precision
const timestampLayout = "Jan _2 15:04:05.000 2006"

// Presenter formats logging decisions into colorized terminal output.
// Each entry is written in a single Write so blocks from concurrent
// exchanges do not interleave mid-entry.
type Presenter struct {
	mu         sync.Mutex
	out        io.Writer
	palette    *Palette
	logHeaders bool
	now        func() time.Time
}

// NewPresenter creates a new Presenter instance
func NewPresenter(out io.Writer, palette *Palette, logHeaders bool) *Presenter {
	return &Presenter{
		out:        out,
		palette:    palette,
		logHeaders: logHeaders,
		now:        time.Now,
	}
}

// Present writes one exchange direction to the terminal
func (p *Presenter) Present(entry model.LogEntry) {
	var b strings.Builder

	b.WriteString(p.now().Format(timestampLayout))
	b.WriteByte(' ')
	b.WriteString(entry.Packet.Label())
	if entry.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", entry.Status)
	}
	b.WriteByte(' ')
	if entry.Message != "" && entry.Message != "/" {
		b.WriteString(entry.Message)
	}
	b.WriteByte('\n')

	if p.logHeaders && len(entry.Headers) > 0 {
		b.WriteString("headers:\n")
		for _, h := range entry.Headers {
			fmt.Fprintf(&b, "    (%s,%q)\n", h.Name, h.Value)
		}
	}

	display := DisplayJSON(entry.Body)
	if entry.Decision != nil {
		display = Truncate(display, entry.Decision.Lines)
	}
	b.WriteString(p.palette.Wrap(display, p.colorFor(entry)))
	b.WriteByte('\n')

	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, b.String())
}

// PresentError writes a synthesized error body in the error color
func (p *Presenter) PresentError(body []byte) {
	out := p.palette.Wrap(DisplayJSON(body), p.palette.Error)

	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, out)
}

// colorFor picks the body color: dropped packets are muted regardless of
// content, requests informational, responses green unless the body
// parses as a JSON-RPC error shape
func (p *Presenter) colorFor(entry model.LogEntry) *color.Color {
	if entry.Packet.Dropped() {
		return p.palette.Muted
	}
	if entry.Packet.IsRequest() {
		return p.palette.Info
	}
	if model.IsRpcErrorShape(entry.Body) {
		return p.palette.Error
	}
	return p.palette.Success
}

// Ensure Presenter implements port.Presenter
var _ port.Presenter = (*Presenter)(nil)
