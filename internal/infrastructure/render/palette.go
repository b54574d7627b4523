package render

import (
	"strings"

	"github.com/fatih/color"
)

// Palette holds the terminal colors used for presenting exchanges.
// Colors are forced on or off at construction so output does not depend
// on whether stdout happens to be a terminal.
type Palette struct {
	// Info colors request bodies
	Info *color.Color
	// Success colors response bodies
	Success *color.Color
	// Error colors JSON-RPC error responses and synthesized failures
	Error *color.Color
	// Muted colors dropped packets regardless of content
	Muted *color.Color
}

// NewPalette creates a new Palette instance. With disable set, every
// color collapses to the empty escape so output is byte-identical to
// colored output with escape sequences stripped.
func NewPalette(disable bool) *Palette {
	p := &Palette{
		Info:    color.New(color.FgCyan),
		Success: color.New(color.FgGreen),
		Error:   color.New(color.FgRed),
		Muted:   color.New(color.FgWhite),
	}
	for _, c := range []*color.Color{p.Info, p.Success, p.Error, p.Muted} {
		if disable {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// Wrap colors a multi-line string line by line: each line starts the
// color and resets it before the newline, so line-oriented viewers like
// less never lose color context.
func (p *Palette) Wrap(s string, c *color.Color) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(c.Sprint(line))
		b.WriteByte('\n')
	}
	return b.String()
}
