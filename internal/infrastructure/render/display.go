package render

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// DisplayJSON renders a body for terminal display. An empty body becomes
// the literal null, a parseable JSON body is pretty-printed, and
// anything else passes through verbatim so decoding never blocks
// forwarding.
func DisplayJSON(body []byte) string {
	if len(body) == 0 {
		return "null"
	}
	if !gjson.ValidBytes(body) {
		return string(body)
	}
	return strings.TrimSuffix(string(pretty.Pretty(body)), "\n")
}

// Truncate keeps at most limit lines of a rendered body, eliding the
// middle with a single "..." marker. The first half rounds up, the
// second half rounds down. A non-positive limit yields an empty body.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	head := (limit + 1) / 2
	tail := limit / 2

	out := make([]string, 0, limit+1)
	out = append(out, lines[:head]...)
	out = append(out, "...")
	out = append(out, lines[len(lines)-tail:]...)
	return strings.Join(out, "\n")
}
