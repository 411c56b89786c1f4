package transform

import (
	"strings"

	"github.com/dcosson/castrec/internal/cast"
)

// NormalizeWhitespace collapses runs of spaces/tabs to a single space and
// caps consecutive newlines at MaxConsecutiveNewlines.
type NormalizeWhitespace struct {
	MaxConsecutiveNewlines int
}

func (n NormalizeWhitespace) Transform(events []cast.Event) []cast.Event {
	maxNL := n.MaxConsecutiveNewlines
	if maxNL <= 0 {
		maxNL = 2
	}
	out := make([]cast.Event, len(events))
	for i, ev := range events {
		out[i] = ev
		if ev.Kind == cast.KindOutput {
			out[i].Payload = normalizeWhitespace(ev.Payload, maxNL)
		}
	}
	return out
}

func normalizeWhitespace(s string, maxNL int) string {
	var b strings.Builder
	b.Grow(len(s))
	spaceRun := 0
	nlRun := 0
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			spaceRun++
			if spaceRun == 1 {
				b.WriteByte(' ')
			}
			nlRun = 0
		case r == '\n':
			nlRun++
			spaceRun = 0
			if nlRun <= maxNL {
				b.WriteByte('\n')
			}
		default:
			spaceRun = 0
			nlRun = 0
			b.WriteRune(r)
		}
	}
	return b.String()
}
