package transform

import (
	"strings"
	"time"

	"github.com/dcosson/castrec/internal/cast"
)

// FilterEmptyEvents drops Output events whose payload is empty or
// whitespace-only. Marker, Input, Resize and Exit events always pass
// through. A dropped event's delta is folded into the following kept
// event so total duration is preserved.
type FilterEmptyEvents struct{}

func (FilterEmptyEvents) Transform(events []cast.Event) []cast.Event {
	out := make([]cast.Event, 0, len(events))
	var carry time.Duration
	for _, ev := range events {
		if ev.Kind == cast.KindOutput && strings.TrimSpace(ev.Payload) == "" {
			carry += ev.Delta
			continue
		}
		ev.Delta += carry
		carry = 0
		out = append(out, ev)
	}
	return out
}
