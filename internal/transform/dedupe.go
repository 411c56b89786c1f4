package transform

import (
	"time"

	"github.com/dcosson/castrec/internal/cast"
)

// DeduplicateProgressLines collapses \r-rewritten progress/spinner output
// into a single final line per logical line. It runs a small state machine
// over the concatenated Output payload stream: a buffer L accumulates
// characters; \r marks a progress rewrite, and L is cleared when the next
// character arrives (a \r directly followed by \n ends the line and keeps
// L); \n emits a non-empty L as one Output event. Non-output events flush
// any pending L first, then pass through unchanged.
type DeduplicateProgressLines struct {
	// DedupCount is populated after Transform runs: the number of lines
	// that involved at least one \r rewrite before being finalized.
	DedupCount int
}

func (d *DeduplicateProgressLines) Transform(events []cast.Event) []cast.Event {
	var out []cast.Event
	var buf []rune
	var cum time.Duration       // cumulative time of the stream so far
	var lineStart time.Duration // cumulative time at which the current L began
	var lastEmit time.Duration  // cumulative time of the last event appended to out
	var sawRewrite bool
	var pendingCR bool // a \r was seen and L has not been cleared yet

	dropPendingCR := func() {
		if pendingCR {
			buf = buf[:0]
			sawRewrite = true
			pendingCR = false
		}
	}

	flush := func() {
		if len(buf) == 0 {
			return
		}
		delta := lineStart - lastEmit
		if delta < 0 {
			delta = 0
		}
		out = append(out, cast.Event{Delta: delta, Kind: cast.KindOutput, Payload: string(buf) + "\n"})
		lastEmit = lineStart
		if sawRewrite {
			d.DedupCount++
		}
		buf = buf[:0]
		sawRewrite = false
	}

	passThrough := func(ev cast.Event) {
		delta := cum - lastEmit
		if delta < 0 {
			delta = 0
		}
		out = append(out, cast.Event{Delta: delta, Kind: ev.Kind, Payload: ev.Payload})
		lastEmit = cum
	}

	for _, ev := range events {
		cum += ev.Delta
		if ev.Kind != cast.KindOutput {
			dropPendingCR()
			flush()
			passThrough(ev)
			continue
		}
		for _, r := range ev.Payload {
			switch r {
			case '\r':
				pendingCR = true
			case '\n':
				pendingCR = false
				if len(buf) == 0 {
					lineStart = cum
				}
				flush()
			default:
				dropPendingCR()
				if len(buf) == 0 {
					lineStart = cum
				}
				buf = append(buf, r)
			}
		}
	}
	dropPendingCR()
	flush()
	return out
}
