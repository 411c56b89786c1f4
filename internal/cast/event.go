// Package cast parses and emits the asciicast v3 event stream: a JSON
// header line followed by one JSON-array record per event.
package cast

import (
	"fmt"
	"time"
)

// Kind identifies the wire type code of an Event.
type Kind string

const (
	KindOutput Kind = "o"
	KindInput  Kind = "i"
	KindMarker Kind = "m"
	KindResize Kind = "r"
	KindExit   Kind = "x"
)

func (k Kind) valid() bool {
	switch k {
	case KindOutput, KindInput, KindMarker, KindResize, KindExit:
		return true
	default:
		return false
	}
}

// Event is one record: a non-negative delay since the previous event, a
// kind code, and a payload whose meaning depends on the kind.
type Event struct {
	Delta   time.Duration
	Kind    Kind
	Payload string
}

// Resize parses a Resize event's "COLSxROWS" payload.
func (e Event) Resize() (cols, rows int, err error) {
	if e.Kind != KindResize {
		return 0, 0, fmt.Errorf("cast: event is not a resize event")
	}
	if _, err := fmt.Sscanf(e.Payload, "%dx%d", &cols, &rows); err != nil {
		return 0, 0, fmt.Errorf("cast: invalid resize payload %q: %w", e.Payload, err)
	}
	return cols, rows, nil
}

// ExitCode parses an Exit event's decimal payload.
func (e Event) ExitCode() (int, error) {
	if e.Kind != KindExit {
		return 0, fmt.Errorf("cast: event is not an exit event")
	}
	var code int
	if _, err := fmt.Sscanf(e.Payload, "%d", &code); err != nil {
		return 0, fmt.Errorf("cast: invalid exit payload %q: %w", e.Payload, err)
	}
	return code, nil
}

// NewResizeEvent builds a Resize event for the given delay and dimensions.
func NewResizeEvent(delta time.Duration, cols, rows int) Event {
	return Event{Delta: delta, Kind: KindResize, Payload: fmt.Sprintf("%dx%d", cols, rows)}
}

// NewExitEvent builds an Exit event for the given delay and exit code.
func NewExitEvent(delta time.Duration, code int) Event {
	return Event{Delta: delta, Kind: KindExit, Payload: fmt.Sprintf("%d", code)}
}
