package cast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Cast is a fully-parsed cast file: header plus ordered events.
type Cast struct {
	Header Header
	Events []Event
}

// Parse reads a line-delimited asciicast v3 stream. Line 1 is the header;
// every subsequent non-empty line is a 3-element JSON array
// [delta_seconds, code, payload]. Order is preserved.
func Parse(r io.Reader) (*Cast, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("cast: read header: %w", err)
		}
		return nil, fmt.Errorf("%w: empty file", ErrInvalidFormat)
	}
	var hdr Header
	if err := json.Unmarshal(sc.Bytes(), &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidFormat, err)
	}
	if hdr.Version != SupportedVersion {
		return nil, fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedVersion, hdr.Version, SupportedVersion)
	}

	c := &Cast{Header: hdr}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ev, err := parseEventLine(line)
		if err != nil {
			return nil, err
		}
		c.Events = append(c.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cast: read events: %w", err)
	}
	return c, nil
}

func parseEventLine(line string) (Event, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil || len(raw) != 3 {
		return Event{}, fmt.Errorf("%w: event record %q", ErrInvalidFormat, line)
	}

	var deltaSecs float64
	if err := json.Unmarshal(raw[0], &deltaSecs); err != nil {
		return Event{}, fmt.Errorf("%w: event delta %q", ErrInvalidFormat, line)
	}
	if deltaSecs < 0 {
		return Event{}, fmt.Errorf("%w: negative delta in %q", ErrInvalidFormat, line)
	}

	var code string
	if err := json.Unmarshal(raw[1], &code); err != nil {
		return Event{}, fmt.Errorf("%w: event code %q", ErrInvalidFormat, line)
	}
	kind := Kind(code)
	if !kind.valid() {
		return Event{}, fmt.Errorf("%w: unknown event code %q", ErrInvalidFormat, code)
	}

	payload, err := decodePayload(raw[2], kind)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Delta:   secondsToDuration(deltaSecs),
		Kind:    kind,
		Payload: payload,
	}, nil
}

func decodePayload(raw json.RawMessage, kind Kind) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	if kind == KindExit {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), nil
		}
	}
	return "", fmt.Errorf("%w: event payload %q", ErrInvalidFormat, string(raw))
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func durationToSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// formatSeconds renders a duration as seconds with microsecond precision,
// trimming trailing zeros the way a hand-written JSON number would.
func formatSeconds(d time.Duration) string {
	f := durationToSeconds(d)
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}
