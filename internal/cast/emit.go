package cast

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Quantum is the default rounding step used by the Bresenham quantizer
// when emitting time deltas. 1ms keeps per-event deltas visibly round
// while the error-diffusion step bounds accumulated drift.
const Quantum = time.Millisecond

// Emit writes the header followed by one JSON line per event. Deltas pass
// through a Bresenham-style quantizer: each emitted delta is rounded to a
// multiple of quantum, carrying the rounding error forward so that the
// accumulated error between input and output stays within quantum/2 at
// every prefix, not just at the end.
func Emit(w io.Writer, c *Cast, quantum time.Duration) error {
	if quantum <= 0 {
		quantum = Quantum
	}
	hdrBytes, err := json.Marshal(c.Header)
	if err != nil {
		return fmt.Errorf("cast: marshal header: %w", err)
	}
	if _, err := w.Write(append(hdrBytes, '\n')); err != nil {
		return fmt.Errorf("cast: write header: %w", err)
	}

	q := newQuantizer(quantum)
	for _, ev := range c.Events {
		outDelta := q.next(ev.Delta)
		line, err := marshalEvent(outDelta, ev.Kind, ev.Payload)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("cast: write event: %w", err)
		}
	}
	return nil
}

func marshalEvent(delta time.Duration, kind Kind, payload string) ([]byte, error) {
	deltaSecs, err := json.Marshal(json.Number(formatSeconds(delta)))
	if err != nil {
		return nil, fmt.Errorf("cast: marshal delta: %w", err)
	}
	codeJSON, err := json.Marshal(string(kind))
	if err != nil {
		return nil, fmt.Errorf("cast: marshal code: %w", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cast: marshal payload: %w", err)
	}
	out := append([]byte("["), deltaSecs...)
	out = append(out, ',')
	out = append(out, codeJSON...)
	out = append(out, ',')
	out = append(out, payloadJSON...)
	out = append(out, ']')
	return out, nil
}

// quantizer rounds successive deltas to multiples of a quantum using
// error diffusion (Bresenham-style), so |sum(input) - sum(output)| stays
// bounded by quantum/2 at every step rather than growing unbounded.
type quantizer struct {
	quantum      time.Duration
	carriedInput time.Duration // unquantized input accumulated so far
	emittedTotal time.Duration // quantized output emitted so far
}

func newQuantizer(q time.Duration) *quantizer {
	return &quantizer{quantum: q}
}

func (q *quantizer) next(delta time.Duration) time.Duration {
	q.carriedInput += delta
	target := q.carriedInput - q.emittedTotal
	steps := (target + q.quantum/2) / q.quantum
	if steps < 0 {
		steps = 0
	}
	out := steps * q.quantum
	q.emittedTotal += out
	return out
}
