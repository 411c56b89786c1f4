package cast

import "time"

// CumulativeTimes returns the prefix-sum vector of event cumulative times:
// result[i] = sum(Events[0..=i].Delta).
func (c *Cast) CumulativeTimes() []time.Duration {
	out := make([]time.Duration, len(c.Events))
	var sum time.Duration
	for i, ev := range c.Events {
		sum += ev.Delta
		out[i] = sum
	}
	return out
}

// FindInsertionIndex returns the first event index whose cumulative time
// strictly exceeds t. Returns len(Events) if t is at or beyond the end.
func (c *Cast) FindInsertionIndex(t time.Duration) int {
	cum := c.CumulativeTimes()
	for i, ct := range cum {
		if ct > t {
			return i
		}
	}
	return len(cum)
}

// CalculateRelativeTime returns the delta that would place a new event at
// absolute time t immediately before Events[i]: t minus the cumulative time
// of the preceding event, or t itself if i == 0.
func (c *Cast) CalculateRelativeTime(i int, t time.Duration) time.Duration {
	if i == 0 {
		return t
	}
	cum := c.CumulativeTimes()
	return t - cum[i-1]
}

// InsertMarker inserts a Marker event at absolute time t, computing its
// delta from the immediately preceding event and adjusting the delta of the
// event that follows so downstream cumulative times are unaffected.
func (c *Cast) InsertMarker(t time.Duration, label string) {
	idx := c.FindInsertionIndex(t)
	relDelta := c.CalculateRelativeTime(idx, t)
	marker := Event{Delta: relDelta, Kind: KindMarker, Payload: label}

	if idx < len(c.Events) {
		c.Events[idx].Delta -= relDelta
	}

	events := make([]Event, 0, len(c.Events)+1)
	events = append(events, c.Events[:idx]...)
	events = append(events, marker)
	events = append(events, c.Events[idx:]...)
	c.Events = events
}

// Markers returns the (cumulative_time, label) pairs for every Marker event.
func (c *Cast) Markers() []MarkerPosition {
	var out []MarkerPosition
	var sum time.Duration
	for _, ev := range c.Events {
		sum += ev.Delta
		if ev.Kind == KindMarker {
			out = append(out, MarkerPosition{Time: sum, Label: ev.Payload})
		}
	}
	return out
}

// MarkerPosition is a labeled point in time, read-only once produced.
type MarkerPosition struct {
	Time  time.Duration
	Label string
}
