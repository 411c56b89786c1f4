package transform

import (
	"testing"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateProgressLines_CollapsesCarriageReturnRedraws(t *testing.T) {
	d := &DeduplicateProgressLines{}
	in := []cast.Event{
		out(0, "10%\r20%\r30%\r\n"),
	}
	result := d.Transform(in)

	lineCount := 0
	for _, ev := range result {
		if ev.Kind == cast.KindOutput {
			lineCount++
		}
	}
	require.Equal(t, 1, lineCount, "only the final redraw before the newline should survive")
	require.Equal(t, "30%\n", result[len(result)-1].Payload)
	require.Equal(t, 1, d.DedupCount)
}

func TestDeduplicateProgressLines_PassesThroughNonOutputEvents(t *testing.T) {
	d := &DeduplicateProgressLines{}
	in := []cast.Event{
		out(0, "partial"),
		cast.NewResizeEvent(0, 80, 24),
		out(0, " line\n"),
	}
	result := d.Transform(in)
	var kinds []cast.Kind
	for _, ev := range result {
		kinds = append(kinds, ev.Kind)
	}
	require.Contains(t, kinds, cast.KindResize)
}

func TestDeduplicateProgressLines_NoRedrawsLeavesLineUnchanged(t *testing.T) {
	d := &DeduplicateProgressLines{}
	in := []cast.Event{out(0, "hello world\n")}
	result := d.Transform(in)
	require.Equal(t, "hello world\n", result[0].Payload)
	require.Equal(t, 0, d.DedupCount)
}
