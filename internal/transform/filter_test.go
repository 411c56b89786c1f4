package transform

import (
	"testing"
	"time"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/stretchr/testify/require"
)

func TestFilterEmptyEvents_DropsBlankOutput(t *testing.T) {
	in := []cast.Event{
		out(5*time.Millisecond, "   \n"),
		out(10*time.Millisecond, "content\n"),
	}
	result := FilterEmptyEvents{}.Transform(in)
	require.Len(t, result, 1)
	require.Equal(t, "content\n", result[0].Payload)
	require.Equal(t, 15*time.Millisecond, result[0].Delta)
}

func TestFilterEmptyEvents_KeepsNonOutputEventsEvenIfPayloadEmpty(t *testing.T) {
	in := []cast.Event{cast.NewResizeEvent(0, 80, 24)}
	result := FilterEmptyEvents{}.Transform(in)
	require.Len(t, result, 1)
}
