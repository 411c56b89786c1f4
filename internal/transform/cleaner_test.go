package transform

import (
	"testing"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/stretchr/testify/require"
)

func TestContentCleaner_StripsCSISequences(t *testing.T) {
	in := []cast.Event{out(0, "\x1b[31mred\x1b[0m text\r\n")}
	result := ContentCleaner{}.Transform(in)
	require.Equal(t, "red text\n", result[0].Payload)
}

func TestContentCleaner_StripsOSCSequences(t *testing.T) {
	in := []cast.Event{out(0, "\x1b]0;window title\x07visible\n")}
	result := ContentCleaner{}.Transform(in)
	require.Equal(t, "visible\n", result[0].Payload)
}

func TestContentCleaner_DropsBoxDrawingAndSpinnerGlyphs(t *testing.T) {
	in := []cast.Event{out(0, "─│⠃ ok\n")}
	result := ContentCleaner{}.Transform(in)
	require.Equal(t, " ok\n", result[0].Payload)
}

func TestContentCleaner_PreservesTabAndNewline(t *testing.T) {
	in := []cast.Event{out(0, "a\tb\n")}
	result := ContentCleaner{}.Transform(in)
	require.Equal(t, "a\tb\n", result[0].Payload)
}

func TestContentCleaner_LeavesNonContentEventsAlone(t *testing.T) {
	in := []cast.Event{cast.NewResizeEvent(0, 80, 24)}
	result := ContentCleaner{}.Transform(in)
	require.Equal(t, "80x24", result[0].Payload)
}
