package vt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAdvancesCursor(t *testing.T) {
	term := New(5, 10)
	term.Process([]byte("hi"), nil)
	require.Equal(t, 0, term.CursorRow())
	require.Equal(t, 2, term.CursorCol())
	require.Equal(t, "hi", strings.TrimRight(term.String(), "\n"))
}

func TestLineFeedScrollsAndInvokesSink(t *testing.T) {
	term := New(2, 5)
	var scrolled []string
	sink := func(row []Cell) {
		scrolled = append(scrolled, renderRowText(row))
	}
	term.Process([]byte("aaaaa\r\nbbbbb\r\nccccc\r\n"), sink)
	require.Equal(t, []string{"aaaaa", "bbbbb"}, scrolled)
}

func TestCursorPositionInvariantAfterRandomBytes(t *testing.T) {
	term := New(4, 8)
	input := []byte("\x1b[31mhello\x1b[0m\r\n\x1b[2J\x1b[H\tworld\x1b[3;3H\x1b[Kabc\x1b[?25h\x1b]0;title\x07done")
	term.Process(input, nil)
	require.GreaterOrEqual(t, term.CursorRow(), 0)
	require.Less(t, term.CursorRow(), term.Rows())
	require.GreaterOrEqual(t, term.CursorCol(), 0)
	require.LessOrEqual(t, term.CursorCol(), term.Cols())
}

func TestUnknownCSIParamsIgnoredWithoutAborting(t *testing.T) {
	term := New(3, 10)
	term.Process([]byte("\x1b[99;123mhi"), nil)
	require.Equal(t, "hi", strings.TrimRight(renderRowText(term.Row(0)), ""))
}

func TestSGRNamedRGBAndReset(t *testing.T) {
	term := New(1, 20)
	term.Process([]byte("\x1b[1;31;48;2;0;128;255mX"), nil)
	cell := term.Row(0)[0]
	require.True(t, cell.Style.Bold)
	require.Equal(t, ColorNamed, cell.Style.Fg.Kind)
	require.EqualValues(t, 1, cell.Style.Fg.Named)
	require.Equal(t, ColorRGB, cell.Style.Bg.Kind)
	require.EqualValues(t, 0, cell.Style.Bg.R)
	require.EqualValues(t, 128, cell.Style.Bg.G)
	require.EqualValues(t, 255, cell.Style.Bg.B)

	term.Process([]byte("\x1b[0mY"), nil)
	cell2 := term.Row(0)[1]
	require.Equal(t, DefaultStyle, cell2.Style)
}

func TestResizePreservesOverlapAndClampsCursor(t *testing.T) {
	term := New(5, 10)
	term.Process([]byte("hello"), nil)
	term.Resize(3, 4)
	require.Equal(t, 3, term.Rows())
	require.Equal(t, 4, term.Cols())
	require.LessOrEqual(t, term.CursorCol(), 4)
	require.Less(t, term.CursorRow(), 3)
}

func TestScrollRegionLimitsScrolling(t *testing.T) {
	term := New(5, 10)
	term.Process([]byte("\x1b[2;4r"), nil) // rows 2-4 (1-indexed) scroll region
	var scrolled int
	sink := func(row []Cell) { scrolled++ }
	// Move cursor into the region and overflow it with newlines.
	term.Process([]byte("\x1b[4;1H\n\n\n"), sink)
	require.Equal(t, 3, scrolled)
}

func TestTabAdvancesToNextMultipleOf8(t *testing.T) {
	term := New(2, 20)
	term.Process([]byte("ab\tcd"), nil)
	require.Equal(t, 10, term.CursorCol())
}

func TestSplitEscapeSequenceAcrossProcessCalls(t *testing.T) {
	term := New(2, 10)
	term.Process([]byte("\x1b[3"), nil)
	term.Process([]byte("1mX"), nil)
	require.Equal(t, ColorNamed, term.Row(0)[0].Style.Fg.Kind)
	require.EqualValues(t, 1, term.Row(0)[0].Style.Fg.Named)
}

func TestOnlyCRSequencesCollapseToZeroNewlines(t *testing.T) {
	term := New(3, 10)
	term.Process([]byte("\r\r\r"), nil)
	require.Equal(t, "", strings.TrimRight(term.String(), "\n"))
}
