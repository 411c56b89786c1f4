package vt

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

type parserPhase uint8

const (
	phaseGround parserPhase = iota
	phaseEscape
	phaseCSI
	phaseOSC
)

// parserState is the byte-stream parser's persisted state, carried across
// Process calls so an escape sequence split across two reads still parses
// correctly.
type parserState struct {
	phase parserPhase

	csiParams []int
	csiCur    int
	csiHasCur bool
	csiPriv   byte // '?' or 0

	oscPrevEsc bool

	// utf8Buf is not read by the parser: a multi-byte rune split across
	// two Process calls is not reassembled, and each of its bytes is
	// written as a blank cell.
	utf8Buf []byte
}

// Process feeds bytes through the parser, mutating the grid. sink, if
// non-nil, is called once for every row scrolled off the top of the
// scroll region, in the order they are ejected, strictly during the call
// that caused the scroll.
func (t *Terminal) Process(data []byte, sink ScrollSink) {
	for len(data) > 0 {
		b := data[0]
		data = data[1:]

		switch t.parser.phase {
		case phaseGround:
			t.processGround(b, data, sink, &data)
		case phaseEscape:
			t.processEscape(b)
		case phaseCSI:
			t.processCSI(b, sink)
		case phaseOSC:
			t.processOSC(b)
		}
	}
}

// processGround handles a byte in Ground state: C0 controls, ESC entry,
// or a printable glyph (which may consume extra continuation bytes from
// rest for multi-byte utf-8).
func (t *Terminal) processGround(b byte, rest []byte, sink ScrollSink, dataPtr *[]byte) {
	switch b {
	case 0x1B: // ESC
		t.parser.phase = phaseEscape
		return
	case '\b':
		if t.cursorCol > 0 {
			t.cursorCol--
		}
		t.pendingWrap = false
		return
	case '\t':
		next := ((t.cursorCol / 8) + 1) * 8
		if next > t.cols {
			next = t.cols
		}
		t.cursorCol = next
		return
	case '\n':
		t.lineFeed(sink)
		return
	case '\r':
		t.cursorCol = 0
		t.pendingWrap = false
		return
	case 0x0E, 0x0F: // SO/SI, ignored
		return
	}
	if b < 0x20 {
		return // other C0 controls: no-op
	}

	// Printable: decode a full utf-8 rune, consuming continuation bytes
	// from rest if b starts a multi-byte sequence.
	full := append([]byte{b}, *dataPtr...)
	r, size := utf8.DecodeRune(full)
	if r == utf8.RuneError && size <= 1 {
		t.writeGlyph(' ', sink)
		return
	}
	*dataPtr = (*dataPtr)[size-1:]
	t.writeGlyph(r, sink)
}

// writeGlyph writes r at the cursor, advancing by its display width and
// scrolling/wrapping as needed.
func (t *Terminal) writeGlyph(r rune, sink ScrollSink) {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		w = 1
	}
	if t.pendingWrap {
		t.cursorCol = 0
		t.lineFeedNoScrollCheck(sink)
		t.pendingWrap = false
	}
	if t.cursorCol+w > t.cols {
		// Not enough room: wrap now.
		t.cursorCol = 0
		t.lineFeedNoScrollCheck(sink)
	}
	t.grid[t.cursorRow][t.cursorCol] = Cell{Char: r, Style: t.style}
	for i := 1; i < w && t.cursorCol+i < t.cols; i++ {
		t.grid[t.cursorRow][t.cursorCol+i] = Cell{Char: 0, Style: t.style}
	}
	t.cursorCol += w
	if t.cursorCol >= t.cols {
		t.cursorCol = t.cols
		t.pendingWrap = true
	}
}

// lineFeed implements '\n': scroll if at the bottom of the scroll region,
// otherwise move the cursor down one row.
func (t *Terminal) lineFeed(sink ScrollSink) {
	t.pendingWrap = false
	if t.cursorRow == t.scrollBot {
		t.scrollUp(t.scrollTop, t.scrollBot, sink)
		return
	}
	if t.cursorRow < t.rows-1 {
		t.cursorRow++
	}
}

// lineFeedNoScrollCheck is the autowrap line feed: like lineFeed it
// scrolls at the bottom of the scroll region and reports the ejected row
// through sink, but it leaves pendingWrap to its caller, writeGlyph.
func (t *Terminal) lineFeedNoScrollCheck(sink ScrollSink) {
	if t.cursorRow == t.scrollBot {
		t.scrollUp(t.scrollTop, t.scrollBot, sink)
		return
	}
	if t.cursorRow < t.rows-1 {
		t.cursorRow++
	}
}

func (t *Terminal) processEscape(b byte) {
	switch b {
	case '[':
		t.parser.phase = phaseCSI
		t.parser.csiParams = t.parser.csiParams[:0]
		t.parser.csiCur = 0
		t.parser.csiHasCur = false
		t.parser.csiPriv = 0
	case ']':
		t.parser.phase = phaseOSC
		t.parser.oscPrevEsc = false
	case '7': // DECSC
		t.SaveCursor()
		t.parser.phase = phaseGround
	case '8': // DECRC
		t.RestoreCursor()
		t.parser.phase = phaseGround
	case 'M': // reverse index
		t.reverseIndex()
		t.parser.phase = phaseGround
	default:
		t.parser.phase = phaseGround
	}
}

func (t *Terminal) reverseIndex() {
	if t.cursorRow == t.scrollTop {
		t.scrollDown(t.scrollTop, t.scrollBot)
		return
	}
	if t.cursorRow > 0 {
		t.cursorRow--
	}
}

func (t *Terminal) processOSC(b byte) {
	if t.parser.oscPrevEsc {
		t.parser.phase = phaseGround
		t.parser.oscPrevEsc = false
		return
	}
	switch b {
	case 0x07: // BEL terminates OSC
		t.parser.phase = phaseGround
	case 0x1B:
		t.parser.oscPrevEsc = true
	}
}

func (t *Terminal) processCSI(b byte, sink ScrollSink) {
	switch {
	case b >= '0' && b <= '9':
		t.parser.csiCur = t.parser.csiCur*10 + int(b-'0')
		t.parser.csiHasCur = true
	case b == ';':
		t.parser.csiParams = append(t.parser.csiParams, t.parser.csiCur)
		t.parser.csiCur = 0
		t.parser.csiHasCur = false
	case b == '?' && len(t.parser.csiParams) == 0 && !t.parser.csiHasCur:
		t.parser.csiPriv = '?'
	case b >= 0x20 && b <= 0x2F:
		// Intermediate byte: ignored but consumed (no intermediates used
		// by the CSI table this emulator implements).
	case b >= 0x40 && b <= 0x7E:
		t.parser.csiParams = append(t.parser.csiParams, t.parser.csiCur)
		t.dispatchCSI(b, t.parser.csiParams, t.parser.csiPriv, sink)
		t.parser.phase = phaseGround
	default:
		// Unexpected byte mid-sequence: abort to ground without acting.
		t.parser.phase = phaseGround
	}
}
