package transform

import "github.com/dcosson/castrec/internal/cast"

// ContentCleaner strips ANSI CSI/OSC sequences, box-drawing characters,
// spinner glyphs, progress-bar blocks, and C0 controls (except \n and \t)
// from Output/Input/Marker payloads. Semantic glyphs such as checkmarks
// are left intact.
type ContentCleaner struct{}

func (ContentCleaner) Transform(events []cast.Event) []cast.Event {
	out := make([]cast.Event, len(events))
	for i, ev := range events {
		out[i] = ev
		switch ev.Kind {
		case cast.KindOutput, cast.KindInput, cast.KindMarker:
			out[i].Payload = cleanContent(ev.Payload)
		}
	}
	return out
}

func cleanContent(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == 0x1B: // ESC: skip CSI or OSC sequence
			i = skipEscapeSequence(runes, i)
		case r == '\n' || r == '\t':
			out = append(out, r)
		case r < 0x20 || r == 0x7F:
			// other C0/DEL controls dropped
		case isBoxDrawing(r) || isSpinnerGlyph(r) || isProgressBlock(r):
			// drop
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// skipEscapeSequence returns the index of the last rune consumed by the
// escape sequence starting at runes[i] (which is ESC).
func skipEscapeSequence(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[': // CSI: consume to the first final byte 0x40-0x7E
		j := i + 2
		for j < len(runes) && !(runes[j] >= 0x40 && runes[j] <= 0x7E) {
			j++
		}
		if j < len(runes) {
			return j
		}
		return len(runes) - 1
	case ']': // OSC: consume to BEL or ESC \
		j := i + 2
		for j < len(runes) {
			if runes[j] == 0x07 {
				return j
			}
			if runes[j] == 0x1B && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
			j++
		}
		return len(runes) - 1
	default:
		return i + 1
	}
}

// isBoxDrawing reports whether r is in the Unicode Box Drawing block.
func isBoxDrawing(r rune) bool {
	return r >= 0x2500 && r <= 0x257F
}

// isSpinnerGlyph reports whether r is a braille-pattern glyph, the
// character set used by virtually every terminal spinner animation.
func isSpinnerGlyph(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}

// isProgressBlock reports whether r is one of the block-element glyphs
// used to draw progress bars.
func isProgressBlock(r rune) bool {
	return r >= 0x2580 && r <= 0x259F
}
