// Package vt is a subset virtual terminal emulator: a fixed-size grid of
// styled cells driven by a byte stream, with an optional callback invoked
// for every row scrolled off the top of the scroll region.
package vt

// ColorKind tags which variant a Color holds.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorNamed
	ColorIndexed
	ColorRGB
)

// Color is a tagged terminal color: the default pen color, one of the 16
// named ANSI colors, an indexed (256-color) value, or a 24-bit RGB triple.
type Color struct {
	Kind    ColorKind
	Named   uint8 // 0-15, valid when Kind == ColorNamed
	Index   uint8 // valid when Kind == ColorIndexed
	R, G, B uint8 // valid when Kind == ColorRGB
}

var DefaultColor = Color{Kind: ColorDefault}

func NamedColor(n uint8) Color   { return Color{Kind: ColorNamed, Named: n} }
func IndexedColor(n uint8) Color { return Color{Kind: ColorIndexed, Index: n} }
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// CellStyle carries SGR state: colors plus boolean text attributes. It is
// carried forward from one cell write to the next until reset.
type CellStyle struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	Reverse   bool
}

// DefaultStyle is the style SGR 0 resets to.
var DefaultStyle = CellStyle{}

// Cell is one grid position: a glyph and its style.
type Cell struct {
	Char  rune
	Style CellStyle
}

// EmptyCell is a blank space cell carrying the given style, used to clear
// or fill newly-exposed grid positions.
func EmptyCell(style CellStyle) Cell {
	return Cell{Char: ' ', Style: style}
}
