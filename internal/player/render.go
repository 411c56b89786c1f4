package player

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dcosson/castrec/internal/vt"
)

// render builds one ANSI output buffer for the current state and writes
// it in a single syscall.
func (p *Player) render() {
	var buf bytes.Buffer
	buf.WriteString("\033[H")

	viewportRows := p.Term.Rows()
	if p.mode == ModeHelp {
		p.renderHelp(&buf, viewportRows)
	} else {
		p.renderViewport(&buf, viewportRows)
	}
	p.renderProgressBar(&buf)
	p.renderStatusBar(&buf)

	p.Output.Write(buf.Bytes())
}

// renderViewport draws the content area. In Viewport mode, viewportOffset
// scrolls which grid rows are visible instead of affecting playback; in
// Free mode the highlighted row is drawn in inverse colors.
func (p *Player) renderViewport(buf *bytes.Buffer, rows int) {
	start := 0
	if p.mode == ModeViewport {
		start = p.viewportOffset
		if start < 0 {
			start = 0
		}
		if start > p.Term.Rows()-rows {
			start = p.Term.Rows() - rows
		}
		if start < 0 {
			start = 0
		}
	}

	for i := 0; i < rows; i++ {
		row := start + i
		buf.WriteString("\r\n")
		if row >= p.Term.Rows() {
			continue
		}
		cells := p.Term.Row(row)
		if p.mode == ModeFree && row == p.freeRow {
			buf.WriteString("\033[7m")
			writeCellsText(buf, cells)
			buf.WriteString("\033[0m")
		} else {
			p.writeCellsStyled(buf, cells)
		}
		buf.WriteString("\033[0m\033[K")
	}
}

// writeCellsStyled emits cell glyphs, switching SGR state only when the
// next cell's style differs from the current one. Color codes are
// degraded to the host's probed color profile (p.ColorProfile) so a
// 256-color or 16-color terminal never receives a truecolor escape it
// can't render.
func (p *Player) writeCellsStyled(buf *bytes.Buffer, cells []vt.Cell) {
	var current vt.CellStyle
	first := true
	for _, c := range cells {
		if first || c.Style != current {
			buf.WriteString("\033[0m")
			buf.WriteString(p.styleToSGR(c.Style))
			current = c.Style
			first = false
		}
		ch := c.Char
		if ch == 0 {
			ch = ' '
		}
		buf.WriteRune(ch)
	}
}

func writeCellsText(buf *bytes.Buffer, cells []vt.Cell) {
	for _, c := range cells {
		ch := c.Char
		if ch == 0 {
			ch = ' '
		}
		buf.WriteRune(ch)
	}
}

// styleToSGR renders s as a combined SGR sequence, degrading Fg/Bg through
// p.ColorProfile (detected once at Player construction) so truecolor and
// indexed cells never outrun what the host terminal can display.
func (p *Player) styleToSGR(s vt.CellStyle) string {
	var codes []string
	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Italic {
		codes = append(codes, "3")
	}
	if s.Underline {
		codes = append(codes, "4")
	}
	if s.Reverse {
		codes = append(codes, "7")
	}
	codes = append(codes, convertColorSGR(p.ColorProfile, s.Fg, true))
	codes = append(codes, convertColorSGR(p.ColorProfile, s.Bg, false))
	var filtered []string
	for _, c := range codes {
		if c != "" {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	return "\033[" + strings.Join(filtered, ";") + "m"
}

// renderProgressBar draws the progress row: bar_width = cols-14, a
// playhead glyph at the filled position, and marker diamonds — the
// playhead wins when it overlaps a marker.
func (p *Player) renderProgressBar(buf *bytes.Buffer) {
	buf.WriteString("\r\n")
	cols := p.Term.Cols()
	barWidth := cols - 14
	if barWidth < 1 {
		barWidth = 1
	}
	total := p.totalDuration()
	var frac float64
	if total > 0 {
		frac = float64(p.currentTime) / float64(total)
	}
	filled := int(math.Floor(float64(barWidth) * frac))
	if filled > barWidth {
		filled = barWidth
	}

	markerCols := make(map[int]bool)
	if total > 0 {
		for _, m := range p.Cast.Markers() {
			col := int(math.Floor(float64(barWidth) * float64(m.Time) / float64(total)))
			if col >= 0 && col < barWidth {
				markerCols[col] = true
			}
		}
	}

	bar := make([]rune, barWidth)
	for i := range bar {
		switch {
		case i == filled && filled != barWidth:
			bar[i] = '⏺'
		case markerCols[i]:
			bar[i] = '◆'
		case i < filled:
			bar[i] = '='
		default:
			bar[i] = '-'
		}
	}
	if filled == barWidth && barWidth > 0 {
		bar[barWidth-1] = '⏺'
	}

	fmt.Fprintf(buf, "[%s] %5s/%-5s", string(bar), fmtDuration(p.currentTime), fmtDuration(total))
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", m, s)
}

// renderStatusBar draws the hotkey/status row (play state, mode, speed,
// hotkeys) in the theme's accent color. It shows no error text, and the
// theme's error color is not used.
func (p *Player) renderStatusBar(buf *bytes.Buffer) {
	buf.WriteString("\r\n")

	state := "Playing"
	if p.paused {
		state = "Paused"
	}
	label := fmt.Sprintf(" %s | %s | %.1fx | %s", state, p.mode, p.speed, hotkeyHelp(p.mode))

	cols := p.Term.Cols()
	if len(label) > cols {
		label = label[:cols]
	}
	buf.WriteString(themeSGR(p.Theme.AccentColor))
	buf.WriteString(label)
	if pad := cols - len(label); pad > 0 {
		buf.WriteString(strings.Repeat(" ", pad))
	}
	buf.WriteString("\033[0m")
}

func hotkeyHelp(m Mode) string {
	switch m {
	case ModeViewport:
		return "↑/↓ scroll | v/Esc exit"
	case ModeFree:
		return "↑/↓ select | f/Esc exit"
	case ModeConfirmQuit:
		return "Esc again to quit"
	default:
		return "Space pause | +/- speed | </> seek | m marker | ? help | q quit"
	}
}

// renderHelp draws the help modal in place of the viewport. Playback
// continues frozen visually — the underlying grid isn't touched.
func (p *Player) renderHelp(buf *bytes.Buffer, rows int) {
	lines := []string{
		"castrec player — keybindings",
		"",
		"Space      pause / resume",
		"+ / -      speed up / down (0.1x .. 16x)",
		"< / >      seek -5s / +5s",
		"Shift+←/→  seek -5% / +5%",
		"Home/End   jump to start / end",
		"m          next marker",
		"r          resize host terminal to recording size",
		"v          toggle viewport mode",
		"f          toggle free mode",
		"q / Ctrl-C / Esc Esc   quit",
		"",
		"press any key to close",
	}
	for i := 0; i < rows; i++ {
		buf.WriteString("\r\n")
		if i < len(lines) {
			buf.WriteString(lines[i])
		}
		buf.WriteString("\033[K")
	}
}

func themeSGR(name string) string {
	switch name {
	case "red":
		return "\033[31m"
	case "green":
		return "\033[32m"
	case "yellow":
		return "\033[33m"
	case "blue":
		return "\033[34m"
	case "magenta":
		return "\033[35m"
	case "cyan":
		return "\033[36m"
	default:
		return "\033[39m"
	}
}
