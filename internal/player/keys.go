package player

import (
	"strconv"
	"strings"
	"time"
)

// handleInput dispatches one chunk of raw input bytes, scanning it for
// both plain keys and the handful of CSI sequences (arrows, Home/End,
// Shift+arrow, SGR mouse reports) the player recognizes.
func (p *Player) handleInput(data []byte) {
	i := 0
	for i < len(data) {
		b := data[i]
		if b == 0x1b {
			n := p.handleEscape(data[i:])
			i += n
			continue
		}
		p.handleByte(b)
		i++
	}
}

// handleEscape consumes one escape sequence starting at seq[0] == ESC and
// returns how many bytes it consumed (at least 1).
func (p *Player) handleEscape(seq []byte) int {
	if len(seq) == 1 {
		p.onEscKey()
		return 1
	}
	if seq[1] != '[' {
		p.onEscKey()
		return 1
	}
	// Scan the CSI parameter/intermediate bytes up to the final byte.
	j := 2
	for j < len(seq) && (seq[j] >= 0x30 && seq[j] <= 0x3F) {
		j++
	}
	if j >= len(seq) {
		return len(seq)
	}
	final := seq[j]
	params := string(seq[2:j])
	consumed := j + 1

	switch {
	case final == 'A':
		p.onArrowUp()
	case final == 'B':
		p.onArrowDown()
	case final == 'C':
		if params == "1;2" {
			p.onShiftRight()
		} else {
			p.onArrowRight()
		}
	case final == 'D':
		if params == "1;2" {
			p.onShiftLeft()
		} else {
			p.onArrowLeft()
		}
	case final == 'H':
		p.seekHome()
		p.resumeFromBrowsing()
	case final == 'F':
		p.seekEnd()
		p.resumeFromBrowsing()
	case final == '~' && (params == "1" || params == "7"):
		p.seekHome()
		p.resumeFromBrowsing()
	case final == '~' && (params == "4" || params == "8"):
		p.seekEnd()
		p.resumeFromBrowsing()
	case (final == 'M' || final == 'm') && strings.HasPrefix(params, "<"):
		p.handleMouseSGR(params, final)
	}
	return consumed
}

// handleMouseSGR handles an SGR mouse report (ESC[<Cb;Cx;Cy M/m). Only
// left-button press events are acted on: any such click exits Free mode
// (per spec.md §4.E's mode table), and a click landing on the progress
// bar row seeks to the clicked position and resumes playback, mirroring
// original_source/src/player/input/mouse.rs's handle_mouse_event.
func (p *Player) handleMouseSGR(params string, final byte) {
	if final != 'M' {
		return // button release, not a click
	}
	cb, cx, cy, ok := parseMouseSGR(params)
	if !ok {
		return
	}
	if cb != 0 {
		return // not an unmodified left-button press (other button, modifier, motion, or wheel)
	}

	if p.mode == ModeFree {
		p.mode = ModeNormal
		p.needsRender = true
	}

	progressRow := p.Term.Rows() + 2
	if cy != progressRow {
		return
	}
	barStart := 2
	barWidth := p.Term.Cols() - 14
	if barWidth < 1 {
		barWidth = 1
	}
	if cx < barStart || cx >= barStart+barWidth {
		return
	}

	total := p.totalDuration()
	ratio := float64(cx-barStart) / float64(barWidth)
	p.seekTo(time.Duration(ratio * float64(total)))
	p.paused = false
	p.needsRender = true
}

// parseMouseSGR parses the "<Cb;Cx;Cy" payload of an SGR mouse sequence
// (the params string as scanned by handleEscape, leading "<" included).
func parseMouseSGR(params string) (cb, cx, cy int, ok bool) {
	parts := strings.Split(strings.TrimPrefix(params, "<"), ";")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if cb, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if cx, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if cy, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return cb, cx, cy, true
}

func (p *Player) onEscKey() {
	switch p.mode {
	case ModeHelp, ModeViewport, ModeFree:
		p.mode = ModeNormal
		p.needsRender = true
	case ModeConfirmQuit:
		p.quit = true
	default:
		p.enterMode(ModeConfirmQuit)
	}
}

func (p *Player) handleByte(b byte) {
	if p.mode == ModeHelp {
		// Any key exits Help.
		p.mode = ModeNormal
		p.needsRender = true
		return
	}

	switch b {
	case 'q', 0x03: // Ctrl-C
		p.quit = true
	case ' ':
		p.togglePause()
		if !p.paused {
			p.resumeFromBrowsing()
		}
	case '+':
		p.adjustSpeed(speedStep)
	case '-':
		p.adjustSpeed(1 / speedStep)
	case '<':
		p.seekRelative(-seekStep)
		p.resumeFromBrowsing()
	case '>':
		p.seekRelative(seekStep)
		p.resumeFromBrowsing()
	case 'm':
		p.nextMarker()
		p.resumeFromBrowsing()
	case 'r':
		p.resizeHostTerminal()
	case '?':
		p.enterMode(ModeHelp)
	case 'v':
		p.enterMode(ModeViewport)
	case 'f':
		p.enterMode(ModeFree)
	}
}

func (p *Player) onArrowUp() {
	switch p.mode {
	case ModeViewport:
		if p.viewportOffset > 0 {
			p.viewportOffset--
			p.needsRender = true
		}
	case ModeFree:
		if p.freeRow > 0 {
			p.freeRow--
			p.needsRender = true
		}
	}
}

func (p *Player) onArrowDown() {
	switch p.mode {
	case ModeViewport:
		p.viewportOffset++
		p.needsRender = true
	case ModeFree:
		if p.freeRow < p.Term.Rows()-1 {
			p.freeRow++
			p.needsRender = true
		}
	}
}

func (p *Player) onArrowLeft() {
	p.seekRelative(-seekStep)
	p.resumeFromBrowsing()
}

func (p *Player) onArrowRight() {
	p.seekRelative(seekStep)
	p.resumeFromBrowsing()
}

func (p *Player) onShiftLeft() {
	total := p.totalDuration()
	if total > 0 {
		p.seekRelative(-total / 20) // 5%
	}
	p.resumeFromBrowsing()
}

func (p *Player) onShiftRight() {
	total := p.totalDuration()
	if total > 0 {
		p.seekRelative(total / 20) // 5%
	}
	p.resumeFromBrowsing()
}
