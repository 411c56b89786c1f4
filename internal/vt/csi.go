package vt

// dispatchCSI executes a fully-parsed CSI sequence. Unknown final bytes and
// unknown/out-of-range parameters are ignored without aborting — the
// terminal never panics and never writes a diagnostic into the grid.
func (t *Terminal) dispatchCSI(final byte, params []int, priv byte, sink ScrollSink) {
	p := func(i, def int) int {
		if i >= len(params) || params[i] == 0 {
			return def
		}
		return params[i]
	}

	switch final {
	case 'A': // cursor up
		t.cursorRow -= p(0, 1)
	case 'B': // cursor down
		t.cursorRow += p(0, 1)
	case 'C': // cursor forward
		t.cursorCol += p(0, 1)
	case 'D': // cursor back
		t.cursorCol -= p(0, 1)
	case 'G': // cursor horizontal absolute
		t.cursorCol = p(0, 1) - 1
	case 'd': // line position absolute
		t.cursorRow = p(0, 1) - 1
	case 'H', 'f': // cursor position
		t.cursorRow = p(0, 1) - 1
		t.cursorCol = p(1, 1) - 1
	case 'J': // erase in display
		t.eraseDisplay(p(0, 0))
	case 'K': // erase in line
		t.eraseLine(p(0, 0))
	case 'L': // insert line
		t.insertLines(p(0, 1))
	case 'M': // delete line
		t.deleteLines(p(0, 1))
	case 'P': // delete character
		t.deleteChars(p(0, 1))
	case '@': // insert character
		t.insertChars(p(0, 1))
	case 'r': // DECSTBM set scroll region
		top := p(0, 1) - 1
		bot := p(1, t.rows) - 1
		t.SetScrollRegion(top, bot)
		t.cursorRow, t.cursorCol = 0, 0
	case 'S': // scroll up
		t.scrollUp(t.scrollTop, t.scrollBot, sink)
	case 'T': // scroll down
		t.scrollDown(t.scrollTop, t.scrollBot)
	case 's': // save cursor (ANSI.SYS form)
		if priv == 0 {
			t.SaveCursor()
		}
	case 'u':
		if priv == 0 {
			t.RestoreCursor()
		}
	case 'm': // SGR
		t.applySGR(params)
	default:
		// Unknown final byte: no-op.
	}
	t.pendingWrap = false
	t.clampCursor()
}

func (t *Terminal) eraseDisplay(mode int) {
	switch mode {
	case 0: // cursor to end of screen
		t.eraseRange(t.cursorRow, t.cursorCol, t.cols)
		for r := t.cursorRow + 1; r < t.rows; r++ {
			t.eraseRange(r, 0, t.cols)
		}
	case 1: // start of screen to cursor
		for r := 0; r < t.cursorRow; r++ {
			t.eraseRange(r, 0, t.cols)
		}
		t.eraseRange(t.cursorRow, 0, t.cursorCol+1)
	case 2, 3: // whole screen
		for r := 0; r < t.rows; r++ {
			t.eraseRange(r, 0, t.cols)
		}
	}
}

func (t *Terminal) eraseLine(mode int) {
	switch mode {
	case 0:
		t.eraseRange(t.cursorRow, t.cursorCol, t.cols)
	case 1:
		t.eraseRange(t.cursorRow, 0, t.cursorCol+1)
	case 2:
		t.eraseRange(t.cursorRow, 0, t.cols)
	}
}

func (t *Terminal) insertLines(n int) {
	if t.cursorRow < t.scrollTop || t.cursorRow > t.scrollBot {
		return
	}
	for i := 0; i < n; i++ {
		t.scrollDownRegion(t.cursorRow, t.scrollBot)
	}
}

func (t *Terminal) deleteLines(n int) {
	if t.cursorRow < t.scrollTop || t.cursorRow > t.scrollBot {
		return
	}
	for i := 0; i < n; i++ {
		t.scrollUp(t.cursorRow, t.scrollBot, nil)
	}
}

// scrollDownRegion shifts rows top..=bot down by one without emitting
// through a sink (used by insert-line, which never ejects rows).
func (t *Terminal) scrollDownRegion(top, bot int) {
	t.scrollDown(top, bot)
}

func (t *Terminal) deleteChars(n int) {
	row := t.grid[t.cursorRow]
	c := t.cursorCol
	if c >= len(row) {
		return
	}
	if n > len(row)-c {
		n = len(row) - c
	}
	copy(row[c:], row[c+n:])
	for i := len(row) - n; i < len(row); i++ {
		if i >= 0 {
			row[i] = EmptyCell(t.style)
		}
	}
}

func (t *Terminal) insertChars(n int) {
	row := t.grid[t.cursorRow]
	c := t.cursorCol
	if c >= len(row) {
		return
	}
	if n > len(row)-c {
		n = len(row) - c
	}
	copy(row[c+n:], row[c:])
	end := c + n
	if end > len(row) {
		end = len(row)
	}
	for i := c; i < end; i++ {
		row[i] = EmptyCell(t.style)
	}
}
