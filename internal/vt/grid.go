package vt

// ScrollSink receives a copy of each row ejected from the top of the
// scroll region by a line feed. It is the only point of coupling between
// the terminal and anything downstream — the terminal itself has no idea
// what, if anything, a caller does with the rows it hands over.
type ScrollSink func(row []Cell)

// Terminal is a fixed-size grid of styled cells with cursor, scroll
// region and carried-forward SGR state. Zero value is not usable; build
// with New.
type Terminal struct {
	rows, cols int
	grid       [][]Cell

	cursorRow, cursorCol int
	pendingWrap          bool

	savedRow, savedCol int
	savedStyle         CellStyle

	scrollTop, scrollBot int // inclusive

	style CellStyle

	parser parserState
}

// New creates a rows x cols terminal, cursor at the origin, scroll region
// covering the whole screen.
func New(rows, cols int) *Terminal {
	t := &Terminal{}
	t.allocate(rows, cols)
	return t
}

func (t *Terminal) allocate(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t.rows, t.cols = rows, cols
	t.grid = make([][]Cell, rows)
	for i := range t.grid {
		t.grid[i] = t.blankRow()
	}
	t.scrollTop, t.scrollBot = 0, rows-1
}

func (t *Terminal) blankRow() []Cell {
	row := make([]Cell, t.cols)
	for i := range row {
		row[i] = EmptyCell(DefaultStyle)
	}
	return row
}

// Rows reports the grid height.
func (t *Terminal) Rows() int { return t.rows }

// Cols reports the grid width.
func (t *Terminal) Cols() int { return t.cols }

// CursorRow returns the 0-indexed cursor row.
func (t *Terminal) CursorRow() int { return t.cursorRow }

// CursorCol returns the 0-indexed cursor column; cols denotes pending wrap.
func (t *Terminal) CursorCol() int { return t.cursorCol }

// Row returns a borrowed slice of the given row's cells.
func (t *Terminal) Row(i int) []Cell {
	if i < 0 || i >= t.rows {
		return nil
	}
	return t.grid[i]
}

// String concatenates rows with trailing spaces stripped, joined by '\n'.
func (t *Terminal) String() string {
	out := make([]byte, 0, t.rows*(t.cols+1))
	for i := 0; i < t.rows; i++ {
		line := renderRowText(t.grid[i])
		out = append(out, line...)
		if i < t.rows-1 {
			out = append(out, '\n')
		}
	}
	return string(out)
}

func renderRowText(row []Cell) string {
	end := len(row)
	for end > 0 && row[end-1].Char == ' ' {
		end--
	}
	runes := make([]rune, end)
	for i := 0; i < end; i++ {
		c := row[i].Char
		if c == 0 {
			c = ' '
		}
		runes[i] = c
	}
	return string(runes)
}

// Resize reallocates the grid, preserving overlap starting at (0,0),
// clamping the cursor and resetting the scroll region to the full screen.
func (t *Terminal) Resize(rows, cols int) {
	old := t.grid
	oldRows, oldCols := t.rows, t.cols
	t.allocate(rows, cols)
	for r := 0; r < oldRows && r < rows; r++ {
		for c := 0; c < oldCols && c < cols; c++ {
			t.grid[r][c] = old[r][c]
		}
	}
	if t.cursorRow >= rows {
		t.cursorRow = rows - 1
	}
	if t.cursorCol > cols {
		t.cursorCol = cols
	}
	t.pendingWrap = false
}

func (t *Terminal) clampCursor() {
	if t.cursorRow < 0 {
		t.cursorRow = 0
	}
	if t.cursorRow >= t.rows {
		t.cursorRow = t.rows - 1
	}
	if t.cursorCol < 0 {
		t.cursorCol = 0
	}
	if t.cursorCol > t.cols {
		t.cursorCol = t.cols
	}
}

// scrollUp shifts rows top..=bot up by one, clears the new bottom row and
// reports the row that fell off the top through sink (if non-nil).
func (t *Terminal) scrollUp(top, bot int, sink ScrollSink) {
	if top < 0 || bot >= t.rows || top > bot {
		return
	}
	if sink != nil {
		off := make([]Cell, len(t.grid[top]))
		copy(off, t.grid[top])
		sink(off)
	}
	for r := top; r < bot; r++ {
		t.grid[r] = t.grid[r+1]
	}
	t.grid[bot] = t.blankRow()
}

// scrollDown shifts rows top..=bot down by one, clearing the new top row.
func (t *Terminal) scrollDown(top, bot int) {
	if top < 0 || bot >= t.rows || top > bot {
		return
	}
	for r := bot; r > top; r-- {
		t.grid[r] = t.grid[r-1]
	}
	t.grid[top] = t.blankRow()
}

func (t *Terminal) eraseRange(row, colStart, colEnd int) {
	if row < 0 || row >= t.rows {
		return
	}
	if colStart < 0 {
		colStart = 0
	}
	if colEnd > t.cols {
		colEnd = t.cols
	}
	for c := colStart; c < colEnd; c++ {
		t.grid[row][c] = EmptyCell(t.style)
	}
}

// SetScrollRegion sets DECSTBM's inclusive top/bottom rows, clamped to the
// grid. Invalid regions (top > bot) are ignored.
func (t *Terminal) SetScrollRegion(top, bot int) {
	if top < 0 {
		top = 0
	}
	if bot >= t.rows {
		bot = t.rows - 1
	}
	if top > bot {
		return
	}
	t.scrollTop, t.scrollBot = top, bot
}

// SaveCursor implements DECSC / CSI s.
func (t *Terminal) SaveCursor() {
	t.savedRow, t.savedCol = t.cursorRow, t.cursorCol
	t.savedStyle = t.style
}

// RestoreCursor implements DECRC / CSI u.
func (t *Terminal) RestoreCursor() {
	t.cursorRow, t.cursorCol = t.savedRow, t.savedCol
	t.style = t.savedStyle
	t.pendingWrap = false
	t.clampCursor()
}
