package previewcache

import (
	"fmt"
	"os"
	"time"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/vt"
)

// StyledLine is one row of the grid snapshot, cells in column order with
// their SGR styling intact (trailing blank cells stripped, same as
// vt.Terminal.String()'s trailing-space trim, but preserving style instead
// of flattening to plain text).
type StyledLine []vt.Cell

// Preview summarizes a single recording for the explorer's list view.
type Preview struct {
	Duration    time.Duration
	MarkerCount int
	Snapshot    []StyledLine // styled grid snapshot at 10% playback
}

// FileLoader builds a Loader backed by the local filesystem: it parses a
// .cast file, replays it to 10% of total duration through a virtual
// terminal, and summarizes the result. All of the I/O and CPU work for
// building a preview happens here, on the cache's worker goroutine.
func FileLoader() Loader {
	return func(path string) (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("previewcache: open %s: %w", path, err)
		}
		defer f.Close()

		c, err := cast.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("previewcache: parse %s: %w", path, err)
		}

		return BuildPreview(c), nil
	}
}

// BuildPreview replays c to 10% of its total duration and returns the
// resulting Preview. Exported separately from FileLoader so callers that
// already hold a parsed *cast.Cast (e.g. the analyzer) can reuse it.
func BuildPreview(c *cast.Cast) *Preview {
	cols, rows := c.Header.Term.Cols, c.Header.Term.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	term := vt.New(rows, cols)

	cum := c.CumulativeTimes()
	var total time.Duration
	if len(cum) > 0 {
		total = cum[len(cum)-1]
	}
	target := total / 10

	for i, ev := range c.Events {
		if cum[i] > target {
			break
		}
		if ev.Kind == cast.KindOutput {
			term.Process([]byte(ev.Payload), nil)
		} else if ev.Kind == cast.KindResize {
			if newCols, newRows, err := ev.Resize(); err == nil {
				term.Resize(newRows, newCols)
			}
		}
	}

	return &Preview{
		Duration:    total,
		MarkerCount: len(c.Markers()),
		Snapshot:    styledSnapshot(term),
	}
}

// styledSnapshot captures term's current grid as styled lines, trimming
// trailing blank cells from each row the same way vt.Terminal.String()
// trims trailing spaces, but keeping per-cell styling instead of flattening
// to plain text.
func styledSnapshot(term *vt.Terminal) []StyledLine {
	lines := make([]StyledLine, term.Rows())
	for i := 0; i < term.Rows(); i++ {
		row := term.Row(i)
		end := len(row)
		for end > 0 && (row[end-1].Char == ' ' || row[end-1].Char == 0) {
			end--
		}
		line := make(StyledLine, end)
		copy(line, row[:end])
		lines[i] = line
	}
	return lines
}
