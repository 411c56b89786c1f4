package transform

import (
	"strings"
	"time"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/vt"
)

// DefaultNoisePhrases are the default "razzle-dazzle" substrings dropped
// by the story extractor's noise filter: spinner phrases and TUI status
// lines that add no value to a chronological session story. This list is
// configuration — callers can override it. Status lines containing both
// "Done" and "tool uses" are matched separately in isNoise and are
// dropped whatever the list holds.
var DefaultNoisePhrases = []string{
	"Shimmying…", "Orbiting…", "Improvising…", "Whatchamacalliting…",
	"Churning…", "Clauding…", "Razzle-dazzling…", "Wibbling…",
	"Bloviating…", "Herding…", "Channeling…", "Unfurling…",
	"accept edits on (shift+Tab to cycle)",
	"Context left until auto-compact",
	"Tip:",
	"Update available!",
}

// StoryConfig configures the story extractor.
type StoryConfig struct {
	Cols, Rows        int
	NoisePhrases       []string
	MaxDedupEntries    int
	LongPauseThreshold time.Duration
}

// DefaultStoryConfig returns the spec-mandated defaults: an 80x24 grid, a
// 50 000-entry dedup window and a 2-second long-pause stability threshold.
func DefaultStoryConfig() StoryConfig {
	return StoryConfig{
		Cols: 80, Rows: 24,
		NoisePhrases:       DefaultNoisePhrases,
		MaxDedupEntries:    50000,
		LongPauseThreshold: 2 * time.Second,
	}
}

// TerminalTransform drives a virtual terminal with configured dimensions
// and extracts the stable chronological "story": the set of lines the
// cursor has moved past (or that a long pause / redraw finalized),
// deduplicated against a bounded recent-lines window and filtered of
// configured noise phrases.
type TerminalTransform struct {
	cfg  StoryConfig
	term *vt.Terminal
	dedup *boundedSet

	stableRow     int // rows [0, stableRow) of the current grid have been emitted
	prevCursorRow int
}

// NewTerminalTransform builds a story extractor with the given config.
func NewTerminalTransform(cfg StoryConfig) *TerminalTransform {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		d := DefaultStoryConfig()
		cfg.Cols, cfg.Rows = d.Cols, d.Rows
	}
	if cfg.MaxDedupEntries <= 0 {
		cfg.MaxDedupEntries = 50000
	}
	if cfg.LongPauseThreshold <= 0 {
		cfg.LongPauseThreshold = 2 * time.Second
	}
	return &TerminalTransform{
		cfg:   cfg,
		term:  vt.New(cfg.Rows, cfg.Cols),
		dedup: newBoundedSet(cfg.MaxDedupEntries),
	}
}

func (s *TerminalTransform) Transform(events []cast.Event) []cast.Event {
	var out []cast.Event
	var accumulated time.Duration

	emit := func(lines []string) {
		kept := s.filterNewLines(lines)
		if len(kept) == 0 {
			return
		}
		out = append(out, cast.Event{
			Delta:   accumulated,
			Kind:    cast.KindOutput,
			Payload: strings.Join(kept, "\n") + "\n",
		})
		accumulated = 0
	}

	for _, ev := range events {
		accumulated += ev.Delta

		switch ev.Kind {
		case cast.KindOutput:
			s.processOutput(ev, &accumulated, emit)
		case cast.KindResize:
			if cols, rows, err := ev.Resize(); err == nil {
				s.term.Resize(rows, cols)
				s.stableRow = 0
				s.prevCursorRow = s.term.CursorRow()
			}
			out = append(out, cast.Event{Delta: accumulated, Kind: ev.Kind, Payload: ev.Payload})
			accumulated = 0
		default:
			out = append(out, cast.Event{Delta: accumulated, Kind: ev.Kind, Payload: ev.Payload})
			accumulated = 0
		}
	}

	// Final flush: emit any remaining lines below stableRow, per spec.md
	// §9's "scrolled-off lines emitted before the stability pass" order
	// (already satisfied incrementally above) and §4.C item 5's final
	// flush requirement.
	text := s.term.String()
	lines := strings.Split(text, "\n")
	var final []string
	for s.stableRow < len(lines) {
		final = append(final, lines[s.stableRow])
		s.stableRow++
	}
	emit(final)

	return out
}

// processOutput feeds one Output event's payload through the terminal,
// emitting scrolled-off rows immediately (scrolled-off lines are emitted
// before the stability pass, per spec.md §9's Open Question decision),
// then — only when the optimization floor's trigger conditions hold —
// snapshotting the grid to emit any newly-stable rows.
func (s *TerminalTransform) processOutput(ev cast.Event, accumulated *time.Duration, emit func([]string)) {
	var scrolled []string
	s.term.Process([]byte(ev.Payload), func(row []vt.Cell) {
		scrolled = append(scrolled, renderLine(row))
	})

	if len(scrolled) > 0 {
		emit(scrolled)
		// The grid shifted up by len(scrolled); stableRow tracks an
		// already-emitted prefix of the *current* grid, which just lost
		// that many rows off the top.
		s.stableRow -= len(scrolled)
		if s.stableRow < 0 {
			s.stableRow = 0
		}
	}

	cursorRow := s.term.CursorRow()
	hasNewline := strings.Contains(ev.Payload, "\n")
	longPause := ev.Delta > s.cfg.LongPauseThreshold
	movedUp := cursorRow < s.prevCursorRow

	// Optimization floor: a snapshot (to_string + split) only happens when
	// something actually changed the stable set. Pure typing-within-a-line
	// events skip it entirely, keeping the extractor linear.
	if !(movedUp || len(scrolled) > 0 || hasNewline || longPause) {
		s.prevCursorRow = cursorRow
		return
	}

	text := s.term.String()
	lines := strings.Split(text, "\n")

	var toEmit []string
	for s.stableRow < cursorRow && s.stableRow < len(lines) {
		toEmit = append(toEmit, lines[s.stableRow])
		s.stableRow++
	}

	stable := hasNewline || movedUp || longPause
	if stable && cursorRow < len(lines) && s.stableRow <= cursorRow {
		toEmit = append(toEmit, lines[cursorRow])
		s.stableRow = cursorRow + 1
		if strings.TrimSpace(lines[cursorRow]) == "" {
			// A blank cursor row is the fresh line after a newline: keep
			// it below the watermark so text written to it later is still
			// emitted once the cursor moves past it.
			s.stableRow = cursorRow
		}
	}

	if len(toEmit) > 0 {
		emit(toEmit)
	}
	s.prevCursorRow = cursorRow
}

func renderLine(row []vt.Cell) string {
	end := len(row)
	for end > 0 && (row[end-1].Char == ' ' || row[end-1].Char == 0) {
		end--
	}
	runes := make([]rune, 0, end)
	for i := 0; i < end; i++ {
		c := row[i].Char
		if c == 0 {
			c = ' '
		}
		runes = append(runes, c)
	}
	return string(runes)
}

// filterNewLines drops noise-phrase matches and lines already seen within
// the dedup window, preserving leading indentation (only trailing
// whitespace is trimmed before hashing/comparison).
func (s *TerminalTransform) filterNewLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if s.isNoise(trimmed) {
			continue
		}
		if !s.dedup.insertIfNew(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func (s *TerminalTransform) isNoise(trimmedLine string) bool {
	t := strings.TrimSpace(trimmedLine)
	if t == "" {
		return false
	}
	for _, phrase := range s.cfg.NoisePhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	if strings.Contains(t, "Done") && strings.Contains(t, "tool uses") {
		return true
	}
	return false
}
