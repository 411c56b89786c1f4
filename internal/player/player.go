// Package player implements castrec's native terminal player: a
// single-threaded cooperative main loop driving an internal/vt.Terminal
// from a parsed cast.Cast, with seeking, speed control, marker
// navigation, and a viewport/free browsing mode.
package player

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/config"
	"github.com/dcosson/castrec/internal/vt"
)

const (
	minSpeed      = 0.1
	maxSpeed      = 16.0
	speedStep     = 1.5
	seekStep      = 5 * time.Second
	markerDeadband = 100 * time.Millisecond
	frameInterval = time.Second / 60
	pollTimeout   = 50 * time.Millisecond
)

// Player owns all playback state for one cast file.
type Player struct {
	Cast   *cast.Cast
	Term   *vt.Terminal
	Theme  config.Theme
	Output io.Writer
	Input  io.Reader

	// ColorProfile is probed once at construction (see detectColorProfile)
	// and used by styleToSGR to degrade SGR color codes to what the host
	// terminal can actually render.
	ColorProfile termenv.Profile

	cum []time.Duration // cumulative event times, same length as Cast.Events

	eventIdx    int
	currentTime time.Duration
	timeOffset  time.Duration
	startTime   time.Time
	speed       float64
	paused      bool

	mode           Mode
	viewportOffset int
	freeRow        int

	quit      bool
	needsRender bool

	hostCols, hostRows int
	termRestore        *term.State

	poller *inputPoller
}

// New builds a Player for c, rendering into out and reading keys from in.
// The virtual terminal is sized from the cast header.
func New(c *cast.Cast, theme config.Theme, in io.Reader, out io.Writer) *Player {
	cols, rows := c.Header.Term.Cols, c.Header.Term.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return &Player{
		Cast:         c,
		Term:         vt.New(rows, cols),
		Theme:        theme,
		Output:       out,
		Input:        in,
		ColorProfile: detectColorProfile(),
		cum:          c.CumulativeTimes(),
		speed:        1.0,
		needsRender:  true,
	}
}

func (p *Player) totalDuration() time.Duration {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// Run enters raw mode, runs the main loop until quit or error, and always
// restores the host terminal before returning — even if the loop panics.
func (p *Player) Run(fd int) (err error) {
	p.hostCols, p.hostRows, err = term.GetSize(fd)
	if err != nil {
		return newPlaybackError("get terminal size", err)
	}

	p.termRestore, err = term.MakeRaw(fd)
	if err != nil {
		return newPlaybackError("set raw mode", err)
	}
	defer p.teardown(fd)

	// Acquire alt-screen, hide the cursor, and enable SGR mouse reporting
	// (extended + basic) so progress-bar clicks arrive as CSI "<" sequences.
	// teardown reverses each of these on every exit path.
	io.WriteString(p.Output, "\033[?1049h\033[?25l\033[?1000h\033[?1006h")

	p.poller = newInputPoller(p.Input)
	p.startTime = time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = newPlaybackError("panic", fmt.Errorf("%v", r))
		}
	}()

	return p.loop()
}

// teardown restores the host terminal: disables mouse reporting, shows the
// cursor, leaves the alt-screen, and restores cooked mode. Guaranteed to
// run via Run's defer even on panic or error return.
func (p *Player) teardown(fd int) {
	io.WriteString(p.Output, "\033[?1006l\033[?1000l\033[?25h\033[?1049l\033[0m\r\n")
	if p.termRestore != nil {
		term.Restore(fd, p.termRestore)
	}
}

func (p *Player) loop() error {
	lastFrame := time.Now()
	for !p.quit {
		data, err := p.poller.poll(pollTimeout)
		if err != nil && err != io.EOF {
			return newPlaybackError("read input", err)
		}
		if len(data) > 0 {
			p.handleInput(data)
		}

		if !p.paused && p.mode != ModeFree {
			p.advance()
		}

		if p.needsRender || time.Since(lastFrame) >= frameInterval {
			p.render()
			p.needsRender = false
			lastFrame = time.Now()
		}
	}
	return nil
}

// advance feeds every event whose cumulative time is within the current
// target time into the terminal.
func (p *Player) advance() {
	target := p.timeOffset + time.Duration(float64(time.Since(p.startTime))*p.speed)
	if target > p.totalDuration() {
		target = p.totalDuration()
	}
	for p.eventIdx < len(p.Cast.Events) && p.cum[p.eventIdx] <= target {
		p.applyEvent(p.Cast.Events[p.eventIdx])
		p.eventIdx++
	}
	p.currentTime = target
	if p.eventIdx >= len(p.Cast.Events) {
		p.paused = true
	}
}

func (p *Player) applyEvent(ev cast.Event) {
	switch ev.Kind {
	case cast.KindOutput:
		p.Term.Process([]byte(ev.Payload), nil)
	case cast.KindResize:
		if cols, rows, err := ev.Resize(); err == nil {
			p.Term.Resize(rows, cols)
		}
	}
}

// seekTo is the single seeking routine: rebuild the grid from scratch
// and replay from t=0 up to target.
func (p *Player) seekTo(target time.Duration) {
	if target < 0 {
		target = 0
	}
	total := p.totalDuration()
	if target > total {
		target = total
	}

	p.Term = vt.New(p.Term.Rows(), p.Term.Cols())
	idx := 0
	for idx < len(p.Cast.Events) && p.cum[idx] <= target {
		p.applyEvent(p.Cast.Events[idx])
		idx++
	}

	p.eventIdx = idx
	p.currentTime = target
	p.timeOffset = target
	p.startTime = time.Now()
	p.needsRender = true
}

func (p *Player) seekRelative(d time.Duration) {
	p.seekTo(p.currentTime + d)
}

func (p *Player) seekHome() {
	p.seekTo(0)
}

func (p *Player) seekEnd() {
	p.seekTo(p.totalDuration())
	p.paused = true
}

func (p *Player) nextMarker() {
	threshold := p.currentTime + markerDeadband
	for _, m := range p.Cast.Markers() {
		if m.Time > threshold {
			wasPaused := p.paused
			p.seekTo(m.Time)
			p.paused = wasPaused
			return
		}
	}
}

func (p *Player) adjustSpeed(factor float64) {
	p.speed *= factor
	if p.speed < minSpeed {
		p.speed = minSpeed
	}
	if p.speed > maxSpeed {
		p.speed = maxSpeed
	}
	p.needsRender = true
}

func (p *Player) togglePause() {
	if p.paused {
		p.timeOffset = p.currentTime
		p.startTime = time.Now()
	}
	p.paused = !p.paused
	p.needsRender = true
}

// resizeHostTerminal emits CSI 8;rows;cols t to resize the host terminal
// to the recording's original dimensions.
func (p *Player) resizeHostTerminal() {
	fmt.Fprintf(p.Output, "\033[8;%d;%dt", p.Term.Rows(), p.Term.Cols())
}

func (p *Player) enterMode(m Mode) {
	switch m {
	case ModeViewport:
		if p.mode == ModeViewport {
			p.mode = ModeNormal
		} else {
			p.mode = ModeViewport
			p.viewportOffset = 0
		}
	case ModeFree:
		if p.mode == ModeFree {
			p.mode = ModeNormal
		} else {
			p.mode = ModeFree
			p.freeRow = p.Term.Rows() - 1
			p.paused = true
		}
	case ModeHelp:
		if p.mode == ModeHelp {
			p.mode = ModeNormal
		} else {
			p.mode = ModeHelp
		}
	default:
		p.mode = m
	}
	p.needsRender = true
}

// resumeFromBrowsing exits Viewport/Free back to Normal, used by every
// keyboard seek, the marker jump and resuming with Space; a left click
// exits Free mode directly in handleMouseSGR.
func (p *Player) resumeFromBrowsing() {
	if p.mode == ModeViewport || p.mode == ModeFree {
		p.mode = ModeNormal
		p.needsRender = true
	}
}
