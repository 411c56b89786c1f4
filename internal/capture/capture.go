// Package capture records a child process's PTY session to a cast file,
// grounded on the teacher's PTY lifecycle (internal/session/virtualterminal)
// but writing asciicast events instead of driving a renderer.
package capture

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/dcosson/castrec/internal/cast"
)

// Recorder owns the PTY lifecycle of a wrapped child process and records
// its output as cast events in memory; writing the cast file is left to
// the caller.
type Recorder struct {
	Command string
	Args    []string

	ptm       *os.File
	cmd       *exec.Cmd
	mu        sync.Mutex
	events    []cast.Event
	start     time.Time
	lastEvent time.Time
	cols      int
	rows      int

	restore *term.State
}

// Run starts the child in a PTY sized to the host terminal, streams its
// output into a growing event list, and blocks until the child exits.
// On return the recorded session is available from Cast.
func (r *Recorder) Run() (exitCode int, err error) {
	fd := int(os.Stdin.Fd())
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		cols, rows = 80, 24
	}
	r.cols, r.rows = cols, rows

	r.cmd = exec.Command(r.Command, r.Args...)
	r.ptm, err = pty.StartWithSize(r.cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return 0, fmt.Errorf("capture: start command: %w", err)
	}
	defer r.ptm.Close()

	r.restore, err = term.MakeRaw(fd)
	if err == nil {
		defer term.Restore(fd, r.restore)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go r.watchResize(sigCh, fd)

	r.start = time.Now()
	r.lastEvent = r.start

	done := make(chan struct{})
	go func() {
		r.pipeOutput()
		close(done)
	}()
	go r.pipeInput()

	err = r.cmd.Wait()
	<-done

	code := 0
	if r.cmd.ProcessState != nil {
		code = r.cmd.ProcessState.ExitCode()
	}
	r.recordEvent(cast.NewExitEvent(0, code))
	return code, err
}

// pipeOutput copies child PTY output to the host terminal and records
// each chunk as an Output event with the elapsed delta since the last
// recorded event.
func (r *Recorder) pipeOutput() {
	buf := make([]byte, 4096)
	for {
		n, err := r.ptm.Read(buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
			r.recordEvent(cast.Event{Kind: cast.KindOutput, Payload: string(buf[:n])})
		}
		if err != nil {
			return
		}
	}
}

// pipeInput forwards stdin to the child PTY and records Input events for
// the session's interactive replay.
func (r *Recorder) pipeInput() {
	buf := make([]byte, 256)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			r.ptm.Write(buf[:n])
			r.recordEvent(cast.Event{Kind: cast.KindInput, Payload: string(buf[:n])})
		}
		if err != nil {
			return
		}
	}
}

func (r *Recorder) watchResize(sigCh <-chan os.Signal, fd int) {
	for range sigCh {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			continue
		}
		pty.Setsize(r.ptm, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
		r.mu.Lock()
		r.cols, r.rows = cols, rows
		r.mu.Unlock()
		r.recordEvent(cast.NewResizeEvent(0, cols, rows))
	}
}

func (r *Recorder) recordEvent(ev cast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	ev.Delta = now.Sub(r.lastEvent)
	r.lastEvent = now
	r.events = append(r.events, ev)
}

// Cast assembles the recorded session into a *cast.Cast, ready to be
// written with cast.Emit.
func (r *Recorder) Cast() *cast.Cast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &cast.Cast{
		Header: cast.Header{
			Version:   cast.SupportedVersion,
			Term:      cast.TermInfo{Cols: r.cols, Rows: r.rows, Type: os.Getenv("TERM")},
			Command:   strings.Join(append([]string{r.Command}, r.Args...), " "),
			Timestamp: timestampPtr(r.start),
		},
		Events: append([]cast.Event(nil), r.events...),
	}
}

func timestampPtr(t time.Time) *int64 {
	ts := t.Unix()
	return &ts
}
