package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dcosson/castrec/internal/explorer"
	"github.com/dcosson/castrec/internal/previewcache"
)

// runExplorerShell drives a raw-ANSI list UI over an explorer.State until
// the user quits (q or Ctrl-C), reading input fails, or onEnter returns a
// non-empty message. Everything it touches is read through explorer.State's
// public interface; the list itself is rendered with raw ANSI rather
// than a ratatui-equivalent framework.
//
// onEnter is called with the highlighted path when the user presses
// Enter; its return value (if non-empty) is printed and the shell exits.
// For FlavorCleanup, 'd' triggers explorer.State.Delete after toggling
// selection with Space.
func runExplorerShell(out io.Writer, fd int, st *explorer.State, onEnter func(path string) (string, error)) error {
	restore, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("explorer: set raw mode: %w", err)
	}
	defer term.Restore(fd, restore)
	defer io.WriteString(out, "\033[0m\r\n")

	st.Prefetch(3)

	r := bufio.NewReader(os.Stdin)
	buf := make([]byte, 1)
	status := ""

	for {
		if st.Cache != nil {
			st.Cache.Poll()
		}
		st.PollWatcher()
		renderExplorer(out, st, status)
		status = ""

		n, rerr := r.Read(buf)
		if rerr != nil || n == 0 {
			return nil
		}
		switch buf[0] {
		case 'q', 3: // q or Ctrl-C
			return nil
		case 13: // Enter
			path := st.Selected()
			if path == "" {
				continue
			}
			msg, err := onEnter(path)
			if err != nil {
				status = err.Error()
				continue
			}
			if msg != "" {
				fmt.Fprintf(out, "\r\n%s\r\n", msg)
				return nil
			}
		case ' ':
			st.ToggleSelect()
		case 'd':
			if st.Flavor == explorer.FlavorCleanup {
				removed, derr := st.Delete()
				if derr != nil {
					status = derr.Error()
				} else {
					status = fmt.Sprintf("deleted %d recording(s)", len(removed))
				}
			}
		case 27: // escape sequence: arrow keys
			b2, _ := r.ReadByte()
			if b2 != '[' {
				continue
			}
			b3, _ := r.ReadByte()
			switch b3 {
			case 'A':
				st.MoveCursor(-1)
			case 'B':
				st.MoveCursor(1)
			}
		case 127, 8: // backspace: shrink filter
			f := st.Filter()
			if len(f) > 0 {
				st.SetFilter(f[:len(f)-1])
			}
		default:
			if buf[0] >= 0x20 && buf[0] < 0x7f {
				st.SetFilter(st.Filter() + string(buf[0]))
			}
		}
	}
}

func renderExplorer(out io.Writer, st *explorer.State, status string) {
	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	if st.Flavor == explorer.FlavorCleanup {
		b.WriteString("castrec cleanup — space to select, d to delete, q to quit\r\n")
	} else {
		b.WriteString("castrec list — enter to play, q to quit\r\n")
	}
	b.WriteString("filter: " + st.Filter() + "\r\n\r\n")

	visible := st.Visible()
	for i, e := range visible {
		marker := "  "
		if st.Flavor == explorer.FlavorCleanup && st.IsSelected(e.Path) {
			marker = "[x]"
		} else if st.Flavor == explorer.FlavorCleanup {
			marker = "[ ]"
		}
		cursor := "  "
		if i == st.Cursor() {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %-40s %s", cursor, marker, e.Name, previewSummary(st, e.Path))
		b.WriteString(line + "\r\n")
	}
	if status != "" {
		b.WriteString("\r\n" + status + "\r\n")
	}
	io.WriteString(out, b.String())
}

func previewSummary(st *explorer.State, path string) string {
	if st.Cache == nil {
		return ""
	}
	v, ok := st.Cache.Get(path)
	if !ok {
		return "(loading…)"
	}
	p, ok := v.(*previewcache.Preview)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s, %d marker(s)", p.Duration.Round(time.Second), p.MarkerCount)
}
