// Package explorer implements the shared list/filter/select state behind
// castrec's two file-explorer flavors — "browse" (select one recording,
// launch the player) and "cleanup" (multi-select recordings for
// deletion). The widget shell that paints it lives separately, so this
// package exposes only the state machine and the data it needs to
// render: a raw-ANSI list rather than a ratatui-equivalent TUI framework.
package explorer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dcosson/castrec/internal/previewcache"
)

// Flavor distinguishes the two app shells that share this state.
type Flavor int

const (
	// FlavorBrowse selects exactly one recording and launches the player.
	FlavorBrowse Flavor = iota
	// FlavorCleanup supports multi-select for batch deletion.
	FlavorCleanup
)

// Entry is one recording as shown in the list.
type Entry struct {
	Path    string
	Name    string
	ModTime time.Time
}

// State holds the shared list/filter/select state for both flavors.
// Nothing here touches the terminal; a shell renders State and calls its
// mutators in response to input.
type State struct {
	Flavor Flavor
	Dir    string
	Cache  *previewcache.Cache

	all      []Entry
	filtered []int // indices into all
	filter   string
	cursor   int
	selected map[string]bool // path -> selected, cleanup flavor only

	watcher *fsnotify.Watcher
}

// New builds explorer state rooted at dir, scans it for .cast files, and
// starts watching it for changes. Callers must call Close when done.
func New(flavor Flavor, dir string, cache *previewcache.Cache) (*State, error) {
	s := &State{
		Flavor:   flavor,
		Dir:      dir,
		Cache:    cache,
		selected: make(map[string]bool),
	}
	if err := s.rescan(); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err == nil {
		if addErr := w.Add(dir); addErr == nil {
			s.watcher = w
		} else {
			w.Close()
		}
	}
	return s, nil
}

// Close stops the directory watcher, if one was started.
func (s *State) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// rescan rereads the recording directory and reapplies the current filter.
func (s *State) rescan() error {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.all = nil
			s.applyFilter()
			return nil
		}
		return err
	}

	all := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cast") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		all = append(all, Entry{
			Path:    filepath.Join(s.Dir, e.Name()),
			Name:    e.Name(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ModTime.After(all[j].ModTime) })
	s.all = all
	s.applyFilter()
	return nil
}

// PollWatcher drains the fsnotify event channel. On any write/create/
// remove/rename it invalidates that path's preview cache entry and, for
// create/remove/rename, rescans the directory listing — so the list
// reflects a concurrent record/analyze/cleanup without a manual refresh.
// Must be called from the UI loop, like previewcache.Cache.Poll.
func (s *State) PollWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if s.Cache != nil {
				s.Cache.Invalidate(ev.Name)
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.rescan()
			}
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// SetFilter updates the substring filter (case-insensitive, matched
// against the filename) and resets the cursor to the top match.
func (s *State) SetFilter(q string) {
	s.filter = q
	s.cursor = 0
	s.applyFilter()
}

// Filter returns the current filter string.
func (s *State) Filter() string { return s.filter }

func (s *State) applyFilter() {
	s.filtered = s.filtered[:0]
	needle := strings.ToLower(s.filter)
	for i, e := range s.all {
		if needle == "" || strings.Contains(strings.ToLower(e.Name), needle) {
			s.filtered = append(s.filtered, i)
		}
	}
	if s.cursor >= len(s.filtered) {
		s.cursor = len(s.filtered) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Visible returns the entries currently passing the filter, in display
// order.
func (s *State) Visible() []Entry {
	out := make([]Entry, len(s.filtered))
	for i, idx := range s.filtered {
		out[i] = s.all[idx]
	}
	return out
}

// Cursor returns the index (within Visible) of the highlighted row.
func (s *State) Cursor() int { return s.cursor }

// MoveCursor shifts the highlighted row by delta, clamped to the visible
// range, and prefetches previews around the new position.
func (s *State) MoveCursor(delta int) {
	if len(s.filtered) == 0 {
		return
	}
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(s.filtered) {
		s.cursor = len(s.filtered) - 1
	}
	s.Prefetch(2)
}

// Prefetch requests previews for entries within radius of the cursor.
func (s *State) Prefetch(radius int) {
	if s.Cache == nil {
		return
	}
	paths := make([]string, len(s.filtered))
	for i, idx := range s.filtered {
		paths[i] = s.all[idx].Path
	}
	s.Cache.PrefetchAdjacent(paths, s.cursor, radius)
}

// Selected returns the path at the cursor, or "" if the list is empty.
func (s *State) Selected() string {
	if len(s.filtered) == 0 {
		return ""
	}
	return s.all[s.filtered[s.cursor]].Path
}

// ToggleSelect flips the multi-select mark on the entry at the cursor.
// Only meaningful for FlavorCleanup; a no-op under FlavorBrowse.
func (s *State) ToggleSelect() {
	if s.Flavor != FlavorCleanup {
		return
	}
	path := s.Selected()
	if path == "" {
		return
	}
	s.selected[path] = !s.selected[path]
}

// IsSelected reports whether path is marked for batch deletion.
func (s *State) IsSelected(path string) bool {
	return s.selected[path]
}

// SelectedPaths returns every path currently marked, in no particular
// order.
func (s *State) SelectedPaths() []string {
	out := make([]string, 0, len(s.selected))
	for path, on := range s.selected {
		if on {
			out = append(out, path)
		}
	}
	return out
}

// Delete removes every selected path (FlavorCleanup) from disk and the
// in-memory listing, and unmarks each removed path. A path that fails to
// delete stays selected, and the first such error is returned.
func (s *State) Delete() ([]string, error) {
	paths := s.SelectedPaths()
	removed := make([]string, 0, len(paths))
	var firstErr error
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if bak := path + ".bak"; fileExists(bak) {
			os.Remove(bak)
		}
		removed = append(removed, path)
		delete(s.selected, path)
		if s.Cache != nil {
			s.Cache.Invalidate(path)
		}
	}
	s.rescan()
	return removed, firstErr
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
