package explorer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeCast(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := `{"version":3,"term":{"cols":80,"rows":24}}
[0.1,"o","hi\n"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew_ScansDirAndSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeCast(t, dir, "a.cast")
	writeCast(t, dir, "b.cast")
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644)
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "a.cast"), old, old))

	s, err := New(FlavorBrowse, dir, nil)
	require.NoError(t, err)
	defer s.Close()

	visible := s.Visible()
	require.Len(t, visible, 2)
	require.Equal(t, "b.cast", visible[0].Name)
}

func TestSetFilter_NarrowsVisibleEntries(t *testing.T) {
	dir := t.TempDir()
	writeCast(t, dir, "build.cast")
	writeCast(t, dir, "deploy.cast")

	s, err := New(FlavorBrowse, dir, nil)
	require.NoError(t, err)
	defer s.Close()

	s.SetFilter("build")
	visible := s.Visible()
	require.Len(t, visible, 1)
	require.Equal(t, "build.cast", visible[0].Name)
}

func TestMoveCursor_ClampsToVisibleRange(t *testing.T) {
	dir := t.TempDir()
	writeCast(t, dir, "a.cast")

	s, err := New(FlavorBrowse, dir, nil)
	require.NoError(t, err)
	defer s.Close()

	s.MoveCursor(-5)
	require.Equal(t, 0, s.Cursor())
	s.MoveCursor(5)
	require.Equal(t, 0, s.Cursor())
}

func TestToggleSelect_OnlyAppliesUnderCleanupFlavor(t *testing.T) {
	dir := t.TempDir()
	path := writeCast(t, dir, "a.cast")

	browse, err := New(FlavorBrowse, dir, nil)
	require.NoError(t, err)
	defer browse.Close()
	browse.ToggleSelect()
	require.False(t, browse.IsSelected(path))

	cleanup, err := New(FlavorCleanup, dir, nil)
	require.NoError(t, err)
	defer cleanup.Close()
	cleanup.ToggleSelect()
	require.True(t, cleanup.IsSelected(path))
	cleanup.ToggleSelect()
	require.False(t, cleanup.IsSelected(path))
}

func TestDelete_RemovesSelectedFilesAndBackups(t *testing.T) {
	dir := t.TempDir()
	path := writeCast(t, dir, "a.cast")
	os.WriteFile(path+".bak", []byte("old"), 0o644)
	writeCast(t, dir, "b.cast")

	s, err := New(FlavorCleanup, dir, nil)
	require.NoError(t, err)
	defer s.Close()
	s.ToggleSelect() // selects whichever sorts first

	removed, err := s.Delete()
	require.NoError(t, err)
	require.Len(t, removed, 1)

	_, statErr := os.Stat(removed[0])
	require.True(t, os.IsNotExist(statErr))
	_, bakErr := os.Stat(removed[0] + ".bak")
	require.True(t, os.IsNotExist(bakErr))

	require.Len(t, s.Visible(), 1)
}
