package filenames

import (
	"strings"
	"testing"
	"time"
)

func TestGenerate_MatchesTimestampSlugUUIDLayout(t *testing.T) {
	ts := time.Date(2026, 7, 29, 14, 3, 9, 0, time.UTC)
	name := Generate("git log --oneline", ts)

	if !strings.HasPrefix(name, "2026-07-29_14h-03m-09s_git-log-oneline_") {
		t.Errorf("Generate() = %q, want matching timestamp/slug prefix", name)
	}
	if !strings.HasSuffix(name, ".cast") {
		t.Errorf("Generate() = %q, want .cast suffix", name)
	}
}

func TestGenerate_IsUniqueAcrossCalls(t *testing.T) {
	ts := time.Date(2026, 7, 29, 14, 3, 9, 0, time.UTC)
	a := Generate("vim", ts)
	b := Generate("vim", ts)
	if a == b {
		t.Errorf("Generate() returned identical names for the same second: %q", a)
	}
}

func TestSanitize_CollapsesWhitespaceToHyphens(t *testing.T) {
	got := Sanitize("npm   run   build")
	if got != "npm-run-build" {
		t.Errorf("Sanitize() = %q, want %q", got, "npm-run-build")
	}
}

func TestSanitize_StripsInvalidChars(t *testing.T) {
	got := Sanitize(`rm -rf "test/dir"?`)
	if strings.ContainsAny(got, `/\:*?"<>|`) {
		t.Errorf("Sanitize() = %q, contains invalid chars", got)
	}
}

func TestSanitize_EmptyInputFallsBack(t *testing.T) {
	got := Sanitize("///???")
	if got != fallbackSlug {
		t.Errorf("Sanitize() = %q, want fallback %q", got, fallbackSlug)
	}
}

func TestSanitize_TruncatesLongCommands(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Sanitize(long)
	if len(got) > maxSlugLength {
		t.Errorf("Sanitize() len = %d, want <= %d", len(got), maxSlugLength)
	}
}

func TestSanitize_EscapesWindowsReservedNames(t *testing.T) {
	got := Sanitize("CON")
	if got != "_CON" {
		t.Errorf("Sanitize(CON) = %q, want %q", got, "_CON")
	}
}

func TestSanitize_PreservesOrdinaryCommandName(t *testing.T) {
	got := Sanitize("claude")
	if got != "claude" {
		t.Errorf("Sanitize() = %q, want %q", got, "claude")
	}
}
