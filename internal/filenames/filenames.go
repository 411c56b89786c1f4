// Package filenames generates filesystem-safe names for recorded
// sessions: a fixed YYYY-MM-DD_HHh-MMm-SSs_<slug>.cast layout plus a
// UUID suffix for collision avoidance.
package filenames

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// fallbackSlug is used when sanitizing the command produces an empty
// string, mirroring the original's FALLBACK_NAME.
const fallbackSlug = "recording"

// maxSlugLength bounds the command-derived portion of the filename so the
// final name stays well under common filesystem limits.
const maxSlugLength = 50

// windowsReserved lists device names that can't be used as filenames even
// though castrec only targets Linux — recordings may still be copied to
// a Windows machine, so the guard is kept from the original.
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Generate builds a recording filename from the wrapped command and the
// time the recording started: "2026-07-29_14h-03m-09s_git-log_<uuid>.cast".
// The UUID suffix guarantees uniqueness even when two recordings start
// within the same second.
func Generate(command string, t time.Time) string {
	slug := Sanitize(command)
	stamp := t.Format("2006-01-02_15h-04m-05s")
	return stamp + "_" + slug + "_" + uuid.NewString() + ".cast"
}

// Sanitize converts input into a filesystem-safe slug: invalid characters
// are stripped, whitespace collapses to hyphens, the result is truncated
// and trimmed, and Windows reserved device names are prefixed with an
// underscore. Falls back to "recording" if nothing survives.
func Sanitize(input string) string {
	var b strings.Builder
	lastWasHyphen := false

	for _, r := range input {
		switch {
		case unicode.IsSpace(r):
			if !lastWasHyphen {
				b.WriteByte('-')
				lastWasHyphen = true
			}
		case r == '-':
			if !lastWasHyphen {
				b.WriteByte('-')
				lastWasHyphen = true
			}
		case isInvalidChar(r):
			// dropped
		case r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'):
			b.WriteRune(r)
			lastWasHyphen = false
		default:
			// non-ASCII and stray punctuation dropped rather than
			// transliterated — castrec has no deunicode equivalent in
			// its dependency set.
		}
	}

	trimmed := strings.Trim(b.String(), ".- ")
	trimmed = truncate(trimmed, maxSlugLength)
	trimmed = strings.Trim(trimmed, ".- ")

	if trimmed == "" {
		return fallbackSlug
	}
	return escapeReserved(trimmed)
}

func isInvalidChar(r rune) bool {
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '(', ')', '[', ']':
		return true
	default:
		return false
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func escapeReserved(name string) string {
	base := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		base = name[:i]
	}
	if windowsReserved[strings.ToUpper(base)] {
		return "_" + name
	}
	return name
}
