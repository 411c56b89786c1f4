package player

import (
	"fmt"

	"github.com/muesli/termenv"

	"github.com/dcosson/castrec/internal/vt"
)

// detectColorProfile probes the host terminal's color capability, so
// 24-bit and indexed SGR sequences degrade to whatever the host can
// actually render instead of emitting truecolor escapes a basic
// terminal ignores.
func detectColorProfile() termenv.Profile {
	return termenv.EnvColorProfile()
}

// convertColorSGR renders c at or below profile's capability: a TrueColor
// cell degrades to ANSI256 or the 16-color palette on a lesser host,
// named/indexed colors pass through Convert unchanged on a capable host.
func convertColorSGR(profile termenv.Profile, c vt.Color, fg bool) string {
	var tc termenv.Color
	switch c.Kind {
	case vt.ColorNamed:
		tc = termenv.ANSIColor(int(c.Named))
	case vt.ColorIndexed:
		tc = termenv.ANSI256Color(int(c.Index))
	case vt.ColorRGB:
		tc = termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	default:
		return ""
	}
	return profile.Convert(tc).Sequence(!fg)
}
