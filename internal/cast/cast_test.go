package cast

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Cast {
	t.Helper()
	c, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return c
}

func TestParse_RejectsWrongVersion(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"version":2,"term":{"cols":80,"rows":24}}` + "\n"))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestParse_RejectsMalformedHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("not json\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParse_RejectsUnknownKind(t *testing.T) {
	src := `{"version":3,"term":{"cols":80,"rows":24}}` + "\n" + `[0.1,"z","huh"]` + "\n"
	_, err := Parse(strings.NewReader(src))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParse_EmptyCastHeaderOnly(t *testing.T) {
	c := mustParse(t, `{"version":3,"term":{"cols":80,"rows":24}}`+"\n")
	require.Empty(t, c.Events)
}

// Scenario 3 (spec.md §8): cast roundtrip.
func TestEmitParse_Roundtrip(t *testing.T) {
	src := `{"version":3,"term":{"cols":80,"rows":24}}` + "\n" +
		`[0.5,"o","$ echo hello\r\n"]` + "\n" +
		`[0.1,"o","hello\r\n"]` + "\n" +
		`[0.2,"o","$ "]` + "\n"
	c := mustParse(t, src)

	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, c, time.Millisecond))

	reparsed := mustParse(t, buf.String())
	require.Len(t, reparsed.Events, 3)

	cum := reparsed.CumulativeTimes()
	want := []time.Duration{
		500 * time.Millisecond,
		600 * time.Millisecond,
		800 * time.Millisecond,
	}
	for i, w := range want {
		diff := cum[i] - w
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqualf(t, diff, time.Millisecond, "event %d cumulative time %v want ~%v", i, cum[i], w)
	}
}

// Scenario 4 (spec.md §8): insertion index.
func TestFindInsertionIndex(t *testing.T) {
	src := `{"version":3,"term":{"cols":80,"rows":24}}` + "\n" +
		`[0.5,"o","$ echo hello\r\n"]` + "\n" +
		`[0.1,"o","hello\r\n"]` + "\n" +
		`[0.2,"o","$ "]` + "\n"
	c := mustParse(t, src)

	require.Equal(t, 1, c.FindInsertionIndex(550*time.Millisecond))
	require.Equal(t, 3, c.FindInsertionIndex(10*time.Second))
	require.Equal(t, 0, c.FindInsertionIndex(100*time.Millisecond))
}

func TestQuantizer_BoundsAccumulatedError(t *testing.T) {
	q := newQuantizer(time.Millisecond)
	deltas := []time.Duration{
		300 * time.Microsecond,
		300 * time.Microsecond,
		300 * time.Microsecond,
		300 * time.Microsecond,
		300 * time.Microsecond,
	}
	var inputTotal, outputTotal time.Duration
	for _, d := range deltas {
		inputTotal += d
		out := q.next(d)
		outputTotal += out
		diff := inputTotal - outputTotal
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, time.Millisecond/2+1)
	}
}

func TestMarkerPreservationOrder(t *testing.T) {
	src := `{"version":3,"term":{"cols":80,"rows":24}}` + "\n" +
		`[0.1,"o","line1\n"]` + "\n" +
		`[0.1,"m","mark"]` + "\n" +
		`[0.1,"o","line2\n"]` + "\n"
	c := mustParse(t, src)
	require.Len(t, c.Events, 3)
	require.Equal(t, KindOutput, c.Events[0].Kind)
	require.Equal(t, KindMarker, c.Events[1].Kind)
	require.Equal(t, KindOutput, c.Events[2].Kind)
}

func TestExitAndResizePayloads(t *testing.T) {
	src := `{"version":3,"term":{"cols":80,"rows":24}}` + "\n" +
		`[0,"r","100x40"]` + "\n" +
		`[0,"x","1"]` + "\n"
	c := mustParse(t, src)
	cols, rows, err := c.Events[0].Resize()
	require.NoError(t, err)
	require.Equal(t, 100, cols)
	require.Equal(t, 40, rows)

	code, err := c.Events[1].ExitCode()
	require.NoError(t, err)
	require.Equal(t, 1, code)
}
