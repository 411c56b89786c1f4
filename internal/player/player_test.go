package player

import (
	"strings"
	"testing"
	"time"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/config"
	"github.com/stretchr/testify/require"
)

func testCast() *cast.Cast {
	return &cast.Cast{
		Header: cast.Header{Version: cast.SupportedVersion, Term: cast.TermInfo{Cols: 20, Rows: 5}},
		Events: []cast.Event{
			{Delta: 0, Kind: cast.KindOutput, Payload: "hello\r\n"},
			{Delta: time.Second, Kind: cast.KindMarker, Payload: "checkpoint"},
			{Delta: time.Second, Kind: cast.KindOutput, Payload: "world\r\n"},
		},
	}
}

func newTestPlayer() *Player {
	c := testCast()
	return New(c, config.DefaultTheme(), strings.NewReader(""), &strings.Builder{})
}

func TestSeekTo_RebuildsGridAndAdvancesEventIdx(t *testing.T) {
	p := newTestPlayer()
	total := p.totalDuration()
	p.seekTo(total + time.Second) // beyond the end, must clamp

	require.Equal(t, len(p.Cast.Events), p.eventIdx)
	require.Equal(t, total, p.currentTime)
	require.Equal(t, total, p.timeOffset)
	require.Contains(t, p.Term.String(), "world")
}

func TestSeekHome_ResetsToZero(t *testing.T) {
	p := newTestPlayer()
	p.seekTo(2 * time.Second)
	p.seekHome()
	require.Equal(t, time.Duration(0), p.currentTime)
	require.NotContains(t, p.Term.String(), "world")
}

func TestSeekEnd_PausesAtTotalDuration(t *testing.T) {
	p := newTestPlayer()
	p.seekEnd()
	require.True(t, p.paused)
	require.Equal(t, p.totalDuration(), p.currentTime)
}

func TestNextMarker_RespectsDeadband(t *testing.T) {
	p := newTestPlayer()
	p.seekTo(time.Second) // exactly at the marker's time
	p.nextMarker()
	// The only marker sits at currentTime itself, which is not strictly
	// past the dead-banded threshold, so nextMarker must not move.
	require.Equal(t, time.Second, p.currentTime)

	p.seekTo(0)
	p.nextMarker()
	require.Equal(t, time.Second, p.currentTime)
}

func TestAdjustSpeed_ClampsToBounds(t *testing.T) {
	p := newTestPlayer()
	for i := 0; i < 20; i++ {
		p.adjustSpeed(speedStep)
	}
	require.LessOrEqual(t, p.speed, maxSpeed)

	for i := 0; i < 40; i++ {
		p.adjustSpeed(1 / speedStep)
	}
	require.GreaterOrEqual(t, p.speed, minSpeed)
}

func TestEnterMode_ViewportAndFreeAreMutuallyExclusive(t *testing.T) {
	p := newTestPlayer()
	p.enterMode(ModeViewport)
	require.Equal(t, ModeViewport, p.mode)

	p.enterMode(ModeFree)
	require.Equal(t, ModeFree, p.mode)
	require.True(t, p.paused)
}

func TestHandleByte_SpaceTogglesPause(t *testing.T) {
	p := newTestPlayer()
	p.startTime = time.Now()
	require.False(t, p.paused)
	p.handleByte(' ')
	require.True(t, p.paused)
	p.handleByte(' ')
	require.False(t, p.paused)
}

func TestHandleEscape_ArrowRightSeeksForward(t *testing.T) {
	p := newTestPlayer()
	p.handleInput([]byte{0x1b, '[', 'C'})
	// seekStep (5s) exceeds this cast's total duration, so the seek clamps.
	require.Equal(t, p.totalDuration(), p.currentTime)
	require.Greater(t, p.currentTime, time.Duration(0))
}

func TestHandleMouseSGR_ClickOnProgressBarSeeksAndResumes(t *testing.T) {
	p := newTestPlayer()
	p.paused = true
	// Term is 20x5, so bar_width = cols-14 = 6, progress row = rows+2 = 7.
	// A click at the middle of the bar (column 5, i.e. barStart+3) should
	// seek to roughly the midpoint of the recording.
	p.handleInput([]byte("\x1b[<0;5;7M"))
	require.False(t, p.paused)
	require.Greater(t, p.currentTime, time.Duration(0))
	require.Less(t, p.currentTime, p.totalDuration())
}

func TestHandleMouseSGR_ClickOutsideProgressRowDoesNothing(t *testing.T) {
	p := newTestPlayer()
	p.paused = true
	p.handleInput([]byte("\x1b[<0;5;1M"))
	require.True(t, p.paused)
	require.Equal(t, time.Duration(0), p.currentTime)
}

func TestHandleMouseSGR_ClickExitsFreeModeEvenOffBar(t *testing.T) {
	p := newTestPlayer()
	p.enterMode(ModeFree)
	require.Equal(t, ModeFree, p.mode)
	p.handleInput([]byte("\x1b[<0;5;1M"))
	require.Equal(t, ModeNormal, p.mode)
}

func TestHandleMouseSGR_RightClickIgnored(t *testing.T) {
	p := newTestPlayer()
	p.paused = true
	p.handleInput([]byte("\x1b[<2;5;7M"))
	require.True(t, p.paused)
	require.Equal(t, time.Duration(0), p.currentTime)
}

func TestHandleMouseSGR_ReleaseEventIgnored(t *testing.T) {
	p := newTestPlayer()
	p.paused = true
	p.handleInput([]byte("\x1b[<0;5;7m"))
	require.True(t, p.paused)
	require.Equal(t, time.Duration(0), p.currentTime)
}

func TestHandleEscape_SecondEscQuits(t *testing.T) {
	p := newTestPlayer()
	p.handleInput([]byte{0x1b})
	require.Equal(t, ModeConfirmQuit, p.mode)
	require.False(t, p.quit)
	p.handleInput([]byte{0x1b})
	require.True(t, p.quit)
}
