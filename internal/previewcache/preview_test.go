package previewcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/vt"
)

func TestBuildPreview_SnapshotPreservesStyling(t *testing.T) {
	c := &cast.Cast{
		Header: cast.Header{Version: cast.SupportedVersion, Term: cast.TermInfo{Cols: 10, Rows: 3}},
		Events: []cast.Event{
			{Delta: 0, Kind: cast.KindOutput, Payload: "\x1b[1;31mhi\x1b[0m"},
		},
	}

	p := BuildPreview(c)

	require.NotEmpty(t, p.Snapshot)
	require.Len(t, p.Snapshot[0], 2) // "hi", trailing blanks trimmed
	require.Equal(t, 'h', p.Snapshot[0][0].Char)
	require.True(t, p.Snapshot[0][0].Style.Bold)
	require.Equal(t, vt.ColorNamed, p.Snapshot[0][0].Style.Fg.Kind)
	require.Equal(t, uint8(1), p.Snapshot[0][0].Style.Fg.Named) // red
}

func TestBuildPreview_KeepsOneLinePerGridRow(t *testing.T) {
	c := &cast.Cast{
		Header: cast.Header{Version: cast.SupportedVersion, Term: cast.TermInfo{Cols: 10, Rows: 3}},
		Events: []cast.Event{
			{Delta: 0, Kind: cast.KindOutput, Payload: "hi"},
		},
	}

	p := BuildPreview(c)

	require.Len(t, p.Snapshot, 3) // one StyledLine per grid row, even if empty
	require.Empty(t, p.Snapshot[1])
}
