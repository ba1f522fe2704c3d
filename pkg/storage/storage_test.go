package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternStringStable(t *testing.T) {
	st := New()

	a := st.InternString([]byte("layer"))
	b := st.InternString([]byte("layer"))
	c := st.InternString([]byte("other"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, "layer", st.GetString(a))
	require.Equal(t, "other", st.GetString(c))

	// The empty string is pre-interned as id 0.
	require.Equal(t, NullStringID, st.InternString(nil))
	require.Equal(t, "", st.GetString(NullStringID))
}

func TestInternGpuTrackIdempotent(t *testing.T) {
	st := New()
	scope := st.InternString([]byte("graphics_frame_event"))
	name := st.InternString([]byte("Buffer: 7"))

	t1 := st.InternGpuTrack(GpuTrackRow{Name: name, Scope: scope})
	t2 := st.InternGpuTrack(GpuTrackRow{Name: name, Scope: scope})
	require.Equal(t, t1, t2)

	other := st.InternGpuTrack(GpuTrackRow{Name: st.InternString([]byte("APP_7")), Scope: scope})
	require.NotEqual(t, t1, other)
	require.Len(t, st.GpuTracks(), 2)
}

func TestFrameSliceTableMutation(t *testing.T) {
	st := New()
	tbl := st.FrameEventSlices

	id := tbl.Append(FrameSliceRow{Ts: 100, Dur: 5, FrameNumber: 0})
	require.Equal(t, 1, tbl.Len())

	name := st.InternString([]byte("42"))
	tbl.SetName(id, name)
	tbl.SetFrameNumber(id, 42)
	tbl.SetDur(id, 7)

	row := tbl.Row(id)
	require.Equal(t, name, row.Name)
	require.Equal(t, uint32(42), row.FrameNumber)
	require.Equal(t, int64(7), row.Dur)

	key := st.InternString([]byte("Details"))
	val := st.InternString([]byte("a message"))
	tbl.AddArg(id, Arg{Key: key, Value: val})
	require.Equal(t, []Arg{{Key: key, Value: val}}, tbl.Args(id))
}

func TestStats(t *testing.T) {
	st := New()
	require.Equal(t, uint64(0), st.StatValue(StatGraphicsFrameEventParserErrors))
	st.IncrementStat(StatGraphicsFrameEventParserErrors)
	st.IncrementStat(StatGraphicsFrameEventParserErrors)
	require.Equal(t, uint64(2), st.StatValue(StatGraphicsFrameEventParserErrors))
}
