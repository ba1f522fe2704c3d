package latency

import (
	"bytes"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
	"github.com/gfxtrace/gfxtrace/pkg/frameevent"
	"github.com/gfxtrace/gfxtrace/pkg/storage"
)

// parseFrame drives one full buffer lifecycle through the parser.
func parseFrame(t *testing.T, p *frameevent.Parser, bufferID uint32, layer string, base int64, frameNumber uint32) {
	t.Helper()
	events := []struct {
		typ    encoding.EventType
		offset int64
	}{
		{encoding.EventDequeue, 0},
		{encoding.EventQueue, 100},
		{encoding.EventAcquireFence, 150},
		{encoding.EventLatch, 200},
		{encoding.EventPresentFence, 300},
	}
	for _, e := range events {
		ev := encoding.BufferEvent{
			Type:           e.typ,
			HasType:        true,
			BufferID:       bufferID,
			HasBufferID:    true,
			FrameNumber:    frameNumber,
			HasFrameNumber: true,
			LayerName:      []byte(layer),
			HasLayerName:   true,
		}
		blob := encoding.AppendGraphicsFrameEvent(nil, &encoding.GraphicsFrameEvent{BufferEvent: &ev})
		require.NoError(t, p.ParseGraphicsFrameEvent(base+e.offset, blob))
	}
}

func TestByLayer(t *testing.T) {
	st := storage.New()
	p := frameevent.NewParser(st, zerolog.Nop())

	parseFrame(t, p, 1, "layer-b", 1000, 1)
	parseFrame(t, p, 1, "layer-b", 2000, 2)
	parseFrame(t, p, 2, "layer-a", 3000, 1)

	summaries := ByLayer(st)
	require.Len(t, summaries, 2)

	// Sorted by layer name.
	assert.Equal(t, "layer-a", summaries[0].LayerName)
	assert.Equal(t, int64(1), summaries[0].Frames)

	b := summaries[1]
	assert.Equal(t, "layer-b", b.LayerName)
	assert.Equal(t, int64(2), b.Frames)
	// Per frame: queue@+100, acquire@+150, latch@+200, present@+300.
	assert.Equal(t, int64(100), b.QueueToAcquire)
	assert.Equal(t, int64(100), b.AcquireToLatch)
	assert.Equal(t, int64(200), b.LatchToPresent)
}

func TestConvert(t *testing.T) {
	st := storage.New()
	p := frameevent.NewParser(st, zerolog.Nop())
	parseFrame(t, p, 1, "layer-a", 1000, 1)

	var buf bytes.Buffer
	require.NoError(t, Convert(st, &buf))

	prof, err := profile.Parse(&buf)
	require.NoError(t, err)
	require.NoError(t, prof.CheckValid())

	require.Len(t, prof.Sample, 1)
	assert.Equal(t, []int64{50, 50, 100}, prof.Sample[0].Value)
	require.Len(t, prof.Function, 1)
	assert.Equal(t, "layer-a", prof.Function[0].Name)
}
