package breakdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
)

func TestByEventType(t *testing.T) {
	var buf bytes.Buffer
	enc := encoding.NewEncoder(&buf)

	write := func(ts int64, typ encoding.EventType) {
		ev := encoding.GraphicsFrameEvent{BufferEvent: &encoding.BufferEvent{
			Type:        typ,
			HasType:     true,
			BufferID:    1,
			HasBufferID: true,
		}}
		rec := encoding.Record{Timestamp: ts, Blob: encoding.AppendGraphicsFrameEvent(nil, &ev)}
		require.NoError(t, enc.Encode(&rec))
	}
	write(100, encoding.EventDequeue)
	write(200, encoding.EventQueue)
	write(300, encoding.EventDequeue)

	// A record without a buffer event is skipped.
	require.NoError(t, enc.Encode(&encoding.Record{Timestamp: 400}))

	bd, err := ByEventType(&buf)
	require.NoError(t, err)
	require.Len(t, bd, 2)
	require.Equal(t, int64(2), bd[encoding.EventDequeue].Count)
	require.Equal(t, int64(1), bd[encoding.EventQueue].Count)
	require.Greater(t, bd[encoding.EventDequeue].Bytes, bd[encoding.EventQueue].Bytes)
}
