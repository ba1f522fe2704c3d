package anonymize

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
)

func TestAnonymizeTrace(t *testing.T) {
	var in bytes.Buffer
	enc := encoding.NewEncoder(&in)

	write := func(ts int64, layer string) {
		ev := encoding.BufferEvent{
			Type:        encoding.EventQueue,
			HasType:     true,
			BufferID:    1,
			HasBufferID: true,
		}
		if layer != "" {
			ev.LayerName = []byte(layer)
			ev.HasLayerName = true
		}
		rec := encoding.Record{
			Timestamp: ts,
			Blob: encoding.AppendGraphicsFrameEvent(nil,
				&encoding.GraphicsFrameEvent{BufferEvent: &ev}),
		}
		require.NoError(t, enc.Encode(&rec))
	}
	write(100, "com.example.App#42")
	write(200, "")
	write(300, "com.example.App#42")

	var out bytes.Buffer
	require.NoError(t, AnonymizeTrace(bytes.NewReader(in.Bytes()), &out))

	dec := encoding.NewDecoder(&out)
	var layers []string
	var timestamps []int64
	for {
		var rec encoding.Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		timestamps = append(timestamps, rec.Timestamp)

		var frameEvent encoding.GraphicsFrameEvent
		require.NoError(t, encoding.DecodeGraphicsFrameEvent(rec.Blob, &frameEvent))
		require.NotNil(t, frameEvent.BufferEvent)
		if frameEvent.BufferEvent.HasLayerName {
			layers = append(layers, string(frameEvent.BufferEvent.LayerName))
		}
	}

	// Structure is preserved, letters are not.
	assert.Equal(t, []int64{100, 200, 300}, timestamps)
	require.Len(t, layers, 2)
	assert.Equal(t, "xxx.xxxxxxx.Xxx#42", layers[0])
	// Identical inputs obfuscate identically.
	assert.Equal(t, layers[0], layers[1])
}
