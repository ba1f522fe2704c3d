package print

import (
	"fmt"
	"io"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
)

// DefaultEventFilter returns a filter that matches all events.
func DefaultEventFilter() EventFilter {
	return EventFilter{MaxTs: -1, BufferID: -1}
}

// EventFilter is used to filter events.
type EventFilter struct {
	// MinTs prints events with a timestamp >= MinTs. The unit is nanoseconds.
	MinTs int64
	// MaxTs prints events with a timestamp <= MaxTs. The unit is nanoseconds.
	// If MaxTs is -1, there is no upper limit.
	MaxTs int64
	// Only prints events for this buffer. If BufferID is -1 events for all
	// buffers are printed.
	BufferID int64
	// Only prints events for this layer. If Layer is empty, events for all
	// layers are printed.
	Layer string
}

// Events prints all buffer events contained in r that match the given filter
// to w, one line per event.
func Events(r io.Reader, w io.Writer, filter EventFilter) error {
	dec := encoding.NewDecoder(r)
	var rec encoding.Record
	for {
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		var frameEvent encoding.GraphicsFrameEvent
		if err := encoding.DecodeGraphicsFrameEvent(rec.Blob, &frameEvent); err != nil {
			return fmt.Errorf("failed to decode record: %w", err)
		}
		ev := frameEvent.BufferEvent
		if ev == nil ||
			!matchMinTs(rec.Timestamp, filter.MinTs) ||
			!matchMaxTs(rec.Timestamp, filter.MaxTs) ||
			!matchBufferID(ev, filter.BufferID) ||
			!matchLayer(ev, filter.Layer) {
			continue
		}
		printEvent(w, rec.Timestamp, ev)
	}
}

// matchMinTs returns true if ts is >= minTs.
func matchMinTs(ts, minTs int64) bool {
	return ts >= minTs
}

// matchMaxTs returns true if ts is <= maxTs or maxTs is -1.
func matchMaxTs(ts, maxTs int64) bool {
	return maxTs == -1 || ts <= maxTs
}

// matchBufferID returns true if the event's buffer matches bufferID or
// bufferID is -1.
func matchBufferID(ev *encoding.BufferEvent, bufferID int64) bool {
	return bufferID == -1 || (ev.HasBufferID && int64(ev.BufferID) == bufferID)
}

// matchLayer returns true if the event's layer matches layer or layer is
// empty.
func matchLayer(ev *encoding.BufferEvent, layer string) bool {
	return layer == "" || (ev.HasLayerName && string(ev.LayerName) == layer)
}

func printEvent(w io.Writer, ts int64, ev *encoding.BufferEvent) {
	fmt.Fprintf(w, "%d %s", ts, ev.Type)
	if ev.HasBufferID {
		fmt.Fprintf(w, " buffer=%d", ev.BufferID)
	}
	if ev.HasFrameNumber {
		fmt.Fprintf(w, " frame=%d", ev.FrameNumber)
	}
	if ev.HasLayerName {
		fmt.Fprintf(w, " layer=%q", ev.LayerName)
	}
	if ev.HasDurationNs {
		fmt.Fprintf(w, " dur=%d", ev.DurationNs)
	}
	io.WriteString(w, "\n")
}
