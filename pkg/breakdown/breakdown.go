package breakdown

import (
	"fmt"
	"io"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
)

// ByEventType reads a frame-event trace from r and returns a breakdown of it
// by event type. Events without a type are counted as UNSPECIFIED, records
// without a buffer event are skipped.
func ByEventType(r io.Reader) (EventTypeBreakdown, error) {
	dec := encoding.NewDecoder(r)
	breakdown := make(EventTypeBreakdown)

	var rec encoding.Record
	for {
		err := dec.Decode(&rec)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		var frameEvent encoding.GraphicsFrameEvent
		if err := encoding.DecodeGraphicsFrameEvent(rec.Blob, &frameEvent); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		if frameEvent.BufferEvent == nil {
			continue
		}
		typ := frameEvent.BufferEvent.Type
		breakdown[typ] = EventTypeSummary{
			EventType: typ,
			Count:     breakdown[typ].Count + 1,
			Bytes:     breakdown[typ].Bytes + int64(len(rec.Blob)),
		}
	}

	return breakdown, nil
}

// EventTypeBreakdown breaks down the size of a trace by event type.
type EventTypeBreakdown map[encoding.EventType]EventTypeSummary

// EventTypeSummary summarizes the occurence of an event type inside of a trace.
type EventTypeSummary struct {
	// EventType is the type of event.
	EventType encoding.EventType
	// Count is the number of times this event occurred in the trace.
	Count int64
	// Bytes is the amount of data occupied by events of this type in the trace.
	Bytes int64
}
