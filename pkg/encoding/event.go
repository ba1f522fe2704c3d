package encoding

import "strconv"

// EventType identifies a buffer lifecycle transition. The ordinal values are
// wire-stable, they match the BufferEventType enum of the originating proto.
type EventType int32

const (
	EventUnspecified          EventType = 0  // unknown or unset transition
	EventDequeue              EventType = 1  // app takes a free buffer from the queue
	EventQueue                EventType = 2  // app queues a rendered buffer
	EventPost                 EventType = 3  // buffer posted to the compositor
	EventAcquireFence         EventType = 4  // GPU finished rendering, fence signaled
	EventLatch                EventType = 5  // compositor latched the buffer
	EventHWCCompositionQueued EventType = 6  // composition handed to the hardware composer
	EventFallbackComposition  EventType = 7  // composition fell back to the GPU
	EventPresentFence         EventType = 8  // buffer shown on the display
	EventReleaseFence         EventType = 9  // buffer returned to the free queue
	EventModify               EventType = 10 // buffer modified in place
	EventDetach               EventType = 11 // buffer detached from its queue
	EventAttach               EventType = 12 // buffer attached to a queue
	EventCancel               EventType = 13 // dequeued buffer canceled

	// EventTypeCount is the number of known enum values. Ordinals >= this
	// are unknown to the parser.
	EventTypeCount = 14
)

var eventTypeNames = [EventTypeCount]string{
	"UNSPECIFIED",
	"DEQUEUE",
	"QUEUE",
	"POST",
	"ACQUIRE_FENCE",
	"LATCH",
	"HWC_COMPOSITION_QUEUED",
	"FALLBACK_COMPOSITION",
	"PRESENT_FENCE",
	"RELEASE_FENCE",
	"MODIFY",
	"DETACH",
	"ATTACH",
	"CANCEL",
}

// Valid returns true if t is one of the known enum values.
func (t EventType) Valid() bool {
	return t >= 0 && t < EventTypeCount
}

// String returns the proto identifier of t, or a decimal rendering for
// out-of-range ordinals.
func (t EventType) String() string {
	if t.Valid() {
		return eventTypeNames[t]
	}
	return "EventType(" + strconv.FormatInt(int64(t), 10) + ")"
}

// BufferEvent is one decoded GraphicsFrameEvent.BufferEvent message. All
// fields are optional on the wire; the Has booleans carry field presence.
type BufferEvent struct {
	FrameNumber    uint32
	HasFrameNumber bool
	Type           EventType
	HasType        bool
	LayerName      []byte
	HasLayerName   bool
	DurationNs     int64
	HasDurationNs  bool
	BufferID       uint32
	HasBufferID    bool
}

// GraphicsFrameEvent is the decoded top-level message. BufferEvent is nil
// when the buffer_event field was absent.
type GraphicsFrameEvent struct {
	BufferEvent *BufferEvent
}

// Record is one timestamped event blob inside a container stream.
type Record struct {
	Timestamp int64
	Blob      []byte
}
