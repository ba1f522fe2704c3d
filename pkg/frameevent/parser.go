// Package frameevent parses a stream of per-buffer graphics frame events
// into two tables: a flat table with one slice per raw event, and a phase
// table with the APP / wait-for-GPU / compositor / display intervals each
// frame passes through.
//
// Events arrive interleaved across buffers and some events can be lost, so
// the parser keeps per-buffer state to close phases pairwise and to recover
// from gaps (a missing QUEUE event, or an acquire fence that signals before
// the queue event arrives).
package frameevent

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
	"github.com/gfxtrace/gfxtrace/pkg/storage"
	"github.com/gfxtrace/gfxtrace/pkg/tracker"
)

// queueLostMessage annotates an APP slice that had to be closed at LATCH
// time because the QUEUE event went missing.
const queueLostMessage = "Missing queue event. The slice is now a bit extended than it might " +
	"actually have been"

// eventNames maps each EventType ordinal to the name its flat slices carry.
var eventNames = [encoding.EventTypeCount]string{
	encoding.EventUnspecified:          "unspecified_event",
	encoding.EventDequeue:              "Dequeue",
	encoding.EventQueue:                "Queue",
	encoding.EventPost:                 "Post",
	encoding.EventAcquireFence:         "AcquireFenceSignaled",
	encoding.EventLatch:                "Latch",
	encoding.EventHWCCompositionQueued: "HWCCompositionQueued",
	encoding.EventFallbackComposition:  "FallbackComposition",
	encoding.EventPresentFence:         "PresentFenceSignaled",
	encoding.EventReleaseFence:         "ReleaseFenceSignaled",
	encoding.EventModify:               "Modify",
	encoding.EventDetach:               "Detach",
	encoding.EventAttach:               "Attach",
	encoding.EventCancel:               "Cancel",
}

// bufferEventKey keys the per-buffer event timestamp cache.
type bufferEventKey struct {
	bufferID  uint32
	eventType encoding.EventType
}

// Parser is the frame-event state machine. It is not safe for concurrent
// use; events must be supplied in trace order.
type Parser struct {
	storage *storage.TraceStorage
	frames  *tracker.SliceTracker // flat table sink
	phases  *tracker.SliceTracker // phase table sink
	log     zerolog.Logger

	scopeID        storage.StringID
	unknownEventID storage.StringID
	noLayerNameID  storage.StringID
	detailsKeyID   storage.StringID
	queueLostMsgID storage.StringID
	eventNameIDs   [encoding.EventTypeCount]storage.StringID

	// eventTsCache remembers the last timestamp of each (buffer, type) pair.
	// PRESENT_FENCE reads the QUEUE, ACQUIRE_FENCE and LATCH entries to
	// compute its latencies.
	eventTsCache map[bufferEventKey]int64
	// dequeueSliceIDs points back at the flat DEQUEUE slice of each buffer
	// so a later QUEUE can stamp the frame number it was missing.
	dequeueSliceIDs map[uint32]storage.SliceID

	// Open phases awaiting their close, one per buffer (or per layer for the
	// display phase).
	dequeueMap map[uint32]storage.TrackID           // open APP phase
	queueMap   map[uint32]storage.TrackID           // open wait-for-GPU phase
	latchMap   map[uint32]storage.TrackID           // open compositor phase
	displayMap map[storage.StringID]storage.TrackID // open display phase

	// Used to detect an acquire fence that signaled before its QUEUE event.
	lastDequeued map[uint32]int64
	lastAcquired map[uint32]int64
}

// NewParser returns a parser that writes into st. The logger only receives
// malformed-event warnings; pass zerolog.Nop() to silence them.
func NewParser(st *storage.TraceStorage, log zerolog.Logger) *Parser {
	p := &Parser{
		storage:         st,
		frames:          tracker.New(st.FrameEventSlices),
		phases:          tracker.New(st.PhaseSlices),
		log:             log,
		scopeID:         st.InternString([]byte("graphics_frame_event")),
		unknownEventID:  st.InternString([]byte("unknown_event")),
		noLayerNameID:   st.InternString([]byte("no_layer_name")),
		detailsKeyID:    st.InternString([]byte("Details")),
		queueLostMsgID:  st.InternString([]byte(queueLostMessage)),
		eventTsCache:    make(map[bufferEventKey]int64),
		dequeueSliceIDs: make(map[uint32]storage.SliceID),
		dequeueMap:      make(map[uint32]storage.TrackID),
		queueMap:        make(map[uint32]storage.TrackID),
		latchMap:        make(map[uint32]storage.TrackID),
		displayMap:      make(map[storage.StringID]storage.TrackID),
		lastDequeued:    make(map[uint32]int64),
		lastAcquired:    make(map[uint32]int64),
	}
	for typ, name := range eventNames {
		p.eventNameIDs[typ] = st.InternString([]byte(name))
	}
	return p
}

// ParseGraphicsFrameEvent decodes blob as a GraphicsFrameEvent message and
// feeds its buffer event through the parser. A message without a buffer
// event is a no-op. Only a malformed blob returns an error; malformed buffer
// events are counted and dropped instead.
func (p *Parser) ParseGraphicsFrameEvent(ts int64, blob []byte) error {
	var frameEvent encoding.GraphicsFrameEvent
	if err := encoding.DecodeGraphicsFrameEvent(blob, &frameEvent); err != nil {
		return fmt.Errorf("failed to decode graphics frame event: %w", err)
	}
	if frameEvent.BufferEvent == nil {
		return nil
	}
	if p.createBufferEvent(ts, frameEvent.BufferEvent) {
		// Create a phase event only if the buffer event finished successfully.
		p.createPhaseEvent(ts, frameEvent.BufferEvent)
	}
	return nil
}

// createBufferEvent emits the flat slice for ev on its "Buffer: <id>" track.
// It reports false if ev carried no buffer id, in which case no phase event
// must be derived from it.
func (p *Parser) createBufferEvent(ts int64, ev *encoding.BufferEvent) bool {
	if !ev.HasBufferID {
		p.storage.IncrementStat(storage.StatGraphicsFrameEventParserErrors)
		p.log.Warn().Int64("ts", ts).Msg("graphics frame event with missing buffer id field")
		return false
	}

	eventNameID := p.unknownEventID
	if ev.HasType {
		if ev.Type.Valid() {
			eventNameID = p.eventNameIDs[ev.Type]
			p.eventTsCache[bufferEventKey{ev.BufferID, ev.Type}] = ts
		} else {
			p.storage.IncrementStat(storage.StatGraphicsFrameEventParserErrors)
			p.log.Warn().
				Uint32("buffer_id", ev.BufferID).
				Int32("type", int32(ev.Type)).
				Msg("graphics frame event with unknown type")
		}
	} else {
		p.storage.IncrementStat(storage.StatGraphicsFrameEventParserErrors)
		p.log.Warn().
			Uint32("buffer_id", ev.BufferID).
			Msg("graphics frame event with missing type field")
	}

	layerNameID := p.noLayerNameID
	if ev.HasLayerName {
		layerNameID = p.storage.InternString(ev.LayerName)
	}

	trackID := p.internTrack("Buffer: " + strconv.FormatUint(uint64(ev.BufferID), 10))

	row := storage.FrameSliceRow{
		Ts:          ts,
		TrackID:     trackID,
		Name:        eventNameID,
		Dur:         ev.DurationNs, // zero when absent
		FrameNumber: ev.FrameNumber,
		LayerName:   layerNameID,
	}
	if ev.Type == encoding.EventPresentFence {
		acquireTs := p.eventTsCache[bufferEventKey{ev.BufferID, encoding.EventAcquireFence}]
		queueTs := p.eventTsCache[bufferEventKey{ev.BufferID, encoding.EventQueue}]
		latchTs := p.eventTsCache[bufferEventKey{ev.BufferID, encoding.EventLatch}]

		// The acquire fence can signal before the queue event, only this
		// delta is clamped.
		row.QueueToAcquireTime = max(acquireTs-queueTs, 0)
		row.AcquireToLatchTime = latchTs - acquireTs
		row.LatchToPresentTime = ts - latchTs
	}
	sliceID := p.frames.Scoped(row)

	if ev.Type == encoding.EventDequeue {
		p.dequeueSliceIDs[ev.BufferID] = sliceID
	} else if ev.Type == encoding.EventQueue {
		if dequeueSliceID, ok := p.dequeueSliceIDs[ev.BufferID]; ok {
			// The dequeue slice had no frame number at insertion time.
			p.storage.FrameEventSlices.SetFrameNumber(dequeueSliceID, ev.FrameNumber)
		}
	}
	return true
}

// createPhaseEvent converts buffer events into phase slices:
//
//	APP:               Dequeue to Queue
//	Wait for GPU:      Queue to AcquireFence
//	SurfaceFlinger:    Latch to PresentFence
//	Display:           PresentFence to the next PresentFence of the same layer
func (p *Parser) createPhaseEvent(ts int64, ev *encoding.BufferEvent) {
	bufferID := ev.BufferID
	frameNumber := ev.FrameNumber

	layerNameID := p.noLayerNameID
	if ev.HasLayerName {
		layerNameID = p.storage.InternString(ev.LayerName)
	}

	var trackID storage.TrackID
	startSlice := true

	// Close the previous phase before starting the new phase.
	switch ev.Type {
	case encoding.EventDequeue:
		trackID = p.internTrack("APP_" + strconv.FormatUint(uint64(bufferID), 10))
		p.dequeueMap[bufferID] = trackID
		p.lastDequeued[bufferID] = ts

	case encoding.EventQueue:
		if appTrack, ok := p.dequeueMap[bufferID]; ok {
			if sliceID, ok := p.phases.End(ts, appTrack); ok {
				p.stampFrameNumber(sliceID, frameNumber)
				delete(p.dequeueMap, bufferID)
			}
		}
		// The AcquireFence might be signaled before receiving a QUEUE event
		// sometimes. In that case, we shouldn't start a slice.
		if p.lastAcquired[bufferID] > p.lastDequeued[bufferID] &&
			p.lastAcquired[bufferID] < ts {
			startSlice = false
			break
		}
		trackID = p.internTrack("GPU_" + strconv.FormatUint(uint64(bufferID), 10))
		p.queueMap[bufferID] = trackID

	case encoding.EventAcquireFence:
		if gpuTrack, ok := p.queueMap[bufferID]; ok {
			p.phases.End(ts, gpuTrack)
			delete(p.queueMap, bufferID)
		}
		p.lastAcquired[bufferID] = ts
		startSlice = false

	case encoding.EventLatch:
		// The QUEUE event sometimes goes missing. Close any open APP slice
		// here and flag it, otherwise it would stay open forever.
		if appTrack, ok := p.dequeueMap[bufferID]; ok {
			sliceID, ok := p.phases.End(ts, appTrack, func(add func(storage.Arg)) {
				add(storage.Arg{Key: p.detailsKeyID, Value: p.queueLostMsgID})
			})
			if ok {
				p.stampFrameNumber(sliceID, frameNumber)
				delete(p.dequeueMap, bufferID)
			}
		}
		trackID = p.internTrack("SF_" + strconv.FormatUint(uint64(bufferID), 10))
		p.latchMap[bufferID] = trackID

	case encoding.EventPresentFence:
		if sfTrack, ok := p.latchMap[bufferID]; ok {
			p.phases.End(ts, sfTrack)
			delete(p.latchMap, bufferID)
		}
		if displayTrack, ok := p.displayMap[layerNameID]; ok {
			p.phases.End(ts, displayTrack)
			delete(p.displayMap, layerNameID)
		}
		layerName := ev.LayerName
		if len(layerName) > 10 {
			layerName = layerName[:10]
		}
		trackID = p.internTrack("Display_" + string(layerName))
		p.displayMap[layerNameID] = trackID

	default:
		startSlice = false
	}

	if !startSlice {
		return
	}

	row := storage.FrameSliceRow{
		Ts:          ts,
		TrackID:     trackID,
		LayerName:   layerNameID,
		FrameNumber: frameNumber,
	}
	// If the frame number is known, it becomes the name of the slice. If not
	// (DEQUEUE), the timestamp is used instead: downstream stack ids are
	// hashed from the name, and the timestamp keeps the name unique until
	// QUEUE or LATCH supplies the frame number and renames the slice.
	if frameNumber != 0 {
		row.Name = p.internFrameNumber(frameNumber)
	} else {
		row.Name = p.storage.InternString([]byte(strconv.FormatInt(ts, 10)))
	}
	p.phases.Begin(row)
}

// stampFrameNumber renames a phase slice that was opened before its frame
// number was known.
func (p *Parser) stampFrameNumber(id storage.SliceID, frameNumber uint32) {
	p.storage.PhaseSlices.SetName(id, p.internFrameNumber(frameNumber))
	p.storage.PhaseSlices.SetFrameNumber(id, frameNumber)
}

func (p *Parser) internFrameNumber(frameNumber uint32) storage.StringID {
	return p.storage.InternString([]byte(strconv.FormatUint(uint64(frameNumber), 10)))
}

func (p *Parser) internTrack(name string) storage.TrackID {
	return p.storage.InternGpuTrack(storage.GpuTrackRow{
		Name:  p.storage.InternString([]byte(name)),
		Scope: p.scopeID,
	})
}
