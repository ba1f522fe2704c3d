// Package tef exports parsed frame-event tables in Chrome's Trace Event
// Format [1] so they can be opened in chrome://tracing.
//
// [1] https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU
package tef

import (
	"encoding/json"
	"io"

	"github.com/gfxtrace/gfxtrace/pkg/storage"
)

// File is the top-level JSON object of a trace event file.
type File struct {
	TraceEvents     []Event `json:"traceEvents"`
	DisplayTimeUnit string  `json:"displayTimeUnit"`
}

// Event is a single trace event. Timestamps and durations are in
// microseconds, as required by the format.
type Event struct {
	Name      string         `json:"name"`
	Category  string         `json:"cat,omitempty"`
	Phase     string         `json:"ph"`
	Timestamp float64        `json:"ts"`
	Duration  float64        `json:"dur,omitempty"`
	ProcessID int64          `json:"pid"`
	ThreadID  int64          `json:"tid"`
	Args      map[string]any `json:"args,omitempty"`
}

const (
	phaseComplete = "X"
	phaseMetadata = "M"
)

// Convert writes the slice tables of st to w as trace event JSON. Every GPU
// track becomes a named thread: the flat per-buffer tracks under process 1,
// the phase tracks under process 2.
func Convert(st *storage.TraceStorage, w io.Writer) error {
	file := File{DisplayTimeUnit: "ns", TraceEvents: []Event{}}

	// Name the threads after their tracks.
	trackPid := make(map[storage.TrackID]int64)
	addTrackMetadata := func(table *storage.FrameSliceTable, pid int64) {
		for _, row := range table.Rows() {
			if _, ok := trackPid[row.TrackID]; ok {
				continue
			}
			trackPid[row.TrackID] = pid
			file.TraceEvents = append(file.TraceEvents, Event{
				Name:      "thread_name",
				Phase:     phaseMetadata,
				ProcessID: pid,
				ThreadID:  int64(row.TrackID),
				Args: map[string]any{
					"name": st.GetString(st.GpuTracks()[row.TrackID].Name),
				},
			})
		}
	}
	addTrackMetadata(st.FrameEventSlices, 1)
	addTrackMetadata(st.PhaseSlices, 2)

	addSlices := func(table *storage.FrameSliceTable, category string) {
		for id := 0; id < table.Len(); id++ {
			row := table.Row(storage.SliceID(id))
			args := map[string]any{
				"frame_number": row.FrameNumber,
				"layer_name":   st.GetString(row.LayerName),
			}
			for _, arg := range table.Args(storage.SliceID(id)) {
				args[st.GetString(arg.Key)] = st.GetString(arg.Value)
			}
			file.TraceEvents = append(file.TraceEvents, Event{
				Name:      st.GetString(row.Name),
				Category:  category,
				Phase:     phaseComplete,
				Timestamp: float64(row.Ts) / 1e3,
				Duration:  float64(row.Dur) / 1e3,
				ProcessID: trackPid[row.TrackID],
				ThreadID:  int64(row.TrackID),
				Args:      args,
			})
		}
	}
	addSlices(st.FrameEventSlices, "frame_event")
	addSlices(st.PhaseSlices, "phase")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&file)
}
