// Package latency aggregates the inter-phase latencies the parser attaches
// to PRESENT_FENCE slices, and exports them as a pprof profile with one
// synthetic location per layer.
package latency

import (
	"io"
	"sort"

	"github.com/google/pprof/profile"

	"github.com/gfxtrace/gfxtrace/pkg/storage"
)

// Summary aggregates the latencies of all presented frames of one layer.
type Summary struct {
	LayerName string
	Frames    int64

	// Nanosecond totals, divide by Frames for the mean.
	QueueToAcquire int64
	AcquireToLatch int64
	LatchToPresent int64
}

// ByLayer summarizes per-layer latencies from the flat frame-event table.
// Layers are returned in ascending name order.
func ByLayer(st *storage.TraceStorage) []Summary {
	presentNameID := st.InternString([]byte("PresentFenceSignaled"))

	byLayer := make(map[storage.StringID]*Summary)
	for _, row := range st.FrameEventSlices.Rows() {
		if row.Name != presentNameID {
			continue
		}
		s, ok := byLayer[row.LayerName]
		if !ok {
			s = &Summary{LayerName: st.GetString(row.LayerName)}
			byLayer[row.LayerName] = s
		}
		s.Frames++
		s.QueueToAcquire += row.QueueToAcquireTime
		s.AcquireToLatch += row.AcquireToLatchTime
		s.LatchToPresent += row.LatchToPresentTime
	}

	summaries := make([]Summary, 0, len(byLayer))
	for _, s := range byLayer {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LayerName < summaries[j].LayerName
	})
	return summaries
}

// Convert writes the per-layer latency totals of st to w as a gzipped pprof
// profile. Each layer becomes a synthetic location so the profile groups by
// layer in pprof tooling.
func Convert(st *storage.TraceStorage, w io.Writer) error {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "queue-to-acquire", Unit: "nanoseconds"},
			{Type: "acquire-to-latch", Unit: "nanoseconds"},
			{Type: "latch-to-present", Unit: "nanoseconds"},
		},
		DefaultSampleType: "latch-to-present",
	}

	for i, s := range ByLayer(st) {
		fn := &profile.Function{
			ID:   uint64(i + 1),
			Name: s.LayerName,
		}
		p.Function = append(p.Function, fn)

		location := &profile.Location{
			ID:   uint64(i + 1),
			Line: []profile.Line{{Function: fn}},
		}
		p.Location = append(p.Location, location)

		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{location},
			Value:    []int64{s.QueueToAcquire, s.AcquireToLatch, s.LatchToPresent},
			Label:    map[string][]string{"layer": {s.LayerName}},
		})
	}

	return p.Write(w)
}
