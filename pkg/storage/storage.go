// Package storage holds the tables a frame-event trace is parsed into: an
// interned string pool, a GPU track table and two frame slice tables (the
// flat per-event table and the derived phase table), plus parser stats.
//
// A TraceStorage is owned by a single parsing pipeline and is not safe for
// concurrent use.
package storage

// Stat identifies a counter tracked during parsing.
type Stat int

const (
	// StatGraphicsFrameEventParserErrors counts malformed buffer events:
	// missing buffer_id, missing type, or an out-of-range type ordinal.
	StatGraphicsFrameEventParserErrors Stat = iota

	statCount
)

// TraceStorage owns all state derived from one trace.
type TraceStorage struct {
	strings *stringPool
	tracks  *gpuTrackTable

	// FrameEventSlices holds one row per raw buffer event.
	FrameEventSlices *FrameSliceTable
	// PhaseSlices holds the derived APP / GPU / SF / Display intervals.
	PhaseSlices *FrameSliceTable

	stats [statCount]uint64
}

// New returns an empty TraceStorage.
func New() *TraceStorage {
	return &TraceStorage{
		strings:          newStringPool(),
		tracks:           newGpuTrackTable(),
		FrameEventSlices: NewFrameSliceTable(),
		PhaseSlices:      NewFrameSliceTable(),
	}
}

// InternString interns s and returns its stable id.
func (s *TraceStorage) InternString(b []byte) StringID {
	return s.strings.Intern(b)
}

// GetString resolves an interned id back to its string.
func (s *TraceStorage) GetString(id StringID) string {
	return s.strings.Get(id)
}

// InternGpuTrack interns a track row, returning the existing id for an
// identical row.
func (s *TraceStorage) InternGpuTrack(row GpuTrackRow) TrackID {
	return s.tracks.intern(row)
}

// GpuTracks returns all track rows, indexed by TrackID.
func (s *TraceStorage) GpuTracks() []GpuTrackRow {
	return s.tracks.rows
}

// IncrementStat bumps the given counter by one.
func (s *TraceStorage) IncrementStat(stat Stat) {
	s.stats[stat]++
}

// StatValue returns the current value of the given counter.
func (s *TraceStorage) StatValue(stat Stat) uint64 {
	return s.stats[stat]
}
