// Package tracker provides the slice sink that the frame-event parser emits
// into: scoped (fixed-duration) slices, and begin/end pairs where the end of
// a phase is only known when a later event arrives.
package tracker

import (
	"github.com/gfxtrace/gfxtrace/pkg/storage"
)

// ArgsFunc attaches extra args to a slice as it is being closed.
type ArgsFunc func(add func(arg storage.Arg))

// SliceTracker inserts slices into one FrameSliceTable and tracks the open
// (begun but not yet ended) slices per track.
type SliceTracker struct {
	table *storage.FrameSliceTable
	open  map[storage.TrackID][]storage.SliceID
}

// New returns a tracker writing into table.
func New(table *storage.FrameSliceTable) *SliceTracker {
	return &SliceTracker{
		table: table,
		open:  make(map[storage.TrackID][]storage.SliceID),
	}
}

// Scoped inserts a complete slice whose duration is already known.
func (t *SliceTracker) Scoped(row storage.FrameSliceRow) storage.SliceID {
	return t.table.Append(row)
}

// Begin opens a slice on row.TrackID. The duration is left at the row's
// value until End closes it.
func (t *SliceTracker) Begin(row storage.FrameSliceRow) storage.SliceID {
	id := t.table.Append(row)
	t.open[row.TrackID] = append(t.open[row.TrackID], id)
	return id
}

// End closes the most-recent open slice on trackID at ts, setting its
// duration to ts minus its begin timestamp and applying any args callbacks.
// It reports false if no slice was open on that track.
func (t *SliceTracker) End(ts int64, trackID storage.TrackID, args ...ArgsFunc) (storage.SliceID, bool) {
	stack := t.open[trackID]
	if len(stack) == 0 {
		return 0, false
	}
	id := stack[len(stack)-1]
	t.open[trackID] = stack[:len(stack)-1]

	t.table.SetDur(id, ts-t.table.Row(id).Ts)
	for _, fn := range args {
		fn(func(arg storage.Arg) {
			t.table.AddArg(id, arg)
		})
	}
	return id, true
}
