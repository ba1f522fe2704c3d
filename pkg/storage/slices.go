package storage

// SliceID identifies a row in a FrameSliceTable. Ids are only meaningful
// within the table that issued them.
type SliceID uint32

// FrameSliceRow is one frame-event slice. The three latency fields are only
// populated on PRESENT_FENCE rows of the flat table.
type FrameSliceRow struct {
	Ts          int64
	Dur         int64
	TrackID     TrackID
	Name        StringID
	FrameNumber uint32
	LayerName   StringID

	QueueToAcquireTime int64
	AcquireToLatchTime int64
	LatchToPresentTime int64
}

// Arg is one string-valued key/value pair attached to a slice.
type Arg struct {
	Key   StringID
	Value StringID
}

// FrameSliceTable stores frame-event slices in insertion order. Rows stay
// mutable after insertion: the parser late-binds the name and frame number of
// DEQUEUE slices once the matching QUEUE or LATCH event supplies them.
type FrameSliceTable struct {
	rows []FrameSliceRow
	args map[SliceID][]Arg
}

// NewFrameSliceTable returns an empty table.
func NewFrameSliceTable() *FrameSliceTable {
	return &FrameSliceTable{args: make(map[SliceID][]Arg)}
}

// Append inserts row and returns its id.
func (t *FrameSliceTable) Append(row FrameSliceRow) SliceID {
	id := SliceID(len(t.rows))
	t.rows = append(t.rows, row)
	return id
}

// Len returns the number of rows.
func (t *FrameSliceTable) Len() int {
	return len(t.rows)
}

// Row returns a copy of the row with the given id.
func (t *FrameSliceTable) Row(id SliceID) FrameSliceRow {
	return t.rows[id]
}

// Rows returns the rows in insertion order. The returned slice is owned by
// the table and must not be mutated.
func (t *FrameSliceTable) Rows() []FrameSliceRow {
	return t.rows
}

// SetName overwrites the name column of an existing row.
func (t *FrameSliceTable) SetName(id SliceID, name StringID) {
	t.rows[id].Name = name
}

// SetFrameNumber overwrites the frame_number column of an existing row.
func (t *FrameSliceTable) SetFrameNumber(id SliceID, frameNumber uint32) {
	t.rows[id].FrameNumber = frameNumber
}

// SetDur overwrites the duration column of an existing row.
func (t *FrameSliceTable) SetDur(id SliceID, dur int64) {
	t.rows[id].Dur = dur
}

// AddArg attaches a key/value pair to an existing row.
func (t *FrameSliceTable) AddArg(id SliceID, arg Arg) {
	t.args[id] = append(t.args[id], arg)
}

// Args returns the args attached to a row, in insertion order.
func (t *FrameSliceTable) Args(id SliceID) []Arg {
	return t.args[id]
}
