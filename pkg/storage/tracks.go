package storage

// TrackID identifies a row in the GPU track table.
type TrackID uint32

// GpuTrackRow describes one synthetic GPU track. Scope namespaces the track
// name so different importers can reuse the same names.
type GpuTrackRow struct {
	Name  StringID
	Scope StringID
}

// gpuTrackTable interns track rows. Identical rows map to the same TrackID.
type gpuTrackTable struct {
	rows  []GpuTrackRow
	index map[GpuTrackRow]TrackID
}

func newGpuTrackTable() *gpuTrackTable {
	return &gpuTrackTable{index: make(map[GpuTrackRow]TrackID)}
}

func (t *gpuTrackTable) intern(row GpuTrackRow) TrackID {
	if id, ok := t.index[row]; ok {
		return id
	}
	id := TrackID(len(t.rows))
	t.rows = append(t.rows, row)
	t.index[row] = id
	return id
}
