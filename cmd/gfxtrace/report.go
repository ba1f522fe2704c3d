package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
	"github.com/gfxtrace/gfxtrace/pkg/frameevent"
	"github.com/gfxtrace/gfxtrace/pkg/latency"
	"github.com/gfxtrace/gfxtrace/pkg/storage"
)

// Format selects how tables are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// parseTrace reads a container file and runs every record through the
// frame-event parser, returning the populated storage.
func parseTrace(path string, log zerolog.Logger) (*storage.TraceStorage, error) {
	inFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	st := storage.New()
	parser := frameevent.NewParser(st, log)
	dec := encoding.NewDecoder(inFile)

	var rec encoding.Record
	for {
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		if err := parser.ParseGraphicsFrameEvent(rec.Timestamp, rec.Blob); err != nil {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}
	}
	return st, nil
}

// SlicesCommand prints the flat frame-event slice table.
func SlicesCommand(format Format, log zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	st, err := parseTrace(args[0], log)
	if err != nil {
		return err
	}

	header := []string{
		"Ts", "Dur", "Track", "Name", "Frame", "Layer",
		"QueueToAcquire", "AcquireToLatch", "LatchToPresent",
	}
	rows := sliceRows(st, st.FrameEventSlices, func(row storage.FrameSliceRow, cols []string) []string {
		return append(cols,
			strconv.FormatInt(row.QueueToAcquireTime, 10),
			strconv.FormatInt(row.AcquireToLatchTime, 10),
			strconv.FormatInt(row.LatchToPresentTime, 10),
		)
	})
	return render(format, header, rows, nil)
}

// PhasesCommand prints the derived phase slice table.
func PhasesCommand(format Format, log zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	st, err := parseTrace(args[0], log)
	if err != nil {
		return err
	}

	header := []string{"Ts", "Dur", "Track", "Name", "Frame", "Layer", "Args"}
	table := st.PhaseSlices
	rows := sliceRows(st, table, nil)
	for id := range rows {
		var details string
		for _, arg := range table.Args(storage.SliceID(id)) {
			if details != "" {
				details += "; "
			}
			details += st.GetString(arg.Key) + "=" + st.GetString(arg.Value)
		}
		rows[id] = append(rows[id], details)
	}
	return render(format, header, rows, nil)
}

// TracksCommand prints the GPU track table.
func TracksCommand(format Format, log zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	st, err := parseTrace(args[0], log)
	if err != nil {
		return err
	}

	header := []string{"ID", "Name", "Scope"}
	var rows [][]string
	for id, track := range st.GpuTracks() {
		rows = append(rows, []string{
			strconv.Itoa(id),
			st.GetString(track.Name),
			st.GetString(track.Scope),
		})
	}
	return render(format, header, rows, nil)
}

// StatsCommand prints the parser error stat, per-track slice counts and the
// per-layer latency summaries.
func StatsCommand(log zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	st, err := parseTrace(args[0], log)
	if err != nil {
		return err
	}

	fmt.Printf("graphics_frame_event_parser_errors: %d\n\n",
		st.StatValue(storage.StatGraphicsFrameEventParserErrors))

	// Slice counts per track, across both tables.
	counts := make(map[string]int)
	for _, table := range []*storage.FrameSliceTable{st.FrameEventSlices, st.PhaseSlices} {
		for _, row := range table.Rows() {
			counts[st.GetString(st.GpuTracks()[row.TrackID].Name)]++
		}
	}
	names := maps.Keys(counts)
	sort.Strings(names)

	var rows [][]string
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	if err := render(FormatTable, []string{"Track", "Slices"}, rows, nil); err != nil {
		return err
	}

	rows = rows[:0]
	for _, s := range latency.ByLayer(st) {
		mean := func(total int64) string {
			return strconv.FormatInt(total/s.Frames, 10)
		}
		rows = append(rows, []string{
			s.LayerName,
			strconv.FormatInt(s.Frames, 10),
			mean(s.QueueToAcquire),
			mean(s.AcquireToLatch),
			mean(s.LatchToPresent),
		})
	}
	header := []string{
		"Layer", "Frames",
		"QueueToAcquire (mean ns)", "AcquireToLatch (mean ns)", "LatchToPresent (mean ns)",
	}
	return render(FormatTable, header, rows, nil)
}

// sliceRows renders the shared columns of a slice table. extra, when set,
// appends more columns per row.
func sliceRows(st *storage.TraceStorage, table *storage.FrameSliceTable,
	extra func(storage.FrameSliceRow, []string) []string) [][]string {

	var rows [][]string
	for _, row := range table.Rows() {
		cols := []string{
			strconv.FormatInt(row.Ts, 10),
			strconv.FormatInt(row.Dur, 10),
			st.GetString(st.GpuTracks()[row.TrackID].Name),
			st.GetString(row.Name),
			strconv.FormatUint(uint64(row.FrameNumber), 10),
			st.GetString(row.LayerName),
		}
		if extra != nil {
			cols = extra(row, cols)
		}
		rows = append(rows, cols)
	}
	return rows
}

// render writes rows to stdout in the requested format.
func render(format Format, header []string, rows [][]string, footer []string) error {
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(os.Stdout)
		cw.Write(header)
		for _, row := range rows {
			cw.Write(row)
		}
		cw.Flush()
		return cw.Error()
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(header)
		table.AppendBulk(rows)
		if footer != nil {
			table.SetFooter(footer)
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
