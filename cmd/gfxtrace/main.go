package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/rs/zerolog"

	"github.com/gfxtrace/gfxtrace/pkg/print"
)

// main is the entry point for the gfxtrace command line tool.
func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// realMain is a helper function for main that returns an error.
func realMain() error {
	fs := flag.NewFlagSet("gfxtrace", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: gfxtrace [flags] <command> <input> [output]\n\n")
		fmt.Fprintf(fs.Output(), "Commands:\n")
		fmt.Fprintf(fs.Output(), "  - slices: Print the flat frame-event slice table.\n")
		fmt.Fprintf(fs.Output(), "  - phases: Print the derived phase slice table.\n")
		fmt.Fprintf(fs.Output(), "  - tracks: Print the GPU track table.\n")
		fmt.Fprintf(fs.Output(), "  - stats: Print parser stats and per-layer latency summaries.\n")
		fmt.Fprintf(fs.Output(), "  - print: Print raw buffer events.\n")
		fmt.Fprintf(fs.Output(), "  - breakdown: Break the trace down by event type.\n")
		fmt.Fprintf(fs.Output(), "  - anonymize: Obfuscate layer names in a trace.\n")
		fmt.Fprintf(fs.Output(), "  - tef: Convert the trace to Chrome trace event JSON.\n")
		fmt.Fprintf(fs.Output(), "  - pprof: Write per-layer latencies as a pprof profile.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	var (
		formatF   = fs.String("format", "table", "output format: table or csv")
		flavorF   = fs.String("flavor", "count", "breakdown flavor: count, size or csv")
		verboseF  = fs.Bool("v", false, "log malformed events to stderr")
		minTsF    = fs.Int64("min-ts", 0, "print: only events with timestamp >= min-ts")
		maxTsF    = fs.Int64("max-ts", -1, "print: only events with timestamp <= max-ts, -1 for no limit")
		bufferIDF = fs.Int64("buffer", -1, "print: only events for this buffer id, -1 for all")
		layerF    = fs.String("layer", "", "print: only events for this layer")
	)

	// Flags can also be set through GFXTRACE_* environment variables.
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("GFXTRACE")); err != nil {
		return err
	}

	log := zerolog.Nop()
	if *verboseF {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	switch cmd := args[0]; cmd {
	case "slices":
		return SlicesCommand(Format(*formatF), log, args[1:])
	case "phases":
		return PhasesCommand(Format(*formatF), log, args[1:])
	case "tracks":
		return TracksCommand(Format(*formatF), log, args[1:])
	case "stats":
		return StatsCommand(log, args[1:])
	case "print":
		filter := print.EventFilter{
			MinTs:    *minTsF,
			MaxTs:    *maxTsF,
			BufferID: *bufferIDF,
			Layer:    *layerF,
		}
		return PrintEvents(args[1:], filter)
	case "breakdown":
		return BreakdownCommand(BreakdownFlavor(*flavorF), args[1:])
	case "anon", "anonymize":
		return AnonymizeCommand(args[1:])
	case "tef":
		return TefCommand(log, args[1:])
	case "pprof":
		return PprofCommand(log, args[1:])
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
