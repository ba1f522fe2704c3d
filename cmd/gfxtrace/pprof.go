package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gfxtrace/gfxtrace/pkg/latency"
)

// PprofCommand exports the per-layer latency totals as a pprof profile.
func PprofCommand(log zerolog.Logger, args []string) error {
	// Check the number of arguments
	if len(args) != 2 {
		return fmt.Errorf("expected 2 arguments, got %d", len(args))
	}

	st, err := parseTrace(args[0], log)
	if err != nil {
		return err
	}

	// Open the output file
	outFile, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer outFile.Close()

	return latency.Convert(st, outFile)
}
