package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gfxtrace/gfxtrace/pkg/tef"
)

// TefCommand converts a frame-event trace into Chrome trace event JSON.
func TefCommand(log zerolog.Logger, args []string) error {
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

	out := bufio.NewWriter(outFile)
	if err := tef.Convert(st, out); err != nil {
		return err
	}
	return out.Flush()
}
