package anonymize

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/gfxtrace/gfxtrace/pkg/encoding"
)

// AnonymizeTrace reads a frame-event trace from r and writes an obfuscated
// version of it to w. Layer names usually carry application package names,
// so every upper and lower case letter in them is replaced with "X" and "x"
// respectively. Digits and punctuation are kept, which preserves the
// "<package>#<id>" shape of typical layer names, and identical layer names
// obfuscate to identical results so the trace still parses into equivalent
// tables. On success AnonymizeTrace returns nil.
func AnonymizeTrace(r io.Reader, w io.Writer) error {
	// Initialize encoder and decoder
	enc := encoding.NewEncoder(w)
	dec := encoding.NewDecoder(r)

	var rec encoding.Record
	for {
		// Decode record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				// We're done
				return nil
			}
			return err
		}

		var frameEvent encoding.GraphicsFrameEvent
		if err := encoding.DecodeGraphicsFrameEvent(rec.Blob, &frameEvent); err != nil {
			return fmt.Errorf("failed to decode record: %w", err)
		}

		// Obfuscate the layer name and re-encode the blob. Records without a
		// layer name pass through unchanged.
		out := rec
		if ev := frameEvent.BufferEvent; ev != nil && ev.HasLayerName {
			obfuscate(ev.LayerName)
			out.Blob = encoding.AppendGraphicsFrameEvent(nil, &frameEvent)
		}
		if err := enc.Encode(&out); err != nil {
			return err
		}
	}
}

// obfuscate replaces all upper and lower case letters with "X" and "x"
// respectively.
func obfuscate(b []byte) {
	// iterate over all utf8 runes in b
	// if rune is a letter, replace it
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if unicode.IsUpper(r) {
			for j := 0; j < size; j++ {
				b[i+j] = 'X'
			}
		} else if unicode.IsLower(r) {
			for j := 0; j < size; j++ {
				b[i+j] = 'x'
			}
		}
		i += size
	}
}
