package encoding

import (
	"encoding/binary"
	"io"
)

// Encoder encodes timestamped frame-event records to a writer.
type Encoder struct {
	w             io.Writer // output writer
	err           error     // sticky error
	scratch10     []byte    // scratch buf for encoding varints
	headerWritten bool      // true if header has been written
}

// NewEncoder returns a new encoder that writes to w.
// The encoder is unbuffered, callers writing many records should supply a
// buffered writer.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, scratch10: make([]byte, 10)}
}

// Encode writes rec to the encoder's writer or returns an error.
func (e *Encoder) Encode(rec *Record) error {
	// Return error if any previous call to Encode failed
	if e.err != nil {
		return e.err
	}

	// Write header if not already done
	if !e.headerWritten {
		if _, e.err = e.w.Write(header); e.err != nil {
			return e.err
		}
		e.headerWritten = true
	}

	if e.err = e.writeUvarint(uint64(rec.Timestamp)); e.err != nil {
		return e.err
	}
	if e.err = e.writeUvarint(uint64(len(rec.Blob))); e.err != nil {
		return e.err
	}
	_, e.err = e.w.Write(rec.Blob)
	return e.err
}

func (e *Encoder) writeUvarint(v uint64) error {
	n := binary.PutUvarint(e.scratch10, v)
	_, err := e.w.Write(e.scratch10[:n])
	return err
}
