package encoding

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Decoder decodes timestamped frame-event records from a container stream.
type Decoder struct {
	in         *bufio.Reader
	readHeader bool
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{in: bufio.NewReader(r)}
}

// header is the container file header.
var header = func() []byte {
	header := make([]byte, 16)
	copy(header, "gfx frame trace")
	return header
}()

// header reads the header and returns an error if it is invalid.
func (d *Decoder) header() error {
	buf := make([]byte, len(header))
	_, err := io.ReadFull(d.in, buf)
	if err != nil {
		return err
	} else if !bytes.Equal(buf, header) {
		// Fail if header is invalid
		return fmt.Errorf("invalid header: %q", string(buf))
	}
	return nil
}

// Decode parses a record or returns an error. io.EOF marks a clean end of
// stream; a stream truncated inside a record yields io.ErrUnexpectedEOF.
func (d *Decoder) Decode(rec *Record) error {
	if !d.readHeader {
		if err := d.header(); err != nil {
			return err
		}
		d.readHeader = true
	}

	ts, err := binary.ReadUvarint(d.in)
	if err != nil {
		return err
	}
	rec.Timestamp = int64(ts)

	length, err := binary.ReadUvarint(d.in)
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	// Grow the blob buffer if needed, reuse it otherwise.
	if cap(rec.Blob) < int(length) {
		rec.Blob = make([]byte, length)
	}
	rec.Blob = rec.Blob[:length]
	if _, err := io.ReadFull(d.in, rec.Blob); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}
