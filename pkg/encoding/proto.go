package encoding

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the GraphicsFrameEvent message and its BufferEvent
// sub-message. These are fixed by the wire format and must never change.
const (
	fieldBufferEvent = 1

	fieldFrameNumber = 1
	fieldType        = 2
	fieldLayerName   = 3
	fieldDurationNs  = 4
	fieldBufferID    = 5
)

// DecodeGraphicsFrameEvent decodes a GraphicsFrameEvent message from blob.
// Unknown fields are skipped. An absent buffer_event field leaves
// ev.BufferEvent nil.
func DecodeGraphicsFrameEvent(blob []byte, ev *GraphicsFrameEvent) error {
	ev.BufferEvent = nil
	for len(blob) > 0 {
		num, typ, n := protowire.ConsumeTag(blob)
		if n < 0 {
			return fmt.Errorf("invalid GraphicsFrameEvent tag: %w", protowire.ParseError(n))
		}
		blob = blob[n:]

		if num == fieldBufferEvent && typ == protowire.BytesType {
			sub, n := protowire.ConsumeBytes(blob)
			if n < 0 {
				return fmt.Errorf("invalid buffer_event field: %w", protowire.ParseError(n))
			}
			blob = blob[n:]
			ev.BufferEvent = new(BufferEvent)
			if err := decodeBufferEvent(sub, ev.BufferEvent); err != nil {
				return err
			}
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, blob)
		if n < 0 {
			return fmt.Errorf("invalid GraphicsFrameEvent field %d: %w", num, protowire.ParseError(n))
		}
		blob = blob[n:]
	}
	return nil
}

func decodeBufferEvent(b []byte, ev *BufferEvent) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("invalid BufferEvent tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldFrameNumber && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("invalid frame_number field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			ev.FrameNumber = uint32(v)
			ev.HasFrameNumber = true
		case num == fieldType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("invalid type field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			ev.Type = EventType(v)
			ev.HasType = true
		case num == fieldLayerName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("invalid layer_name field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			ev.LayerName = v
			ev.HasLayerName = true
		case num == fieldDurationNs && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("invalid duration_ns field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			ev.DurationNs = int64(v)
			ev.HasDurationNs = true
		case num == fieldBufferID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("invalid buffer_id field: %w", protowire.ParseError(n))
			}
			b = b[n:]
			ev.BufferID = uint32(v)
			ev.HasBufferID = true
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("invalid BufferEvent field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// AppendGraphicsFrameEvent appends the wire encoding of ev to buf and
// returns the extended slice. It is the inverse of DecodeGraphicsFrameEvent
// and is mainly used to build traces in tests and generators.
func AppendGraphicsFrameEvent(buf []byte, ev *GraphicsFrameEvent) []byte {
	if ev.BufferEvent == nil {
		return buf
	}
	buf = protowire.AppendTag(buf, fieldBufferEvent, protowire.BytesType)
	return protowire.AppendBytes(buf, appendBufferEvent(nil, ev.BufferEvent))
}

func appendBufferEvent(buf []byte, ev *BufferEvent) []byte {
	if ev.HasFrameNumber {
		buf = protowire.AppendTag(buf, fieldFrameNumber, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(ev.FrameNumber))
	}
	if ev.HasType {
		buf = protowire.AppendTag(buf, fieldType, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(ev.Type))
	}
	if ev.HasLayerName {
		buf = protowire.AppendTag(buf, fieldLayerName, protowire.BytesType)
		buf = protowire.AppendBytes(buf, ev.LayerName)
	}
	if ev.HasDurationNs {
		buf = protowire.AppendTag(buf, fieldDurationNs, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(ev.DurationNs))
	}
	if ev.HasBufferID {
		buf = protowire.AppendTag(buf, fieldBufferID, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(ev.BufferID))
	}
	return buf
}
