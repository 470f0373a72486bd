package ebx

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

const (
	// Magic is the sentinel stored in the first four bytes of every EBX payload.
	Magic uint32 = 0x0FB2D1CE

	HeaderSize        = 40
	reservedSize      = 8
	importRecordSize  = 32
	fieldRecordSize   = 16
	complexRecordSize = 16
	instanceRepSize   = 4
	arrayRepSize      = 12
)

// Header is the fixed 40-byte EBX header.
type Header struct {
	Magic               uint32
	AbsStringOffset     int32
	LenStringToEOF      int32
	NumGUID             int32
	NumInstanceRepeater uint16
	NumGUIDRepeater     uint16
	Unknown             uint16
	NumComplex          uint16
	NumField            uint16
	LenName             uint16
	LenString           int32
	NumArrayRepeater    int32
	LenPayload          int32
}

// PayloadStart is the absolute offset of the instance payload region.
func (h *Header) PayloadStart() int64 {
	return int64(h.AbsStringOffset) + int64(h.LenString)
}

// ArraySectionStart is the absolute offset array repeater offsets are relative to.
func (h *Header) ArraySectionStart() int64 {
	return int64(h.AbsStringOffset) + int64(h.LenString) + int64(h.LenPayload)
}

func (h *Header) validate() error {
	switch {
	case h.AbsStringOffset < 0:
		return fmt.Errorf("%w: negative string offset %d", ErrMalformedHeader, h.AbsStringOffset)
	case h.NumGUID < 0:
		return fmt.Errorf("%w: negative import count %d", ErrMalformedHeader, h.NumGUID)
	case h.LenString < 0:
		return fmt.Errorf("%w: negative string length %d", ErrMalformedHeader, h.LenString)
	case h.NumArrayRepeater < 0:
		return fmt.Errorf("%w: negative array repeater count %d", ErrMalformedHeader, h.NumArrayRepeater)
	case h.LenPayload < 0:
		return fmt.Errorf("%w: negative payload length %d", ErrMalformedHeader, h.LenPayload)
	}
	return nil
}

// readHeader decodes the header at the cursor. On a magic mismatch nothing
// is consumed.
func readHeader(c *cursor) (Header, error) {
	var h Header
	magic, err := c.peekU32()
	if err != nil {
		return h, err
	}
	if magic != Magic {
		return h, fmt.Errorf("%w: magic 0x%08X, want 0x%08X", ErrMalformedHeader, magic, Magic)
	}
	raw, err := c.readN(HeaderSize)
	if err != nil {
		return h, err
	}
	if err := restruct.Unpack(raw, binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if err := h.validate(); err != nil {
		return h, err
	}
	return h, nil
}

// readRecords unpacks n fixed-size records of type T from the cursor.
func readRecords[T any](c *cursor, n, size int, table string) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative %s count %d", ErrMalformedHeader, table, n)
	}
	if int64(n)*int64(size) > c.size()-c.pos() {
		return nil, fmt.Errorf("%w: %d %s records of %d bytes at 0x%X", ErrTruncatedInput, n, table, size, c.pos())
	}
	out := make([]T, n)
	for i := range out {
		raw, err := c.readN(size)
		if err != nil {
			return nil, fmt.Errorf("read %s %d: %w", table, i, err)
		}
		if err := restruct.Unpack(raw, binary.LittleEndian, &out[i]); err != nil {
			return nil, fmt.Errorf("unpack %s %d: %w", table, i, err)
		}
	}
	return out, nil
}
