package ebx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// cursor is a seekable little-endian reader over an in-memory buffer.
// Every read and seek is bounds-checked against the buffer.
type cursor struct {
	data []byte
	off  int64
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) pos() int64 {
	return c.off
}

func (c *cursor) size() int64 {
	return int64(len(c.data))
}

func (c *cursor) seek(off int64) error {
	if off < 0 || off > int64(len(c.data)) {
		return fmt.Errorf("%w: seek to 0x%X outside %d-byte buffer", ErrTruncatedInput, off, len(c.data))
	}
	c.off = off
	return nil
}

// align skips bytes until the position is a multiple of n.
func (c *cursor) align(n int64) error {
	if n <= 1 {
		return nil
	}
	rem := c.off % n
	if rem == 0 {
		return nil
	}
	return c.skip(n - rem)
}

func (c *cursor) skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("invalid skip length %d", n)
	}
	return c.seek(c.off + n)
}

func (c *cursor) peek(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	if c.off+int64(n) > int64(len(c.data)) {
		return nil, fmt.Errorf("%w: need %d bytes at 0x%X, have %d", ErrTruncatedInput, n, c.off, int64(len(c.data))-c.off)
	}
	return c.data[c.off : c.off+int64(n)], nil
}

func (c *cursor) readN(n int) ([]byte, error) {
	b, err := c.peek(n)
	if err != nil {
		return nil, err
	}
	c.off += int64(n)
	return b, nil
}

func (c *cursor) readU8() (uint8, error) {
	b, err := c.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readI16() (int16, error) {
	v, err := c.readU16()
	return int16(v), err
}

func (c *cursor) peekU32() (uint32, error) {
	b, err := c.peek(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI32() (int32, error) {
	v, err := c.readU32()
	return int32(v), err
}

func (c *cursor) readI64() (int64, error) {
	b, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) readF32() (float32, error) {
	u, err := c.readU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (c *cursor) readGUID() (GUID, error) {
	var g GUID
	b, err := c.readN(len(g))
	if err != nil {
		return g, err
	}
	copy(g[:], b)
	return g, nil
}
