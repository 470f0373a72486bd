package ebx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorReads(t *testing.T) {
	c := newCursor([]byte{
		0x01,
		0x34, 0x12,
		0xFE, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0xC0, 0x3F,
	})

	b, err := c.readU8()
	require.NoError(t, err)
	require.Equal(t, uint8(1), b)

	u, err := c.readU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u)

	i, err := c.readI32()
	require.NoError(t, err)
	require.Equal(t, int32(-2), i)

	f, err := c.readF32()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f)

	_, err = c.readU8()
	require.ErrorIs(t, err, ErrTruncatedInput)
	require.Equal(t, int64(11), c.pos(), "failed read must not advance")
}

func TestCursorSeekBounds(t *testing.T) {
	c := newCursor(make([]byte, 8))
	require.NoError(t, c.seek(8))
	require.ErrorIs(t, c.seek(9), ErrTruncatedInput)
	require.ErrorIs(t, c.seek(-1), ErrTruncatedInput)
	require.Equal(t, int64(8), c.pos())
}

func TestCursorAlign(t *testing.T) {
	c := newCursor(make([]byte, 16))
	require.NoError(t, c.seek(5))

	require.NoError(t, c.align(0))
	require.Equal(t, int64(5), c.pos())
	require.NoError(t, c.align(1))
	require.Equal(t, int64(5), c.pos())

	require.NoError(t, c.align(4))
	require.Equal(t, int64(8), c.pos())
	require.NoError(t, c.align(4))
	require.Equal(t, int64(8), c.pos())

	require.NoError(t, c.seek(15))
	require.ErrorIs(t, c.align(8), ErrTruncatedInput)
}

func TestCursorPeekDoesNotAdvance(t *testing.T) {
	c := newCursor([]byte{0xCE, 0xD1, 0xB2, 0x0F})
	v, err := c.peekU32()
	require.NoError(t, err)
	require.Equal(t, Magic, v)
	require.Equal(t, int64(0), c.pos())
}
