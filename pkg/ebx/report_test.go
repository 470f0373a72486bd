package ebx_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

func TestReport(t *testing.T) {
	f := decodeSample(t, nil)
	r := f.Report()

	require.Contains(t, r, "Header\nMagic               : 0x0FB2D1CE\n")
	require.Contains(t, r, "NumInstanceRepeater : 0x0002\n")
	require.Contains(t, r, "NumGUIDRepeater     : 0x0001\n")
	require.Contains(t, r, "LenPayload          : 0x00000042\n")
	require.Contains(t, r, "\nGUID\nA0A1A2A3A4A5A6A7A8A9AAABACADAEAF\n")
}

func TestWriteTables(t *testing.T) {
	f := decodeSample(t, nil)

	var buf bytes.Buffer
	require.NoError(t, ebx.WriteTables(&buf, f))
	out := buf.String()

	require.Contains(t, out, "Imports (1)\n0000 : 303132333435363738393A3B3C3D3E3F - 404142434445464748494A4B4C4D4E4F\n")
	require.Contains(t, out, "Keyword = 'Hello'")
	require.Contains(t, out, "Field descriptors (15)\n")
	require.Contains(t, out, "Name = 'Asset'")
	require.Contains(t, out, "Instance repeaters (2)\n0000 : Complex Index = 0x0000 Repeats = 0x0001\n")
	require.Contains(t, out, "Array repeaters (1)\n0000 : Offset = 0x00000000 Complex Index = 0x00000003 Repeats = 0x00000003\n")
}
