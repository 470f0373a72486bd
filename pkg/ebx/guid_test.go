package ebx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyntheticGUID(t *testing.T) {
	require.True(t, syntheticGUID(0).IsZero())

	g := syntheticGUID(0x01020304)
	require.Equal(t, "00000000000000000000000004030201", g.String())
}

func TestParseGUID(t *testing.T) {
	want := GUID{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}

	g, err := ParseGUID("00112233445566778899AABBCCDDEEFF")
	require.NoError(t, err)
	require.Equal(t, want, g)

	g, err = ParseGUID("00112233-4455-6677-8899-aabbccddeeff")
	require.NoError(t, err)
	require.Equal(t, want, g)
	require.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", g.UUID().String())

	_, err = ParseGUID("not-a-guid")
	require.Error(t, err)
}
