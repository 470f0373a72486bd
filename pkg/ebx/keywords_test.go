package ebx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	require.Equal(t, uint32(5381), Hash(nil))
	require.Equal(t, uint32(0x0002B5C4), Hash([]byte("a")))
	require.Equal(t, Hash([]byte("Asset")), HashString("Asset"))
}

func TestHashStringLatin1(t *testing.T) {
	// "é" is one byte (0xE9) in the name block but two in UTF-8.
	require.Equal(t, Hash([]byte{'c', 'a', 'f', 0xE9}), HashString("café"))
}

func TestReadKeywordsDeduplicates(t *testing.T) {
	kw := readKeywords([]byte("foo\x00bar\x00foo\x00"))
	require.Equal(t, 2, kw.Len())

	entries := kw.Entries()
	require.Equal(t, "foo", entries[0].Name)
	require.Equal(t, uint32(0), entries[0].Offset)
	require.Equal(t, "bar", entries[1].Name)
	require.Equal(t, uint32(4), entries[1].Offset)

	k, ok := kw.Lookup(Hash([]byte("foo")))
	require.True(t, ok)
	require.Equal(t, uint32(0), k.Offset)

	_, ok = kw.ByOffset(8)
	require.False(t, ok, "duplicate occurrence is not indexed")
}

func TestReadKeywordsUnterminatedTail(t *testing.T) {
	kw := readKeywords([]byte("abc\x00de"))
	require.Equal(t, 2, kw.Len())

	k, ok := kw.ByOffset(4)
	require.True(t, ok)
	require.Equal(t, "de", k.Name)
}

func TestReadKeywordsLatin1(t *testing.T) {
	kw := readKeywords([]byte{'c', 'a', 'f', 0xE9, 0})
	k, ok := kw.Find("café")
	require.True(t, ok)
	require.Equal(t, "café", k.Name)
}

func TestKeywordNameMissing(t *testing.T) {
	kw := readKeywords([]byte("x\x00"))
	require.Equal(t, "", kw.Name(12345))
}

func TestEntriesIsCopy(t *testing.T) {
	kw := readKeywords([]byte("x\x00"))
	e := kw.Entries()
	e[0].Name = "changed"
	require.Equal(t, "x", kw.Entries()[0].Name)
}
