package ebx

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	hashSeed  uint32 = 5381
	hashPrime uint32 = 33
)

// Hash is the engine's 32-bit name hash, computed over raw name bytes.
func Hash(name []byte) uint32 {
	h := hashSeed
	for _, b := range name {
		h = h*hashPrime ^ uint32(b)
	}
	return h
}

// HashString hashes a name after encoding it back to its single-byte form.
func HashString(name string) uint32 {
	if raw, err := charmap.ISO8859_1.NewEncoder().String(name); err == nil {
		return Hash([]byte(raw))
	}
	return Hash([]byte(name))
}

// Keyword is one distinct entry of the name block.
type Keyword struct {
	Name   string
	Hash   uint32
	Offset uint32 // first occurrence, relative to the block start
}

// KeywordTable maps name hashes to the first name seen with that hash.
// It is built once per decode and is read-only afterwards.
type KeywordTable struct {
	entries  []Keyword
	byHash   map[uint32]int
	byOffset map[uint32]int
}

func newKeywordTable() *KeywordTable {
	return &KeywordTable{
		byHash:   make(map[uint32]int),
		byOffset: make(map[uint32]int),
	}
}

// readKeywords scans a block of null-terminated names. An unterminated
// trailing name runs to the end of the block.
func readKeywords(block []byte) *KeywordTable {
	t := newKeywordTable()
	pos := 0
	for pos < len(block) {
		end := bytes.IndexByte(block[pos:], 0)
		next := pos + end + 1
		if end < 0 {
			end = len(block) - pos
			next = len(block)
		}
		raw := block[pos : pos+end]
		t.add(raw, uint32(pos))
		pos = next
	}
	return t
}

func (t *KeywordTable) add(raw []byte, offset uint32) {
	h := Hash(raw)
	if _, ok := t.byHash[h]; ok {
		return
	}
	t.byHash[h] = len(t.entries)
	if _, ok := t.byOffset[offset]; !ok {
		t.byOffset[offset] = len(t.entries)
	}
	t.entries = append(t.entries, Keyword{Name: decodeName(raw), Hash: h, Offset: offset})
}

func decodeName(raw []byte) string {
	ascii := true
	for _, b := range raw {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}

// Lookup returns the first entry recorded for hash.
func (t *KeywordTable) Lookup(hash uint32) (Keyword, bool) {
	i, ok := t.byHash[hash]
	if !ok {
		return Keyword{}, false
	}
	return t.entries[i], true
}

// Name resolves hash to a name, or "" when the block has no such entry.
func (t *KeywordTable) Name(hash uint32) string {
	k, _ := t.Lookup(hash)
	return k.Name
}

// Find looks an entry up by its text.
func (t *KeywordTable) Find(name string) (Keyword, bool) {
	return t.Lookup(HashString(name))
}

// ByOffset returns the entry recorded at a block-relative offset.
func (t *KeywordTable) ByOffset(offset uint32) (Keyword, bool) {
	i, ok := t.byOffset[offset]
	if !ok {
		return Keyword{}, false
	}
	return t.entries[i], true
}

func (t *KeywordTable) Len() int {
	return len(t.entries)
}

// Entries returns the entries in block order.
func (t *KeywordTable) Entries() []Keyword {
	out := make([]Keyword, len(t.entries))
	copy(out, t.entries)
	return out
}
