package api

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

// DefaultCacheSize is the number of decoded files kept in memory.
const DefaultCacheSize = 64

// Entry is a decoded file held by the store.
type Entry struct {
	ID         string
	Size       int
	Compressed bool
	DecodedAt  time.Time
	File       *ebx.File
}

// Store keeps recently decoded files keyed by the SHA-256 of their bytes.
// It is safe for concurrent use.
type Store struct {
	cache *lru.Cache[string, *Entry]
}

func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *Entry](size)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// ContentID returns the store key for data.
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *Store) Put(e *Entry) {
	s.cache.Add(e.ID, e)
}

func (s *Store) Get(id string) (*Entry, bool) {
	return s.cache.Get(id)
}

func (s *Store) Delete(id string) bool {
	return s.cache.Remove(id)
}

// List returns the cached entries from oldest to most recently used.
func (s *Store) List() []*Entry {
	keys := s.cache.Keys()
	out := make([]*Entry, 0, len(keys))
	for _, k := range keys {
		if e, ok := s.cache.Peek(k); ok {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Len() int {
	return s.cache.Len()
}
