package ebx

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GUID is a raw 16-byte identifier as stored in the file.
type GUID [16]byte

// String renders the GUID as 32 upper-case hex digits in file byte order.
func (g GUID) String() string {
	return strings.ToUpper(hex.EncodeToString(g[:]))
}

// UUID reinterprets the GUID bytes as an RFC 4122 UUID without reordering.
func (g GUID) UUID() uuid.UUID {
	return uuid.UUID(g)
}

func (g GUID) IsZero() bool {
	return g == GUID{}
}

// syntheticGUID builds the identifier assigned to the n-th instance that
// carries no GUID of its own: zero except for a little-endian counter in
// the last four bytes.
func syntheticGUID(n uint32) GUID {
	var g GUID
	binary.LittleEndian.PutUint32(g[12:], n)
	return g
}

// ParseGUID accepts either the 32-digit hex form produced by String or any
// form understood by uuid.Parse.
func ParseGUID(s string) (GUID, error) {
	var g GUID
	s = strings.TrimSpace(s)
	if len(s) == 2*len(g) {
		if _, err := hex.Decode(g[:], []byte(s)); err == nil {
			return g, nil
		}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return g, fmt.Errorf("parse guid %q: %w", s, err)
	}
	return GUID(u), nil
}

// Import references an instance in another partition.
type Import struct {
	Partition GUID
	Instance  GUID
}
