package ebx

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader     = errors.New("malformed EBX header")
	ErrTruncatedInput      = errors.New("truncated EBX input")
	ErrUnresolvedReference = errors.New("unresolved EBX reference")
	ErrUnknownFieldType    = errors.New("unknown EBX field type")
	ErrRecursionLimit      = errors.New("EBX recursion limit exceeded")
	ErrValueLimit          = errors.New("EBX value limit exceeded")
)

// FieldError describes a failure scoped to a single field. The enclosing
// complex value keeps decoding its remaining fields.
type FieldError struct {
	Path   string
	Offset int64
	Tag    TypeTag
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s (type 0x%04X) at 0x%X: %v", e.Path, uint16(e.Tag), e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
