// Package source loads EBX payloads from files and streams, unwrapping
// zstd-framed payloads on the way.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sys/unix"
)

// DefaultMaxSize bounds decompressed and streamed payloads.
const DefaultMaxSize = 256 << 20

var (
	ErrTooLarge = errors.New("payload exceeds size limit")
	ErrEmpty    = errors.New("empty payload")
	ErrCorrupt  = errors.New("corrupt compressed payload")
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Payload is an EBX buffer ready for decoding. Close must be called to
// release any file mapping.
type Payload struct {
	Path       string
	Data       []byte
	Compressed bool
	mapped     []byte
}

// Load maps path read-only, falling back to a plain read when mmap is
// unavailable. Compressed files are inflated onto the heap and the mapping
// is released immediately.
func Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	size := st.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	p := &Payload{Path: path}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		p.mapped = data
	} else {
		data, err = io.ReadAll(f)
		if err != nil {
			return nil, err
		}
	}

	out, compressed, err := Unwrap(data, DefaultMaxSize)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if compressed && p.mapped != nil {
		_ = unix.Munmap(p.mapped)
		p.mapped = nil
	}
	p.Data = out
	p.Compressed = compressed
	return p, nil
}

// Close releases the file mapping, if any.
func (p *Payload) Close() error {
	if p == nil || p.mapped == nil {
		return nil
	}
	err := unix.Munmap(p.mapped)
	p.mapped = nil
	p.Data = nil
	return err
}

// IsZstd reports whether data starts with a zstd frame header.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Unwrap returns data unchanged unless it is zstd-framed, in which case it
// returns the decompressed bytes. Output larger than limit fails with
// ErrTooLarge; any other decompression failure wraps ErrCorrupt.
func Unwrap(data []byte, limit int64) ([]byte, bool, error) {
	if !IsZstd(data) {
		return data, false, nil
	}
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)),
	)
	if err != nil {
		return nil, true, err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	switch {
	case err == nil:
	case errors.Is(err, zstd.ErrDecoderSizeExceeded), errors.Is(err, zstd.ErrWindowSizeExceeded):
		return nil, true, fmt.Errorf("%w: zstd: %w", ErrTooLarge, err)
	default:
		return nil, true, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
	}
	if int64(len(out)) > limit {
		return nil, true, ErrTooLarge
	}
	return out, true, nil
}

// ReadAll reads at most limit bytes from r and unwraps the result. The
// limit applies to the decompressed payload as well.
func ReadAll(r io.Reader, limit int64) (*Payload, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	out, compressed, err := Unwrap(data, limit)
	if err != nil {
		return nil, err
	}
	return &Payload{Data: out, Compressed: compressed}, nil
}
