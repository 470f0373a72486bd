// Package ebxtest assembles synthetic EBX payloads for tests.
package ebxtest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

// Field is a raw field descriptor record. Offset is stored as given, so a
// "$" field must include the 8 bytes the decoder subtracts.
type Field struct {
	Name      string
	Tag       ebx.TypeTag
	Ref       uint16
	Offset    int32
	Secondary int32
}

// Type is a raw complex descriptor record.
type Type struct {
	Name          string
	FieldStart    int32
	FieldCount    uint8
	Align         uint8
	Flags         uint16
	Size          uint16
	SecondarySize uint16
}

// Builder lays out a payload in file order: header, file GUID, reserved
// bytes, imports, name block, descriptor and repeater tables, then the
// string section, instance payload and array section. The string section
// starts on a 16-byte boundary and is padded to one, so Payload offsets are
// 16-byte aligned in the output.
type Builder struct {
	GUID          ebx.GUID
	Imports       []ebx.Import
	Names         []string
	Fields        []Field
	Types         []Type
	Instances     []ebx.InstanceRepeater
	GUIDRepeaters uint16
	Arrays        []ebx.ArrayRepeater
	Strings       []byte
	Payload       []byte
	ArrayData     []byte

	// Mutate edits the header after the computed fields are filled in.
	Mutate func(h *ebx.Header)
}

// Keywords returns the name block entries in layout order: Names first,
// then type names, then field names, each once.
func (b *Builder) Keywords() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, n := range b.Names {
		add(n)
	}
	for _, t := range b.Types {
		add(t.Name)
	}
	for _, f := range b.Fields {
		add(f.Name)
	}
	return out
}

// NameOffset returns the byte offset of name within the name block, or -1.
func (b *Builder) NameOffset(name string) int32 {
	var off int32
	for _, k := range b.Keywords() {
		if k == name {
			return off
		}
		off += int32(len(k)) + 1
	}
	return -1
}

func (b *Builder) nameBlock() []byte {
	var buf bytes.Buffer
	for _, k := range b.Keywords() {
		buf.WriteString(k)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Build returns the encoded payload.
func (b *Builder) Build() []byte {
	block := b.nameBlock()

	var tables bytes.Buffer
	for _, imp := range b.Imports {
		tables.Write(imp.Partition[:])
		tables.Write(imp.Instance[:])
	}
	tables.Write(block)
	for _, f := range b.Fields {
		put(&tables, ebx.HashString(f.Name), uint16(f.Tag), f.Ref, f.Offset, f.Secondary)
	}
	for _, t := range b.Types {
		put(&tables, ebx.HashString(t.Name), t.FieldStart, t.FieldCount, t.Align, t.Flags, t.Size, t.SecondarySize)
	}
	for _, r := range b.Instances {
		put(&tables, r.ComplexIndex, r.Count)
	}
	for _, r := range b.Arrays {
		put(&tables, r.Offset, r.Count, r.ComplexIndex)
	}

	prefix := ebx.HeaderSize + 16 + 8 + tables.Len()
	abs := align16(prefix)
	strs := make([]byte, align16(len(b.Strings)))
	copy(strs, b.Strings)
	total := abs + len(strs) + len(b.Payload) + len(b.ArrayData)

	h := ebx.Header{
		Magic:               ebx.Magic,
		AbsStringOffset:     int32(abs),
		LenStringToEOF:      int32(total - abs),
		NumGUID:             int32(len(b.Imports)),
		NumInstanceRepeater: uint16(len(b.Instances)),
		NumGUIDRepeater:     b.GUIDRepeaters,
		NumComplex:          uint16(len(b.Types)),
		NumField:            uint16(len(b.Fields)),
		LenName:             uint16(len(block)),
		LenString:           int32(len(strs)),
		NumArrayRepeater:    int32(len(b.Arrays)),
		LenPayload:          int32(len(b.Payload)),
	}
	if b.Mutate != nil {
		b.Mutate(&h)
	}

	var out bytes.Buffer
	put(&out, h)
	out.Write(b.GUID[:])
	out.Write(make([]byte, 8))
	out.Write(tables.Bytes())
	out.Write(make([]byte, abs-prefix))
	out.Write(strs)
	out.Write(b.Payload)
	out.Write(b.ArrayData)
	return out.Bytes()
}

func align16(n int) int {
	return (n + 15) &^ 15
}

func put(buf *bytes.Buffer, vals ...any) {
	for _, v := range vals {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
}

// LE encodes fixed-size values little-endian, back to back. float32 values
// are written by bit pattern.
func LE(vals ...any) []byte {
	var buf bytes.Buffer
	for _, v := range vals {
		if f, ok := v.(float32); ok {
			v = math.Float32bits(f)
		}
		put(&buf, v)
	}
	return buf.Bytes()
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// SeqGUID returns a GUID whose bytes count up from start.
func SeqGUID(start byte) ebx.GUID {
	var g ebx.GUID
	for i := range g {
		g[i] = start + byte(i)
	}
	return g
}
