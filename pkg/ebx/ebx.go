// Package ebx decodes EBX, the binary object-graph format written by the
// engine's asset pipeline.
//
// An EBX payload carries its own reflection data: a block of hashed names,
// field and type descriptors, and run-length "repeater" tables that say
// how many instances or array elements of each type follow. Decode rebuilds
// that type system from the buffer and walks it to materialise a tree of
// typed values:
//
//	f, err := ebx.Decode(data)
//	if err != nil {
//	    return err
//	}
//	for _, inst := range f.Instances {
//	    fmt.Println(inst.GUID, inst.TypeName())
//	}
//
// Decoding is synchronous and allocates all state per call, so independent
// buffers may be decoded concurrently. A decoded File is read-only.
package ebx

import (
	"bytes"
	"fmt"
)

const (
	// DefaultMaxDepth bounds nesting of struct and array values.
	DefaultMaxDepth = 64

	// valuesPerByte and minValueBudget derive the default value budget from
	// the input length.
	valuesPerByte  = 8
	minValueBudget = 1024
)

type Options struct {
	// MaxDepth limits struct/array nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// MaxValues caps the number of instances and values one Decode may
	// produce. Exceeding it aborts the decode with ErrValueLimit. Zero
	// derives the cap from the input length.
	MaxValues int
}

// File is a fully decoded EBX payload.
type File struct {
	Header            Header
	GUID              GUID
	Imports           []Import
	NameBlock         []byte
	Keywords          *KeywordTable
	Fields            []FieldDescriptor
	Types             []ComplexDescriptor
	InstanceRepeaters []InstanceRepeater
	ArrayRepeaters    []ArrayRepeater
	Instances         []Instance
}

// Decode parses data with default options.
func Decode(data []byte) (*File, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses data. Header and table failures abort the decode
// and no File is returned; failures confined to one field are recorded on
// that field and reported by FieldErrors.
func DecodeWithOptions(data []byte, opts Options) (*File, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxValues <= 0 {
		opts.MaxValues = max(len(data)*valuesPerByte, minValueBudget)
	}
	c := newCursor(data)

	h, err := readHeader(c)
	if err != nil {
		return nil, err
	}
	f := &File{Header: h}

	if f.GUID, err = c.readGUID(); err != nil {
		return nil, fmt.Errorf("read file guid: %w", err)
	}
	if err := c.skip(reservedSize); err != nil {
		return nil, fmt.Errorf("read reserved field: %w", err)
	}
	if f.Imports, err = readRecords[Import](c, int(h.NumGUID), importRecordSize, "import"); err != nil {
		return nil, err
	}

	block, err := c.readN(int(h.LenName))
	if err != nil {
		return nil, fmt.Errorf("read name block: %w", err)
	}
	f.NameBlock = bytes.Clone(block)
	f.Keywords = readKeywords(f.NameBlock)

	if f.Fields, err = readFieldDescriptors(c, int(h.NumField), f.Keywords); err != nil {
		return nil, err
	}
	if f.Types, err = readComplexDescriptors(c, int(h.NumComplex), f.Keywords); err != nil {
		return nil, err
	}
	if f.InstanceRepeaters, err = readRecords[InstanceRepeater](c, int(h.NumInstanceRepeater), instanceRepSize, "instance repeater"); err != nil {
		return nil, err
	}
	if f.ArrayRepeaters, err = readRecords[ArrayRepeater](c, int(h.NumArrayRepeater), arrayRepSize, "array repeater"); err != nil {
		return nil, err
	}

	d := &decoder{
		file:      f,
		c:         c,
		maxDepth:  opts.MaxDepth,
		maxValues: opts.MaxValues,
		budget:    opts.MaxValues,
	}
	if err := d.readInstances(); err != nil {
		return nil, err
	}
	return f, nil
}

// Type returns the complex descriptor at index.
func (f *File) Type(index int) (*ComplexDescriptor, error) {
	if index < 0 || index >= len(f.Types) {
		return nil, fmt.Errorf("%w: complex type %d of %d", ErrUnresolvedReference, index, len(f.Types))
	}
	return &f.Types[index], nil
}

// TypeFields returns the field descriptors that belong to t.
func (f *File) TypeFields(t *ComplexDescriptor) ([]FieldDescriptor, error) {
	start, end, err := f.fieldRange(t)
	if err != nil {
		return nil, err
	}
	return f.Fields[start:end], nil
}

func (f *File) fieldRange(t *ComplexDescriptor) (int, int, error) {
	if t.FieldCount == 0 {
		return 0, 0, nil
	}
	start := int(t.FieldStartIndex)
	end := start + int(t.FieldCount)
	if start < 0 || end > len(f.Fields) {
		return 0, 0, fmt.Errorf("%w: type %q fields [%d,%d) of %d", ErrUnresolvedReference, t.Name, start, end, len(f.Fields))
	}
	return start, end, nil
}

// Instance returns the instance with the given GUID.
func (f *File) Instance(g GUID) (*Instance, bool) {
	for i := range f.Instances {
		if f.Instances[i].GUID == g {
			return &f.Instances[i], true
		}
	}
	return nil, false
}

// Walk visits every decoded field depth-first in output order, array
// elements included. Returning false from fn skips the field's children.
func (f *File) Walk(fn func(inst *Instance, field *Field, depth int) bool) {
	for i := range f.Instances {
		inst := &f.Instances[i]
		walkComplex(inst, inst.Root, 0, fn)
	}
}

func walkComplex(inst *Instance, c *Complex, depth int, fn func(*Instance, *Field, int) bool) {
	if c == nil {
		return
	}
	for i := range c.Fields {
		walkField(inst, &c.Fields[i], depth, fn)
	}
}

func walkField(inst *Instance, field *Field, depth int, fn func(*Instance, *Field, int) bool) {
	if !fn(inst, field, depth) {
		return
	}
	switch v := field.Value.(type) {
	case *Complex:
		walkComplex(inst, v, depth+1, fn)
	case *Array:
		for i := range v.Elements {
			walkField(inst, &v.Elements[i], depth+1, fn)
		}
	}
}

// FieldErrors collects every per-field failure in output order.
func (f *File) FieldErrors() []*FieldError {
	var out []*FieldError
	f.Walk(func(_ *Instance, field *Field, _ int) bool {
		if fe, ok := field.Err.(*FieldError); ok {
			out = append(out, fe)
		}
		return true
	})
	return out
}
