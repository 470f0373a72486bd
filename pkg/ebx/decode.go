package ebx

import (
	"errors"
	"fmt"
	"strconv"
)

// decoder owns the cursor for one Decode call.
type decoder struct {
	file      *File
	c         *cursor
	maxDepth  int
	maxValues int
	budget    int
	synthetic uint32

	// active holds the complex values being decoded on the current path.
	active []frame
}

type frame struct {
	index int
	base  int64
}

// spend charges one instance or value against the decode budget.
func (d *decoder) spend() error {
	if d.budget <= 0 {
		return fmt.Errorf("%w: more than %d values at 0x%X", ErrValueLimit, d.maxValues, d.c.pos())
	}
	d.budget--
	return nil
}

func (d *decoder) enter(index int, base int64) error {
	for _, fr := range d.active {
		if fr.index == index && fr.base == base {
			return fmt.Errorf("%w: type %d contains itself at 0x%X", ErrRecursionLimit, index, base)
		}
	}
	d.active = append(d.active, frame{index: index, base: base})
	return nil
}

func (d *decoder) leave() {
	d.active = d.active[:len(d.active)-1]
}

func (d *decoder) readInstances() error {
	h := &d.file.Header
	if err := d.c.seek(h.PayloadStart()); err != nil {
		return fmt.Errorf("seek instance payload: %w", err)
	}
	for i, rep := range d.file.InstanceRepeaters {
		t, err := d.file.Type(int(rep.ComplexIndex))
		if err != nil {
			return fmt.Errorf("instance repeater %d: %w", i, err)
		}
		for j := 0; j < int(rep.Count); j++ {
			if err := d.spend(); err != nil {
				return err
			}
			if err := d.c.align(int64(t.Alignment)); err != nil {
				return fmt.Errorf("align instance %d of repeater %d: %w", j, i, err)
			}
			inst := Instance{Repeater: i}
			if i < int(h.NumGUIDRepeater) {
				if inst.GUID, err = d.c.readGUID(); err != nil {
					return fmt.Errorf("read guid of instance %d of repeater %d: %w", j, i, err)
				}
			} else {
				inst.GUID = syntheticGUID(d.synthetic)
				inst.Synthetic = true
				d.synthetic++
			}
			root, err := d.readComplex(int(rep.ComplexIndex), true, 0, t.Name)
			if err != nil {
				return fmt.Errorf("instance %s: %w", inst.GUID, err)
			}
			inst.Root = root
			d.file.Instances = append(d.file.Instances, inst)
		}
	}
	return nil
}

// readComplex decodes every field of type index starting at the cursor.
// Top-level instances of 4-aligned types are laid out 8 bytes earlier than
// their descriptor offsets say.
func (d *decoder) readComplex(index int, topLevel bool, depth int, path string) (*Complex, error) {
	if depth > d.maxDepth {
		return nil, fmt.Errorf("%w: depth %d at 0x%X", ErrRecursionLimit, depth, d.c.pos())
	}
	t, err := d.file.Type(index)
	if err != nil {
		return nil, err
	}
	start, end, err := d.file.fieldRange(t)
	if err != nil {
		return nil, err
	}

	base := d.c.pos()
	if err := d.enter(index, base); err != nil {
		return nil, err
	}
	defer d.leave()

	var shift int64
	if topLevel && t.Alignment == 4 {
		shift = 8
	}

	cv := &Complex{
		Type:      t,
		TypeIndex: index,
		Offset:    base,
		Fields:    make([]Field, 0, end-start),
	}
	for i := start; i < end; i++ {
		fd := &d.file.Fields[i]
		field := Field{
			Descriptor: fd,
			Index:      i,
			Offset:     base + int64(fd.Offset) - shift,
		}
		fieldPath := path + "." + fd.Name
		if err := d.c.seek(field.Offset); err != nil {
			field.Err = fieldError(fieldPath, &field, err)
		} else if field.Value, err = d.readValue(fd, depth, fieldPath); err != nil {
			if errors.Is(err, ErrValueLimit) {
				return nil, err
			}
			field.Err = fieldError(fieldPath, &field, err)
		}
		cv.Fields = append(cv.Fields, field)
	}

	if err := d.c.seek(base + int64(t.Size) - shift); err != nil {
		return nil, fmt.Errorf("end of %q: %w", t.Name, err)
	}
	return cv, nil
}

// readValue decodes one value of fd's type at the cursor. A non-nil Value
// may accompany an error when part of the value was decoded.
func (d *decoder) readValue(fd *FieldDescriptor, depth int, path string) (Value, error) {
	if err := d.spend(); err != nil {
		return nil, err
	}
	switch fd.Tag.Class() {
	case ClassStruct:
		cv, err := d.readComplex(int(fd.Reference), false, depth+1, path)
		if err != nil {
			return nil, err
		}
		return cv, nil

	case ClassString:
		off, err := d.c.readI32()
		if err != nil {
			return nil, err
		}
		s := String{Offset: off}
		if off != -1 {
			if k, ok := d.file.Keywords.ByOffset(uint32(off)); ok {
				s.Text = k.Name
			}
		}
		return s, nil

	case ClassEnum:
		raw, err := d.c.readI32()
		if err != nil {
			return nil, err
		}
		return d.enumName(fd, raw)

	case ClassByte:
		v, err := d.c.readU8()
		if err != nil {
			return nil, err
		}
		return Byte(v), nil

	case ClassInt16:
		v, err := d.c.readI16()
		if err != nil {
			return nil, err
		}
		return Int16(v), nil

	case ClassInt32:
		v, err := d.c.readI32()
		if err != nil {
			return nil, err
		}
		return Int32(v), nil

	case ClassInt64:
		v, err := d.c.readI64()
		if err != nil {
			return nil, err
		}
		return Int64(v), nil

	case ClassFloat32:
		v, err := d.c.readF32()
		if err != nil {
			return nil, err
		}
		return Float32(v), nil

	case ClassArray:
		return d.readArray(fd, depth, path)

	default:
		return Undecoded{Tag: fd.Tag}, fmt.Errorf("%w: %s", ErrUnknownFieldType, fd.Tag)
	}
}

func (d *decoder) enumName(fd *FieldDescriptor, raw int32) (Value, error) {
	e := Enum{Raw: raw}
	t, err := d.file.Type(int(fd.Reference))
	if err != nil {
		return nil, err
	}
	members, err := d.file.TypeFields(t)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].Offset == raw {
			e.Name = members[i].Name
			break
		}
	}
	return e, nil
}

// readArray decodes the elements of an array field. Each element is read
// as a field of the holder type's first field descriptor.
func (d *decoder) readArray(fd *FieldDescriptor, depth int, path string) (Value, error) {
	idx, err := d.c.readI32()
	if err != nil {
		return nil, err
	}
	if idx < 0 || int(idx) >= len(d.file.ArrayRepeaters) {
		return nil, fmt.Errorf("%w: array repeater %d of %d", ErrUnresolvedReference, idx, len(d.file.ArrayRepeaters))
	}
	rep := d.file.ArrayRepeaters[idx]
	if rep.Count < 0 {
		return nil, fmt.Errorf("%w: array repeater %d has count %d", ErrUnresolvedReference, idx, rep.Count)
	}
	if depth+1 > d.maxDepth {
		return nil, fmt.Errorf("%w: depth %d at 0x%X", ErrRecursionLimit, depth+1, d.c.pos())
	}
	t, err := d.file.Type(int(fd.Reference))
	if err != nil {
		return nil, err
	}
	if err := d.c.seek(d.file.Header.ArraySectionStart() + int64(rep.Offset)); err != nil {
		return nil, err
	}

	arr := &Array{
		Index:     idx,
		Repeater:  rep,
		Type:      t,
		TypeIndex: int(fd.Reference),
		Offset:    d.c.pos(),
	}
	if rep.Count == 0 {
		return arr, nil
	}
	elemIndex := int(t.FieldStartIndex)
	if elemIndex < 0 || elemIndex >= len(d.file.Fields) {
		return nil, fmt.Errorf("%w: element field %d of array type %q", ErrUnresolvedReference, elemIndex, t.Name)
	}
	if int64(rep.Count) > d.c.size()-d.c.pos() {
		return nil, fmt.Errorf("%w: %d array elements at 0x%X", ErrTruncatedInput, rep.Count, d.c.pos())
	}

	elem := &d.file.Fields[elemIndex]
	arr.Elements = make([]Field, 0, rep.Count)
	for k := 0; k < int(rep.Count); k++ {
		ef := Field{Descriptor: elem, Index: elemIndex, Offset: d.c.pos()}
		elemPath := path + "[" + strconv.Itoa(k) + "]"
		ef.Value, err = d.readValue(elem, depth+1, elemPath)
		if err != nil {
			ef.Err = fieldError(elemPath, &ef, err)
			arr.Elements = append(arr.Elements, ef)
			return arr, fmt.Errorf("element %d: %w", k, err)
		}
		arr.Elements = append(arr.Elements, ef)
	}
	return arr, nil
}

func fieldError(path string, f *Field, err error) *FieldError {
	return &FieldError{
		Path:   path,
		Offset: f.Offset,
		Tag:    f.Descriptor.Tag,
		Err:    err,
	}
}
