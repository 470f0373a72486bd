package ebx

import "fmt"

// TypeTag is the raw 16-bit type field of a field descriptor.
type TypeTag uint16

// Class groups type tags that decode identically.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassStruct
	ClassString
	ClassEnum
	ClassByte
	ClassInt16
	ClassInt32
	ClassInt64
	ClassFloat32
	ClassArray
)

var tagClasses = map[TypeTag]Class{
	0x0000: ClassStruct,
	0x0029: ClassStruct,
	0xd029: ClassStruct,
	0x8029: ClassStruct,
	0x407d: ClassString,
	0x409d: ClassString,
	0x0089: ClassEnum,
	0xc089: ClassEnum,
	0xc0ad: ClassByte,
	0xc0bd: ClassByte,
	0xc0cd: ClassByte,
	0x0cdd: ClassInt16,
	0x0ced: ClassInt16,
	0x0035: ClassInt32,
	0xc10d: ClassInt32,
	0xc0fd: ClassInt32,
	0x417d: ClassInt64,
	0xc15d: ClassInt64,
	0xc13d: ClassFloat32,
	0x0041: ClassArray,
}

// Class reports how values of this tag are decoded.
func (t TypeTag) Class() Class {
	return tagClasses[t]
}

func (t TypeTag) String() string {
	return fmt.Sprintf("0x%04X", uint16(t))
}

func (c Class) String() string {
	switch c {
	case ClassStruct:
		return "struct"
	case ClassString:
		return "string"
	case ClassEnum:
		return "enum"
	case ClassByte:
		return "byte"
	case ClassInt16:
		return "int16"
	case ClassInt32:
		return "int32"
	case ClassInt64:
		return "int64"
	case ClassFloat32:
		return "float32"
	case ClassArray:
		return "array"
	default:
		return "unknown"
	}
}

// FieldDescriptor describes one field of a complex type.
type FieldDescriptor struct {
	Name            string
	Hash            uint32
	Tag             TypeTag
	Reference       uint16
	Offset          int32
	SecondaryOffset int32
}

// ComplexDescriptor describes a struct-like type. Its fields are the
// contiguous slice [FieldStartIndex, FieldStartIndex+FieldCount) of the
// file's field descriptors.
type ComplexDescriptor struct {
	Name            string
	Hash            uint32
	FieldStartIndex int32
	FieldCount      uint8
	Alignment       uint8
	TypeFlags       uint16
	Size            uint16
	SecondarySize   uint16
}

// InstanceRepeater stands for Count consecutive instances of one type.
type InstanceRepeater struct {
	ComplexIndex uint16
	Count        uint16
}

// ArrayRepeater locates one array payload relative to the array section.
type ArrayRepeater struct {
	Offset       int32
	Count        int32
	ComplexIndex int32
}

type fieldRecord struct {
	Hash            uint32
	Tag             uint16
	Reference       uint16
	Offset          int32
	SecondaryOffset int32
}

type complexRecord struct {
	Hash            uint32
	FieldStartIndex int32
	FieldCount      uint8
	Alignment       uint8
	TypeFlags       uint16
	Size            uint16
	SecondarySize   uint16
}

// inlineFieldName marks an anonymous inline field whose stored offset
// includes an unmodelled 8-byte prefix.
const inlineFieldName = "$"

// arrayTypeName names the holder type of array element fields.
const arrayTypeName = "array"

func readFieldDescriptors(c *cursor, n int, names *KeywordTable) ([]FieldDescriptor, error) {
	recs, err := readRecords[fieldRecord](c, n, fieldRecordSize, "field descriptor")
	if err != nil {
		return nil, err
	}
	out := make([]FieldDescriptor, len(recs))
	for i, r := range recs {
		d := FieldDescriptor{
			Name:            names.Name(r.Hash),
			Hash:            r.Hash,
			Tag:             TypeTag(r.Tag),
			Reference:       r.Reference,
			Offset:          r.Offset,
			SecondaryOffset: r.SecondaryOffset,
		}
		if d.Name == inlineFieldName {
			d.Offset -= 8
		}
		out[i] = d
	}
	return out, nil
}

func readComplexDescriptors(c *cursor, n int, names *KeywordTable) ([]ComplexDescriptor, error) {
	recs, err := readRecords[complexRecord](c, n, complexRecordSize, "complex descriptor")
	if err != nil {
		return nil, err
	}
	out := make([]ComplexDescriptor, len(recs))
	for i, r := range recs {
		out[i] = ComplexDescriptor{
			Name:            names.Name(r.Hash),
			Hash:            r.Hash,
			FieldStartIndex: r.FieldStartIndex,
			FieldCount:      r.FieldCount,
			Alignment:       r.Alignment,
			TypeFlags:       r.TypeFlags,
			Size:            r.Size,
			SecondarySize:   r.SecondarySize,
		}
	}
	return out, nil
}
