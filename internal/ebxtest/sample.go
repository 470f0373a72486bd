package ebxtest

import "github.com/samcharles93/ebxkit/pkg/ebx"

// Sample type tags.
const (
	TagStruct ebx.TypeTag = 0x0029
	TagString ebx.TypeTag = 0x407d
	TagEnum   ebx.TypeTag = 0xc089
	TagByte   ebx.TypeTag = 0xc0ad
	TagInt16  ebx.TypeTag = 0x0cdd
	TagInt32  ebx.TypeTag = 0xc10d
	TagInt64  ebx.TypeTag = 0x417d
	TagFloat  ebx.TypeTag = 0xc13d
	TagArray  ebx.TypeTag = 0x0041
)

// Sample returns a builder for a small file exercising every value class:
//
//	instance 0: Asset (GUID 10..1F, 4-aligned, shifted)
//	    $      -> Base{Id int16 = 7}
//	    Name   string "Hello"
//	    Count  int32 -2
//	    Scale  float 1.5
//	    Mode   enum ModeB
//	    Child  Vec{X 0.25, Y -3}
//	    Items  array of int32 [10 20 30]
//	instances 1-2: Marker (synthetic GUIDs, 1-aligned)
//	    Flag   byte
//	    Big    int64
func Sample() *Builder {
	b := &Builder{
		GUID:    SeqGUID(0xA0),
		Imports: []ebx.Import{{Partition: SeqGUID(0x30), Instance: SeqGUID(0x40)}},
		Names:   []string{"Hello"},
		Types: []Type{
			{Name: "Asset", FieldStart: 0, FieldCount: 7, Align: 4, Flags: 0x0001, Size: 40},
			{Name: "Vec", FieldStart: 7, FieldCount: 2, Align: 4, Flags: 0x0002, Size: 8},
			{Name: "Mode", FieldStart: 9, FieldCount: 2, Align: 4, Size: 4},
			{Name: "array", FieldStart: 11, FieldCount: 1, Align: 4, Size: 4},
			{Name: "Base", FieldStart: 12, FieldCount: 1, Align: 2, Flags: 0x0003, Size: 2},
			{Name: "Marker", FieldStart: 13, FieldCount: 2, Align: 1, Flags: 0x0004, Size: 9},
		},
		Fields: []Field{
			{Name: "$", Tag: 0x0000, Ref: 4, Offset: 16},
			{Name: "Name", Tag: TagString, Offset: 12},
			{Name: "Count", Tag: TagInt32, Offset: 16},
			{Name: "Scale", Tag: TagFloat, Offset: 20},
			{Name: "Mode", Tag: TagEnum, Ref: 2, Offset: 24},
			{Name: "Child", Tag: TagStruct, Ref: 1, Offset: 28},
			{Name: "Items", Tag: TagArray, Ref: 3, Offset: 36},
			{Name: "X", Tag: TagFloat, Offset: 0},
			{Name: "Y", Tag: TagFloat, Offset: 4},
			{Name: "ModeA", Tag: 0x0035, Offset: 0},
			{Name: "ModeB", Tag: 0x0035, Offset: 1},
			{Name: "member", Tag: 0x0035, Offset: 0},
			{Name: "Id", Tag: TagInt16, Offset: 0},
			{Name: "Flag", Tag: TagByte, Offset: 0},
			{Name: "Big", Tag: TagInt64, Offset: 1},
		},
		Instances:     []ebx.InstanceRepeater{{ComplexIndex: 0, Count: 1}, {ComplexIndex: 5, Count: 2}},
		GUIDRepeaters: 1,
		Arrays:        []ebx.ArrayRepeater{{Offset: 0, Count: 3, ComplexIndex: 3}},
		ArrayData:     LE(int32(10), int32(20), int32(30)),
	}
	guid := SeqGUID(0x10)
	b.Payload = Concat(
		guid[:],
		LE(int16(7), uint16(0), b.NameOffset("Hello"), int32(-2), float32(1.5), int32(1),
			float32(0.25), float32(-3), int32(0)),
		LE(uint8(0xAB), int64(0x0102030405060708)),
		LE(uint8(0x01), int64(-1)),
	)
	return b
}

// StructArray returns a builder for one Holder instance whose Parts array
// holds three K{A, B int32} structs: {1 2} {3 4} {5 6}.
func StructArray() *Builder {
	return &Builder{
		Types: []Type{
			{Name: "Holder", FieldStart: 0, FieldCount: 1, Align: 1, Size: 4},
			{Name: "array", FieldStart: 1, FieldCount: 1, Align: 4, Size: 4},
			{Name: "K", FieldStart: 2, FieldCount: 2, Align: 4, Size: 8},
		},
		Fields: []Field{
			{Name: "Parts", Tag: TagArray, Ref: 1, Offset: 0},
			{Name: "member", Tag: TagStruct, Ref: 2, Offset: 0},
			{Name: "A", Tag: TagInt32, Offset: 0},
			{Name: "B", Tag: TagInt32, Offset: 4},
		},
		Instances: []ebx.InstanceRepeater{{ComplexIndex: 0, Count: 1}},
		Arrays:    []ebx.ArrayRepeater{{Offset: 0, Count: 3, ComplexIndex: 1}},
		Payload:   LE(int32(0)),
		ArrayData: LE(int32(1), int32(2), int32(3), int32(4), int32(5), int32(6)),
	}
}
