package ebx

// Value is the decoded payload of a field. The concrete type is one of
// *Complex, String, Enum, Byte, Int16, Int32, Int64, Float32, *Array or
// Undecoded.
type Value interface {
	Class() Class
	isValue()
}

// Complex is a decoded struct value. Fields are in descriptor order.
type Complex struct {
	Type      *ComplexDescriptor
	TypeIndex int
	Offset    int64
	Fields    []Field
}

// String is a string field resolved through the keyword table.
type String struct {
	Text   string
	Offset int32
}

// Enum is an enum field resolved to the name of the matching enumerator.
type Enum struct {
	Name string
	Raw  int32
}

type (
	Byte    uint8
	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
)

// Array holds the elements of an array field. Each element is decoded as
// a field of the holder type's first field descriptor.
type Array struct {
	Index     int32
	Repeater  ArrayRepeater
	Type      *ComplexDescriptor
	TypeIndex int
	Offset    int64
	Elements  []Field
}

// Undecoded marks a field whose type tag is not understood.
type Undecoded struct {
	Tag TypeTag
}

func (*Complex) Class() Class  { return ClassStruct }
func (String) Class() Class    { return ClassString }
func (Enum) Class() Class      { return ClassEnum }
func (Byte) Class() Class      { return ClassByte }
func (Int16) Class() Class     { return ClassInt16 }
func (Int32) Class() Class     { return ClassInt32 }
func (Int64) Class() Class     { return ClassInt64 }
func (Float32) Class() Class   { return ClassFloat32 }
func (*Array) Class() Class    { return ClassArray }
func (Undecoded) Class() Class { return ClassUnknown }

func (*Complex) isValue()  {}
func (String) isValue()    {}
func (Enum) isValue()      {}
func (Byte) isValue()      {}
func (Int16) isValue()     {}
func (Int32) isValue()     {}
func (Int64) isValue()     {}
func (Float32) isValue()   {}
func (*Array) isValue()    {}
func (Undecoded) isValue() {}

// Field is one decoded field. Err is set when decoding this field failed;
// Value may still hold whatever was decoded before the failure.
type Field struct {
	Descriptor *FieldDescriptor
	Index      int
	Offset     int64
	Value      Value
	Err        error
}

func (f *Field) Name() string {
	return f.Descriptor.Name
}

// Inline reports whether the field is an anonymous inline base.
func (f *Field) Inline() bool {
	return f.Descriptor.Name == inlineFieldName
}

func (c *Complex) Name() string {
	return c.Type.Name
}

// IsArrayHolder reports whether c is the synthetic holder type of an array.
func (c *Complex) IsArrayHolder() bool {
	return c.Type.Name == arrayTypeName
}

// Field returns the first field with the given name, searching inline
// bases as well.
func (c *Complex) Field(name string) *Field {
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.Name() == name {
			return f
		}
	}
	for i := range c.Fields {
		f := &c.Fields[i]
		if !f.Inline() {
			continue
		}
		if base, ok := f.Value.(*Complex); ok {
			if found := base.Field(name); found != nil {
				return found
			}
		}
	}
	return nil
}

// IsArrayHolder reports whether the array's holder type is the synthetic
// "array" type.
func (a *Array) IsArrayHolder() bool {
	return a.Type.Name == arrayTypeName
}

// Complexes returns the struct elements of the array.
func (a *Array) Complexes() []*Complex {
	out := make([]*Complex, 0, len(a.Elements))
	for i := range a.Elements {
		if c, ok := a.Elements[i].Value.(*Complex); ok {
			out = append(out, c)
		}
	}
	return out
}

// Instance is one top-level object of the file.
type Instance struct {
	GUID      GUID
	Synthetic bool
	Repeater  int
	Root      *Complex
}

func (i *Instance) TypeName() string {
	return i.Root.Type.Name
}
