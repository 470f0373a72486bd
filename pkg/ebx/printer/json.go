package printer

import (
	"io"
	"math"

	"github.com/goccy/go-json"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

// jsonFile is the JSON document for a decoded file. Unlike the xml and tree
// views it keeps "$" fields and "array" holders as decoded.
type jsonFile struct {
	GUID      string         `json:"guid"`
	Header    *jsonHeader    `json:"header,omitempty"`
	Imports   []jsonImport   `json:"imports,omitempty"`
	Instances []jsonInstance `json:"instances"`
}

type jsonHeader struct {
	ebx.Header
	PayloadStart      int64 `json:"PayloadStart"`
	ArraySectionStart int64 `json:"ArraySectionStart"`
}

type jsonImport struct {
	Partition string `json:"partition"`
	Instance  string `json:"instance"`
}

type jsonInstance struct {
	Index     int         `json:"index"`
	GUID      string      `json:"guid"`
	Synthetic bool        `json:"synthetic,omitempty"`
	Type      string      `json:"type"`
	Offset    int64       `json:"offset"`
	Fields    []jsonField `json:"fields"`
}

type jsonField struct {
	Name     string      `json:"name"`
	Tag      string      `json:"tag"`
	Class    string      `json:"class"`
	Offset   int64       `json:"offset"`
	Value    any         `json:"value,omitempty"`
	Raw      *int32      `json:"raw,omitempty"`
	TypeName string      `json:"type_name,omitempty"`
	Fields   []jsonField `json:"fields,omitempty"`
	Elements []jsonField `json:"elements,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// JSON writes f as an indented JSON document.
func JSON(w io.Writer, f *ebx.File, opts Options) error {
	doc, err := buildJSON(f, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// MarshalJSON returns the compact JSON document for f.
func MarshalJSON(f *ebx.File, opts Options) ([]byte, error) {
	doc, err := buildJSON(f, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func buildJSON(f *ebx.File, opts Options) (*jsonFile, error) {
	selected, err := opts.instances(f)
	if err != nil {
		return nil, err
	}
	doc := &jsonFile{
		GUID:      opts.FormatGUID(f.GUID),
		Instances: make([]jsonInstance, 0, len(selected)),
	}
	if opts.Header {
		doc.Header = &jsonHeader{
			Header:            f.Header,
			PayloadStart:      f.Header.PayloadStart(),
			ArraySectionStart: f.Header.ArraySectionStart(),
		}
		for _, imp := range f.Imports {
			doc.Imports = append(doc.Imports, jsonImport{
				Partition: opts.FormatGUID(imp.Partition),
				Instance:  opts.FormatGUID(imp.Instance),
			})
		}
	}
	for _, s := range selected {
		doc.Instances = append(doc.Instances, jsonInstance{
			Index:     s.index,
			GUID:      opts.FormatGUID(s.inst.GUID),
			Synthetic: s.inst.Synthetic,
			Type:      s.inst.TypeName(),
			Offset:    s.inst.Root.Offset,
			Fields:    jsonFields(s.inst.Root.Fields),
		})
	}
	return doc, nil
}

func jsonFields(fields []ebx.Field) []jsonField {
	out := make([]jsonField, len(fields))
	for i := range fields {
		out[i] = toJSONField(&fields[i])
	}
	return out
}

func toJSONField(f *ebx.Field) jsonField {
	jf := jsonField{
		Name:   f.Name(),
		Tag:    f.Descriptor.Tag.String(),
		Class:  f.Descriptor.Tag.Class().String(),
		Offset: f.Offset,
	}
	switch v := f.Value.(type) {
	case nil:
	case *ebx.Complex:
		jf.TypeName = v.Type.Name
		jf.Fields = jsonFields(v.Fields)
	case *ebx.Array:
		jf.TypeName = v.Type.Name
		jf.Elements = jsonFields(v.Elements)
	case ebx.String:
		jf.Value = v.Text
	case ebx.Enum:
		raw := v.Raw
		jf.Value = v.Name
		jf.Raw = &raw
	case ebx.Byte:
		jf.Value = uint8(v)
	case ebx.Int16:
		jf.Value = int16(v)
	case ebx.Int32:
		jf.Value = int32(v)
	case ebx.Int64:
		jf.Value = int64(v)
	case ebx.Float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			jf.Value = formatFloat(v)
		} else {
			jf.Value = float32(v)
		}
	case ebx.Undecoded:
	}
	if f.Err != nil {
		jf.Error = f.Err.Error()
	}
	return jf
}
