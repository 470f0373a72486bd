package printer

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

type xmlWriter struct {
	w      *bufio.Writer
	indent string
	opts   Options
	err    error
}

// XML writes f as an <EbxFile> document with one element per instance.
func XML(w io.Writer, f *ebx.File, opts Options) error {
	selected, err := opts.instances(f)
	if err != nil {
		return err
	}
	x := &xmlWriter{w: bufio.NewWriter(w), indent: opts.Indent, opts: opts}
	if x.indent == "" {
		x.indent = "\t"
	}

	x.line(0, `<EbxFile Guid="`+opts.FormatGUID(f.GUID)+`">`)
	for _, s := range selected {
		name := typeName(s.inst.Root)
		x.line(1, "<"+name+` Guid="`+opts.FormatGUID(s.inst.GUID)+`">`)
		x.complex(s.inst.Root, 2)
		x.line(1, "</"+name+">")
	}
	x.line(0, "</EbxFile>")
	if x.err != nil {
		return x.err
	}
	return x.w.Flush()
}

func (x *xmlWriter) line(depth int, s string) {
	x.w.WriteString(strings.Repeat(x.indent, depth))
	x.w.WriteString(s)
	x.w.WriteByte('\n')
}

// quoted writes s as an escaped, double-quoted text line.
func (x *xmlWriter) quoted(depth int, s string) {
	x.w.WriteString(strings.Repeat(x.indent, depth))
	x.w.WriteByte('"')
	if err := xml.EscapeText(x.w, []byte(s)); err != nil && x.err == nil {
		x.err = err
	}
	x.w.WriteString("\"\n")
}

func (x *xmlWriter) complex(c *ebx.Complex, depth int) {
	wrap := !c.IsArrayHolder()
	name := typeName(c)
	if wrap {
		x.line(depth, "<"+name+">")
	}
	for i := range c.Fields {
		x.field(&c.Fields[i], depth+1)
	}
	if wrap {
		x.line(depth, "</"+name+">")
	}
}

func (x *xmlWriter) array(a *ebx.Array, depth int) {
	wrap := !a.IsArrayHolder()
	name := displayName(a.Type.Name, a.Type.Hash)
	if wrap {
		x.line(depth, "<"+name+">")
	}
	for i := range a.Elements {
		x.field(&a.Elements[i], depth+1)
	}
	if wrap {
		x.line(depth, "</"+name+">")
	}
}

func (x *xmlWriter) field(f *ebx.Field, depth int) {
	if f.Inline() {
		// The inline base has no element of its own.
		if c, ok := f.Value.(*ebx.Complex); ok {
			x.complex(c, depth)
		} else if f.Err != nil {
			x.line(depth, comment("error: "+f.Err.Error()))
		}
		return
	}
	name := displayName(f.Name(), f.Descriptor.Hash)
	x.line(depth, "<"+name+">")
	switch v := f.Value.(type) {
	case nil:
	case *ebx.Complex:
		x.complex(v, depth+1)
	case *ebx.Array:
		x.array(v, depth+1)
	case ebx.String:
		x.quoted(depth+1, v.Text)
	case ebx.Enum:
		x.quoted(depth+1, v.Name)
	default:
		x.line(depth+1, xmlScalar(v))
	}
	if f.Err != nil {
		if _, undecoded := f.Value.(ebx.Undecoded); !undecoded {
			x.line(depth+1, comment("error: "+f.Err.Error()))
		}
	}
	x.line(depth, "</"+name+">")
}

func typeName(c *ebx.Complex) string {
	return displayName(c.Type.Name, c.Type.Hash)
}

func xmlScalar(v ebx.Value) string {
	switch v := v.(type) {
	case ebx.Byte:
		return fmt.Sprintf("0x%02X", uint8(v))
	case ebx.Int16:
		return fmt.Sprintf("0x%04X", uint16(v))
	case ebx.Int32:
		return fmt.Sprintf("0x%08X", uint32(v))
	case ebx.Int64:
		return fmt.Sprintf("0x%016X", uint64(v))
	case ebx.Float32:
		return formatFloat(v) + "f"
	case ebx.Undecoded:
		return comment(fmt.Sprintf("undecoded type 0x%04X", uint16(v.Tag)))
	default:
		return comment(fmt.Sprintf("%v", v))
	}
}

func comment(s string) string {
	return "<!-- " + strings.ReplaceAll(s, "--", "- -") + " -->"
}
