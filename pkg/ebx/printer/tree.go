package printer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

// Node is one line of the display tree.
type Node struct {
	Label    string
	Children []*Node
}

// Add appends a child with the given label and returns it.
func (n *Node) Add(label string) *Node {
	child := &Node{Label: label}
	n.Children = append(n.Children, child)
	return child
}

// Tree projects f into a display tree rooted at "Instances".
func Tree(f *ebx.File, opts Options) (*Node, error) {
	selected, err := opts.instances(f)
	if err != nil {
		return nil, err
	}
	root := &Node{Label: "Instances"}
	for _, s := range selected {
		n := root.Add(strconv.Itoa(s.index))
		n.Add("GUID").Add(opts.FormatGUID(s.inst.GUID))
		appendComplex(n, s.inst.Root)
	}
	return root, nil
}

func appendComplex(parent *Node, c *ebx.Complex) {
	if c.IsArrayHolder() {
		for i := range c.Fields {
			appendField(parent, &c.Fields[i])
		}
		return
	}
	n := parent.Add(fmt.Sprintf("CF: %s(type 0x%04X)", c.Type.Name, c.Type.TypeFlags))
	for i := range c.Fields {
		appendField(n, &c.Fields[i])
	}
}

func appendField(parent *Node, f *ebx.Field) {
	if c, ok := f.Value.(*ebx.Complex); ok && f.Inline() {
		appendComplex(parent, c)
		return
	}
	n := parent.Add(fmt.Sprintf("F: %s (type 0x%04X)", f.Name(), uint16(f.Descriptor.Tag)))
	switch v := f.Value.(type) {
	case nil:
	case *ebx.Complex:
		appendComplex(n, v)
	case *ebx.Array:
		holder := n
		if !v.IsArrayHolder() {
			holder = n.Add(fmt.Sprintf("CF: %s(type 0x%04X)", v.Type.Name, v.Type.TypeFlags))
		}
		for i := range v.Elements {
			appendField(holder, &v.Elements[i])
		}
	default:
		n.Add(treeScalar(v))
	}
	if f.Err != nil {
		if _, undecoded := f.Value.(ebx.Undecoded); !undecoded {
			n.Add("error: " + f.Err.Error())
		}
	}
}

func treeScalar(v ebx.Value) string {
	switch v := v.(type) {
	case ebx.String:
		return v.Text
	case ebx.Enum:
		return v.Name
	case ebx.Byte:
		return fmt.Sprintf("%02X", uint8(v))
	case ebx.Int16:
		return fmt.Sprintf("%04X", uint16(v))
	case ebx.Int32:
		return fmt.Sprintf("%08X", uint32(v))
	case ebx.Int64:
		return fmt.Sprintf("%016X", uint64(v))
	case ebx.Float32:
		return formatFloat(v)
	case ebx.Undecoded:
		return fmt.Sprintf("undecoded type 0x%04X", uint16(v.Tag))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(v ebx.Float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// WriteTree renders n and its descendants, one label per line.
func WriteTree(w io.Writer, n *Node, indent string) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n, indent, 0)
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node, indent string, depth int) {
	w.WriteString(strings.Repeat(indent, depth))
	w.WriteString(n.Label)
	w.WriteByte('\n')
	for _, c := range n.Children {
		writeNode(w, c, indent, depth+1)
	}
}
