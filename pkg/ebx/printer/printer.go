// Package printer renders decoded EBX files as an indented display tree,
// XML-shaped text, or JSON.
//
// The tree and XML views apply two presentation rules that the decoded
// graph does not: a field named "$" is inlined into its parent, and a
// complex value of type "array" emits its children without a wrapper.
package printer

import (
	"errors"
	"fmt"
	"io"

	"github.com/samcharles93/ebxkit/pkg/ebx"
)

// Format specifies the output format for printing.
type Format string

const (
	FormatXML  Format = "xml"
	FormatTree Format = "tree"
	FormatJSON Format = "json"
)

// GUIDFormat selects how GUIDs are rendered.
type GUIDFormat string

const (
	// GUIDHex renders the 16 bytes as 32 upper-case hex digits in file order.
	GUIDHex GUIDFormat = "hex"

	// GUIDUUID renders the bytes in canonical 8-4-4-4-12 form.
	GUIDUUID GUIDFormat = "uuid"
)

var ErrInstanceNotFound = errors.New("instance not found")

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (xml, tree, json).
	// Default: FormatXML
	Format Format

	// Indent is the per-level indent of the xml and tree formats.
	// Default: tab for xml, two spaces for tree.
	Indent string

	// GUIDFormat selects GUID rendering.
	// Default: GUIDHex
	GUIDFormat GUIDFormat

	// Instance restricts output to a single instance when non-nil.
	Instance *ebx.GUID

	// Header includes the header record in JSON output.
	Header bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:     FormatXML,
		GUIDFormat: GUIDHex,
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatXML, FormatTree, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want xml, tree or json)", s)
	}
}

// ParseGUIDFormat validates a GUID format name.
func ParseGUIDFormat(s string) (GUIDFormat, error) {
	switch g := GUIDFormat(s); g {
	case GUIDHex, GUIDUUID:
		return g, nil
	case "":
		return GUIDHex, nil
	default:
		return "", fmt.Errorf("unknown guid format %q (want hex or uuid)", s)
	}
}

// Print writes f to w in the format selected by opts.
func Print(w io.Writer, f *ebx.File, opts Options) error {
	switch opts.Format {
	case FormatXML, "":
		return XML(w, f, opts)
	case FormatTree:
		root, err := Tree(f, opts)
		if err != nil {
			return err
		}
		indent := opts.Indent
		if indent == "" {
			indent = "  "
		}
		return WriteTree(w, root, indent)
	case FormatJSON:
		return JSON(w, f, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// FormatGUID renders g according to o.GUIDFormat.
func (o Options) FormatGUID(g ebx.GUID) string {
	if o.GUIDFormat == GUIDUUID {
		return g.UUID().String()
	}
	return g.String()
}

type indexedInstance struct {
	index int
	inst  *ebx.Instance
}

func (o Options) instances(f *ebx.File) ([]indexedInstance, error) {
	if o.Instance != nil {
		for i := range f.Instances {
			if f.Instances[i].GUID == *o.Instance {
				return []indexedInstance{{index: i, inst: &f.Instances[i]}}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, o.FormatGUID(*o.Instance))
	}
	out := make([]indexedInstance, len(f.Instances))
	for i := range f.Instances {
		out[i] = indexedInstance{index: i, inst: &f.Instances[i]}
	}
	return out, nil
}

// displayName substitutes a hash-derived name for names missing from the
// keyword table.
func displayName(name string, hash uint32) string {
	if name == "" {
		return fmt.Sprintf("_0x%08X", hash)
	}
	return name
}
