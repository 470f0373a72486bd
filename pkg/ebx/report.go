package ebx

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Report renders the header as a field-by-field hex dump followed by the
// file GUID.
func (f *File) Report() string {
	h := &f.Header
	var sb strings.Builder
	sb.WriteString("Header\n")
	fmt.Fprintf(&sb, "Magic               : 0x%08X\n", h.Magic)
	fmt.Fprintf(&sb, "AbsStringOffset     : 0x%08X\n", uint32(h.AbsStringOffset))
	fmt.Fprintf(&sb, "LenStringToEOF      : 0x%08X\n", uint32(h.LenStringToEOF))
	fmt.Fprintf(&sb, "NumGUID             : 0x%08X\n", uint32(h.NumGUID))
	fmt.Fprintf(&sb, "NumInstanceRepeater : 0x%04X\n", h.NumInstanceRepeater)
	fmt.Fprintf(&sb, "NumGUIDRepeater     : 0x%04X\n", h.NumGUIDRepeater)
	fmt.Fprintf(&sb, "Unknown             : 0x%04X\n", h.Unknown)
	fmt.Fprintf(&sb, "NumComplex          : 0x%04X\n", h.NumComplex)
	fmt.Fprintf(&sb, "NumField            : 0x%04X\n", h.NumField)
	fmt.Fprintf(&sb, "LenName             : 0x%04X\n", h.LenName)
	fmt.Fprintf(&sb, "LenString           : 0x%08X\n", uint32(h.LenString))
	fmt.Fprintf(&sb, "NumArrayRepeater    : 0x%08X\n", uint32(h.NumArrayRepeater))
	fmt.Fprintf(&sb, "LenPayload          : 0x%08X\n", uint32(h.LenPayload))
	fmt.Fprintf(&sb, "ArraySectionStart   : 0x%08X\n", uint32(h.ArraySectionStart()))
	sb.WriteString("\nGUID\n")
	sb.WriteString(f.GUID.String())
	sb.WriteString("\n")
	return sb.String()
}

// WriteTables lists every metadata table of f, one record per line.
func WriteTables(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Imports (%d)\n", len(f.Imports))
	for i, imp := range f.Imports {
		fmt.Fprintf(bw, "%04X : %s - %s\n", i, imp.Partition, imp.Instance)
	}

	fmt.Fprintf(bw, "\nKeywords (%d)\n", f.Keywords.Len())
	for i, k := range f.Keywords.Entries() {
		fmt.Fprintf(bw, "%04X : Offset = 0x%08X Hash = 0x%08X Keyword = '%s'\n", i, k.Offset, k.Hash, k.Name)
	}

	fmt.Fprintf(bw, "\nField descriptors (%d)\n", len(f.Fields))
	for i, fd := range f.Fields {
		fmt.Fprintf(bw, "%04X : Hash = 0x%08X Type = 0x%04X Reference = 0x%04X Offset = 0x%08X Secondary Offset = 0x%08X Name = '%s'\n",
			i, fd.Hash, uint16(fd.Tag), fd.Reference, uint32(fd.Offset), uint32(fd.SecondaryOffset), fd.Name)
	}

	fmt.Fprintf(bw, "\nComplex descriptors (%d)\n", len(f.Types))
	for i, t := range f.Types {
		fmt.Fprintf(bw, "%04X : Hash = 0x%08X StartIndex = 0x%08X NumField = 0x%02X Alignment = 0x%02X Type = 0x%04X Size = 0x%04X Secondary Size = 0x%04X Name = '%s'\n",
			i, t.Hash, uint32(t.FieldStartIndex), t.FieldCount, t.Alignment, t.TypeFlags, t.Size, t.SecondarySize, t.Name)
	}

	fmt.Fprintf(bw, "\nInstance repeaters (%d)\n", len(f.InstanceRepeaters))
	for i, r := range f.InstanceRepeaters {
		fmt.Fprintf(bw, "%04X : Complex Index = 0x%04X Repeats = 0x%04X\n", i, r.ComplexIndex, r.Count)
	}

	fmt.Fprintf(bw, "\nArray repeaters (%d)\n", len(f.ArrayRepeaters))
	for i, r := range f.ArrayRepeaters {
		fmt.Fprintf(bw, "%04X : Offset = 0x%08X Complex Index = 0x%08X Repeats = 0x%08X\n",
			i, uint32(r.Offset), uint32(r.ComplexIndex), uint32(r.Count))
	}

	return bw.Flush()
}
