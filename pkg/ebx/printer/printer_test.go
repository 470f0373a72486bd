package printer_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/ebxkit/internal/ebxtest"
	"github.com/samcharles93/ebxkit/pkg/ebx"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

func sampleFile(t *testing.T, edit func(b *ebxtest.Builder)) *ebx.File {
	t.Helper()
	b := ebxtest.Sample()
	if edit != nil {
		edit(b)
	}
	f, err := ebx.Decode(b.Build())
	require.NoError(t, err)
	return f
}

func render(t *testing.T, f *ebx.File, opts printer.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, printer.Print(&buf, f, opts))
	return buf.String()
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestXML(t *testing.T) {
	f := sampleFile(t, nil)
	got := render(t, f, printer.DefaultOptions())

	want := lines(
		`<EbxFile Guid="A0A1A2A3A4A5A6A7A8A9AAABACADAEAF">`,
		"\t"+`<Asset Guid="101112131415161718191A1B1C1D1E1F">`,
		"\t\t<Asset>",
		"\t\t\t<Base>",
		"\t\t\t\t<Id>",
		"\t\t\t\t\t0x0007",
		"\t\t\t\t</Id>",
		"\t\t\t</Base>",
		"\t\t\t<Name>",
		"\t\t\t\t\"Hello\"",
		"\t\t\t</Name>",
		"\t\t\t<Count>",
		"\t\t\t\t0xFFFFFFFE",
		"\t\t\t</Count>",
		"\t\t\t<Scale>",
		"\t\t\t\t1.5f",
		"\t\t\t</Scale>",
		"\t\t\t<Mode>",
		"\t\t\t\t\"ModeB\"",
		"\t\t\t</Mode>",
		"\t\t\t<Child>",
		"\t\t\t\t<Vec>",
		"\t\t\t\t\t<X>",
		"\t\t\t\t\t\t0.25f",
		"\t\t\t\t\t</X>",
		"\t\t\t\t\t<Y>",
		"\t\t\t\t\t\t-3f",
		"\t\t\t\t\t</Y>",
		"\t\t\t\t</Vec>",
		"\t\t\t</Child>",
		"\t\t\t<Items>",
		"\t\t\t\t\t<member>",
		"\t\t\t\t\t\t0x0000000A",
		"\t\t\t\t\t</member>",
		"\t\t\t\t\t<member>",
		"\t\t\t\t\t\t0x00000014",
		"\t\t\t\t\t</member>",
		"\t\t\t\t\t<member>",
		"\t\t\t\t\t\t0x0000001E",
		"\t\t\t\t\t</member>",
		"\t\t\t</Items>",
		"\t\t</Asset>",
		"\t</Asset>",
		"\t"+`<Marker Guid="00000000000000000000000000000000">`,
		"\t\t<Marker>",
		"\t\t\t<Flag>",
		"\t\t\t\t0xAB",
		"\t\t\t</Flag>",
		"\t\t\t<Big>",
		"\t\t\t\t0x0102030405060708",
		"\t\t\t</Big>",
		"\t\t</Marker>",
		"\t</Marker>",
		"\t"+`<Marker Guid="00000000000000000000000001000000">`,
		"\t\t<Marker>",
		"\t\t\t<Flag>",
		"\t\t\t\t0x01",
		"\t\t\t</Flag>",
		"\t\t\t<Big>",
		"\t\t\t\t0xFFFFFFFFFFFFFFFF",
		"\t\t\t</Big>",
		"\t\t</Marker>",
		"\t</Marker>",
		"</EbxFile>",
	)
	require.Equal(t, want, got)
}

func TestXMLRepeatable(t *testing.T) {
	data := ebxtest.Sample().Build()
	var outs []string
	for range 3 {
		f, err := ebx.Decode(data)
		require.NoError(t, err)
		outs = append(outs, render(t, f, printer.DefaultOptions()))
	}
	require.Equal(t, outs[0], outs[1])
	require.Equal(t, outs[0], outs[2])
}

func TestXMLUndecodedAndErrors(t *testing.T) {
	f := sampleFile(t, func(b *ebxtest.Builder) {
		b.Fields[2].Tag = 0x1234
		b.Arrays[0].Count = 1000
	})
	got := render(t, f, printer.DefaultOptions())

	require.Contains(t, got, "\t\t\t<Count>\n\t\t\t\t<!-- undecoded type 0x1234 -->\n\t\t\t</Count>\n")
	require.NotContains(t, got, "error: "+ebx.ErrUnknownFieldType.Error())
	require.Contains(t, got, "\t\t\t<Items>\n\t\t\t\t<!-- error: field Asset.Items")
}

func TestXMLInlineBaseError(t *testing.T) {
	f := sampleFile(t, func(b *ebxtest.Builder) {
		b.Fields[0].Ref = 99
	})
	got := render(t, f, printer.DefaultOptions())

	require.NotContains(t, got, "<$>")
	require.Contains(t, got, "\t\t<Asset>\n\t\t\t<!-- error: field Asset.$ ")
	require.Contains(t, got, "\t\t\t<Name>\n")
}

func TestXMLStructArray(t *testing.T) {
	f, err := ebx.Decode(ebxtest.StructArray().Build())
	require.NoError(t, err)
	got := render(t, f, printer.DefaultOptions())

	require.Contains(t, got, lines(
		"\t\t\t<Parts>",
		"\t\t\t\t\t<member>",
		"\t\t\t\t\t\t<K>",
		"\t\t\t\t\t\t\t<A>",
		"\t\t\t\t\t\t\t\t0x00000001",
		"\t\t\t\t\t\t\t</A>",
		"\t\t\t\t\t\t\t<B>",
		"\t\t\t\t\t\t\t\t0x00000002",
		"\t\t\t\t\t\t\t</B>",
		"\t\t\t\t\t\t</K>",
		"\t\t\t\t\t</member>",
	))
	require.Equal(t, 3, strings.Count(got, "<K>"))
	require.Contains(t, got, "\t\t\t\t\t\t\t\t0x00000006\n")
}

func TestXMLEscapesStrings(t *testing.T) {
	f := sampleFile(t, func(b *ebxtest.Builder) {
		b.Names = []string{"a<b&c"}
	})
	got := render(t, f, printer.DefaultOptions())
	require.Contains(t, got, `"a&lt;b&amp;c"`)
}

func TestXMLSingleInstance(t *testing.T) {
	f := sampleFile(t, nil)
	g := ebxtest.SeqGUID(0x10)
	opts := printer.DefaultOptions()
	opts.Instance = &g

	got := render(t, f, opts)
	require.Contains(t, got, "<Asset Guid=")
	require.NotContains(t, got, "<Marker")

	missing := ebxtest.SeqGUID(0x77)
	opts.Instance = &missing
	err := printer.Print(&bytes.Buffer{}, f, opts)
	require.ErrorIs(t, err, printer.ErrInstanceNotFound)
}

func TestXMLUUIDFormat(t *testing.T) {
	f := sampleFile(t, nil)
	opts := printer.DefaultOptions()
	opts.GUIDFormat = printer.GUIDUUID

	got := render(t, f, opts)
	require.True(t, strings.HasPrefix(got, `<EbxFile Guid="a0a1a2a3-a4a5-a6a7-a8a9-aaabacadaeaf">`))
}

func TestTree(t *testing.T) {
	f := sampleFile(t, nil)
	root, err := printer.Tree(f, printer.Options{})
	require.NoError(t, err)

	require.Equal(t, "Instances", root.Label)
	require.Len(t, root.Children, 3)

	inst := root.Children[0]
	require.Equal(t, "0", inst.Label)
	require.Equal(t, "GUID", inst.Children[0].Label)
	require.Equal(t, "101112131415161718191A1B1C1D1E1F", inst.Children[0].Children[0].Label)

	asset := inst.Children[1]
	require.Equal(t, "CF: Asset(type 0x0001)", asset.Label)
	require.Equal(t, "CF: Base(type 0x0003)", asset.Children[0].Label)
	require.Equal(t, "F: Name (type 0x407D)", asset.Children[1].Label)
	require.Equal(t, "Hello", asset.Children[1].Children[0].Label)

	items := asset.Children[6]
	require.Equal(t, "F: Items (type 0x0041)", items.Label)
	require.Len(t, items.Children, 3)
	require.Equal(t, "F: member (type 0x0035)", items.Children[0].Label)
	require.Equal(t, "0000000A", items.Children[0].Children[0].Label)
}

func TestTreeStructArray(t *testing.T) {
	f, err := ebx.Decode(ebxtest.StructArray().Build())
	require.NoError(t, err)
	root, err := printer.Tree(f, printer.Options{})
	require.NoError(t, err)

	holder := root.Children[0].Children[1]
	require.Equal(t, "CF: Holder(type 0x0000)", holder.Label)
	parts := holder.Children[0]
	require.Equal(t, "F: Parts (type 0x0041)", parts.Label)
	require.Len(t, parts.Children, 3)
	for i, el := range parts.Children {
		require.Equal(t, "F: member (type 0x0029)", el.Label)
		k := el.Children[0]
		require.Equal(t, "CF: K(type 0x0000)", k.Label)
		require.Len(t, k.Children, 2)
		require.Equal(t, fmt.Sprintf("%08X", 2*i+1), k.Children[0].Children[0].Label)
	}
}

func TestWriteTree(t *testing.T) {
	f := sampleFile(t, nil)
	opts := printer.Options{Format: printer.FormatTree}
	got := render(t, f, opts)

	require.True(t, strings.HasPrefix(got, lines(
		"Instances",
		"  0",
		"    GUID",
		"      101112131415161718191A1B1C1D1E1F",
		"    CF: Asset(type 0x0001)",
		"      CF: Base(type 0x0003)",
		"        F: Id (type 0x0CDD)",
		"          0007",
	)))
	require.Contains(t, got, lines(
		"      F: Child (type 0x0029)",
		"        CF: Vec(type 0x0002)",
		"          F: X (type 0xC13D)",
		"            0.25",
		"          F: Y (type 0xC13D)",
		"            -3",
	))
	require.Contains(t, got, lines(
		"    CF: Marker(type 0x0004)",
		"      F: Flag (type 0xC0AD)",
		"        AB",
		"      F: Big (type 0x417D)",
		"        0102030405060708",
	))
}

func TestJSON(t *testing.T) {
	f := sampleFile(t, nil)
	opts := printer.Options{Format: printer.FormatJSON, Header: true}
	out := render(t, f, opts)

	var doc struct {
		GUID   string `json:"guid"`
		Header struct {
			Magic        uint32 `json:"Magic"`
			PayloadStart int64  `json:"PayloadStart"`
		} `json:"header"`
		Imports   []map[string]string `json:"imports"`
		Instances []struct {
			Index     int    `json:"index"`
			GUID      string `json:"guid"`
			Synthetic bool   `json:"synthetic"`
			Type      string `json:"type"`
			Fields    []struct {
				Name     string `json:"name"`
				Class    string `json:"class"`
				TypeName string `json:"type_name"`
				Value    any    `json:"value"`
				Raw      *int32 `json:"raw"`
				Elements []struct {
					Value float64 `json:"value"`
				} `json:"elements"`
			} `json:"fields"`
		} `json:"instances"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	require.Equal(t, "A0A1A2A3A4A5A6A7A8A9AAABACADAEAF", doc.GUID)
	require.Equal(t, ebx.Magic, doc.Header.Magic)
	require.Equal(t, f.Header.PayloadStart(), doc.Header.PayloadStart)
	require.Len(t, doc.Imports, 1)
	require.Len(t, doc.Instances, 3)

	asset := doc.Instances[0]
	require.Equal(t, "Asset", asset.Type)
	require.False(t, asset.Synthetic)
	require.Len(t, asset.Fields, 7)
	require.Equal(t, "$", asset.Fields[0].Name)
	require.Equal(t, "Base", asset.Fields[0].TypeName)
	require.Equal(t, "Hello", asset.Fields[1].Value)
	require.Equal(t, "ModeB", asset.Fields[4].Value)
	require.NotNil(t, asset.Fields[4].Raw)
	require.Equal(t, int32(1), *asset.Fields[4].Raw)
	require.Equal(t, "array", asset.Fields[6].Class)
	require.Len(t, asset.Fields[6].Elements, 3)
	require.Equal(t, float64(30), asset.Fields[6].Elements[2].Value)

	require.True(t, doc.Instances[1].Synthetic)
}

func TestMarshalJSONCompact(t *testing.T) {
	f := sampleFile(t, nil)
	b, err := printer.MarshalJSON(f, printer.Options{})
	require.NoError(t, err)
	require.NotContains(t, string(b), "\n")
	require.NotContains(t, string(b), `"header"`)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"xml", "tree", "json"} {
		f, err := printer.ParseFormat(s)
		require.NoError(t, err)
		require.Equal(t, printer.Format(s), f)
	}
	_, err := printer.ParseFormat("yaml")
	require.Error(t, err)

	g, err := printer.ParseGUIDFormat("")
	require.NoError(t, err)
	require.Equal(t, printer.GUIDHex, g)
	_, err = printer.ParseGUIDFormat("base64")
	require.Error(t, err)
}
