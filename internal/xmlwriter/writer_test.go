package xmlwriter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/registry-converter/internal/types"
	"github.com/ginjaninja78/registry-converter/internal/xmlparser"
	"golang.org/x/text/encoding/charmap"
)

func sampleDocument() *types.Element {
	return &types.Element{
		Name: "ATT",
		Children: []*types.Element{
			{Name: "ZGLV", Children: []*types.Element{
				types.NewElement("VERSION", "1.3"),
			}},
			{Name: "REC", Children: []*types.Element{
				types.NewElement("N_ZAP", "1"),
				types.NewElement("FAM", "Иванов"),
				types.NewElement("SPOLIS", ""),
				types.NewElement("NOTE", `a < b & "c"`),
			}},
		},
	}
}

func TestGenerate_Layout(t *testing.T) {
	data, err := GenerateWithOptions(sampleDocument(), DefaultGenerateOptions())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		t.Fatalf("output is not windows-1251: %v", err)
	}
	text := string(decoded)

	want := "<?xml version='1.0' encoding='windows-1251'?>\r\n" +
		"<ATT>\r\n" +
		"  <ZGLV>\r\n" +
		"    <VERSION>1.3</VERSION>\r\n" +
		"  </ZGLV>\r\n" +
		"  <REC>\r\n" +
		"    <N_ZAP>1</N_ZAP>\r\n" +
		"    <FAM>Иванов</FAM>\r\n" +
		"    <SPOLIS/>\r\n" +
		"    <NOTE>a &lt; b &amp; \"c\"</NOTE>\r\n" +
		"  </REC>\r\n" +
		"</ATT>\r\n"

	if text != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", text, want)
	}
}

func TestGenerate_EncodesCyrillicAsSingleBytes(t *testing.T) {
	data, err := GenerateWithOptions(sampleDocument(), DefaultGenerateOptions())
	if err != nil {
		t.Fatal(err)
	}

	legacy, err := charmap.Windows1251.NewEncoder().String("Иванов")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(legacy)) {
		t.Error("expected surname encoded in windows-1251")
	}
	if bytes.Contains(data, []byte("Иванов")) {
		t.Error("output must not contain UTF-8 Cyrillic")
	}
}

func TestGenerate_UnrepresentableRune(t *testing.T) {
	doc := &types.Element{Name: "ATT", Children: []*types.Element{types.NewElement("X", "中")}}

	if _, err := GenerateWithOptions(doc, DefaultGenerateOptions()); err == nil {
		t.Fatal("expected encoding error for a rune outside windows-1251")
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")

	if err := WriteFile(path, sampleDocument(), DefaultGenerateOptions()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	root, err := xmlparser.ParseFile(path, xmlparser.Options{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	rec := root.Find("REC")
	if rec == nil {
		t.Fatal("REC not found after round trip")
	}
	if got, _ := rec.ChildText("FAM"); got != "Иванов" {
		t.Errorf("expected FAM Иванов, got %q", got)
	}
	if got, _ := rec.ChildText("NOTE"); got != `a < b & "c"` {
		t.Errorf("expected unescaped NOTE, got %q", got)
	}
	if spolis := rec.Find("SPOLIS"); spolis == nil || spolis.Text != "" {
		t.Errorf("expected empty SPOLIS, got %#v", spolis)
	}
}

func TestGenerateWithOptions_NoDeclaration(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = false
	opts.LineEnding = "\n"
	opts.Encoding = "utf-8"

	data, err := GenerateWithOptions(sampleDocument(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(data), "<?xml") {
		t.Error("declaration should be omitted")
	}
	if strings.Contains(string(data), "\r") {
		t.Error("expected LF line endings")
	}
}
