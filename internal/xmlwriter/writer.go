// =============================================================================
// Registry Converter - XML Writer Module
// =============================================================================
//
// This module serialises element trees back into the exchange format expected
// by the regional medical information system:
//
//   <?xml version='1.0' encoding='windows-1251'?>
//   <ATT>
//     <ZGLV>
//       <VERSION>1.3</VERSION>
//       <FNAME>ATM390001T_2610001</FNAME>
//     </ZGLV>
//     <REC>
//       <N_ZAP>1</N_ZAP>
//       <SPOLIS/>                          <!-- empty elements self-close -->
//     </REC>
//   </ATT>
//
// Output is pretty-printed, uses CRLF line endings and is encoded in the
// legacy single-byte charset.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/types"
	"github.com/ginjaninja78/registry-converter/internal/xmlparser"
	"golang.org/x/text/transform"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to write the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the IANA charset of the output.
	// Default: "windows-1251"
	Encoding string

	// LineEnding terminates every line.
	// Default: "\r\n"
	LineEnding string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              xmlparser.DefaultEncoding,
		LineEnding:            "\r\n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// GenerateWithOptions serialises root and encodes it in options.Encoding.
func GenerateWithOptions(root *types.Element, options GenerateOptions) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("nothing to write: document is empty")
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version='%s' encoding='%s'?>\n",
			options.XMLVersion, options.Encoding))
	}

	writeElement(&buffer, root, options.Indent, 0)

	// Newlines inside text are converted too, like a text-mode file write.
	out := buffer.Bytes()
	if options.LineEnding != "" && options.LineEnding != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(options.LineEnding))
	}

	enc, err := xmlparser.LookupEncoding(options.Encoding)
	if err != nil {
		return nil, err
	}

	encoded, _, err := transform.Bytes(enc.NewEncoder(), out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode XML as %s: %w", options.Encoding, err)
	}

	return encoded, nil
}

// WriteFile serialises root into path.
func WriteFile(path string, root *types.Element, options GenerateOptions) error {
	data, err := GenerateWithOptions(root, options)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element *types.Element, indentUnit string, level int) {
	indent := strings.Repeat(indentUnit, level)

	buffer.WriteString(indent)
	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	for _, attr := range element.Attrs {
		name := attr.Name.Local
		if attr.Name.Space != "" {
			name = attr.Name.Space + ":" + name
		}
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", name, escapeAttr(attr.Value)))
	}

	if len(element.Children) == 0 && element.Text == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeText(element.Text))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indentUnit, level+1)
		}
		buffer.WriteString(indent)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

// escapeText escapes character data. Quotes are left alone in text nodes.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
