// =============================================================================
// Registry Converter - XML Parser Module
// =============================================================================
//
// This module loads registry documents into an ordered element tree.
// Registry files are exchanged in a legacy single-byte Cyrillic encoding
// (Windows-1251). The declared charset is honoured; files without a
// declaration are decoded with the configured default encoding.
//
// FEATURES:
//   - Element order and duplicate names are preserved
//   - Whitespace between child elements is discarded
//   - Leaf text is kept verbatim
//
// =============================================================================

package xmlparser

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the charset used by the regional registry exchange.
const DefaultEncoding = "windows-1251"

// Options contains settings for parsing.
type Options struct {
	// DefaultEncoding decodes files that carry no XML declaration.
	// Default: "windows-1251"
	DefaultEncoding string
}

// LookupEncoding resolves an IANA charset name such as "windows-1251".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads the document at path and returns its root element.
func ParseFile(path string, opts Options) (*types.Element, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	root, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return root, nil
}

// Parse reads one XML document from r.
func Parse(r io.Reader, opts Options) (*types.Element, error) {
	if opts.DefaultEncoding == "" {
		opts.DefaultEncoding = DefaultEncoding
	}

	reader := bufio.NewReader(r)

	// Without a declaration encoding/xml assumes UTF-8, so legacy bytes have
	// to be decoded up front.
	head, _ := reader.Peek(5)
	var src io.Reader = reader
	if !bytes.HasPrefix(head, []byte("<?xml")) {
		enc, err := LookupEncoding(opts.DefaultEncoding)
		if err != nil {
			return nil, err
		}
		src = transform.NewReader(reader, enc.NewDecoder())
	}

	decoder := xml.NewDecoder(src)
	decoder.CharsetReader = charsetReader

	return buildTree(decoder)
}

// charsetReader decodes input declared with a non UTF-8 charset.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := LookupEncoding(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// buildTree consumes raw tokens and assembles the element tree.
// RawToken keeps namespace prefixes as written, so end tags are matched here.
func buildTree(decoder *xml.Decoder) (*types.Element, error) {
	var root *types.Element
	var stack []*types.Element

	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			el := &types.Element{Name: qualifiedName(t.Name)}
			if len(t.Attr) > 0 {
				el.Attrs = make([]xml.Attr, len(t.Attr))
				copy(el.Attrs, t.Attr)
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("unexpected second root element <%s>", el.Name)
				}
				root = el
			} else {
				stack[len(stack)-1].Append(el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag </%s>", qualifiedName(t.Name))
			}
			top := stack[len(stack)-1]
			if name := qualifiedName(t.Name); name != top.Name {
				return nil, fmt.Errorf("element <%s> closed by </%s>", top.Name, name)
			}
			if len(top.Children) > 0 && strings.TrimSpace(top.Text) == "" {
				top.Text = ""
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document is empty")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("element <%s> is not closed", stack[len(stack)-1].Name)
	}

	return root, nil
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
