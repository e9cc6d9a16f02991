// =============================================================================
// Registry Converter - Shared Types
// =============================================================================
//
// This package contains the document model shared by the loader, the writer
// and the transformation rules:
//   - xmlparser  builds Element trees from legacy-encoded files
//   - converter  edits them with the field editor in editor.go
//   - xmlwriter  serialises them back
//
// A registry document is a small ordered tree. Element order matters to the
// receiving system, so children are kept in a slice and never sorted.
//
// =============================================================================

package types

import "encoding/xml"

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Element is a single XML element with its ordered children.
// An element carries either text or children; registry formats never mix them.
type Element struct {
	// Name is the local tag name (e.g. "ZGLV", "PERS", "N_ZAP").
	Name string

	// Attrs holds attributes in document order.
	Attrs []xml.Attr

	// Text is the character data of a leaf element.
	Text string

	// Children contains child elements in document order.
	// Duplicate names are allowed.
	Children []*Element
}

// NewElement creates a leaf element with the given text.
func NewElement(name, text string) *Element {
	return &Element{Name: name, Text: text}
}

// Find returns the first child with the given name, or nil.
func (e *Element) Find(name string) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// FindAll returns all children with the given name in document order.
func (e *Element) FindAll(name string) []*Element {
	var found []*Element
	for _, child := range e.Children {
		if child.Name == name {
			found = append(found, child)
		}
	}
	return found
}

// ChildText returns the text of the first child with the given name.
// The boolean is false when no such child exists.
func (e *Element) ChildText(name string) (string, bool) {
	child := e.Find(name)
	if child == nil {
		return "", false
	}
	return child.Text, true
}

// Append adds children at the end.
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// Filter keeps only the children for which keep returns true.
// Relative order of the kept children is unchanged.
func (e *Element) Filter(keep func(*Element) bool) {
	kept := e.Children[:0]
	for _, child := range e.Children {
		if keep(child) {
			kept = append(kept, child)
		}
	}
	for i := len(kept); i < len(e.Children); i++ {
		e.Children[i] = nil
	}
	e.Children = kept
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := &Element{
		Name: e.Name,
		Text: e.Text,
	}
	if len(e.Attrs) > 0 {
		c.Attrs = make([]xml.Attr, len(e.Attrs))
		copy(c.Attrs, e.Attrs)
	}
	if len(e.Children) > 0 {
		c.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}
