package types

// =============================================================================
// FIELD EDITOR
// =============================================================================
//
// Primitive edits used by every transformation rule. All of them are total
// except RenameChild, which reports a missing field.

// RemoveChild detaches the first child named name.
// It reports whether a child was removed.
func RemoveChild(parent *Element, name string) bool {
	for i, child := range parent.Children {
		if child.Name == name {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveChildren removes the first occurrence of each named child.
func RemoveChildren(parent *Element, names ...string) {
	for _, name := range names {
		RemoveChild(parent, name)
	}
}

// RenameTag changes the element name only.
func RenameTag(e *Element, name string) {
	e.Name = name
}

// RenameChild renames the first child called oldName.
func RenameChild(parent *Element, oldName, newName string) error {
	child := parent.Find(oldName)
	if child == nil {
		return &MissingFieldError{Element: parent.Name, Field: oldName}
	}
	child.Name = newName
	return nil
}

// SetChildText overwrites the text of the first child called name, or appends
// a new child at the end of parent when there is none.
func SetChildText(parent *Element, name, text string) *Element {
	if child := parent.Find(name); child != nil {
		child.Text = text
		return child
	}
	child := NewElement(name, text)
	parent.Append(child)
	return child
}
