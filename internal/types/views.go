package types

import "strings"

// =============================================================================
// TYPED VIEWS
// =============================================================================
//
// Header and Record give names to the fields the rules touch. Optional fields
// are returned with an ok flag so a missing value is handled where it is read
// instead of surfacing as a nil dereference later.

// Header is a view over a ZGLV element.
type Header struct {
	*Element
}

// HeaderOf returns the header view of a document root.
func HeaderOf(root *Element) (Header, error) {
	el := root.Find(TagHeader)
	if el == nil {
		return Header{}, &MissingFieldError{Element: root.Name, Field: TagHeader}
	}
	return Header{el}, nil
}

// OrgCode returns CODE_MO when present and non-empty.
func (h Header) OrgCode() (string, bool) {
	code, ok := h.ChildText(TagCodeMO)
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// AreaType returns AREA_TYPE.
func (h Header) AreaType() (string, bool) {
	return h.ChildText(TagAreaType)
}

// Record is a view over a PERS or REC element.
type Record struct {
	*Element
}

// RecordsOf returns the views of all children named tag.
func RecordsOf(root *Element, tag string) []Record {
	els := root.FindAll(tag)
	records := make([]Record, len(els))
	for i, el := range els {
		records[i] = Record{el}
	}
	return records
}

// SeqID returns N_ZAP without surrounding whitespace.
func (r Record) SeqID() (string, bool) {
	text, ok := r.ChildText(TagNZap)
	return strings.TrimSpace(text), ok
}

// DoctorCode returns SNILS_VR.
func (r Record) DoctorCode() (string, bool) {
	return r.ChildText(TagSnilsVr)
}

// DependentOrg returns MD_DEP_ID.
func (r Record) DependentOrg() (string, bool) {
	return r.ChildText(TagMdDepID)
}

// PolicyENP returns ENP.
func (r Record) PolicyENP() (string, bool) {
	return r.ChildText(TagENP)
}

// MissingAttachmentField returns the first field an output REC must carry but
// does not, or "" when the record is complete.
func (r Record) MissingAttachmentField() string {
	for _, name := range []string{TagTPrik, TagSnilsVr, TagDateAttach, TagENP} {
		if _, ok := r.ChildText(name); !ok {
			return name
		}
	}
	return ""
}

// IDSet is a set of N_ZAP values.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union adds every id of other.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s.Add(id)
	}
}
