package types

import (
	"errors"
	"testing"
)

func samplePers() *Element {
	return &Element{
		Name: TagPerson,
		Children: []*Element{
			NewElement(TagNZap, "1"),
			NewElement(TagENP, "7777"),
			NewElement(TagSMO, "39001"),
			NewElement(TagSMO, "39002"),
		},
	}
}

func names(e *Element) []string {
	out := make([]string, len(e.Children))
	for i, c := range e.Children {
		out[i] = c.Name
	}
	return out
}

func TestRemoveChild_RemovesFirstMatchOnly(t *testing.T) {
	pers := samplePers()

	if !RemoveChild(pers, TagSMO) {
		t.Fatal("expected SMO to be removed")
	}

	smo := pers.FindAll(TagSMO)
	if len(smo) != 1 || smo[0].Text != "39002" {
		t.Errorf("expected second SMO to remain, got %v", smo)
	}
}

func TestRemoveChild_AbsentIsNoop(t *testing.T) {
	pers := samplePers()

	if RemoveChild(pers, "NOPE") {
		t.Error("expected no removal")
	}
	if len(pers.Children) != 4 {
		t.Errorf("expected 4 children, got %d", len(pers.Children))
	}
}

func TestRenameChild(t *testing.T) {
	pers := samplePers()

	if err := RenameChild(pers, TagENP, TagNPolis); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if got, _ := pers.ChildText(TagNPolis); got != "7777" {
		t.Errorf("expected NPOLIS 7777, got %q", got)
	}

	err := RenameChild(pers, TagDateNaz, TagDateAttach)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	var mf *MissingFieldError
	if !errors.As(err, &mf) || mf.Field != TagDateNaz || mf.Element != TagPerson {
		t.Errorf("unexpected error detail: %#v", mf)
	}
}

func TestSetChildText(t *testing.T) {
	pers := samplePers()

	SetChildText(pers, TagENP, "8888")
	if got, _ := pers.ChildText(TagENP); got != "8888" {
		t.Errorf("expected overwrite, got %q", got)
	}
	if pers.Children[1].Name != TagENP {
		t.Error("overwrite must keep position")
	}

	SetChildText(pers, TagVPolis, "3")
	got := names(pers)
	if got[len(got)-1] != TagVPolis {
		t.Errorf("expected VPOLIS appended last, got %v", got)
	}
}

func TestFilterAndClone(t *testing.T) {
	root := &Element{Name: "ROOT"}
	for _, id := range []string{"1", "2", "3"} {
		root.Append(&Element{Name: TagRecord, Children: []*Element{NewElement(TagNZap, id)}})
	}

	clone := root.Clone()
	root.Filter(func(e *Element) bool {
		id, _ := Record{e}.SeqID()
		return id != "2"
	})

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 records, got %d", len(root.Children))
	}
	if len(clone.Children) != 3 {
		t.Errorf("clone must not be affected, got %d", len(clone.Children))
	}

	clone.Children[0].Children[0].Text = "99"
	if id, _ := (Record{root.Children[0]}).SeqID(); id != "1" {
		t.Errorf("clone shares children with original: %q", id)
	}
}

func TestRecordSeqIDTrimsWhitespace(t *testing.T) {
	rec := Record{&Element{Name: TagRecord, Children: []*Element{NewElement(TagNZap, " 2 ")}}}
	if id, ok := rec.SeqID(); !ok || id != "2" {
		t.Errorf("SeqID() = (%q, %v), want (\"2\", true)", id, ok)
	}
	if _, ok := (Record{&Element{Name: TagRecord}}).SeqID(); ok {
		t.Error("expected no N_ZAP")
	}
}

func TestMissingAttachmentField(t *testing.T) {
	rec := Record{&Element{Name: TagRecord, Children: []*Element{
		NewElement(TagTPrik, "2"),
		NewElement(TagSnilsVr, "12345678901"),
		NewElement(TagENP, "1"),
	}}}

	if got := rec.MissingAttachmentField(); got != TagDateAttach {
		t.Errorf("expected DATE_ATTACH missing, got %q", got)
	}

	SetChildText(rec.Element, TagDateAttach, "2026-10-01")
	if got := rec.MissingAttachmentField(); got != "" {
		t.Errorf("expected complete record, got %q", got)
	}
}

func TestHeaderOf(t *testing.T) {
	root := &Element{Name: "PERS_LIST"}
	if _, err := HeaderOf(root); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}

	root.Append(&Element{Name: TagHeader, Children: []*Element{NewElement(TagCodeMO, "")}})
	h, err := HeaderOf(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.OrgCode(); ok {
		t.Error("empty CODE_MO must be reported as absent")
	}
}
