// =============================================================================
// Registry Converter - Attachment Packages
// =============================================================================
//
// An SZPM file lists patients waiting for attachment to a doctor. It becomes
// an ATT package (root ATT, records REC) named by the sequential generator.
//
// PROCESSING:
//   1. Refresh the organisation code in the config store from CODE_MO
//   2. Remember the N_ZAP of records belonging to FAP organisations
//   3. Rewrite the header
//   4. Rewrite every record; records without a doctor are dropped
//   5. Drop records excluded on the command line
//   6. Emit the TER package and, when FAP records survived, a FAP package
//
// FAP records stay in the TER package as well.
//
// =============================================================================

package converter

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/config"
	"github.com/ginjaninja78/registry-converter/internal/types"
)

const (
	attachmentVersion = "1.3"
	attachMethodCode  = "2"
)

// recordDropFields are not part of the REC layout.
var recordDropFields = []string{
	types.TagPrNov,
	types.TagIDPac,
	types.TagDocSer,
	types.TagDocNum,
	types.TagVPolis,
	types.TagSMO,
	types.TagVrPost,
}

var headerDropFields = []string{
	types.TagPeriod,
	types.TagYear,
	types.TagMonth,
	types.TagNRecords,
}

// AttachmentRule turns SZPM documents into ATT packages.
type AttachmentRule struct {
	Store  *config.Store
	Namer  *Namer
	Logger Logger
}

// Apply transforms root in place. exclude holds N_ZAP values to leave out.
func (r *AttachmentRule) Apply(root *types.Element, exclude types.IDSet) (*Outcome, error) {
	outcome := &Outcome{}

	header, err := types.HeaderOf(root)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 1: ORGANISATION CODE
	// =========================================================================

	org, err := r.refreshOrg(header, outcome)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: FAP RECORDS
	// =========================================================================
	// MD_DEP_ID is removed later, so the FAP subset is taken first.

	fapRecords := r.collectFap(root)
	r.Logger.Debug("%d records belong to FAP organisations", len(fapRecords))

	// =========================================================================
	// STEP 3: HEADER
	// =========================================================================

	types.RenameTag(root, types.TagAttachRoot)
	types.SetChildText(header.Element, types.TagVersion, attachmentVersion)
	if err := types.RenameChild(header.Element, types.TagData, types.TagDate); err != nil {
		return nil, err
	}
	renameIfPresent(header.Element, types.TagFilename, types.TagFName)
	types.RemoveChildren(header.Element, headerDropFields...)
	types.SetChildText(header.Element, types.TagAreaType, r.Namer.AreaType(DocTer))

	terName, err := r.Namer.Next(org, DocTer)
	if err != nil {
		return nil, err
	}
	types.SetChildText(header.Element, types.TagFName, terName)

	// =========================================================================
	// STEP 4: RECORDS
	// =========================================================================

	dropped := make(map[*types.Element]bool)
	for _, rec := range types.RecordsOf(root, types.TagPerson) {
		id, _ := rec.SeqID()
		if _, ok := rec.DoctorCode(); !ok {
			r.Logger.Debug("record %s has no %s, not attached", id, types.TagSnilsVr)
			dropped[rec.Element] = true
			continue
		}
		transformRecord(rec)
		if missing := rec.MissingAttachmentField(); missing != "" {
			r.Logger.Warn("record %s dropped: no %s", id, missing)
			dropped[rec.Element] = true
		}
	}
	outcome.Dropped = len(dropped)

	// =========================================================================
	// STEP 5: EXCLUSIONS
	// =========================================================================

	root.Filter(func(el *types.Element) bool {
		return !dropped[el]
	})
	outcome.Excluded = excludeRecords(root, exclude)
	if len(exclude) > 0 {
		r.Logger.Info("excluded %d of %d requested records", len(outcome.Excluded), len(exclude))
	}

	// =========================================================================
	// STEP 6: PACKAGES
	// =========================================================================

	outcome.Outputs = append(outcome.Outputs, Output{
		Name:    terName,
		DocType: DocTer,
		Root:    root,
		Records: len(root.FindAll(types.TagRecord)),
	})

	if len(fapRecords) > 0 {
		fap, err := buildSubPackage(r.Namer, root, header, fapRecords, org, DocFap)
		if err != nil {
			return nil, err
		}
		if fap != nil {
			outcome.Outputs = append(outcome.Outputs, *fap)
		} else {
			outcome.warn(r.Logger, "no FAP record survived the transformation, FAP package not written")
		}
	}

	return outcome, nil
}

// refreshOrg stores a non-empty CODE_MO in the config store. Without one the
// configured code is used and a config fallback warning is recorded.
func (r *AttachmentRule) refreshOrg(header types.Header, outcome *Outcome) (string, error) {
	if code, ok := header.OrgCode(); ok {
		if code != r.Store.LPU() {
			r.Store.SetLPU(code)
			if err := r.Store.Save(); err != nil {
				return "", fmt.Errorf("failed to save organisation code: %w", err)
			}
			r.Logger.Info("organisation code set to %s", code)
		}
		return code, nil
	}

	lpu := r.Store.LPU()
	if lpu == "" {
		return "", &types.MissingFieldError{Element: types.TagHeader, Field: types.TagCodeMO}
	}
	outcome.warn(r.Logger, fmt.Sprintf("config fallback: %s not found, using configured code %s", types.TagCodeMO, lpu))
	return lpu, nil
}

func (r *AttachmentRule) collectFap(root *types.Element) types.IDSet {
	ids := types.NewIDSet()
	allowed := types.NewIDSet(r.Store.FapIDs()...)
	if len(allowed) == 0 {
		return ids
	}
	for _, rec := range types.RecordsOf(root, types.TagPerson) {
		dep, ok := rec.DependentOrg()
		if !ok || !allowed.Has(strings.TrimSpace(dep)) {
			continue
		}
		if id, ok := rec.SeqID(); ok {
			ids.Add(id)
		}
	}
	return ids
}

// transformRecord rewrites a PERS element into the REC layout.
func transformRecord(rec types.Record) {
	types.RenameTag(rec.Element, types.TagRecord)
	types.RemoveChildren(rec.Element, recordDropFields...)
	renameIfPresent(rec.Element, types.TagNPolis, types.TagENP)
	renameIfPresent(rec.Element, types.TagDateNaz, types.TagDateAttach)
	renameIfPresent(rec.Element, types.TagSpPrik, types.TagTPrik)
	types.SetChildText(rec.Element, types.TagTPrik, attachMethodCode)
	if snils := rec.Find(types.TagSnilsVr); snils != nil {
		snils.Text = NormalizeSNILS(snils.Text)
	}
}

// NormalizeSNILS removes hyphens and spaces: "123-456-789 01" -> "12345678901".
func NormalizeSNILS(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

func renameIfPresent(parent *types.Element, oldName, newName string) {
	if child := parent.Find(oldName); child != nil {
		child.Name = newName
	}
}

// excludeRecords removes REC elements whose N_ZAP is in ids and returns the
// N_ZAP values actually removed, in document order.
func excludeRecords(root *types.Element, ids types.IDSet) []string {
	if len(ids) == 0 {
		return nil
	}
	var removed []string
	root.Filter(func(el *types.Element) bool {
		if el.Name != types.TagRecord {
			return true
		}
		id, ok := types.Record{Element: el}.SeqID()
		if ok && ids.Has(id) {
			removed = append(removed, id)
			return false
		}
		return true
	})
	return removed
}

// buildSubPackage copies the header and the REC elements of root listed in ids
// into a new package with its own name and AREA_TYPE. It returns nil without
// consuming a name when no record matches.
func buildSubPackage(namer *Namer, root *types.Element, header types.Header, ids types.IDSet, org string, docType DocType) (*Output, error) {
	var records []*types.Element
	for _, rec := range types.RecordsOf(root, types.TagRecord) {
		if id, ok := rec.SeqID(); ok && ids.Has(id) {
			records = append(records, rec.Clone())
		}
	}
	if len(records) == 0 {
		return nil, nil
	}

	name, err := namer.Next(org, docType)
	if err != nil {
		return nil, err
	}

	subHeader := header.Clone()
	types.SetChildText(subHeader, types.TagFName, name)
	types.SetChildText(subHeader, types.TagAreaType, namer.AreaType(docType))

	doc := &types.Element{Name: root.Name, Attrs: append([]xml.Attr(nil), root.Attrs...)}
	doc.Append(subHeader)
	doc.Append(records...)

	return &Output{Name: name, DocType: docType, Root: doc, Records: len(records)}, nil
}
