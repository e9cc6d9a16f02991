// =============================================================================
// Registry Converter - ATM Correction
// =============================================================================
//
// An ATM package rejected by the registry comes back with an FLK report that
// lists the offending records. Correction removes them so the package can be
// resent:
//
//   - records insured outside the service area move to an out-of-town package
//   - every other reported record is dropped
//   - records named on the command line are dropped as well
//
// A clean report leaves the package alone.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"

	"github.com/ginjaninja78/registry-converter/internal/config"
	"github.com/ginjaninja78/registry-converter/internal/types"
	"github.com/ginjaninja78/registry-converter/internal/validation"
	"github.com/ginjaninja78/registry-converter/internal/xlsxreport"
)

// classManual marks records excluded on the command line in defect reports.
const classManual = "manual"

// CorrectionRule applies an FLK report to an ATM package.
type CorrectionRule struct {
	Store          *config.Store
	Namer          *Namer
	Classifier     *validation.Classifier
	NoErrorsResult string
	Logger         Logger
}

// Apply corrects root, read from inputPath, against report. extra holds
// additional N_ZAP values to exclude.
func (r *CorrectionRule) Apply(root *types.Element, inputPath string, report *validation.Report, extra types.IDSet) (*Outcome, error) {
	// =========================================================================
	// STEP 1: REPORT CHECKS
	// =========================================================================

	if !report.Matches(inputPath) {
		return nil, fmt.Errorf("%w: report %s validates %s, input is %s",
			types.ErrValidationMismatch, report.FileName, report.Validated, filepath.Base(inputPath))
	}
	if report.Clean(r.NoErrorsResult) {
		r.Logger.Info("FLK result %s, nothing to correct", report.Result)
		return &Outcome{Noop: true}, nil
	}

	header, err := types.HeaderOf(root)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: CLASSIFICATION
	// =========================================================================

	outOfTown, defects := r.Classifier.Split(report.Entries)
	outOfTownIDs := validation.IDs(outOfTown)
	exclusion := validation.IDs(defects)
	exclusion.Union(outOfTownIDs)
	exclusion.Union(extra)

	if len(exclusion) == 0 {
		return nil, fmt.Errorf("%w: %d entries in %s", types.ErrNoActionableErrors, len(report.Entries), report.FileName)
	}
	r.Logger.Debug("FLK entries: %d out-of-town, %d defects, %d manual", len(outOfTown), len(defects), len(extra))

	outcome := &Outcome{Defects: r.defectRows(report.Entries, extra)}
	source := r.sourceType(inputPath, header)

	org, err := r.org(header)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 3: OUT-OF-TOWN PACKAGE
	// =========================================================================

	if len(outOfTownIDs) > 0 {
		sub, err := buildSubPackage(r.Namer, root, header, outOfTownIDs, org, source.OutOfTown())
		if err != nil {
			return nil, err
		}
		if sub != nil {
			outcome.Outputs = append(outcome.Outputs, *sub)
		} else {
			outcome.warn(r.Logger, "out-of-town records from the FLK report are not in the package")
		}
	}

	// =========================================================================
	// STEP 4: PRIMARY PACKAGE
	// =========================================================================

	outcome.Excluded = excludeRecords(root, exclusion)
	if len(outcome.Excluded) == 0 {
		outcome.warn(r.Logger, "no reported record was found in the package")
	}

	name, docType := filepath.Base(inputPath), source
	if r.Store.RenameCorrected() {
		docType = DocTer
		name, err = r.Namer.Next(org, docType)
		if err != nil {
			return nil, err
		}
		types.SetChildText(header.Element, types.TagFName, name)
	}

	primary := Output{
		Name:    name,
		DocType: docType,
		Root:    root,
		Records: len(root.FindAll(types.TagRecord)),
	}
	outcome.Outputs = append([]Output{primary}, outcome.Outputs...)

	return outcome, nil
}

// sourceType reads the package type from the file name, then from AREA_TYPE.
func (r *CorrectionRule) sourceType(inputPath string, header types.Header) DocType {
	if d, ok := r.Namer.DocTypeOf(filepath.Base(inputPath)); ok {
		return d
	}
	if area, ok := header.AreaType(); ok {
		if d, ok := r.Namer.DocTypeOfArea(area); ok {
			return d
		}
	}
	r.Logger.Warn("package type of %s unknown, assuming %s", filepath.Base(inputPath), DocTer)
	return DocTer
}

func (r *CorrectionRule) org(header types.Header) (string, error) {
	if code, ok := header.OrgCode(); ok {
		return code, nil
	}
	if lpu := r.Store.LPU(); lpu != "" {
		return lpu, nil
	}
	return "", &types.MissingFieldError{Element: types.TagHeader, Field: types.TagCodeMO}
}

// defectRows lists reported entries in report order, then manual exclusions
// the report does not mention.
func (r *CorrectionRule) defectRows(entries []validation.Entry, extra types.IDSet) []xlsxreport.Row {
	rows := make([]xlsxreport.Row, 0, len(entries)+len(extra))
	reported := types.NewIDSet()
	for _, e := range entries {
		reported.Add(e.SeqID)
		rows = append(rows, xlsxreport.Row{
			SeqID:   e.SeqID,
			Class:   r.Classifier.Classify(e).String(),
			Code:    e.Code,
			Message: e.Message,
		})
	}
	for _, id := range sortedIDs(extra) {
		if !reported.Has(id) {
			rows = append(rows, xlsxreport.Row{SeqID: id, Class: classManual})
		}
	}
	return rows
}
