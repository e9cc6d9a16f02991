// =============================================================================
// Registry Converter - FLK Validation Reports
// =============================================================================
//
// The regional system answers every submitted attachment package with an FLK
// (format-logical control) report:
//
//   <FLK_P>
//     <ZGLV>
//       <FILENAME>FLK_ATM390001T_2610001</FILENAME>
//       <FNAME_I>ATM390001T_2610001</FNAME_I>   <!-- validated document -->
//       <RESULT>1</RESULT>                      <!-- "0" when clean -->
//     </ZGLV>
//     <PR>
//       <N_ZAP>12</N_ZAP>
//       <OSHIB>904</OSHIB>
//       <COMMENT>Застрахованный за пределами территории обслуживания</COMMENT>
//     </PR>
//   </FLK_P>
//
// This module reads such reports and classifies their entries:
//   - out-of-town: the insured person lives outside the service area; these
//     records are moved to a dedicated package
//   - defect: any other error; these records are excluded
//
// =============================================================================

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/types"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

// Report is a parsed FLK report.
type Report struct {
	// FileName is the report's own name.
	FileName string

	// Validated is the name of the document the report refers to.
	Validated string

	// Result is the overall result code.
	Result string

	// Entries holds the error entries in document order.
	Entries []Entry
}

// Entry is a single FLK error.
type Entry struct {
	// SeqID is the N_ZAP of the offending record.
	SeqID string

	// Code is the FLK error code.
	Code string

	// Message is the human readable description used for classification.
	Message string
}

// Class is the classification of an FLK entry.
type Class int

const (
	// ClassDefect marks records that are excluded from the package.
	ClassDefect Class = iota

	// ClassOutOfTown marks records moved to an out-of-town package.
	ClassOutOfTown
)

func (c Class) String() string {
	switch c {
	case ClassOutOfTown:
		return "out-of-town"
	default:
		return "defect"
	}
}

// =============================================================================
// REPORT PARSING
// =============================================================================

// ParseReport reads a report from its root element.
func ParseReport(root *types.Element) (*Report, error) {
	header, err := types.HeaderOf(root)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	report.FileName, _ = header.ChildText(types.TagFilename)

	var ok bool
	if report.Validated, ok = header.ChildText(types.TagFNameI); !ok {
		return nil, &types.MissingFieldError{Element: types.TagHeader, Field: types.TagFNameI}
	}
	if report.Result, ok = header.ChildText(types.TagResult); !ok {
		return nil, &types.MissingFieldError{Element: types.TagHeader, Field: types.TagResult}
	}

	for i, el := range root.FindAll(types.TagFLKError) {
		id, ok := el.ChildText(types.TagNZap)
		if !ok {
			return nil, fmt.Errorf("entry %d: %w", i+1,
				&types.MissingFieldError{Element: types.TagFLKError, Field: types.TagNZap})
		}
		code, _ := el.ChildText(types.TagErrCode)
		message, _ := el.ChildText(types.TagErrComment)

		report.Entries = append(report.Entries, Entry{
			SeqID:   strings.TrimSpace(id),
			Code:    strings.TrimSpace(code),
			Message: message,
		})
	}

	return report, nil
}

// Matches reports whether the report refers to the file at path.
// Comparison ignores case and a trailing ".xml".
func (r *Report) Matches(path string) bool {
	return strings.EqualFold(trimXMLExt(r.Validated), trimXMLExt(filepath.Base(path)))
}

// Clean reports whether the result code means "no errors".
func (r *Report) Clean(noErrorsResult string) bool {
	return strings.TrimSpace(r.Result) == noErrorsResult
}

func trimXMLExt(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(name), ".xml") {
		return name[:len(name)-len(".xml")]
	}
	return name
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classifier sorts FLK entries by message content.
type Classifier struct {
	markers []string
}

// NewClassifier creates a classifier that treats messages containing any of
// markers (case-insensitive) as out-of-town.
func NewClassifier(markers []string) *Classifier {
	c := &Classifier{}
	for _, m := range markers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			c.markers = append(c.markers, m)
		}
	}
	return c
}

// Classify returns the class of a single entry.
func (c *Classifier) Classify(e Entry) Class {
	message := strings.ToLower(e.Message)
	for _, marker := range c.markers {
		if strings.Contains(message, marker) {
			return ClassOutOfTown
		}
	}
	return ClassDefect
}

// Split partitions entries into out-of-town and defect entries, keeping order.
func (c *Classifier) Split(entries []Entry) (outOfTown, defects []Entry) {
	for _, e := range entries {
		if c.Classify(e) == ClassOutOfTown {
			outOfTown = append(outOfTown, e)
		} else {
			defects = append(defects, e)
		}
	}
	return outOfTown, defects
}

// IDs returns the N_ZAP values of entries as a set.
func IDs(entries []Entry) types.IDSet {
	set := types.NewIDSet()
	for _, e := range entries {
		set.Add(e.SeqID)
	}
	return set
}
