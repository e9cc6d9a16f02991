// =============================================================================
// Registry Converter - XLSX Defect Reports
// =============================================================================
//
// Operators review rejected records in a spreadsheet before resubmitting a
// corrected package. This module writes that spreadsheet next to the
// corrected ATM file and reads FAP allow-lists maintained in Excel.
//
// DEFECT REPORT LAYOUT:
//   Sheet "Defects":  N_ZAP | Class | Code | Message
//   Sheet "Summary":  key/value pairs describing the run
//
// =============================================================================

package xlsxreport

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	defectsSheet = "Defects"
	summarySheet = "Summary"
)

// Row is one excluded record.
type Row struct {
	SeqID   string
	Class   string
	Code    string
	Message string
}

// Summary describes the run that produced the report.
type Summary struct {
	RunID       string
	SourceFile  string
	ReportFile  string
	OutputFile  string
	GeneratedAt time.Time
}

// WriteDefectReport writes rows and the run summary to path.
func WriteDefectReport(path string, rows []Row, summary Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), defectsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"N_ZAP", "Class", "Code", "Message"}
	if err := f.SetSheetRow(defectsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.SeqID, row.Class, row.Code, row.Message}
		if err := f.SetSheetRow(defectsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(defectsSheet, "D", "D", 80); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	pairs := [][]interface{}{
		{"Run ID", summary.RunID},
		{"Source file", summary.SourceFile},
		{"FLK report", summary.ReportFile},
		{"Output file", summary.OutputFile},
		{"Generated at", summary.GeneratedAt.Format(time.RFC3339)},
		{"Excluded records", len(rows)},
	}
	for i := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &pairs[i]); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save defect report: %w", err)
	}

	return nil
}
