package xlsxreport

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestWriteDefectReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defects.xlsx")
	rows := []Row{
		{SeqID: "3", Class: "out-of-town", Code: "904", Message: "за пределами"},
		{SeqID: "5", Class: "defect", Code: "101", Message: "Неверный СНИЛС"},
	}
	summary := Summary{
		RunID:       "run-1",
		SourceFile:  "ATM390001T_2610001.xml",
		GeneratedAt: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}

	if err := WriteDefectReport(path, rows, summary); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetRows(defectsSheet)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"N_ZAP", "Class", "Code", "Message"},
		{"3", "out-of-town", "904", "за пределами"},
		{"5", "defect", "101", "Неверный СНИЛС"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected rows:\n%v\nwant:\n%v", got, want)
	}

	runID, err := f.GetCellValue(summarySheet, "B1")
	if err != nil || runID != "run-1" {
		t.Errorf("expected run id in summary, got %q (%v)", runID, err)
	}
	count, _ := f.GetCellValue(summarySheet, "B6")
	if count != "2" {
		t.Errorf("expected excluded count 2, got %q", count)
	}
}

func TestReadFapIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fap.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	values := [][]interface{}{{"MD_DEP_ID", "Name"}, {"1001", "ФАП Лесной"}, {""}, {"1002"}, {"1001"}}
	for i := range values {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &values[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ids, err := ReadFapIDs(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"1001", "1002"}) {
		t.Errorf("unexpected ids %v", ids)
	}
}
