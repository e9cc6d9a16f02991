package xlsxreport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadFapIDs reads MD_DEP_ID values from the first column of the first sheet.
// A first row whose cell is not numeric is treated as a header. Blank cells
// and duplicates are skipped; order of first appearance is kept.
func ReadFapIDs(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FAP list: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("FAP list has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var ids []string
	seen := make(map[string]bool)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		value := strings.TrimSpace(row[0])
		if value == "" {
			continue
		}
		if i == 0 && !isDigits(value) {
			continue
		}
		if !seen[value] {
			seen[value] = true
			ids = append(ids, value)
		}
	}

	return ids, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
