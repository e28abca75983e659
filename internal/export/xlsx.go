package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nhath/silver/internal/api"
)

const sheetName = "Results"

// IsXLSX reports whether filename asks for a workbook instead of CSV
func IsXLSX(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// XLSX writes columns and rows to a single-sheet workbook at path.
// The header row is bold and NULL cells are left empty.
func XLSX(columns []string, rows [][]any, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if len(columns) > 0 {
		if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		values := make([]any, len(row))
		for i, cell := range row {
			s, isNull := api.FormatValue(cell)
			if isNull {
				values[i] = nil
				continue
			}
			values[i] = s
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, start, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
