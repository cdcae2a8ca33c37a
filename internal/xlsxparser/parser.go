// =============================================================================
// OpenGD77 CSV Converter - XLSX Parser
// =============================================================================
//
// Some users open the vendor export in a spreadsheet program and save it as a
// workbook before converting. This module reads one worksheet of such a
// workbook into the same table shape the CSV parser produces, so detection
// and mapping do not care which kind of file they were given.
//
// SHEET LAYOUT:
//   Row 1        column headers, exactly as in the CSV export
//   Row 2..n     data rows; fully empty rows are skipped
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/opengd77-converter/internal/csvparser"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// EncodingName is recorded as the table encoding for workbook inputs.
const EncodingName = "xlsx"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a worksheet and returns it as a table.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - The parsed table with Encoding set to "xlsx".
//   - An error wrapping types.ErrIO if the file or sheet cannot be read.
func Parse(path, sheet string) (*csvparser.CSVData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", types.ErrIO, err)
	}
	defer f.Close()

	data, err := ParseFile(f, sheet)
	if err != nil {
		return nil, err
	}
	data.SourceFile = path
	return data, nil
}

// ParseFile reads a worksheet from an already opened workbook.
func ParseFile(f *excelize.File, sheet string) (*csvparser.CSVData, error) {
	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	// Cached cell values are used; formulas are not recalculated.
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows of sheet %q: %w", types.ErrIO, sheetName, err)
	}

	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("%w: sheet %q has no header row", types.ErrIO, sheetName)
	}

	data := csvparser.New(rows[0], rows[1:])
	data.Encoding = EncodingName
	return data, nil
}

// resolveSheet returns the sheet to read.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("%w: workbook has no sheets", types.ErrIO)
		}
		return name, nil
	}

	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, sheet) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: workbook has no sheet %q (available: %s)",
		types.ErrIO, sheet, strings.Join(f.GetSheetList(), ", "))
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
