package grid

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FromXLSX decodes one worksheet of an xlsx workbook into a grid. An empty
// sheet name selects the first worksheet. Trailing cells that excelize omits
// from short rows stay absent, which matches how ragged CSV exports behave.
func FromXLSX(path, sheetName string) (Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no worksheets", filepath.Base(path))
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}
	return FromStrings(rows), nil
}

// FromFile decodes a local tabular export, choosing the decoder from the
// file extension. The sheet argument only applies to xlsx workbooks.
func FromFile(path, sheet string) (Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FromXLSX(path, sheet)
	case ".csv":
		return FromCSVFile(path)
	default:
		return nil, fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}
