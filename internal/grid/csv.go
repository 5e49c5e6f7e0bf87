package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// FromCSV decodes CSV bytes into a grid. Rows are allowed to have different
// widths and quoting errors are tolerated because sheet exports are not
// strict RFC 4180.
func FromCSV(r io.Reader) (Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var g Grid
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		cells := make([]Cell, 0, len(record))
		for _, field := range record {
			cells = append(cells, NewCell(field))
		}
		g = append(g, cells)
	}
	return g, nil
}

// FromCSVFile decodes a CSV file on disk into a grid.
func FromCSVFile(path string) (Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()
	return FromCSV(file)
}
