package grid

import "strings"

// Cell is one value in a tabular export. Present distinguishes a cell that
// exists (possibly holding an empty string) from one that is absent because
// the row is shorter than the column index.
type Cell struct {
	Text    string
	Present bool
}

// NewCell returns a present cell holding text.
func NewCell(text string) Cell {
	return Cell{Text: text, Present: true}
}

// Blank reports whether the cell is absent or holds only whitespace.
func (c Cell) Blank() bool {
	return !c.Present || strings.TrimSpace(c.Text) == ""
}

// Trimmed returns the cell text with surrounding whitespace removed.
// Absent cells yield the empty string.
func (c Cell) Trimmed() string {
	if !c.Present {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// Grid is an ordered sequence of rows. Rows may have different lengths;
// rectangular shape is never assumed.
type Grid [][]Cell

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}

// Cell returns the cell at (row, col). Out-of-range coordinates return an
// absent cell rather than panicking so callers can treat ragged rows as
// padded with blanks.
func (g Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g) {
		return Cell{}
	}
	cells := g[row]
	if col < 0 || col >= len(cells) {
		return Cell{}
	}
	return cells[col]
}

// FromStrings builds a grid from string rows. Every value becomes a present
// cell; it exists mainly for tests and for adapters whose source format has
// no notion of missing cells.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, 0, len(row))
		for _, value := range row {
			cells = append(cells, NewCell(value))
		}
		g = append(g, cells)
	}
	return g
}
