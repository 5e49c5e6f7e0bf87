package extract

import (
	"iter"
	"unicode/utf8"

	"scriptdb/internal/grid"
	"scriptdb/internal/layout"
)

// DefaultMaxNameRunes bounds the character-name field. Names beyond this are
// almost always a prose column selected by mistake, not a speaker.
const DefaultMaxNameRunes = 100

// Row is one raw extraction result: the 0-based grid row plus the trimmed
// character and dialogue cells. Both fields are non-empty by construction.
type Row struct {
	Index     int
	Character string
	Dialogue  string
}

// Extractor walks grid rows below a detected header and emits candidate
// dialogue rows.
type Extractor struct {
	maxNameRunes int
}

// NewExtractor builds an extractor. Non-positive bounds select
// DefaultMaxNameRunes.
func NewExtractor(maxNameRunes int) *Extractor {
	if maxNameRunes <= 0 {
		maxNameRunes = DefaultMaxNameRunes
	}
	return &Extractor{maxNameRunes: maxNameRunes}
}

// Rows returns a restartable sequence over rows strictly after the header.
// Missing cells read as blank, rows with a blank character or dialogue cell
// are skipped entirely, and over-long character names are dropped. Row order
// is preserved.
func (e *Extractor) Rows(g grid.Grid, loc layout.Location) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for row := loc.HeaderRow + 1; row < g.Rows(); row++ {
			character := g.Cell(row, loc.CharacterCol).Trimmed()
			dialogue := g.Cell(row, loc.DialogueCol).Trimmed()
			if character == "" || dialogue == "" {
				continue
			}
			if utf8.RuneCountInString(character) > e.maxNameRunes {
				continue
			}
			if !yield(Row{Index: row, Character: character, Dialogue: dialogue}) {
				return
			}
		}
	}
}

// Collect materializes Rows into a slice.
func (e *Extractor) Collect(g grid.Grid, loc layout.Location) []Row {
	var rows []Row
	for row := range e.Rows(g, loc) {
		rows = append(rows, row)
	}
	return rows
}
