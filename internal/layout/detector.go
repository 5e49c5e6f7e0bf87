package layout

import (
	"strings"

	"golang.org/x/text/width"

	"scriptdb/internal/grid"
)

// DefaultScanRows bounds how deep the detector looks for a header row.
// Production scripts put the header within the first couple dozen rows; the
// cap keeps pathological sheets from being scanned in full.
const DefaultScanRows = 25

// Location anchors the column meaning for every row below the header.
type Location struct {
	HeaderRow    int
	CharacterCol int
	DialogueCol  int
}

// Header labels observed across script exports. Matching is contains-based
// because sheets decorate labels ("キャラクター名", "セリフ内容").
var (
	characterLabels = []string{"キャラクター", "キャラ", "character"}
	dialogueLabels  = []string{"セリフ内容", "セリフ", "せりふ", "dialogue"}
)

// Detector locates the header row and the character/dialogue column pair
// inside an unpredictable sheet layout.
type Detector struct {
	scanRows int
}

// NewDetector builds a detector scanning at most scanRows rows.
// Non-positive values select DefaultScanRows.
func NewDetector(scanRows int) *Detector {
	if scanRows <= 0 {
		scanRows = DefaultScanRows
	}
	return &Detector{scanRows: scanRows}
}

// Detect scans the grid for a character-column label and infers the dialogue
// column. It returns false when no row in the scan window anchors a header;
// it never guesses a column without the character label and never fails on
// malformed input.
func (d *Detector) Detect(g grid.Grid) (Location, bool) {
	limit := min(g.Rows(), d.scanRows)
	for row := 0; row < limit; row++ {
		for col := range g[row] {
			cell := g.Cell(row, col)
			if cell.Blank() || !matchesAny(cell.Text, characterLabels) {
				continue
			}
			return Location{
				HeaderRow:    row,
				CharacterCol: col,
				DialogueCol:  d.dialogueColumn(g, row, col),
			}, true
		}
	}
	return Location{}, false
}

// dialogueColumn prefers the column adjacent to the character column because
// that is the dominant layout; a labelled column elsewhere in the header row
// wins only when the adjacent cell holds some other label.
func (d *Detector) dialogueColumn(g grid.Grid, row, characterCol int) int {
	adjacent := characterCol + 1
	next := g.Cell(row, adjacent)
	if next.Blank() || matchesAny(next.Text, dialogueLabels) {
		return adjacent
	}
	for col := range g[row] {
		if col == characterCol {
			continue
		}
		if cell := g.Cell(row, col); !cell.Blank() && matchesAny(cell.Text, dialogueLabels) {
			return col
		}
	}
	return adjacent
}

func matchesAny(text string, labels []string) bool {
	normalized := normalizeLabel(text)
	for _, label := range labels {
		if strings.Contains(normalized, normalizeLabel(label)) {
			return true
		}
	}
	return false
}

// normalizeLabel folds full-width compatibility forms so labels typed as
// "ｷｬﾗｸﾀｰ" or "ＣＨＡＲＡＣＴＥＲ" still match.
func normalizeLabel(text string) string {
	return strings.ToLower(strings.TrimSpace(width.Fold.String(text)))
}
