// Package normalize turns a raw sheet grid into store-ready dialogue records.
// It chains layout detection, row extraction, character-name repair, and
// instruction classification into a single pass.
package normalize

import (
	"scriptdb/internal/classify"
	"scriptdb/internal/config"
	"scriptdb/internal/extract"
	"scriptdb/internal/grid"
	"scriptdb/internal/layout"
	"scriptdb/internal/store"
	"scriptdb/internal/textrepair"
)

// Report tallies the classification outcome of one normalization pass.
type Report struct {
	Dialogue    int
	Instruction int
}

// Total returns the number of records produced.
func (r Report) Total() int {
	return r.Dialogue + r.Instruction
}

// Result is the output of normalizing one grid.
type Result struct {
	// LayoutFound reports whether a header row was located. When false the
	// remaining fields are zero and the grid yielded nothing.
	LayoutFound bool
	Location    layout.Location
	Records     []store.Record
	Report      Report
}

// Normalizer converts grids into records using a fixed set of collaborators.
// It is safe for concurrent use.
type Normalizer struct {
	detector   *layout.Detector
	extractor  *extract.Extractor
	repairer   *textrepair.Repairer
	classifier *classify.Classifier
}

// New assembles a normalizer from explicit collaborators.
func New(detector *layout.Detector, extractor *extract.Extractor, repairer *textrepair.Repairer, classifier *classify.Classifier) *Normalizer {
	return &Normalizer{
		detector:   detector,
		extractor:  extractor,
		repairer:   repairer,
		classifier: classifier,
	}
}

// FromConfig assembles a normalizer with thresholds taken from cfg.
func FromConfig(cfg *config.Config) *Normalizer {
	return New(
		layout.NewDetector(cfg.Extract.HeaderScanRows),
		extract.NewExtractor(cfg.Extract.MaxCharacterNameRunes),
		textrepair.New(),
		classify.New(classify.Options{ShortLineLimit: cfg.Classify.ShortLineLimit}),
	)
}

// Normalize runs the full pipeline over one grid. Rows keep their source
// indices so repeated runs over the same grid replace rather than duplicate.
func (n *Normalizer) Normalize(g grid.Grid) Result {
	loc, ok := n.detector.Detect(g)
	if !ok {
		return Result{}
	}

	result := Result{LayoutFound: true, Location: loc}
	for row := range n.extractor.Rows(g, loc) {
		character := n.repairer.Repair(row.Character)
		instruction := n.classifier.Classify(character, row.Dialogue)
		if instruction {
			result.Report.Instruction++
		} else {
			result.Report.Dialogue++
		}
		result.Records = append(result.Records, store.Record{
			RowIndex:    row.Index,
			Character:   character,
			Dialogue:    row.Dialogue,
			Instruction: instruction,
		})
	}
	return result
}
