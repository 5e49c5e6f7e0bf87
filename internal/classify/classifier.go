package classify

// Verdict is one rule's opinion about a record.
type Verdict int

const (
	// NoOpinion defers to the next rule in the chain.
	NoOpinion Verdict = iota
	// Dialogue marks the record as a spoken line.
	Dialogue
	// Instruction marks the record as production metadata.
	Instruction
)

// DefaultShortLineLimit is the rune length at or below which a keyword-free
// line counts as dialogue-shaped. Empirically tuned; kept configurable
// because very short instructions do exist.
const DefaultShortLineLimit = 10

// Options tunes classifier heuristics.
type Options struct {
	// ShortLineLimit overrides DefaultShortLineLimit when positive.
	ShortLineLimit int
}

// Classifier labels records as instruction or dialogue by running an ordered
// rule chain; the first decisive verdict wins. Classification is a pure
// function of its inputs, so re-running it never drifts.
type Classifier struct {
	rules []Rule
}

// New builds the production rule chain. The order is load-bearing: the
// allow-list outranks the keyword scan, and the keyword scan carries its own
// dialogue-shape override before the denylist gets a say.
func New(opts Options) *Classifier {
	limit := opts.ShortLineLimit
	if limit <= 0 {
		limit = DefaultShortLineLimit
	}
	return &Classifier{
		rules: []Rule{
			NewAllowListRule(),
			NewKeywordRule(limit),
			NewDenylistRule(),
			DefaultRule{},
		},
	}
}

// Classify reports whether the record is a production instruction.
func (c *Classifier) Classify(character, dialogue string) bool {
	for _, rule := range c.rules {
		switch rule.Apply(character, dialogue) {
		case Instruction:
			return true
		case Dialogue:
			return false
		}
	}
	return false
}

// Rules exposes the chain in evaluation order for diagnostics and tests.
func (c *Classifier) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Explain returns the name of the rule that decided the record, along with
// the resulting verdict. Useful when auditing reclassification sweeps.
func (c *Classifier) Explain(character, dialogue string) (string, Verdict) {
	for _, rule := range c.rules {
		if verdict := rule.Apply(character, dialogue); verdict != NoOpinion {
			return rule.Name(), verdict
		}
	}
	return "", Dialogue
}
