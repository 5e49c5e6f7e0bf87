package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Rule is one ordered heuristic over a (character, dialogue) pair.
type Rule interface {
	Name() string
	Apply(character, dialogue string) Verdict
}

// Character names that only ever label production metadata. "FALSE" is the
// artifact of a checkbox column bleeding into the character column.
var instructionNames = []string{
	"FALSE",
	"[撮影指示]",
	"[話者不明]",
	"アイキャッチ",
	"CM",
	"BGM",
	"SE",
	"効果音",
	"ゲーム音声",
	"アイキャッチ　↓ここから社内編集",
	"基本的に定点で撮影しているので、セリフに応じて絵を部分的にアップする等、編集でよろしくお願いいたします",
	"以降５秒CM ※MANAMITOさんは本編までの編集をおねがいいたします！",
}

// cmCountdownRE matches "5秒CM" style cue names after width folding.
var cmCountdownRE = regexp.MustCompile(`^[0-9]+秒CM$`)

// AllowListRule flags records whose character name is a known cue marker.
// It decides on the name alone, so dialogue content can never rescue these.
type AllowListRule struct {
	names map[string]struct{}
}

// NewAllowListRule builds the rule over the fixed cue-name table.
func NewAllowListRule() *AllowListRule {
	names := make(map[string]struct{}, len(instructionNames))
	for _, name := range instructionNames {
		names[foldText(name)] = struct{}{}
	}
	return &AllowListRule{names: names}
}

func (r *AllowListRule) Name() string { return "allow-list" }

func (r *AllowListRule) Apply(character, _ string) Verdict {
	folded := foldText(character)
	if _, ok := r.names[folded]; ok {
		return Instruction
	}
	if cmCountdownRE.MatchString(folded) {
		return Instruction
	}
	// Bracketed names are stage tags, not speakers.
	if strings.HasPrefix(folded, "[") && strings.HasSuffix(folded, "]") {
		return Instruction
	}
	return NoOpinion
}

// Keywords that mark filming/audio/editing cues. Matched as substrings over
// both fields after width folding.
var instructionKeywords = []string{
	"※",
	"指示",
	"撮影",
	"音声",
	"編集",
	"アイキャッチ",
	"テロップ",
	"CM",
}

// Characters with real dialogue in the scripts. A keyword hit on one of
// these names is suspect, so their lines get a second look.
var speakingCharacters = []string{
	"サンサン", "くもりん", "プリル", "ノイズ", "ツクモ", "BB", "シーン",
}

// sentenceFinalRE approximates the shape of a spoken line: a sentence-final
// particle or copula, optionally stretched, or a closing exclamation.
var sentenceFinalRE = regexp.MustCompile(`(だよ|だね|です|だぞ|だ|ね|よ|わ|ぞ|ぜ|か)[〜～ー]*[！？!?]*$|[！？!?]+$`)

// Hard markers that veto the short-line escape hatch.
var hardMarkers = []string{"※", "指示", "撮影", "編集", "音声", "SE", "BGM", "CM"}

// KeywordRule flags records mentioning cue keywords, with a narrowing
// override: a known speaking character whose line reads like dialogue keeps
// its dialogue label even when it mentions CM or filming. The broad flag plus
// narrow un-flag mirrors how the heuristics were tuned against real scripts.
type KeywordRule struct {
	speakers       map[string]struct{}
	shortLineLimit int
}

// NewKeywordRule builds the rule with the given short-line limit in runes.
func NewKeywordRule(shortLineLimit int) *KeywordRule {
	speakers := make(map[string]struct{}, len(speakingCharacters))
	for _, name := range speakingCharacters {
		speakers[name] = struct{}{}
	}
	return &KeywordRule{speakers: speakers, shortLineLimit: shortLineLimit}
}

func (r *KeywordRule) Name() string { return "keyword" }

func (r *KeywordRule) Apply(character, dialogue string) Verdict {
	if !containsKeyword(character) && !containsKeyword(dialogue) {
		return NoOpinion
	}
	if _, speaking := r.speakers[strings.TrimSpace(character)]; speaking && r.dialogueShaped(dialogue) {
		return Dialogue
	}
	return Instruction
}

// dialogueShaped recovers false positives: lines where a character talks
// about CM or filming as show content. The ※ glyph is never spoken, so it
// disqualifies outright.
func (r *KeywordRule) dialogueShaped(dialogue string) bool {
	trimmed := strings.TrimSpace(dialogue)
	if strings.Contains(trimmed, "※") {
		return false
	}
	if sentenceFinalRE.MatchString(trimmed) {
		return true
	}
	if utf8.RuneCountInString(trimmed) <= r.shortLineLimit {
		folded := foldText(trimmed)
		for _, marker := range hardMarkers {
			if strings.Contains(folded, foldText(marker)) {
				return false
			}
		}
		return true
	}
	return false
}

// Literal strings verified by hand to be instructions even though no other
// rule catches them.
var verifiedInstructions = []string{
	"せつこちゃんの目からビームが出る",
	"基本的に定点で撮影しているので、セリフに応じて絵を部分的にアップする等、編集でよろしくお願いいたします",
	"アイキャッチ　↓ここから社内編集",
}

// DenylistRule flags exact-text matches against the verified-instruction
// list, checking both fields.
type DenylistRule struct {
	texts map[string]struct{}
}

// NewDenylistRule builds the rule over the verified-instruction literals.
func NewDenylistRule() *DenylistRule {
	texts := make(map[string]struct{}, len(verifiedInstructions))
	for _, text := range verifiedInstructions {
		texts[text] = struct{}{}
	}
	return &DenylistRule{texts: texts}
}

func (r *DenylistRule) Name() string { return "denylist" }

func (r *DenylistRule) Apply(character, dialogue string) Verdict {
	if _, ok := r.texts[strings.TrimSpace(character)]; ok {
		return Instruction
	}
	if _, ok := r.texts[strings.TrimSpace(dialogue)]; ok {
		return Instruction
	}
	return NoOpinion
}

// DefaultRule labels everything that reaches it as dialogue. The policy is
// deliberately conservative: hiding real dialogue costs more than letting an
// instruction through.
type DefaultRule struct{}

func (DefaultRule) Name() string { return "default" }

func (DefaultRule) Apply(_, _ string) Verdict { return Dialogue }

func containsKeyword(text string) bool {
	folded := foldText(text)
	for _, keyword := range instructionKeywords {
		if strings.Contains(folded, foldText(keyword)) {
			return true
		}
	}
	return false
}

// foldText normalizes width variants ("ＣＭ", half-width katakana) and ASCII
// case so table lookups survive sloppy sheet input.
func foldText(text string) string {
	return strings.ToUpper(strings.TrimSpace(width.Fold.String(text)))
}
