package textrepair

import (
	"sort"
	"strings"
)

// Replacement maps one observed corrupted byte sequence to the text it
// originally encoded.
type Replacement struct {
	Corrupted string
	Repaired  string
}

// corruptionTable enumerates character names that were written as UTF-8,
// re-read as Latin-1 and saved again. The table is closed: new corrupted
// names are surfaced as diagnostics, never repaired by inference.
var corruptionTable = []Replacement{
	{"ãããã", "くもりん"},
	{"ãµã³ãµã³", "サンサン"},
	{"ããªã«", "プリル"},
	{"ã·ã¼ã³", "シーン"},
	{"ãã¯ã¢", "ナクア"},
	{"ãã¤ãº", "ノイズ"},
	{"ã¿ã¼å­", "ハンター子"},
	{"èµ¤ã¡ãã", "赤ちゃん"},
	{"ç¬ã¬ã³ãã³", "犬ガンマン"},
	{"ã´ãã", "ゴリ"},
	{"ãã¼ã ãããã", "チームくもりん"},
	{"ã±ãã", "ゲット"},
	{"ã­ãå©¦äºº", "ロボ婦人"},
	{"ãã³å¤«äºº", "パン夫人"},
	{"ãã¦ã¹ãã¼ã·ã§ã³", "ナビゲーション"},
}

// Repairer corrects character names damaged by the decode/encode mismatch.
type Repairer struct {
	exact map[string]string
	pairs []Replacement
}

// New builds a repairer over the fixed corruption table. Substring passes run
// longest-corruption-first so partial sequences never shadow longer ones
// ("ãã¼ã ãããã" must win over "ãããã").
func New() *Repairer {
	pairs := make([]Replacement, len(corruptionTable))
	copy(pairs, corruptionTable)
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].Corrupted) > len(pairs[j].Corrupted)
	})

	exact := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		exact[pair.Corrupted] = pair.Repaired
	}
	return &Repairer{exact: exact, pairs: pairs}
}

// Repair returns the corrected form of name. Exact table hits map directly;
// otherwise every corrupted pattern present as a substring is replaced.
// Unrecognized input comes back unchanged, so repaired text is a fixed point.
func (r *Repairer) Repair(name string) string {
	if repaired, ok := r.exact[name]; ok {
		return repaired
	}
	result := name
	for _, pair := range r.pairs {
		if strings.Contains(result, pair.Corrupted) {
			result = strings.ReplaceAll(result, pair.Corrupted, pair.Repaired)
		}
	}
	return result
}

// Table returns the replacement pairs in application order. The store uses it
// to run exact renames against already-persisted rows.
func (r *Repairer) Table() []Replacement {
	pairs := make([]Replacement, len(r.pairs))
	copy(pairs, r.pairs)
	return pairs
}

// LooksCorrupted reports whether a name still carries the Latin-1 artifacts
// the corruption produces. Used to flag residues the closed table cannot fix.
func LooksCorrupted(name string) bool {
	return strings.ContainsAny(name, "ãï")
}
