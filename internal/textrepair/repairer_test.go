package textrepair_test

import (
	"testing"

	"scriptdb/internal/textrepair"
)

func TestRepairEveryTableEntry(t *testing.T) {
	r := textrepair.New()
	for _, pair := range r.Table() {
		if got := r.Repair(pair.Corrupted); got != pair.Repaired {
			t.Errorf("Repair(%q) = %q, want %q", pair.Corrupted, got, pair.Repaired)
		}
		// Already-correct text must be a fixed point.
		if got := r.Repair(pair.Repaired); got != pair.Repaired {
			t.Errorf("Repair(%q) = %q, want unchanged", pair.Repaired, got)
		}
	}
}

func TestRepairSubstring(t *testing.T) {
	r := textrepair.New()
	if got := r.Repair("ãµã³ãµã³（ゲスト）"); got != "サンサン（ゲスト）" {
		t.Fatalf("substring repair failed: %q", got)
	}
}

func TestRepairLongestPatternFirst(t *testing.T) {
	r := textrepair.New()
	// "ãã¼ã ãããã" embeds "ãããã"; the longer pattern must win.
	if got := r.Repair("ãã¼ã ãããã"); got != "チームくもりん" {
		t.Fatalf("expected チームくもりん, got %q", got)
	}
}

func TestRepairUnknownInputUnchanged(t *testing.T) {
	r := textrepair.New()
	for _, name := range []string{"サンサン", "BB", "", "ナレーション"} {
		if got := r.Repair(name); got != name {
			t.Errorf("Repair(%q) = %q, want unchanged", name, got)
		}
	}
}

func TestLooksCorrupted(t *testing.T) {
	if !textrepair.LooksCorrupted("ã¿ã¼å­") {
		t.Fatal("expected corrupted name to be flagged")
	}
	if textrepair.LooksCorrupted("ハンター子") {
		t.Fatal("expected clean name to pass")
	}
}
