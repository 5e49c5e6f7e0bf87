package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// WriteCSV writes rows to path as a CSV file, creating parent directories.
func WriteCSV(t testing.TB, path string, rows [][]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
}

// ScriptRows returns a small sheet layout with a header at the given row
// offset. Callers append dialogue rows after the returned slice.
func ScriptRows(headerOffset int) [][]string {
	rows := make([][]string, 0, headerOffset+1)
	for i := 0; i < headerOffset; i++ {
		rows = append(rows, []string{"", ""})
	}
	rows = append(rows, []string{"", "キャラクター", "セリフ内容"})
	return rows
}
