package grid_test

import (
	"strings"
	"testing"

	"scriptdb/internal/grid"
)

func TestCellBlank(t *testing.T) {
	cases := []struct {
		name  string
		cell  grid.Cell
		blank bool
	}{
		{"absent", grid.Cell{}, true},
		{"empty", grid.NewCell(""), true},
		{"whitespace", grid.NewCell("  \t"), true},
		{"text", grid.NewCell("サンサン"), false},
	}
	for _, tc := range cases {
		if got := tc.cell.Blank(); got != tc.blank {
			t.Errorf("%s: Blank() = %v, want %v", tc.name, got, tc.blank)
		}
	}
}

func TestGridCellOutOfRange(t *testing.T) {
	g := grid.FromStrings([][]string{{"a", "b"}, {"c"}})

	if cell := g.Cell(1, 1); cell.Present {
		t.Fatalf("expected absent cell beyond ragged row, got %#v", cell)
	}
	if cell := g.Cell(5, 0); cell.Present {
		t.Fatalf("expected absent cell beyond last row, got %#v", cell)
	}
	if cell := g.Cell(0, 1); !cell.Present || cell.Text != "b" {
		t.Fatalf("expected cell b, got %#v", cell)
	}
}

func TestFromCSVRaggedRows(t *testing.T) {
	input := "a,b,c\nd\n,,\"quoted, comma\"\n"
	g, err := grid.FromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	if g.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", g.Rows())
	}
	if len(g[1]) != 1 {
		t.Fatalf("expected ragged second row of width 1, got %d", len(g[1]))
	}
	if got := g.Cell(2, 2).Text; got != "quoted, comma" {
		t.Fatalf("unexpected quoted field: %q", got)
	}
	if cell := g.Cell(2, 0); !cell.Present || !cell.Blank() {
		t.Fatalf("expected present-but-blank cell, got %#v", cell)
	}
}

func TestFromFileRejectsUnknownExtension(t *testing.T) {
	if _, err := grid.FromFile("script.pdf", ""); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
