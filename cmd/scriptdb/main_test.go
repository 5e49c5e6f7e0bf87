package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptdb/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	content := strings.Join([]string{
		"[paths]",
		`db_path = "` + filepath.Join(base, "dialogue.db") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		"",
		"[logging]",
		`format = "json"`,
	}, "\n")

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init --overwrite failed: %v", err)
	}
}

func TestIngestFileCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)

	csvPath := filepath.Join(t.TempDir(), "ep01.csv")
	testsupport.WriteCSV(t, csvPath, [][]string{
		{"キャラクター", "セリフ内容"},
		{"サンサン", "こんにちは！"},
		{"FALSE", "カメラを引く"},
	})

	output, err := runCommand(t, "--config", cfgPath, "ingest-file", csvPath, "--key", "ep01")
	if err != nil {
		t.Fatalf("ingest-file failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Stored 2 record(s) for ep01") {
		t.Fatalf("unexpected output: %s", output)
	}
	if !strings.Contains(output, "1 dialogue, 1 instructions") {
		t.Fatalf("unexpected breakdown: %s", output)
	}

	report, err := runCommand(t, "--config", cfgPath, "report")
	if err != nil {
		t.Fatalf("report failed: %v\n%s", err, report)
	}
	if !strings.Contains(report, "Records: 2 (1 dialogue, 1 instructions)") {
		t.Fatalf("unexpected report: %s", report)
	}
	if !strings.Contains(report, "サンサン") {
		t.Fatalf("sample rows missing: %s", report)
	}
}

func TestIngestFileRequiresKey(t *testing.T) {
	cfgPath := writeTestConfig(t)

	csvPath := filepath.Join(t.TempDir(), "ep01.csv")
	testsupport.WriteCSV(t, csvPath, [][]string{{"キャラ", "セリフ"}})

	if _, err := runCommand(t, "--config", cfgPath, "ingest-file", csvPath); err == nil {
		t.Fatal("ingest-file without --key should fail")
	}
}

func TestSourcesImportAndList(t *testing.T) {
	cfgPath := writeTestConfig(t)

	catalog := filepath.Join(t.TempDir(), "catalog.csv")
	testsupport.WriteCSV(t, catalog, [][]string{
		{"key", "title", "url"},
		{"ep01", "第1話", "https://docs.google.com/spreadsheets/d/a/edit"},
		{"ep02", "第2話", "https://docs.google.com/spreadsheets/d/b/edit"},
	})

	output, err := runCommand(t, "--config", cfgPath, "sources", "import", catalog)
	if err != nil {
		t.Fatalf("sources import failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Imported 2 script(s)") {
		t.Fatalf("unexpected output: %s", output)
	}

	listing, err := runCommand(t, "--config", cfgPath, "sources", "list")
	if err != nil {
		t.Fatalf("sources list failed: %v\n%s", err, listing)
	}
	for _, want := range []string{"ep01", "第1話", "ep02"} {
		if !strings.Contains(listing, want) {
			t.Fatalf("listing missing %q: %s", want, listing)
		}
	}
}

func TestReclassifyCommandOnEmptyDatabase(t *testing.T) {
	cfgPath := writeTestConfig(t)

	output, err := runCommand(t, "--config", cfgPath, "reclassify")
	if err != nil {
		t.Fatalf("reclassify failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Reclassified 0 record(s)") {
		t.Fatalf("unexpected output: %s", output)
	}
}
