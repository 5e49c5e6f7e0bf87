package ingest_test

import (
	"context"
	"errors"
	"testing"

	"scriptdb/internal/grid"
	"scriptdb/internal/ingest"
	"scriptdb/internal/normalize"
	"scriptdb/internal/store"
	"scriptdb/internal/testsupport"
)

type fakeFetcher struct {
	grids map[string]grid.Grid
	err   error
}

func (f *fakeFetcher) FetchGrid(_ context.Context, sheetURL string) (grid.Grid, error) {
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.grids[sheetURL]
	if !ok {
		return nil, errors.New("no export for " + sheetURL)
	}
	return g, nil
}

func scriptGrid(rows ...[]string) grid.Grid {
	all := [][]string{{"キャラクター", "セリフ内容"}}
	all = append(all, rows...)
	return grid.FromStrings(all)
}

func newRunner(t *testing.T, s *store.Store, fetcher ingest.Fetcher, workers int) *ingest.Runner {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return ingest.NewRunner(s, fetcher, normalize.FromConfig(cfg), nil, workers)
}

func TestRunStoresAllSources(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertScript(t, s, "ep01", "第1話", "https://docs.google.com/spreadsheets/d/a/edit")
	testsupport.MustUpsertScript(t, s, "ep02", "第2話", "https://docs.google.com/spreadsheets/d/b/edit")

	fetcher := &fakeFetcher{grids: map[string]grid.Grid{
		"https://docs.google.com/spreadsheets/d/a/edit": scriptGrid(
			[]string{"サンサン", "こんにちは！"},
			[]string{"FALSE", "カメラを引く"},
		),
		"https://docs.google.com/spreadsheets/d/b/edit": scriptGrid(
			[]string{"くもりん", "やっほー！"},
		),
	}}

	tally, err := newRunner(t, s, fetcher, 2).Run(ctx, 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tally.Succeeded != 2 || tally.Failed != 0 || tally.Skipped != 0 {
		t.Fatalf("unexpected tally: %+v", tally)
	}

	records, err := s.RecordsForScript(ctx, "ep01")
	if err != nil {
		t.Fatalf("RecordsForScript failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records for ep01, got %d", len(records))
	}
	if !records[1].Instruction {
		t.Fatalf("FALSE row should be stored as instruction: %+v", records[1])
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertScript(t, s, "good", "", "https://docs.google.com/spreadsheets/d/good/edit")
	testsupport.MustUpsertScript(t, s, "broken", "", "https://docs.google.com/spreadsheets/d/broken/edit")

	fetcher := &fakeFetcher{grids: map[string]grid.Grid{
		"https://docs.google.com/spreadsheets/d/good/edit": scriptGrid([]string{"プリル", "はーい！"}),
	}}

	tally, err := newRunner(t, s, fetcher, 1).Run(ctx, 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tally.Succeeded != 1 || tally.Failed != 1 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
	if len(tally.Failures) != 1 || tally.Failures[0].ScriptKey != "broken" {
		t.Fatalf("unexpected failures: %+v", tally.Failures)
	}
	if !errors.Is(tally.Failures[0].Err, ingest.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", tally.Failures[0].Err)
	}

	records, err := s.RecordsForScript(ctx, "good")
	if err != nil {
		t.Fatalf("RecordsForScript failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("good source should still be stored, got %d records", len(records))
	}
}

func TestRunSkipsLayoutlessGridWithoutWiping(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	url := "https://docs.google.com/spreadsheets/d/x/edit"
	testsupport.MustUpsertScript(t, s, "ep01", "", url)
	if err := s.ReplaceRecords(ctx, "ep01", []store.Record{
		{RowIndex: 1, Character: "サンサン", Dialogue: "既存データ"},
	}); err != nil {
		t.Fatalf("seed records: %v", err)
	}

	fetcher := &fakeFetcher{grids: map[string]grid.Grid{
		url: grid.FromStrings([][]string{{"メモ", "何もない"}}),
	}}

	tally, err := newRunner(t, s, fetcher, 1).Run(ctx, 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tally.Skipped != 1 || tally.Failed != 0 || tally.Succeeded != 0 {
		t.Fatalf("unexpected tally: %+v", tally)
	}

	records, err := s.RecordsForScript(ctx, "ep01")
	if err != nil {
		t.Fatalf("RecordsForScript failed: %v", err)
	}
	if len(records) != 1 || records[0].Dialogue != "既存データ" {
		t.Fatalf("skip must not wipe existing records: %+v", records)
	}
}

func TestRunLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	g := scriptGrid([]string{"シーン", "よし、いくぞ"})
	grids := map[string]grid.Grid{}
	for _, key := range []string{"a", "b", "c"} {
		url := "https://docs.google.com/spreadsheets/d/" + key + "/edit"
		testsupport.MustUpsertScript(t, s, key, "", url)
		grids[url] = g
	}

	tally, err := newRunner(t, s, &fakeFetcher{grids: grids}, 1).Run(context.Background(), 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tally.Succeeded != 2 {
		t.Fatalf("limit should cap sources, got %+v", tally)
	}
}

func TestRunOne(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	url := "https://docs.google.com/spreadsheets/d/one/edit"
	testsupport.MustUpsertScript(t, s, "ep05", "第5話", url)

	fetcher := &fakeFetcher{grids: map[string]grid.Grid{
		url: scriptGrid(
			[]string{"ノイズ", "ふっふっふ"},
			[]string{"※撮影", "ここでカメラ切り替え"},
		),
	}}

	outcome, err := newRunner(t, s, fetcher, 1).RunOne(ctx, "ep05")
	if err != nil {
		t.Fatalf("RunOne failed: %v", err)
	}
	if outcome.Report.Dialogue != 1 || outcome.Report.Instruction != 1 {
		t.Fatalf("unexpected report: %+v", outcome.Report)
	}

	if _, err := newRunner(t, s, fetcher, 1).RunOne(ctx, "missing"); !errors.Is(err, ingest.ErrSourceUnavailable) {
		t.Fatalf("unknown key should be unavailable, got %v", err)
	}
}

func TestIngestGridRegistersScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	g := scriptGrid([]string{"ツクモ", "計測完了です"})
	outcome, err := newRunner(t, s, &fakeFetcher{}, 1).IngestGrid(ctx, "local01", g)
	if err != nil {
		t.Fatalf("IngestGrid failed: %v", err)
	}
	if outcome.Report.Total() != 1 {
		t.Fatalf("unexpected report: %+v", outcome.Report)
	}

	script, err := s.ScriptByKey(ctx, "local01")
	if err != nil || script == nil {
		t.Fatalf("script should be registered: %v %v", script, err)
	}
}
