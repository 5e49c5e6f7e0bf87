package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSheetKey(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		key     string
		gid     string
		wantErr bool
	}{
		{
			name: "edit url with fragment gid",
			url:  "https://docs.google.com/spreadsheets/d/1AbC_d-9xYz/edit#gid=123456",
			key:  "1AbC_d-9xYz",
			gid:  "123456",
		},
		{
			name: "plain url defaults gid",
			url:  "https://docs.google.com/spreadsheets/d/1AbC_d-9xYz/edit",
			key:  "1AbC_d-9xYz",
			gid:  "0",
		},
		{
			name: "query gid",
			url:  "https://docs.google.com/spreadsheets/d/key123/view?gid=7",
			key:  "key123",
			gid:  "7",
		},
		{name: "not a sheet", url: "https://example.com/doc/42", wantErr: true},
		{name: "empty", url: "   ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, gid, err := SheetKey(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSheetURL) {
					t.Fatalf("expected ErrInvalidSheetURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SheetKey failed: %v", err)
			}
			if key != tc.key || gid != tc.gid {
				t.Fatalf("got key=%q gid=%q, want key=%q gid=%q", key, gid, tc.key, tc.gid)
			}
		})
	}
}

func TestExportURL(t *testing.T) {
	client := New(Config{BaseURL: "http://sheets.test"})
	got, err := client.ExportURL("https://docs.google.com/spreadsheets/d/abc123/edit#gid=5")
	if err != nil {
		t.Fatalf("ExportURL failed: %v", err)
	}
	want := "http://sheets.test/spreadsheets/d/abc123/export?format=csv&gid=5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFetchGridParsesCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/spreadsheets/d/abc/export") {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("gid"); got != "42" {
			t.Errorf("unexpected gid %q", got)
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("キャラクター,セリフ内容\nサンサン,こんにちは！\n"))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	g, err := client.FetchGrid(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit#gid=42")
	if err != nil {
		t.Fatalf("FetchGrid failed: %v", err)
	}
	if g.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.Rows())
	}
	if got := g.Cell(1, 0).Trimmed(); got != "サンサン" {
		t.Fatalf("unexpected cell: %q", got)
	}
}

func TestFetchGridRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("キャラ,セリフ\n"))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client(), Attempts: 3})
	_, err := client.FetchGrid(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit")
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchGridFailsFastOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client(), Attempts: 5})
	_, err := client.FetchGrid(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx should not retry, got %d attempts", calls.Load())
	}
}

func TestFetchGridPolitenessDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("キャラ,セリフ\n"))
	}))
	defer server.Close()

	client := New(Config{
		BaseURL:         server.URL,
		HTTPClient:      server.Client(),
		PolitenessDelay: 150 * time.Millisecond,
	})

	ctx := context.Background()
	if _, err := client.FetchGrid(ctx, "https://docs.google.com/spreadsheets/d/a/edit"); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	start := time.Now()
	if _, err := client.FetchGrid(ctx, "https://docs.google.com/spreadsheets/d/b/edit"); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("second fetch skipped the politeness delay: %v", elapsed)
	}
}

func TestFetchGridRejectsBadURL(t *testing.T) {
	client := New(Config{})
	_, err := client.FetchGrid(context.Background(), "https://example.com/nope")
	if !errors.Is(err, ErrInvalidSheetURL) {
		t.Fatalf("expected ErrInvalidSheetURL, got %v", err)
	}
}
