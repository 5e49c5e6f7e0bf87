package testsupport

import (
	"context"
	"testing"

	"scriptdb/internal/config"
	"scriptdb/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// MustUpsertScript registers a script for tests using the provided store.
func MustUpsertScript(t testing.TB, s *store.Store, key, title, sheetURL string) int64 {
	t.Helper()

	id, err := s.UpsertScript(context.Background(), key, title, sheetURL)
	if err != nil {
		t.Fatalf("store.UpsertScript: %v", err)
	}
	return id
}
