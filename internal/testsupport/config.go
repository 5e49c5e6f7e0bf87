package testsupport

import (
	"path/filepath"
	"testing"

	"scriptdb/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config backed by a unique temp directory per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DBPath = filepath.Join(base, "dialogue.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithShortLineLimit overrides the classifier's short-line limit.
func WithShortLineLimit(limit int) ConfigOption {
	return func(c *config.Config) {
		c.Classify.ShortLineLimit = limit
	}
}

// WithWorkers overrides the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Ingest.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DBPath)
}
