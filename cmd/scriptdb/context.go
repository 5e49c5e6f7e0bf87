package main

import (
	"log/slog"
	"strings"
	"sync"

	"scriptdb/internal/config"
	"scriptdb/internal/ingest"
	"scriptdb/internal/logging"
	"scriptdb/internal/normalize"
	"scriptdb/internal/sheets"
	"scriptdb/internal/store"
)

// commandContext defers config loading until a command actually needs it so
// that `scriptdb config init` works on a machine with no config yet.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

// newRunner wires a batch runner from config. workers <= 0 keeps the
// configured worker count.
func (c *commandContext) newRunner(s *store.Store, workers int) (*ingest.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = cfg.Ingest.Workers
	}
	return ingest.NewRunner(s, sheets.FromConfig(cfg), normalize.FromConfig(cfg), logger, workers), nil
}
