package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations for the dialogue database and logs.
type Paths struct {
	DBPath string `toml:"db_path"`
	LogDir string `toml:"log_dir"`
}

// Fetch contains settings for retrieving sheet exports.
type Fetch struct {
	TimeoutSeconds         int    `toml:"timeout_seconds"`
	RetryAttempts          int    `toml:"retry_attempts"`
	PolitenessDelaySeconds int    `toml:"politeness_delay_seconds"`
	UserAgent              string `toml:"user_agent"`
}

// Extract contains heuristic bounds for layout detection and row extraction.
type Extract struct {
	HeaderScanRows        int `toml:"header_scan_rows"`
	MaxCharacterNameRunes int `toml:"max_character_name_runes"`
}

// Classify contains classifier tuning.
type Classify struct {
	// ShortLineLimit is the rune length at or below which a keyword-free
	// line counts as dialogue-shaped. Empirically tuned, not proven optimal.
	ShortLineLimit int `toml:"short_line_limit"`
}

// Ingest contains batch-run settings.
type Ingest struct {
	Workers int `toml:"workers"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scriptdb.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Fetch    Fetch    `toml:"fetch"`
	Extract  Extract  `toml:"extract"`
	Classify Classify `toml:"classify"`
	Ingest   Ingest   `toml:"ingest"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/scriptdb/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scriptdb.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	dbPath, err := ExpandPath(c.Paths.DBPath)
	if err != nil {
		return err
	}
	c.Paths.DBPath = dbPath

	logDir, err := ExpandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	return nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Paths.DBPath) == "" {
		problems = append(problems, "paths.db_path must be set")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		problems = append(problems, "fetch.timeout_seconds must be positive")
	}
	if c.Fetch.RetryAttempts <= 0 {
		problems = append(problems, "fetch.retry_attempts must be positive")
	}
	if c.Fetch.PolitenessDelaySeconds < 0 {
		problems = append(problems, "fetch.politeness_delay_seconds must not be negative")
	}
	if c.Extract.HeaderScanRows <= 0 {
		problems = append(problems, "extract.header_scan_rows must be positive")
	}
	if c.Extract.MaxCharacterNameRunes <= 0 {
		problems = append(problems, "extract.max_character_name_runes must be positive")
	}
	if c.Classify.ShortLineLimit <= 0 {
		problems = append(problems, "classify.short_line_limit must be positive")
	}
	if c.Ingest.Workers <= 0 {
		problems = append(problems, "ingest.workers must be positive")
	}
	switch c.Logging.Format {
	case "", "auto", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of auto, console, json", c.Logging.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.DBPath)}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves tilde shortcuts and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
