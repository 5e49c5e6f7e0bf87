package config

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			DBPath: "~/.local/share/scriptdb/dialogue.db",
			LogDir: "~/.local/share/scriptdb/logs",
		},
		Fetch: Fetch{
			TimeoutSeconds:         15,
			RetryAttempts:          3,
			PolitenessDelaySeconds: 2,
			UserAgent:              "scriptdb/1.0",
		},
		Extract: Extract{
			HeaderScanRows:        25,
			MaxCharacterNameRunes: 100,
		},
		Classify: Classify{
			ShortLineLimit: 10,
		},
		Ingest: Ingest{
			Workers: 1,
		},
		Logging: Logging{
			Format: "auto",
			Level:  "info",
		},
	}
}
