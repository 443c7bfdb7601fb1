package config

import "os"

// loadFromEnv overrides config from PRDSCAN_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PRDSCAN_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("PRDSCAN_SEARCH_DIRS"); v != "" {
		cfg.SearchDirs = splitAndTrim(v, ",")
	}
	if v := os.Getenv("PRDSCAN_TERMINAL_STATUSES"); v != "" {
		cfg.TerminalStatuses = splitAndTrim(v, ",")
	}
	if v := os.Getenv("PRDSCAN_LENIENT_JSON"); v != "" {
		cfg.LenientJSON = boolFromString(v)
	}
	if v := os.Getenv("PRDSCAN_FORMAT"); v != "" {
		cfg.Format = v
	}

	// Logging
	if v := os.Getenv("PRDSCAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PRDSCAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("PRDSCAN_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}
