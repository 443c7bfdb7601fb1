package config

import (
	"github.com/nibzard/prdscan/internal/report"
	"github.com/nibzard/prdscan/internal/scandir"
	"github.com/nibzard/prdscan/internal/scanner"
)

// Report formats.
const (
	FormatJSON = string(report.FormatJSON)
	FormatYAML = string(report.FormatYAML)
)

// Default values.
const (
	DefaultFormat    = FormatJSON
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for prdscan.
type Config struct {
	// Root is the directory the search dirs are resolved against.
	// Empty means the current working directory.
	Root string `toml:"root"`

	// Scanning
	SearchDirs       []string `toml:"search_dirs"`
	TerminalStatuses []string `toml:"terminal_statuses"`
	LenientJSON      bool     `toml:"lenient_json"`

	// Output
	Format string `toml:"format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// ConfigFiles lists the files that were loaded, in load order.
	ConfigFiles []string `toml:"-"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.SearchDirs = scandir.DefaultSearchDirs()
	cfg.TerminalStatuses = scanner.DefaultTerminalStatuses()
	cfg.Format = DefaultFormat
	cfg.LenientJSON = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// ReportFormat returns the configured report format.
func (c *Config) ReportFormat() report.Format {
	return report.Format(c.Format)
}

// ScannerOptions returns the scanner options described by the config.
func (c *Config) ScannerOptions() []scanner.Option {
	return []scanner.Option{
		scanner.WithSearchDirs(c.SearchDirs),
		scanner.WithTerminalStatuses(c.TerminalStatuses),
		scanner.WithLenientJSON(c.LenientJSON),
	}
}
