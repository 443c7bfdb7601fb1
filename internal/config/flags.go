package config

import (
	"flag"
	"strings"
)

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("prdscan", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Root, "root", cfg.Root, "Directory to scan (default: current directory)")

	// List flags are applied only when set so file and env values survive.
	searchDirs := fs.String("search-dirs", strings.Join(cfg.SearchDirs, ","), "Comma-separated directories to scan, relative to the root")
	terminal := fs.String("terminal-statuses", strings.Join(cfg.TerminalStatuses, ","), "Comma-separated JSON statuses treated as finished")

	fs.BoolVar(&cfg.LenientJSON, "lenient-json", cfg.LenientJSON, "Attempt to repair malformed prd.json files")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Report format (json, yaml)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "search-dirs":
			cfg.SearchDirs = splitAndTrim(*searchDirs, ",")
		case "terminal-statuses":
			cfg.TerminalStatuses = splitAndTrim(*terminal, ",")
		}
	})

	return nil
}
