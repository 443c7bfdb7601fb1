package config

// Example returns an example configuration showing all available options.
func Example() string {
	return `# prdscan configuration file
# Values can be overridden by PRDSCAN_* environment variables or CLI flags

# Directory to scan (default: current directory; supports ~ expansion)
# root = "~/src/project"

# Directories below the root that are searched, in order
search_dirs = [".prd", ".taskmaster"]

# JSON task statuses that count as finished (case-insensitive)
terminal_statuses = ["done", "completed", "verified", "fixed", "closed"]

# Try to repair malformed prd.json files before reporting them
lenient_json = false

# Report format: json or yaml
format = "json"

# Logging (written to stderr)
log_level = "warn"    # debug, info, warn, error
log_format = "text"   # text, json, logfmt
log_timestamps = false
`
}
