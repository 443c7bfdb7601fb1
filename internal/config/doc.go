// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.prdscan/prdscan.toml or OS-specific config directory)
// 3. Project config file (prdscan.toml or .prdscan.toml in the current directory)
// 4. Environment variables (PRDSCAN_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.prdscan/prdscan.toml (preferred)
// - Windows: %APPDATA%\prdscan\prdscan.toml
// - macOS: ~/Library/Application Support/prdscan/prdscan.toml
// - Linux/BSD: $XDG_CONFIG_HOME/prdscan/prdscan.toml or ~/.config/prdscan/prdscan.toml
package config
