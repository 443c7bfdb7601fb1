// Package report encodes scan results and validates saved reports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/prdscan/internal/scanner"
)

// Format is a report serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q, must be one of: json, yaml", s)
	}
}

// Encode writes tasks to w. JSON output uses 2-space indentation and a
// trailing newline. A nil slice is written as an empty list.
func Encode(w io.Writer, tasks []scanner.PendingTask, format Format) error {
	if tasks == nil {
		tasks = []scanner.PendingTask{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses a report previously written by Encode.
func Decode(data []byte, format Format) ([]scanner.PendingTask, error) {
	var tasks []scanner.PendingTask
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("parse json report: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("parse yaml report: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return tasks, nil
}
