// Package scandir provides the conventional directory and file names prdscan looks for.
package scandir

import (
	"path/filepath"
	"strings"
)

const (
	// PRDDir is the hidden directory holding product requirement documents.
	PRDDir = ".prd"

	// TaskMasterDir is the hidden directory used by task-master style tooling.
	TaskMasterDir = ".taskmaster"

	// PRDFile is the exact name of a structured JSON task list.
	PRDFile = "prd.json"

	// MarkdownExt is the extension of checklist-bearing Markdown files.
	MarkdownExt = ".md"

	// ConfigFile is the preferred project config file name.
	ConfigFile = "prdscan.toml"

	// HiddenConfigFile is the alternate project config file name.
	HiddenConfigFile = ".prdscan.toml"

	// UserDir is the per-user state directory name (inside $HOME).
	UserDir = ".prdscan"
)

// DefaultSearchDirs returns the directories scanned under the root, in scan order.
func DefaultSearchDirs() []string {
	return []string{PRDDir, TaskMasterDir}
}

// FileKind classifies a file by name.
type FileKind int

const (
	KindIgnored FileKind = iota
	KindPRD
	KindMarkdown
)

// Classify returns the kind of the file with the given base name.
func Classify(name string) FileKind {
	switch {
	case name == PRDFile:
		return KindPRD
	case strings.HasSuffix(name, MarkdownExt):
		return KindMarkdown
	default:
		return KindIgnored
	}
}

// ProjectConfigPaths returns candidate project config paths within root, in lookup order.
func ProjectConfigPaths(root string) []string {
	return []string{
		joinPath(root, ConfigFile),
		joinPath(root, HiddenConfigFile),
	}
}

func joinPath(root, file string) string {
	if root == "." || root == "" {
		return file
	}
	return filepath.Join(root, file)
}
