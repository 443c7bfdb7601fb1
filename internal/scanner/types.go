// Package scanner finds pending work items in PRD JSON files and Markdown checklists.
package scanner

// TaskType identifies which extractor produced a PendingTask.
type TaskType string

const (
	TypeJSON     TaskType = "json"
	TypeMarkdown TaskType = "markdown"
)

// UnknownPriority is reported when a task carries no priority of its own.
const UnknownPriority = "unknown"

// maxFallbackContent bounds the stringified task used as content, in runes.
const maxFallbackContent = 100

// PendingTask is a single unfinished work item found during a scan.
type PendingTask struct {
	Source   string   `json:"source" yaml:"source"`
	Type     TaskType `json:"type" yaml:"type"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Content  string   `json:"content" yaml:"content"`
	Priority string   `json:"priority" yaml:"priority"`
}

// DefaultTerminalStatuses returns the statuses that mark a JSON task as no longer pending.
func DefaultTerminalStatuses() []string {
	return []string{"done", "completed", "verified", "fixed", "closed"}
}
