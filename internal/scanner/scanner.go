package scanner

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nibzard/prdscan/internal/scandir"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithSearchDirs sets the directories, relative to the root, that are walked.
func WithSearchDirs(dirs []string) Option {
	return func(s *Scanner) {
		s.searchDirs = append([]string(nil), dirs...)
	}
}

// WithTerminalStatuses sets the JSON statuses that mark a task as finished.
// Statuses are compared case-insensitively.
func WithTerminalStatuses(statuses []string) Option {
	return func(s *Scanner) {
		s.terminal = statusSet(statuses)
	}
}

// WithDiagnostics sets the sink for per-file problems.
func WithDiagnostics(d Diagnostics) Option {
	return func(s *Scanner) {
		if d != nil {
			s.diags = d
		}
	}
}

// WithLogger sets the logger used for traversal tracing.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLenientJSON enables a single repair attempt for malformed prd.json files.
func WithLenientJSON(enabled bool) Option {
	return func(s *Scanner) {
		s.lenient = enabled
	}
}

// Scanner walks the conventional task directories below a root and collects
// pending tasks. A Scanner holds no state between scans and may be reused.
type Scanner struct {
	fs         afero.Fs
	searchDirs []string
	terminal   map[string]struct{}
	diags      Diagnostics
	logger     *log.Logger
	lenient    bool
}

// New creates a Scanner reading from fsys.
func New(fsys afero.Fs, opts ...Option) *Scanner {
	s := &Scanner{
		fs:         fsys,
		searchDirs: scandir.DefaultSearchDirs(),
		terminal:   statusSet(DefaultTerminalStatuses()),
		diags:      Discard,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan reads the host filesystem below root with the given options.
func Scan(root string, opts ...Option) []PendingTask {
	return New(afero.NewOsFs(), opts...).Scan(root)
}

// Scan walks every search directory below root and returns the pending
// tasks in traversal order, then in-file order. It never fails: per-file
// problems go to the diagnostics sink and the file contributes nothing.
// The result is never nil.
func (s *Scanner) Scan(root string) []PendingTask {
	tasks := make([]PendingTask, 0)
	for _, dir := range s.searchDirs {
		path := filepath.Join(root, dir)
		info, err := s.fs.Stat(path)
		if err != nil || !info.IsDir() {
			s.logger.Debug("Skipping search directory", "dir", dir)
			continue
		}
		s.logger.Debug("Scanning", "dir", dir)
		tasks = s.walk(root, path, tasks)
	}
	s.logger.Debug("Scan complete", "tasks", len(tasks))
	return tasks
}

// walk visits dir top-down: the files of a directory first, in name order,
// then each subdirectory. Symbolic links to directories are not followed.
func (s *Scanner) walk(root, dir string, tasks []PendingTask) []PendingTask {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		s.logger.Debug("Skipping unreadable directory", "dir", relPath(root, dir), "err", err)
		return tasks
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if entry.Mode()&os.ModeSymlink != 0 {
			if target, err := s.fs.Stat(path); err == nil && target.IsDir() {
				continue
			}
		}
		tasks = s.scanFile(root, path, entry.Name(), tasks)
	}

	for _, sub := range subdirs {
		tasks = s.walk(root, sub, tasks)
	}
	return tasks
}

func (s *Scanner) scanFile(root, path, name string, tasks []PendingTask) []PendingTask {
	switch scandir.Classify(name) {
	case scandir.KindPRD:
		return s.scanPRD(root, path, tasks)
	case scandir.KindMarkdown:
		return s.scanMarkdown(root, path, tasks)
	default:
		return tasks
	}
}

func (s *Scanner) scanPRD(root, path string, tasks []PendingTask) []PendingTask {
	rel := relPath(root, path)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.diags.Report(Diagnostic{Kind: KindParse, Path: rel, Err: err})
		return tasks
	}

	doc, repaired, err := decodePRD(data, s.lenient)
	if err != nil {
		s.diags.Report(Diagnostic{Kind: KindParse, Path: rel, Err: err})
		return tasks
	}
	if repaired {
		s.logger.Warn("Repaired malformed JSON", "file", rel)
	}

	found := extractPRDTasks(doc, s.terminal)
	for i := range found {
		found[i].Source = rel
	}
	s.logger.Debug("Scanned PRD", "file", rel, "pending", len(found))
	return append(tasks, found...)
}

func (s *Scanner) scanMarkdown(root, path string, tasks []PendingTask) []PendingTask {
	rel := relPath(root, path)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.diags.Report(Diagnostic{Kind: KindRead, Path: rel, Err: err})
		return tasks
	}

	found, err := extractChecklist(data)
	if err != nil {
		s.diags.Report(Diagnostic{Kind: KindRead, Path: rel, Err: err})
		return tasks
	}
	for i := range found {
		found[i].Source = rel
	}
	if len(found) > 0 {
		s.logger.Debug("Scanned markdown", "file", rel, "pending", len(found))
	}
	return append(tasks, found...)
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func statusSet(statuses []string) map[string]struct{} {
	set := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		set[strings.ToLower(strings.TrimSpace(status))] = struct{}{}
	}
	return set
}
