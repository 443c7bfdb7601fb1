package scanner

import (
	"fmt"
	"io"
)

// DiagnosticKind describes which step failed for a file.
type DiagnosticKind string

const (
	// KindParse covers every failure on a prd.json file, read errors included.
	KindParse DiagnosticKind = "parsing"
	// KindRead covers Markdown files that could not be read or decoded.
	KindRead DiagnosticKind = "reading"
)

// Diagnostic is a non-fatal, per-file problem encountered during a scan.
type Diagnostic struct {
	Kind DiagnosticKind
	Path string // relative to the scan root
	Err  error
}

// Error renders the diagnostic as "Error <kind> <path>: <message>".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("Error %s %s: %v", d.Kind, d.Path, d.Err)
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics receives per-file problems. Implementations must not panic.
type Diagnostics interface {
	Report(d Diagnostic)
}

// DiagnosticsFunc adapts a function to the Diagnostics interface.
type DiagnosticsFunc func(d Diagnostic)

// Report calls f(d).
func (f DiagnosticsFunc) Report(d Diagnostic) {
	f(d)
}

// Discard drops every diagnostic.
var Discard Diagnostics = DiagnosticsFunc(func(Diagnostic) {})

// DiagnosticList collects diagnostics in the order they were reported.
type DiagnosticList struct {
	Items []Diagnostic
}

// Report appends d.
func (l *DiagnosticList) Report(d Diagnostic) {
	l.Items = append(l.Items, d)
}

// Len returns the number of collected diagnostics.
func (l *DiagnosticList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Lines returns each diagnostic rendered as a single line.
func (l *DiagnosticList) Lines() []string {
	if l == nil {
		return nil
	}
	lines := make([]string, 0, len(l.Items))
	for _, d := range l.Items {
		lines = append(lines, d.Error())
	}
	return lines
}

// WriterDiagnostics writes each diagnostic as a plain text line to w.
// Write errors are ignored; the scan must not fail because of its error stream.
func WriterDiagnostics(w io.Writer) Diagnostics {
	return DiagnosticsFunc(func(d Diagnostic) {
		_, _ = fmt.Fprintln(w, d.Error())
	})
}
