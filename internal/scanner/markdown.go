package scanner

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// checkboxPattern matches an unchecked checklist prefix such as "- [ ]",
// "* [ ]" or "1. [ ]" at the start of a trimmed line. Whitespace inside the
// prefix includes Unicode spaces such as NBSP and U+3000.
var checkboxPattern = regexp.MustCompile(`^[-*1-9]+\.?[\s\x{1c}-\x{1f}\x{85}\p{Z}]*\[[\s\x{1c}-\x{1f}\x{85}\p{Z}]*\]`)

// lineBreaks maps CRLF and bare CR line endings to LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

var errNotUTF8 = errors.New("invalid UTF-8 content")

// extractChecklist returns one task per unchecked checklist line in data,
// without Source set. Lines may end in LF, CRLF or CR.
func extractChecklist(data []byte) ([]PendingTask, error) {
	if !utf8.Valid(data) {
		return nil, errNotUTF8
	}

	var tasks []PendingTask
	for i, line := range strings.Split(lineBreaks.Replace(string(data)), "\n") {
		stripped := strings.TrimFunc(line, isSpace)
		loc := checkboxPattern.FindStringIndex(stripped)
		if loc == nil {
			continue
		}
		tasks = append(tasks, PendingTask{
			Type:     TypeMarkdown,
			Line:     i + 1,
			Content:  strings.TrimFunc(stripped[loc[1]:], isSpace),
			Priority: UnknownPriority,
		})
	}
	return tasks, nil
}

// isSpace reports Unicode white space, plus the ASCII information
// separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
