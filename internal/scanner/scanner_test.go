package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/project"

// newTree creates an in-memory filesystem holding files, keyed by path
// relative to testRoot.
func newTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0o755))
	for rel, content := range files {
		path := filepath.Join(testRoot, filepath.FromSlash(rel))
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func scanTree(t *testing.T, files map[string]string, opts ...Option) ([]PendingTask, *DiagnosticList) {
	t.Helper()
	diags := &DiagnosticList{}
	opts = append([]Option{WithDiagnostics(diags)}, opts...)
	return New(newTree(t, files), opts...).Scan(testRoot), diags
}

func rel(p string) string {
	return filepath.FromSlash(p)
}

func TestScan_Example(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		".prd/prd.json":        `{"tasks":[{"title":"A","status":"pending"},{"title":"B","status":"done"}]}`,
		".taskmaster/notes.md": "# Notes\n\n1. [ ] review design\n",
	})

	assert.Zero(t, diags.Len())
	assert.Equal(t, []PendingTask{
		{Source: rel(".prd/prd.json"), Type: TypeJSON, Content: "A", Priority: "unknown"},
		{Source: rel(".taskmaster/notes.md"), Type: TypeMarkdown, Line: 3, Content: "review design", Priority: "unknown"},
	}, tasks)
}

func TestScan_NoSearchDirs(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		"docs/prd.json": `[{"title":"outside"}]`,
		"README.md":     "- [ ] outside\n",
	})

	require.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Zero(t, diags.Len())
}

func TestScan_SearchDirIsFile(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		".prd":                 "not a directory",
		".taskmaster/tasks.md": "- [ ] still scanned\n",
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, "still scanned", tasks[0].Content)
	assert.Zero(t, diags.Len())
}

func TestScan_JSONStatus(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantContent []string
	}{
		{
			name:        "all done",
			doc:         `{"tasks":[{"title":"A","status":"done"},{"title":"B","status":"done"}]}`,
			wantContent: nil,
		},
		{
			name:        "missing status is pending",
			doc:         `{"tasks":[{"title":"A"}]}`,
			wantContent: []string{"A"},
		},
		{
			name:        "case-insensitive terminal",
			doc:         `{"tasks":[{"title":"A","status":"Done"},{"title":"B","status":"DONE"},{"title":"C","status":"done"}]}`,
			wantContent: nil,
		},
		{
			name: "every terminal status",
			doc: `{"tasks":[
				{"title":"A","status":"completed"},
				{"title":"B","status":"Verified"},
				{"title":"C","status":"fixed"},
				{"title":"D","status":"CLOSED"},
				{"title":"E","status":"in-progress"}
			]}`,
			wantContent: []string{"E"},
		},
		{
			name:        "status is not trimmed",
			doc:         `{"tasks":[{"title":"A","status":" done "}]}`,
			wantContent: []string{"A"},
		},
		{
			name:        "non-string status is pending",
			doc:         `{"tasks":[{"title":"A","status":null},{"title":"B","status":3}]}`,
			wantContent: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, diags := scanTree(t, map[string]string{".prd/prd.json": tt.doc})
			assert.Zero(t, diags.Len())
			assert.Equal(t, tt.wantContent, contents(tasks))
			for _, task := range tasks {
				assert.Equal(t, TypeJSON, task.Type)
				assert.Zero(t, task.Line)
			}
		})
	}
}

func TestScan_JSONShapes(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantContent []string
	}{
		{"tasks key", `{"tasks":[{"title":"T"}],"features":[{"title":"F"}]}`, []string{"T"}},
		{"features key", `{"features":[{"title":"F"}]}`, []string{"F"}},
		{"tasks not a list falls back to features", `{"tasks":{"title":"T"},"features":[{"title":"F"}]}`, []string{"F"}},
		{"tasks null", `{"tasks":null}`, nil},
		{"top-level array", `[{"title":"X"},{"title":"Y","status":"closed"}]`, []string{"X"}},
		{"object without lists", `{"title":"lonely"}`, nil},
		{"scalar document", `"just a string"`, nil},
		{"number document", `42`, nil},
		{"non-object elements skipped", `{"tasks":["text",1,null,[{"title":"nested"}],{"title":"kept"}]}`, []string{"kept"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, diags := scanTree(t, map[string]string{".prd/prd.json": tt.doc})
			assert.Zero(t, diags.Len())
			assert.Equal(t, tt.wantContent, contents(tasks))
		})
	}
}

func TestScan_JSONContentFallback(t *testing.T) {
	long := strings.Repeat("é", 150)
	tests := []struct {
		name string
		task string
		want string
	}{
		{"title wins", `{"title":"T","description":"D","name":"N"}`, "T"},
		{"empty title", `{"title":"","description":"D","name":"N"}`, "D"},
		{"description", `{"description":"D","name":"N"}`, "D"},
		{"name", `{"name":"N"}`, "N"},
		{"non-string title", `{"title":7,"name":"N"}`, "N"},
		{"stringified", `{"id": "T1", "priority": 2}`, `{"id":"T1","priority":2}`},
		{"stringified keeps key order", `{"z":1,"a":2}`, `{"z":1,"a":2}`},
		{"truncated to 100 runes", `{"id":"` + long + `"}`, `{"id":"` + strings.Repeat("é", 93)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, _ := scanTree(t, map[string]string{".prd/prd.json": `{"tasks":[` + tt.task + `]}`})
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.want, tasks[0].Content)
		})
	}
}

func TestScan_JSONPriority(t *testing.T) {
	tests := []struct {
		name string
		task string
		want string
	}{
		{"missing", `{"title":"A"}`, "unknown"},
		{"string", `{"title":"A","priority":"high"}`, "high"},
		{"number", `{"title":"A","priority":2}`, "2"},
		{"bool", `{"title":"A","priority":true}`, "true"},
		{"null", `{"title":"A","priority":null}`, "unknown"},
		{"empty string", `{"title":"A","priority":""}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, _ := scanTree(t, map[string]string{".prd/prd.json": `[` + tt.task + `]`})
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.want, tasks[0].Priority)
		})
	}
}

func TestScan_Markdown(t *testing.T) {
	content := strings.Join([]string{
		"# Plan",
		"- [ ] write tests",
		"- [x] done thing",
		"* [ ] star item",
		"  1. [ ] indented ordinal",
		"9.[ ]  no space",
		"- [  ] wide box",
		"-[ ]tight",
		"- [X] upper done",
		"[ ] bare box",
		"10. [ ] two digit",
		"plain text - [ ] not at start",
		"- [ ]",
	}, "\n")

	tasks, diags := scanTree(t, map[string]string{".prd/plan.md": content})
	assert.Zero(t, diags.Len())

	type item struct {
		line    int
		content string
	}
	var got []item
	for _, task := range tasks {
		assert.Equal(t, TypeMarkdown, task.Type)
		assert.Equal(t, UnknownPriority, task.Priority)
		assert.Equal(t, rel(".prd/plan.md"), task.Source)
		got = append(got, item{task.Line, task.Content})
	}
	assert.Equal(t, []item{
		{2, "write tests"},
		{4, "star item"},
		{5, "indented ordinal"},
		{6, "no space"},
		{7, "wide box"},
		{8, "tight"},
		{13, ""},
	}, got)
}

func TestScan_MarkdownCRLF(t *testing.T) {
	tasks, _ := scanTree(t, map[string]string{".taskmaster/a.md": "intro\r\n- [ ] windows line\r\n"})
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].Line)
	assert.Equal(t, "windows line", tasks[0].Content)
}

func TestScan_MarkdownCR(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{".prd/mac.md": "intro\r- [ ] classic mac\r"})
	assert.Zero(t, diags.Len())
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].Line)
	assert.Equal(t, "classic mac", tasks[0].Content)
}

func TestScan_MarkdownMixedLineEndings(t *testing.T) {
	tasks, _ := scanTree(t, map[string]string{".prd/mixed.md": "- [ ] one\r\n- [ ] two\r- [ ] three\n"})

	var lines []int
	for _, task := range tasks {
		lines = append(lines, task.Line)
	}
	assert.Equal(t, []int{1, 2, 3}, lines)
	assert.Equal(t, []string{"one", "two", "three"}, contents(tasks))
}

func TestScan_MarkdownUnicodeSpaces(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"nbsp inside box", "- [\u00a0] nbsp box", "nbsp box"},
		{"ideographic space before box", "-\u3000[ ] wide gap", "wide gap"},
		{"em space leading", "\u2003- [ ] indented", "indented"},
		{"nbsp trailing content", "- [ ] padded\u00a0", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, _ := scanTree(t, map[string]string{".prd/u.md": tt.line + "\n"})
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.want, tasks[0].Content)
		})
	}
}

func TestScan_IgnoresOtherFiles(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		".prd/tasks.json":   `[{"title":"not prd.json"}]`,
		".prd/notes.txt":    "- [ ] not markdown",
		".prd/notes.MD":     "- [ ] wrong case",
		".prd/prd.json.bak": `{`,
	})
	assert.Empty(t, tasks)
	assert.Zero(t, diags.Len())
}

func TestScan_MalformedJSON(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		".prd/a/prd.json":       `{`,
		".prd/b/prd.json":       `[{"title":"after bad file"}]`,
		".taskmaster/readme.md": "- [ ] still here\n",
	})

	assert.Equal(t, []string{"after bad file", "still here"}, contents(tasks))
	require.Equal(t, 1, diags.Len())
	d := diags.Items[0]
	assert.Equal(t, KindParse, d.Kind)
	assert.Equal(t, rel(".prd/a/prd.json"), d.Path)
	assert.True(t, strings.HasPrefix(d.Error(), "Error parsing "+rel(".prd/a/prd.json")+": "), d.Error())
}

func TestScan_InvalidUTF8Markdown(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		".prd/bad.md":  "- [ ] \xff\xfe broken\n",
		".prd/good.md": "- [ ] fine\n",
	})

	assert.Equal(t, []string{"fine"}, contents(tasks))
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, KindRead, diags.Items[0].Kind)
	assert.ErrorIs(t, diags.Items[0], errNotUTF8)
	assert.Equal(t, "Error reading "+rel(".prd/bad.md")+": invalid UTF-8 content", diags.Items[0].Error())
}

func TestScan_InvalidUTF8PRD(t *testing.T) {
	tasks, diags := scanTree(t, map[string]string{
		".prd/a/prd.json": "[{\"title\":\"bad \xff bytes\"}]",
		".prd/b/prd.json": `[{"title":"clean"}]`,
	}, WithLenientJSON(true))

	assert.Equal(t, []string{"clean"}, contents(tasks))
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, KindParse, diags.Items[0].Kind)
	assert.ErrorIs(t, diags.Items[0], errNotUTF8)
	assert.Equal(t, "Error parsing "+rel(".prd/a/prd.json")+": invalid UTF-8 content", diags.Items[0].Error())
}

func TestScan_TraversalOrder(t *testing.T) {
	tasks, _ := scanTree(t, map[string]string{
		".taskmaster/z.md":         "- [ ] tm-z",
		".prd/sub/prd.json":        `[{"title":"prd-sub"}]`,
		".prd/b.md":                "- [ ] prd-b",
		".prd/a.md":                "- [ ] prd-a-1\n- [ ] prd-a-2",
		".prd/prd.json":            `[{"title":"prd-root"}]`,
		".prd/sub/deeper/notes.md": "- [ ] prd-deeper",
		".prd/aaa/first.md":        "- [ ] prd-aaa",
	})

	// Files of a directory come before its subdirectories.
	assert.Equal(t, []string{
		"prd-a-1", "prd-a-2", "prd-b", "prd-root",
		"prd-aaa",
		"prd-sub", "prd-deeper",
		"tm-z",
	}, contents(tasks))
}

func TestScan_Idempotent(t *testing.T) {
	fs := newTree(t, map[string]string{
		".prd/prd.json":    `{"features":[{"name":"F1"},{"name":"F2","status":"open"}]}`,
		".prd/todo.md":     "- [ ] one\n* [ ] two\n",
		".taskmaster/x.md": "1. [ ] three",
	})
	s := New(fs)

	first := s.Scan(testRoot)
	second := s.Scan(testRoot)
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestScan_Options(t *testing.T) {
	files := map[string]string{
		".prd/prd.json":   `[{"title":"A","status":"shipped"},{"title":"B","status":"done"}]`,
		"planning/now.md": "- [ ] custom dir",
	}

	t.Run("search dirs", func(t *testing.T) {
		tasks, _ := scanTree(t, files, WithSearchDirs([]string{"planning"}))
		assert.Equal(t, []string{"custom dir"}, contents(tasks))
	})

	t.Run("terminal statuses", func(t *testing.T) {
		tasks, _ := scanTree(t, files, WithTerminalStatuses([]string{" Shipped "}))
		assert.Equal(t, []string{"B"}, contents(tasks))
	})
}

func TestScan_LenientJSON(t *testing.T) {
	files := map[string]string{".prd/prd.json": `{"tasks":[{"title":"A",},]}`}

	t.Run("strict", func(t *testing.T) {
		tasks, diags := scanTree(t, files)
		assert.Empty(t, tasks)
		assert.Equal(t, 1, diags.Len())
	})

	t.Run("lenient", func(t *testing.T) {
		var logs bytes.Buffer
		logger := log.New(&logs)
		tasks, diags := scanTree(t, files, WithLenientJSON(true), WithLogger(logger))
		assert.Equal(t, []string{"A"}, contents(tasks))
		assert.Zero(t, diags.Len())
		assert.Contains(t, logs.String(), "Repaired malformed JSON")
	})
}

func TestScan_HostFilesystem(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".taskmaster", "docs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.md"), []byte("- [ ] on disk\n"), 0o644))

	var out bytes.Buffer
	tasks := Scan(root, WithDiagnostics(WriterDiagnostics(&out)))
	require.Len(t, tasks, 1)
	assert.Equal(t, filepath.Join(".taskmaster", "docs", "tasks.md"), tasks[0].Source)
	assert.Empty(t, out.String())
}

func contents(tasks []PendingTask) []string {
	var out []string
	for _, task := range tasks {
		out = append(out, task.Content)
	}
	return out
}
