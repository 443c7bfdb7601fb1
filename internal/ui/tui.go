// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/prdscan/internal/scanner"
)

// ScanResult is what a single scan produced.
type ScanResult struct {
	Tasks       []scanner.PendingTask
	Diagnostics []string
}

// ScanFunc runs a fresh scan.
type ScanFunc func() ScanResult

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	jsonStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	markdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// RunTUI starts a read-only viewer over the results of scan.
func RunTUI(ctx context.Context, root string, scan ScanFunc) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(root, scan)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	root     string
	scan     ScanFunc
	result   *ScanResult
	visible  []scanner.PendingTask
	filter   scanner.TaskType
	cursor   int
	offset   int
	height   int
	showHelp bool
}

type scanDoneMsg struct {
	result ScanResult
}

func newTUIModel(root string, scan ScanFunc) *tuiModel {
	return &tuiModel{
		root:   root,
		scan:   scan,
		height: 20,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.rescan()
}

func (m *tuiModel) rescan() tea.Cmd {
	scan := m.scan
	return func() tea.Msg {
		return scanDoneMsg{result: scan()}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			return m, m.rescan()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.setFilter(scanner.TypeJSON)
		case "2":
			m.setFilter(scanner.TypeMarkdown)
		case "0":
			m.setFilter("")
		case "j", "down":
			m.move(1)
		case "k", "up":
			m.move(-1)
		case "g", "home":
			m.move(-len(m.visible))
		case "G", "end":
			m.move(len(m.visible))
		}
	case tea.WindowSizeMsg:
		m.height = listHeight(msg.Height)
		m.move(0)
	case scanDoneMsg:
		result := msg.result
		m.result = &result
		m.applyFilter()
	}
	return m, nil
}

func (m *tuiModel) setFilter(filter scanner.TaskType) {
	m.filter = filter
	m.applyFilter()
}

// applyFilter rebuilds the visible list and clamps the cursor.
func (m *tuiModel) applyFilter() {
	m.visible = m.visible[:0]
	if m.result != nil {
		for _, task := range m.result.Tasks {
			if m.filter == "" || task.Type == m.filter {
				m.visible = append(m.visible, task)
			}
		}
	}
	m.move(0)
}

func (m *tuiModel) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.height > 0 && m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.root)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.result == nil {
		b.WriteString("Scanning...\n\n")
		writeFooter(&b)
		return b.String()
	}

	writeOverview(&b, m.result, m.filter)
	m.writeList(&b)
	writeDiagnostics(&b, m.result.Diagnostics)
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeList(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString("  No pending tasks.\n\n")
		return
	}

	end := m.offset + m.height
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		line := formatTask(&m.visible[i])
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if end < len(m.visible) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.visible)-end)) + "\n")
	}
	b.WriteString("\n")
}

func writeTitle(b *strings.Builder, root string) {
	title := "Pending Work"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	b.WriteString(dimStyle.Render(root) + "\n\n")
}

func writeOverview(b *strings.Builder, result *ScanResult, filter scanner.TaskType) {
	counts := map[scanner.TaskType]int{}
	for _, task := range result.Tasks {
		counts[task.Type]++
	}
	b.WriteString(fmt.Sprintf("  JSON: %d  Markdown: %d  Total: %d\n",
		counts[scanner.TypeJSON], counts[scanner.TypeMarkdown], len(result.Tasks)))
	if filter != "" {
		b.WriteString(fmt.Sprintf("  Filter: %s (0 to clear)\n", filter))
	}
	b.WriteString("\n")
}

func writeDiagnostics(b *strings.Builder, diagnostics []string) {
	if len(diagnostics) == 0 {
		return
	}
	b.WriteString(warnStyle.Render(fmt.Sprintf("Problems (%d)", len(diagnostics))) + "\n")
	for _, d := range diagnostics {
		b.WriteString("  " + d + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Scan again\n")
	b.WriteString("  j/k, arrows  Move\n")
	b.WriteString("  g/G          First/last task\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Show JSON tasks only\n")
	b.WriteString("  2            Show Markdown tasks only\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(dimStyle.Render("Press h for help | r to rescan | q to quit") + "\n")
}

func formatTask(t *scanner.PendingTask) string {
	badge := jsonStyle.Render("json")
	location := t.Source
	if t.Type == scanner.TypeMarkdown {
		badge = markdownStyle.Render("md  ")
		location = fmt.Sprintf("%s:%d", t.Source, t.Line)
	}

	content := t.Content
	if runes := []rune(content); len(runes) > 72 {
		content = string(runes[:69]) + "..."
	}
	line := fmt.Sprintf("  %s %s", badge, content)
	if t.Priority != scanner.UnknownPriority {
		line += fmt.Sprintf(" (P:%s)", t.Priority)
	}
	return line + "  " + dimStyle.Render(location)
}

// listHeight returns how many task rows fit in a terminal of the given height.
func listHeight(termHeight int) int {
	const chrome = 12
	if termHeight-chrome < 3 {
		return 3
	}
	return termHeight - chrome
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
