package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

type helpEntry struct {
	key  string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Scroll up/down"},
		{"←/→, J/K", "Previous/next page"},
		{"n/p", "Next/previous page"},
		{"PgUp/PgDn", "Scroll a screen"},
		{"gg/G", "First/last page"},
		{":", "Go to page number"},
	}},
	{"Zoom", []helpEntry{
		{"+/=", "Zoom in"},
		{"-", "Zoom out"},
		{"w", "Fit page width"},
		{"f", "Fit whole page"},
	}},
	{"Annotations", []helpEntry{
		{"click", "Pick a point on a page"},
		{"h", "Highlight at last click"},
		{"c", "Comment at last click"},
		{"b", "Bookmark current page"},
		{"t", "CTA link at last click"},
		{"[/]", "Select previous/next annotation"},
		{"Enter", "Jump to selected annotation"},
		{"x", "Delete selected annotation"},
		{"Tab", "Toggle annotation sidebar"},
	}},
	{"QR Scan", []helpEntry{
		{"s", "Start scan, or pause/resume"},
		{"S", "Stop scan"},
	}},
	{"Other", []helpEntry{
		{"r", "Retry opening the document"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
		{"Ctrl+C", "Force quit"},
	}},
}

// renderHelpContent renders the help popup body, windowed by scrollOffset
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	content := r.RenderHelpContentPlain()
	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	// Account for popup border and padding.
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	if totalLines <= visibleHeight {
		return content
	}

	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	endLine := scrollOffset + visibleHeight
	if endLine > totalLines {
		endLine = totalLines
	}
	visibleLines := lines[scrollOffset:endLine]

	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visibleLines[0] = indicator.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = indicator.Render("↓ (more below)")
	}

	return strings.Join(visibleLines, "\n")
}

// RenderHelpContentPlain generates the full help text for the pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("pdfgrip Help"))
	help.WriteString("\n")

	for _, sec := range helpSections {
		help.WriteString(sectionStyle.Render(sec.title))
		help.WriteString("\n")
		for _, e := range sec.entries {
			pad := 12 - len([]rune(e.key))
			if pad < 1 {
				pad = 1
			}
			help.WriteString(fmt.Sprintf("  %s%s%s\n",
				keyStyle.Render(e.key), strings.Repeat(" ", pad), descStyle.Render(e.desc)))
		}
	}

	return strings.TrimRight(help.String(), "\n")
}
