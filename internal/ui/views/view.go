package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pdfgrip/internal/domain"
	"pdfgrip/internal/lifecycle"
)

// Overlay is one annotation marker positioned on a page card, in rows
// and columns relative to the card's content area
type Overlay struct {
	Kind     domain.AnnotationKind
	Row      int
	Col      int
	Label    string
	Selected bool
}

// PageView is everything needed to draw one page card
type PageView struct {
	Index      int
	Status     lifecycle.Status
	TopRow     int // relative to the page strip's first row
	HeightRows int
	WidthCols  int
	Current    bool
	Overlays   []Overlay
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Doc       *domain.Document
	LoadErr   error
	Loading   bool
	Pages     []PageView
	Current   int
	PageCount int

	ZoomMode    domain.ZoomMode
	ZoomPercent int

	Annotations   []domain.Annotation
	SelectedIndex int
	ShowSidebar   bool

	Scan       domain.ScanSession
	ScanActive bool

	StatusMessage string
	InputPrompt   string // non-empty while a text mode is active
	InputView     string // rendered text input

	ShowHelp   bool
	HelpScroll int
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	help   *HelpRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{
		styles: NewStyles(),
		help:   NewHelpRenderer(),
	}
}

// Render draws the whole screen
func (r *Renderer) Render(vs ViewState) string {
	if vs.Width <= 0 || vs.Height <= 0 {
		return "loading..."
	}

	header := r.renderHeader(vs)
	status := r.renderStatusBar(vs)

	bodyRows := vs.Height - 2 // header + status bar
	if bodyRows < 1 {
		bodyRows = 1
	}

	var body string
	switch {
	case vs.ShowHelp:
		body = r.renderHelpPopup(vs, bodyRows)
	case vs.LoadErr != nil:
		body = r.renderLoadError(vs, bodyRows)
	case vs.Doc == nil:
		body = r.renderEmpty(vs, bodyRows)
	default:
		body = r.renderDocument(vs, bodyRows)
	}

	return header + "\n" + body + "\n" + status
}

func (r *Renderer) renderHeader(vs ViewState) string {
	left := "pdfgrip"
	if vs.Doc != nil {
		left = fmt.Sprintf("pdfgrip: %s", vs.Doc.Title)
	}

	right := ""
	if vs.Doc != nil {
		right = fmt.Sprintf("page %d/%d  %s %d%%", vs.Current+1, vs.PageCount, vs.ZoomMode, vs.ZoomPercent)
	}

	gap := vs.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return r.styles.Header.Width(vs.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderDocument composes the virtualized page strip, plus the sidebar
// when open. Only pages inside the render window produce cards; the rows
// between them stay blank, standing in for unmounted placeholders.
func (r *Renderer) renderDocument(vs ViewState, bodyRows int) string {
	stripWidth := vs.Width
	if vs.ShowSidebar {
		stripWidth = vs.Width * 2 / 3
	}

	lines := make([]string, bodyRows)
	for _, pv := range vs.Pages {
		r.blitPage(lines, pv, stripWidth)
	}
	for i, l := range lines {
		if l == "" {
			lines[i] = r.styles.Placeholder.Render("·")
		}
	}
	strip := strings.Join(lines, "\n")

	if !vs.ShowSidebar {
		return strip
	}

	sidebar := r.renderSidebar(vs, vs.Width-stripWidth-1, bodyRows)
	return lipgloss.JoinHorizontal(lipgloss.Top, strip, " ", sidebar)
}

// blitPage writes one page card into the line buffer, clipping rows that
// fall outside the viewport
func (r *Renderer) blitPage(lines []string, pv PageView, width int) {
	cardWidth := width - 4
	if cardWidth < 10 {
		cardWidth = 10
	}

	for row := 0; row < pv.HeightRows; row++ {
		screenRow := pv.TopRow + row
		if screenRow < 0 || screenRow >= len(lines) {
			continue
		}
		lines[screenRow] = r.cardLine(pv, row, cardWidth)
	}
}

// cardLine draws one row of a page card
func (r *Renderer) cardLine(pv PageView, row, width int) string {
	border := r.styles.PageBorder
	if pv.Current {
		border = r.styles.PageCurrent
	}

	switch row {
	case 0:
		label := fmt.Sprintf("┌─ Page %d ", pv.Index+1)
		if pv.Current {
			label = fmt.Sprintf("┌─ Page %d ◄ ", pv.Index+1)
		}
		fill := width - lipgloss.Width(label) - 1
		if fill < 0 {
			fill = 0
		}
		return border.Render(label + strings.Repeat("─", fill) + "┐")
	case pv.HeightRows - 1:
		return border.Render("└" + strings.Repeat("─", width-2) + "┘")
	}

	content := r.cardContent(pv, row-1, width-4)
	return border.Render("│ ") + content + border.Render(" │")
}

// cardContent fills a content row: status text on the first rows, then
// any overlay whose row lands here, then filler
func (r *Renderer) cardContent(pv PageView, contentRow, width int) string {
	for _, ov := range pv.Overlays {
		if ov.Row != contentRow {
			continue
		}
		return r.overlayLine(ov, width)
	}

	if contentRow == 0 {
		switch pv.Status {
		case lifecycle.StatusLoading:
			return pad(r.styles.LoadingText.Render("rendering…"), width)
		case lifecycle.StatusError:
			return pad(r.styles.ErrorText.Render(fmt.Sprintf("failed to load page %d, scroll away and back to retry", pv.Index+1)), width)
		case lifecycle.StatusPlaceholder:
			return pad(r.styles.Placeholder.Render("queued"), width)
		}
	}
	return strings.Repeat(" ", max(width, 0))
}

func (r *Renderer) overlayLine(ov Overlay, width int) string {
	var style lipgloss.Style
	var mark string
	switch ov.Kind {
	case domain.KindHighlight:
		style, mark = r.styles.Highlight, "▒"
	case domain.KindComment:
		style, mark = r.styles.Comment, "✎"
	case domain.KindBookmark:
		style, mark = r.styles.Bookmark, "⚑"
	default:
		style, mark = r.styles.CTA, "◈"
	}

	label := ov.Label
	if label == "" {
		label = string(ov.Kind)
	}
	col := ov.Col
	if col > width-4 {
		col = max(width-4, 0)
	}
	text := strings.Repeat(" ", col) + mark + " " + label
	if len(text) > width {
		text = text[:width]
	}
	if ov.Selected {
		return pad(r.styles.SelectedMark.Render(text), width)
	}
	return pad(style.Render(text), width)
}

// renderSidebar lists bookmarks and annotations for quick navigation
func (r *Renderer) renderSidebar(vs ViewState, width, rows int) string {
	if width < 12 {
		width = 12
	}

	var b strings.Builder
	b.WriteString(r.styles.SidebarTitle.Render("Annotations") + "\n")

	if len(vs.Annotations) == 0 {
		b.WriteString(r.styles.Faint.Render("none yet") + "\n")
	}

	// Keep the selection in view.
	first := 0
	visible := rows - 2
	if visible < 1 {
		visible = 1
	}
	if vs.SelectedIndex >= visible {
		first = vs.SelectedIndex - visible + 1
	}

	for i := first; i < len(vs.Annotations) && i-first < visible; i++ {
		a := vs.Annotations[i]
		line := fmt.Sprintf("p%-3d %-9s %s", a.PageNumber+1, a.Kind, sidebarLabel(a))
		if len(line) > width {
			line = line[:width]
		}
		if i == vs.SelectedIndex {
			b.WriteString(r.styles.SidebarSel.Render(line) + "\n")
		} else {
			b.WriteString(r.styles.SidebarItem.Render(line) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func sidebarLabel(a domain.Annotation) string {
	if a.Kind == domain.KindCTA && a.URL != "" {
		return a.URL
	}
	return a.Text
}

func (r *Renderer) renderStatusBar(vs ViewState) string {
	if vs.InputPrompt != "" {
		return r.styles.StatusBar.Width(vs.Width).Render(
			r.styles.StatusMode.Render(vs.InputPrompt) + vs.InputView)
	}

	parts := []string{}
	if vs.ScanActive {
		parts = append(parts, r.styles.ScanProgress.Render(
			fmt.Sprintf("scanning %d/%d (%d found, %d errors)",
				vs.Scan.CurrentPage+1, vs.Scan.TotalPages, vs.Scan.FoundCount, len(vs.Scan.Errors))))
	} else if vs.Scan.Phase == domain.ScanCompleted {
		parts = append(parts, r.styles.ScanProgress.Render(
			fmt.Sprintf("scan done: %d found, %d CTAs, %d errors",
				vs.Scan.FoundCount, vs.Scan.GeneratedCount, len(vs.Scan.Errors))))
	}
	if vs.StatusMessage != "" {
		parts = append(parts, vs.StatusMessage)
	}
	if len(parts) == 0 {
		parts = append(parts, r.styles.Faint.Render("j/k scroll · : goto · h/c/b/t annotate · s scan · Tab sidebar · ? help · q quit"))
	}
	return r.styles.StatusBar.Width(vs.Width).Render(strings.Join(parts, "  "))
}

func (r *Renderer) renderEmpty(vs ViewState, rows int) string {
	msg := "no document open"
	if vs.Loading {
		msg = "loading document…"
	}
	return r.center(r.styles.Faint.Render(msg), vs.Width, rows)
}

func (r *Renderer) renderLoadError(vs ViewState, rows int) string {
	msg := r.styles.ErrorText.Render("could not open document") + "\n\n" +
		r.styles.Faint.Render(vs.LoadErr.Error()) + "\n\n" +
		"press r to retry, q to quit"
	return r.center(r.styles.PopupBorder.Render(msg), vs.Width, rows)
}

func (r *Renderer) renderHelpPopup(vs ViewState, rows int) string {
	content := r.help.renderHelpContent(rows, vs.HelpScroll)
	return r.center(r.styles.PopupBorder.Render(content), vs.Width, rows)
}

func (r *Renderer) center(content string, width, rows int) string {
	return lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, content)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
