package views

import "github.com/charmbracelet/lipgloss"

// Styles contains all the lipgloss styles used by the renderer
type Styles struct {
	Header        lipgloss.Style
	Title         lipgloss.Style
	PageBorder    lipgloss.Style
	PageCurrent   lipgloss.Style
	Placeholder   lipgloss.Style
	LoadingText   lipgloss.Style
	ErrorText     lipgloss.Style
	Highlight     lipgloss.Style
	Comment       lipgloss.Style
	Bookmark      lipgloss.Style
	CTA           lipgloss.Style
	SelectedMark  lipgloss.Style
	SidebarTitle  lipgloss.Style
	SidebarItem   lipgloss.Style
	SidebarSel    lipgloss.Style
	StatusBar     lipgloss.Style
	StatusMode    lipgloss.Style
	ScanProgress  lipgloss.Style
	PopupBorder   lipgloss.Style
	Faint         lipgloss.Style
}

// NewStyles creates the default style set
func NewStyles() *Styles {
	return &Styles{
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		PageBorder:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PageCurrent:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Placeholder:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		LoadingText:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ErrorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Highlight:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		Comment:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Bookmark:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		CTA:          lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
		SelectedMark: lipgloss.NewStyle().Reverse(true),
		SidebarTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		SidebarItem:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		SidebarSel:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
		StatusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1),
		StatusMode:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		ScanProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
		PopupBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
		Faint:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
