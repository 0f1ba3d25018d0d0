package modes

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"

	"pdfgrip/internal/ui/input/types"
)

// TextMode is the shared behavior for modes that collect a line of text:
// Enter submits, Esc cancels, everything else goes to the text input.
type TextMode struct {
	mode      types.Mode
	name      string
	prompt    string
	textInput *textinput.Model
}

func newTextMode(mode types.Mode, name, prompt string, ti *textinput.Model) *TextMode {
	return &TextMode{mode: mode, name: name, prompt: prompt, textInput: ti}
}

// NewGotoPageMode collects a page number
func NewGotoPageMode(ti *textinput.Model) *TextMode {
	return newTextMode(types.ModeGotoPage, "goto", "Go to page: ", ti)
}

// NewCommentMode collects a comment body for the current page
func NewCommentMode(ti *textinput.Model) *TextMode {
	return newTextMode(types.ModeComment, "comment", "Comment: ", ti)
}

// NewBookmarkMode collects a bookmark label
func NewBookmarkMode(ti *textinput.Model) *TextMode {
	return newTextMode(types.ModeBookmark, "bookmark", "Bookmark label: ", ti)
}

// NewCTAMode collects a CTA target URL
func NewCTAMode(ti *textinput.Model) *TextMode {
	return newTextMode(types.ModeCTA, "cta", "CTA url: ", ti)
}

func (m *TextMode) Name() string {
	return m.name
}

func (m *TextMode) Prompt() string {
	return m.prompt
}

func (m *TextMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *TextMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *TextMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.textInput.Value()
		return []types.Action{
			types.SubmitTextAction{Text: text, Mode: m.mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case tea.KeyEsc, tea.KeyCtrlC:
		return []types.Action{
			types.CancelTextAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	// Not consumed - the handler passes the key to the text input
	return nil, false
}
