package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pdfgrip/internal/domain"
	"pdfgrip/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.ScrollAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.ScrollAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.PageStepAction{Delta: -1}}, true

	case tea.KeyRight:
		return []types.Action{types.PageStepAction{Delta: 1}}, true

	case tea.KeyPgUp:
		return []types.Action{types.ScrollAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.ScrollAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.ScrollAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.ScrollAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.SelectedAnnotationID() != "" {
			return []types.Action{types.OpenAnnotationAction{}}, true
		}
		return nil, false

	case tea.KeyTab:
		return []types.Action{types.ToggleSidebarAction{}}, true
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.ScrollAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.ScrollAction{Direction: "up"}}, true

	case "J", "n":
		return []types.Action{types.PageStepAction{Delta: 1}}, true

	case "K", "p":
		return []types.Action{types.PageStepAction{Delta: -1}}, true

	case "g":
		// gg jumps to the first page, vim style
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.GotoPageAction{Page: 0}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		if n := ctx.PageCount(); n > 0 {
			return []types.Action{types.GotoPageAction{Page: n - 1}}, true
		}
		return nil, false

	case ":":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeGotoPage}}, true

	case "+", "=":
		return []types.Action{types.AdjustZoomAction{Delta: 0.1}}, true

	case "-":
		return []types.Action{types.AdjustZoomAction{Delta: -0.1}}, true

	case "w":
		return []types.Action{types.SetZoomModeAction{Mode: domain.ZoomFitWidth}}, true

	case "f":
		return []types.Action{types.SetZoomModeAction{Mode: domain.ZoomFitPage}}, true

	case "h":
		if ctx.DocumentOpen() {
			return []types.Action{types.AddHighlightAction{}}, true
		}
		return nil, false

	case "c":
		if ctx.DocumentOpen() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeComment}}, true
		}
		return nil, false

	case "b":
		if ctx.DocumentOpen() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeBookmark}}, true
		}
		return nil, false

	case "t":
		if ctx.DocumentOpen() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeCTA}}, true
		}
		return nil, false

	case "s":
		if !ctx.DocumentOpen() {
			return nil, false
		}
		if ctx.ScanActive() {
			return []types.Action{types.ToggleScanPauseAction{}}, true
		}
		return []types.Action{types.StartScanAction{}}, true

	case "S":
		if ctx.ScanActive() {
			return []types.Action{types.StopScanAction{}}, true
		}
		return nil, false

	case "x":
		if ctx.SelectedAnnotationID() != "" {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeDeleteConfirm}}, true
		}
		return nil, false

	case "[":
		return []types.Action{types.CycleAnnotationAction{Delta: -1}}, true

	case "]":
		return []types.Action{types.CycleAnnotationAction{Delta: 1}}, true

	case "r":
		return []types.Action{types.RetryLoadAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	m.lastKeyWasG = false
	return nil, false
}
