package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"pdfgrip/internal/ui/input/types"
)

// ConfirmMode asks y/n before deleting the selected annotation
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "y", "Y":
		return []types.Action{
			types.DeleteAnnotationAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "n", "N", "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}

	return nil, true
}
