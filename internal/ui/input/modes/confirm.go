package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"harmoniq/internal/ui/input/types"
)

type ConfirmMode struct {
	scenarioName string
}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "delete-confirm"
}

// Target is the scenario awaiting confirmation
func (m *ConfirmMode) Target() string {
	return m.scenarioName
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	m.scenarioName = ctx.ActiveScenarioName()
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	m.scenarioName = ""
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{
			types.DeleteScenarioAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "n", "N", "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}

	// Swallow everything else while the question is open
	return nil, true
}
