package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"harmoniq/internal/ui/input/types"
)

// PickerMode selects one entry of a list, either a group or a scenario
type PickerMode struct {
	mode  types.Mode
	name  string
	index int
	count int
}

func NewPickerMode(mode types.Mode, name string) *PickerMode {
	return &PickerMode{mode: mode, name: name}
}

func (m *PickerMode) Name() string {
	return m.name
}

func (m *PickerMode) Enter(ctx types.Context) []types.Action {
	m.count = ctx.PickerCount(m.mode)
	m.index = ctx.PickerCurrent(m.mode)
	if m.index < 0 || m.index >= m.count {
		m.index = 0
	}
	return []types.Action{types.ShowPickerAction{Mode: m.mode, Index: m.index}}
}

func (m *PickerMode) Exit(ctx types.Context) []types.Action {
	return []types.Action{types.HidePickerAction{}}
}

// HandleKey moves through the list with wrap around
func (m *PickerMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "enter", " ":
		if m.count == 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
		}
		return []types.Action{
			types.PickAction{Mode: m.mode, Index: m.index},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "up", "k":
		return m.move(-1), true

	case "down", "j":
		return m.move(1), true
	}

	return nil, true
}

func (m *PickerMode) move(delta int) []types.Action {
	if m.count == 0 {
		return nil
	}
	m.index = (m.index + delta + m.count) % m.count
	return []types.Action{types.UpdatePickerIndexAction{Index: m.index}}
}

// CurrentIndex returns the highlighted entry
func (m *PickerMode) CurrentIndex() int {
	return m.index
}
