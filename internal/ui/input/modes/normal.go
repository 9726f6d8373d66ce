package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"harmoniq/internal/ui/input/types"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}
	if msg.Type == tea.KeyEsc {
		// Esc drops an applied filter
		if ctx.FilterQuery() != "" {
			return []types.Action{types.ClearFilterAction{}}, true
		}
		return nil, false
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		return nav("up"), true
	case key.Matches(msg, k.Down):
		return nav("down"), true
	case key.Matches(msg, k.PageUp):
		return nav("pageup"), true
	case key.Matches(msg, k.PageDown):
		return nav("pagedown"), true
	case key.Matches(msg, k.Home):
		return nav("home"), true
	case key.Matches(msg, k.End):
		return nav("end"), true
	case key.Matches(msg, k.Collapse):
		return nav("left"), true
	case key.Matches(msg, k.Expand):
		return nav("right"), true

	case key.Matches(msg, k.Fold):
		if ctx.TotalItems() == 0 {
			return nil, false
		}
		return []types.Action{types.ToggleCategoryAction{}}, true

	case key.Matches(msg, k.Toggle):
		// Space on a header selects the whole visible category
		if ctx.IsOnCategory() {
			return []types.Action{types.SelectAllAction{}}, true
		}
		if ctx.IsOnItem() {
			return []types.Action{types.ToggleItemAction{}}, true
		}
		return nil, false

	case key.Matches(msg, k.SelectAll):
		return []types.Action{types.SelectAllAction{}}, true
	case key.Matches(msg, k.SelectNone):
		return []types.Action{types.SelectNoneAction{}}, true

	case key.Matches(msg, k.Filter):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true
	case key.Matches(msg, k.Groups):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeGroupPicker}}, true
	case key.Matches(msg, k.Scenarios):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeScenarioPicker}}, true
	case key.Matches(msg, k.NewGroup):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNewGroup}}, true
	case key.Matches(msg, k.NewScenario):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNewScenario}}, true

	case key.Matches(msg, k.Delete):
		return []types.Action{types.RequestDeleteScenarioAction{}}, true
	case key.Matches(msg, k.Run):
		return []types.Action{types.RunAction{}}, true
	case key.Matches(msg, k.Details):
		return []types.Action{types.ShowDetailsAction{}}, true
	case key.Matches(msg, k.Reload):
		return []types.Action{types.ReloadAction{}}, true
	case key.Matches(msg, k.ReloadCategory):
		if ctx.TotalItems() == 0 {
			return nil, false
		}
		return []types.Action{types.ReloadCategoryAction{}}, true
	case key.Matches(msg, k.Help):
		return []types.Action{types.ShowHelpAction{}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}

func nav(direction string) []types.Action {
	return []types.Action{types.NavigateAction{Direction: direction}}
}
