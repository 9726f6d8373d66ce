package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"harmoniq/internal/ui/input/types"
)

type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

// Enter seeds the input with the applied filter so it can be refined
func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	actions := m.TextInputMode.Enter(ctx)
	if q := ctx.FilterQuery(); q != "" && m.textInput != nil {
		m.textInput.SetValue(q)
		m.textInput.CursorEnd()
	}
	return actions
}
