package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"harmoniq/internal/ui/input/types"
)

type NewGroupMode struct {
	TextInputMode
}

func NewNewGroupMode(ti *textinput.Model) *NewGroupMode {
	base := NewTextInputMode(types.ModeNewGroup, "new-group", "New group name: ", ti)
	base.clean = groupName
	return &NewGroupMode{TextInputMode: base}
}

// groupName collapses runs of whitespace so "  North   sea " is stored as "North sea"
func groupName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
