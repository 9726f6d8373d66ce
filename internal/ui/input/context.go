package input

import (
	"harmoniq/internal/ui/input/types"
	"harmoniq/internal/ui/logic"
	"harmoniq/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State        *state.AppState
	ActiveGroup  int    // id of the active group, 0 when none
	ScenarioID   int    // id of the active scenario, 0 when none
	ScenarioName string // name of the active scenario
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the number of visible rows
func (c *ModelContext) TotalItems() int {
	return len(c.State.Rows)
}

// IsOnCategory reports whether the cursor is on a category header
func (c *ModelContext) IsOnCategory() bool {
	row, ok := c.State.CurrentRow()
	return ok && row.Kind == logic.RowCategory
}

// IsOnItem reports whether the cursor is on an item row
func (c *ModelContext) IsOnItem() bool {
	row, ok := c.State.CurrentRow()
	return ok && row.Kind == logic.RowItem
}

// FilterQuery returns the applied filter
func (c *ModelContext) FilterQuery() string {
	return c.State.FilterQuery
}

// PickerCount returns the number of entries a picker would list
func (c *ModelContext) PickerCount(mode types.Mode) int {
	switch mode {
	case types.ModeGroupPicker:
		return len(c.State.Groups)
	case types.ModeScenarioPicker:
		return len(c.State.Scenarios)
	}
	return 0
}

// PickerCurrent returns the index of the active group or scenario, 0 if none
func (c *ModelContext) PickerCurrent(mode types.Mode) int {
	switch mode {
	case types.ModeGroupPicker:
		for i, g := range c.State.Groups {
			if g.ID == c.ActiveGroup {
				return i
			}
		}
	case types.ModeScenarioPicker:
		for i, s := range c.State.Scenarios {
			if s.ID == c.ScenarioID {
				return i
			}
		}
	}
	return 0
}

// ActiveScenarioName returns the name of the active scenario
func (c *ModelContext) ActiveScenarioName() string {
	return c.ScenarioName
}
