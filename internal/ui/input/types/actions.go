package types

import "harmoniq/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end", "left", "right"
}

func (a NavigateAction) Type() string { return "navigate" }

type ToggleCategoryAction struct{}

func (a ToggleCategoryAction) Type() string { return "toggle_category" }

// Selection actions
type ToggleItemAction struct{}

func (a ToggleItemAction) Type() string { return "toggle_item" }

// SelectAllAction activates the current category's visible scope
type SelectAllAction struct{}

func (a SelectAllAction) Type() string { return "select_all" }

// SelectNoneAction deactivates the current category's visible scope
type SelectNoneAction struct{}

func (a SelectNoneAction) Type() string { return "select_none" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// SubmitScenarioAction carries a completed new scenario form
type SubmitScenarioAction struct {
	Draft domain.Scenario
}

func (a SubmitScenarioAction) Type() string { return "submit_scenario" }

type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

// Picker actions
type ShowPickerAction struct {
	Mode  Mode
	Index int
}

func (a ShowPickerAction) Type() string { return "show_picker" }

type HidePickerAction struct{}

func (a HidePickerAction) Type() string { return "hide_picker" }

type UpdatePickerIndexAction struct {
	Index int
}

func (a UpdatePickerIndexAction) Type() string { return "update_picker_index" }

type PickAction struct {
	Mode  Mode // ModeGroupPicker or ModeScenarioPicker
	Index int
}

func (a PickAction) Type() string { return "pick" }

// Command actions
type DeleteScenarioAction struct{}

func (a DeleteScenarioAction) Type() string { return "delete_scenario" }

type RequestDeleteScenarioAction struct{}

func (a RequestDeleteScenarioAction) Type() string { return "request_delete_scenario" }

type RunAction struct{}

func (a RunAction) Type() string { return "run" }

type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

// ReloadCategoryAction fetches items added to the category under the cursor
type ReloadCategoryAction struct{}

func (a ReloadCategoryAction) Type() string { return "reload_category" }

type ShowDetailsAction struct{}

func (a ShowDetailsAction) Type() string { return "show_details" }

type ShowHelpAction struct{}

func (a ShowHelpAction) Type() string { return "show_help" }

type QuitAction struct {
	Force bool // skip the final flush
}

func (a QuitAction) Type() string { return "quit" }
