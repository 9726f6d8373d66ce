package state

import (
	"harmoniq/internal/domain"
	"harmoniq/internal/ui/logic"
)

// StatusLevel colors the status message
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// PickerOption is one entry of the group or scenario picker
type PickerOption struct {
	ID    int
	Label string
}

// AppState contains all the UI state that is not owned by the session
type AppState struct {
	// List data
	Rows               []logic.Row
	ExpandedCategories map[domain.Category]bool

	// Cursor and viewport
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int

	// Loading state
	LoadingCategories map[domain.Category]bool
	LoadErrors        map[domain.Category]string
	Switching         bool // a group fetch is in flight
	Running           bool // a simulation launch is in flight

	// Directory contents shown by the pickers
	Groups    []domain.Group
	Scenarios []domain.Scenario

	// Picker state
	PickerTitle   string
	PickerOptions []PickerOption
	PickerIndex   int

	// Popup shown when the pager is unavailable
	ShowInfo    bool
	InfoContent string

	// Filter
	FilterQuery string

	// Status line
	StatusMessage string
	StatusLevel   StatusLevel
}

// NewAppState creates a new application state with every category expanded
func NewAppState(categories []domain.Category) *AppState {
	s := &AppState{
		ExpandedCategories: make(map[domain.Category]bool),
		LoadingCategories:  make(map[domain.Category]bool),
		LoadErrors:         make(map[domain.Category]string),
		ViewportHeight:     20,
	}
	for _, c := range categories {
		s.ExpandedCategories[c] = true
	}
	return s
}

// CurrentRow returns the row under the cursor
func (s *AppState) CurrentRow() (logic.Row, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Rows) {
		return logic.Row{}, false
	}
	return s.Rows[s.SelectedIndex], true
}

// IsLoading reports whether any category list is still loading
func (s *AppState) IsLoading() bool {
	return len(s.LoadingCategories) > 0
}

// SetStatus replaces the status message
func (s *AppState) SetStatus(level StatusLevel, msg string) {
	s.StatusLevel = level
	s.StatusMessage = msg
}

// ClearStatus removes the status message
func (s *AppState) ClearStatus() {
	s.StatusMessage = ""
	s.StatusLevel = StatusInfo
}

// IsFiltered reports whether a filter is applied
func (s *AppState) IsFiltered() bool {
	return s.FilterQuery != ""
}

// FindCategoryRow returns the row index of a category header, -1 if hidden
func (s *AppState) FindCategoryRow(c domain.Category) int {
	for i, r := range s.Rows {
		if r.Kind == logic.RowCategory && r.Category == c {
			return i
		}
	}
	return -1
}
