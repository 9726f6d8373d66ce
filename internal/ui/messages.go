package ui

import (
	"time"

	"harmoniq/internal/catalog"
	"harmoniq/internal/domain"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event domain.DomainEvent
}

// tickMsg is sent on a timer for the loading spinner
type tickMsg time.Time

// catalogLoadedMsg carries the outcome of a catalog load
type catalogLoadedMsg struct {
	results []catalog.Result
	err     error
}

type groupsLoadedMsg struct {
	groups []domain.Group
	err    error
}

type scenariosLoadedMsg struct {
	scenarios []domain.Scenario
	err       error
}

// groupSwitchedMsg is the result of activating a group
type groupSwitchedMsg struct {
	group domain.Group
	err   error
}

type groupCreatedMsg struct {
	group domain.Group
	err   error
}

type scenarioCreatedMsg struct {
	scenario domain.Scenario
	err      error
}

// categoryRefreshedMsg is the outcome of refreshing one category
type categoryRefreshedMsg struct {
	result catalog.Result
}

type scenarioDeletedMsg struct {
	id  int
	err error
}

type runFinishedMsg struct {
	err error
}

// detailsMsg carries content for the pager
type detailsMsg struct {
	content string
	err     error
}

// pagerMsg is sent when the pager exits; content is shown in a popup when
// the pager could not run
type pagerMsg struct {
	content string
	err     error
}

type clearStatusMsg struct{}

// quitMsg signals that the application should quit
type quitMsg struct {
	err error // from the final flush
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
