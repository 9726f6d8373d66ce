package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"harmoniq/internal/catalog"
	"harmoniq/internal/config"
	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/groups"
	"harmoniq/internal/logging"
	"harmoniq/internal/scenarios"
	"harmoniq/internal/selection"
	"harmoniq/internal/synchronizer"
	"harmoniq/internal/ui/input"
	inputtypes "harmoniq/internal/ui/input/types"
	"harmoniq/internal/ui/logic"
	"harmoniq/internal/ui/state"
	"harmoniq/internal/ui/views"
)

const (
	statusTimeout = 3 * time.Second
	flushTimeout  = 5 * time.Second
)

// Deps are the services the model drives
type Deps struct {
	Context   context.Context
	Config    *config.Config
	Session   *synchronizer.Session
	Loader    *catalog.Loader
	Groups    *groups.Directory
	Scenarios *scenarios.Directory
	Log       *logrus.Entry
}

// Model represents the UI state
type Model struct {
	ctx       context.Context
	config    *config.Config
	session   *synchronizer.Session
	loader    *catalog.Loader
	groups    *groups.Directory
	scenarios *scenarios.Directory
	log       *logrus.Entry

	state *state.AppState

	width       int
	height      int
	help        help.Model
	inPagerMode bool
	ticking     bool

	rows         *logic.RowBuilder
	navigator    *logic.Navigator
	renderer     *views.Renderer
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	pager        *PagerOps
}

// NewModel creates a new UI model
func NewModel(deps Deps) *Model {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}

	store := deps.Session.Store()
	m := &Model{
		ctx:          ctx,
		config:       cfg,
		session:      deps.Session,
		loader:       deps.Loader,
		groups:       deps.Groups,
		scenarios:    deps.Scenarios,
		log:          log,
		state:        state.NewAppState(store.Categories()),
		help:         help.New(),
		rows:         logic.NewRowBuilder(store),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		helpRenderer: NewHelpRenderer(),
		pager:        NewPagerOps(),
	}
	m.refreshRows()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Init starts loading everything from the backend
func (m *Model) Init() tea.Cmd {
	for _, c := range m.session.Store().Categories() {
		m.state.LoadingCategories[c] = true
	}
	return tea.Batch(m.startTick(), m.loadCatalog(), m.loadGroups(), m.loadScenarios())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		m.updateViewportHeight()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	default:
		textCmd := m.inputHandler.Update(msg)
		cmd = tea.Batch(textCmd, m.handleNonKeyboardMsg(msg))
	}

	m.refreshRows()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// the fallback popup closes on its own keys
	if m.state.ShowInfo {
		switch msg.String() {
		case "esc", "i", "q", "enter":
			m.state.ShowInfo = false
			m.state.InfoContent = ""
			return nil
		}
	}

	actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

	cmds := []tea.Cmd{cmd}
	for _, action := range actions {
		cmds = append(cmds, m.processAction(action))
	}
	return tea.Batch(cmds...)
}

func (m *Model) inputContext() *input.ModelContext {
	ctx := &input.ModelContext{State: m.state}
	if g, ok := m.session.ActiveGroup(); ok {
		ctx.ActiveGroup = g.ID
	}
	if s, ok := m.session.ActiveScenario(); ok {
		ctx.ScenarioID = s.ID
		ctx.ScenarioName = s.Name
	}
	return ctx
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:             m.width,
		Height:            m.height,
		Rows:              m.state.Rows,
		SelectedIndex:     m.state.SelectedIndex,
		ViewportOffset:    m.state.ViewportOffset,
		ViewportHeight:    m.state.ViewportHeight,
		Expanded:          m.state.ExpandedCategories,
		IsActive:          m.session.Store().IsActive,
		Loading:           m.state.IsLoading(),
		LoadingCategories: m.state.LoadingCategories,
		LoadErrors:        m.state.LoadErrors,
		RunOpen:           m.session.RunOpen(),
		FilterQuery:       m.state.FilterQuery,
		StatusMessage:     m.state.StatusMessage,
		StatusLevel:       m.state.StatusLevel,
		ShowInfo:          m.state.ShowInfo,
		InfoContent:       m.state.InfoContent,
		HelpView:          m.help.View(m.inputHandler.Keys()),
	}

	switch {
	case m.state.Switching:
		vs.Busy = "Switching group"
	case m.state.Running:
		vs.Busy = "Launching simulation"
	}

	if g, ok := m.session.ActiveGroup(); ok {
		vs.GroupName = g.Name
		syncState, _ := m.session.SyncStatus()
		if syncState != synchronizer.SyncIdle {
			vs.SyncState = syncState.String()
		}
		vs.SyncFailed = syncState == synchronizer.SyncFailed
	}
	if s, ok := m.session.ActiveScenario(); ok {
		vs.ScenarioName = s.Name
	}

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeFilter, inputtypes.ModeNewGroup, inputtypes.ModeNewScenario:
		vs.Prompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = ti.View()
		}
	case inputtypes.ModeDeleteConfirm:
		vs.ConfirmTarget = m.inputHandler.ConfirmTarget()
	case inputtypes.ModeGroupPicker, inputtypes.ModeScenarioPicker:
		vs.PickerTitle = m.state.PickerTitle
		vs.PickerOptions = m.state.PickerOptions
		vs.PickerIndex = m.state.PickerIndex
		ctx := m.inputContext()
		if m.inputHandler.CurrentMode() == inputtypes.ModeGroupPicker {
			vs.PickerActive = ctx.ActiveGroup
		} else {
			vs.PickerActive = ctx.ScenarioID
		}
	}

	return m.renderer.Render(vs)
}

// refreshRows rebuilds the visible rows and keeps the cursor in range
func (m *Model) refreshRows() {
	m.state.Rows = m.rows.Build(m.state.ExpandedCategories, m.state.FilterQuery)
	m.syncNavigator()
	m.navigator.SetSelectedIndex(m.state.SelectedIndex)
	m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Position()
}

func (m *Model) syncNavigator() {
	m.navigator.UpdateState(m.state.SelectedIndex, m.state.ViewportOffset, m.state.ViewportHeight, len(m.state.Rows))
}

func (m *Model) updateViewportHeight() {
	h := m.height - views.ChromeLines
	if h < 3 {
		h = 3
	}
	m.state.ViewportHeight = h
}

// currentCategory is the category of the row under the cursor
func (m *Model) currentCategory() (domain.Category, bool) {
	row, ok := m.state.CurrentRow()
	if !ok {
		return "", false
	}
	return row.Category, true
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	m.log.WithField("action", action.Type()).Trace("processAction")

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.ToggleCategoryAction:
		if c, ok := m.currentCategory(); ok {
			m.setExpanded(c, !m.state.ExpandedCategories[c])
		}

	case inputtypes.ToggleItemAction:
		row, ok := m.state.CurrentRow()
		if !ok || row.Kind != logic.RowItem {
			return nil
		}
		if _, err := m.session.Toggle(row.Category, row.Item.ID); err != nil {
			return m.selectionError(err)
		}

	case inputtypes.SelectAllAction:
		return m.bulkSelect(true)

	case inputtypes.SelectNoneAction:
		return m.bulkSelect(false)

	case inputtypes.UpdateTextAction:
		if m.inputHandler.CurrentMode() == inputtypes.ModeFilter {
			m.state.FilterQuery = a.Text
			m.state.SelectedIndex = 0
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeFilter:
			m.state.FilterQuery = a.Text
		case inputtypes.ModeNewGroup:
			return m.createGroup(a.Text)
		}

	case inputtypes.SubmitScenarioAction:
		return m.createScenario(a.Draft)

	case inputtypes.CancelTextAction:
		// filtering is live, so cancelling the prompt drops the filter
		if a.Mode == inputtypes.ModeFilter {
			m.state.FilterQuery = ""
		}

	case inputtypes.ClearFilterAction:
		m.state.FilterQuery = ""

	case inputtypes.ShowPickerAction:
		m.openPicker(a.Mode, a.Index)

	case inputtypes.UpdatePickerIndexAction:
		m.state.PickerIndex = a.Index

	case inputtypes.HidePickerAction:
		m.state.PickerTitle = ""
		m.state.PickerOptions = nil
		m.state.PickerIndex = 0

	case inputtypes.PickAction:
		return m.pick(a.Mode, a.Index)

	case inputtypes.RequestDeleteScenarioAction:
		sc, ok := m.session.ActiveScenario()
		if !ok {
			return m.setStatus(state.StatusWarning, "No active scenario to delete")
		}
		if !m.config.UISettings.ConfirmDelete {
			return m.deleteScenario(sc)
		}
		actions, cmd := m.inputHandler.ChangeMode(inputtypes.ModeDeleteConfirm, m.inputContext())
		cmds := []tea.Cmd{cmd}
		for _, act := range actions {
			cmds = append(cmds, m.processAction(act))
		}
		return tea.Batch(cmds...)

	case inputtypes.DeleteScenarioAction:
		if sc, ok := m.session.ActiveScenario(); ok {
			return m.deleteScenario(sc)
		}

	case inputtypes.RunAction:
		if !m.session.RunOpen() {
			return m.setStatus(state.StatusWarning, userMessage(herrors.RunBlocked()))
		}
		if m.state.Running {
			return nil
		}
		m.state.Running = true
		return m.runSimulation()

	case inputtypes.ShowDetailsAction:
		return m.showDetails()

	case inputtypes.ShowHelpAction:
		return m.showInPager(m.helpRenderer.RenderHelpContent())

	case inputtypes.ReloadAction:
		return m.reload()

	case inputtypes.ReloadCategoryAction:
		if c, ok := m.currentCategory(); ok {
			return m.refreshCategory(c)
		}

	case inputtypes.QuitAction:
		if a.Force || !m.config.UISettings.AutosaveOnExit {
			return func() tea.Msg { return quitMsg{} }
		}
		m.state.SetStatus(state.StatusInfo, "Saving...")
		return m.flushAndQuit()
	}

	return nil
}

func (m *Model) navigate(direction string) {
	m.syncNavigator()
	switch direction {
	case "up":
		m.navigator.Move(-1)
	case "down":
		m.navigator.Move(1)
	case "pageup":
		m.navigator.PageUp()
	case "pagedown":
		m.navigator.PageDown()
	case "home":
		m.navigator.SetSelectedIndex(0)
	case "end":
		m.navigator.SetSelectedIndex(m.navigator.MaxIndex())
	case "left":
		if c, ok := m.currentCategory(); ok {
			m.setExpanded(c, false)
			return
		}
	case "right":
		if c, ok := m.currentCategory(); ok {
			m.setExpanded(c, true)
			return
		}
	}
	m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Position()
}

// setExpanded folds or unfolds a category and parks the cursor on its header
func (m *Model) setExpanded(c domain.Category, expanded bool) {
	m.state.ExpandedCategories[c] = expanded
	m.state.Rows = m.rows.Build(m.state.ExpandedCategories, m.state.FilterQuery)
	if idx := m.state.FindCategoryRow(c); idx >= 0 && !expanded {
		m.state.SelectedIndex = idx
	}
}

// bulkSelect applies select all / none to the visible scope of the current
// category
func (m *Model) bulkSelect(on bool) tea.Cmd {
	c, ok := m.currentCategory()
	if !ok {
		return nil
	}
	scope := m.rows.Scope(c, m.state.FilterQuery)

	var (
		change selection.Change
		err    error
	)
	if on {
		change, err = m.session.SelectAll(scope)
	} else {
		change, err = m.session.SelectNone(scope)
	}
	if err != nil {
		return m.selectionError(err)
	}

	switch {
	case on && len(change.Added) > 0:
		return m.setStatus(state.StatusInfo, fmt.Sprintf("Selected %d %s", len(change.Added), c.Label()))
	case !on && len(change.Removed) > 0:
		return m.setStatus(state.StatusInfo, fmt.Sprintf("Deselected %d %s", len(change.Removed), c.Label()))
	}
	return nil
}

// selectionError surfaces a rejected selection edit in the status line
func (m *Model) selectionError(err error) tea.Cmd {
	switch herrors.GetCode(err) {
	case herrors.ErrCodeNoActiveGroup:
		return m.setStatus(state.StatusWarning, userMessage(err)+" (press g)")
	case herrors.ErrCodeUnknownItem:
		return m.setStatus(state.StatusWarning, userMessage(err))
	}
	m.log.WithError(err).Error("selection edit failed")
	return m.setStatus(state.StatusError, userMessage(err))
}

func (m *Model) openPicker(mode inputtypes.Mode, index int) {
	m.state.PickerOptions = nil
	switch mode {
	case inputtypes.ModeGroupPicker:
		m.state.PickerTitle = "Infrastructure group"
		for _, g := range m.state.Groups {
			m.state.PickerOptions = append(m.state.PickerOptions, state.PickerOption{ID: g.ID, Label: g.Name})
		}
	case inputtypes.ModeScenarioPicker:
		m.state.PickerTitle = "Scenario"
		for _, s := range m.state.Scenarios {
			m.state.PickerOptions = append(m.state.PickerOptions, state.PickerOption{ID: s.ID, Label: s.Name})
		}
	}
	m.state.PickerIndex = index
}

func (m *Model) pick(mode inputtypes.Mode, index int) tea.Cmd {
	switch mode {
	case inputtypes.ModeGroupPicker:
		if index < 0 || index >= len(m.state.Groups) {
			return nil
		}
		g := m.state.Groups[index]
		m.state.Switching = true
		return m.switchGroup(g)

	case inputtypes.ModeScenarioPicker:
		if index < 0 || index >= len(m.state.Scenarios) {
			return nil
		}
		sc := m.state.Scenarios[index]
		m.session.SetScenario(&sc)
		return m.setStatus(state.StatusInfo, fmt.Sprintf("Scenario %s active", sc.Name))
	}
	return nil
}

func (m *Model) setStatus(level state.StatusLevel, msg string) tea.Cmd {
	m.state.SetStatus(level, msg)
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// handleNonKeyboardMsg processes command results and forwarded events
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case EventMsg:
		return m.handleEvent(msg.Event)

	case tickMsg:
		if m.inPagerMode || !(m.state.IsLoading() || m.state.Switching || m.state.Running) {
			m.ticking = false
			return nil
		}
		return tick()

	case catalogLoadedMsg:
		for _, r := range msg.results {
			delete(m.state.LoadingCategories, r.Category)
			if r.Err != nil {
				m.state.LoadErrors[r.Category] = userMessage(r.Err)
			} else {
				delete(m.state.LoadErrors, r.Category)
			}
		}
		if msg.err != nil {
			m.state.LoadingCategories = make(map[domain.Category]bool)
			return m.setStatus(state.StatusError, "Loading infrastructures failed: "+userMessage(msg.err))
		}
		if len(m.state.LoadErrors) > 0 {
			return m.setStatus(state.StatusWarning, fmt.Sprintf("%d categories failed to load", len(m.state.LoadErrors)))
		}

	case groupsLoadedMsg:
		if msg.err != nil {
			return m.setStatus(state.StatusError, "Loading groups failed: "+userMessage(msg.err))
		}
		m.state.Groups = msg.groups

	case scenariosLoadedMsg:
		if msg.err != nil {
			return m.setStatus(state.StatusError, "Loading scenarios failed: "+userMessage(msg.err))
		}
		m.state.Scenarios = msg.scenarios

	case groupSwitchedMsg:
		m.state.Switching = false
		if errors.Is(msg.err, synchronizer.ErrSwitchSuperseded) || errors.Is(msg.err, context.Canceled) {
			return nil
		}
		if msg.err != nil {
			return m.setStatus(state.StatusError, fmt.Sprintf("Could not open %s: %s", msg.group.Name, userMessage(msg.err)))
		}
		return m.setStatus(state.StatusSuccess, fmt.Sprintf("Group %s: %s", msg.group.Name, m.session.Store().Summary()))

	case groupCreatedMsg:
		if msg.err != nil {
			if herrors.Is(msg.err, herrors.ErrCodeInvalidInput) {
				return m.setStatus(state.StatusWarning, "Group name is empty, nothing created")
			}
			return m.setStatus(state.StatusError, "Creating group failed: "+userMessage(msg.err))
		}
		m.state.Groups = m.groups.All()
		return m.setStatus(state.StatusSuccess, fmt.Sprintf("Group %s created, press g to open it", msg.group.Name))

	case scenarioCreatedMsg:
		if msg.err != nil {
			if herrors.Is(msg.err, herrors.ErrCodeInvalidInput) {
				return m.setStatus(state.StatusWarning, "Scenario not created: "+userMessage(msg.err))
			}
			return m.setStatus(state.StatusError, "Creating scenario failed: "+userMessage(msg.err))
		}
		m.state.Scenarios = m.scenarios.All()
		return m.setStatus(state.StatusSuccess, fmt.Sprintf("Scenario %s created, press s to choose it", msg.scenario.Name))

	case categoryRefreshedMsg:
		r := msg.result
		delete(m.state.LoadingCategories, r.Category)
		if r.Err != nil {
			m.state.LoadErrors[r.Category] = userMessage(r.Err)
			return m.setStatus(state.StatusError, fmt.Sprintf("Refreshing %s failed: %s", r.Category.Label(), userMessage(r.Err)))
		}
		delete(m.state.LoadErrors, r.Category)
		if r.Count == 0 {
			return m.setStatus(state.StatusInfo, "No new items in "+r.Category.Label())
		}
		return m.setStatus(state.StatusSuccess, fmt.Sprintf("New items in %s: %d", r.Category.Label(), r.Count))

	case scenarioDeletedMsg:
		if msg.err != nil {
			return m.setStatus(state.StatusError, "Deleting scenario failed: "+userMessage(msg.err))
		}
		m.session.ScenarioDeleted(msg.id)
		m.state.Scenarios = m.scenarios.All()
		return m.setStatus(state.StatusSuccess, "Scenario deleted")

	case runFinishedMsg:
		m.state.Running = false
		switch {
		case msg.err == nil:
			return m.setStatus(state.StatusSuccess, "Simulation launched")
		case herrors.Is(msg.err, herrors.ErrCodeNotImplemented):
			return m.setStatus(state.StatusWarning, "Simulation: feature not implemented")
		case herrors.Is(msg.err, herrors.ErrCodeRunBlocked):
			return m.setStatus(state.StatusWarning, userMessage(msg.err))
		}
		return m.setStatus(state.StatusError, "Simulation failed: "+userMessage(msg.err))

	case detailsMsg:
		if msg.err != nil {
			return m.setStatus(state.StatusError, "Loading details failed: "+userMessage(msg.err))
		}
		return m.showInPager(msg.content)

	case pagerMsg:
		if msg.err != nil {
			// the pager could not take the terminal, show the popup instead
			m.log.WithError(msg.err).Debug("pager unavailable, using popup")
			m.state.ShowInfo = true
			m.state.InfoContent = msg.content
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m.startTick()

	case clearStatusMsg:
		m.state.ClearStatus()

	case quitMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Error("final save failed")
		}
		return tea.Quit
	}
	return nil
}

// handleEvent reacts to domain events forwarded from the bus
func (m *Model) handleEvent(event domain.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.ItemsLoadedEvent:
		delete(m.state.LoadingCategories, e.Category)
		delete(m.state.LoadErrors, e.Category)

	case domain.GroupsLoadedEvent:
		m.state.Groups = e.Groups

	case domain.GroupAddedEvent:
		m.state.Groups = m.groups.All()

	case domain.ScenariosLoadedEvent:
		m.state.Scenarios = e.Scenarios

	case domain.ScenarioDeletedEvent:
		m.state.Scenarios = m.scenarios.All()

	case domain.PersistFailedEvent:
		return m.setStatus(state.StatusError, "Save failed: "+userMessage(e.Err))

	case domain.ErrorEvent:
		return m.setStatus(state.StatusError, e.Message)
	}
	return nil
}

// userMessage strips the code prefix from coded errors
func userMessage(err error) string {
	var e *herrors.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
