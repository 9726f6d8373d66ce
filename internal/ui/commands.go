package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"harmoniq/internal/domain"
	"harmoniq/internal/ui/logic"
	"harmoniq/internal/ui/state"
)

// loadCatalog fetches every category list
func (m *Model) loadCatalog() tea.Cmd {
	categories := m.session.Store().Categories()
	return func() tea.Msg {
		results, err := m.loader.Load(m.ctx, categories)
		return catalogLoadedMsg{results: results, err: err}
	}
}

func (m *Model) loadGroups() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.groups.Load(m.ctx)
		return groupsLoadedMsg{groups: groups, err: err}
	}
}

func (m *Model) loadScenarios() tea.Cmd {
	return func() tea.Msg {
		scenarios, err := m.scenarios.Load(m.ctx)
		return scenariosLoadedMsg{scenarios: scenarios, err: err}
	}
}

// switchGroup activates a group; the selection is replaced once its record
// arrives
func (m *Model) switchGroup(g domain.Group) tea.Cmd {
	return tea.Batch(m.startTick(), func() tea.Msg {
		err := m.session.SwitchGroup(m.ctx, g)
		return groupSwitchedMsg{group: g, err: err}
	})
}

func (m *Model) createGroup(name string) tea.Cmd {
	return func() tea.Msg {
		g, err := m.groups.Create(m.ctx, name)
		return groupCreatedMsg{group: g, err: err}
	}
}

func (m *Model) createScenario(draft domain.Scenario) tea.Cmd {
	return func() tea.Msg {
		sc, err := m.scenarios.Create(m.ctx, draft)
		return scenarioCreatedMsg{scenario: sc, err: err}
	}
}

// refreshCategory picks up items the server added to one category
func (m *Model) refreshCategory(c domain.Category) tea.Cmd {
	m.state.LoadingCategories[c] = true
	return tea.Batch(m.startTick(), func() tea.Msg {
		return categoryRefreshedMsg{result: m.loader.Reload(m.ctx, c)}
	})
}

func (m *Model) deleteScenario(sc domain.Scenario) tea.Cmd {
	return func() tea.Msg {
		err := m.scenarios.Delete(m.ctx, sc.ID)
		return scenarioDeletedMsg{id: sc.ID, err: err}
	}
}

func (m *Model) runSimulation() tea.Cmd {
	return tea.Batch(m.startTick(), func() tea.Msg {
		return runFinishedMsg{err: m.session.Run(m.ctx)}
	})
}

// reload refetches every list. An active group is fetched again so a
// selection the server rejected is replaced by the server's copy.
func (m *Model) reload() tea.Cmd {
	for _, c := range m.session.Store().Categories() {
		m.state.LoadingCategories[c] = true
	}
	cmds := []tea.Cmd{m.startTick(), m.loadCatalog(), m.loadGroups(), m.loadScenarios()}
	if g, ok := m.session.ActiveGroup(); ok {
		m.state.Switching = true
		cmds = append(cmds, func() tea.Msg {
			if err := m.session.Flush(m.ctx); err != nil {
				m.log.WithError(err).Warn("flush before reload failed")
			}
			return groupSwitchedMsg{group: g, err: m.session.SwitchGroup(m.ctx, g)}
		})
	}
	return tea.Batch(cmds...)
}

// showDetails opens the item under the cursor, or the active scenario when
// the cursor is on a header
func (m *Model) showDetails() tea.Cmd {
	if row, ok := m.state.CurrentRow(); ok && row.Kind == logic.RowItem {
		store := m.session.Store()
		group := ""
		if g, ok := store.ActiveGroup(); ok {
			group = g.Name
		}
		content := buildItemInfo(row.Item, store.IsActive(row.Category, row.Item.ID), group)
		return m.showInPager(content)
	}

	sc, ok := m.session.ActiveScenario()
	if !ok {
		return m.setStatus(state.StatusInfo, "Nothing to show: move to an item or choose a scenario")
	}
	return func() tea.Msg {
		full, err := m.scenarios.Get(m.ctx, sc.ID)
		if err != nil {
			return detailsMsg{err: err}
		}
		return detailsMsg{content: buildScenarioInfo(full)}
	}
}

// showInPager returns a command that shows content using the ov pager
func (m *Model) showInPager(content string) tea.Cmd {
	return func() tea.Msg {
		program := m.pager.program
		if program == nil {
			return pagerMsg{content: content, err: errNoProgram}
		}

		program.Send(pauseRenderingMsg{})
		err := m.pager.ShowInPager(content)
		program.Send(resumeRenderingMsg{})

		return pagerMsg{content: content, err: err}
	}
}

// flushAndQuit sends the pending selection before quitting
func (m *Model) flushAndQuit() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, flushTimeout)
		defer cancel()
		return quitMsg{err: m.session.Flush(ctx)}
	}
}

// startTick starts the spinner loop unless it is running
func (m *Model) startTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}
