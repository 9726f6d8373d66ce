package modes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"harmoniq/internal/domain"
	"harmoniq/internal/scenarios"
	"harmoniq/internal/ui/input/types"
)

type scenarioField struct {
	label string
	hint  string
	def   string
	set   func(*domain.Scenario, string)
}

var scenarioFields = []scenarioField{
	{label: "name", set: func(s *domain.Scenario, v string) { s.Name = v }},
	{label: "description", set: func(s *domain.Scenario, v string) { s.Description = v }},
	{label: "start", hint: "YYYY-MM-DD", set: func(s *domain.Scenario, v string) { s.Start = v }},
	{label: "end", hint: "YYYY-MM-DD", set: func(s *domain.Scenario, v string) { s.End = v }},
	{
		label: "time step", hint: strings.Join(domain.TimeSteps, " "), def: "PT1H",
		set: func(s *domain.Scenario, v string) { s.Step = strings.ToUpper(v) },
	},
	{
		label: "social optimism", hint: "1-3", def: "2",
		set: func(s *domain.Scenario, v string) { s.SocialOptimism = scenarios.ParseOptimism(v) },
	},
	{
		label: "ecological optimism", hint: "1-3", def: "2",
		set: func(s *domain.Scenario, v string) { s.EcologicalOptimism = scenarios.ParseOptimism(v) },
	},
}

// ScenarioFormMode asks for the fields of a new scenario one after another
// in the shared text input. The draft is validated by the model on submit.
type ScenarioFormMode struct {
	TextInputMode
	step  int
	draft domain.Scenario
}

func NewScenarioFormMode(ti *textinput.Model) *ScenarioFormMode {
	return &ScenarioFormMode{
		TextInputMode: NewTextInputMode(types.ModeNewScenario, "new-scenario", "", ti),
	}
}

func (m *ScenarioFormMode) Enter(ctx types.Context) []types.Action {
	m.step = 0
	m.draft = domain.Scenario{}
	actions := m.TextInputMode.Enter(ctx)
	m.seed()
	return actions
}

func (m *ScenarioFormMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Placeholder = ""
	}
	return m.TextInputMode.Exit(ctx)
}

// Prompt names the field being asked for
func (m *ScenarioFormMode) Prompt() string {
	f := scenarioFields[m.step]
	label := f.label
	if f.hint != "" {
		label += " (" + f.hint + ")"
	}
	return fmt.Sprintf("New scenario %d/%d, %s: ", m.step+1, len(scenarioFields), label)
}

// Draft returns the fields entered so far
func (m *ScenarioFormMode) Draft() domain.Scenario {
	return m.draft
}

func (m *ScenarioFormMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.String() != "enter" {
		return m.TextInputMode.HandleKey(msg, ctx)
	}

	f := scenarioFields[m.step]
	v := m.Value()
	if v == "" {
		v = f.def
	}
	f.set(&m.draft, v)

	if m.step < len(scenarioFields)-1 {
		m.step++
		if m.textInput != nil {
			m.textInput.Reset()
		}
		m.seed()
		return nil, true
	}

	return []types.Action{
		types.SubmitScenarioAction{Draft: m.draft},
		types.ChangeModeAction{Mode: types.ModeNormal},
	}, true
}

// seed shows the default of the current field as a placeholder
func (m *ScenarioFormMode) seed() {
	if m.textInput != nil {
		m.textInput.Placeholder = scenarioFields[m.step].def
	}
}
