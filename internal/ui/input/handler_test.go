package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmoniq/internal/domain"
	"harmoniq/internal/ui/input/types"
	"harmoniq/internal/ui/state"
)

func testContext() *ModelContext {
	return &ModelContext{State: state.NewAppState(domain.AllCategories())}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// submit types text into the current text mode and returns the actions of enter
func submit(t *testing.T, h *Handler, ctx types.Context, text string) []types.Action {
	t.Helper()
	h.HandleKey(runes(text), ctx)
	actions, _ := h.HandleKey(enter, ctx)
	return actions
}

func TestNewGroupNameIsNormalized(t *testing.T) {
	h := New()
	ctx := testContext()

	h.HandleKey(runes("N"), ctx)
	require.Equal(t, types.ModeNewGroup, h.CurrentMode())

	actions := submit(t, h, ctx, "  North   sea  ")
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SubmitTextAction{Text: "North sea", Mode: types.ModeNewGroup}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestFilterSubmitIsTrimmed(t *testing.T) {
	h := New()
	ctx := testContext()

	h.HandleKey(runes("/"), ctx)
	actions := submit(t, h, ctx, " cape ")
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SubmitTextAction{Text: "cape", Mode: types.ModeFilter}, actions[0])
}

func TestScenarioFormWalksFields(t *testing.T) {
	h := New()
	ctx := testContext()

	actions, _ := h.HandleKey(runes("n"), ctx)
	require.Equal(t, types.ModeNewScenario, h.CurrentMode())
	assert.Empty(t, actions)
	assert.Contains(t, h.Prompt(), "1/7")

	answers := []string{" Winter peak ", "cold snap", "2035-01-01", "2035-03-01", "p1d", "average", ""}
	for i, a := range answers[:len(answers)-1] {
		got := submit(t, h, ctx, a)
		assert.Empty(t, got, "field %d", i+1)
		assert.Equal(t, types.ModeNewScenario, h.CurrentMode())
	}
	assert.Contains(t, h.Prompt(), "7/7")
	assert.Empty(t, h.TextInput().Value(), "each field starts empty")

	actions, _ = h.HandleKey(enter, ctx)
	require.NotEmpty(t, actions)
	sub, ok := actions[0].(types.SubmitScenarioAction)
	require.True(t, ok)
	assert.Equal(t, domain.Scenario{
		Name:               "Winter peak",
		Description:        "cold snap",
		Start:              "2035-01-01",
		End:                "2035-03-01",
		Step:               "P1D",
		SocialOptimism:     domain.OptimismAverage,
		EcologicalOptimism: domain.OptimismAverage,
	}, sub.Draft)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestScenarioFormRestartsAfterCancel(t *testing.T) {
	h := New()
	ctx := testContext()

	h.HandleKey(runes("n"), ctx)
	for _, a := range []string{"first", "desc", "2035-01-01", "2035-02-01"} {
		submit(t, h, ctx, a)
	}
	require.Contains(t, h.Prompt(), "time step")
	assert.Equal(t, "PT1H", h.TextInput().Placeholder)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.CancelTextAction{Mode: types.ModeNewScenario}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())

	h.HandleKey(runes("/"), ctx)
	assert.Empty(t, h.TextInput().Placeholder, "defaults do not leak into the filter")
	h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)

	h.HandleKey(runes("n"), ctx)
	assert.Contains(t, h.Prompt(), "1/7")
}
