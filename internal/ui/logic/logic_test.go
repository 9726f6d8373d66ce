package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmoniq/internal/domain"
	"harmoniq/internal/selection"
)

func testStore(t *testing.T) *selection.Store {
	t.Helper()
	store := selection.NewStore(selection.WithCategories(domain.CategoryWind, domain.CategoryHydro))
	require.NoError(t, store.SetItems(domain.CategoryWind, []domain.Item{
		{ID: 1, Name: "Mistral Ridge", Category: domain.CategoryWind},
		{ID: 2, Name: "North Cape", Category: domain.CategoryWind},
		{ID: 3, Name: "Gale Point", Category: domain.CategoryWind},
	}))
	require.NoError(t, store.SetItems(domain.CategoryHydro, []domain.Item{
		{ID: 7, Name: "Grand Dam", Category: domain.CategoryHydro},
	}))
	return store
}

func TestBuildRowsRespectsCollapse(t *testing.T) {
	b := NewRowBuilder(testStore(t))

	rows := b.Build(map[domain.Category]bool{domain.CategoryWind: true}, "")
	require.Len(t, rows, 5)
	assert.Equal(t, RowCategory, rows[0].Kind)
	assert.Equal(t, 3, rows[0].Count)
	assert.Equal(t, "North Cape", rows[2].Item.Name)
	assert.Equal(t, RowCategory, rows[4].Kind)
	assert.Equal(t, domain.CategoryHydro, rows[4].Category)
	assert.Equal(t, 1, rows[4].Count)
}

func TestBuildRowsFilter(t *testing.T) {
	b := NewRowBuilder(testStore(t))
	expanded := map[domain.Category]bool{domain.CategoryWind: true, domain.CategoryHydro: true}

	rows := b.Build(expanded, "cape")
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, 2, rows[1].Item.ID)

	rows = b.Build(expanded, "hydro")
	require.Len(t, rows, 2, "a matching header keeps its items")
	assert.Equal(t, domain.CategoryHydro, rows[0].Category)
}

func TestScope(t *testing.T) {
	b := NewRowBuilder(testStore(t))

	assert.Equal(t, selection.Whole(domain.CategoryWind), b.Scope(domain.CategoryWind, ""))

	scope := b.Scope(domain.CategoryWind, "point")
	assert.Equal(t, []int{3}, scope.IDs)

	scope = b.Scope(domain.CategoryWind, "nothing matches")
	assert.NotNil(t, scope.IDs)
	assert.Empty(t, scope.IDs)
}

func TestStateFilter(t *testing.T) {
	store := testStore(t)
	store.SetActiveGroup(&domain.Group{ID: 1, Name: "g"})
	_, err := store.Toggle(domain.CategoryWind, 2)
	require.NoError(t, err)

	f := NewSearchFilter(store)
	items := store.Items(domain.CategoryWind)
	assert.False(t, f.MatchesFilter(items[0], "is:selected"))
	assert.True(t, f.MatchesFilter(items[1], "is:selected"))
	assert.True(t, f.MatchesFilter(items[0], "is:unselected"))
	assert.True(t, f.MatchesFilter(items[2], "id:3"))
	assert.False(t, f.MatchesFilter(items[2], "id:x"))
}

func TestNavigator(t *testing.T) {
	n := NewNavigator()
	n.UpdateState(0, 0, 5, 20)

	n.Move(-1)
	idx, off := n.Position()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 0, off)

	n.SetSelectedIndex(10)
	idx, off = n.Position()
	assert.Equal(t, 10, idx)
	assert.LessOrEqual(t, off, 10)
	assert.Greater(t, off+5, 10)

	n.SetSelectedIndex(100)
	idx, _ = n.Position()
	assert.Equal(t, 19, idx)

	n.SetSelectedIndex(0)
	_, off = n.Position()
	assert.Equal(t, 0, off)
}
