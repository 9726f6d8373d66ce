package groups

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/eventbus"
)

type fakeBackend struct {
	groups  []domain.Group
	listErr error
	created []string
	nextID  int
}

func (f *fakeBackend) List(ctx context.Context) ([]domain.Group, error) {
	return f.groups, f.listErr
}

func (f *fakeBackend) Create(ctx context.Context, name string) (*domain.Group, error) {
	f.created = append(f.created, name)
	f.nextID++
	return &domain.Group{ID: 100 + f.nextID, Name: name}, nil
}

func TestLoadKeepsServerOrder(t *testing.T) {
	backend := &fakeBackend{groups: []domain.Group{{ID: 5, Name: "East"}, {ID: 2, Name: "West"}}}
	dir := NewDirectory(backend, nil, nil)

	groups, err := dir.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, backend.groups, groups)
	assert.Equal(t, backend.groups, dir.All())

	g, ok := dir.Get(2)
	require.True(t, ok)
	assert.Equal(t, "West", g.Name)
	_, ok = dir.Get(9)
	assert.False(t, ok)
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	backend := &fakeBackend{groups: []domain.Group{{ID: 1, Name: "A"}}}
	dir := NewDirectory(backend, nil, nil)
	_, err := dir.Load(context.Background())
	require.NoError(t, err)

	backend.listErr = errors.New("offline")
	_, err = dir.Load(context.Background())
	require.Error(t, err)
	assert.Len(t, dir.All(), 1)
}

func TestCreate(t *testing.T) {
	backend := &fakeBackend{groups: []domain.Group{{ID: 1, Name: "A"}}}
	bus := eventbus.New()
	defer bus.Close()

	var mu sync.Mutex
	var added []domain.Group
	bus.Subscribe(domain.EventGroupAdded, func(e eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		added = append(added, e.(domain.GroupAddedEvent).Group)
	})

	dir := NewDirectory(backend, bus, nil)
	_, err := dir.Load(context.Background())
	require.NoError(t, err)

	g, err := dir.Create(context.Background(), "  Highlands ")
	require.NoError(t, err)
	assert.Equal(t, "Highlands", g.Name)
	assert.Equal(t, []string{"Highlands"}, backend.created)

	all := dir.All()
	require.Len(t, all, 2)
	assert.Equal(t, g, all[1])

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(added) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCreateRejectsBlankName(t *testing.T) {
	backend := &fakeBackend{}
	dir := NewDirectory(backend, nil, nil)

	for _, name := range []string{"", "   "} {
		_, err := dir.Create(context.Background(), name)
		assert.True(t, herrors.Is(err, herrors.ErrCodeInvalidInput))
	}
	assert.Empty(t, backend.created)
	assert.Empty(t, dir.All())
}
