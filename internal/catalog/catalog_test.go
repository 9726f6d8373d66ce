package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmoniq/internal/domain"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/selection"
)

type fakeLister struct {
	mu        sync.Mutex
	endpoints []string
	fail      map[domain.Category]error
	running   int32
	peak      int32
	delay     time.Duration
	extra     []domain.Item
}

func (f *fakeLister) List(ctx context.Context, c domain.Category, endpoint string) ([]domain.Item, error) {
	n := atomic.AddInt32(&f.running, 1)
	defer atomic.AddInt32(&f.running, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.endpoints = append(f.endpoints, endpoint)
	err := f.fail[c]
	extra := f.extra
	f.mu.Unlock()

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	items := []domain.Item{{ID: 1, Name: string(c) + " one"}, {ID: 2, Name: string(c) + " two"}}
	return append(items, extra...), nil
}

func TestLoadAllCategories(t *testing.T) {
	lister := &fakeLister{delay: 5 * time.Millisecond}
	store := selection.NewStore()
	loader := NewLoader(lister, store, WithConcurrency(2))

	results, err := loader.Load(context.Background(), domain.AllCategories())
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, c := range domain.AllCategories() {
		assert.Equal(t, c, results[i].Category)
		assert.Equal(t, 2, results[i].Count)
		assert.NoError(t, results[i].Err)
		assert.Len(t, store.Items(c), 2)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&lister.peak), int32(2))
	assert.ElementsMatch(t, []string{"eolienneparc", "solaire", "thermique", "nucleaire", "hydro"}, lister.endpoints)
}

func TestLoadKeepsGoingPastFailures(t *testing.T) {
	lister := &fakeLister{fail: map[domain.Category]error{domain.CategoryNuclear: errors.New("HTTP 500")}}
	store := selection.NewStore()
	bus := eventbus.New()
	defer bus.Close()

	var mu sync.Mutex
	var loaded []domain.Category
	var failures int
	bus.Subscribe(domain.EventItemsLoaded, func(e eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		loaded = append(loaded, e.(domain.ItemsLoadedEvent).Category)
	})
	bus.Subscribe(domain.EventError, func(e eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		failures++
	})

	loader := NewLoader(lister, store, WithBus(bus))
	results, err := loader.Load(context.Background(), domain.AllCategories())
	require.NoError(t, err)

	assert.Error(t, results[3].Err)
	assert.Empty(t, store.Items(domain.CategoryNuclear))
	assert.Len(t, store.Items(domain.CategoryHydro), 2)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(loaded) == 4 && failures == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEndpointOverride(t *testing.T) {
	lister := &fakeLister{}
	loader := NewLoader(lister, selection.NewStore(), WithEndpoints(func(c domain.Category) string {
		if c == domain.CategoryWind {
			return "parceolien"
		}
		return c.Endpoint()
	}))

	require.NoError(t, loader.Reload(context.Background(), domain.CategoryWind).Err)
	assert.Equal(t, []string{"parceolien"}, lister.endpoints)
}

func TestReloadAppendsOnlyNewItems(t *testing.T) {
	lister := &fakeLister{}
	store := selection.NewStore()
	loader := NewLoader(lister, store)

	_, err := loader.Load(context.Background(), []domain.Category{domain.CategoryWind})
	require.NoError(t, err)
	store.SetActiveGroup(&domain.Group{ID: 1})
	_, err = store.Toggle(domain.CategoryWind, 2)
	require.NoError(t, err)

	// the server now also lists item 5
	lister.mu.Lock()
	lister.extra = []domain.Item{{ID: 5, Name: "wind five"}}
	lister.mu.Unlock()

	res := loader.Reload(context.Background(), domain.CategoryWind)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Count)

	items := store.Items(domain.CategoryWind)
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 5}, []int{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, domain.CategoryWind, items[2].Category)
	assert.True(t, store.IsActive(domain.CategoryWind, 2), "selection survives a refresh")

	res = loader.Reload(context.Background(), domain.CategoryWind)
	require.NoError(t, res.Err)
	assert.Zero(t, res.Count)
	assert.Len(t, store.Items(domain.CategoryWind), 3)
}

func TestReloadFailureLeavesItems(t *testing.T) {
	lister := &fakeLister{}
	store := selection.NewStore()
	loader := NewLoader(lister, store)
	_, err := loader.Load(context.Background(), []domain.Category{domain.CategorySolar})
	require.NoError(t, err)

	lister.mu.Lock()
	lister.fail = map[domain.Category]error{domain.CategorySolar: errors.New("HTTP 502")}
	lister.mu.Unlock()

	res := loader.Reload(context.Background(), domain.CategorySolar)
	assert.Error(t, res.Err)
	assert.Len(t, store.Items(domain.CategorySolar), 2)
}

func TestStopCancelsLoad(t *testing.T) {
	lister := &fakeLister{delay: time.Hour}
	loader := NewLoader(lister, selection.NewStore())

	done := make(chan []Result, 1)
	go func() {
		results, _ := loader.Load(context.Background(), domain.AllCategories())
		done <- results
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.running) > 0 }, time.Second, time.Millisecond)
	loader.Stop()

	select {
	case results := <-done:
		for _, r := range results {
			if r.Category != "" {
				assert.ErrorIs(t, r.Err, context.Canceled)
			}
		}
	case <-time.After(time.Second):
		t.Fatal("load did not stop")
	}
}

func TestConcurrentLoadRejected(t *testing.T) {
	lister := &fakeLister{delay: 50 * time.Millisecond}
	loader := NewLoader(lister, selection.NewStore())

	go loader.Load(context.Background(), []domain.Category{domain.CategoryWind})
	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.running) > 0 }, time.Second, time.Millisecond)

	_, err := loader.Load(context.Background(), []domain.Category{domain.CategorySolar})
	assert.Error(t, err)
	loader.Stop()
}
