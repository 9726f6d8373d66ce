package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"harmoniq/internal/domain"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/logging"
)

// Lister fetches the items of one category
type Lister interface {
	List(ctx context.Context, category domain.Category, endpoint string) ([]domain.Item, error)
}

// Sink receives loaded items
type Sink interface {
	SetItems(category domain.Category, items []domain.Item) error
	AppendItem(item domain.Item) error
	Item(category domain.Category, id int) (domain.Item, bool)
}

// EndpointFunc resolves the list endpoint of a category
type EndpointFunc func(domain.Category) string

// Loader fills the selection store with every category's items
type Loader struct {
	lister      Lister
	sink        Sink
	bus         eventbus.EventBus
	log         *logrus.Entry
	endpoint    EndpointFunc
	concurrency int

	mu         sync.Mutex
	isLoading  bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Option configures a Loader
type Option func(*Loader)

// WithBus publishes ItemsLoaded and Error events
func WithBus(bus eventbus.EventBus) Option {
	return func(l *Loader) { l.bus = bus }
}

// WithLogger sets the logger entry
func WithLogger(log *logrus.Entry) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithEndpoints overrides category endpoints
func WithEndpoints(fn EndpointFunc) Option {
	return func(l *Loader) {
		if fn != nil {
			l.endpoint = fn
		}
	}
}

// WithConcurrency bounds parallel list requests
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader creates a loader
func NewLoader(lister Lister, sink Sink, opts ...Option) *Loader {
	l := &Loader{
		lister:      lister,
		sink:        sink,
		log:         logging.Discard(),
		endpoint:    domain.Category.Endpoint,
		concurrency: 5,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the outcome of one category
type Result struct {
	Category domain.Category
	Count    int
	Err      error
}

// Load fetches the given categories concurrently. A failing category does not
// stop the others; its error is reported in its Result.
func (l *Loader) Load(ctx context.Context, categories []domain.Category) ([]Result, error) {
	l.mu.Lock()
	if l.isLoading {
		l.mu.Unlock()
		return nil, fmt.Errorf("catalog load already in progress")
	}
	l.isLoading = true
	loadCtx, cancel := context.WithCancel(ctx)
	l.cancelFunc = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		l.isLoading = false
		l.cancelFunc = nil
		l.mu.Unlock()
		l.wg.Done()
	}()

	results := make([]Result, len(categories))
	g, gctx := errgroup.WithContext(loadCtx)
	g.SetLimit(l.concurrency)

	for i, c := range categories {
		g.Go(func() error {
			results[i] = l.loadOne(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := loadCtx.Err(); err != nil && ctx.Err() != nil {
		return results, err
	}
	return results, nil
}

// Reload fetches one category again and appends the items the sink does not
// know yet. Listed items are never replaced, so the rendered order and the
// selection stay as they are. Count in the Result is the number added.
func (l *Loader) Reload(ctx context.Context, category domain.Category) Result {
	entry := l.log.WithField("category", category)
	endpoint := l.endpoint(category)

	items, err := l.lister.List(ctx, category, endpoint)
	if err != nil {
		entry.WithError(err).WithField("endpoint", endpoint).Warn("failed to refresh items")
		l.publishError(category, err)
		return Result{Category: category, Err: err}
	}

	added := 0
	for _, it := range items {
		if _, ok := l.sink.Item(category, it.ID); ok {
			continue
		}
		it.Category = category
		if err := l.sink.AppendItem(it); err != nil {
			entry.WithError(err).WithField("id", it.ID).Warn("item not added")
			continue
		}
		added++
	}

	entry.WithField("added", added).Debug("items refreshed")
	if l.bus != nil {
		l.bus.Publish(domain.ItemsLoadedEvent{Category: category, Count: added})
	}
	return Result{Category: category, Count: added}
}

// Stop cancels a running Load and waits for it
func (l *Loader) Stop() {
	l.mu.Lock()
	if l.cancelFunc != nil {
		l.cancelFunc()
	}
	l.mu.Unlock()

	l.wg.Wait()
}

func (l *Loader) loadOne(ctx context.Context, c domain.Category) Result {
	entry := l.log.WithField("category", c)
	endpoint := l.endpoint(c)

	items, err := l.lister.List(ctx, c, endpoint)
	if err == nil {
		err = l.sink.SetItems(c, items)
	}
	if err != nil {
		entry.WithError(err).WithField("endpoint", endpoint).Warn("failed to load items")
		l.publishError(c, err)
		return Result{Category: c, Err: err}
	}

	entry.WithField("count", len(items)).Debug("items loaded")
	if l.bus != nil {
		l.bus.Publish(domain.ItemsLoadedEvent{Category: c, Count: len(items)})
	}
	return Result{Category: c, Count: len(items)}
}

func (l *Loader) publishError(c domain.Category, err error) {
	if l.bus != nil {
		l.bus.Publish(domain.ErrorEvent{
			Message: fmt.Sprintf("could not load %s", c.Label()),
			Err:     err,
		})
	}
}
