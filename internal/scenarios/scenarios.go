package scenarios

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"harmoniq/internal/domain"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/logging"
)

// Backend is the scenario part of the REST client
type Backend interface {
	List(ctx context.Context) ([]domain.Scenario, error)
	Get(ctx context.Context, id int) (*domain.Scenario, error)
	Create(ctx context.Context, draft domain.Scenario) (*domain.Scenario, error)
	Delete(ctx context.Context, id int) error
}

// Directory caches the scenario list and scenario details
type Directory struct {
	backend Backend
	bus     eventbus.EventBus
	log     *logrus.Entry

	mu      sync.RWMutex
	list    []domain.Scenario
	details map[int]domain.Scenario
}

// NewDirectory creates an empty directory
func NewDirectory(backend Backend, bus eventbus.EventBus, log *logrus.Entry) *Directory {
	if log == nil {
		log = logging.Discard()
	}
	return &Directory{
		backend: backend,
		bus:     bus,
		log:     log,
		details: make(map[int]domain.Scenario),
	}
}

// Load replaces the list with the server's and drops cached details
func (d *Directory) Load(ctx context.Context) ([]domain.Scenario, error) {
	list, err := d.backend.List(ctx)
	if err != nil {
		d.log.WithError(err).Warn("failed to load scenarios")
		return nil, err
	}

	d.mu.Lock()
	d.list = append([]domain.Scenario(nil), list...)
	d.details = make(map[int]domain.Scenario)
	out := append([]domain.Scenario(nil), d.list...)
	d.mu.Unlock()

	if d.bus != nil {
		d.bus.Publish(domain.ScenariosLoadedEvent{Scenarios: out})
	}
	return out, nil
}

// All returns the cached list
func (d *Directory) All() []domain.Scenario {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.Scenario(nil), d.list...)
}

// Get returns a scenario's details, fetching them once
func (d *Directory) Get(ctx context.Context, id int) (domain.Scenario, error) {
	d.mu.RLock()
	s, ok := d.details[id]
	d.mu.RUnlock()
	if ok {
		return s, nil
	}

	fetched, err := d.backend.Get(ctx, id)
	if err != nil {
		d.log.WithError(err).WithField("scenario_id", id).Warn("failed to fetch scenario")
		return domain.Scenario{}, err
	}

	d.mu.Lock()
	d.details[id] = *fetched
	d.mu.Unlock()
	return *fetched, nil
}

// Create validates and stores a new scenario
func (d *Directory) Create(ctx context.Context, draft domain.Scenario) (domain.Scenario, error) {
	if err := Validate(draft); err != nil {
		return domain.Scenario{}, err
	}

	created, err := d.backend.Create(ctx, draft)
	if err != nil {
		d.log.WithError(err).WithField("name", draft.Name).Warn("failed to create scenario")
		return domain.Scenario{}, err
	}

	d.mu.Lock()
	d.list = append(d.list, *created)
	d.details[created.ID] = *created
	d.mu.Unlock()

	d.log.WithField("scenario_id", created.ID).Info("scenario created")
	return *created, nil
}

// Delete removes a scenario on the server and from the cache
func (d *Directory) Delete(ctx context.Context, id int) error {
	if err := d.backend.Delete(ctx, id); err != nil {
		d.log.WithError(err).WithField("scenario_id", id).Warn("failed to delete scenario")
		return err
	}

	d.mu.Lock()
	for i, s := range d.list {
		if s.ID == id {
			d.list = append(d.list[:i:i], d.list[i+1:]...)
			break
		}
	}
	delete(d.details, id)
	d.mu.Unlock()

	d.log.WithField("scenario_id", id).Info("scenario deleted")
	if d.bus != nil {
		d.bus.Publish(domain.ScenarioDeletedEvent{ID: id})
	}
	return nil
}
