package groups

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/logging"
)

// Backend lists and creates groups
type Backend interface {
	List(ctx context.Context) ([]domain.Group, error)
	Create(ctx context.Context, name string) (*domain.Group, error)
}

// Directory is the client-side list of infrastructure groups
type Directory struct {
	backend Backend
	bus     eventbus.EventBus
	log     *logrus.Entry

	mu     sync.RWMutex
	groups []domain.Group // server order
	byID   map[int]int    // id -> index
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
		byID:    make(map[int]int),
	}
}

// Load replaces the directory with the server's list
func (d *Directory) Load(ctx context.Context) ([]domain.Group, error) {
	groups, err := d.backend.List(ctx)
	if err != nil {
		d.log.WithError(err).Warn("failed to load groups")
		return nil, err
	}

	d.mu.Lock()
	d.groups = nil
	d.byID = make(map[int]int, len(groups))
	for _, g := range groups {
		d.addLocked(g)
	}
	out := d.allLocked()
	d.mu.Unlock()

	d.log.WithField("count", len(out)).Debug("groups loaded")
	if d.bus != nil {
		d.bus.Publish(domain.GroupsLoadedEvent{Groups: out})
	}
	return out, nil
}

// All returns every group in server order
func (d *Directory) All() []domain.Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.allLocked()
}

func (d *Directory) allLocked() []domain.Group {
	return append([]domain.Group(nil), d.groups...)
}

// Get looks up a group by id
func (d *Directory) Get(id int) (domain.Group, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.byID[id]
	if !ok {
		return domain.Group{}, false
	}
	return d.groups[i], true
}

// Create adds an empty group on the server and appends it. The new group is
// not activated.
func (d *Directory) Create(ctx context.Context, name string) (domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, herrors.InvalidInput("group name is empty")
	}

	created, err := d.backend.Create(ctx, name)
	if err != nil {
		d.log.WithError(err).WithField("name", name).Warn("failed to create group")
		return domain.Group{}, err
	}

	d.mu.Lock()
	d.addLocked(*created)
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{"group_id": created.ID, "name": created.Name}).Info("group created")
	if d.bus != nil {
		d.bus.Publish(domain.GroupAddedEvent{Group: *created})
	}
	return *created, nil
}

// addLocked appends or replaces a group (must be called with lock held)
func (d *Directory) addLocked(g domain.Group) {
	if i, ok := d.byID[g.ID]; ok {
		d.groups[i] = g
		return
	}
	d.byID[g.ID] = len(d.groups)
	d.groups = append(d.groups, g)
}
