package synchronizer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"harmoniq/internal/api"
	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/logging"
	"harmoniq/internal/selection"
)

// DefaultDelay is the debounce window between the last mutation and the PUT
const DefaultDelay = 800 * time.Millisecond

// ErrSwitchSuperseded is returned by SwitchGroup when a newer switch started
// before this one's fetch completed.
var ErrSwitchSuperseded = errors.New("group switch superseded")

// GroupBackend reads and writes group records
type GroupBackend interface {
	Get(ctx context.Context, id int) (*domain.GroupRecord, error)
	Update(ctx context.Context, id int, record domain.GroupRecord) error
}

// SimulationBackend launches simulations
type SimulationBackend interface {
	LaunchSimulation(ctx context.Context, scenarioID, groupID int) error
}

// Session owns the active group, the active scenario and the pending persist
// of one user session.
type Session struct {
	store  *selection.Store
	groups GroupBackend
	sims   SimulationBackend
	delay  time.Duration
	bus    eventbus.EventBus
	log    *logrus.Entry

	mu          sync.Mutex
	timer       *time.Timer
	gen         uint64 // bumped on every schedule and cancel
	firedGen    uint64
	switchSeq   uint64
	root        context.Context
	cancelRoot  context.CancelFunc
	scope       context.Context // cancelled when the active group changes
	cancelScope context.CancelFunc
	scenario    *domain.Scenario
	state       SyncState
	lastErr     error
	closed      bool

	persistMu sync.Mutex // one PUT at a time
	inflight  sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithDelay sets the debounce window
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithBus publishes session events on the bus
func WithBus(bus eventbus.EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithLogger sets the logger entry
func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSimulations enables Run
func WithSimulations(sims SimulationBackend) Option {
	return func(s *Session) { s.sims = sims }
}

// NewSession creates a session over a store
func NewSession(store *selection.Store, groups GroupBackend, opts ...Option) *Session {
	s := &Session{
		store:  store,
		groups: groups,
		delay:  DefaultDelay,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.root, s.cancelRoot = context.WithCancel(context.Background())
	s.scope, s.cancelScope = context.WithCancel(s.root)
	return s
}

// Store returns the selection store
func (s *Session) Store() *selection.Store {
	return s.store
}

func (s *Session) publish(e domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// Toggle flips one item and schedules a persist
func (s *Session) Toggle(c domain.Category, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	on, err := s.store.Toggle(c, id)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"category": c, "id": id}).Debug("toggle rejected")
		return false, err
	}

	change := domain.SelectionChangedEvent{Category: c}
	if on {
		change.Added = []int{id}
	} else {
		change.Removed = []int{id}
	}
	s.publish(change)
	s.scheduleLocked()
	return on, nil
}

// SelectAll activates every item in scope and schedules a persist
func (s *Session) SelectAll(scope selection.Scope) (selection.Change, error) {
	return s.mutateScope(scope, s.store.SelectAll)
}

// SelectNone deactivates every item in scope and schedules a persist
func (s *Session) SelectNone(scope selection.Scope) (selection.Change, error) {
	return s.mutateScope(scope, s.store.SelectNone)
}

func (s *Session) mutateScope(scope selection.Scope, apply func(selection.Scope) (selection.Change, error)) (selection.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := apply(scope)
	if err != nil {
		s.log.WithError(err).WithField("category", scope.Category).Debug("scope mutation rejected")
		return change, err
	}

	s.publish(domain.SelectionChangedEvent{
		Category: change.Category,
		Added:    change.Added,
		Removed:  change.Removed,
	})
	s.scheduleLocked()
	return change, nil
}

// scheduleLocked replaces the pending timer. Callers hold s.mu.
func (s *Session) scheduleLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		_ = s.fire(context.Background(), gen)
	})
	s.state = SyncPending

	if g, ok := s.store.ActiveGroup(); ok {
		s.publish(domain.PersistScheduledEvent{GroupID: g.ID})
	}
}

// cancelPendingLocked drops the pending timer without sending. Callers hold s.mu.
func (s *Session) cancelPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// fire persists the snapshot if gen is still the newest scheduled mutation
func (s *Session) fire(ctx context.Context, gen uint64) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen || gen <= s.firedGen {
		s.mu.Unlock()
		return nil
	}
	s.firedGen = gen
	s.timer = nil
	snap := s.store.Snapshot()
	scope := s.scope
	s.state = SyncSaving
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	if snap.GroupID == 0 {
		return nil
	}

	persistCtx, cancel := context.WithCancel(scope)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return s.persist(persistCtx, gen, snap)
}

func (s *Session) persist(ctx context.Context, gen uint64, snap selection.Snapshot) error {
	entry := s.log.WithField("group_id", snap.GroupID)
	err := s.groups.Update(ctx, snap.GroupID, snap.Record())

	s.mu.Lock()
	current := gen == s.gen
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil && !current {
			entry.Debug("persist cancelled by group switch")
			return nil
		}
		entry = entry.WithError(err)
		if apiErr, ok := api.AsAPIError(err); ok {
			entry = entry.WithFields(logrus.Fields{
				"status":     apiErr.StatusCode,
				"request_id": apiErr.RequestID,
			})
		}
		entry.Warn("persist failed")

		wrapped := err
		if herrors.GetCode(err) == "" {
			wrapped = herrors.Network("update group", err)
		}
		s.setState(gen, SyncFailed, wrapped)
		s.publish(domain.PersistFailedEvent{GroupID: snap.GroupID, Err: wrapped})
		return wrapped
	}

	entry.WithField("selection", snap.IDs).Debug("group persisted")
	s.setState(gen, SyncSaved, nil)
	s.publish(domain.GroupPersistedEvent{GroupID: snap.GroupID, Record: snap.Record()})
	return nil
}

// setState records the outcome unless a newer mutation is already pending
func (s *Session) setState(gen uint64, state SyncState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.state = state
		s.lastErr = err
	}
}

// SyncStatus reports the persist state and the last persist error
func (s *Session) SyncStatus() (SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

// Flush sends the pending persist now, if there is one, and waits for it
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := s.timer != nil
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.mu.Unlock()

	if !pending {
		// wait for a persist that is already running
		s.persistMu.Lock()
		s.persistMu.Unlock()
		return nil
	}
	return s.fire(ctx, gen)
}

// SwitchGroup fetches a group's record and makes it the active group. On
// failure the previous group and selection stay in place.
func (s *Session) SwitchGroup(ctx context.Context, group domain.Group) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return context.Canceled
	}
	s.switchSeq++
	seq := s.switchSeq
	s.mu.Unlock()

	entry := s.log.WithField("group_id", group.ID)
	record, err := s.groups.Get(ctx, group.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.switchSeq {
		entry.Debug("discarding superseded group fetch")
		return ErrSwitchSuperseded
	}
	if err != nil {
		entry.WithError(err).Warn("group fetch failed, keeping current selection")
		if herrors.GetCode(err) == "" {
			err = herrors.Network("fetch group", err)
		}
		return err
	}
	if s.closed {
		return context.Canceled
	}

	wasOpen := s.runOpenLocked()

	s.cancelPendingLocked()
	s.cancelScope()
	s.scope, s.cancelScope = context.WithCancel(s.root)

	if record.Name != "" {
		group.Name = record.Name
	}
	s.store.ApplyRemote(record)
	s.store.SetActiveGroup(&group)
	s.state = SyncIdle
	s.lastErr = nil

	entry.WithField("selection", s.store.Summary()).Info("group activated")
	s.publish(domain.GroupActivatedEvent{Group: group})
	s.publishGateLocked(wasOpen)
	return nil
}

// SetScenario sets or clears (nil) the active scenario
func (s *Session) SetScenario(scenario *domain.Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasOpen := s.runOpenLocked()
	if scenario == nil {
		s.scenario = nil
	} else {
		cp := *scenario
		s.scenario = &cp
		s.publish(domain.ScenarioActivatedEvent{Scenario: cp})
	}
	s.publishGateLocked(wasOpen)
}

// ScenarioDeleted clears the active scenario if it is the deleted one
func (s *Session) ScenarioDeleted(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scenario == nil || s.scenario.ID != id {
		return
	}
	wasOpen := s.runOpenLocked()
	s.scenario = nil
	s.publishGateLocked(wasOpen)
}

// ActiveScenario returns the active scenario, if any
func (s *Session) ActiveScenario() (domain.Scenario, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scenario == nil {
		return domain.Scenario{}, false
	}
	return *s.scenario, true
}

// ActiveGroup returns the active group, if any
func (s *Session) ActiveGroup() (domain.Group, bool) {
	return s.store.ActiveGroup()
}

// RunOpen reports whether a simulation can be launched
func (s *Session) RunOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runOpenLocked()
}

func (s *Session) runOpenLocked() bool {
	_, groupActive := s.store.ActiveGroup()
	return CanRun(groupActive, s.scenario != nil)
}

func (s *Session) publishGateLocked(wasOpen bool) {
	if open := s.runOpenLocked(); open != wasOpen {
		s.publish(domain.RunGateChangedEvent{Open: open})
	}
}

// Run launches a simulation of the active scenario over the active group.
// A pending persist is flushed first so the server sees the final selection.
func (s *Session) Run(ctx context.Context) error {
	if s.sims == nil {
		return herrors.NotImplemented("simulation")
	}

	s.mu.Lock()
	group, groupActive := s.store.ActiveGroup()
	scenario := s.scenario
	s.mu.Unlock()

	if !CanRun(groupActive, scenario != nil) {
		return herrors.RunBlocked()
	}

	if err := s.Flush(ctx); err != nil {
		return err
	}

	entry := s.log.WithFields(logrus.Fields{"group_id": group.ID, "scenario_id": scenario.ID})
	if err := s.sims.LaunchSimulation(ctx, scenario.ID, group.ID); err != nil {
		entry.WithError(err).Warn("simulation launch failed")
		return err
	}

	entry.Info("simulation launched")
	s.publish(domain.SimulationLaunchedEvent{ScenarioID: scenario.ID, GroupID: group.ID})
	return nil
}

// Close stops the timer, cancels in-flight persists and waits for them
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancelPendingLocked()
	s.cancelRoot()
	s.mu.Unlock()

	s.inflight.Wait()
}
