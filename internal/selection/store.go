package selection

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/logging"
)

// Store holds the items of every category, their active flags and the
// active group. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	categories []domain.Category
	items      map[domain.Category][]domain.Item
	known      map[domain.Category]map[int]int // id -> position in items
	active     map[domain.Category]map[int]struct{}
	group      *domain.Group
	log        *logrus.Entry
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for malformed remote data
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCategories restricts the store to the given categories
func WithCategories(categories ...domain.Category) Option {
	return func(s *Store) {
		if len(categories) > 0 {
			s.categories = append([]domain.Category(nil), categories...)
		}
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		categories: domain.AllCategories(),
		items:      make(map[domain.Category][]domain.Item),
		known:      make(map[domain.Category]map[int]int),
		active:     make(map[domain.Category]map[int]struct{}),
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range s.categories {
		s.known[c] = make(map[int]int)
		s.active[c] = make(map[int]struct{})
	}
	return s
}

// Categories returns the store's categories in display order
func (s *Store) Categories() []domain.Category {
	return append([]domain.Category(nil), s.categories...)
}

func (s *Store) hasCategory(c domain.Category) bool {
	_, ok := s.known[c]
	return ok
}

// SetItems installs the item list of a category. Active flags are kept.
func (s *Store) SetItems(c domain.Category, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCategory(c) {
		return herrors.InvalidInput("unknown category " + string(c))
	}

	list := make([]domain.Item, 0, len(items))
	index := make(map[int]int, len(items))
	for _, it := range items {
		if _, dup := index[it.ID]; dup {
			continue
		}
		it.Category = c
		index[it.ID] = len(list)
		list = append(list, it)
	}
	s.items[c] = list
	s.known[c] = index
	return nil
}

// AppendItem adds one item at the end of its category
func (s *Store) AppendItem(item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCategory(item.Category) {
		return herrors.InvalidInput("unknown category " + string(item.Category))
	}
	if _, dup := s.known[item.Category][item.ID]; dup {
		return herrors.InvalidInput("duplicate item id").WithDetail("id", item.ID)
	}
	s.known[item.Category][item.ID] = len(s.items[item.Category])
	s.items[item.Category] = append(s.items[item.Category], item)
	return nil
}

// Items returns a copy of a category's items in rendered order
func (s *Store) Items(c domain.Category) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Item(nil), s.items[c]...)
}

// Item looks up one item
func (s *Store) Item(c domain.Category, id int) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.known[c][id]
	if !ok {
		return domain.Item{}, false
	}
	return s.items[c][pos], true
}

// SetActiveGroup sets or clears (nil) the active group
func (s *Store) SetActiveGroup(g *domain.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g == nil {
		s.group = nil
		return
	}
	cp := *g
	s.group = &cp
}

// ActiveGroup returns the active group, if any
func (s *Store) ActiveGroup() (domain.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.group == nil {
		return domain.Group{}, false
	}
	return *s.group, true
}

// IsActive reports the flag of one item
func (s *Store) IsActive(c domain.Category, id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[c][id]
	return ok
}

// ActiveCount is the number of active ids in a category
func (s *Store) ActiveCount(c domain.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active[c])
}

// Toggle flips the active flag of one item and returns the new flag
func (s *Store) Toggle(c domain.Category, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.group == nil {
		return false, herrors.NoActiveGroup()
	}
	if _, ok := s.known[c][id]; !ok {
		return false, herrors.UnknownItem(string(c), id)
	}

	if _, on := s.active[c][id]; on {
		delete(s.active[c], id)
		return false, nil
	}
	s.active[c][id] = struct{}{}
	return true, nil
}

// SelectAll activates every item in scope
func (s *Store) SelectAll(scope Scope) (Change, error) {
	return s.setScope(scope, true)
}

// SelectNone deactivates every item in scope
func (s *Store) SelectNone(scope Scope) (Change, error) {
	return s.setScope(scope, false)
}

func (s *Store) setScope(scope Scope, on bool) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := Change{Category: scope.Category}
	if s.group == nil {
		return change, herrors.NoActiveGroup()
	}
	if !s.hasCategory(scope.Category) {
		return change, herrors.InvalidInput("unknown category " + string(scope.Category))
	}

	ids := scope.IDs
	if ids == nil {
		for _, it := range s.items[scope.Category] {
			ids = append(ids, it.ID)
		}
	}

	active := s.active[scope.Category]
	for _, id := range ids {
		if _, ok := s.known[scope.Category][id]; !ok {
			continue
		}
		_, was := active[id]
		switch {
		case on && !was:
			active[id] = struct{}{}
			change.Added = append(change.Added, id)
		case !on && was:
			delete(active, id)
			change.Removed = append(change.Removed, id)
		}
	}
	return change, nil
}

// ActiveIDs returns the active ids of a category: rendered items first in
// rendered order, then ids not rendered (yet) in ascending order.
func (s *Store) ActiveIDs(c domain.Category) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIDs(c)
}

func (s *Store) activeIDs(c domain.Category) []int {
	active := s.active[c]
	if len(active) == 0 {
		return nil
	}

	ids := make([]int, 0, len(active))
	for _, it := range s.items[c] {
		if _, ok := active[it.ID]; ok {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == len(active) {
		return ids
	}

	var orphans []int
	for id := range active {
		if _, ok := s.known[c][id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Ints(orphans)
	return append(ids, orphans...)
}

// Snapshot captures the selection and the active group's name
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{IDs: make(map[domain.Category]string, len(s.categories))}
	if s.group != nil {
		snap.GroupID = s.group.ID
		snap.GroupName = s.group.Name
	}
	for _, c := range s.categories {
		snap.IDs[c] = domain.JoinIDs(s.activeIDs(c))
	}
	return snap
}

// ApplyRemote replaces every category's flags with the membership stored in
// the record. Missing, null and malformed fields count as empty; non numeric
// tokens are skipped. Ids not rendered yet are kept so they survive the next
// persist.
func (s *Store) ApplyRemote(record *domain.GroupRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		s.active[c] = make(map[int]struct{})
		if record == nil {
			continue
		}

		list := record.IDs(c)
		if list.Malformed {
			s.log.WithError(herrors.MalformedRemoteData(c.Field(), "")).
				WithField("group_id", record.ID).
				Warn("treating field as empty")
			continue
		}

		ids, skipped := list.IDs()
		if skipped > 0 {
			s.log.WithError(herrors.MalformedRemoteData(c.Field(), list.Raw)).
				WithFields(logrus.Fields{
					"group_id": record.ID,
					"skipped":  skipped,
				}).Warn("ignoring non numeric ids")
		}
		for _, id := range ids {
			s.active[c][id] = struct{}{}
		}
	}
}

// Summary renders "wind 2, solar 1" style counts for status lines
func (s *Store) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []string
	for _, c := range s.categories {
		if n := len(s.active[c]); n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c, n))
		}
	}
	if len(parts) == 0 {
		return "nothing selected"
	}
	return strings.Join(parts, ", ")
}
