package selection

import "harmoniq/internal/domain"

// Scope is a rendered sub-list of one category. A nil IDs slice means the
// whole category.
type Scope struct {
	Category domain.Category
	IDs      []int
}

// Whole is the scope covering every item of a category
func Whole(c domain.Category) Scope {
	return Scope{Category: c}
}

// Snapshot is the persisted form of the current selection
type Snapshot struct {
	GroupID   int
	GroupName string
	IDs       map[domain.Category]string // comma separated, rendered order
}

// Record converts the snapshot to the PUT payload
func (s Snapshot) Record() domain.GroupRecord {
	r := domain.GroupRecord{ID: s.GroupID, Name: s.GroupName}
	for _, c := range domain.AllCategories() {
		r.SetIDs(c, s.IDs[c])
	}
	return r
}

// Change lists the ids whose flag a mutation flipped
type Change struct {
	Category domain.Category
	Added    []int
	Removed  []int
}

// Empty reports whether nothing changed
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}
