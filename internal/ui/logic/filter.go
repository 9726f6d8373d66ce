package logic

import (
	"strconv"
	"strings"

	"harmoniq/internal/domain"
)

// Filter prefixes understood besides plain text
const (
	prefixIs = "is:"
	prefixID = "id:"
)

// SelectionLookup reports whether an item is part of the active group
type SelectionLookup interface {
	IsActive(c domain.Category, id int) bool
}

// SearchFilter matches items against the filter query
type SearchFilter struct {
	selection SelectionLookup
}

// NewSearchFilter creates a new search filter
func NewSearchFilter(selection SelectionLookup) *SearchFilter {
	return &SearchFilter{selection: selection}
}

// MatchesFilter checks if an item matches the given filter query
func (sf *SearchFilter) MatchesFilter(item domain.Item, filterQuery string) bool {
	query := strings.ToLower(strings.TrimSpace(filterQuery))
	if query == "" {
		return true
	}

	if strings.HasPrefix(query, prefixIs) {
		return sf.MatchesStateFilter(item, strings.TrimPrefix(query, prefixIs))
	}
	if strings.HasPrefix(query, prefixID) {
		id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(query, prefixID)))
		return err == nil && item.ID == id
	}

	return strings.Contains(strings.ToLower(item.Name), query) ||
		strings.Contains(strings.ToLower(item.Category.Label()), query) ||
		strings.Contains(string(item.Category), query)
}

// MatchesCategoryFilter checks if a category header matches the filter
func (sf *SearchFilter) MatchesCategoryFilter(c domain.Category, filterQuery string) bool {
	query := strings.ToLower(strings.TrimSpace(filterQuery))
	if query == "" {
		return true
	}
	if strings.HasPrefix(query, prefixIs) || strings.HasPrefix(query, prefixID) {
		return false
	}
	return strings.Contains(strings.ToLower(c.Label()), query) || strings.Contains(string(c), query)
}

// MatchesStateFilter handles is:selected and is:unselected
func (sf *SearchFilter) MatchesStateFilter(item domain.Item, state string) bool {
	if sf.selection == nil {
		return false
	}
	active := sf.selection.IsActive(item.Category, item.ID)
	switch state {
	case "selected", "active":
		return active
	case "unselected", "inactive":
		return !active
	}
	return false
}
