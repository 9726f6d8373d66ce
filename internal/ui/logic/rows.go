package logic

import (
	"harmoniq/internal/domain"
	"harmoniq/internal/selection"
)

// RowKind distinguishes category headers from item rows
type RowKind int

const (
	RowCategory RowKind = iota
	RowItem
)

// Row is one line of the item list
type Row struct {
	Kind     RowKind
	Category domain.Category
	Item     domain.Item // RowItem only
	Count    int         // RowCategory only: items matching the filter
	Active   int         // RowCategory only: active items among them
}

// ItemSource is the read side of the selection store
type ItemSource interface {
	SelectionLookup
	Categories() []domain.Category
	Items(c domain.Category) []domain.Item
}

// RowBuilder flattens categories and items into display rows
type RowBuilder struct {
	source ItemSource
	filter *SearchFilter
}

// NewRowBuilder creates a row builder over a store
func NewRowBuilder(source ItemSource) *RowBuilder {
	return &RowBuilder{
		source: source,
		filter: NewSearchFilter(source),
	}
}

// Build returns the visible rows. Items of collapsed categories are counted
// in the header but not listed. With a filter, categories with no match are
// dropped unless the header itself matches.
func (b *RowBuilder) Build(expanded map[domain.Category]bool, filterQuery string) []Row {
	var rows []Row
	for _, c := range b.source.Categories() {
		visible := b.VisibleItems(c, filterQuery)
		if filterQuery != "" && len(visible) == 0 && !b.filter.MatchesCategoryFilter(c, filterQuery) {
			continue
		}
		active := 0
		for _, it := range visible {
			if b.source.IsActive(c, it.ID) {
				active++
			}
		}
		rows = append(rows, Row{Kind: RowCategory, Category: c, Count: len(visible), Active: active})
		if !expanded[c] {
			continue
		}
		for _, it := range visible {
			rows = append(rows, Row{Kind: RowItem, Category: c, Item: it})
		}
	}
	return rows
}

// VisibleItems returns the items of a category that pass the filter, in
// rendered order
func (b *RowBuilder) VisibleItems(c domain.Category, filterQuery string) []domain.Item {
	items := b.source.Items(c)
	if filterQuery == "" {
		return items
	}
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if b.filter.MatchesFilter(it, filterQuery) {
			out = append(out, it)
		}
	}
	return out
}

// Scope is the bulk-selection scope of a category: the whole category when
// unfiltered, the filtered items otherwise
func (b *RowBuilder) Scope(c domain.Category, filterQuery string) selection.Scope {
	if filterQuery == "" {
		return selection.Whole(c)
	}
	visible := b.VisibleItems(c, filterQuery)
	ids := make([]int, 0, len(visible))
	for _, it := range visible {
		ids = append(ids, it.ID)
	}
	return selection.Scope{Category: c, IDs: ids}
}
