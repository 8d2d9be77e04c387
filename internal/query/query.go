// Package query provides pure, side-effect-free filtering over a
// materialized entity snapshot. Both store backends hand their
// snapshots to these functions so search semantics cannot drift
// between them.
package query

import (
	"strings"

	"github.com/annalhq/arcane/internal/store"
)

// TagMode selects how a tag filter matches an item's tag set.
type TagMode string

const (
	// MatchAny matches items carrying at least one of the selected tags.
	// This is the default everywhere a tag filter is applied.
	MatchAny TagMode = "any"

	// MatchAll matches only items carrying every selected tag.
	MatchAll TagMode = "all"
)

// Search filters items by free text, tag set, and collection. The three
// filters combine with logical AND; each empty filter matches
// everything. Text matching is a case-insensitive substring test
// against title, description, and URL (items without a URL simply
// don't match on it). Result order is input order.
func Search(items []store.Content, q string, tags []string, mode TagMode, collectionID string) []store.Content {
	q = strings.ToLower(q)
	out := make([]store.Content, 0, len(items))
	for _, item := range items {
		if !matchesText(item, q) {
			continue
		}
		if !matchesTags(item, tags, mode) {
			continue
		}
		if collectionID != "" && item.CollectionID != collectionID {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesText(item store.Content, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		(item.URL != "" && strings.Contains(strings.ToLower(item.URL), q))
}

func matchesTags(item store.Content, tags []string, mode TagMode) bool {
	if len(tags) == 0 {
		return true
	}
	has := make(map[string]bool, len(item.Tags))
	for _, t := range item.Tags {
		has[t] = true
	}
	if mode == MatchAll {
		for _, t := range tags {
			if !has[t] {
				return false
			}
		}
		return true
	}
	for _, t := range tags {
		if has[t] {
			return true
		}
	}
	return false
}

// GroupByTag buckets items under every tag they carry: an item with N
// tags appears in N buckets. Bucket order follows input order. Tags
// with no items are absent from the result.
func GroupByTag(items []store.Content) map[string][]store.Content {
	groups := make(map[string][]store.Content)
	for _, item := range items {
		for _, tag := range item.Tags {
			groups[tag] = append(groups[tag], item)
		}
	}
	return groups
}

// ChildrenOf returns the direct children of parentID, one level only.
func ChildrenOf(collections []store.Collection, parentID string) []store.Collection {
	out := make([]store.Collection, 0)
	for _, c := range collections {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out
}

// RootsOf returns the collections with no parent.
func RootsOf(collections []store.Collection) []store.Collection {
	return ChildrenOf(collections, "")
}
