package store

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrValidation is the common ancestor of all draft validation errors.
	// Callers check errors.Is(err, ErrValidation) to distinguish bad input
	// from store failures.
	ErrValidation = errors.New("validation failed")

	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrDescriptionRequired = fmt.Errorf("%w: description is required", ErrValidation)
	ErrTagsRequired        = fmt.Errorf("%w: at least one tag is required", ErrValidation)
	ErrURLInvalid          = fmt.Errorf("%w: url must be a valid absolute URL", ErrValidation)
	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrValidation)

	// ErrCollectionCycle is returned when a parent assignment would make a
	// collection its own transitive ancestor.
	ErrCollectionCycle = fmt.Errorf("%w: collection cannot be its own ancestor", ErrValidation)
)

// ContentDraft carries the caller-supplied fields of a content item. The
// same draft passes through both the create and update paths, so there
// is exactly one validation routine for content construction. Starred
// is honored at creation only; updates leave the stored flag alone and
// ToggleStarred is the sole way to change it afterwards.
type ContentDraft struct {
	Title        string
	URL          string
	Description  string
	Tags         []string
	CollectionID string
	Starred      bool
}

// CollectionDraft carries the caller-supplied fields of a collection.
type CollectionDraft struct {
	Name        string
	ParentID    string
	Description string
}

// ValidateContentDraft checks the draft invariants: non-empty title and
// description, at least one tag after normalization, and a parseable
// absolute URL when one is supplied. It does NOT check that the
// referenced collection exists — that is the store's job at write time.
func ValidateContentDraft(d ContentDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrDescriptionRequired
	}
	if len(NormalizeTags(d.Tags)) == 0 {
		return ErrTagsRequired
	}
	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return ErrURLInvalid
		}
	}
	return nil
}

// ValidateCollectionDraft checks that the collection has a non-empty name.
// Parent existence and cycle freedom are checked separately against the
// current collection set.
func ValidateCollectionDraft(d CollectionDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// NormalizeTags trims whitespace, drops empties, and removes duplicates
// while preserving the first occurrence's position. Tag lists are stored
// as ordered sequences but treated as sets.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
