package store

// Referential-integrity rules shared by both store backends. These are
// pure functions over a materialized collection snapshot so the SQL and
// file backends enforce identical semantics.

// ValidateParentRef checks that parentID references an existing
// collection and that assigning it to the collection with the given id
// would not create a cycle. An empty parentID (root) is always valid.
// The walk carries a visited set so a pre-existing corrupt cycle cannot
// loop forever.
func ValidateParentRef(collections []Collection, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	byID := make(map[string]Collection, len(collections))
	for _, c := range collections {
		byID[c.ID] = c
	}
	if _, ok := byID[parentID]; !ok {
		return ErrInvalidReference
	}

	visited := make(map[string]bool)
	for cur := parentID; cur != ""; {
		if cur == id {
			return ErrCollectionCycle
		}
		if visited[cur] {
			return ErrCollectionCycle
		}
		visited[cur] = true
		cur = byID[cur].ParentID
	}
	return nil
}

// OrphanContent clears the collection reference on every content item
// pointing at collectionID. Deleting a collection orphans its content
// rather than deleting it; that behavior is part of the store contract.
func OrphanContent(items []Content, collectionID string) []Content {
	for i := range items {
		if items[i].CollectionID == collectionID {
			items[i].CollectionID = ""
		}
	}
	return items
}

// ReparentChildren moves the direct children of deletedID to newParentID
// (the deleted collection's own parent, so children become grandchildren
// of the removed node's parent, or roots).
func ReparentChildren(collections []Collection, deletedID, newParentID string) []Collection {
	for i := range collections {
		if collections[i].ParentID == deletedID {
			collections[i].ParentID = newParentID
		}
	}
	return collections
}
