// Package inmemory provides a map-backed search.Index for tests and dry runs.
package inmemory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/papercomputeco/memseed/pkg/search"
)

// Index implements search.Index using an in-memory map. Documents become
// searchable only after Refresh, matching OpenSearch's near-real-time reads.
type Index struct {
	mu sync.RWMutex

	exists  bool
	pending map[string]search.Document
	visible map[string]search.Document

	// FailPut, when set, is consulted before each Put. A non-nil return
	// fails that write.
	FailPut func(doc search.Document) error

	// FailEnsure, when set, is returned from EnsureIndex.
	FailEnsure error

	refreshes int
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		pending: make(map[string]search.Document),
		visible: make(map[string]search.Document),
	}
}

// EnsureIndex marks the index as created.
func (x *Index) EnsureIndex(context.Context) (bool, error) {
	if x.FailEnsure != nil {
		return false, x.FailEnsure
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.exists {
		return false, nil
	}
	x.exists = true
	return true, nil
}

// Put upserts a document. Writing to a missing index creates it, as
// OpenSearch does by default.
func (x *Index) Put(_ context.Context, doc search.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is required", search.ErrIndex)
	}
	if x.FailPut != nil {
		if err := x.FailPut(doc); err != nil {
			return err
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.exists = true
	x.pending[doc.ID] = doc
	return nil
}

// DeleteIndex drops every document.
func (x *Index) DeleteIndex(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.exists = false
	clear(x.pending)
	clear(x.visible)
	return nil
}

// Refresh makes pending writes searchable.
func (x *Index) Refresh(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for id, doc := range x.pending {
		x.visible[id] = doc
	}
	clear(x.pending)
	x.refreshes++
	return nil
}

// Search scores documents by how many query terms appear in content or tags.
func (x *Index) Search(_ context.Context, query string, size int) ([]search.Hit, error) {
	if size <= 0 {
		size = 10
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if !x.exists {
		return nil, fmt.Errorf("%w: in-memory index", search.ErrNotFound)
	}

	terms := strings.Fields(strings.ToLower(query))
	var hits []search.Hit
	for _, doc := range x.visible {
		if score := scoreDocument(doc, terms); score > 0 {
			hits = append(hits, search.Hit{Document: doc, Score: score})
		}
	}

	slices.SortFunc(hits, func(a, b search.Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(hits) > size {
		hits = hits[:size]
	}
	return hits, nil
}

// Count returns the number of searchable documents.
func (x *Index) Count(context.Context) (int64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return int64(len(x.visible)), nil
}

// Refreshes returns how many times Refresh was called.
func (x *Index) Refreshes() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.refreshes
}

// Get returns a written document, refreshed or not.
func (x *Index) Get(id string) (search.Document, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if doc, ok := x.pending[id]; ok {
		return doc, true
	}
	doc, ok := x.visible[id]
	return doc, ok
}

// Exists reports whether the index has been created and not deleted since.
func (x *Index) Exists() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.exists
}

// Close is a no-op for the in-memory index.
func (x *Index) Close() error {
	return nil
}

func scoreDocument(doc search.Document, terms []string) float64 {
	content := strings.ToLower(doc.Content)
	var score float64
	for _, term := range terms {
		score += float64(strings.Count(content, term))
		for _, tag := range doc.Tags {
			if strings.EqualFold(tag, term) {
				score++
			}
		}
	}
	return score
}
