// Package testutils holds fakes shared by tests across memseed packages.
package testutils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/papercomputeco/memseed/pkg/search"
	"github.com/papercomputeco/memseed/pkg/search/inmemory"
)

// OpenSearchServer is an httptest server that speaks the slice of the
// OpenSearch REST API memseed uses. Each index name is backed by an
// inmemory.Index, so refresh visibility behaves like the real thing.
type OpenSearchServer struct {
	*httptest.Server

	mu      sync.Mutex
	indexes map[string]*inmemory.Index

	// FailPuts makes every document write answer 500.
	FailPuts bool
}

// NewOpenSearchServer starts a fake OpenSearch. Callers must Close it.
func NewOpenSearchServer() *OpenSearchServer {
	s := &OpenSearchServer{indexes: make(map[string]*inmemory.Index)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Index returns the backing index for name, creating an empty, not yet
// existing one on first use.
func (s *OpenSearchServer) Index(name string) *inmemory.Index {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexes[name]
	if !ok {
		idx = inmemory.NewIndex()
		s.indexes[name] = idx
	}
	return idx
}

func (s *OpenSearchServer) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	idx := s.Index(parts[0])

	switch {
	case len(parts) == 1 && r.Method == http.MethodHead:
		if !idx.Exists() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)

	case len(parts) == 1 && r.Method == http.MethodPut:
		if _, err := idx.EnsureIndex(ctx); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"acknowledged": true})

	case len(parts) == 1 && r.Method == http.MethodDelete:
		if !idx.Exists() {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "index_not_found_exception"})
			return
		}
		_ = idx.DeleteIndex(ctx)
		writeJSON(w, http.StatusOK, map[string]bool{"acknowledged": true})

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodPut:
		if s.FailPuts {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "shard failure"})
			return
		}
		var doc search.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		doc.ID = parts[2]
		if err := idx.Put(ctx, doc); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"result": "created"})

	case len(parts) == 2 && parts[1] == "_refresh":
		_ = idx.Refresh(ctx)
		writeJSON(w, http.StatusOK, map[string]any{})

	case len(parts) == 2 && parts[1] == "_count":
		n, _ := idx.Count(ctx)
		writeJSON(w, http.StatusOK, map[string]int64{"count": n})

	case len(parts) == 2 && parts[1] == "_search":
		s.search(ctx, w, r, idx)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no handler for " + r.Method + " " + r.URL.Path})
	}
}

func (s *OpenSearchServer) search(ctx context.Context, w http.ResponseWriter, r *http.Request, idx *inmemory.Index) {
	var req struct {
		Size  int `json:"size"`
		Query struct {
			MultiMatch struct {
				Query string `json:"query"`
			} `json:"multi_match"`
		} `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	hits, err := idx.Search(ctx, req.Query.MultiMatch.Query, req.Size)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "index_not_found_exception"})
		return
	}

	type hit struct {
		ID     string          `json:"_id"`
		Score  float64         `json:"_score"`
		Source search.Document `json:"_source"`
	}
	out := make([]hit, 0, len(hits))
	for _, h := range hits {
		out = append(out, hit{ID: h.ID, Score: h.Score, Source: h.Document})
	}

	writeJSON(w, http.StatusOK, map[string]any{"hits": map[string]any{"hits": out}})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
