// Package opensearch provides an OpenSearch search.Index implementation over
// the REST API.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/papercomputeco/memseed/pkg/search"
)

const (
	// DefaultURL is the OpenSearch address used when none is configured.
	DefaultURL = "http://localhost:9200"
)

// searchFields are the fields a relevance query matches against.
var searchFields = []string{"content", "tags"}

// Driver implements search.Index using OpenSearch's REST API.
type Driver struct {
	baseURL    string
	index      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds configuration for the OpenSearch driver.
type Config struct {
	// URL is the OpenSearch server URL (e.g., "http://localhost:9200").
	URL string

	// Index is the name of the index to use.
	// Defaults to search.DefaultIndexName if empty.
	Index string

	// HTTPClient overrides the default client. The default client sets no
	// timeout, so index calls are bounded only by the caller's context.
	HTTPClient *http.Client
}

// NewDriver creates a new OpenSearch driver. No request is made until the
// first call.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, errors.New("opensearch URL is required")
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return nil, fmt.Errorf("invalid opensearch URL %q: %w", c.URL, err)
	}

	index := c.Index
	if index == "" {
		index = search.DefaultIndexName
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Driver{
		baseURL:    strings.TrimRight(c.URL, "/"),
		index:      index,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Index returns the name of the index the driver writes to.
func (d *Driver) Index() string {
	return d.index
}

// EnsureIndex creates the index with the memory mapping unless it already exists.
func (d *Driver) EnsureIndex(ctx context.Context) (bool, error) {
	resp, err := d.do(ctx, http.MethodHead, d.indexURL(), nil)
	if err != nil {
		return false, fmt.Errorf("checking index %q: %w", d.index, err)
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		d.logger.Debug("opensearch index already exists", "index", d.index)
		return false, nil
	}

	resp, err = d.do(ctx, http.MethodPut, d.indexURL(), memoryMapping())
	if err != nil {
		return false, fmt.Errorf("creating index %q: %w", d.index, err)
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, "create index", http.StatusOK); err != nil {
		return false, err
	}

	d.logger.Info("opensearch index created", "index", d.index)
	return true, nil
}

// Put upserts a document under its ID.
func (d *Driver) Put(ctx context.Context, doc search.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is required", search.ErrIndex)
	}

	resp, err := d.do(ctx, http.MethodPut, d.indexURL("_doc", doc.ID), doc)
	if err != nil {
		return fmt.Errorf("indexing document %s: %w", doc.ID, err)
	}
	defer resp.Body.Close()

	return expectStatus(resp, "index document", http.StatusOK, http.StatusCreated)
}

// DeleteIndex drops the index. A missing index is not an error.
func (d *Driver) DeleteIndex(ctx context.Context) error {
	resp, err := d.do(ctx, http.MethodDelete, d.indexURL(), nil)
	if err != nil {
		return fmt.Errorf("deleting index %q: %w", d.index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return expectStatus(resp, "delete index", http.StatusOK)
}

// Refresh makes every previously written document searchable.
func (d *Driver) Refresh(ctx context.Context) error {
	resp, err := d.do(ctx, http.MethodPost, d.indexURL("_refresh"), nil)
	if err != nil {
		return fmt.Errorf("refreshing index %q: %w", d.index, err)
	}
	defer resp.Body.Close()

	return expectStatus(resp, "refresh index", http.StatusOK)
}

// Search runs a multi_match query over content and tags.
func (d *Driver) Search(ctx context.Context, query string, size int) ([]search.Hit, error) {
	if size <= 0 {
		size = 10
	}

	reqBody := searchRequest{
		Size: size,
		Query: searchQuery{MultiMatch: multiMatch{
			Query:  query,
			Fields: searchFields,
		}},
	}

	resp, err := d.do(ctx, http.MethodPost, d.indexURL("_search"), reqBody)
	if err != nil {
		return nil, fmt.Errorf("searching index %q: %w", d.index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", search.ErrNotFound, d.index)
	}
	if err := expectStatus(resp, "search", http.StatusOK); err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	hits := make([]search.Hit, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		doc := h.Source
		if doc.ID == "" {
			doc.ID = h.ID
		}
		hits = append(hits, search.Hit{Document: doc, Score: h.Score})
	}

	d.logger.Debug("searched opensearch", "query", query, "hits", len(hits))
	return hits, nil
}

// Count returns the number of searchable documents.
func (d *Driver) Count(ctx context.Context) (int64, error) {
	resp, err := d.do(ctx, http.MethodGet, d.indexURL("_count"), nil)
	if err != nil {
		return 0, fmt.Errorf("counting index %q: %w", d.index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s", search.ErrNotFound, d.index)
	}
	if err := expectStatus(resp, "count", http.StatusOK); err != nil {
		return 0, err
	}

	var result countResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding count response: %w", err)
	}
	return result.Count, nil
}

// Close releases idle connections.
func (d *Driver) Close() error {
	d.httpClient.CloseIdleConnections()
	return nil
}

func (d *Driver) indexURL(segments ...string) string {
	parts := make([]string, 0, len(segments)+2)
	parts = append(parts, d.baseURL, url.PathEscape(d.index))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}

func (d *Driver) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrIndex, err)
	}
	return resp, nil
}

func expectStatus(resp *http.Response, op string, accepted ...int) error {
	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &search.StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
