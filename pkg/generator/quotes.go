package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/memseed/pkg/memory"
)

const (
	// QuotesName is the source name reported for downloaded quotes.
	QuotesName = "quotes"

	// DefaultQuotesURL is the public quote feed used when none is configured.
	DefaultQuotesURL = "https://raw.githubusercontent.com/dwyl/quotes/main/quotes.json"

	// DefaultQuotesTimeout bounds the whole quote download.
	DefaultQuotesTimeout = 30 * time.Second

	unknownAuthor = "Unknown"
	quoteTag      = "quote"
)

var (
	quoteTextFields   = []string{"text", "quote", "content"}
	quoteAuthorFields = []string{"author", "source"}
)

// QuoteConfig configures a QuoteSource.
type QuoteConfig struct {
	// URL of a JSON array of quote objects. Defaults to DefaultQuotesURL.
	URL string

	// Timeout for the download. Defaults to DefaultQuotesTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client. Its own timeout wins over Timeout.
	HTTPClient *http.Client
}

// QuoteSource downloads quotes from a remote JSON feed.
type QuoteSource struct {
	url        string
	httpClient *http.Client
	rng        *rand.Rand
}

// NewQuoteSource creates a QuoteSource.
func NewQuoteSource(c QuoteConfig, rng *rand.Rand) *QuoteSource {
	url := c.URL
	if url == "" {
		url = DefaultQuotesURL
	}

	client := c.HTTPClient
	if client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultQuotesTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &QuoteSource{
		url:        url,
		httpClient: client,
		rng:        rng,
	}
}

// Name implements Source.
func (s *QuoteSource) Name() string {
	return QuotesName
}

// Records downloads the feed and returns one record per usable quote.
// Network errors, non-2xx responses and malformed JSON are returned as errors.
func (s *QuoteSource) Records(ctx context.Context) (iter.Seq[memory.Record], error) {
	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	return func(yield func(memory.Record) bool) {
		for _, raw := range items {
			text, author, ok := parseQuote(raw)
			if !ok {
				continue
			}

			tags := sampleTags(s.rng, TopicTags, 1+s.rng.IntN(3))
			r := memory.Record{
				Content:    `"` + text + `" - ` + author,
				Summary:    "Quote by " + author,
				Tags:       append(tags, quoteTag),
				Importance: uniformImportance(s.rng, 0.3, 0.9),
			}
			if !yield(r) {
				return
			}
		}
	}, nil
}

func (s *QuoteSource) fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating quotes request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("downloading quotes: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding quotes: %w", err)
	}

	return items, nil
}

// parseQuote extracts text and author from one feed item. Objects use the
// first non-empty text and author fields; bare scalars are treated as text.
func parseQuote(raw json.RawMessage) (text, author string, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", "", false
	}

	switch raw[0] {
	case '{':
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", "", false
		}
		text = firstString(obj, quoteTextFields)
		author = firstString(obj, quoteAuthorFields)
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", "", false
		}
	case '[':
		return "", "", false
	default:
		text = string(raw)
	}

	if author == "" {
		author = unknownAuthor
	}
	return text, author, text != ""
}

func firstString(obj map[string]any, fields []string) string {
	for _, f := range fields {
		if v, ok := obj[f].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
