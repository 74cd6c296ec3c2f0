// Package seeder drives a seeding run: it collects records from the
// generators, tops up with synthetic records, shuffles, and dual-writes each
// record to the relational table and the search index in batched
// transactions.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/papercomputeco/memseed/pkg/eventstream"
	"github.com/papercomputeco/memseed/pkg/eventstream/nop"
	"github.com/papercomputeco/memseed/pkg/generator"
	"github.com/papercomputeco/memseed/pkg/logger"
	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/search"
	"github.com/papercomputeco/memseed/pkg/storage"
)

const (
	// DefaultCount is the number of records seeded when none is configured.
	DefaultCount = 1000

	// DefaultBatchSize is the number of staged rows per transaction.
	DefaultBatchSize = 100

	// DefaultMaxLoggedErrors is how many record errors are logged verbatim
	// before the rest are suppressed.
	DefaultMaxLoggedErrors = 5
)

// Config controls a seeding run.
type Config struct {
	// Count is the number of records to insert. Zero inserts nothing.
	Count int

	// Mode selects the generators. Empty means DefaultMode.
	Mode Mode

	// Clear deletes every row and drops the index before seeding.
	Clear bool

	// BatchSize is the number of staged rows after which the open
	// transaction is committed. Defaults to DefaultBatchSize.
	BatchSize int

	// MaxLoggedErrors defaults to DefaultMaxLoggedErrors.
	MaxLoggedErrors int
}

// Progress is reported after every committed batch.
type Progress struct {
	Processed int
	Total     int
	Inserted  int
	Errors    int
}

// item is a collected record tagged with the source that produced it.
type item struct {
	record memory.Record
	source string
}

// Seeder runs the seeding pipeline against one relational driver and one
// search index. A Seeder is not safe for concurrent use.
type Seeder struct {
	cfg Config

	storage   storage.Driver
	index     search.Index
	sink      *Sink
	publisher eventstream.Publisher

	quotes      generator.Source
	quotesSet   bool
	quoteConfig generator.QuoteConfig
	curated     []generator.Source
	synthetic   *generator.Synthetic

	rng        *rand.Rand
	normalizer *memory.Normalizer
	now        func() time.Time
	logger     *slog.Logger
	progress   func(Progress)
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithRand sets the random source shared by every default generator, the
// shuffle, and the normalizer.
func WithRand(rng *rand.Rand) Option {
	return func(s *Seeder) {
		s.rng = rng
	}
}

// WithLogger sets the logger. Defaults to logger.Nop().
func WithLogger(l *slog.Logger) Option {
	return func(s *Seeder) {
		s.logger = l
	}
}

// WithPublisher sets the event publisher. Defaults to a no-op publisher.
func WithPublisher(p eventstream.Publisher) Option {
	return func(s *Seeder) {
		s.publisher = p
	}
}

// WithQuoteConfig configures the default quote source.
func WithQuoteConfig(c generator.QuoteConfig) Option {
	return func(s *Seeder) {
		s.quoteConfig = c
	}
}

// WithQuotes replaces the quote source. A nil source disables quotes.
func WithQuotes(src generator.Source) Option {
	return func(s *Seeder) {
		s.quotes = src
		s.quotesSet = true
	}
}

// WithCurated replaces the curated sources.
func WithCurated(srcs ...generator.Source) Option {
	return func(s *Seeder) {
		s.curated = srcs
	}
}

// WithSynthetic replaces the synthetic generator used for top-up.
func WithSynthetic(g *generator.Synthetic) Option {
	return func(s *Seeder) {
		s.synthetic = g
	}
}

// WithClock overrides the wall clock used for backdating and event times.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) {
		s.now = now
	}
}

// WithProgress registers a callback invoked after every committed batch.
func WithProgress(fn func(Progress)) Option {
	return func(s *Seeder) {
		s.progress = fn
	}
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New creates a Seeder over an open relational driver and search index.
func New(cfg Config, driver storage.Driver, index search.Index, opts ...Option) (*Seeder, error) {
	if driver == nil {
		return nil, errors.New("seeder needs a storage driver")
	}
	if index == nil {
		return nil, errors.New("seeder needs a search index")
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", cfg.Count)
	}

	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxLoggedErrors <= 0 {
		cfg.MaxLoggedErrors = DefaultMaxLoggedErrors
	}

	s := &Seeder{
		cfg:     cfg,
		storage: driver,
		index:   index,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = NewRand(rand.Uint64())
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.publisher == nil {
		s.publisher = nop.NewPublisher()
	}
	if !s.quotesSet {
		s.quotes = generator.NewQuoteSource(s.quoteConfig, s.rng)
	}
	if s.curated == nil {
		s.curated = []generator.Source{
			generator.NewWisdom(s.rng),
			generator.NewFacts(s.rng),
			generator.NewTips(s.rng),
		}
	}
	if s.synthetic == nil {
		s.synthetic = generator.NewDefaultSynthetic(s.rng)
	}

	s.normalizer = memory.NewNormalizer(s.rng, memory.WithClock(s.now))
	s.sink = NewSink(index)
	return s, nil
}

// Config returns the effective configuration after defaults.
func (s *Seeder) Config() Config {
	return s.cfg
}

// Run executes the pipeline. Record-level failures are counted in the
// Result; only setup and transaction failures are returned as errors.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{
		Requested: s.cfg.Count,
		Mode:      s.cfg.Mode,
		Collected: make(map[string]int),
	}

	if err := s.setup(ctx, res); err != nil {
		return res, err
	}

	items := s.collect(ctx, res)
	items = s.topUp(items, res)

	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	items = items[:min(len(items), s.cfg.Count)]
	res.Attempted = len(items)

	s.logger.Info("inserting memories", "count", len(items))
	if err := s.insert(ctx, items, res); err != nil {
		res.Duration = time.Since(start)
		return res, err
	}

	if err := s.index.Refresh(ctx); err != nil {
		s.logger.Warn("failed to refresh search index", "error", err)
	}

	res.Duration = time.Since(start)
	s.logger.Info("seeding finished",
		"inserted", res.Inserted,
		"errors", res.Errors,
		"unindexed", len(res.Unindexed),
		"commits", res.Commits,
		"duration", res.Duration,
	)
	return res, nil
}

// Clear deletes every memory_index row, then drops and recreates the search
// index. Index failures are logged and reported in the result.
func (s *Seeder) Clear(ctx context.Context) (*ClearResult, error) {
	rows, err := s.storage.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clearing memory_index: %w", err)
	}

	cr := &ClearResult{Rows: rows}
	if err := s.index.DeleteIndex(ctx); err != nil {
		s.logger.Warn("failed to delete search index", "error", err)
		return cr, nil
	}
	if _, err := s.index.EnsureIndex(ctx); err != nil {
		s.logger.Warn("failed to recreate search index", "error", err)
		return cr, nil
	}

	cr.IndexCleared = true
	s.logger.Info("cleared existing data", "rows", rows)
	return cr, nil
}

// Sample runs a relevance query against the index.
func (s *Seeder) Sample(ctx context.Context, query string, size int) ([]search.Hit, error) {
	return s.index.Search(ctx, query, size)
}

func (s *Seeder) setup(ctx context.Context, res *Result) error {
	if err := s.storage.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring relational schema: %w", err)
	}

	if _, err := s.index.EnsureIndex(ctx); err != nil {
		s.logger.Warn("failed to ensure search index", "error", err)
	}

	if s.cfg.Clear {
		cr, err := s.Clear(ctx)
		if err != nil {
			return err
		}
		res.Cleared = cr
	}
	return nil
}

func (s *Seeder) collect(ctx context.Context, res *Result) []item {
	var items []item

	add := func(src generator.Source) {
		seq, err := src.Records(ctx)
		if err != nil {
			s.logger.Warn("failed to fetch records", "source", src.Name(), "error", err)
			return
		}

		n := 0
		for r := range seq {
			if err := r.Validate(); err != nil {
				res.Skipped++
				s.logger.Debug("skipping invalid record", "source", src.Name(), "error", err)
				continue
			}
			items = append(items, item{record: r, source: src.Name()})
			n++
		}
		res.Collected[src.Name()] += n
		s.logger.Info("collected records", "source", src.Name(), "count", n)
	}

	if s.cfg.Mode.fetchesQuotes() && s.quotes != nil {
		add(s.quotes)
	}
	if s.cfg.Mode.usesCurated() {
		for _, src := range s.curated {
			add(src)
		}
	}
	return items
}

func (s *Seeder) topUp(items []item, res *Result) []item {
	shortfall := s.cfg.Count - len(items)
	if shortfall <= 0 || !s.cfg.Mode.topsUp() {
		return items
	}

	n := 0
	for r := range s.synthetic.Generate(shortfall) {
		items = append(items, item{record: r, source: generator.SyntheticName})
		n++
	}
	res.Collected[generator.SyntheticName] += n
	s.logger.Info("generated synthetic records", "count", n)
	return items
}

func (s *Seeder) insert(ctx context.Context, items []item, res *Result) error {
	var (
		tx     storage.Tx
		staged int
		events []*eventstream.MemorySeededEvent

		// publishing turns off after the first failed batch.
		publishing = true
	)

	commit := func() error {
		err := tx.Commit(ctx)
		tx = nil
		if err != nil {
			return fmt.Errorf("committing batch: %w", err)
		}
		res.Commits++
		staged = 0
		if publishing {
			publishing = s.publish(ctx, events, res)
		} else {
			res.PublishFailures += len(events)
		}
		events = events[:0]
		return nil
	}

	for i, it := range items {
		if err := ctx.Err(); err != nil {
			if tx != nil {
				_ = tx.Rollback(context.WithoutCancel(ctx))
			}
			return fmt.Errorf("seeding interrupted after %d of %d records: %w", i, len(items), err)
		}

		if tx == nil {
			var err error
			if tx, err = s.storage.Begin(ctx); err != nil {
				return fmt.Errorf("beginning transaction: %w", err)
			}
		}

		p := s.normalizer.Normalize(it.record)
		state, err := s.sink.Write(ctx, tx, &p)
		switch state {
		case WriteComplete:
			res.Inserted++
			staged++
			events = append(events, eventstream.NewMemorySeededEvent(&p, it.source, s.now()))
		case WriteRelationalStaged:
			staged++
			res.Unindexed = append(res.Unindexed, p.ID)
		}
		if err != nil {
			s.recordError(res, err)
		}

		if staged >= s.cfg.BatchSize {
			if err := commit(); err != nil {
				return err
			}
			s.reportProgress(i+1, len(items), res)
		}
	}

	if tx != nil {
		if err := commit(); err != nil {
			return err
		}
		s.reportProgress(len(items), len(items), res)
	}
	return nil
}

func (s *Seeder) recordError(res *Result, err error) {
	res.Errors++
	switch {
	case res.Errors <= s.cfg.MaxLoggedErrors:
		s.logger.Warn("error inserting memory", "error", err)
	case res.Errors == s.cfg.MaxLoggedErrors+1:
		s.logger.Warn("suppressing further error messages")
	default:
		s.logger.Debug("error inserting memory", "error", err)
	}
}

// publish sends one committed batch of events and reports whether later
// batches should still be attempted.
func (s *Seeder) publish(ctx context.Context, events []*eventstream.MemorySeededEvent, res *Result) bool {
	if len(events) == 0 {
		return true
	}
	if err := s.publisher.PublishMemories(ctx, events); err != nil {
		res.PublishFailures += len(events)
		s.logger.Warn("failed to publish memory events, skipping events for the rest of the run",
			"events", len(events),
			"error", err,
		)
		return false
	}
	res.Published += len(events)
	return true
}

func (s *Seeder) reportProgress(processed, total int, res *Result) {
	s.logger.Info("progress",
		"processed", processed,
		"total", total,
		"inserted", res.Inserted,
		"errors", res.Errors,
	)
	if s.progress != nil {
		s.progress(Progress{
			Processed: processed,
			Total:     total,
			Inserted:  res.Inserted,
			Errors:    res.Errors,
		})
	}
}
