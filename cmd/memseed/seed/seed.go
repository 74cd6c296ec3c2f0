// Package seedcmder provides the seed command, which fills the memory store
// and its search index with generated memories.
package seedcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/memseed/cmd/memseed/backend"
	"github.com/papercomputeco/memseed/pkg/cliui"
	"github.com/papercomputeco/memseed/pkg/config"
	"github.com/papercomputeco/memseed/pkg/dotdir"
	"github.com/papercomputeco/memseed/pkg/eventstream"
	"github.com/papercomputeco/memseed/pkg/eventstream/kafka"
	"github.com/papercomputeco/memseed/pkg/eventstream/nop"
	"github.com/papercomputeco/memseed/pkg/generator"
	"github.com/papercomputeco/memseed/pkg/logger"
	"github.com/papercomputeco/memseed/pkg/seeder"
)

const seedLongDesc string = `Seed the memory store with generated memories.

Each memory is written as a row in the memory_index table and as a document
in the OpenSearch index. Sources:
  quotes     download quotes from a public JSON feed
  synthetic  fill templates with random vocabulary
  all        quotes plus the curated wisdom, facts, and tips, topped up with
             synthetic memories to reach --count
  mixed      same sources as all

Examples:
  memseed seed
  memseed seed --count 200 --source synthetic
  memseed seed --clear --sqlite ./memseed.db
  memseed seed --kafka-brokers localhost:9092
  memseed seed --rand-seed 42 --sample-query ""`

const seedShortDesc string = "Seed generated memories"

// DefaultSampleQuery is the relevance query run after seeding.
const DefaultSampleQuery = "programming"

const sampleSize = 3

var seedFlags = []string{
	config.FlagCount,
	config.FlagSource,
	config.FlagBatchSize,
	config.FlagPostgresURL,
	config.FlagSQLite,
	config.FlagOpenSearchURL,
	config.FlagIndex,
	config.FlagQuotesURL,
	config.FlagQuotesTimeout,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

type seedCommander struct {
	// registry flags, resolved through viper
	count, batchSize int
	source           string
	postgresURL      string
	sqlitePath       string
	openSearchURL    string
	index            string
	quotesURL        string
	quotesTimeout    string
	kafkaBrokers     string
	kafkaTopic       string

	clear       bool
	randSeed    uint64
	hasSeed     bool
	sampleQuery string
	logFile     string
	debug       bool
	configDir   string

	out    io.Writer
	logger *slog.Logger
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.hasSeed = cmd.Flags().Changed("rand-seed")
			cmder.out = cmd.OutOrStdout()

			v, err := backend.LoadViper(cmd, seedFlags...)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), v)
		},
	}

	config.AddIntFlag(cmd, config.Flags, config.FlagCount, &cmder.count)
	config.AddStringFlag(cmd, config.Flags, config.FlagSource, &cmder.source)
	config.AddIntFlag(cmd, config.Flags, config.FlagBatchSize, &cmder.batchSize)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgresURL, &cmder.postgresURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagOpenSearchURL, &cmder.openSearchURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndex, &cmder.index)
	config.AddStringFlag(cmd, config.Flags, config.FlagQuotesURL, &cmder.quotesURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagQuotesTimeout, &cmder.quotesTimeout)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.kafkaTopic)

	cmd.Flags().BoolVar(&cmder.clear, "clear", false, "Delete existing memories and recreate the index before seeding")
	cmd.Flags().Uint64Var(&cmder.randSeed, "rand-seed", 0, "Seed for the random generator, for reproducible content")
	cmd.Flags().StringVar(&cmder.sampleQuery, "sample-query", DefaultSampleQuery, "Query to run after seeding (empty to skip)")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *seedCommander) run(ctx context.Context, v *viper.Viper) error {
	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	mode, err := seeder.ParseMode(v.GetString("seed.source"))
	if err != nil {
		return err
	}
	quotesTimeout, err := time.ParseDuration(v.GetString("quotes.timeout"))
	if err != nil {
		return fmt.Errorf("invalid quotes timeout: %w", err)
	}

	settings := backend.SettingsFromViper(v)
	cfg := seeder.Config{
		Count:     v.GetInt("seed.count"),
		Mode:      mode,
		Clear:     c.clear,
		BatchSize: v.GetInt("seed.batch_size"),
	}

	c.printBanner(settings, cfg)

	var b *backend.Backend
	if err := cliui.Step(c.out, "Connecting to "+settings.Kind(), func() error {
		var openErr error
		b, openErr = backend.Open(ctx, settings, c.logger)
		return openErr
	}); err != nil {
		return err
	}
	defer b.Close()

	publisher, err := c.newPublisher(v)
	if err != nil {
		return err
	}
	defer publisher.Close()

	opts := []seeder.Option{
		seeder.WithLogger(c.logger),
		seeder.WithPublisher(publisher),
		seeder.WithQuoteConfig(generator.QuoteConfig{
			URL:     v.GetString("quotes.url"),
			Timeout: quotesTimeout,
		}),
	}
	if c.hasSeed {
		opts = append(opts, seeder.WithRand(seeder.NewRand(c.randSeed)))
	}

	s, err := seeder.New(cfg, b.Storage, b.Index, opts...)
	if err != nil {
		return err
	}

	res, runErr := s.Run(ctx)
	if res != nil && (runErr == nil || res.Attempted > 0) {
		c.printSummary(res)
		c.saveRunState(settings, res)
	}
	if runErr != nil {
		return runErr
	}

	if c.sampleQuery != "" {
		c.printSample(ctx, s)
	}
	return nil
}

// setupLogger builds the pretty terminal logger and, with --log-file, fans
// out to a JSON log file as well.
func (c *seedCommander) setupLogger() (func(), error) {
	term := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)
	if c.logFile == "" {
		c.logger = term
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(true),
		logger.WithJSON(true),
		logger.WithSource(true),
		logger.WithWriter(f),
	)
	c.logger = logger.Multi(term, file)
	return func() { _ = f.Close() }, nil
}

func (c *seedCommander) newPublisher(v *viper.Viper) (eventstream.Publisher, error) {
	brokers := config.Brokers(v)
	if len(brokers) == 0 {
		return nop.NewPublisher(), nil
	}

	p, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   v.GetString("events.topic"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	c.logger.Info("publishing memory events", "brokers", brokers, "topic", p.Topic())
	return p, nil
}

func (c *seedCommander) printBanner(s backend.Settings, cfg seeder.Config) {
	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("OpenMemory data seeder"))
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Database:  "), cliui.DimStyle.Render(s.Kind()+" "+s.Target()))
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("OpenSearch:"), cliui.DimStyle.Render(backend.RedactURL(s.OpenSearchURL)+" index="+s.Index))
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Count:     "), cliui.ValueStyle.Render(fmt.Sprint(cfg.Count)))
	fmt.Fprintf(c.out, "  %s %s\n\n", cliui.KeyStyle.Render("Source:    "), cliui.ValueStyle.Render(cfg.Mode.String()))
}

func (c *seedCommander) printSummary(res *seeder.Result) {
	fmt.Fprintln(c.out)
	if res.Cleared != nil {
		fmt.Fprintf(c.out, "  %s Cleared %d existing memories\n", cliui.SuccessMark, res.Cleared.Rows)
	}
	for _, name := range res.Sources() {
		fmt.Fprintf(c.out, "  %s %s\n", cliui.DimStyle.Render(fmt.Sprintf("%-10s", name)), cliui.ValueStyle.Render(fmt.Sprint(res.Collected[name])))
	}

	mark := cliui.SuccessMark
	if res.Errors > 0 {
		mark = cliui.WarnMark
	}
	fmt.Fprintf(c.out, "\n  %s Inserted %s of %d memories %s\n",
		mark,
		cliui.NameStyle.Render(fmt.Sprint(res.Inserted)),
		res.Attempted,
		cliui.StepStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(res.Duration))),
	)
	if res.Errors > 0 {
		fmt.Fprintf(c.out, "  %s %d errors\n", cliui.FailMark, res.Errors)
	}
	if n := len(res.Unindexed); n > 0 {
		fmt.Fprintf(c.out, "  %s %d rows committed without a search document\n", cliui.WarnMark, n)
	}
	if res.Published > 0 || res.PublishFailures > 0 {
		fmt.Fprintf(c.out, "  %s Published %d events (%d failed)\n", cliui.Mark(nil), res.Published, res.PublishFailures)
	}
}

func (c *seedCommander) printSample(ctx context.Context, s *seeder.Seeder) {
	hits, err := s.Sample(ctx, c.sampleQuery, sampleSize)
	if err != nil {
		c.logger.Warn("sample search failed", "query", c.sampleQuery, "error", err)
		return
	}

	fmt.Fprintf(c.out, "\n  %s %s\n", cliui.HeaderStyle.Render("Sample search:"), cliui.KeyStyle.Render(fmt.Sprintf("%q", c.sampleQuery)))
	if len(hits) == 0 {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("No results found."))
		return
	}
	for _, h := range hits {
		fmt.Fprintf(c.out, "  %s %s\n",
			cliui.ScoreStyle.Render(fmt.Sprintf("[%.1f]", h.ImportanceScore)),
			cliui.Preview(h.Content, 80),
		)
	}
	fmt.Fprintln(c.out)
}

func (c *seedCommander) saveRunState(s backend.Settings, res *seeder.Result) {
	state := &dotdir.RunState{
		FinishedAt: time.Now().UTC(),
		Mode:       res.Mode.String(),
		Backend:    s.Kind(),
		Index:      s.Index,
		Requested:  res.Requested,
		Inserted:   res.Inserted,
		Errors:     res.Errors,
	}
	for _, id := range res.Unindexed {
		state.Unindexed = append(state.Unindexed, id.String())
	}

	if err := dotdir.NewManager().SaveRunState(state, c.configDir); err != nil {
		c.logger.Warn("failed to record run state", "error", err)
	}
}
