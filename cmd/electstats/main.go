package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"votestats/internal/config"
	"votestats/internal/dataprocessing"
	"votestats/internal/errors"
	"votestats/internal/files"
	"votestats/internal/infrastructure"
	"votestats/pkg/contracts/domain"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	dataDir    string
}

// app holds what a subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	otel   *infrastructure.OTelProviders
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(errors.NewErrorHandler(infrastructure.GetLogger()).HandleError(ctx, err))
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		opts globalOptions
		a    app
	)

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "New Zealand election results statistics",
		Long: `electstats downloads per-electorate election results, parses them
into vote categories and reports how ordinary, advance and special votes
split between parties.

Results files are cached under the data directory and downloaded only
once; use "fetch --force" to replace them.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(opts, out); err != nil {
				return err
			}
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish(cmd.Context())
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding cached results and reports")

	rootCmd.AddCommand(fetchCmd(&a))
	rootCmd.AddCommand(electorateCmd(&a))
	rootCmd.AddCommand(nationalCmd(&a))
	rootCmd.AddCommand(compareCmd(&a))
	rootCmd.AddCommand(statusCmd(&a))

	return rootCmd
}

// setup loads configuration, applies flag overrides and starts logging and
// telemetry.
func (a *app) setup(opts globalOptions, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return errors.NewConfigError("failed to load configuration", err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.dataDir != "" {
		cfg.Paths.DataDir = opts.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError("invalid configuration", err)
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create required directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.paths = paths
	a.logger = logger
	a.otel = providers
	a.out = out
	return nil
}

// finish writes the metrics textfile when one is configured and flushes
// telemetry.
func (a *app) finish(ctx context.Context) error {
	if a.otel == nil {
		return nil
	}
	defer infrastructure.CloseLogFile()

	var metricsErr error
	if path := a.cfg.Observability.MetricsFile; path != "" {
		metricsErr = a.otel.WriteMetrics(path)
	}
	if err := a.otel.Shutdown(ctx); err != nil {
		a.logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
	}
	return metricsErr
}

// newCache builds the results fetcher.
func (a *app) newCache(force bool) (*files.Cache, error) {
	return files.NewCache(a.paths, a.cfg.Fetch,
		files.WithForce(force),
		files.WithCacheLogger(a.logger),
		files.WithCacheMetrics(a.otel.Metrics))
}

// newLoader builds the fetch-and-parse pipeline from configuration.
func (a *app) newLoader() (*dataprocessing.Loader, error) {
	cache, err := a.newCache(false)
	if err != nil {
		return nil, err
	}

	extra, err := dataprocessing.LayoutsFromConfig(a.cfg.Layouts)
	if err != nil {
		return nil, err
	}
	layouts, err := dataprocessing.NewLayoutTable(extra...)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]domain.Category, len(a.cfg.Processing.ExtraLabels))
	for label, name := range a.cfg.Processing.ExtraLabels {
		c, err := domain.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("extra label %q: %w", label, err)
		}
		labels[label] = c
	}

	parser := dataprocessing.NewParser(
		dataprocessing.WithLayouts(layouts),
		dataprocessing.WithClassifier(dataprocessing.NewRowClassifier(labels)),
		dataprocessing.WithLogger(a.logger),
		dataprocessing.WithMetrics(a.otel.Metrics),
	)

	return dataprocessing.NewLoader(cache, parser,
		dataprocessing.WithVoteType(a.cfg.Fetch.VoteType),
		dataprocessing.WithFormat(dataprocessing.Format(a.cfg.Processing.Format)),
		dataprocessing.WithLoaderLogger(a.logger),
	), nil
}

// partiesFor returns the parties to report for year: nil (every party)
// when all is set, otherwise the parties of interest for that year.
func (a *app) partiesFor(year int, all bool) []string {
	if all {
		return nil
	}
	return config.Parties[year]
}
