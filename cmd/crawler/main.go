// Command crawler crawls the configured news sites and posts every article
// it extracts to the ingestion API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newscrawler/pkg/config"
	"newscrawler/pkg/logger"
	"newscrawler/pkg/render"
	"newscrawler/pkg/sites"
)

// errSourcesFailed makes `once` exit non-zero
var errSourcesFailed = errors.New("one or more sources failed")

var cfgFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "crawler",
		Short:        "Crawl crypto news sites and forward articles to the ingestion API",
		SilenceUsage: true,
		RunE:         runSchedule,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: $CONFIG_FILE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "schedule",
			Short: "Run crawl cycles on the configured schedule until interrupted",
			Args:  cobra.NoArgs,
			RunE:  runSchedule,
		},
		&cobra.Command{
			Use:       "once [source...]",
			Short:     "Run one crawl cycle of the given sources (default: all enabled)",
			ValidArgs: sites.Names(),
			RunE:      runOnce,
		},
		&cobra.Command{
			Use:       "discover <source>",
			Short:     "Render a source's listing page and print the article links found",
			Args:      cobra.ExactArgs(1),
			ValidArgs: sites.Names(),
			RunE:      runDiscover,
		},
	)
	return root
}

// setup loads and validates the configuration and creates the logger
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.Logger())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func start(ctx context.Context, names []string) (*app, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, err
	}

	a := newApp(cfg, log)
	if err := a.openArchive(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	if err := a.buildPipelines(names); err != nil {
		if errors.Is(err, config.ErrNoSourcesEnabled) {
			log.Error("No crawlers enabled, check your configuration")
		}
		a.close(ctx)
		return nil, err
	}
	a.serveMetrics(ctx)
	return a, nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := start(ctx, nil)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	a.logger.Info("Starting crawler scheduler", logger.String("schedule_type", a.cfg.Schedule.Type))
	return a.newScheduler().Start(ctx)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := start(ctx, args)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	for _, res := range a.newScheduler().RunAll(ctx) {
		if res.Err != nil {
			return errSourcesFailed
		}
	}
	return nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sc := cfg.Source(args[0])
	source, err := sites.New(args[0], sc.Settings)
	if err != nil {
		return err
	}

	a := newApp(cfg, log)
	page, err := a.renderer.Render(ctx, source.HomeURL(), cfg.Render.Options())
	if err != nil {
		return fmt.Errorf("%w: %w", render.ErrPageNotRendered, err)
	}
	if !render.OK(page, nil) {
		return fmt.Errorf("%w: %s", render.ErrPageNotRendered, render.Reason(page))
	}

	out := cmd.OutOrStdout()
	for _, link := range source.DiscoverLinks(page) {
		fmt.Fprintln(out, link)
	}
	return nil
}
