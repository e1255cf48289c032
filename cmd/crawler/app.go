package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"newscrawler/pkg/config"
	"newscrawler/pkg/db"
	"newscrawler/pkg/delivery"
	"newscrawler/pkg/httpclient"
	"newscrawler/pkg/logger"
	"newscrawler/pkg/metrics"
	"newscrawler/pkg/pipeline"
	"newscrawler/pkg/render"
	"newscrawler/pkg/scheduler"
	"newscrawler/pkg/sites"
	"newscrawler/pkg/urls"
)

// app holds everything wired from one configuration
type app struct {
	cfg       *config.Config
	logger    logger.Logger
	client    *httpclient.HTTPClient
	renderer  render.Renderer
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	store     db.ArticleStore
	pipelines []*pipeline.SourcePipeline
}

func newApp(cfg *config.Config, log logger.Logger) *app {
	client := httpclient.NewClientWithTimeout(httpclient.ParseClientType(cfg.Render.Client), cfg.Render.Timeout)
	reg := prometheus.NewRegistry()

	return &app{
		cfg:      cfg,
		logger:   log,
		client:   client,
		renderer: render.NewHTTPRenderer(client, log),
		metrics:  metrics.New(reg),
		registry: reg,
	}
}

// openArchive connects the archive store, if one is configured
func (a *app) openArchive(ctx context.Context) error {
	store, err := db.Open(ctx, a.cfg.Archive.DB())
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	a.store = store
	if store != nil {
		a.logger.Info("Archive enabled", logger.String("backend", a.cfg.Archive.Backend))
	}
	return nil
}

// buildPipelines creates one pipeline per name, or per enabled source when names is empty
func (a *app) buildPipelines(names []string) error {
	if len(names) == 0 {
		names = a.cfg.EnabledSources()
	}
	if len(names) == 0 {
		return config.ErrNoSourcesEnabled
	}

	opts := a.cfg.Render.Options()
	for _, name := range names {
		sc := a.cfg.Source(name)
		source, err := sites.New(name, sc.Settings)
		if err != nil {
			return err
		}

		log := a.logger.With(logger.String("source", name))
		fetcher := pipeline.NewListingFetcher(a.renderer, source, opts, log)
		fetcher.
			WithFallback("feed", urls.NewFeedFetcher("", a.client.Client()), sc.FeedURL).
			WithFallback("sitemap", urls.NewSitemapFetcher(a.client), sc.SitemapURL)

		var deliverer delivery.Deliverer = delivery.NewClient(a.client, sc.APIEndpoint, log)
		deliverer = delivery.WithArchive(deliverer, a.store, log)

		p := pipeline.New(source, fetcher,
			pipeline.NewRenderProcessor(a.renderer, source, opts),
			deliverer,
			pipeline.Config{MaxArticles: sc.MaxArticles},
			a.logger,
			pipeline.WithMetrics(a.metrics))
		a.pipelines = append(a.pipelines, p)

		a.logger.Info("Crawler initialized",
			logger.String("source", name),
			logger.String("home_url", source.HomeURL()),
			logger.String("api_endpoint", sc.APIEndpoint),
			logger.Int("max_articles", sc.MaxArticles))
	}
	return nil
}

func (a *app) newScheduler() *scheduler.Scheduler {
	ps := make([]scheduler.Pipeline, 0, len(a.pipelines))
	for _, p := range a.pipelines {
		ps = append(ps, p)
	}
	return scheduler.New(ps, a.cfg.Schedule, a.logger)
}

// serveMetrics exposes /metrics on METRICS_ADDR until ctx is done
func (a *app) serveMetrics(ctx context.Context) {
	if a.cfg.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("Serving metrics", logger.String("addr", a.cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func (a *app) close(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			a.logger.Warn("Failed to close archive", logger.Error(err))
		}
	}
	_ = a.logger.Sync()
}
