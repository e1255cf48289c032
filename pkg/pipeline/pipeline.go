// Package pipeline runs one crawl cycle of a source: discover links, cap
// them, then render, extract and deliver each article in turn.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"newscrawler/pkg/delivery"
	"newscrawler/pkg/logger"
	"newscrawler/pkg/metrics"
	"newscrawler/pkg/sites"
)

// Result summarizes one invocation of Run
type Result struct {
	Source string
	RunID  string
	// Skipped is set when a cycle of the same source was already in progress
	Skipped    bool
	Discovered int
	// Processed counts the articles attempted after truncation
	Processed int
	Rendered  int
	Delivered int
	Duration  time.Duration
	// Err holds a recovered panic or a cancellation; per-article failures are not errors
	Err error
}

// Outcome classifies the result for logs and metrics
func (r Result) Outcome() string {
	switch {
	case r.Skipped:
		return metrics.OutcomeSkipped
	case r.Err != nil:
		return metrics.OutcomeFailed
	case r.Discovered == 0:
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeCompleted
	}
}

// Config holds the per-source cycle settings
type Config struct {
	// MaxArticles caps the articles processed per cycle; 0 means no cap
	MaxArticles int
}

// SleepFunc pauses between articles and returns early with ctx's error
type SleepFunc func(ctx context.Context, d time.Duration) error

// SourcePipeline runs the crawl cycle of one source. A pipeline never runs
// two cycles at once; an overlapping Run returns immediately.
type SourcePipeline struct {
	source    sites.Source
	fetcher   URLFetcher
	processor ContentProcessor
	deliverer delivery.Deliverer
	cfg       Config
	logger    logger.Logger
	metrics   *metrics.Metrics

	sleep    SleepFunc
	now      func() time.Time
	newRunID func() string

	running atomic.Bool
	runs    atomic.Int64
}

// Option customizes a SourcePipeline
type Option func(*SourcePipeline)

// WithMetrics records cycle, render and delivery metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *SourcePipeline) { p.metrics = m }
}

// WithSleep replaces the inter-article pause
func WithSleep(fn SleepFunc) Option {
	return func(p *SourcePipeline) { p.sleep = fn }
}

// WithClock replaces the clock used for crawled_at
func WithClock(now func() time.Time) Option {
	return func(p *SourcePipeline) { p.now = now }
}

// New creates the pipeline of source
func New(source sites.Source, fetcher URLFetcher, processor ContentProcessor, deliverer delivery.Deliverer, cfg Config, log logger.Logger, opts ...Option) *SourcePipeline {
	p := &SourcePipeline{
		source:    source,
		fetcher:   fetcher,
		processor: processor,
		deliverer: deliverer,
		cfg:       cfg,
		logger:    log.With(logger.String("source", source.Name())),
		sleep:     Sleep,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Source returns the crawled source
func (p *SourcePipeline) Source() sites.Source {
	return p.source
}

// Name returns the source name
func (p *SourcePipeline) Name() string {
	return p.source.Name()
}

// Running reports whether a cycle is in progress
func (p *SourcePipeline) Running() bool {
	return p.running.Load()
}

// Runs returns the number of cycles started, excluding skipped invocations
func (p *SourcePipeline) Runs() int64 {
	return p.runs.Load()
}

// Run executes one cycle. It never panics and never returns an error; every
// failure is logged and reflected in the Result.
func (p *SourcePipeline) Run(ctx context.Context) (res Result) {
	name := p.source.Name()
	res.Source = name

	if !p.running.CompareAndSwap(false, true) {
		p.logger.Warn("Crawl already in progress, skipping")
		res.Skipped = true
		p.metrics.ObserveCycle(name, res.Outcome(), 0)
		return res
	}

	p.runs.Add(1)
	start := time.Now()
	res.RunID = p.newRunID()
	log := p.logger.With(logger.String("run_id", res.RunID))
	p.metrics.SetRunning(name, true)

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic during crawl: %v", r)
			log.Error("Workflow error", logger.Error(res.Err))
		}
		res.Duration = time.Since(start)
		p.metrics.ObserveCycle(name, res.Outcome(), res.Duration)
		p.metrics.SetRunning(name, false)
		p.running.Store(false)
	}()

	log.Info("Starting crawl workflow")
	p.cycle(ctx, log, &res)
	return res
}

func (p *SourcePipeline) cycle(ctx context.Context, log logger.Logger, res *Result) {
	start := time.Now()
	links := p.fetcher.Fetch(ctx)
	res.Discovered = len(links)
	if len(links) == 0 {
		log.Error("No articles found")
		return
	}

	if p.cfg.MaxArticles > 0 && len(links) > p.cfg.MaxArticles {
		links = links[:p.cfg.MaxArticles]
	}
	total := len(links)
	log.Info(fmt.Sprintf("Processing %d articles", total))

	for i, url := range links {
		if err := ctx.Err(); err != nil {
			res.Err = err
			log.Warn("Crawl cancelled", logger.Int("remaining", total-i))
			break
		}

		res.Processed++
		log.Info(fmt.Sprintf("[%d/%d] Crawling", i+1, total), logger.String("url", url))

		rendered, delivered := p.crawlArticle(ctx, log, url, res.RunID)
		if rendered {
			res.Rendered++
		}
		if delivered {
			res.Delivered++
		}

		if i < total-1 {
			if err := p.sleep(ctx, p.source.ArticleDelay()); err != nil {
				res.Err = err
				log.Warn("Crawl cancelled", logger.Int("remaining", total-i-1))
				break
			}
		}
	}

	log.Info(fmt.Sprintf("Completed in %.1fs - Success: %d/%d articles",
		time.Since(start).Seconds(), res.Delivered, total))
}

// crawlArticle renders, extracts and delivers one article. A panic is
// confined to the article and counted as a failed render, or as a failed
// delivery once the article rendered.
func (p *SourcePipeline) crawlArticle(ctx context.Context, log logger.Logger, url, runID string) (rendered, delivered bool) {
	name := p.source.Name()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while crawling article: %v", r)
			log.Error("Failed to crawl article", logger.String("url", url), logger.Error(err))
			if rendered {
				p.metrics.ObserveDelivery(name, false)
			} else {
				p.metrics.ObserveRender(name, false)
			}
			delivered = false
		}
	}()

	run := sites.RunInfo{ID: runID, CrawledAt: p.now().UTC()}
	rec, err := p.processor.ProcessContent(ctx, url, run)
	p.metrics.ObserveRender(name, err == nil)
	if err != nil {
		log.Warn("Failed to crawl article", logger.String("url", url), logger.Error(err))
		return false, false
	}

	rendered = true
	delivered = p.deliverer.Deliver(ctx, *rec)
	p.metrics.ObserveDelivery(name, delivered)
	return rendered, delivered
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
