// Package scheduler triggers crawl cycles of every enabled source on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"newscrawler/pkg/logger"
	"newscrawler/pkg/pipeline"
)

// Pipeline is one source's crawl cycle
type Pipeline interface {
	Name() string
	Run(ctx context.Context) pipeline.Result
}

// Scheduler runs all pipelines together, either once or on a schedule
type Scheduler struct {
	pipelines []Pipeline
	cfg       ScheduleConfig
	logger    logger.Logger
}

// New creates a scheduler for pipelines
func New(pipelines []Pipeline, cfg ScheduleConfig, log logger.Logger) *Scheduler {
	return &Scheduler{
		pipelines: pipelines,
		cfg:       cfg,
		logger:    log,
	}
}

// RunAll runs every pipeline concurrently and waits for all of them. Results
// are returned in pipeline order. A panic in one pipeline is reported in its
// Result and does not affect the others.
func (s *Scheduler) RunAll(ctx context.Context) []pipeline.Result {
	if len(s.pipelines) == 0 {
		s.logger.Warn("No crawlers to run")
		return nil
	}

	s.logger.Info("Starting scheduled crawl for all sources",
		logger.String("time", time.Now().Format("2006-01-02 15:04:05")))

	type indexed struct {
		i   int
		res pipeline.Result
	}
	resultsChan := make(chan indexed, len(s.pipelines))

	var wg sync.WaitGroup
	for i, p := range s.pipelines {
		wg.Add(1)
		go func(i int, p Pipeline) {
			defer wg.Done()
			resultsChan <- indexed{i: i, res: runIsolated(ctx, p)}
		}(i, p)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]pipeline.Result, len(s.pipelines))
	for r := range resultsChan {
		results[r.i] = r.res
		name := s.pipelines[r.i].Name()
		if r.res.Err != nil {
			s.logger.Error("Crawler failed",
				logger.String("source", name),
				logger.Error(r.res.Err))
			continue
		}
		s.logger.Info("Crawler completed",
			logger.String("source", name),
			logger.String("outcome", r.res.Outcome()),
			logger.Int("delivered", r.res.Delivered))
	}

	s.logger.Info("All crawlers completed")
	return results
}

func runIsolated(ctx context.Context, p Pipeline) (res pipeline.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = pipeline.Result{Source: p.Name(), Err: fmt.Errorf("panic in crawler: %v", r)}
		}
	}()
	return p.Run(ctx)
}

// Start registers the schedule, runs an initial cycle when configured and
// blocks until ctx is cancelled. Running cycles are awaited before returning.
func (s *Scheduler) Start(ctx context.Context) error {
	specs, err := CronSpecs(s.cfg)
	if err != nil {
		return err
	}

	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	job := cron.FuncJob(func() { s.RunAll(ctx) })
	for _, spec := range specs {
		if _, err := c.AddJob(spec, job); err != nil {
			return fmt.Errorf("schedule %q: %w", spec, err)
		}
		s.logger.Info("Scheduled crawl", logger.String("spec", spec))
	}

	if s.cfg.RunImmediately {
		s.logger.Info("Running initial crawl")
		s.RunAll(ctx)
	}

	c.Start()
	s.logger.Info("Scheduler is running")

	<-ctx.Done()
	s.logger.Info("Scheduler stopping")
	<-c.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []any) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
