package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/watari-dev/linkmirror/internal/model"
)

// BatchProcessor handles concurrent builds of multiple inputs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-build execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each build.
	// We use a factory to ensure each build gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// reportFactory creates the report for each input. The caller uses
	// it to set per-input state such as the output directory.
	reportFactory func(source string) *model.BuildReport

	// concurrency is the maximum number of concurrent builds.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed build reports.
	// Access is synchronized via mutex.
	results []*model.BuildReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent builds.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithReportFactory sets the function that creates the report for each
// input. The default is model.NewBuildReport, which leaves the output
// directory empty; callers building several inputs set distinct output
// directories here.
func WithReportFactory(factory func(source string) *model.BuildReport) BatchOption {
	return func(b *BatchProcessor) {
		if factory != nil {
			b.reportFactory = factory
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each build to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// builds and allows for per-build customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		reportFactory:   model.NewBuildReport,
		concurrency:     4,
		results:         make([]*model.BuildReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch builds multiple inputs concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each input gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports in input order, even for inputs that failed.
// The error return indicates whether the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]*model.BuildReport, error) {
	bp.logger.Debug("starting batch build",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.BuildReport, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("building input",
				"input", input,
				"index", i+1,
				"total", len(inputs),
			)

			report := bp.reportFactory(input)

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			// Store result regardless of error; the report carries the
			// error information when the build failed.
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("build failed",
					"input", input,
					"error", err,
				)
				// Don't return the error to errgroup - we want the other
				// builds to continue.
				return nil
			}

			bp.logger.Debug("build completed", "input", input)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch build complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}
