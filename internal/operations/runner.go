package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kavya1280/JK-Insights/internal/insights"
)

// RunnerConfig wires a Runner
type RunnerConfig struct {
	DataDir   string
	OutputDir string
	Options   insights.Options
	// Workers bounds the detectors running at once
	Workers int
	Metrics *InsightMetrics
	Tracer  trace.Tracer
	Logger  *slog.Logger
}

// Runner loads master data and executes detectors
type Runner struct {
	dataDir   string
	outputDir string
	opts      insights.Options
	workers   int
	metrics   *InsightMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewRunner creates a runner
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = defaultTracer()
	}
	return &Runner{
		dataDir:   cfg.DataDir,
		outputDir: cfg.OutputDir,
		opts:      cfg.Options,
		workers:   cfg.Workers,
		metrics:   cfg.Metrics,
		tracer:    cfg.Tracer,
		logger:    cfg.Logger.With(slog.String("component", "runner")),
	}
}

// Run generates the selected insights. The returned results follow catalog
// order, one per detector. The error is non-nil only when the selection is
// invalid; detector failures are reported in the results.
func (r *Runner) Run(ctx context.Context, ids []string, progress ProgressFunc) ([]InsightResult, error) {
	gens, err := insights.Resolve(ids)
	if err != nil {
		return nil, err
	}

	in, loadErrs := insights.LoadInputs(ctx, r.dataDir, insights.RequiredSources(gens), r.logger)

	results := make([]InsightResult, len(gens))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, gen := range gens {
		g.Go(func() error {
			res := r.runOne(gctx, gen, in, loadErrs)
			results[i] = res

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if progress != nil {
				progress(n, len(gens), res)
			}
			// detector failures never cancel siblings
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, gen insights.Generator, in insights.Inputs, loadErrs map[insights.Source]error) (res InsightResult) {
	start := time.Now()
	res.Insight = gen.Key
	logger := r.logger.With(slog.String("insight", gen.Key))

	ctx, span := startInsightSpan(ctx, r.tracer, gen.Key)
	var runErr error
	defer func() {
		if p := recover(); p != nil {
			runErr = fmt.Errorf("panic: %v", p)
			res.Status = InsightFailed
			res.Error = runErr.Error()
			res.Outputs = nil
		}
		elapsed := time.Since(start)
		res.DurationMS = elapsed.Milliseconds()
		endInsightSpan(ctx, span, res, runErr)
		r.metrics.observe(res, elapsed)

		if runErr != nil {
			logger.ErrorContext(ctx, "insight failed",
				slog.String("error", runErr.Error()),
				slog.Duration("duration", elapsed))
			return
		}
		logger.InfoContext(ctx, "insight finished",
			slog.String("status", string(res.Status)),
			slog.Int("files", len(res.Outputs)),
			slog.Duration("duration", elapsed))
	}()

	if err := ctx.Err(); err != nil {
		runErr = err
		res.Status = InsightSkipped
		res.Error = err.Error()
		return res
	}

	if err := gen.Check(in); err != nil {
		runErr = withLoadError(err, gen, loadErrs)
		res.Status = InsightFailed
		res.Error = runErr.Error()
		return res
	}

	outs, err := gen.Run(in, r.opts)
	if err != nil {
		runErr = err
		res.Status = InsightFailed
		res.Error = err.Error()
		return res
	}

	written, err := insights.WriteOutputs(r.outputDir, outs)
	res.Outputs = written
	if err != nil {
		runErr = err
		res.Status = InsightFailed
		res.Error = err.Error()
		return res
	}

	res.Status = InsightCompleted
	if len(written) == 0 {
		res.Status = InsightNoExceptions
	}
	return res
}

// withLoadError prefers the load failure over the generic missing-input error
func withLoadError(err error, gen insights.Generator, loadErrs map[insights.Source]error) error {
	for _, src := range gen.Inputs {
		if le, ok := loadErrs[src]; ok && !errors.Is(le, insights.ErrMissingInput) {
			return fmt.Errorf("%s: %w", gen.Key, le)
		}
	}
	return err
}
