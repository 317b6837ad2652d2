// Package pipeline runs the load, build, analyze and report stages of a
// trustgraph run with tracing, logging and metrics around each stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/config"
	"github.com/efebarandurmaz/trustgraph/internal/loader"
	"github.com/efebarandurmaz/trustgraph/internal/metrics"
	"github.com/efebarandurmaz/trustgraph/internal/network"
	"github.com/efebarandurmaz/trustgraph/internal/observability"
)

// ErrNoSource is returned when the input source is neo4j but no edge
// source was attached.
var ErrNoSource = errors.New("no edge source configured")

// EdgeSource supplies edges from somewhere other than a CSV file.
type EdgeSource interface {
	LoadEdges(ctx context.Context) ([]network.Edge, error)
}

// Result is the outcome of a full run.
type Result struct {
	Info    *analysis.GraphInfo
	Report  *analysis.Report
	Metrics *metrics.RunMetrics
}

// Runner executes pipeline stages for one configuration. A Runner is used
// for a single run.
type Runner struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *observability.Collector
	source    EdgeSource
	run       *metrics.RunMetrics
}

// New creates a Runner. A nil logger discards logs; a nil collector
// creates one under the configured namespace.
func New(cfg *config.Config, logger *zap.Logger, collector *observability.Collector) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = observability.NewCollector(cfg.Metrics.Namespace)
	}
	run := metrics.New()
	return &Runner{
		cfg:       cfg,
		logger:    logger.With(zap.String("run_id", run.RunID)),
		collector: collector,
		run:       run,
	}
}

// WithSource attaches the edge source used when input.source is neo4j.
func (r *Runner) WithSource(src EdgeSource) *Runner {
	r.source = src
	return r
}

// Metrics returns the run summary collected so far.
func (r *Runner) Metrics() *metrics.RunMetrics { return r.run }

// Collector returns the Prometheus collector of the run.
func (r *Runner) Collector() *observability.Collector { return r.collector }

// Logger returns the run-scoped logger.
func (r *Runner) Logger() *zap.Logger { return r.logger }

// Stage runs fn inside a traced, timed and logged stage.
func (r *Runner) Stage(ctx context.Context, name string, fn func(ctx context.Context, span trace.Span) error) error {
	ctx, span := observability.StartStageSpan(ctx, name)
	defer span.End()

	r.logger.Debug("stage started", zap.String("stage", name))
	start := time.Now()
	err := fn(ctx, span)
	d := time.Since(start)

	observability.RecordError(span, err)
	r.collector.ObserveStage(name, d, err)
	r.run.AddStage(name, d, err)

	if err != nil {
		r.logger.Error("stage failed", zap.String("stage", name), zap.Duration("duration", d), zap.Error(err))
		return err
	}
	r.logger.Debug("stage finished", zap.String("stage", name), zap.Duration("duration", d))
	return nil
}

// Graph loads the configured input and builds the trust network.
func (r *Runner) Graph(ctx context.Context) (*network.Graph, error) {
	var edges []network.Edge
	err := r.Stage(ctx, observability.StageLoad, func(ctx context.Context, span trace.Span) error {
		var err error
		edges, err = r.load(ctx)
		if err != nil {
			return err
		}
		observability.RecordGraphSize(span, 0, len(edges))
		return nil
	})
	if err != nil {
		return nil, err
	}

	var g *network.Graph
	err = r.Stage(ctx, observability.StageBuild, func(ctx context.Context, span trace.Span) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		g = network.Build(edges)
		observability.RecordGraphSize(span, g.Len(), g.EdgeCount())
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.collector.Nodes.Set(float64(g.Len()))
	r.collector.Edges.Set(float64(g.EdgeCount()))
	r.run.Graph.Nodes = g.Len()
	r.run.Graph.Edges = g.EdgeCount()
	r.logger.Info("graph built", zap.Int("nodes", g.Len()), zap.Int("edges", g.EdgeCount()))
	return g, nil
}

func (r *Runner) load(ctx context.Context) ([]network.Edge, error) {
	in := r.cfg.Input
	switch in.Source {
	case "neo4j":
		if r.source == nil {
			return nil, ErrNoSource
		}
		edges, err := r.source.LoadEdges(ctx)
		if err != nil {
			return nil, fmt.Errorf("load edges from neo4j: %w", err)
		}
		r.run.CollectInput("neo4j", "", len(edges))
		return edges, nil
	default:
		opts := loader.Options{HasHeader: in.HasHeader}
		if in.Separator != "" {
			opts.Comma = []rune(in.Separator)[0]
		}
		edges, err := loader.LoadFile(in.Path, opts)
		if err != nil {
			return nil, err
		}
		r.run.CollectInput("csv", in.Path, len(edges))
		return edges, nil
	}
}

// Analyze loads, builds and computes every per-node metric.
func (r *Runner) Analyze(ctx context.Context) (*analysis.GraphInfo, error) {
	g, err := r.Graph(ctx)
	if err != nil {
		return nil, err
	}

	var info *analysis.GraphInfo
	err = r.Stage(ctx, observability.StageAnalyze, func(ctx context.Context, span trace.Span) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		info = analysis.New(g)
		largest := 0
		for _, c := range info.Components {
			largest = max(largest, c.Len())
		}
		observability.RecordAnalysis(span, len(info.Components), largest, 0)
		r.collector.Components.Set(float64(len(info.Components)))
		r.collector.LargestComponent.Set(float64(largest))
		r.run.Graph.Components = len(info.Components)
		r.run.Graph.LargestComponent = largest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Run executes every stage and builds the combined report.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	info, err := r.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	a := r.cfg.Analysis
	var report *analysis.Report
	err = r.Stage(ctx, observability.StageReport, func(_ context.Context, span trace.Span) error {
		var err error
		report, err = info.BuildReport(a.HighTrust, a.LowTrust, a.Representatives)
		if err != nil {
			return err
		}
		reps := len(report.Representative.Representatives)
		observability.RecordAnalysis(span, report.Summary.Components, report.Summary.LargestComponent, reps)
		r.collector.Representatives.Set(float64(reps))
		r.collector.MeanTrust.Set(report.Summary.MeanTrust)
		r.collector.MeanClustering.Set(report.Summary.MeanClustering)
		r.run.Graph.Representatives = reps
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	r.logger.Info("analysis complete",
		zap.Int("nodes", report.Summary.Nodes),
		zap.Int("components", report.Summary.Components),
		zap.Int("high_trust", report.Threshold.High.Count),
		zap.Int("low_trust", report.Threshold.Low.Count),
		zap.Int("representatives", len(report.Representative.Representatives)),
	)
	return &Result{Info: info, Report: report, Metrics: r.run}, nil
}

// Finish closes the run summary and writes the configured metric outputs.
func (r *Runner) Finish() error {
	r.run.Finish()
	r.logger.Info("run finished",
		zap.Duration("duration", r.run.Duration),
		zap.Int("stages", len(r.run.Stages)),
		zap.Int("errors", len(r.run.Errors)),
	)

	var errs []error
	if path := r.cfg.Metrics.Textfile; path != "" {
		if err := r.collector.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		}
	}
	if path := r.cfg.Metrics.Summary; path != "" {
		if err := r.run.WriteJSON(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
