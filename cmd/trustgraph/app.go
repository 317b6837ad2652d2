package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/efebarandurmaz/trustgraph/internal/config"
	"github.com/efebarandurmaz/trustgraph/internal/graphdb"
	"github.com/efebarandurmaz/trustgraph/internal/graphdb/neo4j"
	"github.com/efebarandurmaz/trustgraph/internal/observability"
	"github.com/efebarandurmaz/trustgraph/internal/pipeline"
	"github.com/efebarandurmaz/trustgraph/internal/secrets"
	"github.com/efebarandurmaz/trustgraph/internal/vector/qdrant"
)

const version = "0.1.0"

type rootOptions struct {
	configPath string
	logLevel   string
	input      string
	source     string
	summary    string
	stats      bool
}

// app carries everything a subcommand needs for one run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	runner *pipeline.Runner
	graph  graphdb.Repository
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if f.Changed("input") {
		cfg.Input.Path = opts.input
	}
	if f.Changed("source") {
		cfg.Input.Source = opts.source
	}
	if f.Changed("summary") {
		cfg.Metrics.Summary = opts.summary
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if cfg.Input.Source == "csv" && cfg.Input.Path == "" {
		return nil, errors.New("no input: set --input or input.path")
	}
	return cfg, nil
}

// withApp loads configuration, sets up logging and tracing, runs fn inside
// a root span and writes the run's metric outputs.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) (err error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Validate() {
		logger.Warn("config warning", zap.String("warning", w))
	}

	ctx := cmd.Context()
	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "trustgraph",
		ServiceVersion: version,
		Environment:    cfg.Tracing.Environment,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SampleRate:     cfg.Tracing.SampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := tp.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("tracer shutdown", zap.Error(serr))
		}
	}()

	a := &app{
		cfg:    cfg,
		logger: logger,
		runner: pipeline.New(cfg, logger, nil),
	}
	defer a.close(context.Background())

	if cfg.Input.Source == "neo4j" {
		repo, err := a.graphDB(ctx)
		if err != nil {
			return err
		}
		a.runner.WithSource(repo)
	}

	ctx, span := observability.StartRunSpan(ctx, a.runner.Metrics().RunID, inputName(cfg))
	defer span.End()

	err = fn(ctx, a)
	observability.RecordError(span, err)

	if ferr := a.runner.Finish(); ferr != nil {
		if err == nil {
			err = ferr
		} else {
			logger.Warn("writing run metrics", zap.Error(ferr))
		}
	}
	if opts.stats {
		a.runner.Metrics().PrintSummary(os.Stderr)
	}
	return err
}

func inputName(cfg *config.Config) string {
	if cfg.Input.Source == "neo4j" {
		return cfg.Neo4j.URI
	}
	return cfg.Input.Path
}

// graphDB opens the Neo4j repository on first use.
func (a *app) graphDB(ctx context.Context) (graphdb.Repository, error) {
	if a.graph != nil {
		return a.graph, nil
	}
	n := a.cfg.Neo4j
	if n.URI == "" {
		return nil, errors.New("neo4j.uri is not configured")
	}
	password := n.Password
	if password == "" {
		sm, err := secrets.NewManager(secrets.Config{
			Provider:  a.cfg.Secrets.Provider,
			File:      a.cfg.Secrets.File,
			EnvPrefix: config.EnvPrefix + "_",
		})
		if err != nil {
			return nil, err
		}
		password = sm.GetOrDefault(ctx, secrets.Neo4jPassword, "")
	}
	repo, err := neo4j.NewNeo4j(ctx, n.URI, n.Username, password, n.Database)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("connected to neo4j", zap.String("uri", n.URI), zap.String("database", n.Database))
	a.graph = repo
	return repo, nil
}

func (a *app) vectorDB(ctx context.Context) (*qdrant.QdrantRepository, error) {
	q := a.cfg.Qdrant
	repo, err := qdrant.NewQdrant(ctx, q.Host, q.Port, q.Collection)
	if err != nil {
		return nil, fmt.Errorf("qdrant %s:%d: %w", q.Host, q.Port, err)
	}
	return repo, nil
}

func (a *app) close(ctx context.Context) {
	if a.graph != nil {
		if err := a.graph.Close(ctx); err != nil {
			a.logger.Warn("closing neo4j", zap.Error(err))
		}
	}
}
