package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/network"
	"github.com/efebarandurmaz/trustgraph/internal/observability"
	"github.com/efebarandurmaz/trustgraph/internal/vector"
)

func runAnalyze(ctx context.Context, a *app, w io.Writer) error {
	res, err := a.runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := res.Report.Render(w, a.cfg.Output.Format); err != nil {
		return err
	}
	if a.cfg.Output.Export == "" {
		return nil
	}
	fmt.Fprintln(w)
	return writeExport(ctx, a, res.Info.Graph, w)
}

type componentsView struct {
	Count int   `json:"count" yaml:"count"`
	Sizes []int `json:"sizes" yaml:"sizes"`
}

func runComponents(ctx context.Context, a *app, w io.Writer) error {
	info, err := a.runner.Analyze(ctx)
	if err != nil {
		return err
	}
	view := componentsView{Count: len(info.Components), Sizes: make([]int, len(info.Components))}
	for i, c := range info.Components {
		view.Sizes[i] = c.Len()
	}
	return render(w, a.cfg.Output.Format, view, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "Components: %d\n", view.Count)
		for i, n := range view.Sizes {
			fmt.Fprintf(&b, "  #%d: %d nodes\n", i, n)
		}
		return b.String()
	})
}

func runDistances(ctx context.Context, a *app, from uint64, w io.Writer) error {
	g, err := a.runner.Graph(ctx)
	if err != nil {
		return err
	}
	start := network.NodeID(from)

	var dist []network.Distance
	err = a.runner.Stage(ctx, observability.StageTraversal, func(_ context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String("traversal.kind", "bfs"), attribute.Int64("traversal.start", int64(start)))
		dist = network.BFSDistances(g, start)
		if dist == nil {
			return fmt.Errorf("node %d is not in the graph", start)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return render(w, a.cfg.Output.Format, dist, func() string {
		var b strings.Builder
		for _, d := range dist {
			fmt.Fprintf(&b, "%d\t%d\n", d.Node, d.Hops)
		}
		return b.String()
	})
}

func runReach(ctx context.Context, a *app, from uint64, w io.Writer) error {
	g, err := a.runner.Graph(ctx)
	if err != nil {
		return err
	}
	start := network.NodeID(from)

	var nodes []network.NodeID
	err = a.runner.Stage(ctx, observability.StageTraversal, func(_ context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String("traversal.kind", "dfs"), attribute.Int64("traversal.start", int64(start)))
		nodes = network.Reachable(g, start)
		if nodes == nil {
			return fmt.Errorf("node %d is not in the graph", start)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return render(w, a.cfg.Output.Format, nodes, func() string {
		parts := make([]string, len(nodes))
		for i, n := range nodes {
			parts[i] = fmt.Sprint(n)
		}
		return fmt.Sprintf("Reachable from %d (%d nodes): [%s]\n", start, len(nodes), strings.Join(parts, ", "))
	})
}

func runExport(ctx context.Context, a *app, w io.Writer) error {
	g, err := a.runner.Graph(ctx)
	if err != nil {
		return err
	}
	return writeExport(ctx, a, g, w)
}

func writeExport(ctx context.Context, a *app, g *network.Graph, w io.Writer) error {
	format := a.cfg.Output.Export
	return a.runner.Stage(ctx, observability.StageExport, func(_ context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String("export.format", format))
		var out string
		switch format {
		case "dot":
			out = network.ExportDOT(g)
		case "mermaid":
			out = network.ExportMermaid(g)
		case "json":
			data, err := network.ExportJSON(g)
			if err != nil {
				return err
			}
			out = string(data) + "\n"
		default:
			return fmt.Errorf("unknown export format %q", format)
		}
		_, err := io.WriteString(w, out)
		return err
	})
}

func runPublish(ctx context.Context, a *app, w io.Writer) error {
	info, err := a.runner.Analyze(ctx)
	if err != nil {
		return err
	}
	repo, err := a.graphDB(ctx)
	if err != nil {
		return err
	}
	err = a.runner.Stage(ctx, observability.StagePublish, func(ctx context.Context, _ trace.Span) error {
		return repo.StoreAnalysis(ctx, info)
	})
	if err != nil {
		return fmt.Errorf("publish to neo4j: %w", err)
	}
	a.logger.Info("published to neo4j", zap.Int("nodes", info.NodeCount()), zap.Int("edges", info.Graph.EdgeCount()))
	fmt.Fprintf(w, "Published %d nodes and %d edges to %s\n", info.NodeCount(), info.Graph.EdgeCount(), a.cfg.Neo4j.URI)
	return nil
}

func runIndex(ctx context.Context, a *app, w io.Writer) error {
	info, err := a.runner.Analyze(ctx)
	if err != nil {
		return err
	}
	repo, err := a.vectorDB(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	var n int
	err = a.runner.Stage(ctx, observability.StageIndex, func(ctx context.Context, _ trace.Span) error {
		var err error
		n, err = vector.Index(ctx, repo, info)
		return err
	})
	if err != nil {
		return fmt.Errorf("index in qdrant: %w", err)
	}
	fmt.Fprintf(w, "Indexed %d nodes into %s\n", n, a.cfg.Qdrant.Collection)
	return nil
}

func runSimilar(ctx context.Context, a *app, node uint64, top int, w io.Writer) error {
	info, err := a.runner.Analyze(ctx)
	if err != nil {
		return err
	}
	repo, err := a.vectorDB(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	var results []vector.SearchResult
	err = a.runner.Stage(ctx, observability.StageSimilar, func(ctx context.Context, _ trace.Span) error {
		var err error
		results, err = vector.Similar(ctx, repo, info, network.NodeID(node), top)
		return err
	})
	if err != nil {
		return err
	}
	return render(w, a.cfg.Output.Format, results, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "Nodes most similar to %d:\n", node)
		for _, r := range results {
			fmt.Fprintf(&b, "  %d\t%.4f\n", r.Node, r.Score)
		}
		return b.String()
	})
}

// render writes v as JSON or YAML, or the text form for any other format.
func render(w io.Writer, format string, v any, text func() string) error {
	switch format {
	case analysis.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case analysis.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, text())
		return err
	}
}
