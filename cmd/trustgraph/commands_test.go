package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/efebarandurmaz/trustgraph/internal/config"
	"github.com/efebarandurmaz/trustgraph/internal/pipeline"
)

func newTestApp(t *testing.T, csv string) *app {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	cfg := config.Default()
	cfg.Input.Path = path
	logger := zap.NewNop()
	return &app{cfg: cfg, logger: logger, runner: pipeline.New(cfg, logger, nil)}
}

// Two components: a 1-2-3 cycle and a 4->5 pair.
const sampleCSV = "1,2,6\n2,3,5\n3,1,1\n4,5,-2\n"

func TestRunAnalyze_Text(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	var out bytes.Buffer
	require.NoError(t, runAnalyze(context.Background(), a, &out))

	text := out.String()
	assert.Contains(t, text, "Nodes with trust score >= 5: 2 nodes.")
	assert.Contains(t, text, "Selected Representatives: [")
	assert.Contains(t, text, "Average clustering coefficient of representatives:")
}

func TestRunAnalyze_JSONWithExport(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	a.cfg.Output.Format = "json"
	a.cfg.Output.Export = "mermaid"

	var out bytes.Buffer
	require.NoError(t, runAnalyze(context.Background(), a, &out))
	assert.Contains(t, out.String(), `"representatives"`)
	assert.Contains(t, out.String(), "graph LR")
}

func TestRunComponents(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	var out bytes.Buffer
	require.NoError(t, runComponents(context.Background(), a, &out))
	assert.Contains(t, out.String(), "Components: 2")
}

func TestRunDistances(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	var out bytes.Buffer
	require.NoError(t, runDistances(context.Background(), a, 1, &out))
	assert.Equal(t, "1\t0\n2\t1\n3\t2\n", out.String())
}

func TestRunReach_UnknownNode(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	err := runReach(context.Background(), a, 99, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node 99 is not in the graph")
}

func TestRunReach(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	var out bytes.Buffer
	require.NoError(t, runReach(context.Background(), a, 4, &out))
	assert.Equal(t, "Reachable from 4 (2 nodes): [4, 5]\n", out.String())
}

func TestRunExport_DOT(t *testing.T) {
	a := newTestApp(t, sampleCSV)
	a.cfg.Output.Export = "dot"
	var out bytes.Buffer
	require.NoError(t, runExport(context.Background(), a, &out))
	assert.Contains(t, out.String(), "digraph trust {")
	assert.Contains(t, out.String(), `"4" -> "5"`)
}

func TestRender_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, render(&out, "yaml", componentsView{Count: 1, Sizes: []int{3}}, nil))
	assert.Equal(t, "count: 1\nsizes:\n  - 3\n", out.String())
}
