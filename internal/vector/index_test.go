package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/network"
)

type memRepo struct {
	dims    int
	points  []Point
	results []SearchResult
	limit   int
	err     error
}

func (m *memRepo) EnsureCollection(_ context.Context, dims int) error {
	m.dims = dims
	return m.err
}

func (m *memRepo) Upsert(_ context.Context, points []Point) error {
	m.points = append(m.points, points...)
	return nil
}

func (m *memRepo) Search(_ context.Context, _ []float32, topK int) ([]SearchResult, error) {
	m.limit = topK
	return m.results, nil
}

func (m *memRepo) Close() error { return nil }

func sampleInfo() *analysis.GraphInfo {
	return analysis.New(network.Build([]network.Edge{
		{From: 1, To: 2, Weight: 4},
		{From: 2, To: 3, Weight: 2},
		{From: 3, To: 1, Weight: 1},
	}))
}

func TestPoints(t *testing.T) {
	points := Points(sampleInfo())
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for _, p := range points {
		if len(p.Vector) != analysis.FeatureDims {
			t.Errorf("node %d: vector length %d", p.Node, len(p.Vector))
		}
	}
	if got := points[1].Payload["trust"]; got != 4 {
		t.Errorf("node 2 trust payload = %v, want 4", got)
	}
}

func TestIndex(t *testing.T) {
	repo := &memRepo{}
	n, err := Index(context.Background(), repo, sampleInfo())
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if n != 3 || len(repo.points) != 3 {
		t.Errorf("indexed %d (stored %d), want 3", n, len(repo.points))
	}
	if repo.dims != analysis.FeatureDims {
		t.Errorf("collection dims = %d", repo.dims)
	}
}

func TestIndex_CollectionError(t *testing.T) {
	repo := &memRepo{err: errors.New("unavailable")}
	if _, err := Index(context.Background(), repo, sampleInfo()); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.points) != 0 {
		t.Error("points should not be upserted when the collection is missing")
	}
}

func TestSimilar_ExcludesQueryNode(t *testing.T) {
	repo := &memRepo{results: []SearchResult{
		{Node: 2, Score: 1},
		{Node: 3, Score: 0.9},
		{Node: 1, Score: 0.5},
	}}
	got, err := Similar(context.Background(), repo, sampleInfo(), 2, 2)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if repo.limit != 3 {
		t.Errorf("search limit = %d, want 3", repo.limit)
	}
	if len(got) != 2 || got[0].Node != 3 || got[1].Node != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestSimilar_UnknownNode(t *testing.T) {
	if _, err := Similar(context.Background(), &memRepo{}, sampleInfo(), 42, 3); err == nil {
		t.Fatal("expected error for unknown node")
	}
}
