package vector

import (
	"context"
	"fmt"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// Points converts the feature vectors of info into indexable points.
func Points(info *analysis.GraphInfo) []Point {
	feats := info.FeatureVectors()
	points := make([]Point, len(feats))
	for i, f := range feats {
		points[i] = Point{
			Node:   f.Node,
			Vector: f.Vector,
			Payload: map[string]float64{
				"indegree":   float64(info.Indegree[f.Node]),
				"outdegree":  float64(info.Outdegree[f.Node]),
				"clustering": info.Clustering[f.Node],
				"trust":      info.Trust[f.Node],
			},
		}
	}
	return points
}

// Index ensures the collection exists and upserts every node of info.
func Index(ctx context.Context, repo Repository, info *analysis.GraphInfo) (int, error) {
	if err := repo.EnsureCollection(ctx, analysis.FeatureDims); err != nil {
		return 0, fmt.Errorf("ensure collection: %w", err)
	}
	points := Points(info)
	if len(points) == 0 {
		return 0, nil
	}
	if err := repo.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return len(points), nil
}

// Similar returns up to top nodes whose profile is closest to node's,
// excluding node itself.
func Similar(ctx context.Context, repo Repository, info *analysis.GraphInfo, node network.NodeID, top int) ([]SearchResult, error) {
	if !info.Graph.Has(node) {
		return nil, fmt.Errorf("node %d is not in the graph", node)
	}
	if top <= 0 {
		return nil, nil
	}

	var query []float32
	for _, f := range info.FeatureVectors() {
		if f.Node == node {
			query = f.Vector
			break
		}
	}

	results, err := repo.Search(ctx, query, top+1)
	if err != nil {
		return nil, fmt.Errorf("search neighbours of %d: %w", node, err)
	}
	out := make([]SearchResult, 0, top)
	for _, r := range results {
		if r.Node == node {
			continue
		}
		out = append(out, r)
		if len(out) == top {
			break
		}
	}
	return out, nil
}
