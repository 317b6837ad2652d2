// Package graphdb defines storage for analyzed trust networks.
package graphdb

import (
	"context"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// Repository persists trust networks and their per-node metrics.
type Repository interface {
	// StoreAnalysis writes every node with its metrics and every edge.
	StoreAnalysis(ctx context.Context, info *analysis.GraphInfo) error
	// LoadEdges reads back all stored edges.
	LoadEdges(ctx context.Context) ([]network.Edge, error)
	// Close releases resources.
	Close(ctx context.Context) error
}
