// Package vector indexes per-node feature vectors for similarity search.
package vector

import (
	"context"

	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// Point is one node's feature vector with the metrics it was derived from.
type Point struct {
	Node    network.NodeID
	Vector  []float32
	Payload map[string]float64
}

// SearchResult is a single match from a similarity search.
type SearchResult struct {
	Node    network.NodeID     `json:"node" yaml:"node"`
	Score   float32            `json:"score" yaml:"score"`
	Payload map[string]float64 `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Repository provides vector storage and similarity search.
type Repository interface {
	// EnsureCollection creates the collection for vectors of dims length
	// unless it already exists.
	EnsureCollection(ctx context.Context, dims int) error
	// Upsert inserts or updates points.
	Upsert(ctx context.Context, points []Point) error
	// Search finds the top-k most similar points.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	// Close releases resources.
	Close() error
}
