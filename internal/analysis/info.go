// Package analysis builds a read-only snapshot of a trust network's metrics
// and derives the threshold and representative reports from it.
package analysis

import (
	"errors"

	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// ErrEmptyGraph is returned when a report needs per-node averages over a
// graph with no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// GraphInfo bundles a graph with every per-node metric computed from it.
// It is built once by New and never mutated.
type GraphInfo struct {
	Graph      *network.Graph
	Indegree   map[network.NodeID]int
	Outdegree  map[network.NodeID]int
	Clustering map[network.NodeID]float64
	Trust      map[network.NodeID]float64
	Components []*network.Graph
}

// New computes all metrics of g eagerly.
func New(g *network.Graph) *GraphInfo {
	in, out := network.Degrees(g)

	clustering := make(map[network.NodeID]float64, g.Len())
	trust := make(map[network.NodeID]float64, g.Len())
	for _, id := range g.Nodes() {
		clustering[id] = network.ClusteringCoefficient(g, id)
		trust[id] = network.TrustScore(g, id)
	}

	return &GraphInfo{
		Graph:      g,
		Indegree:   in,
		Outdegree:  out,
		Clustering: clustering,
		Trust:      trust,
		Components: network.Components(g),
	}
}

// NodeCount returns the number of nodes in the snapshot.
func (gi *GraphInfo) NodeCount() int {
	return gi.Graph.Len()
}

func meanFloat(values map[network.NodeID]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanInt(values map[network.NodeID]int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func toFloat(values map[network.NodeID]int) map[network.NodeID]float64 {
	out := make(map[network.NodeID]float64, len(values))
	for k, v := range values {
		out[k] = float64(v)
	}
	return out
}

// MinMax returns the smallest and largest value in values, or (0, 0) when
// values is empty.
func MinMax(values map[network.NodeID]float64) (lo, hi float64) {
	first := true
	for _, v := range values {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize maps v into [0,1] relative to [lo,hi]. A degenerate range
// yields 0.
func Normalize(v, lo, hi float64) float64 {
	if hi-lo == 0 {
		return 0
	}
	return (v - lo) / (hi - lo)
}
