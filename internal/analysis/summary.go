package analysis

import (
	"fmt"
	"strings"

	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// Summary holds graph-wide degree, clustering and connectivity figures.
type Summary struct {
	Nodes            int     `json:"nodes" yaml:"nodes"`
	Edges            int     `json:"edges" yaml:"edges"`
	MeanIndegree     float64 `json:"mean_indegree" yaml:"mean_indegree"`
	MeanOutdegree    float64 `json:"mean_outdegree" yaml:"mean_outdegree"`
	MaxIndegree      int     `json:"max_indegree" yaml:"max_indegree"`
	MaxIndegreeNode  uint64  `json:"max_indegree_node" yaml:"max_indegree_node"`
	MaxOutdegree     int     `json:"max_outdegree" yaml:"max_outdegree"`
	MaxOutdegreeNode uint64  `json:"max_outdegree_node" yaml:"max_outdegree_node"`
	MeanClustering   float64 `json:"mean_clustering" yaml:"mean_clustering"`
	MeanTrust        float64 `json:"mean_trust" yaml:"mean_trust"`
	Components       int     `json:"components" yaml:"components"`
	LargestComponent int     `json:"largest_component" yaml:"largest_component"`
}

// Summary computes graph-wide figures. Ties for the maximum degree go to
// the lowest node ID.
func (gi *GraphInfo) Summary() (*Summary, error) {
	if gi.NodeCount() == 0 {
		return nil, fmt.Errorf("summary: %w", ErrEmptyGraph)
	}

	s := &Summary{
		Nodes:          gi.NodeCount(),
		Edges:          gi.Graph.EdgeCount(),
		MeanIndegree:   meanInt(gi.Indegree),
		MeanOutdegree:  meanInt(gi.Outdegree),
		MeanClustering: meanFloat(gi.Clustering),
		MeanTrust:      meanFloat(gi.Trust),
		Components:     len(gi.Components),
	}
	first := true
	for _, id := range gi.Graph.Nodes() {
		if first || gi.Indegree[id] > s.MaxIndegree {
			s.MaxIndegree, s.MaxIndegreeNode = gi.Indegree[id], uint64(id)
		}
		if first || gi.Outdegree[id] > s.MaxOutdegree {
			s.MaxOutdegree, s.MaxOutdegreeNode = gi.Outdegree[id], uint64(id)
		}
		first = false
	}
	for _, c := range gi.Components {
		if c.Len() > s.LargestComponent {
			s.LargestComponent = c.Len()
		}
	}
	return s, nil
}

func (s *Summary) String() string {
	var b strings.Builder
	b.WriteString("Trust Network Statistics\n")
	b.WriteString("========================\n\n")
	b.WriteString(fmt.Sprintf("Nodes:           %d\n", s.Nodes))
	b.WriteString(fmt.Sprintf("Edges:           %d\n", s.Edges))
	b.WriteString(fmt.Sprintf("Mean Indegree:   %.4f\n", s.MeanIndegree))
	b.WriteString(fmt.Sprintf("Mean Outdegree:  %.4f\n", s.MeanOutdegree))
	b.WriteString(fmt.Sprintf("Max Indegree:    %d (node %d)\n", s.MaxIndegree, s.MaxIndegreeNode))
	b.WriteString(fmt.Sprintf("Max Outdegree:   %d (node %d)\n", s.MaxOutdegree, s.MaxOutdegreeNode))
	b.WriteString(fmt.Sprintf("Mean Clustering: %.4f\n", s.MeanClustering))
	b.WriteString(fmt.Sprintf("Mean Trust:      %.4f\n", s.MeanTrust))
	b.WriteString(fmt.Sprintf("Components:      %d (largest %d nodes)\n", s.Components, s.LargestComponent))
	return b.String()
}

// FeatureDims is the length of every feature vector.
const FeatureDims = 4

// Feature is the normalized metric profile of one node.
type Feature struct {
	Node   network.NodeID
	Vector []float32 // indegree, outdegree, clustering, trust
}

// FeatureVectors returns one profile per node in ascending node order.
// Degrees and trust are min-max normalized across the graph; clustering is
// already in [0,1].
func (gi *GraphInfo) FeatureVectors() []Feature {
	inLo, inHi := MinMax(toFloat(gi.Indegree))
	outLo, outHi := MinMax(toFloat(gi.Outdegree))
	trLo, trHi := MinMax(gi.Trust)

	nodes := gi.Graph.Nodes()
	feats := make([]Feature, len(nodes))
	for i, id := range nodes {
		feats[i] = Feature{
			Node: id,
			Vector: []float32{
				float32(Normalize(float64(gi.Indegree[id]), inLo, inHi)),
				float32(Normalize(float64(gi.Outdegree[id]), outLo, outHi)),
				float32(gi.Clustering[id]),
				float32(Normalize(gi.Trust[id], trLo, trHi)),
			},
		}
	}
	return feats
}
