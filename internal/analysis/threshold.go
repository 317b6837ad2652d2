package analysis

import (
	"fmt"
	"strings"

	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// ClassReport describes one trust class of a threshold analysis.
type ClassReport struct {
	Comparator        string  `json:"comparator" yaml:"comparator"` // ">=" or "<="
	Threshold         float64 `json:"threshold" yaml:"threshold"`
	Count             int     `json:"count" yaml:"count"`
	HighClusteringPct float64 `json:"high_clustering_pct" yaml:"high_clustering_pct"`
	HighCentralityPct float64 `json:"high_centrality_pct" yaml:"high_centrality_pct"`
}

// ThresholdReport compares high-trust and low-trust nodes against the
// graph-wide mean clustering coefficient and mean outdegree.
type ThresholdReport struct {
	High           ClassReport `json:"high" yaml:"high"`
	Low            ClassReport `json:"low" yaml:"low"`
	MeanClustering float64     `json:"mean_clustering" yaml:"mean_clustering"`
	MeanOutdegree  float64     `json:"mean_outdegree" yaml:"mean_outdegree"`
}

// AnalyzeClusteringCentrality splits nodes into those with trust >= high and
// those with trust <= low. The classes are computed independently and may
// overlap. A node counts as highly clustered when its coefficient exceeds
// the mean, and as central when its outdegree is at least the mean.
func (gi *GraphInfo) AnalyzeClusteringCentrality(high, low float64) (*ThresholdReport, error) {
	if gi.NodeCount() == 0 {
		return nil, fmt.Errorf("threshold analysis: %w", ErrEmptyGraph)
	}

	var highNodes, lowNodes []network.NodeID
	for _, id := range gi.Graph.Nodes() {
		score := gi.Trust[id]
		if score >= high {
			highNodes = append(highNodes, id)
		}
		if score <= low {
			lowNodes = append(lowNodes, id)
		}
	}

	meanCC := meanFloat(gi.Clustering)
	meanOut := meanInt(gi.Outdegree)

	return &ThresholdReport{
		High:           gi.classify(">=", high, highNodes, meanCC, meanOut),
		Low:            gi.classify("<=", low, lowNodes, meanCC, meanOut),
		MeanClustering: meanCC,
		MeanOutdegree:  meanOut,
	}, nil
}

func (gi *GraphInfo) classify(cmp string, threshold float64, nodes []network.NodeID, meanCC, meanOut float64) ClassReport {
	r := ClassReport{Comparator: cmp, Threshold: threshold, Count: len(nodes)}
	if len(nodes) == 0 {
		return r
	}

	var clustered, central int
	for _, id := range nodes {
		if gi.Clustering[id] > meanCC {
			clustered++
		}
		if float64(gi.Outdegree[id]) >= meanOut {
			central++
		}
	}
	r.HighClusteringPct = percent(clustered, len(nodes))
	r.HighCentralityPct = percent(central, len(nodes))
	return r
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func (c ClassReport) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Nodes with trust score %s %s: %d nodes.\n", c.Comparator, formatFloat(c.Threshold), c.Count))
	b.WriteString(fmt.Sprintf("Percentage with high clustering: %.2f%%.\n", c.HighClusteringPct))
	b.WriteString(fmt.Sprintf("Percentage with high centrality: %.2f%%.\n", c.HighCentralityPct))
	return b.String()
}

func (r *ThresholdReport) String() string {
	var b strings.Builder
	b.WriteString("Trust Threshold Analysis\n")
	b.WriteString("========================\n\n")
	b.WriteString(r.High.String())
	b.WriteString("\n")
	b.WriteString(r.Low.String())
	return b.String()
}
