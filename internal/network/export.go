package network

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExportDOT generates a Graphviz DOT representation of the graph. Each
// weakly-connected component is drawn as its own cluster.
func ExportDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph trust {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\" shape=circle];\n")
	b.WriteString("  edge [fontname=\"Helvetica\" fontsize=10];\n\n")

	for i, comp := range Components(g) {
		b.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i))
		b.WriteString("    style=dashed;\n")
		b.WriteString("    color=\"#58a6ff\";\n")
		for _, id := range comp.Nodes() {
			b.WriteString(fmt.Sprintf("    \"%d\";\n", id))
		}
		b.WriteString("  }\n\n")
	}

	for _, e := range g.Edges() {
		b.WriteString(fmt.Sprintf("  \"%d\" -> \"%d\" [color=\"%s\" label=\"%s\"];\n",
			e.From, e.To, weightColor(e.Weight), formatWeight(e.Weight)))
	}

	b.WriteString("}\n")
	return b.String()
}

// ExportMermaid generates a Mermaid flowchart of the graph.
func ExportMermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	for i, comp := range Components(g) {
		b.WriteString(fmt.Sprintf("  subgraph component_%d\n", i))
		for _, id := range comp.Nodes() {
			b.WriteString(fmt.Sprintf("    %s((\"%d\"))\n", mermaidID(id), id))
		}
		b.WriteString("  end\n")
	}

	for _, e := range g.Edges() {
		b.WriteString(fmt.Sprintf("  %s %s|%s| %s\n",
			mermaidID(e.From), mermaidArrow(e.Weight), formatWeight(e.Weight), mermaidID(e.To)))
	}

	return b.String()
}

type exportedGraph struct {
	Nodes []NodeID `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// ExportJSON serializes the node list and edge list to JSON.
func ExportJSON(g *Graph) ([]byte, error) {
	return json.MarshalIndent(exportedGraph{Nodes: g.Nodes(), Edges: g.Edges()}, "", "  ")
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func mermaidID(id NodeID) string {
	return "n" + strconv.FormatUint(uint64(id), 10)
}

func weightColor(w float64) string {
	switch {
	case w > 0:
		return "#3fb950"
	case w < 0:
		return "#f85149"
	default:
		return "#8b949e"
	}
}

func mermaidArrow(w float64) string {
	if w < 0 {
		return "-.->"
	}
	return "-->"
}
