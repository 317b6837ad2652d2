package neo4j

import (
	"fmt"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/network"
)

// Neo4j integers are signed 64-bit; node ids are stored as int64.

func accountRows(info *analysis.GraphInfo) []map[string]any {
	component := componentIndex(info.Components)
	nodes := info.Graph.Nodes()
	rows := make([]map[string]any, len(nodes))
	for i, id := range nodes {
		rows[i] = map[string]any{
			"id":         int64(id),
			"indegree":   int64(info.Indegree[id]),
			"outdegree":  int64(info.Outdegree[id]),
			"clustering": info.Clustering[id],
			"trust":      info.Trust[id],
			"component":  int64(component[id]),
		}
	}
	return rows
}

func componentIndex(components []*network.Graph) map[network.NodeID]int {
	idx := make(map[network.NodeID]int)
	for i, c := range components {
		for _, id := range c.Nodes() {
			idx[id] = i
		}
	}
	return idx
}

func edgeRows(edges []network.Edge) []map[string]any {
	rows := make([]map[string]any, len(edges))
	for i, e := range edges {
		rows[i] = map[string]any{
			"from":      int64(e.From),
			"to":        int64(e.To),
			"weight":    e.Weight,
			"timestamp": e.Timestamp,
		}
	}
	return rows
}

// batches splits rows into consecutive chunks of at most size.
func batches(rows []map[string]any, size int) [][]map[string]any {
	var out [][]map[string]any
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}

type statement struct {
	query  string
	params map[string]any
}

func rowParams(rows []map[string]any) map[string]any {
	return map[string]any{"rows": rows}
}

// edgeStatements clears the stored TRUSTS edges and recreates edges in
// batches of at most size. The clear always comes first.
func edgeStatements(edges []network.Edge, size int) []statement {
	stmts := []statement{{query: clearTrusts}}
	for _, rows := range batches(edgeRows(edges), size) {
		stmts = append(stmts, statement{query: createTrusts, params: rowParams(rows)})
	}
	return stmts
}

func edgeFromValues(from, to, weight, ts any) (network.Edge, error) {
	f, ok := from.(int64)
	if !ok || f < 0 {
		return network.Edge{}, fmt.Errorf("trust edge: invalid source id %v", from)
	}
	t, ok := to.(int64)
	if !ok || t < 0 {
		return network.Edge{}, fmt.Errorf("trust edge: invalid target id %v", to)
	}
	e := network.Edge{From: network.NodeID(f), To: network.NodeID(t)}

	switch w := weight.(type) {
	case float64:
		e.Weight = w
	case int64:
		e.Weight = float64(w)
	default:
		return network.Edge{}, fmt.Errorf("trust edge %d->%d: invalid weight %v", f, t, weight)
	}

	// Edges stored without a timestamp read back as zero.
	if v, ok := ts.(int64); ok {
		e.Timestamp = v
	}
	return e, nil
}
