package neo4j

import (
	"testing"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/network"
)

func TestAccountRows(t *testing.T) {
	g := network.Build([]network.Edge{
		{From: 1, To: 2, Weight: 3},
		{From: 2, To: 1, Weight: 1},
		{From: 7, To: 8, Weight: -2},
	})
	rows := accountRows(analysis.New(g))

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	first := rows[0]
	if first["id"] != int64(1) {
		t.Errorf("rows should follow ascending node order, got id %v", first["id"])
	}
	if first["indegree"] != int64(1) || first["outdegree"] != int64(1) {
		t.Errorf("degrees = %v/%v, want 1/1", first["indegree"], first["outdegree"])
	}
	if first["trust"] != 1.0 {
		t.Errorf("trust = %v, want 1", first["trust"])
	}
	if rows[2]["component"] == rows[0]["component"] {
		t.Error("nodes 1 and 7 should be in different components")
	}
	if rows[0]["component"] != rows[1]["component"] {
		t.Error("nodes 1 and 2 should share a component")
	}
}

func TestEdgeRows_KeepsRepeatedEdges(t *testing.T) {
	rows := edgeRows([]network.Edge{
		{From: 1, To: 2, Weight: 1, Timestamp: 100},
		{From: 1, To: 2, Weight: 4, Timestamp: 200},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1]["weight"] != 4.0 || rows[1]["timestamp"] != int64(200) {
		t.Errorf("second row = %v", rows[1])
	}
}

func TestBatches(t *testing.T) {
	rows := make([]map[string]any, 7)
	tests := []struct {
		size int
		want []int
	}{
		{3, []int{3, 3, 1}},
		{7, []int{7}},
		{10, []int{7}},
	}
	for _, tt := range tests {
		got := batches(rows, tt.size)
		if len(got) != len(tt.want) {
			t.Errorf("size %d: %d batches, want %d", tt.size, len(got), len(tt.want))
			continue
		}
		for i, b := range got {
			if len(b) != tt.want[i] {
				t.Errorf("size %d: batch %d has %d rows, want %d", tt.size, i, len(b), tt.want[i])
			}
		}
	}
	if got := batches(nil, 3); len(got) != 0 {
		t.Errorf("empty input produced %d batches", len(got))
	}
}

func TestEdgeStatements(t *testing.T) {
	edges := []network.Edge{
		{From: 1, To: 2, Weight: 1},
		{From: 2, To: 3, Weight: 2},
		{From: 3, To: 1, Weight: 3},
	}
	stmts := edgeStatements(edges, 2)
	if len(stmts) != 3 {
		t.Fatalf("expected clear plus 2 batches, got %d statements", len(stmts))
	}
	if stmts[0].query != clearTrusts || stmts[0].params != nil {
		t.Errorf("first statement = %q %v, want the clear", stmts[0].query, stmts[0].params)
	}
	total := 0
	for i, st := range stmts[1:] {
		if st.query != createTrusts {
			t.Errorf("statement %d = %q, want create", i+1, st.query)
		}
		rows, _ := st.params["rows"].([]map[string]any)
		total += len(rows)
	}
	if total != len(edges) {
		t.Errorf("batches carry %d rows, want %d", total, len(edges))
	}

	// An empty graph still clears the old edges.
	if got := edgeStatements(nil, 2); len(got) != 1 || got[0].query != clearTrusts {
		t.Errorf("empty graph statements = %v", got)
	}
}

func TestEdgeFromValues(t *testing.T) {
	tests := []struct {
		name    string
		from    any
		to      any
		weight  any
		ts      any
		want    network.Edge
		wantErr bool
	}{
		{"float weight", int64(1), int64(2), 2.5, int64(9), network.Edge{From: 1, To: 2, Weight: 2.5, Timestamp: 9}, false},
		{"integer weight", int64(3), int64(4), int64(-1), nil, network.Edge{From: 3, To: 4, Weight: -1}, false},
		{"missing source", nil, int64(2), 1.0, nil, network.Edge{}, true},
		{"negative target", int64(1), int64(-2), 1.0, nil, network.Edge{}, true},
		{"string weight", int64(1), int64(2), "high", nil, network.Edge{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := edgeFromValues(tt.from, tt.to, tt.weight, tt.ts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
