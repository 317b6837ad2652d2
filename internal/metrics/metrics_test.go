package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNew_AssignsRunID(t *testing.T) {
	a, b := New(), New()
	if _, err := uuid.Parse(a.RunID); err != nil {
		t.Fatalf("run id %q is not a UUID: %v", a.RunID, err)
	}
	if a.RunID == b.RunID {
		t.Error("run ids should be unique")
	}
}

func TestAddStage_RecordsErrors(t *testing.T) {
	m := New()
	m.AddStage("load", 5*time.Millisecond, nil)
	m.AddStage("analyze", time.Millisecond, errors.New("graph has no nodes"))

	if len(m.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(m.Stages))
	}
	if m.Stages[1].Error != "graph has no nodes" {
		t.Errorf("stage error = %q", m.Stages[1].Error)
	}
	if len(m.Errors) != 1 || !strings.HasPrefix(m.Errors[0], "analyze:") {
		t.Errorf("errors = %v", m.Errors)
	}
}

func TestCollectInput_FileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	if err := os.WriteFile(path, []byte("1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New()
	m.CollectInput("csv", path, 1)
	if m.Input.Bytes != 6 {
		t.Errorf("bytes = %d, want 6", m.Input.Bytes)
	}
}

func TestPrintSummary(t *testing.T) {
	m := New()
	m.CollectInput("neo4j", "", 24186)
	m.Graph = GraphMetrics{Nodes: 3783, Edges: 24186, Components: 5, LargestComponent: 3775, Representatives: 10}
	m.AddStage("build", time.Millisecond, nil)
	m.Finish()

	var buf bytes.Buffer
	m.PrintSummary(&buf)
	out := buf.String()
	for _, want := range []string{"TRUSTGRAPH RUN REPORT", "INPUT (neo4j)", "24,186", "3,783", "build"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	m := New()
	m.Graph.Nodes = 3
	m.Finish()

	path := filepath.Join(t.TempDir(), "run.json")
	if err := m.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded RunMetrics
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.RunID != m.RunID || decoded.Graph.Nodes != 3 {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}
