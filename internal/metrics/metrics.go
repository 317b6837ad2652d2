package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// RunMetrics collects statistics for one analysis run.
type RunMetrics struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at,omitempty"`
	Duration   time.Duration  `json:"duration_ns,omitempty"`
	Input      InputMetrics   `json:"input"`
	Graph      GraphMetrics   `json:"graph"`
	Stages     []StageMetrics `json:"stages"`
	Errors     []string       `json:"errors,omitempty"`
}

type InputMetrics struct {
	Source string `json:"source"` // "csv" or "neo4j"
	Path   string `json:"path,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
	Edges  int    `json:"edges"`
}

type GraphMetrics struct {
	Nodes            int `json:"nodes"`
	Edges            int `json:"edges"`
	Components       int `json:"components"`
	LargestComponent int `json:"largest_component"`
	Representatives  int `json:"representatives"`
}

type StageMetrics struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// New starts tracking a run under a fresh run ID.
func New() *RunMetrics {
	return &RunMetrics{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// CollectInput records where the edges came from.
func (m *RunMetrics) CollectInput(source, path string, edges int) {
	m.Input.Source = source
	m.Input.Path = path
	m.Input.Edges = edges
	if path != "" {
		if fi, err := os.Stat(path); err == nil {
			m.Input.Bytes = fi.Size()
		}
	}
}

// AddStage records a single stage's timing and outcome.
func (m *RunMetrics) AddStage(name string, d time.Duration, err error) {
	s := StageMetrics{Name: name, Duration: d}
	if err != nil {
		s.Error = err.Error()
		m.Errors = append(m.Errors, fmt.Sprintf("%s: %v", name, err))
	}
	m.Stages = append(m.Stages, s)
}

// Finish marks the run as complete.
func (m *RunMetrics) Finish() {
	m.FinishedAt = time.Now()
	m.Duration = m.FinishedAt.Sub(m.StartedAt)
}

// PrintSummary writes a human-readable summary.
func (m *RunMetrics) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\n╔══════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║         TRUSTGRAPH RUN REPORT        ║\n")
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ Run:         %s\n", m.RunID)
	fmt.Fprintf(w, "║ Duration:    %-23s║\n", m.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ INPUT (%s)\n", m.Input.Source)
	if m.Input.Path != "" {
		fmt.Fprintf(w, "║   Path:        %s\n", m.Input.Path)
		fmt.Fprintf(w, "║   Size:        %s\n", humanize.Bytes(uint64(m.Input.Bytes)))
	}
	fmt.Fprintf(w, "║   Edges:       %s\n", humanize.Comma(int64(m.Input.Edges)))
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ GRAPH\n")
	fmt.Fprintf(w, "║   Nodes:       %s\n", humanize.Comma(int64(m.Graph.Nodes)))
	fmt.Fprintf(w, "║   Edges:       %s\n", humanize.Comma(int64(m.Graph.Edges)))
	fmt.Fprintf(w, "║   Components:  %s (largest %s)\n",
		humanize.Comma(int64(m.Graph.Components)), humanize.Comma(int64(m.Graph.LargestComponent)))
	fmt.Fprintf(w, "║   Reps:        %d\n", m.Graph.Representatives)
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ STAGES\n")
	for _, s := range m.Stages {
		status := "OK"
		if s.Error != "" {
			status = "FAILED"
		}
		fmt.Fprintf(w, "║   %-10s %10s  %s\n", s.Name, s.Duration.Round(time.Microsecond), status)
	}
	if len(m.Errors) > 0 {
		fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
		fmt.Fprintf(w, "║ ERRORS\n")
		for _, e := range m.Errors {
			fmt.Fprintf(w, "║   • %s\n", e)
		}
	}
	fmt.Fprintf(w, "╚══════════════════════════════════════╝\n")
}

// JSON returns the metrics as formatted JSON.
func (m *RunMetrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// WriteJSON writes the JSON summary to path.
func (m *RunMetrics) WriteJSON(path string) error {
	data, err := m.JSON()
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}
