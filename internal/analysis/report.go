package analysis

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the full analysis of one run.
type Report struct {
	Summary        *Summary              `json:"summary" yaml:"summary"`
	Threshold      *ThresholdReport      `json:"threshold" yaml:"threshold"`
	Representative *RepresentativeReport `json:"representatives" yaml:"representatives"`
}

// BuildReport runs the summary, threshold analysis and representative
// selection over gi.
func (gi *GraphInfo) BuildReport(high, low float64, k int) (*Report, error) {
	summary, err := gi.Summary()
	if err != nil {
		return nil, err
	}
	threshold, err := gi.AnalyzeClusteringCentrality(high, low)
	if err != nil {
		return nil, err
	}
	reps, err := gi.FindKRepresentatives(k)
	if err != nil {
		return nil, err
	}
	return &Report{Summary: summary, Threshold: threshold, Representative: reps}, nil
}

func (r *Report) String() string {
	return r.Summary.String() + "\n" + r.Threshold.String() + "\n" + r.Representative.String()
}

// Render writes r to w in the given format.
func (r *Report) Render(w io.Writer, format string) error {
	switch format {
	case "", FormatText:
		_, err := io.WriteString(w, r.String())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
