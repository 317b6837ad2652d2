// Package loader reads trust-rating edges from CSV files.
//
// Each row is "from,to,weight" with an optional fourth timestamp column,
// matching the SNAP signed-network dumps. Any malformed row aborts the load.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/efebarandurmaz/trustgraph/internal/network"
)

var (
	// ErrOpen is returned when the input file cannot be opened.
	ErrOpen = errors.New("cannot open edge file")
	// ErrMalformedRow is wrapped by every RowError.
	ErrMalformedRow = errors.New("malformed edge row")
)

// RowError reports the line and column of an unparsable row.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrMalformedRow, e.Err}
}

// Options configures CSV parsing.
type Options struct {
	HasHeader bool
	Comma     rune // defaults to ','
}

// LoadFile opens path and parses its edges.
func LoadFile(path string, opts Options) ([]network.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close()

	edges, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return edges, nil
}

// Read parses edges from r.
func Read(r io.Reader, opts Options) ([]network.Edge, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	var edges []network.Edge
	skipHeader := opts.HasHeader
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &RowError{Line: pe.Line, Err: pe.Err}
			}
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if skipHeader {
			skipHeader = false
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		e, rowErr := parseRecord(record)
		if rowErr != nil {
			rowErr.Line = line
			return nil, rowErr
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func parseRecord(record []string) (network.Edge, *RowError) {
	if len(record) != 3 && len(record) != 4 {
		return network.Edge{}, &RowError{
			Err: fmt.Errorf("expected 3 or 4 fields, got %d", len(record)),
		}
	}

	from, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return network.Edge{}, &RowError{Column: "from", Err: err}
	}
	to, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return network.Edge{}, &RowError{Column: "to", Err: err}
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return network.Edge{}, &RowError{Column: "weight", Err: err}
	}

	var ts int64
	if len(record) == 4 {
		ts, err = strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil {
			return network.Edge{}, &RowError{Column: "timestamp", Err: err}
		}
	}

	return network.Edge{
		From:      network.NodeID(from),
		To:        network.NodeID(to),
		Weight:    weight,
		Timestamp: ts,
	}, nil
}
