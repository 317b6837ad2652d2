package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efebarandurmaz/trustgraph/internal/network"
)

func TestRead_FourColumns(t *testing.T) {
	input := "7188,1,10,1407470400\n430,1,-1,1376539200\n"

	edges, err := Read(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, network.Edge{From: 7188, To: 1, Weight: 10, Timestamp: 1407470400}, edges[0])
	assert.Equal(t, network.Edge{From: 430, To: 1, Weight: -1, Timestamp: 1376539200}, edges[1])
}

func TestRead_ThreeColumnsWithHeader(t *testing.T) {
	input := "source,target,rating\n1,2,1.5\n2, 3 , 2.5\n"

	edges, err := Read(strings.NewReader(input), Options{HasHeader: true})
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, network.NodeID(3), edges[1].To)
	assert.Equal(t, 2.5, edges[1].Weight)
	assert.Zero(t, edges[1].Timestamp)
}

func TestRead_CustomSeparator(t *testing.T) {
	edges, err := Read(strings.NewReader("1\t2\t-3\n"), Options{Comma: '\t'})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, -3.0, edges[0].Weight)
}

func TestRead_Empty(t *testing.T) {
	edges, err := Read(strings.NewReader(""), Options{})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestRead_MalformedRows(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column string
	}{
		{"negative_from", "1,2,3\n-1,2,3\n", 2, "from"},
		{"bad_to", "x,2,3\n", 1, "from"},
		{"non_numeric_to", "1,b,3\n", 1, "to"},
		{"bad_weight", "1,2,high\n", 1, "weight"},
		{"bad_timestamp", "1,2,3,yesterday\n", 1, "timestamp"},
		{"too_few_fields", "1,2\n", 1, ""},
		{"too_many_fields", "1,2,3,4,5\n", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRow), "expected ErrMalformedRow, got %v", err)

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tt.line, rowErr.Line)
			assert.Equal(t, tt.column, rowErr.Column)
			assert.Contains(t, err.Error(), "line "+strconv.Itoa(tt.line))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2,1\n2,3,2\n"), 0o644))

	edges, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_MalformedWrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2,1\n1,2\n"), 0o644))

	_, err := LoadFile(path, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), path)
}
