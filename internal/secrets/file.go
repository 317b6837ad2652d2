package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileProvider reads secrets from a JSON object of string values. The file
// is read once on creation.
type FileProvider struct {
	path string
	data map[string]string
}

// NewFileProvider loads the secrets file at path.
func NewFileProvider(path string) (*FileProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("file path required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	return &FileProvider{path: path, data: data}, nil
}

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) Get(_ context.Context, key string) (string, error) {
	val, ok := p.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrNotFound, key, p.path)
	}
	return val, nil
}
