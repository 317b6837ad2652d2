package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("TRUSTGRAPH_NEO4J_PASSWORD", "s3cret")
	p := NewEnvProvider("")

	got, err := p.Get(context.Background(), Neo4jPassword)
	if err != nil || got != "s3cret" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if _, err := p.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileProvider(t *testing.T) {
	path := writeSecrets(t, `{"neo4j_password": "from-file"}`)
	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}
	got, err := p.Get(context.Background(), Neo4jPassword)
	if err != nil || got != "from-file" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestFileProvider_Invalid(t *testing.T) {
	if _, err := NewFileProvider(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewFileProvider(writeSecrets(t, "not json")); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestManager_FallsBackToEnv(t *testing.T) {
	t.Setenv("TRUSTGRAPH_NEO4J_PASSWORD", "from-env")
	m, err := NewManager(Config{Provider: "file", File: writeSecrets(t, `{}`)})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if got := m.GetOrDefault(context.Background(), Neo4jPassword, ""); got != "from-env" {
		t.Errorf("got %q, want from-env", got)
	}
}

func TestManager_PrefersPrimaryAndCaches(t *testing.T) {
	t.Setenv("TRUSTGRAPH_NEO4J_PASSWORD", "from-env")
	m, err := NewManager(Config{Provider: "file", File: writeSecrets(t, `{"neo4j_password": "from-file"}`)})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	ctx := context.Background()
	if got, _ := m.Get(ctx, Neo4jPassword); got != "from-file" {
		t.Errorf("got %q, want from-file", got)
	}
	t.Setenv("TRUSTGRAPH_NEO4J_PASSWORD", "changed")
	if got, _ := m.Get(ctx, Neo4jPassword); got != "from-file" {
		t.Errorf("cached value changed to %q", got)
	}
}

func TestManager_UnknownProvider(t *testing.T) {
	if _, err := NewManager(Config{Provider: "vault"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestManager_NotFound(t *testing.T) {
	m, err := NewManager(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
