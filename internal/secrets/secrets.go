// Package secrets resolves credentials for external stores from the
// environment or a local secrets file.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Keys of the secrets trustgraph looks up.
const (
	Neo4jPassword = "neo4j_password"
)

// ErrNotFound is returned when no provider holds a secret.
var ErrNotFound = errors.New("secret not found")

// Provider is the interface for secret backends.
type Provider interface {
	// Get retrieves a secret by key.
	Get(ctx context.Context, key string) (string, error)
	// Name returns the provider name.
	Name() string
}

// Config configures the secrets manager.
type Config struct {
	// Provider selects the backend: "env" or "file".
	Provider string
	// File is the JSON secrets file of the file provider.
	File string
	// EnvPrefix for environment variable names (default: "TRUSTGRAPH_").
	EnvPrefix string
}

// Manager tries its primary provider, then the environment, caching hits.
type Manager struct {
	primary  Provider
	fallback Provider
	cache    map[string]string
	cacheMu  sync.RWMutex
}

// NewManager creates a secrets manager from cfg.
func NewManager(cfg Config) (*Manager, error) {
	var primary Provider
	switch cfg.Provider {
	case "file":
		p, err := NewFileProvider(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("create file provider: %w", err)
		}
		primary = p
	case "env", "":
		primary = NewEnvProvider(cfg.EnvPrefix)
	default:
		return nil, fmt.Errorf("unknown secrets provider: %s", cfg.Provider)
	}

	m := &Manager{primary: primary, cache: make(map[string]string)}
	if primary.Name() != "env" {
		m.fallback = NewEnvProvider(cfg.EnvPrefix)
	}
	return m, nil
}

// Get retrieves a secret, trying primary then fallback.
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	m.cacheMu.RLock()
	if val, ok := m.cache[key]; ok {
		m.cacheMu.RUnlock()
		return val, nil
	}
	m.cacheMu.RUnlock()

	for _, p := range []Provider{m.primary, m.fallback} {
		if p == nil {
			continue
		}
		if val, err := p.Get(ctx, key); err == nil && val != "" {
			m.cacheMu.Lock()
			m.cache[key] = val
			m.cacheMu.Unlock()
			return val, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

// GetOrDefault retrieves a secret or returns defaultVal.
func (m *Manager) GetOrDefault(ctx context.Context, key, defaultVal string) string {
	val, err := m.Get(ctx, key)
	if err != nil {
		return defaultVal
	}
	return val
}

// EnvProvider reads secrets from environment variables.
type EnvProvider struct {
	prefix string
}

// NewEnvProvider creates an environment-based secrets provider.
func NewEnvProvider(prefix string) *EnvProvider {
	if prefix == "" {
		prefix = "TRUSTGRAPH_"
	}
	return &EnvProvider{prefix: prefix}
}

func (p *EnvProvider) Name() string { return "env" }

func (p *EnvProvider) Get(_ context.Context, key string) (string, error) {
	envKey := p.prefix + strings.ToUpper(key)
	if val := os.Getenv(envKey); val != "" {
		return val, nil
	}
	return "", fmt.Errorf("%w: env var %s", ErrNotFound, envKey)
}
