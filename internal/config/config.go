package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TRUSTGRAPH_ANALYSIS_HIGH_TRUST.
const EnvPrefix = "TRUSTGRAPH"

// Config holds all application configuration.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j"`
	Qdrant   QdrantConfig   `mapstructure:"qdrant"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

type InputConfig struct {
	Path      string `mapstructure:"path"`
	HasHeader bool   `mapstructure:"has_header"`
	Separator string `mapstructure:"separator" validate:"max=1"`
	Source    string `mapstructure:"source" validate:"oneof=csv neo4j"`
}

type AnalysisConfig struct {
	HighTrust       float64 `mapstructure:"high_trust"`
	LowTrust        float64 `mapstructure:"low_trust"`
	Representatives int     `mapstructure:"representatives" validate:"gte=0"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=text json yaml"`
	// Export selects an extra graph rendering: "dot", "mermaid" or empty.
	Export string `mapstructure:"export" validate:"omitempty,oneof=dot mermaid json"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Environment  string  `mapstructure:"environment"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" validate:"required"`
	// Textfile is a Prometheus textfile-collector path; empty disables it.
	Textfile string `mapstructure:"textfile"`
	// Summary is a path for the JSON run summary; empty disables it.
	Summary string `mapstructure:"summary"`
}

type Neo4jConfig struct {
	URI      string `mapstructure:"uri" validate:"omitempty,uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Collection string `mapstructure:"collection" validate:"required"`
}

// SecretsConfig selects where credentials missing from the config are
// looked up.
type SecretsConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=env file"`
	File     string `mapstructure:"file" validate:"required_if=Provider file"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Input:    InputConfig{Separator: ",", Source: "csv"},
		Analysis: AnalysisConfig{HighTrust: 5, LowTrust: 0, Representatives: 10},
		Output:   OutputConfig{Format: "text"},
		Log:      LogConfig{Level: "info", Format: "console"},
		Tracing:  TracingConfig{SampleRate: 1.0, Environment: "development"},
		Metrics:  MetricsConfig{Namespace: "trustgraph"},
		Neo4j:    Neo4jConfig{Username: "neo4j", Database: "neo4j"},
		Qdrant:   QdrantConfig{Host: "localhost", Port: 6334, Collection: "trustgraph_nodes"},
		Secrets:  SecretsConfig{Provider: "env"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.has_header", d.Input.HasHeader)
	v.SetDefault("input.separator", d.Input.Separator)
	v.SetDefault("input.source", d.Input.Source)
	v.SetDefault("analysis.high_trust", d.Analysis.HighTrust)
	v.SetDefault("analysis.low_trust", d.Analysis.LowTrust)
	v.SetDefault("analysis.representatives", d.Analysis.Representatives)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.export", d.Output.Export)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.environment", d.Tracing.Environment)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("metrics.summary", d.Metrics.Summary)
	v.SetDefault("neo4j.uri", d.Neo4j.URI)
	v.SetDefault("neo4j.username", d.Neo4j.Username)
	v.SetDefault("neo4j.password", d.Neo4j.Password)
	v.SetDefault("neo4j.database", d.Neo4j.Database)
	v.SetDefault("qdrant.host", d.Qdrant.Host)
	v.SetDefault("qdrant.port", d.Qdrant.Port)
	v.SetDefault("qdrant.collection", d.Qdrant.Collection)
	v.SetDefault("secrets.provider", d.Secrets.Provider)
	v.SetDefault("secrets.file", d.Secrets.File)
}

var validate = validator.New()

// Check enforces the hard constraints on c.
func (c *Config) Check() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, strings.Replace(e.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "uri":
		return fmt.Sprintf("%s must be a valid URI", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Validate checks configuration for issues that do not stop a run and
// returns them as warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Analysis.HighTrust < c.Analysis.LowTrust {
		warnings = append(warnings, fmt.Sprintf(
			"high_trust %g is below low_trust %g; the trust classes will overlap",
			c.Analysis.HighTrust, c.Analysis.LowTrust))
	}

	if c.Neo4j.URI != "" && c.Neo4j.Password == "" && c.Secrets.Provider == "env" {
		warnings = append(warnings, "neo4j uri is configured but password is empty")
	}

	if c.Input.Source == "neo4j" && c.Neo4j.URI == "" {
		warnings = append(warnings, "input source is neo4j but neo4j uri is empty")
	}

	if c.Tracing.OTLPEndpoint == "" && c.Tracing.SampleRate < 1.0 {
		warnings = append(warnings, "tracing sample_rate is set but otlp_endpoint is empty; tracing is disabled")
	}

	return warnings
}

// Load reads configuration from file and environment. An empty path skips
// the file and uses defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to defaults plus environment when
// the file does not exist. Any other error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	return Load(path)
}
