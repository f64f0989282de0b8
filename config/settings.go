// Package config provides configuration structures for the search engine.
// Settings are read from an optional YAML file, then overridden by TFIDF_*
// environment variables, then completed with defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Failure policies for documents whose text cannot be extracted.
const (
	FailurePolicyAbort = "abort" // Stop the whole build on the first failure
	FailurePolicySkip  = "skip"  // Leave the document out and report it with the build result
)

// Settings is the top-level configuration.
type Settings struct {
	Collection CollectionSettings `yaml:"collection" json:"collection"`
	Indexing   IndexingSettings   `yaml:"indexing" json:"indexing"`
	Search     SearchSettings     `yaml:"search" json:"search"`
	Server     ServerSettings     `yaml:"server" json:"server"`
	Logging    LoggingSettings    `yaml:"logging" json:"logging"`
	Metrics    MetricsSettings    `yaml:"metrics" json:"metrics"`
}

// CollectionSettings describes where the documents come from.
type CollectionSettings struct {
	Dir        string   `yaml:"dir" json:"dir"`               // Directory holding the documents (non-recursive)
	Extensions []string `yaml:"extensions" json:"extensions"` // File extensions to index, e.g. [".html", ".txt"]
}

// IndexingSettings controls the build phase.
type IndexingSettings struct {
	Workers       int    `yaml:"workers" json:"workers"`             // Concurrent text extractions; recording stays sequential
	FailurePolicy string `yaml:"failurePolicy" json:"failure_policy"` // "abort" or "skip"
}

// SearchSettings controls query evaluation limits.
type SearchSettings struct {
	DefaultTopK int `yaml:"defaultTopK" json:"default_top_k"` // Results returned when the caller gives no k
	MaxTopK     int `yaml:"maxTopK" json:"max_top_k"`         // Upper bound accepted from HTTP callers
}

// ServerSettings holds HTTP server settings.
type ServerSettings struct {
	Port            string        `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdown_timeout"`
}

// LoggingSettings controls log level and output format.
type LoggingSettings struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text or json
}

// MetricsSettings controls the Prometheus /metrics route.
type MetricsSettings struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Load reads a YAML settings file (if path is not empty), applies
// environment-variable overrides and fills in defaults.
func Load(path string) (*Settings, error) {
	settings := &Settings{Metrics: MetricsSettings{Enabled: true}}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path is given by the operator
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	settings.applyEnvOverrides()
	settings.ApplyDefaults()
	return settings, nil
}

// ApplyDefaults applies default values to unset settings
func (s *Settings) ApplyDefaults() {
	if s.Collection.Extensions == nil {
		s.Collection.Extensions = []string{".html", ".htm", ".txt"}
	}
	if s.Indexing.Workers <= 0 {
		s.Indexing.Workers = 4
	}
	if s.Indexing.FailurePolicy == "" {
		s.Indexing.FailurePolicy = FailurePolicyAbort
	}
	if s.Search.DefaultTopK <= 0 {
		s.Search.DefaultTopK = 10
	}
	if s.Search.MaxTopK <= 0 {
		s.Search.MaxTopK = 1000
	}
	if s.Server.Port == "" {
		s.Server.Port = "8080"
	}
	if s.Server.ReadTimeout == 0 {
		s.Server.ReadTimeout = 30 * time.Second
	}
	if s.Server.WriteTimeout == 0 {
		s.Server.WriteTimeout = 30 * time.Second
	}
	if s.Server.ShutdownTimeout == 0 {
		s.Server.ShutdownTimeout = 10 * time.Second
	}
	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	if s.Logging.Format == "" {
		s.Logging.Format = "text"
	}
}

// Validate returns one message per invalid setting; an empty result means the
// settings are usable.
func (s *Settings) Validate() []string {
	var problems []string

	if s.Indexing.FailurePolicy != FailurePolicyAbort && s.Indexing.FailurePolicy != FailurePolicySkip {
		problems = append(problems, "Invalid failure policy '"+s.Indexing.FailurePolicy+"' in indexing.failurePolicy (must be 'abort' or 'skip')")
	}
	if s.Search.DefaultTopK > s.Search.MaxTopK {
		problems = append(problems, fmt.Sprintf("search.defaultTopK (%d) exceeds search.maxTopK (%d)", s.Search.DefaultTopK, s.Search.MaxTopK))
	}
	for _, ext := range s.Collection.Extensions {
		if !strings.HasPrefix(ext, ".") {
			problems = append(problems, "Extension '"+ext+"' in collection.extensions must start with a dot")
		}
	}
	switch s.Logging.Format {
	case "text", "json":
	default:
		problems = append(problems, "Invalid log format '"+s.Logging.Format+"' (must be 'text' or 'json')")
	}
	return problems
}

// applyEnvOverrides reads TFIDF_* environment variables and overrides the
// corresponding settings.
func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv("TFIDF_COLLECTION_DIR"); v != "" {
		s.Collection.Dir = v
	}
	if v := os.Getenv("TFIDF_COLLECTION_EXTENSIONS"); v != "" {
		s.Collection.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("TFIDF_INDEXING_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			s.Indexing.Workers = workers
		}
	}
	if v := os.Getenv("TFIDF_INDEXING_FAILURE_POLICY"); v != "" {
		s.Indexing.FailurePolicy = v
	}
	if v := os.Getenv("TFIDF_SERVER_PORT"); v != "" {
		s.Server.Port = v
	}
	if v := os.Getenv("TFIDF_LOGGING_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	if v := os.Getenv("TFIDF_LOGGING_FORMAT"); v != "" {
		s.Logging.Format = v
	}
	if v := os.Getenv("TFIDF_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			s.Metrics.Enabled = enabled
		}
	}
}
