package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(s *Settings)
		expectedErrors int
		description    string
	}{
		{
			name:           "defaults are valid",
			mutate:         func(s *Settings) {},
			expectedErrors: 0,
			description:    "ApplyDefaults must produce usable settings",
		},
		{
			name:           "skip policy is valid",
			mutate:         func(s *Settings) { s.Indexing.FailurePolicy = FailurePolicySkip },
			expectedErrors: 0,
			description:    "Both failure policies are accepted",
		},
		{
			name:           "unknown failure policy",
			mutate:         func(s *Settings) { s.Indexing.FailurePolicy = "retry" },
			expectedErrors: 1,
			description:    "Only abort and skip are supported",
		},
		{
			name: "default k above max k",
			mutate: func(s *Settings) {
				s.Search.DefaultTopK = 50
				s.Search.MaxTopK = 10
			},
			expectedErrors: 1,
			description:    "The default result count must be allowed by the maximum",
		},
		{
			name:           "extension without dot and bad log format",
			mutate:         func(s *Settings) { s.Collection.Extensions = []string{"html"}; s.Logging.Format = "xml" },
			expectedErrors: 2,
			description:    "Every problem is reported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{}
			s.ApplyDefaults()
			tt.mutate(s)

			problems := s.Validate()
			if len(problems) != tt.expectedErrors {
				t.Errorf("%s: expected %d errors, got %d: %v", tt.description, tt.expectedErrors, len(problems), problems)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	s := &Settings{}
	s.ApplyDefaults()

	assert.Equal(t, []string{".html", ".htm", ".txt"}, s.Collection.Extensions)
	assert.Equal(t, 4, s.Indexing.Workers)
	assert.Equal(t, FailurePolicyAbort, s.Indexing.FailurePolicy)
	assert.Equal(t, 10, s.Search.DefaultTopK)
	assert.Equal(t, "8080", s.Server.Port)
	assert.Equal(t, 30*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, "info", s.Logging.Level)
}

func TestLoad(t *testing.T) {
	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
collection:
  dir: ./collection_html
  extensions: [".html"]
indexing:
  workers: 2
  failurePolicy: skip
search:
  defaultTopK: 5
server:
  port: "9000"
  readTimeout: 5s
logging:
  format: json
metrics:
  enabled: false
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "./collection_html", s.Collection.Dir)
		assert.Equal(t, []string{".html"}, s.Collection.Extensions)
		assert.Equal(t, 2, s.Indexing.Workers)
		assert.Equal(t, FailurePolicySkip, s.Indexing.FailurePolicy)
		assert.Equal(t, 5, s.Search.DefaultTopK)
		assert.Equal(t, "9000", s.Server.Port)
		assert.Equal(t, 5*time.Second, s.Server.ReadTimeout)
		assert.Equal(t, "json", s.Logging.Format)
		assert.False(t, s.Metrics.Enabled)
		assert.Empty(t, s.Validate())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TFIDF_COLLECTION_DIR", "/data/docs")
		t.Setenv("TFIDF_INDEXING_WORKERS", "8")
		t.Setenv("TFIDF_SERVER_PORT", "7070")

		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/data/docs", s.Collection.Dir)
		assert.Equal(t, 8, s.Indexing.Workers)
		assert.Equal(t, "7070", s.Server.Port)
		assert.True(t, s.Metrics.Enabled)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("indexing: [unclosed"), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
