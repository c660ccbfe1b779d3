package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"keywords_path": "data/keywords.json",
		"database_url": "postgres://localhost/scores",
		"port": 9090,
		"parallel": 8,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data/keywords.json", cfg.KeywordsPath)
	assert.Equal(t, "postgres://localhost/scores", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 8, cfg.Parallel)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_NegativeValues(t *testing.T) {
	assert.ErrorContains(t, (&Config{Parallel: -1}).Validate(), "parallel")
	assert.ErrorContains(t, (&Config{MaxUploadBytes: -1}).Validate(), "max_upload_bytes")
}

func TestValidate_KeywordsPathIsDirectory(t *testing.T) {
	cfg := &Config{KeywordsPath: t.TempDir()}

	assert.ErrorContains(t, cfg.Validate(), "keywords path is a directory")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	cfg.KeywordsPath = filepath.Join(t.TempDir(), "missing.json")

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		DatabaseURL: "postgres://db/scores",
		Port:        9000,
	}

	merged := partial.MergeWithDefaults(Defaults())

	assert.Equal(t, "postgres://db/scores", merged.DatabaseURL)
	assert.Equal(t, 9000, merged.Port)

	assert.Equal(t, DefaultKeywordsPath, merged.KeywordsPath)
	assert.Equal(t, DefaultParallel, merged.Parallel)
	assert.Equal(t, int64(DefaultMaxUploadBytes), merged.MaxUploadBytes)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{KeywordsPath: "kw.json"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "kw.json", merged.KeywordsPath)
	assert.Zero(t, merged.Port)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("KEYWORDS_PATH", "/etc/scorer/keywords.json")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "8181")
	t.Setenv("SCORE_PARALLEL", "")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/etc/scorer/keywords.json", cfg.KeywordsPath)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, 8181, cfg.Port)
	assert.Zero(t, cfg.Parallel)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestFromEnv_InvalidNumber(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "invalid PORT")
}
