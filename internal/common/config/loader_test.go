package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: test
apis:
  genai:
    api_key: key-123
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "leadgen", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gemini-2.5-flash", cfg.APIs.GenAI.Model)
	assert.Equal(t, "Pakistan", cfg.APIs.GenAI.Country)
	assert.Equal(t, "pk", cfg.APIs.GenAI.CountryCode)
	assert.Equal(t, 1.0, cfg.Geocode.Rate)
	assert.Equal(t, time.Hour, cfg.Server.SessionTTLDuration())
	assert.False(t, cfg.Database.Redis.Enabled())
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("LEADGEN_TEST_KEY", "from-env")
	path := writeConfig(t, `
app:
  environment: production
apis:
  genai:
    api_key: ${LEADGEN_TEST_KEY}
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIs.GenAI.APIKey)
	assert.True(t, cfg.Database.Redis.Enabled())
}

func TestLoadFromFile_RequiresAPIKeyOutsideTest(t *testing.T) {
	for _, name := range []string{"GENAI_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		t.Setenv(name, "")
	}
	path := writeConfig(t, `
app:
  environment: production
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apis.genai.api_key")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
