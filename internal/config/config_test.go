package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MODE", "PORT", "LLM_BACKEND", "USE_MOCK_LLM", "COMPLETION_URL", "COMPLETION_TIMEOUT",
		"OPENAI_API_KEY", "OPENAI_MODEL", "GCP_PROJECT", "GCP_LOCATION", "MODEL_NAME",
		"STORAGE_BACKEND", "DATA_DIR", "NAMESPACE", "SQLITE_PATH", "CLASSIFIER_RULES",
		"MIN_RECOVERED_LENGTH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		for _, name := range []string{Prefix + "_" + k, k} {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func TestLoad_LocalDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, LLMToolkit, cfg.LLMBackend)
	assert.Equal(t, "https://toolkit.rork.com/text/llm/", cfg.CompletionURL)
	assert.Equal(t, 60*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, StorageFile, cfg.StorageBackend)
	assert.Equal(t, "spiralite-dreams", cfg.Namespace)
	assert.Equal(t, filepath.Join("./data", "spiralite.db"), cfg.SQLitePath)
	assert.Equal(t, 50, cfg.MinRecoveredLength)
}

func TestLoad_GCPMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPIRALITE_MODE", "gcp")
	t.Setenv("SPIRALITE_GCP_PROJECT", "dreams-prod")

	cfg, err := LoadFrom()
	require.NoError(t, err)

	assert.Equal(t, LLMVertex, cfg.LLMBackend)
	assert.Equal(t, StorageFirestore, cfg.StorageBackend)
	assert.Equal(t, "us-central1", cfg.GCPLocation)
}

func TestLoad_MockOverridesBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPIRALITE_LLM_BACKEND", "openai")
	t.Setenv("SPIRALITE_USE_MOCK_LLM", "true")

	cfg, err := LoadFrom()
	require.NoError(t, err)
	assert.Equal(t, LLMMock, cfg.LLMBackend)
}

func TestLoad_UnprefixedPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9191")

	cfg, err := LoadFrom()
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SPIRALITE_STORAGE_BACKEND=memory\nSPIRALITE_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("SPIRALITE_STORAGE_BACKEND")
		os.Unsetenv("SPIRALITE_LOG_LEVEL")
	})

	cfg, err := LoadFrom(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"openai without key":   {"SPIRALITE_LLM_BACKEND": "openai"},
		"vertex without proj":  {"SPIRALITE_LLM_BACKEND": "vertex"},
		"firestore no project": {"SPIRALITE_STORAGE_BACKEND": "firestore"},
		"unknown llm":          {"SPIRALITE_LLM_BACKEND": "carrier-pigeon"},
		"unknown storage":      {"SPIRALITE_STORAGE_BACKEND": "tape"},
		"unknown mode":         {"SPIRALITE_MODE": "mars"},
		"bad min length":       {"SPIRALITE_MIN_RECOVERED_LENGTH": "0"},
		"bad duration":         {"SPIRALITE_COMPLETION_TIMEOUT": "soon"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom()
			assert.Error(t, err)
		})
	}
}
