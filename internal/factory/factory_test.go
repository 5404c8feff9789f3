package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/spiralite/internal/adapters/llm"
	"github.com/PabloGalante/spiralite/internal/app/journal"
	"github.com/PabloGalante/spiralite/internal/config"
	"github.com/PabloGalante/spiralite/internal/domain"
)

func testConfig(t *testing.T, storage string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Mode:               config.ModeLocal,
		LLMBackend:         config.LLMMock,
		StorageBackend:     storage,
		DataDir:            dir,
		Namespace:          "test-dreams",
		SQLitePath:         filepath.Join(dir, "db", "spiralite.db"),
		MinRecoveredLength: 50,
	}
}

func TestNewCompleter(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)

	c, err := NewCompleter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &llm.MockClient{}, c)

	cfg.LLMBackend = config.LLMToolkit
	c, err = NewCompleter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &llm.ToolkitClient{}, c)

	cfg.LLMBackend = config.LLMOpenAI
	_, err = NewCompleter(context.Background(), cfg)
	assert.Error(t, err, "missing api key")

	cfg.LLMBackend = "smoke-signals"
	_, err = NewCompleter(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewJournal_PersistsAcrossRestarts(t *testing.T) {
	for _, backend := range []string{config.StorageFile, config.StorageSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)

			j, err := NewJournal(ctx, cfg)
			require.NoError(t, err)

			out, err := j.Service.Record(ctx, journal.InterpretInput{Text: "a lucid dream of tides", Persona: domain.PersonaLimnus})
			require.NoError(t, err)
			require.NoError(t, j.Close())

			again, err := NewJournal(ctx, cfg)
			require.NoError(t, err)
			defer again.Close()

			got, err := again.Service.GetDream(ctx, out.Dream.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.DreamTypeLucid, got.DreamType)
		})
	}
}

func TestNewParser_LoadsRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - type: Pre-Echo Dreams\n    any: [tide]\n"), 0o644))

	cfg := testConfig(t, config.StorageMemory)
	cfg.ClassifierRules = path

	p, err := NewParser(cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.DreamTypePreEcho, p.Parse("the tide came in", "").DreamType)

	cfg.ClassifierRules = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewParser(cfg)
	assert.Error(t, err)
}

func TestNewSnapshotStore_Unknown(t *testing.T) {
	_, _, err := NewSnapshotStore(context.Background(), testConfig(t, "tape"))
	assert.Error(t, err)
}
