package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/spiralite/internal/domain"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPIRALITE_LLM_BACKEND", "mock")
	t.Setenv("SPIRALITE_STORAGE_BACKEND", "file")
	t.Setenv("SPIRALITE_DATA_DIR", t.TempDir())
	t.Setenv("SPIRALITE_LOG_LEVEL", "error")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRecordListShowDelete(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "record", "--json", "--persona", "limnus", "I", "was", "lucid", "above", "the", "city")
	require.NoError(t, err)

	var d domain.Dream
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, domain.PersonaLimnus, d.Persona)
	assert.Equal(t, domain.DreamTypeLucid, d.DreamType)
	assert.Equal(t, "I was lucid above the city", d.Text)

	out, err = run(t, "", "list", "--json", "--type", "lucid")
	require.NoError(t, err)
	var dreams []domain.Dream
	require.NoError(t, json.Unmarshal([]byte(out), &dreams))
	require.Len(t, dreams, 1)
	assert.Equal(t, d.ID, dreams[0].ID)

	out, err = run(t, "", "show", string(d.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "I was lucid above the city")

	_, err = run(t, "", "delete", string(d.ID))
	require.NoError(t, err)

	_, err = run(t, "", "show", string(d.ID))
	assert.ErrorIs(t, err, domain.ErrDreamNotFound)
}

func TestRecordFromStdin(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "a childhood garden\n", "record", "--json", "--file", "-", "--title", "Garden")
	require.NoError(t, err)

	var d domain.Dream
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "Garden", d.Name)
	assert.Equal(t, domain.DreamTypeMnemonic, d.DreamType)
}

func TestRecordRequiresText(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "record")
	assert.ErrorIs(t, err, domain.ErrEmptyDream)
}

func TestParseFromStdin(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "DREAM_TYPE: lucid\nDREAM_NAME: Night Swim\nINTERPRETATION: You are steering now.", "parse", "--json")
	require.NoError(t, err)

	var res struct {
		Method    string `json:"method"`
		DreamType string `json:"dreamType"`
		Name      string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "tagged", res.Method)
	assert.Equal(t, "Lucid Dreams", res.DreamType)
	assert.Equal(t, "Night Swim", res.Name)
}

func TestSortGroupsInsights(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "record", "a", "memory", "of", "snow")
	require.NoError(t, err)

	out, err := run(t, "", "sort", "length-asc")
	require.NoError(t, err)
	assert.Equal(t, "length-asc\n", out)

	_, err = run(t, "", "sort", "sideways")
	assert.ErrorIs(t, err, domain.ErrUnknownSortOption)

	out, err = run(t, "", "groups", "--by", "type")
	require.NoError(t, err)
	assert.Contains(t, out, "Mnemonic Dreams (1)")

	out, err = run(t, "", "insights", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)
}

func TestCatalogCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "personas")
	require.NoError(t, err)
	assert.Contains(t, out, "Orion")
	assert.Contains(t, out, "Limnus")

	out, err = run(t, "", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "meta-lucid")
}
