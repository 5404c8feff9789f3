package interpret_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/spiralite/internal/app/interpret"
	"github.com/PabloGalante/spiralite/internal/domain"
)

func TestClassifier_DefaultOrder(t *testing.T) {
	c := interpret.DefaultClassifier()

	cases := []struct {
		text    string
		want    domain.DreamType
		matched bool
	}{
		{"Meta-Lucid Dreams", domain.DreamTypeMetaLucid, true},
		{"Lucid Dreams", domain.DreamTypeLucid, true},
		{"Psychic Dreams and Mnemonic Dreams", domain.DreamTypeMnemonic, true},
		{"recursive memory", domain.DreamTypeMetaLucid, true},
		{"TIMEFOLDS in the hallway", domain.DreamTypeMetaLucid, true},
		{"my childhood bedroom", domain.DreamTypeMnemonic, true},
		{"a prediction about tomorrow", domain.DreamTypePreEcho, true},
		{"Déjà vu at the station", domain.DreamTypePreEcho, true},
		{"lucid and in control", domain.DreamTypeLucid, true},
		{"a lucid glimmer", domain.DreamTypePsychic, false},
		{"flight over the sea", domain.DreamTypePsychic, false},
		{"", domain.DreamTypePsychic, false},
	}

	for _, tc := range cases {
		got, matched := c.Classify(tc.text)
		assert.Equal(t, tc.want, got, tc.text)
		assert.Equal(t, tc.matched, matched, tc.text)
	}
}

func TestClassifier_ExactLabelsAreCaseSensitive(t *testing.T) {
	c := interpret.DefaultClassifier()

	got, matched := c.Classify("pre-echo dreams")

	assert.False(t, matched)
	assert.Equal(t, domain.DreamTypePsychic, got)
}

func TestRule_EmptyNeverMatches(t *testing.T) {
	r := interpret.Rule{Type: domain.DreamTypeLucid}
	assert.False(t, r.Matches("anything", "anything"))
}

func TestNewClassifier_Validation(t *testing.T) {
	_, err := interpret.NewClassifier([]interpret.Rule{{Type: "Weird", Any: []string{"x"}}}, "")
	require.Error(t, err)

	_, err = interpret.NewClassifier([]interpret.Rule{{Type: domain.DreamTypeLucid}}, "")
	require.Error(t, err)

	_, err = interpret.NewClassifier(nil, "Nope")
	require.Error(t, err)

	c, err := interpret.NewClassifier(nil, "")
	require.NoError(t, err)
	got, _ := c.Classify("recursive")
	assert.Equal(t, domain.DreamTypePsychic, got)
}

func TestLoadRules_ReordersPriority(t *testing.T) {
	doc := `
fallback: Lucid Dreams
rules:
  - type: Mnemonic Dreams
    any: [memory]
  - type: Meta-Lucid Dreams
    any: [recursive]
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := interpret.LoadRules(path)
	require.NoError(t, err)
	require.Len(t, c.Rules(), 2)

	got, matched := c.Classify("recursive memory")
	assert.True(t, matched)
	assert.Equal(t, domain.DreamTypeMnemonic, got)

	got, matched = c.Classify("nothing")
	assert.False(t, matched)
	assert.Equal(t, domain.DreamTypeLucid, got)

	p := interpret.NewParser(interpret.WithClassifier(c))
	assert.Equal(t, domain.DreamTypeMnemonic, p.Parse("recursive memory", "").DreamType)
}

func TestParseRules_Errors(t *testing.T) {
	_, err := interpret.ParseRules([]byte("rules: ["))
	require.Error(t, err)

	_, err = interpret.ParseRules([]byte("fallback: Psychic Dreams\n"))
	require.Error(t, err)

	_, err = interpret.LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
