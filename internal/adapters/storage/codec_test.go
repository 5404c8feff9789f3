package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/PabloGalante/spiralite/internal/domain"
)

func TestEncode_Envelope(t *testing.T) {
	b, err := Encode(domain.Snapshot{SortBy: domain.SortDateAsc})
	require.NoError(t, err)

	assert.Equal(t, int64(0), gjson.GetBytes(b, "version").Int())
	assert.Equal(t, "date-asc", gjson.GetBytes(b, "state.sortBy").String())
	assert.True(t, gjson.GetBytes(b, "state.dreams").IsArray())
}

func TestDecode_Envelope(t *testing.T) {
	data := []byte(`{"state":{"dreams":[{"id":"1","text":"a tide","persona":"limnus","interpretation":"x","dreamType":"Lucid Dreams","date":"2024-05-01T07:30:00.000Z"}],"sortBy":"type"},"version":0}`)

	snap, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, snap.Dreams, 1)

	d := snap.Dreams[0]
	assert.Equal(t, domain.DreamID("1"), d.ID)
	assert.Equal(t, domain.PersonaLimnus, d.Persona)
	assert.Equal(t, domain.DreamTypeLucid, d.DreamType)
	assert.True(t, d.CreatedAt.Equal(time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)))
	assert.Equal(t, domain.SortType, snap.SortBy)
}

func TestDecode_SlugDreamTypes(t *testing.T) {
	data := []byte(`{"state":{"dreams":[` +
		`{"id":"1","text":"t","persona":"orion","interpretation":"i","dreamType":"lucid","date":"2024-05-01T07:30:00Z"},` +
		`{"id":"2","text":"t","persona":"orion","interpretation":"i","dreamType":"Pre-Echo","date":"2024-05-01T07:31:00Z"},` +
		`{"id":"3","text":"t","persona":"orion","interpretation":"i","dreamType":"Mnemonic Dreams","date":"2024-05-01T07:32:00Z"},` +
		`{"id":"4","text":"t","persona":"orion","interpretation":"i","dreamType":"nightmare","date":"2024-05-01T07:33:00Z"}` +
		`]},"version":0}`)

	snap, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, snap.Dreams, 4)

	assert.Equal(t, domain.DreamTypeLucid, snap.Dreams[0].DreamType)
	assert.True(t, snap.Dreams[0].Classified())
	assert.Equal(t, domain.DreamTypePreEcho, snap.Dreams[1].DreamType)
	assert.Equal(t, domain.DreamTypeMnemonic, snap.Dreams[2].DreamType)
	// unknown values are kept and stay unclassified
	assert.Equal(t, domain.DreamType("nightmare"), snap.Dreams[3].DreamType)
	assert.False(t, snap.Dreams[3].Classified())
}

func TestDecode_BareObject(t *testing.T) {
	snap, err := Decode([]byte(`{"dreams":[{"id":"1","text":"t","persona":"orion","interpretation":"i","date":"2024-05-01T07:30:00Z"}]}`))
	require.NoError(t, err)
	require.Len(t, snap.Dreams, 1)
	assert.False(t, snap.Dreams[0].Classified())
}

func TestDecode_Errors(t *testing.T) {
	for _, in := range []string{`{"state":`, `{"state":[1]}`, `{"dreams":"nope"}`} {
		_, err := Decode([]byte(in))
		assert.Error(t, err, in)
	}

	snap, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Dreams)
}

func TestRoundTrip(t *testing.T) {
	in := domain.Snapshot{
		Dreams: []domain.Dream{{
			ID:             "a",
			Text:           "stairs",
			Persona:        domain.PersonaOrion,
			Interpretation: "ascent",
			DreamType:      domain.DreamTypeMetaLucid,
			Rationale:      "r",
			Name:           "Stairs",
			CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
		SortBy: domain.SortLengthAsc,
	}

	b, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
