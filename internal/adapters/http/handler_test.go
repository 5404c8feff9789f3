package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	httpadapter "github.com/PabloGalante/spiralite/internal/adapters/http"
	"github.com/PabloGalante/spiralite/internal/adapters/llm"
	"github.com/PabloGalante/spiralite/internal/adapters/storage/memory"
	"github.com/PabloGalante/spiralite/internal/app/journal"
	"github.com/PabloGalante/spiralite/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingCompleter struct{}

func (failingCompleter) Complete(context.Context, []domain.ChatMessage) (string, error) {
	return "", &domain.NetworkError{Status: 500, Reason: "upstream exploded"}
}

func newTestServer(t *testing.T, completer domain.Completer) http.Handler {
	t.Helper()

	if completer == nil {
		completer = llm.NewMockClient()
	}

	store, err := journal.NewStore(context.Background(), memory.NewSnapshotStore())
	require.NoError(t, err)

	return httpadapter.NewServer(journal.NewService(completer, store, nil))
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCatalogs(t *testing.T) {
	srv := newTestServer(t, nil)

	var personas []domain.Persona
	decode(t, do(t, srv, http.MethodGet, "/personas", ""), &personas)
	require.Len(t, personas, 2)
	assert.Empty(t, personas[0].SystemPrompt)

	decode(t, do(t, srv, http.MethodGet, "/personas?prompts=1", ""), &personas)
	assert.NotEmpty(t, personas[0].SystemPrompt)

	var types []domain.DreamTypeInfo
	decode(t, do(t, srv, http.MethodGet, "/dream-types", ""), &types)
	assert.Len(t, types, 5)
}

func TestRecordListGetDelete(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/dreams", `{"text":"I was lucid and flew over the harbour","persona":"limnus"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Dream struct {
			ID          string `json:"id"`
			DreamType   string `json:"dreamType"`
			DreamTypeID string `json:"dreamTypeId"`
			Persona     string `json:"persona"`
		} `json:"dream"`
		Parse struct {
			Method string `json:"method"`
		} `json:"parse"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Lucid Dreams", created.Dream.DreamType)
	assert.Equal(t, "lucid", created.Dream.DreamTypeID)
	assert.Equal(t, "limnus", created.Dream.Persona)
	assert.Equal(t, "json", created.Parse.Method)

	var list struct {
		SortBy string `json:"sortBy"`
		Dreams []struct {
			ID string `json:"id"`
		} `json:"dreams"`
	}
	decode(t, do(t, srv, http.MethodGet, "/dreams?type=lucid", ""), &list)
	assert.Equal(t, "date-desc", list.SortBy)
	require.Len(t, list.Dreams, 1)
	assert.Equal(t, created.Dream.ID, list.Dreams[0].ID)

	w = do(t, srv, http.MethodGet, "/dreams/"+created.Dream.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodDelete, "/dreams/"+created.Dream.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, srv, http.MethodDelete, "/dreams/"+created.Dream.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/dreams/"+created.Dream.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInterpretDoesNotStore(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/interpretations", `{"text":"a childhood kitchen"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		DreamType string `json:"dreamType"`
	}
	decode(t, w, &res)
	assert.Equal(t, "Mnemonic Dreams", res.DreamType)

	var in struct {
		Total int `json:"total"`
	}
	decode(t, do(t, srv, http.MethodGet, "/insights", ""), &in)
	assert.Zero(t, in.Total)
}

func TestRecordFailureIsGeneric(t *testing.T) {
	srv := newTestServer(t, failingCompleter{})

	w := do(t, srv, http.MethodPost, "/dreams", `{"text":"falling","persona":"orion"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, domain.InterpretationFailureMessage, body["error"])
	assert.NotContains(t, w.Body.String(), "upstream exploded")

	var list struct {
		Dreams []json.RawMessage `json:"dreams"`
	}
	decode(t, do(t, srv, http.MethodGet, "/dreams", ""), &list)
	assert.Empty(t, list.Dreams)
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/dreams", `{"text":"   "}`},
		{http.MethodPost, "/dreams", `{"text":"x","persona":"hermes"}`},
		{http.MethodPost, "/dreams", `not json`},
		{http.MethodGet, "/dreams?sort=random", ""},
		{http.MethodGet, "/dreams?type=nightmare", ""},
		{http.MethodGet, "/dreams/groups?by=mood", ""},
		{http.MethodPut, "/preferences/sort", `{"sortBy":"random"}`},
	}

	for _, tc := range cases {
		w := do(t, srv, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
		assert.True(t, strings.Contains(w.Body.String(), `"error"`))
	}
}

func TestSortPreferenceAndGroups(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, body := range []string{
		`{"text":"short lucid","persona":"orion"}`,
		`{"text":"a much longer memory of the old house","persona":"limnus"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/dreams", body).Code)
	}

	w := do(t, srv, http.MethodPut, "/preferences/sort", `{"sortBy":"length-asc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var pref map[string]string
	decode(t, do(t, srv, http.MethodGet, "/preferences/sort", ""), &pref)
	assert.Equal(t, "length-asc", pref["sortBy"])

	var list struct {
		Dreams []struct {
			Text string `json:"text"`
		} `json:"dreams"`
	}
	decode(t, do(t, srv, http.MethodGet, "/dreams", ""), &list)
	require.Len(t, list.Dreams, 2)
	assert.Equal(t, "short lucid", list.Dreams[0].Text)

	var groups []struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}
	decode(t, do(t, srv, http.MethodGet, "/dreams/groups?by=persona", ""), &groups)
	require.Len(t, groups, 2)
	assert.Equal(t, "orion", groups[0].Key)
	assert.Equal(t, 1, groups[0].Count)
}

func TestMetricsAndUnknownRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodGet, "/healthz", "")

	w := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spiralite_http_requests_total")

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPatch, "/dreams", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodOptions, "/dreams", "").Code)
}
