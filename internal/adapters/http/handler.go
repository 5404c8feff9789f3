package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/PabloGalante/spiralite/internal/app/interpret"
	"github.com/PabloGalante/spiralite/internal/app/journal"
	"github.com/PabloGalante/spiralite/internal/domain"
	"github.com/PabloGalante/spiralite/internal/observability"
)

type Server struct {
	svc *journal.Service
}

func NewServer(svc *journal.Service) http.Handler {
	s := &Server{svc: svc}
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	r.HandleFunc("/personas", s.handleListPersonas).Methods(http.MethodGet)
	r.HandleFunc("/dream-types", s.handleListDreamTypes).Methods(http.MethodGet)

	r.HandleFunc("/interpretations", s.handleInterpret).Methods(http.MethodPost)

	r.HandleFunc("/dreams", s.handleRecordDream).Methods(http.MethodPost)
	r.HandleFunc("/dreams", s.handleListDreams).Methods(http.MethodGet)
	// registered before /dreams/{id} so "groups" is not taken as an id
	r.HandleFunc("/dreams/groups", s.handleGroupDreams).Methods(http.MethodGet)
	r.HandleFunc("/dreams/{id}", s.handleGetDream).Methods(http.MethodGet)
	r.HandleFunc("/dreams/{id}", s.handleDeleteDream).Methods(http.MethodDelete)

	r.HandleFunc("/preferences/sort", s.handleGetSort).Methods(http.MethodGet)
	r.HandleFunc("/preferences/sort", s.handleSetSort).Methods(http.MethodPut)

	r.HandleFunc("/insights", s.handleInsights).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		methodNotAllowed(w)
	})

	r.Use(withMetrics)

	return chainMiddlewares(r, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type dreamRequest struct {
	Text      string   `json:"text"`
	Persona   string   `json:"persona,omitempty"`
	Title     string   `json:"title,omitempty"`
	Symbols   []string `json:"symbols,omitempty"`
	Themes    []string `json:"themes,omitempty"`
	Lucid     bool     `json:"lucid,omitempty"`
	Recurring bool     `json:"recurring,omitempty"`
}

type dreamResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Text           string    `json:"text"`
	Persona        string    `json:"persona"`
	Interpretation string    `json:"interpretation"`
	DreamType      string    `json:"dreamType,omitempty"`
	DreamTypeID    string    `json:"dreamTypeId,omitempty"`
	Rationale      string    `json:"rationale,omitempty"`
	Date           time.Time `json:"date"`
}

type parseResponse struct {
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

type interpretationResponse struct {
	Name           string        `json:"name"`
	DreamType      string        `json:"dreamType"`
	DreamTypeID    string        `json:"dreamTypeId"`
	Rationale      string        `json:"rationale"`
	Interpretation string        `json:"interpretation"`
	Parse          parseResponse `json:"parse"`
}

type recordDreamResponse struct {
	Dream dreamResponse `json:"dream"`
	Parse parseResponse `json:"parse"`
}

type listDreamsResponse struct {
	SortBy string          `json:"sortBy"`
	Dreams []dreamResponse `json:"dreams"`
}

type groupResponse struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Dreams []dreamResponse `json:"dreams"`
}

type sortPreference struct {
	SortBy string `json:"sortBy"`
}

type insightsResponse struct {
	Total         int             `json:"total"`
	ByPersona     map[string]int  `json:"byPersona"`
	ByType        map[string]int  `json:"byType"`
	Unclassified  int             `json:"unclassified"`
	AverageLength int             `json:"averageLength"`
	Recent        []dreamResponse `json:"recent"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	withPrompts := r.URL.Query().Get("prompts") == "1"

	out := domain.Personas()
	if !withPrompts {
		for i := range out {
			out[i].SystemPrompt = ""
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListDreamTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.DreamTypes())
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeDreamRequest(w, r)
	if !ok {
		return
	}

	res, err := s.svc.Interpret(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, interpretationResponse{
		Name:           res.Name,
		DreamType:      string(res.DreamType),
		DreamTypeID:    res.DreamType.Slug(),
		Rationale:      res.Rationale,
		Interpretation: res.Interpretation,
		Parse:          toParseResponse(res),
	})
}

func (s *Server) handleRecordDream(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeDreamRequest(w, r)
	if !ok {
		return
	}

	out, err := s.svc.Record(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordDreamResponse{
		Dream: toDreamResponse(out.Dream),
		Parse: toParseResponse(out.Result),
	})
}

func (s *Server) handleListDreams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := journal.ListInput{SortBy: domain.SortOption(q.Get("sort"))}
	if raw := q.Get("type"); raw != "" {
		in.Type = domain.DreamType(raw)
	}

	dreams, err := s.svc.ListDreams(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = s.svc.SortBy()
	}

	writeJSON(w, http.StatusOK, listDreamsResponse{
		SortBy: string(sortBy),
		Dreams: toDreamsResponse(dreams),
	})
}

func (s *Server) handleGroupDreams(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = journal.GroupByTypeKey
	}

	groups, err := s.svc.GroupDreams(r.Context(), by)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse{
			Key:    g.Key,
			Label:  g.Label,
			Count:  len(g.Dreams),
			Dreams: toDreamsResponse(g.Dreams),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDream(w http.ResponseWriter, r *http.Request) {
	id := domain.DreamID(mux.Vars(r)["id"])

	dream, err := s.svc.GetDream(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDreamResponse(dream))
}

func (s *Server) handleDeleteDream(w http.ResponseWriter, r *http.Request) {
	id := domain.DreamID(mux.Vars(r)["id"])

	s.svc.DeleteDream(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSort(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sortPreference{SortBy: string(s.svc.SortBy())})
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req sortPreference
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.svc.SetSortBy(r.Context(), domain.SortOption(req.SortBy)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sortPreference{SortBy: string(s.svc.SortBy())})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	in := s.svc.Insights(r.Context())

	resp := insightsResponse{
		Total:         in.Total,
		ByPersona:     make(map[string]int, len(in.ByPersona)),
		ByType:        make(map[string]int, len(in.ByType)),
		Unclassified:  in.Unclassified,
		AverageLength: in.AverageLength,
		Recent:        toDreamsResponse(in.Recent),
	}
	for k, v := range in.ByPersona {
		resp.ByPersona[string(k)] = v
	}
	for k, v := range in.ByType {
		resp.ByType[string(k)] = v
	}

	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// Journal Helpers
// ─────────────────────────────────────────────

func decodeDreamRequest(w http.ResponseWriter, r *http.Request) (journal.InterpretInput, bool) {
	var req dreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return journal.InterpretInput{}, false
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return journal.InterpretInput{}, false
	}

	persona := domain.PersonaID(strings.ToLower(strings.TrimSpace(req.Persona)))
	if persona == "" {
		persona = domain.PersonaOrion
	}

	return journal.InterpretInput{
		Text:      req.Text,
		Persona:   persona,
		Title:     req.Title,
		Symbols:   req.Symbols,
		Themes:    req.Themes,
		Lucid:     req.Lucid,
		Recurring: req.Recurring,
	}, true
}

func toDreamResponse(d domain.Dream) dreamResponse {
	return dreamResponse{
		ID:             string(d.ID),
		Name:           d.Name,
		Text:           d.Text,
		Persona:        string(d.Persona),
		Interpretation: d.Interpretation,
		DreamType:      string(d.DreamType),
		DreamTypeID:    d.DreamType.Slug(),
		Rationale:      d.Rationale,
		Date:           d.CreatedAt,
	}
}

func toDreamsResponse(dreams []domain.Dream) []dreamResponse {
	out := make([]dreamResponse, 0, len(dreams))
	for _, d := range dreams {
		out = append(out, toDreamResponse(d))
	}
	return out
}

func toParseResponse(res interpret.Result) parseResponse {
	return parseResponse{
		Method:     string(res.Method),
		Confidence: res.Confidence,
		Label:      res.Label(),
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeServiceError maps journal errors to status codes. Completion failures
// always surface as the single user-facing message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInterpretationFailed):
		writeError(w, http.StatusBadGateway, domain.InterpretationFailureMessage)
	case errors.Is(err, domain.ErrDreamNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyDream),
		errors.Is(err, domain.ErrUnknownPersona),
		errors.Is(err, domain.ErrUnknownSortOption),
		errors.Is(err, domain.ErrUnknownGrouping),
		errors.Is(err, domain.ErrUnknownDreamType):
		badRequest(w, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
