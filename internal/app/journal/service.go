package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/spiralite/internal/app/interpret"
	"github.com/PabloGalante/spiralite/internal/domain"
	"github.com/PabloGalante/spiralite/internal/observability"
)

// Service glues the completion backend, the response parser and the store.
type Service struct {
	completer domain.Completer
	parser    *interpret.Parser
	store     *Store
	now       func() time.Time
	newID     func() domain.DreamID
}

// NewService creates a journal service. A nil parser means the default one.
func NewService(completer domain.Completer, store *Store, parser *interpret.Parser) *Service {
	if parser == nil {
		parser = interpret.NewParser()
	}

	return &Service{
		completer: completer,
		parser:    parser,
		store:     store,
		now:       time.Now,
		newID:     generateID,
	}
}

type InterpretInput struct {
	Text      string
	Persona   domain.PersonaID
	Title     string
	Symbols   []string
	Themes    []string
	Lucid     bool
	Recurring bool
}

func (in InterpretInput) validate() (domain.Persona, error) {
	if strings.TrimSpace(in.Text) == "" {
		return domain.Persona{}, domain.ErrEmptyDream
	}
	persona, ok := domain.LookupPersona(in.Persona)
	if !ok {
		return domain.Persona{}, fmt.Errorf("%w: %q", domain.ErrUnknownPersona, in.Persona)
	}
	return persona, nil
}

// Interpret performs one completion round trip and parses the reply. Any
// backend failure is reported as domain.ErrInterpretationFailed; parsing
// itself cannot fail.
func (s *Service) Interpret(ctx context.Context, in InterpretInput) (interpret.Result, error) {
	persona, err := in.validate()
	if err != nil {
		return interpret.Result{}, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"persona", persona.ID,
		"text_len", len(in.Text),
	)
	log.Info("interpreting dream")

	messages := interpret.BuildMessages(persona, interpret.PromptInput{
		Text:      in.Text,
		Title:     in.Title,
		Symbols:   in.Symbols,
		Themes:    in.Themes,
		Lucid:     in.Lucid,
		Recurring: in.Recurring,
	})

	start := time.Now()
	completion, err := s.completer.Complete(ctx, messages)
	if err != nil {
		observability.RecordInterpretation(false)
		log.Error("completion failed", "error", err)
		return interpret.Result{}, fmt.Errorf("%w: %w", domain.ErrInterpretationFailed, err)
	}
	observability.RecordInterpretation(true)

	res := s.parser.Parse(completion, in.Text)
	observability.RecordParseMethod(string(res.Method))

	log.Info("dream interpreted",
		"method", res.Method,
		"dream_type", res.DreamType,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

type RecordOutput struct {
	Dream  domain.Dream
	Result interpret.Result
}

// Record interprets the dream and stores it. Nothing is stored when the
// interpretation fails.
func (s *Service) Record(ctx context.Context, in InterpretInput) (*RecordOutput, error) {
	res, err := s.Interpret(ctx, in)
	if err != nil {
		return nil, err
	}

	dream := domain.Dream{
		ID:             s.newID(),
		Text:           strings.TrimSpace(in.Text),
		Persona:        in.Persona,
		Interpretation: res.Interpretation,
		DreamType:      res.DreamType,
		Rationale:      res.Rationale,
		Name:           res.Name,
		CreatedAt:      s.now().UTC(),
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		dream.Name = title
	}

	s.store.Add(ctx, dream)

	observability.LoggerFromContext(ctx).Info("dream recorded",
		"dream_id", dream.ID,
		"dream_type", dream.DreamType,
	)

	return &RecordOutput{Dream: dream, Result: res}, nil
}

func (s *Service) GetDream(ctx context.Context, id domain.DreamID) (domain.Dream, error) {
	return s.store.Get(id)
}

// DeleteDream is idempotent.
func (s *Service) DeleteDream(ctx context.Context, id domain.DreamID) {
	observability.LoggerFromContext(ctx).Info("deleting dream", "dream_id", id)
	s.store.Delete(ctx, id)
}

type ListInput struct {
	// SortBy overrides the stored selection when set.
	SortBy domain.SortOption
	// Type restricts the list to one classification when set; a label or a slug.
	Type domain.DreamType
}

func (s *Service) ListDreams(ctx context.Context, in ListInput) ([]domain.Dream, error) {
	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = s.store.SortBy()
	} else if _, ok := domain.ParseSortOption(string(sortBy)); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSortOption, sortBy)
	}

	dreams := s.store.All()
	if in.Type != "" {
		t, ok := domain.LookupDreamType(string(in.Type))
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDreamType, in.Type)
		}
		dreams = FilterByType(dreams, t)
	}
	return SortDreams(dreams, sortBy), nil
}

const (
	GroupByPersonaKey = "persona"
	GroupByTypeKey    = "type"
)

// GroupDreams groups the date-sorted collection by persona or by type.
func (s *Service) GroupDreams(ctx context.Context, by string) ([]Group, error) {
	dreams := SortDreams(s.store.All(), domain.SortDateDesc)

	switch by {
	case GroupByPersonaKey:
		return GroupByPersona(dreams), nil
	case GroupByTypeKey:
		return GroupByType(dreams), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGrouping, by)
	}
}

func (s *Service) Insights(ctx context.Context) Insights {
	return ComputeInsights(s.store.All())
}

func (s *Service) SortBy() domain.SortOption {
	return s.store.SortBy()
}

func (s *Service) SetSortBy(ctx context.Context, opt domain.SortOption) error {
	return s.store.SetSortBy(ctx, opt)
}

// generateID returns a time-ordered UUIDv7, falling back to a timestamp.
func generateID() domain.DreamID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.DreamID(time.Now().Format("20060102150405.000000000"))
	}
	return domain.DreamID(id.String())
}
