package journal

import (
	"math"

	"github.com/PabloGalante/spiralite/internal/domain"
)

const recentInsightDreams = 5

// Insights summarises the journal.
type Insights struct {
	Total         int                      `json:"total"`
	ByPersona     map[domain.PersonaID]int `json:"byPersona"`
	ByType        map[domain.DreamType]int `json:"byType"`
	Unclassified  int                      `json:"unclassified"`
	AverageLength int                      `json:"averageLength"`
	Recent        []domain.Dream           `json:"recent"`
}

// ComputeInsights counts dreams per persona and per type and averages the
// dream text length. Every catalog persona and type appears in the maps,
// with zero counts where needed.
func ComputeInsights(dreams []domain.Dream) Insights {
	in := Insights{
		Total:     len(dreams),
		ByPersona: map[domain.PersonaID]int{},
		ByType:    map[domain.DreamType]int{},
		Recent:    []domain.Dream{},
	}
	for _, p := range domain.Personas() {
		in.ByPersona[p.ID] = 0
	}
	for _, t := range domain.DreamTypes() {
		in.ByType[t.Name] = 0
	}

	if len(dreams) == 0 {
		return in
	}

	totalLen := 0
	for _, d := range dreams {
		in.ByPersona[d.Persona]++
		if d.Classified() {
			in.ByType[d.DreamType]++
		} else {
			in.Unclassified++
		}
		totalLen += len(d.Text)
	}
	in.AverageLength = int(math.Round(float64(totalLen) / float64(len(dreams))))

	recent := SortDreams(dreams, domain.SortDateDesc)
	if len(recent) > recentInsightDreams {
		recent = recent[:recentInsightDreams]
	}
	in.Recent = recent

	return in
}
