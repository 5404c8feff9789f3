package domain

import "time"

// Dream is a single journal record. It is created once interpretation succeeds
// and never modified afterwards; the only other transition is deletion.
type Dream struct {
	ID      DreamID   `json:"id"`
	Text    string    `json:"text"`
	Persona PersonaID `json:"persona"`

	Interpretation string `json:"interpretation"`

	// DreamType is empty for unclassified dreams.
	DreamType DreamType `json:"dreamType,omitempty"`
	Rationale string    `json:"rationale,omitempty"`

	// Name is the generated (or synthesized) title.
	Name string `json:"name,omitempty"`

	CreatedAt time.Time `json:"date"`
}

// Classified reports whether the dream carries a valid classification.
func (d Dream) Classified() bool {
	return d.DreamType.Valid()
}

// Snapshot is the persisted state of the journal.
type Snapshot struct {
	Dreams []Dream    `json:"dreams"`
	SortBy SortOption `json:"sortBy,omitempty"`
}
