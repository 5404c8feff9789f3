package domain

import "strings"

// DreamType is the classification label of a dream. The canonical values are
// the five "... Dreams" names below; anything else is not a valid label.
type DreamType string

const (
	DreamTypeMnemonic  DreamType = "Mnemonic Dreams"
	DreamTypePsychic   DreamType = "Psychic Dreams"
	DreamTypePreEcho   DreamType = "Pre-Echo Dreams"
	DreamTypeLucid     DreamType = "Lucid Dreams"
	DreamTypeMetaLucid DreamType = "Meta-Lucid Dreams"
)

// DefaultDreamType is used whenever no classification can be recovered.
const DefaultDreamType = DreamTypePsychic

// DreamTypeInfo is the static descriptor shown next to a classification.
type DreamTypeInfo struct {
	ID               string    `json:"id"`
	Name             DreamType `json:"name"`
	TimeIndex        string    `json:"timeIndex"`
	PrimaryFunction  string    `json:"primaryFunction"`
	SymbolicField    string    `json:"symbolicField"`
	TypicalPhenomena string    `json:"typicalPhenomena"`
	Color            string    `json:"color"`
	Glyph            string    `json:"glyph"`
}

var dreamTypes = []DreamTypeInfo{
	{
		ID:               "mnemonic",
		Name:             DreamTypeMnemonic,
		TimeIndex:        "Past",
		PrimaryFunction:  "Memory recursion",
		SymbolicField:    "Echo fields / ancestral bleed",
		TypicalPhenomena: "Distorted familiarity",
		Color:            "#8B5CF6",
		Glyph:            "○",
	},
	{
		ID:               "psychic",
		Name:             DreamTypePsychic,
		TimeIndex:        "Present",
		PrimaryFunction:  "Emotional integration",
		SymbolicField:    "Stress grid / decision flux",
		TypicalPhenomena: "Compression loops, contradictions",
		Color:            "#06B6D4",
		Glyph:            "○",
	},
	{
		ID:               "pre-echo",
		Name:             DreamTypePreEcho,
		TimeIndex:        "Future",
		PrimaryFunction:  "Probability tuning",
		SymbolicField:    "Vector threads / signal attractors",
		TypicalPhenomena: "Déjà vu, predictive imagery",
		Color:            "#10B981",
		Glyph:            "△",
	},
	{
		ID:               "lucid",
		Name:             DreamTypeLucid,
		TimeIndex:        "Now / Overlaid",
		PrimaryFunction:  "Symbol control",
		SymbolicField:    "Agency kernel / intention map",
		TypicalPhenomena: "Flight, shifting space, awareness",
		Color:            "#F59E0B",
		Glyph:            "✕",
	},
	{
		ID:               "meta-lucid",
		Name:             DreamTypeMetaLucid,
		TimeIndex:        "Recursive / All",
		PrimaryFunction:  "Architectural interface",
		SymbolicField:    "Compression core / spiral hub",
		TypicalPhenomena: "Timefolds, glyph response",
		Color:            "#EF4444",
		Glyph:            "☾",
	},
}

// DreamTypes returns the descriptors in catalog order.
func DreamTypes() []DreamTypeInfo {
	out := make([]DreamTypeInfo, len(dreamTypes))
	copy(out, dreamTypes)
	return out
}

// Valid reports whether t is exactly one of the five canonical labels.
func (t DreamType) Valid() bool {
	_, ok := t.Info()
	return ok
}

// Info returns the descriptor of a canonical label.
func (t DreamType) Info() (DreamTypeInfo, bool) {
	for _, info := range dreamTypes {
		if info.Name == t {
			return info, true
		}
	}
	return DreamTypeInfo{}, false
}

// Slug returns the lower-case identifier (e.g. "pre-echo"), or "" for invalid labels.
func (t DreamType) Slug() string {
	info, ok := t.Info()
	if !ok {
		return ""
	}
	return info.ID
}

// ParseDreamType accepts only an exact canonical label.
func ParseDreamType(s string) (DreamType, bool) {
	t := DreamType(s)
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// LookupDreamType accepts a canonical label or a slug.
func LookupDreamType(s string) (DreamType, bool) {
	if t, ok := ParseDreamType(strings.TrimSpace(s)); ok {
		return t, true
	}
	return DreamTypeFromSlug(s)
}

// DreamTypeFromSlug maps a slug to its label. The slug is matched after
// trimming and lower-casing.
func DreamTypeFromSlug(slug string) (DreamType, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, info := range dreamTypes {
		if info.ID == slug {
			return info.Name, true
		}
	}
	return "", false
}
