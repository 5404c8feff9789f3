package domain

type DreamID string
type PersonaID string

const (
	PersonaOrion  PersonaID = "orion"
	PersonaLimnus PersonaID = "limnus"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// SortOption selects the order of the journal view.
type SortOption string

const (
	SortDateDesc   SortOption = "date-desc" // Newest first (default view)
	SortDateAsc    SortOption = "date-asc"  // Oldest first
	SortType       SortOption = "type"      // Grouped by classification, newest first inside a type
	SortPersona    SortOption = "persona"   // Grouped by persona, newest first inside a persona
	SortLengthDesc SortOption = "length-desc"
	SortLengthAsc  SortOption = "length-asc"
)

// SortOptions lists the options in the order they are offered to the user.
var SortOptions = []SortOption{
	SortDateDesc,
	SortDateAsc,
	SortType,
	SortPersona,
	SortLengthDesc,
	SortLengthAsc,
}

// ParseSortOption returns the option for s, or ok=false if s is not a known option.
func ParseSortOption(s string) (SortOption, bool) {
	for _, opt := range SortOptions {
		if string(opt) == s {
			return opt, true
		}
	}
	return "", false
}
