package journal

import (
	"cmp"
	"slices"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// UnclassifiedGroup is the group key of dreams without a valid dream type.
const UnclassifiedGroup = "unclassified"

// Group is one bucket of a grouped projection.
type Group struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Dreams []domain.Dream `json:"dreams"`
}

func newestFirst(a, b domain.Dream) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

// SortDreams returns a sorted copy of dreams. All orders are stable, so sorting
// an already sorted slice again leaves it unchanged. Unknown options return
// the copy in input order.
func SortDreams(dreams []domain.Dream, opt domain.SortOption) []domain.Dream {
	out := slices.Clone(dreams)

	var less func(a, b domain.Dream) int
	switch opt {
	case domain.SortDateDesc:
		less = newestFirst
	case domain.SortDateAsc:
		less = func(a, b domain.Dream) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case domain.SortType:
		less = func(a, b domain.Dream) int {
			if c := cmp.Compare(a.DreamType, b.DreamType); c != 0 {
				return c
			}
			return newestFirst(a, b)
		}
	case domain.SortPersona:
		less = func(a, b domain.Dream) int {
			if c := cmp.Compare(a.Persona, b.Persona); c != 0 {
				return c
			}
			return newestFirst(a, b)
		}
	case domain.SortLengthDesc:
		less = func(a, b domain.Dream) int {
			if c := cmp.Compare(len(b.Text), len(a.Text)); c != 0 {
				return c
			}
			return newestFirst(a, b)
		}
	case domain.SortLengthAsc:
		less = func(a, b domain.Dream) int {
			if c := cmp.Compare(len(a.Text), len(b.Text)); c != 0 {
				return c
			}
			return newestFirst(a, b)
		}
	default:
		return out
	}

	slices.SortStableFunc(out, less)
	return out
}

// FilterByType keeps the dreams classified as t, preserving order.
func FilterByType(dreams []domain.Dream, t domain.DreamType) []domain.Dream {
	out := make([]domain.Dream, 0, len(dreams))
	for _, d := range dreams {
		if d.DreamType == t {
			out = append(out, d)
		}
	}
	return out
}

// GroupByPersona buckets dreams by persona in catalog order. Dreams with an
// unknown persona id get a group of their own after the catalog ones.
func GroupByPersona(dreams []domain.Dream) []Group {
	var keys []string
	labels := map[string]string{}
	for _, p := range domain.Personas() {
		keys = append(keys, string(p.ID))
		labels[string(p.ID)] = p.Name
	}

	return groupBy(dreams, keys, labels, func(d domain.Dream) string {
		return string(d.Persona)
	})
}

// GroupByType buckets dreams by classification in catalog order, followed by
// the unclassified group.
func GroupByType(dreams []domain.Dream) []Group {
	var keys []string
	labels := map[string]string{}
	for _, info := range domain.DreamTypes() {
		keys = append(keys, info.ID)
		labels[info.ID] = string(info.Name)
	}
	keys = append(keys, UnclassifiedGroup)
	labels[UnclassifiedGroup] = "Unclassified"

	return groupBy(dreams, keys, labels, func(d domain.Dream) string {
		if slug := d.DreamType.Slug(); slug != "" {
			return slug
		}
		return UnclassifiedGroup
	})
}

// groupBy preserves input order inside each group and omits empty groups.
func groupBy(dreams []domain.Dream, keys []string, labels map[string]string, keyOf func(domain.Dream) string) []Group {
	buckets := map[string][]domain.Dream{}
	for _, d := range dreams {
		k := keyOf(d)
		if _, known := labels[k]; !known {
			keys = append(keys, k)
			labels[k] = k
		}
		buckets[k] = append(buckets[k], d)
	}

	var out []Group
	for _, k := range keys {
		if len(buckets[k]) == 0 {
			continue
		}
		out = append(out, Group{Key: k, Label: labels[k], Dreams: buckets[k]})
	}
	return out
}
