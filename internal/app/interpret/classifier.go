package interpret

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// Rule is one (predicate, label) pair of the keyword classifier.
//
// A rule matches when every keyword in All occurs, at least one keyword in Any
// occurs (if Any is set) and at least one string in Exact occurs (if Exact is
// set). All and Any are compared case-insensitively, Exact is not. A rule with
// no keywords never matches.
type Rule struct {
	Type  domain.DreamType `yaml:"type"`
	Exact []string         `yaml:"exact,omitempty"`
	All   []string         `yaml:"all,omitempty"`
	Any   []string         `yaml:"any,omitempty"`
}

func (r Rule) empty() bool {
	return len(r.Exact) == 0 && len(r.All) == 0 && len(r.Any) == 0
}

// Matches evaluates the rule against text. lower must be strings.ToLower(text).
func (r Rule) Matches(text, lower string) bool {
	if r.empty() {
		return false
	}

	if len(r.Exact) > 0 && !containsAny(text, r.Exact, false) {
		return false
	}
	for _, kw := range r.All {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	if len(r.Any) > 0 && !containsAny(lower, r.Any, true) {
		return false
	}
	return true
}

func containsAny(s string, needles []string, fold bool) bool {
	for _, n := range needles {
		if fold {
			n = strings.ToLower(n)
		}
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// DefaultRules is the built-in priority order: exact canonical labels first,
// then keyword groups, most specific class first. The order is a heuristic,
// not a trained classifier; LoadRules lets a deployment replace it.
func DefaultRules() []Rule {
	return []Rule{
		{Type: domain.DreamTypeMetaLucid, Exact: []string{string(domain.DreamTypeMetaLucid)}},
		{Type: domain.DreamTypeMnemonic, Exact: []string{string(domain.DreamTypeMnemonic)}},
		{Type: domain.DreamTypePreEcho, Exact: []string{string(domain.DreamTypePreEcho)}},
		{Type: domain.DreamTypeLucid, Exact: []string{string(domain.DreamTypeLucid)}},
		{Type: domain.DreamTypePsychic, Exact: []string{string(domain.DreamTypePsychic)}},

		{Type: domain.DreamTypeMetaLucid, Any: []string{"meta-lucid", "recursive", "timefold"}},
		{Type: domain.DreamTypeMnemonic, Any: []string{"past", "memory", "childhood", "ancestral"}},
		{Type: domain.DreamTypePreEcho, Any: []string{"future", "prediction", "déjà vu", "deja vu", "probability"}},
		{Type: domain.DreamTypeLucid, All: []string{"lucid"}, Any: []string{"aware", "control", "flight"}},
	}
}

// Classifier walks its rules in order and returns the first match.
type Classifier struct {
	rules    []Rule
	fallback domain.DreamType
}

// NewClassifier validates rules and fallback. An empty fallback means Psychic.
func NewClassifier(rules []Rule, fallback domain.DreamType) (*Classifier, error) {
	if fallback == "" {
		fallback = domain.DefaultDreamType
	}
	if !fallback.Valid() {
		return nil, fmt.Errorf("classifier: invalid fallback %q", fallback)
	}

	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if !r.Type.Valid() {
			return nil, fmt.Errorf("classifier: rule %d: invalid type %q", i, r.Type)
		}
		if r.empty() {
			return nil, fmt.Errorf("classifier: rule %d (%s) has no keywords", i, r.Type)
		}
		out = append(out, r)
	}

	return &Classifier{rules: out, fallback: fallback}, nil
}

// DefaultClassifier uses DefaultRules with the Psychic fallback.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultRules(), domain.DefaultDreamType)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the type of the first matching rule. matched is false when
// the fallback was used.
func (c *Classifier) Classify(text string) (t domain.DreamType, matched bool) {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		if r.Matches(text, lower) {
			return r.Type, true
		}
	}
	return c.fallback, false
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

type rulesFile struct {
	Fallback domain.DreamType `yaml:"fallback"`
	Rules    []Rule           `yaml:"rules"`
}

// ParseRules decodes a YAML rule document:
//
//	fallback: Psychic Dreams
//	rules:
//	  - type: Meta-Lucid Dreams
//	    any: [recursive, timefold]
func ParseRules(data []byte) (*Classifier, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("classifier: decode rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("classifier: rule file defines no rules")
	}
	return NewClassifier(f.Rules, f.Fallback)
}

// LoadRules reads a YAML rule file from disk.
func LoadRules(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: read %s: %w", path, err)
	}
	return ParseRules(data)
}
