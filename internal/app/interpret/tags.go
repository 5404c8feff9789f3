package interpret

import (
	"regexp"
	"strings"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// Tag format used by the earlier, non-JSON prompt revision:
//
//	DREAM_NAME: The Glass Staircase
//	DREAM_TYPE: lucid
//	CLASSIFICATION_REASON: ...
//
//	INTERPRETATION:
//	...
var (
	dreamTypeTagRe      = regexp.MustCompile(`(?i)DREAM_TYPE:[ \t]*([^\r\n]*)`)
	dreamNameTagRe      = regexp.MustCompile(`(?i)DREAM_NAME:[ \t]*([^\r\n]*)`)
	reasonTagRe         = regexp.MustCompile(`(?i)CLASSIFICATION_REASON:[ \t]*([^\r\n]*)`)
	interpretationTagRe = regexp.MustCompile(`(?i)INTERPRETATION:\s*([\s\S]*)`)
)

// tagged applies when the completion carries a DREAM_TYPE or DREAM_NAME tag.
// Each tag is extracted independently. DREAM_TYPE takes a slug or a label.
func (p *Parser) tagged(in *parseInput) (Result, bool) {
	typeTag, hasType := findTag(dreamTypeTagRe, in.body)
	name, hasName := findTag(dreamNameTagRe, in.body)
	if !hasType && !hasName {
		return Result{}, false
	}

	t, ok := domain.LookupDreamType(typeTag)
	if !ok {
		t = domain.DefaultDreamType
	}

	rationale, _ := findTag(reasonTagRe, in.body)
	if rationale == "" {
		rationale = TaggedRationale
	}

	interpretation, _ := findTag(interpretationTagRe, in.body)

	return Result{
		Method:         MethodTagged,
		DreamType:      t,
		Rationale:      rationale,
		Interpretation: interpretation,
		Name:           name,
	}, true
}

func findTag(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
