package interpret

import (
	"strings"
	"unicode/utf8"
)

const UntitledDream = "Untitled Dream"

// interpretationMarkers are tried in order; only the first one present is used.
var interpretationMarkers = []string{
	`interpretation":`,
	`interpretation:`,
	`Interpretation:`,
	`This dream`,
}

var jsonEscapes = strings.NewReplacer(`\n`, "\n", `\"`, `"`, `\t`, "\t")

// recoverInterpretation finds the interpretation text in an otherwise
// unparseable completion. Spans shorter than the configured minimum are
// discarded in favour of the whole completion.
func (p *Parser) recoverInterpretation(raw string) string {
	for _, marker := range interpretationMarkers {
		idx := strings.Index(raw, marker)
		if idx < 0 {
			continue
		}

		var span string
		switch marker {
		case `This dream`:
			// the phrase opens the interpretation, keep it
			span = cleanSpan(raw[idx:])
		case `interpretation":`:
			span = jsonEscapes.Replace(cleanSpan(jsonStringValue(raw[idx+len(marker):])))
		default:
			span = cleanSpan(raw[idx+len(marker):])
		}

		if utf8.RuneCountInString(span) >= p.minRecovered {
			return span
		}
		break
	}
	return wholeText(raw)
}

// jsonStringValue returns the quoted value at the start of s, up to its
// closing unescaped quote. A value cut off mid-string runs to the end of s.
func jsonStringValue(s string) string {
	s = strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return s[1:i]
		}
	}
	return s[1:]
}

// cleanSpan trims whitespace, closing fences, trailing JSON punctuation and
// one pair of surrounding quotes.
func cleanSpan(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	s = strings.TrimRight(s, "} \t\r\n")
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// SynthesizeTitle builds a fallback title from the first four words of the
// dream text, with an ellipsis when the text continues.
func SynthesizeTitle(dreamText string) string {
	text := strings.TrimSpace(dreamText)
	words := strings.Fields(text)
	if len(words) == 0 {
		return UntitledDream
	}
	if len(words) > 4 {
		words = words[:4]
	}

	title := strings.Join(words, " ")
	if len(text) > len(title) {
		title += "..."
	}
	return title
}
