package interpret

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// Method records which parser stage produced a Result.
type Method string

const (
	// Structured results.
	MethodJSON             Method = "json"              // whole completion was the JSON object
	MethodJSONExtracted    Method = "json_extracted"    // JSON found inside a fence or surrounding prose
	MethodJSONReclassified Method = "json_reclassified" // JSON was complete but dreamType was not a known label

	// Recovered results.
	MethodJSONPartial Method = "json_partial" // valid JSON with some required fields missing
	MethodTagged      Method = "tagged"       // DREAM_TYPE:/INTERPRETATION: tag format
	MethodKeyword     Method = "keyword"      // free text, a keyword rule matched

	// Nothing recognisable; every field is a fallback value.
	MethodDefault Method = "default"
)

var methodConfidence = map[Method]float64{
	MethodJSON:             1.0,
	MethodJSONExtracted:    0.9,
	MethodJSONReclassified: 0.7,
	MethodJSONPartial:      0.6,
	MethodTagged:           0.6,
	MethodKeyword:          0.4,
	MethodDefault:          0.2,
}

const (
	UnstructuredRationale = "Classification extracted from unstructured response"
	TaggedRationale       = "Classification extracted from tagged response"
	EmptyInterpretation   = "No interpretation could be recovered from the response. Please try again."

	DefaultMinRecoveredLength = 50
)

// Result is the typed interpretation recovered from a completion. Every
// field except Confidence is always populated.
type Result struct {
	Method         Method           `json:"method"`
	Confidence     float64          `json:"confidence"`
	DreamType      domain.DreamType `json:"dreamType"`
	Rationale      string           `json:"rationale"`
	Interpretation string           `json:"interpretation"`
	Name           string           `json:"name"`
}

// Label returns the classification in the vocabulary of the response: the
// slug for the tag format, the canonical name otherwise.
func (r Result) Label() string {
	if r.Method == MethodTagged {
		return r.DreamType.Slug()
	}
	return string(r.DreamType)
}

// Structured reports whether the result came from a complete JSON object.
func (r Result) Structured() bool {
	switch r.Method {
	case MethodJSON, MethodJSONExtracted, MethodJSONReclassified:
		return true
	}
	return false
}

// Parser turns raw completions into Results. The zero value is not usable;
// call NewParser.
type Parser struct {
	classifier   *Classifier
	minRecovered int
}

type Option func(*Parser)

// WithClassifier replaces the keyword classifier.
func WithClassifier(c *Classifier) Option {
	return func(p *Parser) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithMinRecoveredLength sets the shortest interpretation span (in runes)
// accepted by marker-based recovery.
func WithMinRecoveredLength(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.minRecovered = n
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		classifier:   DefaultClassifier(),
		minRecovered: DefaultMinRecoveredLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// parseInput is shared by the stages of one Parse call.
type parseInput struct {
	raw       string
	body      string // raw with the code fence removed
	candidate string // JSON object candidate taken from body
	reshaped  bool   // body or candidate differ from the trimmed raw text
	dreamText string
}

// stage returns ok=false when its precondition does not hold.
type stage func(p *Parser, in *parseInput) (Result, bool)

var stages = []stage{
	(*Parser).structured,
	(*Parser).tagged,
	(*Parser).partial,
	(*Parser).unstructured,
}

// Parse never fails: the last stage accepts any input.
func (p *Parser) Parse(completion, dreamText string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = p.fallback(completion, dreamText)
		}
	}()

	body, fenced := stripFence(completion)
	candidate, extracted := jsonCandidate(body)
	in := &parseInput{
		raw:       completion,
		body:      body,
		candidate: candidate,
		reshaped:  fenced || extracted,
		dreamText: dreamText,
	}

	for _, st := range stages {
		if res, ok := st(p, in); ok {
			return p.finish(res, in)
		}
	}
	return p.fallback(completion, dreamText)
}

func (p *Parser) finish(res Result, in *parseInput) Result {
	if !res.DreamType.Valid() {
		res.DreamType = domain.DefaultDreamType
	}
	if strings.TrimSpace(res.Rationale) == "" {
		res.Rationale = UnstructuredRationale
	}
	if strings.TrimSpace(res.Interpretation) == "" {
		res.Interpretation = p.recoverInterpretation(in.raw)
	}
	if strings.TrimSpace(res.Name) == "" {
		res.Name = SynthesizeTitle(in.dreamText)
	}
	res.Confidence = methodConfidence[res.Method]
	return res
}

func (p *Parser) fallback(completion, dreamText string) Result {
	return Result{
		Method:         MethodDefault,
		Confidence:     methodConfidence[MethodDefault],
		DreamType:      domain.DefaultDreamType,
		Rationale:      UnstructuredRationale,
		Interpretation: wholeText(completion),
		Name:           SynthesizeTitle(dreamText),
	}
}

// structured requires a JSON object with non-empty dreamType, rationale and
// interpretation strings.
func (p *Parser) structured(in *parseInput) (Result, bool) {
	f, ok := readJSONFields(in.candidate)
	if !ok || f.dreamType == "" || f.rationale == "" || f.interpretation == "" {
		return Result{}, false
	}

	res := Result{
		Method:         MethodJSON,
		Rationale:      f.rationale,
		Interpretation: f.interpretation,
		Name:           f.name,
	}
	if in.reshaped {
		res.Method = MethodJSONExtracted
	}

	if t, ok := domain.ParseDreamType(f.dreamType); ok {
		res.DreamType = t
	} else {
		// The model's own label is not trusted; classify what it wrote instead.
		res.DreamType, _ = p.classifier.Classify(f.interpretation + "\n" + f.rationale)
		res.Method = MethodJSONReclassified
	}
	return res, true
}

// partial salvages whatever fields a valid but incomplete JSON object has.
func (p *Parser) partial(in *parseInput) (Result, bool) {
	f, ok := readJSONFields(in.candidate)
	if !ok || (f.dreamType == "" && f.rationale == "" && f.interpretation == "") {
		return Result{}, false
	}

	res := Result{
		Method:         MethodJSONPartial,
		Rationale:      f.rationale,
		Interpretation: f.interpretation,
		Name:           f.name,
	}
	if t, ok := domain.ParseDreamType(f.dreamType); ok {
		res.DreamType = t
	} else {
		res.DreamType, _ = p.classifier.Classify(in.raw)
	}
	return res, true
}

// unstructured classifies free text by keyword and recovers the
// interpretation from markers.
func (p *Parser) unstructured(in *parseInput) (Result, bool) {
	t, matched := p.classifier.Classify(in.raw)

	method := MethodKeyword
	if !matched {
		method = MethodDefault
	}

	return Result{
		Method:         method,
		DreamType:      t,
		Rationale:      UnstructuredRationale,
		Interpretation: p.recoverInterpretation(in.raw),
	}, true
}

type jsonFields struct {
	dreamType      string
	rationale      string
	interpretation string
	name           string
}

func readJSONFields(candidate string) (jsonFields, bool) {
	if candidate == "" || !gjson.Valid(candidate) {
		return jsonFields{}, false
	}
	obj := gjson.Parse(candidate)
	if !obj.IsObject() {
		return jsonFields{}, false
	}

	vals := gjson.GetMany(candidate, "dreamType", "rationale", "interpretation", "name", "title")
	f := jsonFields{
		dreamType:      stringField(vals[0]),
		rationale:      stringField(vals[1]),
		interpretation: stringField(vals[2]),
		name:           stringField(vals[3]),
	}
	if f.name == "" {
		f.name = stringField(vals[4])
	}
	return f, true
}

func stringField(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(r.Str)
}

var (
	fenceBlockRe  = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")
	fenceMarkerRe = regexp.MustCompile("```[A-Za-z0-9_-]*")
)

// stripFence returns the interior of the first fenced block. An opening fence
// without a closing one (truncated output) is dropped together with its info
// string.
func stripFence(s string) (string, bool) {
	if m := fenceBlockRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```") {
		return strings.TrimSpace(fenceMarkerRe.ReplaceAllString(trimmed, "")), true
	}
	return trimmed, false
}

// jsonCandidate takes the first '{' through the last '}' unless s already is
// a brace-delimited object.
func jsonCandidate(s string) (string, bool) {
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s, false
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// wholeText is the completion without fence markers, or the placeholder when
// nothing is left.
func wholeText(s string) string {
	out := strings.TrimSpace(fenceMarkerRe.ReplaceAllString(s, ""))
	if out == "" {
		return EmptyInterpretation
	}
	return out
}
