package adaptation

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

// Focus selects the per-need rewrite the processor applies to each sentence.
type Focus string

const (
	FocusGeneral  Focus = "general"
	FocusADHD     Focus = "adhd"
	FocusAutism   Focus = "autism"
	FocusDyslexia Focus = "dyslexia"
)

// ReadingLevel is the processor's own complexity scale, as sent by the
// content-processing screen.
type ReadingLevel string

const (
	ReadingSimple   ReadingLevel = "simple"
	ReadingModerate ReadingLevel = "moderate"
	ReadingDetailed ReadingLevel = "detailed"
)

// ReadingLevelFor maps an evaluated text complexity onto the processor scale.
func ReadingLevelFor(c TextComplexity) ReadingLevel {
	switch c {
	case TextModerate:
		return ReadingModerate
	case TextComplex:
		return ReadingDetailed
	default:
		return ReadingSimple
	}
}

type ProcessOptions struct {
	TargetAge       int          `json:"targetAge"`
	Focus           Focus        `json:"disabilityType"`
	ComplexityLevel ReadingLevel `json:"complexityLevel"`
}

// Processed is a reading aid derived from a block of text.
type Processed struct {
	SimplifiedText       string   `json:"simplifiedText"`
	KeyPoints            []string `json:"keyPoints"`
	VisualCues           []string `json:"visualCues"`
	InteractiveElements  []string `json:"interactiveElements"`
	EstimatedReadingTime int      `json:"estimatedReadingTime"` // minutes
}

var (
	sentenceBreak = regexp.MustCompile(`[.!?]+`)
	whitespace    = regexp.MustCompile(`\s+`)
	loneB         = regexp.MustCompile(`\bb\b`)
	loneD         = regexp.MustCompile(`\bd\b`)
	conjunctions  = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)\s+and\s+`), ". And "},
		{regexp.MustCompile(`(?i)\s+but\s+`), ". But "},
		{regexp.MustCompile(`(?i)\s+or\s+`), ". Or "},
		{regexp.MustCompile(`(?i)\s+because\s+`), ". Because "},
		{regexp.MustCompile(`(?i)\s+since\s+`), ". Since "},
		{regexp.MustCompile(`(?i)\s+while\s+`), ". While "},
		{regexp.MustCompile(`(?i)\s+although\s+`), ". Although "},
	}
	keyMarkers = []string{"important", "key", "main", "remember", "must"}
)

const (
	minKeyPointRunes = 20
	maxKeyPoints     = 5
	fallbackPoints   = 3
	minWPM           = 50
	maxWPM           = 200
	wpmPerYear       = 20
)

func (o ProcessOptions) normalize() (ProcessOptions, error) {
	if o.TargetAge < 0 {
		return o, apierr.Invalid("targetAge must be >= 0, got %d", o.TargetAge)
	}
	if o.TargetAge == 0 {
		o.TargetAge = 8
	}
	switch o.Focus {
	case "":
		o.Focus = FocusGeneral
	case FocusGeneral, FocusADHD, FocusAutism, FocusDyslexia:
	default:
		return o, apierr.Invalid("unknown disabilityType %q", o.Focus)
	}
	switch o.ComplexityLevel {
	case "":
		o.ComplexityLevel = ReadingSimple
	case ReadingSimple, ReadingModerate, ReadingDetailed:
	default:
		return o, apierr.Invalid("unknown complexityLevel %q", o.ComplexityLevel)
	}
	return o, nil
}

// Process builds a simplified reading of text with key points, visual cues,
// activity prompts and a reading-time estimate.
func (e *Engine) Process(text string, opts ProcessOptions) (Processed, error) {
	opts, err := opts.normalize()
	if err != nil {
		return Processed{}, err
	}

	var sentences []string
	for _, s := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}

	rewritten := make([]string, len(sentences))
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		switch opts.Focus {
		case FocusADHD:
			s = splitConjunctions(s)
		case FocusAutism:
			s = structuralCue(s)
		case FocusDyslexia:
			s = dyslexiaReadable(s)
		}
		rewritten[i] = s
	}
	simplified := replaceVocabulary(strings.Join(rewritten, ". "))

	return Processed{
		SimplifiedText:       simplified,
		KeyPoints:            keyPoints(sentences),
		VisualCues:           visualCues(text),
		InteractiveElements:  interactiveElements(text),
		EstimatedReadingTime: readingTime(simplified, opts.TargetAge),
	}, nil
}

func splitConjunctions(s string) string {
	for _, c := range conjunctions {
		s = c.re.ReplaceAllLiteralString(s, c.repl)
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func structuralCue(s string) string {
	switch {
	case containsAny(s, "first", "second", "then"):
		return "📋 " + s
	case containsAny(s, "important", "remember"):
		return "⚠️ " + s
	case containsAny(s, "example", "like"):
		return "💡 " + s
	}
	return s
}

func dyslexiaReadable(s string) string {
	s = loneB.ReplaceAllLiteralString(s, "be")
	s = loneD.ReplaceAllLiteralString(s, "the")
	return collapseRuns(s)
}

// collapseRuns shortens any run of three or more of the same lowercase ASCII
// letter to two.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	run := 0
	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' && c == prev {
			run++
		} else {
			run = 1
		}
		prev = c
		if run <= 2 {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func keyPoints(sentences []string) []string {
	var points []string
	for _, s := range sentences {
		t := strings.TrimSpace(s)
		if utf8.RuneCountInString(t) > minKeyPointRunes && containsAny(t, keyMarkers...) {
			points = append(points, "• "+t)
		}
	}
	if len(points) == 0 {
		for i := 0; i < len(sentences) && i < fallbackPoints; i++ {
			points = append(points, "• "+strings.TrimSpace(sentences[i]))
		}
		return points
	}
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	return points
}

func visualCues(text string) []string {
	var cues []string
	if containsAny(text, "number", "count") {
		cues = append(cues, "Use counting blocks or fingers")
	}
	if containsAny(text, "color", "red", "blue") {
		cues = append(cues, "Show with colorful objects")
	}
	if containsAny(text, "big", "small", "size") {
		cues = append(cues, "Compare with familiar objects")
	}
	if containsAny(text, "move", "action") {
		cues = append(cues, "Act it out with body movements")
	}
	if len(cues) == 0 {
		return []string{"Use pictures and diagrams", "Point to examples"}
	}
	return cues
}

func interactiveElements(text string) []string {
	var out []string
	if containsAny(text, "question", "?") {
		out = append(out, "Ask and answer questions")
	}
	if containsAny(text, "practice", "try") {
		out = append(out, "Hands-on practice activity")
	}
	if containsAny(text, "draw", "write") {
		out = append(out, "Drawing or writing exercise")
	}
	return append(out, "Take breaks every 5 minutes", "Repeat in your own words")
}

// readingTime counts whitespace-separated pieces, so empty text is one word
// and the estimate never drops below a minute.
func readingTime(text string, age int) int {
	words := len(whitespace.Split(text, -1))
	wpm := age * wpmPerYear
	if wpm < minWPM {
		wpm = minWPM
	}
	if wpm > maxWPM {
		wpm = maxWPM
	}
	return int(math.Ceil(float64(words) / float64(wpm)))
}
