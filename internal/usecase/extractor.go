package usecase

import (
	"regexp"
	"strings"

	"github.com/zaqa/backend/internal/domain"
)

// Strategy selects how the extraction driver walks the normalized document.
type Strategy string

const (
	// StrategyLine parses bullet/number-prefixed lines; other lines are skipped.
	StrategyLine Strategy = "line"

	// StrategyFlat scans a whitespace-collapsed token stream, starting a new
	// segment at every purely numeric token.
	StrategyFlat Strategy = "flat"
)

// orderLineRegex matches an order line: an optional -/* bullet or numbered
// list prefix ("1.", "2)"), then the quantity digits, then the rest.
var orderLineRegex = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])?\s*(\d+)\s+(.+)$`)

// ExtractorConfig holds the tunable markers and the strategy choice.
type ExtractorConfig struct {
	Strategy       Strategy
	BoundaryMarker string
	PreambleMarker string
}

// Extractor walks a normalized document and drives the segment parser over
// each candidate, propagating noun inheritance between segments. It holds no
// per-document state itself; Extract may be called concurrently for
// independent documents.
type Extractor struct {
	parser         *SegmentParser
	strategy       Strategy
	boundaryMarker string
	preambleMarker string
}

// NewExtractor creates an extraction driver. Unset config fields fall back to
// the line strategy and the default document markers.
func NewExtractor(parser *SegmentParser, cfg ExtractorConfig) *Extractor {
	strategy := cfg.Strategy
	if strategy != StrategyFlat {
		strategy = StrategyLine
	}
	boundary := cfg.BoundaryMarker
	if boundary == "" {
		boundary = DefaultBoundaryMarker
	}
	preamble := cfg.PreambleMarker
	if preamble == "" {
		preamble = DefaultPreambleMarker
	}
	return &Extractor{
		parser:         parser,
		strategy:       strategy,
		boundaryMarker: boundary,
		preambleMarker: preamble,
	}
}

// Extract runs the configured strategy over the decoded text and returns the
// items in document order. A document yielding nothing returns an empty slice;
// the caller decides whether that is a reportable outcome.
func (e *Extractor) Extract(text string) []domain.Item {
	if e.strategy == StrategyFlat {
		return e.extractFlat(text)
	}
	return e.extractLines(text)
}

func (e *Extractor) extractLines(text string) []domain.Item {
	var items []domain.Item
	lastNoun := ""

	for _, line := range NormalizeLines(text, e.boundaryMarker) {
		m := orderLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		segment := e.parser.Parse(m[1], m[2], lastNoun)
		items = append(items, segment...)
		if len(segment) > 0 {
			lastNoun = lastWord(segment[0].Name)
		}
	}

	return items
}

func (e *Extractor) extractFlat(text string) []domain.Item {
	tokens := NormalizeFlat(text, e.preambleMarker)

	var items []domain.Item
	lastNoun := ""
	i := 0

	for i < len(tokens) {
		if !isDigits(tokens[i]) {
			i++
			continue
		}

		// The description span runs to the next purely numeric token, unless
		// that token follows "and": a continued quantity inside the same
		// semantic unit ("2 and 3 widgets"), not a new segment.
		j := i + 1
		var descTokens []string
		for j < len(tokens) && (!isDigits(tokens[j]) || strings.EqualFold(tokens[j-1], "and")) {
			descTokens = append(descTokens, tokens[j])
			j++
		}

		segment := e.parser.Parse(tokens[i], strings.Join(descTokens, " "), lastNoun)
		items = append(items, segment...)
		if len(segment) > 0 {
			lastNoun = lastWord(segment[0].Name)
		}

		i = j
	}

	return items
}

// lastWord returns the trailing whitespace-delimited word of a name; it feeds
// noun inheritance for segments that lack their own subject.
func lastWord(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
