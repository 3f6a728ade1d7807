package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/zaqa/backend/internal/domain"
)

// Package-level compiled regex patterns for the parsing cascade
var (
	// "2 x Widget A" multiplier prefix
	multiplierPrefixRegex = regexp.MustCompile(`(?i)^[x×]\s*(.+)$`)

	// "Widget A: 2" self-contained colon quantity
	colonQuantityRegex = regexp.MustCompile(`^(.+?):\s*(\d+)$`)

	// phrase separators: the word "and", commas, semicolons
	phraseSplitRegex = regexp.MustCompile(`(?i)\band\b|,|;`)

	// possible embedded quantity at the start of a single phrase
	embeddedNumberRegex = regexp.MustCompile(`^(\d+|\w+)\s+(.+)$`)

	// leading digits in a multi-phrase sub-phrase
	leadingDigitsRegex = regexp.MustCompile(`^(\d+)\s+(.+)$`)
)

// Singularizer reduces a plural noun to its singular form. The concrete engine
// is constructed once at startup and injected.
type Singularizer func(word string) string

// SegmentParser turns one quantity+description segment into zero or more
// items. It is stateless and safe for concurrent use; noun inheritance state
// lives in the extraction driver.
type SegmentParser struct {
	singularize Singularizer
}

// NewSegmentParser creates a parser using the given singularization engine.
// A nil engine leaves nouns untouched.
func NewSegmentParser(singularize Singularizer) *SegmentParser {
	if singularize == nil {
		singularize = func(w string) string { return w }
	}
	return &SegmentParser{singularize: singularize}
}

// Parse applies the pattern cascade to (rawQty, remainder, defaultNoun) and
// returns the items the segment yields. An unparsable quantity or an empty
// remainder is a skip decision: the result is empty, never an error.
func (p *SegmentParser) Parse(rawQty, remainder, defaultNoun string) []domain.Item {
	qty, ok := ParseQuantity(rawQty)
	if !ok || qty < 1 {
		return nil
	}
	rest := strings.TrimSpace(remainder)
	if rest == "" {
		return nil
	}

	// pattern 1: "2 x Widget A"
	if m := multiplierPrefixRegex.FindStringSubmatch(rest); m != nil {
		return []domain.Item{{Name: strings.TrimSpace(m[1]), Quantity: qty}}
	}

	// pattern 2: "Widget A: 2", the colon quantity overrides the leading one
	if m := colonQuantityRegex.FindStringSubmatch(rest); m != nil {
		q, _ := strconv.Atoi(m[2])
		if q < 1 {
			return nil
		}
		return []domain.Item{{Name: strings.TrimSpace(m[1]), Quantity: q}}
	}

	// noun + descriptor fallback
	first, tail := splitOnce(rest)
	first = strings.TrimRight(first, ":;,") // "Widget: red and blue"
	var entity, descBlock string
	if tail != "" {
		entity = first
		descBlock = tail
	} else {
		// lone token: inherit the noun from the previous segment when we have one
		entity = defaultNoun
		if entity == "" {
			entity = first
		}
	}
	// a punctuation-only remainder can trim down to nothing; skip it rather
	// than emit a nameless item
	if entity == "" {
		return nil
	}
	singular := p.singularize(entity)

	if descBlock == "" {
		return []domain.Item{{Name: singular, Quantity: qty}}
	}

	phrases := phraseSplitRegex.Split(descBlock, -1)

	// single phrase: "<noun> <desc>", embedded leading number overrides qty
	if len(phrases) == 1 {
		phr := strings.TrimSpace(phrases[0])
		itemQty, desc := qty, phr
		if m := embeddedNumberRegex.FindStringSubmatch(phr); m != nil {
			if n, numOK := ParseQuantity(m[1]); numOK {
				if n >= 1 {
					itemQty = n
				}
				desc = m[2]
			}
		}
		name := strings.TrimSpace(singular + " " + desc)
		return []domain.Item{{Name: name, Quantity: itemQty}}
	}

	// multi-phrase: each item is "<desc> <noun>", descriptor first
	var items []domain.Item
	for _, raw := range phrases {
		phr := strings.TrimSpace(raw)
		if phr == "" {
			continue
		}

		// drop a leading repeat of the entity or its singular form
		tok, rest2 := splitOnce(phr)
		if strings.EqualFold(tok, entity) || strings.EqualFold(tok, singular) {
			phr = rest2
		}
		if phr == "" {
			continue
		}

		itemQty, desc := 1, phr
		if m := leadingDigitsRegex.FindStringSubmatch(phr); m != nil {
			n, _ := strconv.Atoi(m[1])
			itemQty, desc = n, m[2]
		} else {
			tok2, rest3 := splitOnce(phr)
			if n, numOK := ParseQuantity(tok2); numOK && rest3 != "" {
				itemQty, desc = n, rest3
			}
		}
		if itemQty < 1 {
			continue
		}

		name := strings.TrimSpace(strings.TrimSpace(desc) + " " + singular)
		items = append(items, domain.Item{Name: name, Quantity: itemQty})
	}

	return items
}

// splitOnce splits off the first whitespace-delimited token, keeping the
// remainder's internal spacing intact.
func splitOnce(s string) (token, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
