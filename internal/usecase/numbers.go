package usecase

import (
	"strconv"
	"strings"
)

// Cardinal word values for spelled-out quantity parsing ("two", "twenty-five",
// "three hundred"). Only cardinals are supported; ordinals are not order
// quantities.
var cardinalUnits = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var cardinalTens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var cardinalScales = map[string]int{
	"hundred":  100,
	"thousand": 1000,
	"million":  1000000,
}

// ParseQuantity resolves a quantity token to an integer. It tries a plain
// integer parse first, then a spelled-out cardinal parse. The boolean reports
// whether the token was parseable at all; callers treat failure as a skip
// decision, not an error.
func ParseQuantity(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n, true
	}
	return parseCardinal(token)
}

// parseCardinal parses spelled-out numbers like "seven", "twenty-two" or
// "two hundred and five". Any word outside the cardinal vocabulary fails the
// whole parse.
func parseCardinal(s string) (int, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(s, "-", " "))
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return 0, false
	}

	total, current := 0, 0
	sawNumber := false

	for _, w := range words {
		switch {
		case w == "and":
			// connective inside larger numbers ("one hundred and five")
			continue
		case cardinalUnits[w] != 0 || w == "zero":
			current += cardinalUnits[w]
			sawNumber = true
		case cardinalTens[w] != 0:
			current += cardinalTens[w]
			sawNumber = true
		case w == "hundred":
			if current == 0 {
				current = 1
			}
			current *= cardinalScales[w]
			sawNumber = true
		case w == "thousand" || w == "million":
			if current == 0 {
				current = 1
			}
			total += current * cardinalScales[w]
			current = 0
			sawNumber = true
		default:
			return 0, false
		}
	}

	if !sawNumber {
		return 0, false
	}
	return total + current, true
}
