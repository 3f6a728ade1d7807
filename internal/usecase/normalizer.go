package usecase

import (
	"fmt"
	"strings"
)

// Default document markers. The boundary marker ends extraction permanently;
// the preamble marker trims boilerplate before the order body in flat mode.
const (
	DefaultBoundaryMarker = "shipping to:"
	DefaultPreambleMarker = "order the following items"
)

// NormalizeLines splits raw decoded text into trimmed, non-blank candidate
// lines. Once a line contains the boundary marker (case-insensitive) the
// sequence ends; everything after is excluded even if it looks like an order
// line.
func NormalizeLines(text, boundaryMarker string) []string {
	marker := strings.ToLower(boundaryMarker)
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if marker != "" && strings.Contains(strings.ToLower(line), marker) {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

// NormalizeFlat collapses all whitespace runs and returns the flat token
// stream used by the continuous-flat strategy. When the preamble marker is
// present, everything up to and including it is trimmed first.
func NormalizeFlat(text, preambleMarker string) []string {
	if preambleMarker != "" {
		low := strings.ToLower(text)
		if idx := strings.Index(low, strings.ToLower(preambleMarker)); idx != -1 {
			text = text[idx+len(preambleMarker):]
		}
	}
	return strings.Fields(text)
}

// FlattenRows reduces tabular rows (CSV/spreadsheet) to synthetic order
// lines. The first cell parseable as an integer or spelled-out number becomes
// the quantity; the remaining non-empty cells join in original order as the
// description. Rows yielding no quantity are dropped.
func FlattenRows(rows [][]string) []string {
	var lines []string
	for _, row := range rows {
		qty := 0
		haveQty := false
		var descParts []string
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if n, ok := ParseQuantity(cell); !haveQty && ok {
				qty = n
				haveQty = true
			} else {
				descParts = append(descParts, cell)
			}
		}
		if haveQty && len(descParts) > 0 {
			lines = append(lines, fmt.Sprintf("%d %s", qty, strings.Join(descParts, " ")))
		}
	}
	return lines
}
