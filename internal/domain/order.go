package domain

import (
	"fmt"
	"strings"
)

// Item is one ordered line item extracted from a document.
// Quantity is always >= 1; segments that resolve to anything lower are skipped
// by the parser instead of producing an Item.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ExtractionResult is the full output of running extraction over one document.
type ExtractionResult struct {
	Items   []Item `json:"items"`
	Summary string `json:"summary"`
}

// NewExtractionResult builds a result with its derived summary.
// The summary is a pure projection of the item list ("<qty> × <name>" per line)
// and is never authored independently.
func NewExtractionResult(items []Item) *ExtractionResult {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%d × %s", it.Quantity, it.Name))
	}
	return &ExtractionResult{
		Items:   items,
		Summary: strings.Join(lines, "\n"),
	}
}
