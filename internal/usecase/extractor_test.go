package usecase

import (
	"testing"

	"github.com/go-openapi/inflect"

	"github.com/zaqa/backend/internal/domain"
)

func newTestExtractor(strategy Strategy) *Extractor {
	parser := NewSegmentParser(inflect.Singularize)
	return NewExtractor(parser, ExtractorConfig{Strategy: strategy})
}

func TestExtractLines(t *testing.T) {
	e := newTestExtractor(StrategyLine)

	t.Run("numbered list with shipping boundary", func(t *testing.T) {
		text := "Please order:\n1. 2 Widget A\n2. 3 Gadget B\nShipping to: 123 Main St\n4 Sneaky Item"
		items := e.Extract(text)
		want := []domain.Item{
			{Name: "Widget A", Quantity: 2},
			{Name: "Gadget B", Quantity: 3},
		}
		assertItems(t, items, want)
	})

	t.Run("bullet prefixes", func(t *testing.T) {
		items := e.Extract("- 2 Widget A\n* 3 Gadget B")
		want := []domain.Item{
			{Name: "Widget A", Quantity: 2},
			{Name: "Gadget B", Quantity: 3},
		}
		assertItems(t, items, want)
	})

	t.Run("noun inheritance across lines", func(t *testing.T) {
		items := e.Extract("2 Widgets\n3 more")
		want := []domain.Item{
			{Name: "Widget", Quantity: 2},
			{Name: "Widget", Quantity: 3},
		}
		assertItems(t, items, want)
	})

	t.Run("blank and prose lines are skipped", func(t *testing.T) {
		items := e.Extract("Hi team,\n\nplease see below\n2 Widgets\n\nthanks")
		want := []domain.Item{{Name: "Widget", Quantity: 2}}
		assertItems(t, items, want)
	})

	t.Run("lines never yield nameless items", func(t *testing.T) {
		for _, item := range e.Extract("2 :::\n3 Widgets") {
			if item.Name == "" {
				t.Errorf("produced item with empty name: %+v", item)
			}
		}
	})

	t.Run("nothing extractable yields empty", func(t *testing.T) {
		if items := e.Extract("hello world\nno quantities here"); len(items) != 0 {
			t.Errorf("items = %v, want none", items)
		}
	})

	t.Run("empty text yields empty", func(t *testing.T) {
		if items := e.Extract(""); len(items) != 0 {
			t.Errorf("items = %v, want none", items)
		}
	})
}

// A summary is a pure projection of the items, so feeding it back through the
// extractor must reproduce the same items.
func TestSummaryRoundTrip(t *testing.T) {
	e := newTestExtractor(StrategyLine)

	items := []domain.Item{
		{Name: "Widget A", Quantity: 2},
		{Name: "Gadget B", Quantity: 3},
	}
	result := domain.NewExtractionResult(items)

	reExtracted := e.Extract(result.Summary)
	assertItems(t, reExtracted, items)

	again := domain.NewExtractionResult(reExtracted)
	if again.Summary != result.Summary {
		t.Errorf("Summary = %q, want %q", again.Summary, result.Summary)
	}
}

func TestExtractFlat(t *testing.T) {
	e := newTestExtractor(StrategyFlat)

	t.Run("digit tokens start segments", func(t *testing.T) {
		items := e.Extract("please order the following items 2 staplers 3 blue pens")
		want := []domain.Item{
			{Name: "stapler", Quantity: 2},
			{Name: "blue pens", Quantity: 3},
		}
		assertItems(t, items, want)
	})

	t.Run("digit after and stays in the same segment", func(t *testing.T) {
		items := e.Extract("order the following items 2 and 3 pens")
		if len(items) != 1 {
			t.Fatalf("items = %v, want exactly one", items)
		}
		if items[0].Quantity != 3 {
			t.Errorf("Quantity = %d, want 3", items[0].Quantity)
		}
	})

	t.Run("preamble is trimmed before scanning", func(t *testing.T) {
		items := e.Extract("ref 42 order the following items 2 staplers")
		want := []domain.Item{{Name: "stapler", Quantity: 2}}
		assertItems(t, items, want)
	})

	t.Run("noun inheritance across segments", func(t *testing.T) {
		items := e.Extract("2 Widgets 3 more")
		want := []domain.Item{
			{Name: "Widget", Quantity: 2},
			{Name: "Widget", Quantity: 3},
		}
		assertItems(t, items, want)
	})
}
