package pipeline

import (
	"strings"
	"testing"

	"github.com/hyperifyio/answerscope/internal/brand"
	"github.com/hyperifyio/answerscope/internal/serp"
)

func TestBuildPromptIncludesEvidence(t *testing.T) {
	b := brand.Context{
		Name:        "Acme",
		Keyword:     "best widgets",
		Category:    "ecommerce",
		Competitors: []string{"WidgetCo", "Gadgetry"},
	}
	overview := serp.Context{
		Text:       "Acme leads the category.",
		SourceType: serp.SourceAIOverview,
		FetchMode:  serp.ModeEmbedded,
		Confidence: serp.ConfidenceHigh,
	}

	prompt := BuildPrompt(b, overview, "Cleaned page text about widgets.")

	for _, want := range []string{
		"- brand_name: Acme",
		"- keyword: best widgets",
		"- brand_category: ecommerce",
		`- known_competitors: ["WidgetCo","Gadgetry"]`,
		"- search_source_type: ai_overview",
		"- search_fetch_mode: embedded",
		"- search_confidence: high",
		"- search_context: Acme leads the category.",
		"- website_clean_text: Cleaned page text about widgets.",
		"Return exactly one JSON object and nothing else.",
		`"eta_days": 14`,
		`"competitor_analysis"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptEmptyCompetitors(t *testing.T) {
	prompt := BuildPrompt(brand.Context{Keyword: "k"}, serp.Context{}, "")
	if !strings.Contains(prompt, "- known_competitors: []") {
		t.Fatalf("nil competitors should render as empty list")
	}
}
