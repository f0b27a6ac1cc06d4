package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperifyio/answerscope/internal/brand"
	"github.com/hyperifyio/answerscope/internal/serp"
)

// promptSchema is the literal JSON shape the model is asked to return. The
// normalizer accepts anything, but showing the exact shape keeps well-behaved
// models on the happy path.
const promptSchema = `{
  "scores": {
    "visibility": 0,
    "content": 0,
    "technical": 0,
    "visual": 0
  },
  "sentiment": {
    "label": "Neutral",
    "score": 0
  },
  "market_intel": {
    "top_competitor_found": "",
    "why_they_won": "",
    "competitor_threat_level": "Medium"
  },
  "gap_analysis": {
    "missing_keywords": [""],
    "content_gaps": [""]
  },
  "technical_audit": [
    {
      "check": "",
      "status": "pass",
      "evidence": ""
    }
  ],
  "action_plan": [
    {
      "priority": "High",
      "owner_hint": "SEO Manager",
      "title": "",
      "step_by_step": [""],
      "success_metric": "",
      "why_this_matters": "",
      "evidence_reference": "",
      "eta_days": 14
    }
  ],
  "recommended_playbook": [
    {
      "title": "",
      "owner_hint": "",
      "reason": ""
    }
  ],
  "executive_summary": ["", "", "", ""],
  "diagnostics": [
    {
      "finding": "INFO: ...",
      "evidence": ""
    }
  ],
  "what_is_working": [""],
  "what_is_missing": [""],
  "competitor_analysis": {
    "wins": [""],
    "losses": [""]
  },
  "keyword_gaps": [""]
}`

// BuildPrompt assembles the single-shot analysis prompt from the brand
// profile, the search evidence, and the cleaned website text.
func BuildPrompt(b brand.Context, overview serp.Context, websiteText string) string {
	competitors, err := json.Marshal(b.Competitors)
	if err != nil || b.Competitors == nil {
		competitors = []byte("[]")
	}

	var sb strings.Builder
	sb.WriteString("You are AnswerScope AI's senior GEO analyst.\n")
	sb.WriteString("Return exactly one JSON object and nothing else.\n\n")

	sb.WriteString("Critical output rules:\n")
	sb.WriteString("- Language: English only.\n")
	sb.WriteString("- No markdown, no code fences, no explanation outside JSON.\n")
	sb.WriteString("- Never use these words in output: mock data, simulation, dummy.\n")
	sb.WriteString("- Keep every line concise for a SaaS dashboard (short, action-focused), but preserve practical guidance.\n")
	sb.WriteString("- Scores must be integers 0-100 and should avoid extreme 0/100 unless evidence is overwhelming.\n")
	sb.WriteString("- Recommendations must be useful: every action requires rationale and evidence reference.\n\n")

	sb.WriteString("Reasoning policy:\n")
	sb.WriteString("- Use provided search context and website content as primary evidence.\n")
	sb.WriteString("- You may use model knowledge only as inference when evidence is incomplete.\n")
	sb.WriteString("- Any inferred claim must be explicit in diagnostics evidence with confidence label.\n\n")

	sb.WriteString("Input:\n")
	fmt.Fprintf(&sb, "- brand_name: %s\n", b.Name)
	fmt.Fprintf(&sb, "- keyword: %s\n", b.Keyword)
	fmt.Fprintf(&sb, "- brand_category: %s\n", b.Category)
	fmt.Fprintf(&sb, "- known_competitors: %s\n", competitors)
	fmt.Fprintf(&sb, "- search_source_type: %s\n", overview.SourceType)
	fmt.Fprintf(&sb, "- search_fetch_mode: %s\n", overview.FetchMode)
	fmt.Fprintf(&sb, "- search_confidence: %s\n", overview.Confidence)
	fmt.Fprintf(&sb, "- search_context: %s\n", overview.Text)
	fmt.Fprintf(&sb, "- website_clean_text: %s\n\n", websiteText)

	sb.WriteString("Return this exact schema (all keys required):\n")
	sb.WriteString(promptSchema)
	sb.WriteString("\n")
	return sb.String()
}
