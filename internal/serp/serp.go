package serp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Source types carried by a Context, in rough order of evidence strength.
const (
	SourceAIOverview       = "ai_overview"
	SourceAnswerBox        = "answer_box"
	SourceKnowledgeGraph   = "knowledge_graph"
	SourceOrganic          = "organic"
	SourceShoppingGraph    = "shopping_graph"
	SourceLocalPack        = "local_pack"
	SourceRelatedQuestions = "related_questions"
	SourceSynthetic        = "synthetic"
	SourceUnavailable      = "unavailable"
	SourceError            = "error"
	SourceNone             = "none"
)

// Fetch modes describe how the winning signal was obtained.
const (
	ModeEmbedded          = "embedded"
	ModePageTokenFollowup = "page_token_followup"
	ModeCategoryEcommerce = "category_ecommerce"
	ModeCategoryLocal     = "category_local"
	ModeCategorySaaS      = "category_saas"
	ModeSynthetic         = "synthetic"
	ModeWebsiteOnly       = "website_only"
	ModeNone              = "none"
)

// Confidence levels attached to a Context.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Citation is one source reference attached to a search context.
type Citation struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Domain   string `json:"domain"`
}

// Context is the search-engine evidence handed to the analysis prompt. Every
// provider result, including degraded fallbacks, is expressed as a Context;
// callers never see an error.
type Context struct {
	Text       string     `json:"text"`
	SourceType string     `json:"source_type"`
	FetchMode  string     `json:"fetch_mode"`
	Confidence string     `json:"confidence"`
	Citations  []Citation `json:"citations"`
}

// Provider fetches search context for a keyword. Implementations degrade to a
// fallback Context on any upstream failure rather than returning errors.
type Provider interface {
	FetchContext(ctx context.Context, keyword, category string) Context
	Name() string
}

// FallbackText is the synthesized sentence used when no search signal is
// available, keeping downstream prompts anchored to the keyword.
func FallbackText(keyword string) string {
	return fmt.Sprintf("Search context unavailable for '%s'. Proceeding with website-first GEO audit.", keyword)
}

// Fallback builds the degraded Context for the given source type.
func Fallback(keyword, sourceType, fetchMode string) Context {
	return Context{
		Text:       FallbackText(keyword),
		SourceType: sourceType,
		FetchMode:  fetchMode,
		Confidence: ConfidenceLow,
	}
}

// Synthetic returns the deterministic offline Context.
func Synthetic(keyword string) Context {
	return Fallback(keyword, SourceSynthetic, ModeSynthetic)
}

// Offline is a Provider that never touches the network: every request yields
// the deterministic synthetic Context. Selected for demo runs and tests via
// the mock-search configuration switch.
type Offline struct{}

func (Offline) Name() string { return "synthetic" }

func (Offline) FetchContext(_ context.Context, keyword, _ string) Context {
	return Synthetic(keyword)
}

// --- dynamic JSON helpers -------------------------------------------------
//
// Upstream responses are sprawling, loosely specified JSON; the extractors
// below work over decoded any values and treat every shape mismatch as
// absence.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// stringify renders scalar JSON values as display text; nil and containers
// render empty.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// firstString returns the first non-empty stringified value among keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(stringify(m[k])); s != "" {
			return s
		}
	}
	return ""
}

// cleanJoin joins trimmed non-empty parts with single spaces.
func cleanJoin(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}
