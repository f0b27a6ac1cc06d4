package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/answerscope/internal/brand"
	"github.com/hyperifyio/answerscope/internal/cache"
	"github.com/hyperifyio/answerscope/internal/extract"
	"github.com/hyperifyio/answerscope/internal/llm"
	"github.com/hyperifyio/answerscope/internal/normalize"
	"github.com/hyperifyio/answerscope/internal/score"
	"github.com/hyperifyio/answerscope/internal/serp"
)

// PageFetcher renders a URL to HTML. Implementations fold failures into an
// HTML error stub rather than returning an error.
type PageFetcher interface {
	Page(ctx context.Context, url string) string
}

// Pipeline wires the evidence gatherers, the model client, and the scoring
// formulas into the single scan entry point. All components degrade rather
// than fail, so Run always produces a complete Result.
type Pipeline struct {
	Search    serp.Provider
	Fetcher   PageFetcher
	Model     llm.Client
	ModelName string
	// Cache, when non-nil, reuses model responses across identical prompts.
	Cache   *cache.LLMCache
	Extract extract.Options
	// OnStage, when set, is called as the run enters each stage. Used by the
	// background job runner to publish progress.
	OnStage func(stage string)
}

// Stage names reported through OnStage, in run order.
const (
	StageSearching = "searching"
	StageFetching  = "fetching"
	StageAnalyzing = "analyzing"
	StageScoring   = "scoring"
)

func (p *Pipeline) stage(name string) {
	if p.OnStage != nil {
		p.OnStage(name)
	}
}

// Request identifies one scan.
type Request struct {
	Keyword string
	URL     string
	Brand   brand.Context
}

// Result is the complete output of one scan, shaped for persistence and
// dashboard consumption.
type Result struct {
	Keyword string `json:"keyword"`
	URL     string `json:"url"`

	LASScore          int `json:"las_score"`
	TrustScore        int `json:"trust_score"`
	CitationAuthority int `json:"citation_authority"`

	Analysis         normalize.Analysis `json:"analysis"`
	AnalysisLanguage string             `json:"analysis_language"`

	AIOverviewText    string          `json:"ai_overview_text"`
	AIOverviewPreview string          `json:"ai_overview_preview"`
	Overview          serp.Context    `json:"overview_meta"`
	Citations         []serp.Citation `json:"citations"`

	Extraction  extract.Cleaned `json:"extraction"`
	HTMLPreview string          `json:"html_preview"`
}

// Run executes the full scan: gather search context, fetch and extract the
// page, call the model, normalize its output, and compute the derived
// scores. Upstream failures degrade into placeholder evidence; only context
// cancellation between stages can abort the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	log.Info().Str("keyword", req.Keyword).Str("url", req.URL).Msg("starting scan pipeline")

	b := req.Brand.Normalize()
	b.Keyword = req.Keyword

	p.stage(StageSearching)
	overview := p.searchContext(ctx, req.Keyword, b.Category)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	p.stage(StageFetching)
	html := ""
	if p.Fetcher != nil {
		html = p.Fetcher.Page(ctx, req.URL)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cleaned := extract.Clean(html, p.Extract)
	log.Info().
		Int("clean_chars", cleaned.CleanCharCount).
		Int("source_chars", cleaned.SourceCharCount).
		Str("method", cleaned.Method).
		Msg("cleaned page HTML")

	p.stage(StageAnalyzing)
	analysis := p.analyze(ctx, overview, cleaned, b)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	p.stage(StageScoring)
	las := score.Answerability(analysis.Scores)
	trust := score.Trust(html, overview.Citations, analysis.TechnicalAudit)

	// The authority/visibility pair is only final once the trust score exists.
	analysis.Charts.AuthorityVsVisibility.Labels = []string{"Citation Authority", "Visibility"}
	analysis.Charts.AuthorityVsVisibility.Values = []int{trust, analysis.Visibility}

	log.Info().Int("las", las).Int("trust", trust).Msg("scan scored")

	return Result{
		Keyword:           req.Keyword,
		URL:               req.URL,
		LASScore:          las,
		TrustScore:        trust,
		CitationAuthority: trust,
		Analysis:          analysis,
		AnalysisLanguage:  analysis.Language,
		AIOverviewText:    overview.Text,
		AIOverviewPreview: preview(overview.Text, 150),
		Overview:          overview,
		Citations:         overview.Citations,
		Extraction:        cleaned,
		HTMLPreview:       preview(html, 300),
	}, nil
}

func (p *Pipeline) searchContext(ctx context.Context, keyword, category string) serp.Context {
	if p.Search == nil {
		return serp.Fallback(keyword, serp.SourceUnavailable, serp.ModeWebsiteOnly)
	}
	return p.Search.FetchContext(ctx, keyword, category)
}

// preview returns the first n runes with a trailing ellipsis marker.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
