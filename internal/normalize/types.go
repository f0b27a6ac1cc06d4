package normalize

// Pillars carries the four sub-scores of the answerability composite.
type Pillars struct {
	Visibility int `json:"visibility"`
	Content    int `json:"content"`
	Technical  int `json:"technical"`
	Visual     int `json:"visual"`
}

// Weights is the fixed pillar weighting published alongside the scores.
type Weights struct {
	Visibility int `json:"visibility"`
	Content    int `json:"content"`
	Technical  int `json:"technical"`
	Visual     int `json:"visual"`
}

// DefaultWeights is the published visibility/content/technical/visual split.
var DefaultWeights = Weights{Visibility: 40, Content: 30, Technical: 20, Visual: 10}

// Sentiment is the normalized brand sentiment reading.
type Sentiment struct {
	Label string `json:"label"` // Positive, Neutral, or Negative
	Score int    `json:"score"`
}

// MarketIntel summarizes the competitive read of the search context.
type MarketIntel struct {
	TopCompetitorFound    string `json:"top_competitor_found"`
	WhyTheyWon            string `json:"why_they_won"`
	CompetitorThreatLevel string `json:"competitor_threat_level"` // Low, Medium, High
}

// GapAnalysis lists missing keywords and content gaps.
type GapAnalysis struct {
	MissingKeywords []string `json:"missing_keywords"`
	ContentGaps     []string `json:"content_gaps"`
}

// AuditItem is one technical-audit check result.
type AuditItem struct {
	Check    string `json:"check"`
	Status   string `json:"status"` // pass, warn, or fail
	Evidence string `json:"evidence"`
}

// Action is one prioritized recommendation.
type Action struct {
	Priority          string   `json:"priority"` // High, Medium, or Low
	OwnerHint         string   `json:"owner_hint"`
	Title             string   `json:"title"`
	StepByStep        []string `json:"step_by_step"`
	SuccessMetric     string   `json:"success_metric"`
	WhyThisMatters    string   `json:"why_this_matters"`
	EvidenceReference string   `json:"evidence_reference"`
	EtaDays           int      `json:"eta_days"`
}

// PlaybookItem is a condensed action for the recommended playbook strip.
type PlaybookItem struct {
	Title     string `json:"title"`
	OwnerHint string `json:"owner_hint"`
	Reason    string `json:"reason"`
}

// Diagnostic is one labelled finding with its supporting evidence.
type Diagnostic struct {
	Finding  string `json:"finding"`
	Evidence string `json:"evidence"`
}

// Chart is a fixed-shape labels/values payload for dashboard rendering.
type Chart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Charts bundles the four dashboard chart payloads.
type Charts struct {
	PillarBar             Chart `json:"pillar_bar"`
	SentimentDonut        Chart `json:"sentiment_donut"`
	PriorityStack         Chart `json:"priority_stack"`
	AuthorityVsVisibility Chart `json:"authority_vs_visibility"`
}

// LegacyAction mirrors the flattened action shape older dashboard views read.
type LegacyAction struct {
	Priority       string `json:"priority"`
	OwnerHint      string `json:"owner_hint"`
	Action         string `json:"action"`
	SuccessMetric  string `json:"success_metric"`
	WhyThisMatters string `json:"why_this_matters"`
}

// CompetitorAnalysis is the legacy wins/losses mirror.
type CompetitorAnalysis struct {
	Wins   []string `json:"wins"`
	Losses []string `json:"losses"`
}

// Analysis is the stable output contract: every field is always present and
// within bounds regardless of what the model returned. Top-level pillar
// mirrors and the legacy fields exist for dashboard backward compatibility.
type Analysis struct {
	Visibility int `json:"visibility"`
	Content    int `json:"content"`
	Technical  int `json:"technical"`
	Visual     int `json:"visual"`

	Scores       Pillars     `json:"scores"`
	ScoreWeights Weights     `json:"score_weights"`
	Sentiment    Sentiment   `json:"sentiment"`
	MarketIntel  MarketIntel `json:"market_intel"`
	GapAnalysis  GapAnalysis `json:"gap_analysis"`

	TechnicalAudit      []AuditItem    `json:"technical_audit"`
	ActionPlan          []Action       `json:"action_plan"`
	RecommendedPlaybook []PlaybookItem `json:"recommended_playbook"`
	Charts              Charts         `json:"charts"`
	ExecutiveSummary    []string       `json:"executive_summary"`
	Language            string         `json:"language"`
	Diagnostics         []Diagnostic   `json:"diagnostics"`

	WhatIsWorking      []string           `json:"what_is_working"`
	WhatIsMissing      []string           `json:"what_is_missing"`
	CompetitorAnalysis CompetitorAnalysis `json:"competitor_analysis"`
	KeywordGaps        []string           `json:"keyword_gaps"`
	Actions            []LegacyAction     `json:"actions"`

	// Raw echoes the sanitized model text when it could not be parsed,
	// for diagnostic traceability.
	Raw string `json:"raw"`
}
