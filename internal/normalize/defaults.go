package normalize

// Default returns the full fallback Analysis used when the model payload is
// unparseable or not an object. The sanitized raw text is echoed for
// diagnostic traceability.
func Default(raw string) Analysis {
	scores := Pillars{
		Visibility: DefaultVisibility,
		Content:    DefaultContent,
		Technical:  DefaultTechnical,
		Visual:     DefaultVisual,
	}
	sentiment := Sentiment{Label: "Neutral", Score: 62}
	actionPlan := defaultActionPlan()
	gapAnalysis := GapAnalysis{
		MissingKeywords: []string{},
		ContentGaps: []string{
			"Evidence density for query entities is limited.",
			"AI-facing structure could be improved with concise lists and tables.",
		},
	}
	marketIntel := MarketIntel{
		TopCompetitorFound:    "Not clearly identified",
		WhyTheyWon:            "Competitor signal strength could not be reliably determined from available context.",
		CompetitorThreatLevel: "Medium",
	}

	return Analysis{
		Visibility: scores.Visibility,
		Content:    scores.Content,
		Technical:  scores.Technical,
		Visual:     scores.Visual,

		Scores:       scores,
		ScoreWeights: DefaultWeights,
		Sentiment:    sentiment,
		MarketIntel:  marketIntel,
		GapAnalysis:  gapAnalysis,

		TechnicalAudit:      defaultTechnicalAudit(),
		ActionPlan:          actionPlan,
		RecommendedPlaybook: buildPlaybook(actionPlan),
		Charts:              buildCharts(scores, sentiment, actionPlan, 0),
		ExecutiveSummary:    defaultExecutiveSummary(),
		Language:            "en",
		Diagnostics: []Diagnostic{{
			Finding:  "WARNING: Model output was invalid or unavailable.",
			Evidence: "Fallback-safe structured payload applied.",
		}},

		WhatIsWorking:      []string{},
		WhatIsMissing:      gapAnalysis.ContentGaps,
		CompetitorAnalysis: CompetitorAnalysis{Wins: []string{marketIntel.WhyTheyWon}, Losses: []string{}},
		KeywordGaps:        gapAnalysis.MissingKeywords,
		Actions:            toLegacyActions(actionPlan),

		Raw: sanitizeText(raw, rawEchoMaxChars),
	}
}

func defaultTechnicalAudit() []AuditItem {
	return []AuditItem{
		{
			Check:    "Schema.org Product",
			Status:   "warn",
			Evidence: "Schema validation requires stronger on-page structured data evidence.",
		},
		{
			Check:    "Schema.org Organization",
			Status:   "warn",
			Evidence: "Organization-level structured data was not clearly confirmed in extracted content.",
		},
		{
			Check:    "Schema.org FAQPage",
			Status:   "warn",
			Evidence: "FAQ intent signals were weak in extracted content.",
		},
	}
}

func defaultActionPlan() []Action {
	return []Action{{
		Priority:  "Medium",
		OwnerHint: "SEO Manager",
		Title:     "Build entity-complete section for target keyword",
		StepByStep: []string{
			"Add a dedicated section covering key entities from AI answers.",
			"Use list/table formatting for faster model extraction.",
		},
		SuccessMetric:     "Improved visibility score in next scan.",
		WhyThisMatters:    "Reduces mismatch between user query intent and page coverage.",
		EvidenceReference: "Current scan indicates weak structured evidence for core entities.",
		EtaDays:           14,
	}}
}

func defaultExecutiveSummary() []string {
	return []string{
		"Visibility performance is constrained by weak evidence depth in current content.",
		"Primary risk is competitor clarity in AI summaries.",
		"Highest leverage move is structured, entity-complete content blocks.",
		"Expected result is stronger citation eligibility in upcoming scans.",
	}
}
