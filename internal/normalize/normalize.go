package normalize

import (
	"fmt"
	"strings"
)

// Pillar fallback scores. Hand-tuned values kept as literal constants.
const (
	DefaultVisibility = 35
	DefaultContent    = 45
	DefaultTechnical  = 40
	DefaultVisual     = 30

	defaultSentimentScore = 60
	defaultEtaDays        = 30
	rawEchoMaxChars       = 5000
)

// Payload repairs and normalizes raw model output into the full Analysis
// contract. It never fails: unparseable or non-object payloads yield the
// hardcoded default Analysis with the sanitized raw text echoed back.
func Payload(raw string) Analysis {
	parsed, ok := Repair(raw)
	if !ok {
		return Default(raw)
	}
	return FromParsed(parsed, raw)
}

// FromParsed normalizes an already-decoded JSON value. Only object payloads
// go through field-by-field reconciliation; lists, scalars, and null all
// collapse to the default Analysis.
func FromParsed(parsed any, raw string) Analysis {
	m := asMap(parsed)
	if m == nil {
		return Default(raw)
	}

	rawScores := asMap(m["scores"])
	scores := Pillars{
		Visibility: clampScore(scoreSource(rawScores, m, "visibility"), DefaultVisibility),
		Content:    clampScore(scoreSource(rawScores, m, "content"), DefaultContent),
		Technical:  clampScore(scoreSource(rawScores, m, "technical"), DefaultTechnical),
		Visual:     clampScore(scoreSource(rawScores, m, "visual"), DefaultVisual),
	}

	sentiment := normalizeSentiment(m["sentiment"])
	marketIntel := normalizeMarketIntel(m["market_intel"], m, scores.Visibility)
	gapAnalysis := normalizeGapAnalysis(m["gap_analysis"], m)
	technicalAudit := normalizeTechnicalAudit(m["technical_audit"])
	actionPlan := normalizeActionPlan(orValue(m["action_plan"], m["actions"]))
	diagnostics := normalizeDiagnostics(m["diagnostics"])
	executiveSummary := normalizeExecutiveSummary(m["executive_summary"])

	whatIsWorking := coerceStringList(m["what_is_working"], 8, 220)
	whatIsMissing := coerceStringList(orValue(m["what_is_missing"], listAny(gapAnalysis.ContentGaps)), 8, 220)

	legacyComp := asMap(m["competitor_analysis"])
	competitorWins := coerceStringList(valueOf(legacyComp, "wins"), 5, 220)
	if marketIntel.WhyTheyWon != "" && len(competitorWins) == 0 {
		competitorWins = []string{marketIntel.WhyTheyWon}
	}
	competitorLosses := coerceStringList(valueOf(legacyComp, "losses"), 5, 220)

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

		TechnicalAudit:      technicalAudit,
		ActionPlan:          actionPlan,
		RecommendedPlaybook: buildPlaybook(actionPlan),
		Charts:              buildCharts(scores, sentiment, actionPlan, 0),
		ExecutiveSummary:    executiveSummary,
		Language:            "en",
		Diagnostics:         diagnostics,

		WhatIsWorking:      emptyAsList(whatIsWorking),
		WhatIsMissing:      emptyAsList(whatIsMissing),
		CompetitorAnalysis: CompetitorAnalysis{Wins: emptyAsList(competitorWins), Losses: emptyAsList(competitorLosses)},
		KeywordGaps:        emptyAsList(gapAnalysis.MissingKeywords),
		Actions:            toLegacyActions(actionPlan),

		Raw: sanitizeText(raw, rawEchoMaxChars),
	}
}

// scoreSource resolves a pillar value: nested scores object first, then the
// legacy top-level key.
func scoreSource(scores, parsed map[string]any, key string) any {
	if scores != nil {
		if v, ok := scores[key]; ok {
			return v
		}
	}
	if v, ok := parsed[key]; ok {
		return v
	}
	return nil
}

func normalizeSentiment(raw any) Sentiment {
	m := asMap(raw)
	if s, ok := raw.(string); ok {
		m = map[string]any{"label": s, "score": float64(defaultSentimentScore)}
	}

	label := strings.ToLower(sanitizeText(valueOf(m, "label"), 20))
	switch label {
	case "positive", "neutral", "negative":
	default:
		label = "neutral"
	}

	score := defaultSentimentScore
	if m != nil {
		if v, ok := m["score"]; ok {
			score = clampScore(v, defaultSentimentScore)
		}
	}
	return Sentiment{Label: titleCase(label), Score: score}
}

func normalizeMarketIntel(raw any, parsed map[string]any, visibility int) MarketIntel {
	m := asMap(raw)

	legacyWins := coerceStringList(valueOf(asMap(parsed["competitor_analysis"]), "wins"), 3, 220)
	legacyWin := ""
	if len(legacyWins) > 0 {
		legacyWin = legacyWins[0]
	}

	topCompetitor := sanitizeText(
		orValue(valueOf(m, "top_competitor_found"), orValue(valueOf(m, "top_competitor"), valueOf(m, "competitor"))),
		120,
	)
	whyTheyWon := sanitizeText(
		orValue(valueOf(m, "why_they_won"), orValue(valueOf(m, "why_winning"), legacyWin)),
		320,
	)

	threat := strings.ToLower(sanitizeText(valueOf(m, "competitor_threat_level"), 20))
	switch threat {
	case "low", "medium", "high":
	default:
		// Threat defaults track visibility: strong visibility implies a
		// weaker competitive threat.
		switch {
		case visibility >= 70:
			threat = "low"
		case visibility >= 40:
			threat = "medium"
		default:
			threat = "high"
		}
	}

	if topCompetitor == "" {
		topCompetitor = "Not clearly identified"
	}
	if whyTheyWon == "" {
		whyTheyWon = "Insufficient direct competitor evidence in current snapshot."
	}
	return MarketIntel{
		TopCompetitorFound:    topCompetitor,
		WhyTheyWon:            whyTheyWon,
		CompetitorThreatLevel: titleCase(threat),
	}
}

func normalizeGapAnalysis(raw any, parsed map[string]any) GapAnalysis {
	m := asMap(raw)
	missing := coerceStringList(orValue(valueOf(m, "missing_keywords"), parsed["keyword_gaps"]), 10, 140)
	gaps := coerceStringList(orValue(valueOf(m, "content_gaps"), parsed["what_is_missing"]), 10, 220)
	return GapAnalysis{
		MissingKeywords: emptyAsList(missing),
		ContentGaps:     emptyAsList(gaps),
	}
}

func normalizeTechnicalAudit(raw any) []AuditItem {
	var out []AuditItem
	for _, item := range asList(raw) {
		var check, status, evidence string
		if m := asMap(item); m != nil {
			check = sanitizeText(orValue(m["check"], m["name"]), 100)
			status = strings.ToLower(sanitizeText(orValue(m["status"], "warn"), 20))
			evidence = sanitizeText(orValue(m["evidence"], m["reason"]), 300)
		} else {
			check = sanitizeText(item, 100)
			status = "warn"
		}

		if check == "" {
			continue
		}
		switch status {
		case "pass", "warn", "fail":
		default:
			status = "warn"
		}
		if evidence == "" {
			evidence = "No explicit evidence provided."
		}
		out = append(out, AuditItem{Check: check, Status: status, Evidence: evidence})
		if len(out) >= 10 {
			break
		}
	}

	if len(out) == 0 {
		out = defaultTechnicalAudit()
	}
	return out
}

func normalizeActionPlan(raw any) []Action {
	items := asList(raw)
	if m := asMap(raw); m != nil {
		items = []any{m}
	}

	var actions []Action
	for idx, item := range items {
		var a Action
		if m := asMap(item); m != nil {
			a.Priority = titleCase(sanitizeText(orValue(m["priority"], "Medium"), 20))
			switch a.Priority {
			case "High", "Medium", "Low":
			default:
				a.Priority = "Medium"
			}

			a.OwnerHint = sanitizeText(orValue(m["owner_hint"], orValue(m["owner"], "SEO Manager")), 40)
			a.Title = sanitizeText(orValue(m["title"], orValue(m["action"], fmt.Sprintf("Action %d", idx+1))), 140)

			steps := m["step_by_step"]
			if s, ok := steps.(string); ok {
				steps = []any{s}
			}
			if _, ok := steps.([]any); !ok {
				steps = []any{orValue(m["action"], orValue(m["description"], a.Title))}
			}
			a.StepByStep = coerceStringList(steps, 6, 200)

			a.SuccessMetric = sanitizeText(orValue(m["success_metric"], "Increase AI citation share for target keyword."), 160)
			a.WhyThisMatters = sanitizeText(orValue(m["why_this_matters"], orValue(m["rationale"], "Improves evidence alignment with AI answer intent.")), 220)
			a.EvidenceReference = sanitizeText(orValue(m["evidence_reference"], orValue(m["evidence"], "Derived from search + on-page content comparison.")), 220)
			eta := any(defaultEtaDays)
			if v, ok := m["eta_days"]; ok {
				eta = v
			}
			a.EtaDays = clampInt(eta, defaultEtaDays, 1, 180)
		} else {
			a = Action{
				Priority:          "Medium",
				OwnerHint:         "SEO Manager",
				Title:             fmt.Sprintf("Action %d", idx+1),
				StepByStep:        coerceStringList([]any{item}, 3, 200),
				SuccessMetric:     "Increase AI citation share for target keyword.",
				WhyThisMatters:    "Improves evidence alignment with AI answer intent.",
				EvidenceReference: "Derived from search + on-page content comparison.",
				EtaDays:           defaultEtaDays,
			}
		}

		if len(a.StepByStep) == 0 {
			a.StepByStep = []string{"Add evidence-backed content for target intent."}
		}
		actions = append(actions, a)
		if len(actions) >= 8 {
			break
		}
	}

	if len(actions) == 0 {
		actions = defaultActionPlan()
	}
	return actions
}

func normalizeDiagnostics(raw any) []Diagnostic {
	var out []Diagnostic
	for _, item := range asList(raw) {
		var finding, evidence string
		if m := asMap(item); m != nil {
			finding = sanitizeText(orValue(m["finding"], "INFO: Diagnostic"), 220)
			evidence = sanitizeText(m["evidence"], 320)
		} else {
			finding = sanitizeText(item, 220)
		}
		if finding == "" {
			continue
		}
		if !strings.Contains(finding, ":") {
			finding = "INFO: " + finding
		}
		out = append(out, Diagnostic{Finding: finding, Evidence: evidence})
		if len(out) >= 10 {
			break
		}
	}
	if len(out) == 0 {
		out = []Diagnostic{{
			Finding:  "INFO: Analysis completed with fallback-safe schema.",
			Evidence: "Structured JSON was normalized for dashboard rendering.",
		}}
	}
	return out
}

func normalizeExecutiveSummary(raw any) []string {
	lines := coerceStringList(raw, 4, 220)
	if len(lines) == 0 {
		lines = defaultExecutiveSummary()
	}
	if len(lines) > 4 {
		lines = lines[:4]
	}
	return lines
}

func buildPlaybook(actions []Action) []PlaybookItem {
	var out []PlaybookItem
	for _, a := range actions {
		reason := truncate(a.WhyThisMatters, 220)
		if reason == "" {
			reason = "Improves GEO signal quality for AI answers."
		}
		out = append(out, PlaybookItem{
			Title:     truncate(a.Title, 140),
			OwnerHint: truncate(a.OwnerHint, 40),
			Reason:    reason,
		})
		if len(out) >= 5 {
			break
		}
	}
	return out
}

func toLegacyActions(actions []Action) []LegacyAction {
	out := make([]LegacyAction, 0, len(actions))
	for _, a := range actions {
		action := ""
		if len(a.StepByStep) > 0 {
			action = truncate(a.StepByStep[0], 220)
		}
		if action == "" {
			action = truncate(a.Title, 220)
		}
		out = append(out, LegacyAction{
			Priority:       truncate(a.Priority, 20),
			OwnerHint:      truncate(a.OwnerHint, 50),
			Action:         action,
			SuccessMetric:  truncate(a.SuccessMetric, 160),
			WhyThisMatters: truncate(a.WhyThisMatters, 220),
		})
	}
	return out
}

// valueOf reads a key from a possibly nil map.
func valueOf(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

// listAny widens a string slice back to a decoded-JSON shaped list.
func listAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, s := range items {
		out = append(out, s)
	}
	return out
}

// emptyAsList keeps list fields JSON-encoded as [] rather than null.
func emptyAsList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
