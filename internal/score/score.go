// Package score holds the deterministic scoring formulas: the LAS
// answerability composite and the citation/trust authority score. No AI
// calls, no I/O.
package score

import (
	"math"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/answerscope/internal/normalize"
	"github.com/hyperifyio/answerscope/internal/serp"
)

// Pillar weighting of the answerability composite.
const (
	WeightVisibility = 0.40
	WeightContent    = 0.30
	WeightTechnical  = 0.20
	WeightVisual     = 0.10
)

// Trust-score signal caps.
const (
	httpsBonus      = 20
	metaCap         = 15
	jsonLDCap       = 20
	citationCap     = 30
	domainCap       = 10
	schemaPassBonus = 5
	perMetaPoints   = 2
	perJSONLDPoints = 8
	perCitationPts  = 5
	perDomainPoints = 2
)

// Answerability computes the LAS composite from the four pillar scores:
// visibility 40%, content 30%, technical 20%, visual 10%.
func Answerability(p normalize.Pillars) int {
	las := boundPillar(p.Visibility)*WeightVisibility +
		boundPillar(p.Content)*WeightContent +
		boundPillar(p.Technical)*WeightTechnical +
		boundPillar(p.Visual)*WeightVisual
	return clamp(int(math.Round(las)))
}

func boundPillar(v int) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return float64(v)
}

// Trust computes the citation-authority score from additive signals: secure
// reference presence, metadata and JSON-LD density, citation count and domain
// diversity, and schema-related audit passes. Each signal is capped
// independently before summing; the result is clamped to [0,100].
func Trust(rawHTML string, citations []serp.Citation, audit []normalize.AuditItem) int {
	score := 0.0

	if strings.Contains(strings.ToLower(rawHTML), "https://") {
		score += httpsBonus
	}

	metaCount, jsonLDCount := countMarkupSignals(rawHTML)
	score += math.Min(metaCap, float64(metaCount*perMetaPoints))
	score += math.Min(jsonLDCap, float64(jsonLDCount*perJSONLDPoints))

	domains := map[string]struct{}{}
	for _, c := range citations {
		domain := strings.ToLower(strings.TrimSpace(c.Domain))
		if domain != "" {
			domains[domain] = struct{}{}
		}
	}
	score += math.Min(citationCap, float64(len(citations)*perCitationPts))
	score += math.Min(domainCap, float64(len(domains)*perDomainPoints))

	for _, item := range audit {
		check := strings.ToLower(item.Check)
		status := strings.ToLower(item.Status)
		if strings.Contains(check, "schema") && (status == "pass" || status == "ok" || status == "true") {
			score += schemaPassBonus
		}
	}

	return clamp(int(math.Round(score)))
}

// countMarkupSignals tallies meta tags and JSON-LD script blocks. The
// tokenizer tolerates malformed input; counting simply stops at the error.
func countMarkupSignals(rawHTML string) (metaCount, jsonLDCount int) {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return metaCount, jsonLDCount
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		switch string(name) {
		case "meta":
			metaCount++
		case "script":
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if strings.EqualFold(string(key), "type") && strings.EqualFold(strings.TrimSpace(string(val)), "application/ld+json") {
					jsonLDCount++
					break
				}
			}
		}
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
