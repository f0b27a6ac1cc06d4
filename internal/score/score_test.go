package score

import (
	"testing"

	"github.com/hyperifyio/answerscope/internal/normalize"
	"github.com/hyperifyio/answerscope/internal/serp"
)

func TestAnswerabilityBounds(t *testing.T) {
	if got := Answerability(normalize.Pillars{Visibility: 100, Content: 100, Technical: 100, Visual: 100}); got != 100 {
		t.Fatalf("all-100 LAS = %d, want 100", got)
	}
	if got := Answerability(normalize.Pillars{}); got != 0 {
		t.Fatalf("all-0 LAS = %d, want 0", got)
	}
	if got := Answerability(normalize.Pillars{Visibility: -50, Content: 500, Technical: 0, Visual: 0}); got != 30 {
		t.Fatalf("out-of-range pillars LAS = %d, want 30", got)
	}
}

func TestAnswerabilityWeighting(t *testing.T) {
	// 80*0.4 + 60*0.3 + 40*0.2 + 20*0.1 = 60
	got := Answerability(normalize.Pillars{Visibility: 80, Content: 60, Technical: 40, Visual: 20})
	if got != 60 {
		t.Fatalf("LAS = %d, want 60", got)
	}
}

func TestAnswerabilityRounds(t *testing.T) {
	// 55*0.4 + 55*0.3 + 55*0.2 + 55*0.1 = 55
	if got := Answerability(normalize.Pillars{Visibility: 55, Content: 55, Technical: 55, Visual: 55}); got != 55 {
		t.Fatalf("LAS = %d, want 55", got)
	}
	// 1*0.4 + 1*0.3 + 0 + 0 = 0.7 rounds to 1
	if got := Answerability(normalize.Pillars{Visibility: 1, Content: 1}); got != 1 {
		t.Fatalf("LAS = %d, want 1", got)
	}
}

func TestTrustEmptyInputs(t *testing.T) {
	if got := Trust("", nil, nil); got != 0 {
		t.Fatalf("empty trust = %d, want 0", got)
	}
}

func TestTrustCompositeScenario(t *testing.T) {
	html := `<html><head>
<meta charset="utf-8">
<meta name="description" content="widgets">
<meta property="og:title" content="Widgets">
<script type="application/ld+json">{"@type": "Product"}</script>
</head><body><a href="https://example.com">ref</a></body></html>`

	citations := []serp.Citation{
		{Position: 1, URL: "https://a.com/1", Domain: "a.com"},
		{Position: 2, URL: "https://b.com/1", Domain: "b.com"},
		{Position: 3, URL: "https://c.com/1", Domain: "c.com"},
		{Position: 4, URL: "https://a.com/2", Domain: "a.com"},
	}
	audit := []normalize.AuditItem{
		{Check: "Schema.org Product", Status: "pass", Evidence: "found"},
		{Check: "Canonical URL", Status: "pass", Evidence: "found"}, // not schema-related, no bonus
		{Check: "Schema.org FAQPage", Status: "fail", Evidence: "missing"},
	}

	// https 20 + meta min(15, 3*2)=6 + jsonld min(20, 1*8)=8 +
	// citations min(30, 4*5)=20 + domains min(10, 3*2)=6 + schema pass 5 = 65
	if got := Trust(html, citations, audit); got != 65 {
		t.Fatalf("trust = %d, want 65", got)
	}
}

func TestTrustSignalCaps(t *testing.T) {
	var html string
	for i := 0; i < 20; i++ {
		html += `<meta name="x" content="y">`
		html += `<script type="application/ld+json">{}</script>`
	}
	var citations []serp.Citation
	for i := 0; i < 20; i++ {
		citations = append(citations, serp.Citation{Position: i + 1, Domain: "only.com"})
	}
	// meta capped 15 + jsonld capped 20 + citations capped 30 + one domain 2 = 67
	if got := Trust(html, citations, nil); got != 67 {
		t.Fatalf("trust = %d, want 67", got)
	}
}

func TestTrustClampsAt100(t *testing.T) {
	html := `<html><head>`
	for i := 0; i < 10; i++ {
		html += `<meta name="x" content="y">`
		html += `<script type="application/ld+json">{}</script>`
	}
	html += `</head><body>https://example.com</body></html>`

	var citations []serp.Citation
	for i := 0; i < 10; i++ {
		citations = append(citations, serp.Citation{Position: i + 1, Domain: "d" + string(rune('a'+i)) + ".com"})
	}
	audit := []normalize.AuditItem{
		{Check: "Schema.org Product", Status: "pass"},
		{Check: "Schema.org Organization", Status: "ok"},
		{Check: "Schema.org FAQPage", Status: "pass"},
	}
	if got := Trust(html, citations, audit); got != 100 {
		t.Fatalf("trust = %d, want clamp at 100", got)
	}
}
