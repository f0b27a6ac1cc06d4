package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/answerscope/internal/sections"
)

// Extraction method identifiers recorded in Cleaned.Method.
const (
	MethodDensity     = "density"
	MethodReadability = "readability"
	MethodDOMFallback = "dom_fallback"
	MethodEmpty       = "empty"
)

const (
	// DefaultMaxChars bounds the cleaned text handed to the model prompt.
	DefaultMaxChars = 18000
	// minAcceptChars is the quality bar a tier must clear to win outright.
	minAcceptChars = 150
	// rawFallbackChars caps the raw-HTML last resort when every tier fails.
	rawFallbackChars = 5000
)

// boilerplateRe matches class/id attribute values of navigational chrome.
var boilerplateRe = regexp.MustCompile(`(?i)menu|nav|breadcrumb|footer|header|sidebar|cookie|banner`)

// boilerplateTags are removed wholesale before text collection.
var boilerplateTags = []string{"script", "style", "svg", "footer", "nav", "noscript", "header", "aside", "form"}

// Options configures extraction. The zero value selects defaults.
type Options struct {
	// MaxChars bounds the final cleaned text. Zero means DefaultMaxChars.
	MaxChars int
}

// Cleaned is the result of running raw HTML through the extraction chain.
type Cleaned struct {
	CleanText       string `json:"clean_text"`
	Method          string `json:"extraction_method"`
	SourceCharCount int    `json:"source_char_count"`
	CleanCharCount  int    `json:"clean_char_count"`
}

// Clean turns raw HTML into bounded plain text through an ordered fallback
// chain: density walker, readability-style main-content extraction, then a
// manual DOM walk. The first tier whose candidate clears minAcceptChars wins;
// otherwise the first non-empty candidate is kept. When every tier fails the
// raw input is truncated as a last resort so the pipeline always has evidence
// text to work with.
func Clean(rawHTML string, opts Options) Cleaned {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	if rawHTML == "" {
		return Cleaned{Method: MethodEmpty}
	}

	tiers := []struct {
		method string
		fn     func(string) string
	}{
		{MethodDensity, densityExtract},
		{MethodReadability, readabilityExtract},
		{MethodDOMFallback, domFallbackExtract},
	}

	method := MethodDOMFallback
	var text string
	for _, tier := range tiers {
		candidate := tier.fn(rawHTML)
		if utf8.RuneCountInString(strings.TrimSpace(candidate)) >= minAcceptChars {
			method = tier.method
			text = candidate
			break
		}
		if candidate != "" && text == "" {
			method = tier.method
			text = candidate
		}
	}
	if text == "" {
		text = rawHTML
		if utf8.RuneCountInString(text) > rawFallbackChars {
			text = string([]rune(text)[:rawFallbackChars])
		}
	}

	// Char counts are rune-based so multibyte prose is budgeted the same way
	// it is displayed.
	clean := sections.Prioritize(text, maxChars)
	return Cleaned{
		CleanText:       clean,
		Method:          method,
		SourceCharCount: utf8.RuneCountInString(rawHTML),
		CleanCharCount:  utf8.RuneCountInString(clean),
	}
}

// readabilityExtract locates the densest content root (main, article, or body)
// and returns its block text after boilerplate removal.
func readabilityExtract(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	root := contentRoot(doc)
	if root == nil {
		return ""
	}
	removeBoilerplate(root)

	var b strings.Builder
	root.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		// Nested containers would duplicate text of their children.
		if s.Children().Filter("p, li").Length() > 0 {
			return
		}
		text := collapseSpaces(s.Text())
		if text == "" {
			return
		}
		b.WriteString(text)
		b.WriteString("\n")
	})
	out := strings.TrimSpace(b.String())
	if out != "" {
		return out
	}
	return collapseLines(root.Text())
}

// contentRoot prefers whichever of main/article holds the most paragraph
// text, falling back to body.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	best := doc.Find("body").First()
	if best.Length() == 0 {
		return nil
	}
	bestLen := 0
	doc.Find("main, article, [role=main]").Each(func(_ int, s *goquery.Selection) {
		n := 0
		s.Find("p").Each(func(_ int, p *goquery.Selection) {
			n += len(strings.TrimSpace(p.Text()))
		})
		if n > bestLen {
			best = s
			bestLen = n
		}
	})
	return best
}

// domFallbackExtract is the manual last tier: strip boilerplate, then collect
// the title, h1/h2 headings, and substantial paragraph or list-item text.
func domFallbackExtract(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	removeBoilerplate(doc.Selection)

	var blocks []string
	if title := collapseSpaces(doc.Find("title").First().Text()); title != "" {
		blocks = append(blocks, title)
	}
	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpaces(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpaces(s.Text())
		if len(text) >= 30 {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return collapseLines(doc.Text())
	}
	return strings.Join(blocks, "\n")
}

// removeBoilerplate drops chrome elements by tag name and by class/id marker.
func removeBoilerplate(root *goquery.Selection) {
	root.Find(strings.Join(boilerplateTags, ", ")).Remove()
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		combined := strings.TrimSpace(class + " " + id)
		if combined != "" && boilerplateRe.MatchString(combined) {
			s.Remove()
		}
	})
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseLines normalizes free-walked text into trimmed non-empty lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if t := collapseSpaces(line); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}
