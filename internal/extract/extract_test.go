package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const richHTML = `<!DOCTYPE html>
<html>
<head><title>Acme Widgets</title><script>var x = 1;</script></head>
<body>
<nav class="menu"><a href="/">Home</a><a href="/shop">Shop</a></nav>
<main>
<h1>Industrial widgets built for continuous operation</h1>
<p>Acme widgets are machined from a single billet and rated for twenty thousand hours of continuous operation in outdoor conditions.</p>
<p>Every unit ships with a calibration certificate and a ten year warranty covering both mechanical and electrical failures.</p>
<p>Replacement parts remain available for fifteen years after a model is discontinued, which keeps long-lived installations serviceable.</p>
</main>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestCleanEmptyInput(t *testing.T) {
	got := Clean("", Options{})
	if got.Method != MethodEmpty {
		t.Fatalf("method = %q, want %q", got.Method, MethodEmpty)
	}
	if got.CleanText != "" || got.SourceCharCount != 0 || got.CleanCharCount != 0 {
		t.Fatalf("empty input should yield zero-value payload, got %+v", got)
	}
}

func TestCleanDensityTierWins(t *testing.T) {
	got := Clean(richHTML, Options{})
	if got.Method != MethodDensity {
		t.Fatalf("method = %q, want %q", got.Method, MethodDensity)
	}
	if !strings.Contains(got.CleanText, "calibration certificate") {
		t.Fatalf("clean text missing paragraph content: %q", got.CleanText)
	}
	if strings.Contains(got.CleanText, "var x = 1") {
		t.Fatalf("script content leaked into clean text: %q", got.CleanText)
	}
	if got.SourceCharCount != len(richHTML) {
		t.Fatalf("source char count = %d, want %d", got.SourceCharCount, len(richHTML))
	}
	if got.CleanCharCount != len(got.CleanText) {
		t.Fatalf("clean char count %d does not match text length %d", got.CleanCharCount, len(got.CleanText))
	}
}

func TestCleanSparseMarkupFallsThrough(t *testing.T) {
	got := Clean("<html><body><div>hi</div></body></html>", Options{})
	if got.Method == MethodDensity || got.Method == MethodEmpty {
		t.Fatalf("sparse markup should fall past the density tier, got method %q", got.Method)
	}
	if !strings.Contains(got.CleanText, "hi") {
		t.Fatalf("expected residual text to survive, got %q", got.CleanText)
	}
}

func TestCleanNonHTMLInput(t *testing.T) {
	// Plain text is not markup; the chain must still produce usable output
	// rather than failing.
	text := "Just a plain sentence with no markup at all, repeated to carry enough weight for the quality bar. "
	got := Clean(strings.Repeat(text, 3), Options{})
	if got.CleanText == "" {
		t.Fatalf("plain text input should survive extraction, got empty")
	}
}

func TestCleanHonorsMaxChars(t *testing.T) {
	got := Clean(richHTML, Options{MaxChars: 100})
	if got.CleanCharCount > 100 {
		t.Fatalf("clean char count %d exceeds configured budget", got.CleanCharCount)
	}
}

func TestCleanCharCountsAreRuneBased(t *testing.T) {
	html := "<html><body><p>" +
		strings.Repeat("Сервис сравнивает характеристики товаров и цены магазинов ежедневно. ", 4) +
		"</p></body></html>"
	got := Clean(html, Options{})
	if got.SourceCharCount != utf8.RuneCountInString(html) {
		t.Fatalf("source char count = %d, want rune count %d", got.SourceCharCount, utf8.RuneCountInString(html))
	}
	if got.CleanCharCount != utf8.RuneCountInString(got.CleanText) {
		t.Fatalf("clean char count = %d, want rune count %d", got.CleanCharCount, utf8.RuneCountInString(got.CleanText))
	}
}

func TestCleanBoilerplateRemoval(t *testing.T) {
	html := `<html><body>
<div class="cookie-banner">Accept all cookies to continue browsing this site today</div>
<article>
<p>The comparison table lists ingress protection ratings for every widget model in the current catalog lineup.</p>
<p>Fasteners are stainless throughout, and every gasket is silicone rather than rubber for temperature stability.</p>
</article>
</body></html>`
	got := Clean(html, Options{})
	if strings.Contains(got.CleanText, "Accept all cookies") {
		t.Fatalf("cookie banner survived extraction: %q", got.CleanText)
	}
	if !strings.Contains(got.CleanText, "ingress protection") {
		t.Fatalf("article content missing: %q", got.CleanText)
	}
}
