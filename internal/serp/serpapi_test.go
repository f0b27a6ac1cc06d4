package serp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serverReturning(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			t.Errorf("api_key missing from query")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestFetchContextMissingKey(t *testing.T) {
	s := &SerpAPI{}
	got := s.FetchContext(context.Background(), "best widgets", "generic")
	if got.SourceType != SourceUnavailable || got.FetchMode != ModeWebsiteOnly {
		t.Fatalf("got (%s, %s), want (%s, %s)", got.SourceType, got.FetchMode, SourceUnavailable, ModeWebsiteOnly)
	}
	if got.Text != FallbackText("best widgets") {
		t.Fatalf("unexpected fallback text: %q", got.Text)
	}
	if got.Confidence != ConfidenceLow {
		t.Fatalf("confidence = %q, want low", got.Confidence)
	}
}

func TestFetchContextUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "best widgets", "generic")
	if got.SourceType != SourceError || got.FetchMode != ModeNone {
		t.Fatalf("got (%s, %s), want (%s, %s)", got.SourceType, got.FetchMode, SourceError, ModeNone)
	}
	if got.Text != "AI Overview for 'best widgets': Error fetching data from Google." {
		t.Fatalf("unexpected error text: %q", got.Text)
	}
}

func TestFetchContextTransportErrorUsesFallbackSentence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close() // connection refused from here on

	s := &SerpAPI{BaseURL: base, APIKey: "k"}
	got := s.FetchContext(context.Background(), "best widgets", "generic")
	if got.SourceType != SourceError || got.FetchMode != ModeNone {
		t.Fatalf("got (%s, %s), want (%s, %s)", got.SourceType, got.FetchMode, SourceError, ModeNone)
	}
	if got.Text != FallbackText("best widgets") {
		t.Fatalf("transport failure should use the fallback sentence, got %q", got.Text)
	}
	if got.Confidence != ConfidenceLow {
		t.Fatalf("confidence = %q, want low", got.Confidence)
	}
}

func TestOfflineProviderReturnsSyntheticContext(t *testing.T) {
	got := Offline{}.FetchContext(context.Background(), "best widgets", "ecommerce")
	if got.SourceType != SourceSynthetic || got.FetchMode != ModeSynthetic {
		t.Fatalf("got (%s, %s), want (%s, %s)", got.SourceType, got.FetchMode, SourceSynthetic, ModeSynthetic)
	}
	if got.Confidence != ConfidenceLow {
		t.Fatalf("confidence = %q, want low", got.Confidence)
	}
	if got.Text != FallbackText("best widgets") {
		t.Fatalf("unexpected synthetic text: %q", got.Text)
	}
	if name := (Offline{}).Name(); name != "synthetic" {
		t.Fatalf("provider name = %q", name)
	}
}

func TestFetchContextEmbeddedOverview(t *testing.T) {
	srv := serverReturning(t, `{
		"ai_overview": {
			"text_blocks": [
				{"snippet": "Acme widgets lead the category."},
				{"text": "Reviewers cite their warranty terms."}
			],
			"references": [
				{"link": "https://example.com/review", "title": "Widget Review", "domain": "example.com"},
				{"url": "https://other.org/roundup", "source": "Roundup", "displayed_link": "other.org"}
			]
		}
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "best widgets", "generic")
	if got.SourceType != SourceAIOverview || got.FetchMode != ModeEmbedded || got.Confidence != ConfidenceHigh {
		t.Fatalf("unexpected context meta: %+v", got)
	}
	if got.Text != "Acme widgets lead the category. Reviewers cite their warranty terms." {
		t.Fatalf("unexpected joined text: %q", got.Text)
	}
	if len(got.Citations) != 2 {
		t.Fatalf("citations = %d, want 2", len(got.Citations))
	}
	if got.Citations[0].Position != 1 || got.Citations[0].Domain != "example.com" {
		t.Fatalf("unexpected first citation: %+v", got.Citations[0])
	}
	if got.Citations[1].URL != "https://other.org/roundup" || got.Citations[1].Title != "Roundup" {
		t.Fatalf("unexpected second citation: %+v", got.Citations[1])
	}
}

func TestFetchContextAnswerBox(t *testing.T) {
	srv := serverReturning(t, `{
		"answer_box": {"snippet": "Widgets are rated by duty cycle."}
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "widget rating", "generic")
	if got.SourceType != SourceAnswerBox || got.Confidence != ConfidenceMedium {
		t.Fatalf("unexpected context: %+v", got)
	}
	if got.Text != "Widgets are rated by duty cycle." {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestFetchContextKnowledgeGraph(t *testing.T) {
	srv := serverReturning(t, `{
		"knowledge_graph": {"description": "Acme is a widget manufacturer."}
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "acme", "generic")
	if got.SourceType != SourceKnowledgeGraph || got.Confidence != ConfidenceMedium {
		t.Fatalf("unexpected context: %+v", got)
	}
}

func TestFetchContextOrganicSnippet(t *testing.T) {
	srv := serverReturning(t, `{
		"organic_results": [{"snippet": "Top widget picks for this year."}]
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "widgets", "generic")
	if got.SourceType != SourceOrganic || got.Confidence != ConfidenceLow {
		t.Fatalf("unexpected context: %+v", got)
	}
	if got.Text != "Top widget picks for this year." {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestFetchContextNoUsableSignal(t *testing.T) {
	srv := serverReturning(t, `{"search_metadata": {"status": "Success"}}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "widgets", "generic")
	if got.SourceType != SourceNone || got.FetchMode != ModeNone {
		t.Fatalf("unexpected context: %+v", got)
	}
	if got.Text != FallbackText("widgets") {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestFetchContextEcommerceCategory(t *testing.T) {
	srv := serverReturning(t, `{
		"shopping_results": [
			{"title": "Acme Widget Pro", "price": "$49", "source": "acmestore.com", "link": "https://acmestore.com/pro"},
			{"title": "Budget Widget", "price": "$19", "source": "cheapwidgets.net"}
		]
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "buy widgets", "ecommerce")
	if got.SourceType != SourceShoppingGraph || got.FetchMode != ModeCategoryEcommerce {
		t.Fatalf("unexpected context: %+v", got)
	}
	if got.Confidence != ConfidenceMedium {
		t.Fatalf("confidence = %q, want medium", got.Confidence)
	}
	if len(got.Citations) != 2 {
		t.Fatalf("citations = %d, want 2", len(got.Citations))
	}
}

func TestFetchContextLocalCategory(t *testing.T) {
	srv := serverReturning(t, `{
		"local_results": [
			{"title": "Acme Hardware", "rating": 4.6, "address": "12 Main St"}
		]
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "hardware store near me", "local")
	if got.SourceType != SourceLocalPack || got.FetchMode != ModeCategoryLocal {
		t.Fatalf("unexpected context: %+v", got)
	}
}

func TestFetchContextSaaSCategory(t *testing.T) {
	srv := serverReturning(t, `{
		"related_questions": [
			{"question": "What does widget software cost?"},
			{"question": "Is there a free widget tier?"}
		]
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "widget software", "saas")
	if got.SourceType != SourceRelatedQuestions || got.FetchMode != ModeCategorySaaS {
		t.Fatalf("unexpected context: %+v", got)
	}
	if got.Text != "What does widget software cost? Is there a free widget tier?" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestFetchContextOverviewBeatsCategory(t *testing.T) {
	srv := serverReturning(t, `{
		"ai_overview": {"text": "Overview wins."},
		"shopping_results": [{"title": "Acme Widget Pro"}]
	}`)
	defer srv.Close()

	s := &SerpAPI{BaseURL: srv.URL, APIKey: "k", HTTPClient: srv.Client()}
	got := s.FetchContext(context.Background(), "widgets", "ecommerce")
	if got.SourceType != SourceAIOverview {
		t.Fatalf("AI overview should take priority, got %q", got.SourceType)
	}
}
