package serp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL targets the hosted SerpApi search endpoint.
const DefaultBaseURL = "https://serpapi.com/search"

// SerpAPI implements Provider against a SerpApi-compatible /search endpoint.
// The priority chain favours AI-overview text, then category-specific signals,
// then generic answer surfaces, and finally a synthesized fallback so the
// caller always receives usable context.
type SerpAPI struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
}

func (s *SerpAPI) Name() string { return "serpapi" }

// FetchContext runs the search and applies the fallback priority order.
// Missing credentials, transport failures, and empty result sets all degrade
// to a low-confidence fallback Context; this method never fails.
func (s *SerpAPI) FetchContext(ctx context.Context, keyword, category string) Context {
	category = strings.ToLower(strings.TrimSpace(category))

	if s.APIKey == "" {
		log.Warn().Msg("missing serpapi key; using website-first fallback")
		return Fallback(keyword, SourceUnavailable, ModeWebsiteOnly)
	}

	data, err := s.query(ctx, map[string]string{
		"engine":        "google",
		"q":             keyword,
		"google_domain": "google.com",
		"gl":            "us",
		"hl":            "en",
		"num":           "5",
	})
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("serpapi request failed")
		// An upstream status error gets the explicit error text; transport
		// failures degrade to the generic fallback sentence.
		text := FallbackText(keyword)
		var se *statusError
		if errors.As(err, &se) {
			text = fmt.Sprintf("AI Overview for '%s': Error fetching data from Google.", keyword)
		}
		return Context{
			Text:       text,
			SourceType: SourceError,
			FetchMode:  ModeNone,
			Confidence: ConfidenceLow,
		}
	}

	// Priority 1: embedded AI overview text.
	if aiData := asMap(data["ai_overview"]); aiData != nil {
		if msg := stringify(aiData["error"]); msg != "" {
			log.Warn().Str("error", msg).Msg("ai_overview error present")
		} else {
			if text := extractAIText(aiData); text != "" {
				return Context{
					Text:       text,
					SourceType: SourceAIOverview,
					FetchMode:  ModeEmbedded,
					Confidence: ConfidenceHigh,
					Citations:  extractCitations(aiData),
				}
			}
			// Priority 2: follow-up fetch via page token or direct link when
			// the overview exists but shipped without embedded text.
			if followup := s.followupOverview(ctx, keyword, aiData); followup != nil {
				if text := extractAIText(followup); text != "" {
					return Context{
						Text:       text,
						SourceType: SourceAIOverview,
						FetchMode:  ModePageTokenFollowup,
						Confidence: ConfidenceHigh,
						Citations:  extractCitations(followup),
					}
				}
			}
		}
	}

	// Category-specific signal before the generic fallbacks.
	switch category {
	case "ecommerce":
		if c, ok := ecommerceSignal(data); ok {
			return c
		}
	case "local":
		if c, ok := localSignal(data); ok {
			return c
		}
	case "saas":
		if c, ok := saasSignal(data); ok {
			return c
		}
	}

	// Priority 4: answer box.
	if box := asMap(data["answer_box"]); box != nil {
		text := firstString(box, "answer", "snippet")
		if text == "" {
			if words := asList(box["snippet_highlighted_words"]); len(words) > 0 {
				text = strings.TrimSpace(stringify(words[0]))
			}
		}
		if text != "" {
			return Context{
				Text:       text,
				SourceType: SourceAnswerBox,
				FetchMode:  ModeEmbedded,
				Confidence: ConfidenceMedium,
				Citations:  extractCitations(box),
			}
		}
	}

	// Priority 5: knowledge graph description.
	if kg := asMap(data["knowledge_graph"]); kg != nil {
		if text := firstString(kg, "description"); text != "" {
			return Context{
				Text:       text,
				SourceType: SourceKnowledgeGraph,
				FetchMode:  ModeEmbedded,
				Confidence: ConfidenceMedium,
				Citations:  extractCitations(kg),
			}
		}
	}

	// Priority 6: first organic result's snippet.
	if organic := asList(data["organic_results"]); len(organic) > 0 {
		if first := asMap(organic[0]); first != nil {
			if snippet := firstString(first, "snippet"); snippet != "" {
				return Context{
					Text:       snippet,
					SourceType: SourceOrganic,
					FetchMode:  ModeEmbedded,
					Confidence: ConfidenceLow,
					Citations:  extractCitations(first),
				}
			}
		}
	}

	log.Warn().Str("keyword", keyword).Msg("serpapi returned no usable overview text")
	return Fallback(keyword, SourceNone, ModeNone)
}

// followupOverview retries the overview via page_token, then serpapi_link.
func (s *SerpAPI) followupOverview(ctx context.Context, keyword string, aiData map[string]any) map[string]any {
	if token := stringify(aiData["page_token"]); token != "" {
		data, err := s.query(ctx, map[string]string{
			"engine":     "google_ai_overview",
			"q":          keyword,
			"page_token": token,
			"gl":         "us",
			"hl":         "en",
		})
		if err == nil {
			return unwrapOverview(data)
		}
		log.Warn().Err(err).Msg("ai_overview page_token follow-up failed")
	}

	if link := stringify(aiData["serpapi_link"]); link != "" {
		data, err := s.getJSON(ctx, link)
		if err == nil {
			return unwrapOverview(data)
		}
		log.Warn().Err(err).Msg("ai_overview link follow-up failed")
	}
	return nil
}

// unwrapOverview prefers a nested ai_overview object over the raw response.
func unwrapOverview(data map[string]any) map[string]any {
	if inner := asMap(data["ai_overview"]); inner != nil {
		return inner
	}
	return data
}

func (s *SerpAPI) query(ctx context.Context, params map[string]string) (map[string]any, error) {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("api_key", s.APIKey)
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return s.getJSON(ctx, u.String())
}

// statusError marks a non-2xx upstream response, distinguishing it from
// transport failures when the degraded context text is chosen.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("serpapi status: %d", e.code)
}

func (s *SerpAPI) getJSON(ctx context.Context, rawURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}
	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
