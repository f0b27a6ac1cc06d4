package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/answerscope/internal/brand"
	"github.com/hyperifyio/answerscope/internal/cache"
	"github.com/hyperifyio/answerscope/internal/extract"
	"github.com/hyperifyio/answerscope/internal/fetch"
	"github.com/hyperifyio/answerscope/internal/jobs"
	"github.com/hyperifyio/answerscope/internal/llm"
	"github.com/hyperifyio/answerscope/internal/pipeline"
	"github.com/hyperifyio/answerscope/internal/serp"
	"github.com/hyperifyio/answerscope/internal/store"
)

// App wires configuration into a runnable scan.
type App struct {
	cfg       Config
	model     llm.Client
	httpCache *cache.HTTPCache
	llmCache  *cache.LLMCache
	db        *store.Store
}

// New builds the application from resolved configuration. The model client
// and the store are optional: without a model key the pipeline degrades to
// fallback-safe output, and without a database path nothing is persisted.
func New(cfg Config) (*App, error) {
	a := &App{cfg: cfg}

	if cfg.LLMAPIKey != "" {
		transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			transportCfg.BaseURL = cfg.LLMBaseURL
		}
		a.model = &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}
	} else {
		log.Warn().Msg("no model API key configured; analysis will use fallback-safe defaults")
	}

	if cfg.CacheDir != "" {
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir}
		a.llmCache = &cache.LLMCache{Dir: cfg.CacheDir}
	}

	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.db = db
	}

	return a, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Run executes a scan (or history listing) according to configuration.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.ShowHistory {
		return a.history(ctx)
	}

	b, err := a.brandContext()
	if err != nil {
		return err
	}

	p := pipeline.Pipeline{
		Search:    a.searchProvider(),
		Fetcher:   a.fetchClient(),
		Model:     a.model,
		ModelName: a.cfg.LLMModel,
		Cache:     a.llmCache,
		Extract:   extract.Options{MaxChars: a.cfg.MaxChars},
	}

	job := jobs.Start(ctx, p, pipeline.Request{
		Keyword: a.cfg.Keyword,
		URL:     a.cfg.URL,
		Brand:   b,
	})
	for ev := range job.Events() {
		log.Info().Str("job", ev.JobID).Str("stage", ev.Stage).Msg("scan progress")
	}
	res, err := job.Wait()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if a.db != nil {
		id, err := a.db.SaveScan(ctx, b.Name, res)
		if err != nil {
			log.Error().Err(err).Msg("failed to persist scan")
		} else {
			log.Info().Str("scan_id", id).Msg("scan persisted")
		}
	}

	if err := writeJSONReport(a.cfg.OutputPath, res); err != nil {
		return err
	}
	if a.cfg.OutputPDF != "" {
		if err := writeSummaryPDF(res, a.cfg.OutputPDF); err != nil {
			return fmt.Errorf("write pdf summary: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDF).Msg("wrote PDF summary")
	}
	return nil
}

func (a *App) brandContext() (brand.Context, error) {
	var b brand.Context
	if a.cfg.ProfilePath != "" {
		loaded, err := brand.LoadFile(a.cfg.ProfilePath)
		if err != nil {
			return brand.Context{}, err
		}
		b = loaded
	}
	if a.cfg.BrandName != "" {
		b.Name = a.cfg.BrandName
	}
	if a.cfg.BrandCategory != "" {
		b.Category = a.cfg.BrandCategory
	}
	if len(a.cfg.Competitors) > 0 {
		b.Competitors = a.cfg.Competitors
	}
	return b.Normalize(), nil
}

func (a *App) searchProvider() serp.Provider {
	if a.cfg.SerpMock {
		log.Info().Msg("mock search enabled; using synthetic context")
		return serp.Offline{}
	}
	return &serp.SerpAPI{
		BaseURL:    a.cfg.SerpBaseURL,
		APIKey:     a.cfg.SerpAPIKey,
		UserAgent:  a.cfg.UserAgent,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *App) fetchClient() *fetch.Client {
	return &fetch.Client{
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		UserAgent:         a.cfg.UserAgent,
		MaxAttempts:       3,
		PerRequestTimeout: 20 * time.Second,
		Cache:             a.httpCache,
	}
}

func (a *App) history(ctx context.Context) error {
	records, err := a.db.History(ctx, a.cfg.Keyword, a.cfg.HistoryLimit)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
