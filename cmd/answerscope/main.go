package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/answerscope/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		keyword       string
		targetURL     string
		brandName     string
		brandCategory string
		competitors   string
		brandProfile  string
		serpKey       string
		serpBase      string
		serpMock      bool
		llmBaseURL    string
		llmModel      string
		llmKey        string
		outputPath    string
		outputPDF     string
		cacheDir      string
		dbPath        string
		configPath    string
		showHistory   bool
		historyLimit  int
		maxChars      int
		userAgent     string
		verbose       bool
	)

	flag.StringVar(&keyword, "keyword", "", "Target search keyword to audit")
	flag.StringVar(&targetURL, "url", "", "Brand page URL to fetch and analyze")
	flag.StringVar(&brandName, "brand.name", os.Getenv("BRAND_NAME"), "Brand name")
	flag.StringVar(&brandCategory, "brand.category", "", "Brand category: generic, ecommerce, saas, or local")
	flag.StringVar(&competitors, "brand.competitors", "", "Comma-separated list of known competitors")
	flag.StringVar(&brandProfile, "brand.profile", os.Getenv("BRAND_PROFILE"), "Path to YAML brand profile")
	flag.StringVar(&serpKey, "serp.key", os.Getenv("SERPAPI_KEY"), "SerpApi API key")
	flag.StringVar(&serpBase, "serp.base", os.Getenv("SERPAPI_BASE_URL"), "SerpApi base URL override")
	flag.BoolVar(&serpMock, "serp.mock", os.Getenv("SERPAPI_MOCK") != "", "Use deterministic synthetic search context (no network)")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.StringVar(&outputPath, "output", "-", "Path for the JSON report ('-' for stdout)")
	flag.StringVar(&outputPDF, "output.pdf", "", "Optional path for a one-page PDF summary")
	flag.StringVar(&cacheDir, "cache.dir", os.Getenv("ANSWERSCOPE_CACHE_DIR"), "Cache directory for HTTP bodies and model responses")
	flag.StringVar(&dbPath, "db.path", os.Getenv("ANSWERSCOPE_DB"), "SQLite database path for scan history (empty disables)")
	flag.StringVar(&configPath, "config", os.Getenv("ANSWERSCOPE_CONFIG"), "Path to YAML config file")
	flag.BoolVar(&showHistory, "history", false, "List recent scans instead of running one")
	flag.IntVar(&historyLimit, "history.limit", 20, "Maximum history rows to list")
	flag.IntVar(&maxChars, "max.chars", 0, "Maximum characters of cleaned page text sent to the model (0 = default)")
	flag.StringVar(&userAgent, "ua", "answerscope/1.0 (+https://github.com/hyperifyio/answerscope)", "Custom User-Agent for outbound requests")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		Keyword:       keyword,
		URL:           targetURL,
		BrandName:     brandName,
		BrandCategory: brandCategory,
		Competitors:   splitList(competitors),
		ProfilePath:   brandProfile,
		SerpAPIKey:    serpKey,
		SerpBaseURL:   serpBase,
		SerpMock:      serpMock,
		LLMBaseURL:    llmBaseURL,
		LLMModel:      llmModel,
		LLMAPIKey:     llmKey,
		OutputPath:    outputPath,
		OutputPDF:     outputPDF,
		CacheDir:      cacheDir,
		DBPath:        dbPath,
		ShowHistory:   showHistory,
		HistoryLimit:  historyLimit,
		MaxChars:      maxChars,
		UserAgent:     userAgent,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadFileConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config file")
		}
		app.ApplyFile(&cfg, fc)
	}
	cfg.ApplyDefaults()

	// The level is only final once the config file has been merged.
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
