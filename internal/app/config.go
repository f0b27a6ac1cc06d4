package app

import (
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration after flags, environment, and
// the optional config file have been merged.
type Config struct {
	// Scan target.
	Keyword string
	URL     string

	// Brand profile. ProfilePath, when set, loads the YAML profile and the
	// individual fields below act as overrides.
	BrandName     string
	BrandCategory string
	Competitors   []string
	ProfilePath   string

	// Search evidence provider. SerpMock short-circuits to the deterministic
	// offline context without any network call.
	SerpAPIKey  string
	SerpBaseURL string
	SerpMock    bool

	// Model access (OpenAI-compatible).
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Output.
	OutputPath string
	OutputPDF  string

	// Cache directory for HTTP bodies and model responses. Empty disables.
	CacheDir string

	// SQLite database path. Empty disables persistence.
	DBPath string

	// History mode: list recent scans instead of running one.
	ShowHistory  bool
	HistoryLimit int

	// Extraction budget for cleaned page text. 0 uses the default.
	MaxChars int

	UserAgent string
	Verbose   bool
}

// FileConfig is the single-file YAML configuration schema. Nested sections
// map naturally onto the flag namespace.
type FileConfig struct {
	Keyword string `yaml:"keyword"`
	URL     string `yaml:"url"`

	Brand struct {
		Name        string   `yaml:"name"`
		Category    string   `yaml:"category"`
		Competitors []string `yaml:"competitors"`
		Profile     string   `yaml:"profile"`
	} `yaml:"brand"`

	Serp struct {
		Key  string `yaml:"key"`
		Base string `yaml:"base"`
		Mock bool   `yaml:"mock"`
	} `yaml:"serp"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Output    string `yaml:"output"`
	OutputPDF string `yaml:"outputPDF"`

	Cache struct {
		Dir string `yaml:"dir"`
	} `yaml:"cache"`

	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`

	MaxChars  int    `yaml:"maxChars"`
	UserAgent string `yaml:"userAgent"`
	Verbose   bool   `yaml:"verbose"`
}

// LoadFileConfig parses a YAML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// ApplyFile fills empty Config fields from the file. Flags and environment
// already populated cfg, so explicit settings keep precedence.
func ApplyFile(cfg *Config, fc FileConfig) {
	setIfEmpty(&cfg.Keyword, fc.Keyword)
	setIfEmpty(&cfg.URL, fc.URL)
	setIfEmpty(&cfg.BrandName, fc.Brand.Name)
	setIfEmpty(&cfg.BrandCategory, fc.Brand.Category)
	setIfEmpty(&cfg.ProfilePath, fc.Brand.Profile)
	if len(cfg.Competitors) == 0 {
		cfg.Competitors = fc.Brand.Competitors
	}
	setIfEmpty(&cfg.SerpAPIKey, fc.Serp.Key)
	setIfEmpty(&cfg.SerpBaseURL, fc.Serp.Base)
	if fc.Serp.Mock {
		cfg.SerpMock = true
	}
	setIfEmpty(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setIfEmpty(&cfg.LLMModel, fc.LLM.Model)
	setIfEmpty(&cfg.LLMAPIKey, fc.LLM.APIKey)
	setIfEmpty(&cfg.OutputPath, fc.Output)
	setIfEmpty(&cfg.OutputPDF, fc.OutputPDF)
	setIfEmpty(&cfg.CacheDir, fc.Cache.Dir)
	setIfEmpty(&cfg.DBPath, fc.DB.Path)
	setIfEmpty(&cfg.UserAgent, fc.UserAgent)
	if cfg.MaxChars == 0 {
		cfg.MaxChars = fc.MaxChars
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// DefaultModel is used when neither flags, environment, nor the config file
// name one.
const DefaultModel = "gpt-4o-mini"

// ApplyDefaults fills remaining empty fields after the flag and file merge.
// Running it last keeps a config file's explicit settings from being shadowed
// by built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.LLMModel == "" {
		c.LLMModel = DefaultModel
	}
}

// Validate checks the minimum required inputs for a scan run.
func (c Config) Validate() error {
	if c.ShowHistory {
		if c.DBPath == "" {
			return errors.New("history requires -db.path")
		}
		return nil
	}
	if c.Keyword == "" {
		return errors.New("keyword is required")
	}
	if c.URL == "" {
		return errors.New("url is required")
	}
	return nil
}
