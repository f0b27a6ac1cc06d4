package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestApplyFileFlagsTakePrecedence(t *testing.T) {
	cfg := Config{
		Keyword:  "flag keyword",
		LLMModel: "flag-model",
	}
	fc := FileConfig{Keyword: "file keyword", URL: "https://file.example"}
	fc.LLM.Model = "file-model"
	fc.LLM.APIKey = "file-key"
	fc.Brand.Competitors = []string{"WidgetCo"}
	fc.MaxChars = 9000

	ApplyFile(&cfg, fc)

	if cfg.Keyword != "flag keyword" {
		t.Fatalf("flag value overwritten: %q", cfg.Keyword)
	}
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("flag model overwritten: %q", cfg.LLMModel)
	}
	if cfg.URL != "https://file.example" || cfg.LLMAPIKey != "file-key" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Competitors, []string{"WidgetCo"}) {
		t.Fatalf("competitors: %v", cfg.Competitors)
	}
	if cfg.MaxChars != 9000 {
		t.Fatalf("max chars: %d", cfg.MaxChars)
	}
}

func TestApplyFileFillsModelVerboseAndMock(t *testing.T) {
	cfg := Config{}
	fc := FileConfig{}
	fc.LLM.Model = "file-model"
	fc.Serp.Mock = true
	fc.Verbose = true

	ApplyFile(&cfg, fc)

	if cfg.LLMModel != "file-model" {
		t.Fatalf("file model not applied: %q", cfg.LLMModel)
	}
	if !cfg.SerpMock {
		t.Fatalf("serp mock not applied")
	}
	if !cfg.Verbose {
		t.Fatalf("verbose not applied")
	}
}

func TestApplyDefaultsModel(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.LLMModel != DefaultModel {
		t.Fatalf("model = %q, want %q", cfg.LLMModel, DefaultModel)
	}

	cfg = Config{LLMModel: "file-model"}
	cfg.ApplyDefaults()
	if cfg.LLMModel != "file-model" {
		t.Fatalf("explicit model overwritten: %q", cfg.LLMModel)
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `keyword: best widgets
url: https://acme.example
brand:
  name: Acme
  category: ecommerce
llm:
  model: gpt-4o-mini
db:
  path: scans.db
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.Keyword != "best widgets" || fc.Brand.Name != "Acme" || fc.DB.Path != "scans.db" {
		t.Fatalf("parsed config: %+v", fc)
	}

	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("empty config should fail validation")
	}
	if err := (Config{Keyword: "k"}).Validate(); err == nil {
		t.Fatalf("missing url should fail validation")
	}
	if err := (Config{Keyword: "k", URL: "https://a"}).Validate(); err != nil {
		t.Fatalf("valid scan config rejected: %v", err)
	}
	if err := (Config{ShowHistory: true}).Validate(); err == nil {
		t.Fatalf("history without db path should fail")
	}
	if err := (Config{ShowHistory: true, DBPath: "scans.db"}).Validate(); err != nil {
		t.Fatalf("history config rejected: %v", err)
	}
}
