package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperifyio/answerscope/internal/normalize"
	"github.com/hyperifyio/answerscope/internal/pipeline"
)

func sampleResult() pipeline.Result {
	return pipeline.Result{
		Keyword:           "best widgets",
		URL:               "https://acme.example",
		LASScore:          61,
		TrustScore:        44,
		CitationAuthority: 44,
		Analysis:          normalize.Default(""),
		AnalysisLanguage:  "en",
	}
}

func TestWriteJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := writeJSONReport(path, sampleResult()); err != nil {
		t.Fatalf("writeJSONReport: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded["keyword"] != "best widgets" {
		t.Fatalf("keyword = %v", decoded["keyword"])
	}
	if decoded["las_score"] != float64(61) {
		t.Fatalf("las_score = %v", decoded["las_score"])
	}
	if _, ok := decoded["analysis"]; !ok {
		t.Fatalf("analysis block missing")
	}
}

func TestWriteSummaryPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := writeSummaryPDF(sampleResult(), path); err != nil {
		t.Fatalf("writeSummaryPDF: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts with %q)", b[:8])
	}
	if len(b) < 500 {
		t.Fatalf("pdf suspiciously small: %d bytes", len(b))
	}
}
