package app

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/answerscope/internal/pipeline"
)

// writeSummaryPDF renders a one-page scan summary: scores, executive summary,
// and the action plan. This is intentionally simple and does not attempt full
// dashboard layout.
func writeSummaryPDF(res pipeline.Result, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "AnswerScope GEO Audit", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, fmt.Sprintf("Keyword: %s", res.Keyword), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("URL: %s", res.URL), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Scores", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, fmt.Sprintf("LLM Answerability Score: %d", res.LASScore), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("Trust / Citation Authority: %d", res.TrustScore), "", "L", false)
	s := res.Analysis.Scores
	pdf.MultiCell(0, 5, fmt.Sprintf("Pillars - visibility %d, content %d, technical %d, visual %d",
		s.Visibility, s.Content, s.Technical, s.Visual), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("Sentiment: %s (%d)", res.Analysis.Sentiment.Label, res.Analysis.Sentiment.Score), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Executive Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range res.Analysis.ExecutiveSummary {
		pdf.MultiCell(0, 5, "- "+line, "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Action Plan", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, action := range res.Analysis.ActionPlan {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 5, fmt.Sprintf("%d. [%s] %s (ETA %d days, %s)",
			i+1, action.Priority, action.Title, action.EtaDays, action.OwnerHint), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		for _, step := range action.StepByStep {
			pdf.MultiCell(0, 5, "   - "+step, "", "L", false)
		}
		pdf.MultiCell(0, 5, "   Metric: "+action.SuccessMetric, "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}
