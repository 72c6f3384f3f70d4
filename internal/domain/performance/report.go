package performance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"perfreview/internal/domain/review"
)

// WriteFinalScoreReport renders every final score of the cycle into a PDF under
// the reports directory and returns the file path.
func (s *Service) WriteFinalScoreReport(ctx context.Context, cycleID review.ReviewCycleID) (string, error) {
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return "", err
	}

	var scores []*review.FinalScore
	for offset := 0; ; offset += MaxFinalScorePageSize {
		page, err := s.stores.FinalScores.ListByCycle(ctx, cycleID, MaxFinalScorePageSize, offset)
		if err != nil {
			return "", err
		}
		scores = append(scores, page...)
		if len(page) < MaxFinalScorePageSize {
			break
		}
	}

	names := make(map[review.UserID]string, len(scores))
	for _, score := range scores {
		user, err := s.stores.Users.FindByID(ctx, score.UserID())
		if err != nil {
			return "", err
		}
		if user != nil {
			names[score.UserID()] = user.Name
		}
	}

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", err
	}
	filePath := s.FinalScoreReportPath(cycleID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Final scores: "+cycle.Name())
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", cycle.StartDate().Format("2006-01-02"), cycle.EndDate().Format("2006-01-02")))
	pdf.Ln(10)

	header := []string{"Employee", "PI", "DIR", "EE", "OO", "PPL", "Score", "Level", "Tier"}
	widths := []float64{55, 12, 12, 12, 12, 12, 20, 25, 25}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, score := range scores {
		name := names[score.UserID()]
		if name == "" {
			name = score.UserID().String()
		}
		level := "-"
		if l := score.FinalLevel(); l != nil {
			level = l.String()
		}
		row := []string{name}
		for _, v := range score.Scores().Values() {
			row = append(row, fmt.Sprintf("%d", v))
		}
		row = append(row, score.WeightedScore().String(), level, score.BonusTier().String())
		for i, cell := range row {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(scores) == 0 {
		pdf.Cell(0, 8, "No final scores have been calculated for this cycle.")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// FinalScoreReportPath is where WriteFinalScoreReport puts the cycle's report.
func (s *Service) FinalScoreReportPath(cycleID review.ReviewCycleID) string {
	return filepath.Join(s.reportsDir, "final-scores-"+cycleID.String()+".pdf")
}
