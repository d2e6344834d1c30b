package service

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"flex_report/internal/engine"
	"flex_report/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/phpdave11/gofpdf"
)

// ReportMarkerPct is where the red marker sits on both report bars.
const ReportMarkerPct = 75.0

var ErrEmptyReport = errors.New("report has no estimate")

// ReportInput is everything printed on one FLEX REPORT page.
type ReportInput struct {
	Estimate    *models.RULEstimate
	Equipment   *models.EquipmentRef
	Application string
	GeneratedAt time.Time
}

type ReportService struct{}

func NewReportService() *ReportService { return &ReportService{} }

const (
	barWidth  = 80.0
	barHeight = 6.0
)

// RenderReport writes a one-page PDF to w.
func (s *ReportService) RenderReport(w io.Writer, in ReportInput) error {
	if in.Estimate == nil {
		return ErrEmptyReport
	}
	est := in.Estimate
	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FLEX REPORT", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "FLEX REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range reportFields(in, generated) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 7, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Results", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	drawBar(pdf, est.UsedFraction*100)
	pdf.MultiCell(0, 6, lifeSentence(est), "", "L", false)
	pdf.Ln(4)

	if est.Deposits != nil {
		drawBar(pdf, est.Deposits.DepositPct)
		pdf.MultiCell(0, 6, depositSentence(est.Deposits), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func reportFields(in ReportInput, generated time.Time) [][2]string {
	est := in.Estimate
	fields := [][2]string{
		{"Analysis ID", est.AnalysisID},
		{"Date", generated.Format("2006-01-02")},
		{"Fluid", est.Fluid},
		{"Hours in use", humanize.Commaf(math.Round(est.ElapsedHours))},
	}
	if est.EffectiveHours != est.ElapsedHours {
		fields = append(fields, [2]string{"Effective age (lab)", humanize.Commaf(math.Round(est.EffectiveHours))})
	}
	if in.Equipment != nil {
		fields = append(fields, [2]string{"Equipment", fmt.Sprintf("%s %s %s",
			in.Equipment.Manufacturer, in.Equipment.Category, in.Equipment.Model)})
	}
	if in.Application != "" {
		fields = append(fields, [2]string{"Application", in.Application})
	}
	fields = append(fields,
		[2]string{"Severity", fmt.Sprintf("%.2f (%s)", est.SeverityRating, est.SeveritySource)},
		[2]string{"Health index", fmt.Sprintf("%.1f%% (limit %.0f%%)", est.CurrentHealthIndex, est.ThresholdPct)},
	)
	return fields
}

func lifeSentence(est *models.RULEstimate) string {
	rem, ok := est.Remaining()
	if !ok {
		return fmt.Sprintf("The remaining useful life of this oil could not be determined within %s hours.",
			humanize.Commaf(engine.HorizonCeilingHours))
	}
	return fmt.Sprintf("This oil has %s hours left of useful life.", humanize.Comma(int64(math.Round(rem))))
}

func depositSentence(d *models.DepositAssessment) string {
	return fmt.Sprintf("This oil has a %s%% level of deposits (%s).", humanize.Ftoa(d.DepositPct), d.Class)
}

// drawBar draws a green-yellow-red bar with the filled share pct darkened
// and a red marker at ReportMarkerPct.
func drawBar(pdf *gofpdf.Fpdf, pct float64) {
	pct = math.Max(0, math.Min(pct, 100))
	x, y := pdf.GetXY()
	half := barWidth / 2

	pdf.LinearGradient(x, y, half, barHeight, 0, 160, 0, 255, 220, 0, 0, 0, 1, 0)
	pdf.LinearGradient(x+half, y, half, barHeight, 255, 220, 0, 220, 0, 0, 0, 0, 1, 0)

	if pct > 0 {
		pdf.SetAlpha(0.3, "Normal")
		pdf.SetFillColor(0, 0, 0)
		pdf.Rect(x, y, barWidth*pct/100, barHeight, "F")
		pdf.SetAlpha(1, "Normal")
	}

	pdf.SetFillColor(255, 0, 0)
	pdf.Rect(x+barWidth*ReportMarkerPct/100, y, 0.6, barHeight, "F")

	pdf.SetXY(x, y+barHeight+2)
}
