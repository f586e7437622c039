package services

import (
	"fmt"
	"io"
	"time"

	"lead-intake/models"

	"github.com/jung-kurt/gofpdf"
)

// ExportLeadsPDF renders a printable lead report.
func ExportLeadsPDF(w io.Writer, leads []models.Lead, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Lead report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Lead report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 6, fmt.Sprintf("%d leads, generated %s", len(leads), models.FormatTimestamp(generatedAt)))
	pdf.Ln(10)

	for _, lead := range leads {
		r := lead.ToResponse()
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s - %s", r.Business, r.Name)))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		for _, kv := range [][2]string{
			{"Email", r.Email},
			{"Phone", orDash(r.Phone)},
			{"Service", r.Service},
			{"Timeframe", r.Timeframe},
			{"Received", r.CreatedAt},
		} {
			pdf.Cell(30, 5, kv[0]+":")
			pdf.Cell(0, 5, tr(kv[1]))
			pdf.Ln(5)
		}
		if r.Notes != "" {
			pdf.MultiCell(0, 5, tr(r.Notes), "", "L", false)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error generating lead report PDF: %w", err)
	}
	return nil
}
