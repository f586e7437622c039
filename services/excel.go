package services

import (
	"fmt"
	"io"

	"lead-intake/models"

	"github.com/xuri/excelize/v2"
)

const leadsSheet = "Leads"

var leadColumns = []interface{}{"Created At", "Name", "Business", "Email", "Phone", "Service", "Timeframe", "Notes"}

// ExportLeadsExcel writes leads as an .xlsx workbook with one row per lead.
func ExportLeadsExcel(w io.Writer, leads []models.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leadsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(leadsSheet, "A1", &leadColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(leadsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, lead := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := lead.ToResponse()
		row := []interface{}{r.CreatedAt, r.Name, r.Business, r.Email, r.Phone, r.Service, r.Timeframe, r.Notes}
		if err := f.SetSheetRow(leadsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(leadsSheet, "A", "H", 22); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

