package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"spending/internal/core"
)

var xlsxHeader = []any{"Date", "Vendor", "Category", "Location", "Account", "NOK", "ID"}

// WriteXLSX writes purchases to a single sheet named after month, followed
// by a total row.
func WriteXLSX(w io.Writer, month core.Date, purchases []core.Purchase) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(month)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range purchases {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{p.Date.Stamp(), p.Vendor, p.Category, p.Location, p.Account, p.NOK, p.ID}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write purchase %s: %w", p.ID, err)
		}
	}

	totalRow := len(purchases) + 2
	totalCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	total := []any{"Total", core.Total(purchases)}
	if err := f.SetSheetRow(sheet, totalCell, &total); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	_ = f.SetCellStyle(sheet, "A1", "G1", bold)
	lastCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	_ = f.SetCellStyle(sheet, totalCell, lastCell, bold)
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "E", 18)
	_ = f.SetColWidth(sheet, "G", "G", 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SheetName is the sheet title used for month, e.g. "2024-03".
func SheetName(month core.Date) string {
	return fmt.Sprintf("%04d-%02d", month.Year, int(month.Month))
}
