package export

import (
	"fmt"

	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by ExportLoadPlan.
const (
	SheetLoadPlan = "Load Plan"
	SheetSummary  = "Summary"
)

var loadPlanHeader = []interface{}{
	"Step", "Box ID", "Label", "X", "Y", "Z", "Length", "Width", "Height", "Rotated", "Level",
}

// ExportLoadPlan writes an Excel workbook with one row per placement in
// loading order on the "Load Plan" sheet and the run statistics on the
// "Summary" sheet. Unplaced boxes are listed below the statistics.
func ExportLoadPlan(path string, result model.PackResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetLoadPlan); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(SheetLoadPlan, "A1", &loadPlanHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(SheetLoadPlan, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	levels := Levels(result.Placements)
	levelOf := make(map[int]int, len(levels))
	for i, z := range levels {
		levelOf[z] = i + 1
	}

	for i, p := range result.Placements {
		row := []interface{}{
			i + 1, p.Box.ID, p.Box.Label,
			p.X, p.Y, p.Z,
			p.Length, p.Width, p.Height,
			p.Rotated(), levelOf[p.Z],
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetLoadPlan, cell, &row); err != nil {
			return fmt.Errorf("failed to write placement %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(SheetLoadPlan, "C", "C", 24); err != nil {
		return err
	}

	rowNum := 1
	for _, item := range SummaryItems(result) {
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", rowNum), &[]interface{}{item.Label, item.Value}); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		rowNum++
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 20); err != nil {
		return err
	}

	if len(result.Unplaced) > 0 {
		rowNum++
		header := []interface{}{"Unplaced Box ID", "Label", "Length", "Width", "Height"}
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", rowNum), &header); err != nil {
			return fmt.Errorf("failed to write unplaced header: %w", err)
		}
		if err := f.SetRowStyle(SheetSummary, rowNum, rowNum, bold); err != nil {
			return err
		}
		for _, b := range result.Unplaced {
			rowNum++
			row := []interface{}{b.ID, b.Label, b.Length, b.Width, b.Height}
			if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return fmt.Errorf("failed to write unplaced box %d: %w", b.ID, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
