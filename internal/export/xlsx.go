package export

import (
	"fmt"

	"github.com/nestkit/nestkit/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes a placement report workbook with one row per placed item
// plus a summary sheet. The placements sheet can be fed back into the CSV or
// Excel importer.
func ExportXLSX(path string, result model.PackResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const placementsSheet = "Placements"
	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Bin", "Bin Label", "Item", "Width", "Height", "X", "Y", "Rotated"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(placementsSheet, cell, h); err != nil {
			return err
		}
	}

	rowNum := 2
	binNum := 0
	for _, br := range result.Bins {
		if len(br.Placements) == 0 {
			continue
		}
		binNum++
		for _, p := range br.Placements {
			values := []interface{}{
				binNum, br.Bin.Label, p.Item.Label,
				p.PlacedWidth(), p.PlacedHeight(), p.X, p.Y, p.Rotated,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(placementsSheet, cell, v); err != nil {
					return err
				}
			}
			rowNum++
		}
	}

	if err := writeSummarySheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.PackResult) error {
	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Bins Used", result.BinsUsed()},
		{"Items Placed", result.PlacedCount()},
		{"Unplaced Items", len(result.Unplaced)},
		{"Overall Efficiency %", result.TotalEfficiency()},
		{"Search Attempts", result.Stats.Attempts},
		{"Best Ordering", result.Stats.SortLabel},
	}

	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}

	if len(result.Unplaced) > 0 {
		start := len(rows) + 2
		cell, _ := excelize.CoordinatesToCellName(1, start)
		if err := f.SetCellValue(summarySheet, cell, "Unplaced"); err != nil {
			return err
		}
		for i, item := range result.Unplaced {
			cell, err := excelize.CoordinatesToCellName(1, start+1+i)
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s (%.0f x %.0f)", item.Label, item.Width, item.Height)
			if err := f.SetCellValue(summarySheet, cell, text); err != nil {
				return err
			}
		}
	}

	return nil
}
