package excel

import (
	"fmt"
	"log"
	"math"

	"gomcmc/domain/mcmc"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet summaries are written to
const SheetName = "Summary"

// WriteSummary writes a summary table to an .xlsx workbook: bold header row,
// one row per variable, numeric cells. Non-finite diagnostics (a divergent
// Rhat) are written as text so the workbook stays loadable.
func WriteSummary(s mcmc.Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(s.Columns)+1)
	header = append(header, "")
	for _, c := range s.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.Columns)+1, 1)
	if err != nil {
		return fmt.Errorf("resolve header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range s.Rows {
		cells := make([]interface{}, 0, len(s.Columns)+1)
		cells = append(cells, row.Name)
		for _, v := range s.RowValues(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				cells = append(cells, fmt.Sprintf("%v", v))
				continue
			}
			cells = append(cells, v)
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolve row %d: %w", i, err)
		}
		if err := f.SetSheetRow(SheetName, addr, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	log.Printf("[excel] wrote %d-row summary to %s", len(s.Rows), path)
	return nil
}
