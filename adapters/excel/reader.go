package excel

import (
	"fmt"
	"log"

	"gomcmc/adapters/csvio"
	"gomcmc/domain/core"
	"gomcmc/domain/mcmc"

	"github.com/xuri/excelize/v2"
)

// ReadDraws loads a draws array from one sheet of an .xlsx workbook. The
// sheet uses the same table layout as the CSV adapter: a header row of
// variable names with an optional leading "chain" column.
func ReadDraws(path, sheet string, nChains int) (mcmc.Array, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return mcmc.Array{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return mcmc.Array{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return mcmc.Array{}, core.NewShapeError("draws sheet needs a header row and at least one data row")
	}

	arr, err := csvio.FromRows(rows[0], rows[1:], nChains)
	if err != nil {
		return mcmc.Array{}, err
	}
	log.Printf("[excel] loaded %s!%s: %d iterations x %d chains x %d variables",
		path, sheet, arr.Iterations(), arr.NumChains(), arr.NumVariables())
	return arr, nil
}
