package csvio

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gomcmc/domain/core"
	"gomcmc/domain/mcmc"
)

// ReadDraws loads a draws array from a CSV file. The header row names the
// variables; each data row is one iteration. A leading "chain" column (case
// insensitive) groups rows by chain, with chain order taken from first
// appearance. Without it the rows are split into nChains equal blocks,
// stacked chain after chain.
func ReadDraws(path string, nChains int) (mcmc.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return mcmc.Array{}, fmt.Errorf("open draws file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return mcmc.Array{}, fmt.Errorf("read draws file: %w", err)
	}
	if len(rows) < 2 {
		return mcmc.Array{}, core.NewShapeError("draws file needs a header row and at least one data row")
	}

	arr, err := FromRows(rows[0], rows[1:], nChains)
	if err != nil {
		return mcmc.Array{}, err
	}
	log.Printf("[csvio] loaded %s: %d iterations x %d chains x %d variables",
		path, arr.Iterations(), arr.NumChains(), arr.NumVariables())
	return arr, nil
}

// FromRows maps already-split table rows onto a draws array using the layout
// rules above. The xlsx adapter shares this mapping.
func FromRows(headers []string, dataRows [][]string, nChains int) (mcmc.Array, error) {
	if len(headers) == 0 || len(dataRows) == 0 {
		return mcmc.Array{}, core.NewShapeError("draws table needs a header row and at least one data row")
	}
	if strings.EqualFold(strings.TrimSpace(headers[0]), "chain") {
		return readGrouped(headers, dataRows)
	}
	return readStacked(headers, dataRows, nChains)
}

// readGrouped handles the layout with an explicit chain column
func readGrouped(headers []string, dataRows [][]string) (mcmc.Array, error) {
	names := cleanNames(headers[1:])
	k := len(names)

	chainOrder := []string{}
	perChain := map[string][][]float64{}
	for ri, row := range dataRows {
		if len(row) != k+1 {
			return mcmc.Array{}, core.NewShapeError(
				fmt.Sprintf("row %d has %d fields, want %d", ri+2, len(row), k+1))
		}
		label := strings.TrimSpace(row[0])
		if _, seen := perChain[label]; !seen {
			chainOrder = append(chainOrder, label)
		}
		draws, err := parseRow(row[1:], ri+2)
		if err != nil {
			return mcmc.Array{}, err
		}
		perChain[label] = append(perChain[label], draws)
	}

	n := len(perChain[chainOrder[0]])
	for _, label := range chainOrder {
		if len(perChain[label]) != n {
			return mcmc.Array{}, core.NewShapeError(
				fmt.Sprintf("chain %q has %d iterations, chain %q has %d",
					label, len(perChain[label]), chainOrder[0], n))
		}
	}

	m := len(chainOrder)
	draws := make([][][]float64, n)
	for i := 0; i < n; i++ {
		draws[i] = make([][]float64, m)
		for j, label := range chainOrder {
			draws[i][j] = perChain[label][i]
		}
	}
	return mcmc.New(draws, names), nil
}

// readStacked handles the layout without a chain column: nChains equal
// blocks of iterations, one block per chain.
func readStacked(headers []string, dataRows [][]string, nChains int) (mcmc.Array, error) {
	if nChains < 1 {
		nChains = 1
	}
	if len(dataRows)%nChains != 0 {
		return mcmc.Array{}, core.NewShapeError(
			fmt.Sprintf("%d rows do not divide into %d chains", len(dataRows), nChains))
	}
	names := cleanNames(headers)
	k := len(names)
	n := len(dataRows) / nChains

	draws := make([][][]float64, n)
	for i := range draws {
		draws[i] = make([][]float64, nChains)
	}
	for ri, row := range dataRows {
		if len(row) != k {
			return mcmc.Array{}, core.NewShapeError(
				fmt.Sprintf("row %d has %d fields, want %d", ri+2, len(row), k))
		}
		vals, err := parseRow(row, ri+2)
		if err != nil {
			return mcmc.Array{}, err
		}
		draws[ri%n][ri/n] = vals
	}
	return mcmc.New(draws, names), nil
}

func parseRow(fields []string, line int) ([]float64, error) {
	vals := make([]float64, len(fields))
	for ci, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %d: %w", line, ci+1, err)
		}
		vals[ci] = v
	}
	return vals, nil
}

func cleanNames(headers []string) []string {
	names := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("V%d", i+1)
		}
		names[i] = h
	}
	return names
}
