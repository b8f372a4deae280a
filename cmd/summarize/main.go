package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"gomcmc/adapters/csvio"
	"gomcmc/adapters/excel"
	"gomcmc/domain/mcmc"
	"gomcmc/domain/run"
	"gomcmc/internal/summary"

	"github.com/joho/godotenv"
)

const codeVersion = "0.1.0"

func main() {
	// Local .env overrides are optional; missing file is fine.
	_ = godotenv.Load()

	in := flag.String("in", envString("SUMMARIZE_IN", ""), "input draws file (.csv or .xlsx)")
	sheet := flag.String("sheet", envString("SUMMARIZE_SHEET", "Sheet1"), "xlsx sheet name")
	chains := flag.Int("chains", envInt("SUMMARIZE_CHAINS", 0), "chain count for stacked input without a chain column")
	transforms := flag.String("transforms", envString("SUMMARIZE_TRANSFORMS", ""), "comma-separated per-variable hints (\"\", log, logit); empty for auto")
	keepAll := flag.Bool("keep-all", envBool("SUMMARIZE_KEEP_ALL", false), "keep all iterations instead of discarding the first half")
	upper := flag.Bool("upper", envBool("SUMMARIZE_UPPER", false), "report the 97.5% upper bound on Rhat")
	workers := flag.Int("workers", envInt("SUMMARIZE_WORKERS", 0), "per-variable parallelism (0 = GOMAXPROCS)")
	xlsxOut := flag.String("xlsx", envString("SUMMARIZE_XLSX", ""), "optional .xlsx output path")
	manifestOut := flag.String("manifest", envString("SUMMARIZE_MANIFEST", ""), "optional run manifest output path (.json)")
	flag.Parse()

	if strings.TrimSpace(*in) == "" {
		fmt.Fprintln(os.Stderr, "-in is required")
		os.Exit(2)
	}

	arr, err := loadDraws(*in, *sheet, *chains)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading draws:", err)
		os.Exit(1)
	}

	opts := summary.Options{
		KeepAll:    *keepAll,
		UpperBound: *upper,
		Workers:    *workers,
	}
	var hints []string
	if strings.TrimSpace(*transforms) != "" {
		hints = strings.Split(*transforms, ",")
		for i := range hints {
			hints[i] = strings.TrimSpace(hints[i])
		}
		opts.Transforms = hints
	}

	table, err := summary.Summarize(context.Background(), arr, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error summarizing draws:", err)
		os.Exit(1)
	}

	printTable(table)

	if *xlsxOut != "" {
		if err := excel.WriteSummary(table, *xlsxOut); err != nil {
			fmt.Fprintln(os.Stderr, "error writing workbook:", err)
			os.Exit(1)
		}
	}
	if *manifestOut != "" {
		m := run.NewManifest(*in, arr, *keepAll, *upper, hints, codeVersion)
		if err := m.WriteFile(*manifestOut); err != nil {
			fmt.Fprintln(os.Stderr, "error writing manifest:", err)
			os.Exit(1)
		}
	}
}

// loadDraws picks the reader by file extension
func loadDraws(path, sheet string, nChains int) (mcmc.Array, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return excel.ReadDraws(path, sheet, nChains)
	case ".csv":
		return csvio.ReadDraws(path, nChains)
	default:
		return mcmc.Array{}, fmt.Errorf("unsupported input extension: %s", filepath.Ext(path))
	}
}

// printTable renders the summary as an aligned text table
func printTable(s mcmc.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\n", strings.Join(s.Columns, "\t"))
	for i, row := range s.Rows {
		cells := make([]string, 0, len(s.Columns))
		for ci, v := range s.RowValues(i) {
			if s.Columns[ci] == "n.eff" {
				cells = append(cells, formatCell(v, 1))
				continue
			}
			cells = append(cells, formatCell(v, 3))
		}
		fmt.Fprintf(w, "%s\t%s\n", row.Name, strings.Join(cells, "\t"))
	}
	w.Flush()
}

func formatCell(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Env helpers for .env-driven defaults

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
