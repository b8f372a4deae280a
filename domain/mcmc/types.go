package mcmc

import (
	"fmt"
	"math"

	"gomcmc/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// QuantileProbs are the five probabilities every diagnostic row reports.
var QuantileProbs = [5]float64{0.025, 0.25, 0.50, 0.75, 0.975}

// QuantileLabels are the column labels matching QuantileProbs.
var QuantileLabels = [5]string{"2.5%", "25%", "50%", "75%", "97.5%"}

// Array is raw simulation output: draws indexed [iteration][chain][variable].
// INVARIANTS:
// - at least 2 iterations, at least 1 chain
// - rectangular: every iteration has the same chain count, every chain slot
//   the same variable count
// - Names, when present, has one label per variable
type Array struct {
	Draws [][][]float64 `json:"draws"`
	Names []string      `json:"names,omitempty"`
}

// New creates an Array from a 3-D draws slice and optional variable labels
func New(draws [][][]float64, names []string) Array {
	return Array{Draws: draws, Names: names}
}

// From2D promotes an iteration x chain matrix to a one-variable Array
func From2D(draws [][]float64) Array {
	out := make([][][]float64, len(draws))
	for i, row := range draws {
		out[i] = make([][]float64, len(row))
		for j, v := range row {
			out[i][j] = []float64{v}
		}
	}
	return Array{Draws: out}
}

// Iterations returns n, the iteration count
func (a Array) Iterations() int { return len(a.Draws) }

// NumChains returns m, the chain count
func (a Array) NumChains() int {
	if len(a.Draws) == 0 {
		return 0
	}
	return len(a.Draws[0])
}

// NumVariables returns k, the variable count
func (a Array) NumVariables() int {
	if len(a.Draws) == 0 || len(a.Draws[0]) == 0 {
		return 0
	}
	return len(a.Draws[0][0])
}

// Name returns the label for variable v, defaulting to V1..Vk
func (a Array) Name(v int) string {
	if v < len(a.Names) && a.Names[v] != "" {
		return a.Names[v]
	}
	return fmt.Sprintf("V%d", v+1)
}

// Validate checks the Array invariants
func (a Array) Validate() error {
	n := a.Iterations()
	if n < 2 {
		return core.ErrTooFewIterations
	}
	m := a.NumChains()
	if m < 1 {
		return core.NewShapeError("no chains")
	}
	k := a.NumVariables()
	if k < 1 {
		return core.NewShapeError("no variables")
	}
	for i, iter := range a.Draws {
		if len(iter) != m {
			return core.NewShapeError(fmt.Sprintf("iteration %d has %d chains, want %d", i, len(iter), m))
		}
		for j, vars := range iter {
			if len(vars) != k {
				return core.NewShapeError(fmt.Sprintf("iteration %d chain %d has %d variables, want %d", i, j, len(vars), k))
			}
		}
	}
	if a.Names != nil && len(a.Names) != k {
		return core.NewShapeError(fmt.Sprintf("%d variable labels for %d variables", len(a.Names), k))
	}
	return nil
}

// DiscardBurnIn drops the warm-up prefix, keeping the last floor(n/2)
// iterations. For odd n the extra leading iteration is dropped as well.
func (a Array) DiscardBurnIn() Array {
	n := len(a.Draws)
	keep := n / 2
	return Array{Draws: a.Draws[n-keep:], Names: a.Names}
}

// VariableChains extracts variable v as a chain-major sample matrix
func (a Array) VariableChains(v int) Chains {
	n, m := a.Iterations(), a.NumChains()
	chains := make(Chains, m)
	for j := 0; j < m; j++ {
		chains[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			chains[j][i] = a.Draws[i][j][v]
		}
	}
	return chains
}

// Chains is one variable's sample matrix, indexed [chain][iteration].
// Transient: built fresh per variable and discarded after its diagnostics.
type Chains [][]float64

// Iterations returns the per-chain draw count
func (c Chains) Iterations() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0])
}

// Pool concatenates all chains into a single draw vector
func (c Chains) Pool() []float64 {
	pooled := make([]float64, 0, len(c)*c.Iterations())
	for _, chain := range c {
		pooled = append(pooled, chain...)
	}
	return pooled
}

// ============================================================================
// TRANSFORMS
// ============================================================================

// Transform is the monotone reparametrization applied before diagnostics
type Transform int

const (
	TransformNone Transform = iota
	TransformLog
	TransformLogit
)

// ParseTransform maps a caller hint to a Transform, verbatim
func ParseTransform(hint string) (Transform, error) {
	switch hint {
	case "":
		return TransformNone, nil
	case "log":
		return TransformLog, nil
	case "logit":
		return TransformLogit, nil
	default:
		return TransformNone, core.NewTransformError(hint)
	}
}

// String returns the hint form of the transform
func (t Transform) String() string {
	switch t {
	case TransformLog:
		return "log"
	case TransformLogit:
		return "logit"
	default:
		return ""
	}
}

// Apply maps a draw onto the transformed scale
func (t Transform) Apply(x float64) float64 {
	switch t {
	case TransformLog:
		return math.Log(x)
	case TransformLogit:
		return math.Log(x / (1 - x))
	default:
		return x
	}
}

// Invert maps a transformed value back to the original scale
func (t Transform) Invert(x float64) float64 {
	switch t {
	case TransformLog:
		return math.Exp(x)
	case TransformLogit:
		return 1 / (1 + math.Exp(-x))
	default:
		return x
	}
}

// ============================================================================
// DIAGNOSTIC RESULTS
// ============================================================================

// Convergence holds the multi-chain diagnostics for one variable.
// Rupper is present only when the upper confidence bound was requested.
type Convergence struct {
	Rhat   float64  `json:"rhat"`
	Rupper *float64 `json:"rupper,omitempty"`
	ESS    float64  `json:"n_eff"`
}

// Diagnostics is the per-variable engine result. Convergence is nil for
// single-chain input: the fields are absent, not zero-filled.
type Diagnostics struct {
	Quantiles   [5]float64   `json:"quantiles"`
	Convergence *Convergence `json:"convergence,omitempty"`
}

// ============================================================================
// SUMMARY TABLE
// ============================================================================

// Row is one variable's line in the summary table
type Row struct {
	Name        string       `json:"name"`
	Mean        float64      `json:"mean"`
	SD          float64      `json:"sd"`
	Quantiles   [5]float64   `json:"quantiles"`
	Convergence *Convergence `json:"convergence,omitempty"`
}

// Summary is the assembled output table: one row per variable, column set
// depending on chain count and whether the upper bound was requested.
type Summary struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Columns enumerates the column labels for a table shape
func Columns(multiChain, upperBound bool) []string {
	cols := append([]string{"mean", "sd"}, QuantileLabels[:]...)
	if !multiChain {
		return cols
	}
	cols = append(cols, "Rhat")
	if upperBound {
		cols = append(cols, "Rupper")
	}
	return append(cols, "n.eff")
}

// RowValues returns row i's numeric cells in column order
func (s Summary) RowValues(i int) []float64 {
	r := s.Rows[i]
	vals := make([]float64, 0, len(s.Columns))
	vals = append(vals, r.Mean, r.SD)
	vals = append(vals, r.Quantiles[:]...)
	if r.Convergence != nil {
		vals = append(vals, r.Convergence.Rhat)
		if r.Convergence.Rupper != nil {
			vals = append(vals, *r.Convergence.Rupper)
		}
		vals = append(vals, r.Convergence.ESS)
	}
	return vals
}
