package diagnostics

import (
	"math"
	"sort"

	"gomcmc/domain/core"
	"gomcmc/domain/mcmc"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// upperBoundProb is the confidence level of the Rupper interval
const upperBoundProb = 0.975

// Diagnose computes the convergence diagnostics for one variable's sample
// matrix. The five pooled quantiles are always returned; the scale-reduction
// factor, optional upper bound and effective sample size only for multi-chain
// input. Purely functional: the matrix is not modified.
func Diagnose(chains mcmc.Chains, multiChain, wantUpper bool) (mcmc.Diagnostics, error) {
	if err := validate(chains, multiChain); err != nil {
		return mcmc.Diagnostics{}, err
	}

	pooled := chains.Pool()
	sort.Float64s(pooled)

	var d mcmc.Diagnostics
	for i, p := range mcmc.QuantileProbs {
		d.Quantiles[i] = stat.Quantile(p, stat.LinInterp, pooled, nil)
	}

	if !multiChain {
		return d, nil
	}

	conv := decompose(chains, wantUpper)
	d.Convergence = &conv
	return d, nil
}

// validate rejects matrices the diagnostics are undefined for
func validate(chains mcmc.Chains, multiChain bool) error {
	if len(chains) == 0 {
		return core.NewShapeError("no chains")
	}
	if multiChain && len(chains) < 2 {
		return core.ErrTooFewChains
	}
	n := len(chains[0])
	if n < 2 {
		return core.ErrTooFewIterations
	}
	for j, chain := range chains {
		if len(chain) != n {
			return core.NewShapeError("chains have unequal lengths")
		}
		for i, v := range chain {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return core.NewNonFiniteError(j, i)
			}
		}
	}
	return nil
}

// decompose runs the between/within variance decomposition of Gelman & Rubin
// and derives Rhat, the optional Brooks-Gelman upper bound, and the effective
// sample size.
func decompose(chains mcmc.Chains, wantUpper bool) mcmc.Convergence {
	m := float64(len(chains))
	n := float64(chains.Iterations())

	chainMeans := make([]float64, len(chains))
	chainVars := make([]float64, len(chains))
	for j, chain := range chains {
		chainMeans[j], _ = stats.Mean(chain)
		chainVars[j], _ = stats.SampleVariance(chain)
	}

	grand, _ := stats.Mean(chainMeans)

	// B = n/(m-1) * sum_j (mean_j - grand)^2
	b := 0.0
	for _, mu := range chainMeans {
		b += (mu - grand) * (mu - grand)
	}
	b *= n / (m - 1)

	// W = mean of the per-chain unbiased variances
	w, _ := stats.Mean(chainVars)

	// Pooled posterior-variance estimate
	varHat := (n-1)/n*w + b/n

	var conv mcmc.Convergence
	switch {
	case w > 0:
		conv.Rhat = math.Sqrt(varHat / w)
	case b > 0:
		// Constant chains stuck at different values: no detectable mixing.
		conv.Rhat = math.Inf(1)
	default:
		// All draws identical: no detectable discrepancy.
		conv.Rhat = 1
	}

	if b > 0 {
		conv.ESS = m * n * math.Min(varHat/b, 1)
	} else {
		conv.ESS = m * n
	}

	if wantUpper {
		u := upperBound(conv.Rhat, chainVars, w, b, n, m)
		conv.Rupper = &u
	}
	return conv
}

// upperBound computes the Brooks-Gelman (1998) 97.5% upper bound on the
// scale-reduction factor. The within-variance estimate gets a degrees-of-
// freedom correction from the spread of the per-chain variances, and the
// between/within ratio is scaled by the matching F quantile.
func upperBound(rhat float64, chainVars []float64, w, b, n, m float64) float64 {
	if w <= 0 {
		// Degenerate decomposition: the bound adds nothing beyond Rhat.
		return rhat
	}

	d1 := m - 1
	varW, _ := stats.SampleVariance(chainVars)

	var q float64
	if varW > 0 {
		// W is a mean of m chi-squared-ish variances, giving it
		// 2*W^2/(var(s2)/m) degrees of freedom.
		d2 := 2 * m * w * w / varW
		q = distuv.F{D1: d1, D2: d2}.Quantile(upperBoundProb)
	} else {
		// var(s2) == 0 collapses the F to a scaled chi-squared.
		q = distuv.ChiSquared{K: d1}.Quantile(upperBoundProb) / d1
	}

	u := math.Sqrt((n-1)/n + (1+1/m)*(b/w)/n*q)
	return math.Max(u, rhat)
}
