package diagnostics

import (
	"gomcmc/domain/mcmc"
)

// SelectTransform auto-detects the variance-stabilizing transform for one
// variable: log when every draw is strictly positive, identity otherwise.
// Logit is never auto-selected since positivity alone does not imply a (0,1)
// domain; it must come from an explicit caller hint. Selection looks at the
// full draw set, before any burn-in discard.
func SelectTransform(chains mcmc.Chains) mcmc.Transform {
	if len(chains) == 0 || chains.Iterations() == 0 {
		return mcmc.TransformNone
	}
	for _, chain := range chains {
		for _, v := range chain {
			if !(v > 0) {
				return mcmc.TransformNone
			}
		}
	}
	return mcmc.TransformLog
}

// ApplyTransform maps a sample matrix onto the transformed scale. The
// identity transform returns the matrix unchanged; otherwise a fresh matrix
// is built so the caller's draws stay untouched.
func ApplyTransform(t mcmc.Transform, chains mcmc.Chains) mcmc.Chains {
	if t == mcmc.TransformNone {
		return chains
	}
	out := make(mcmc.Chains, len(chains))
	for j, chain := range chains {
		out[j] = make([]float64, len(chain))
		for i, v := range chain {
			out[j][i] = t.Apply(v)
		}
	}
	return out
}
