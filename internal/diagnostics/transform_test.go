package diagnostics

import (
	"math"
	"math/rand"
	"testing"

	"gomcmc/domain/mcmc"
)

// TestSelectTransform_AllPositive verifies strictly positive draws auto-select
// the log transform
func TestSelectTransform_AllPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	chains := make(mcmc.Chains, 2)
	for j := range chains {
		chains[j] = make([]float64, 100)
		for i := range chains[j] {
			chains[j][i] = math.Exp(rng.NormFloat64())
		}
	}

	if tr := SelectTransform(chains); tr != mcmc.TransformLog {
		t.Errorf("Expected log transform for all-positive draws, got %q", tr)
	}
}

// TestSelectTransform_NonPositive verifies any zero or negative draw falls
// back to identity
func TestSelectTransform_NonPositive(t *testing.T) {
	tests := []struct {
		name   string
		chains mcmc.Chains
	}{
		{"contains zero", mcmc.Chains{{1, 2, 0}, {3, 4, 5}}},
		{"contains negative", mcmc.Chains{{1, 2, 3}, {-0.1, 4, 5}}},
		{"empty", mcmc.Chains{}},
	}
	for _, tc := range tests {
		if tr := SelectTransform(tc.chains); tr != mcmc.TransformNone {
			t.Errorf("%s: expected identity transform, got %q", tc.name, tr)
		}
	}
}

// TestSelectTransform_NeverLogit confirms logit requires an explicit hint
func TestSelectTransform_NeverLogit(t *testing.T) {
	// Draws strictly inside (0,1) are still just "strictly positive".
	chains := mcmc.Chains{{0.1, 0.5, 0.9}, {0.2, 0.4, 0.8}}
	if tr := SelectTransform(chains); tr != mcmc.TransformLog {
		t.Errorf("Expected log for (0,1) draws without a hint, got %q", tr)
	}
}

// TestApplyTransform_Identity verifies identity passes the matrix through
func TestApplyTransform_Identity(t *testing.T) {
	chains := mcmc.Chains{{1, 2}, {3, 4}}
	out := ApplyTransform(mcmc.TransformNone, chains)
	for j := range chains {
		for i := range chains[j] {
			if out[j][i] != chains[j][i] {
				t.Fatalf("Identity transform changed draws: %v vs %v", out, chains)
			}
		}
	}
}

// TestApplyTransform_LogLeavesInputUntouched verifies the caller's matrix is
// not modified
func TestApplyTransform_LogLeavesInputUntouched(t *testing.T) {
	chains := mcmc.Chains{{1, math.E}, {math.E * math.E, 1}}
	out := ApplyTransform(mcmc.TransformLog, chains)

	if chains[0][1] != math.E {
		t.Error("ApplyTransform modified the input matrix")
	}
	if math.Abs(out[0][1]-1) > 1e-12 || math.Abs(out[1][0]-2) > 1e-12 {
		t.Errorf("Unexpected log-transformed draws: %v", out)
	}
}

// TestTransform_ScalarRoundTrip checks Invert(Apply(x)) recovers x
func TestTransform_ScalarRoundTrip(t *testing.T) {
	logValues := []float64{0.01, 0.5, 1, 2, 100}
	for _, x := range logValues {
		got := mcmc.TransformLog.Invert(mcmc.TransformLog.Apply(x))
		if math.Abs(got-x) > 1e-12*x {
			t.Errorf("log round-trip of %f gave %f", x, got)
		}
	}

	logitValues := []float64{0.01, 0.25, 0.5, 0.75, 0.99}
	for _, x := range logitValues {
		got := mcmc.TransformLogit.Invert(mcmc.TransformLogit.Apply(x))
		if math.Abs(got-x) > 1e-12 {
			t.Errorf("logit round-trip of %f gave %f", x, got)
		}
	}
}

// TestDiagnose_LogTransformQuantileRoundTrip verifies that diagnosing on the
// log scale and inverting the quantiles matches diagnosing the raw draws
func TestDiagnose_LogTransformQuantileRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	chains := make(mcmc.Chains, 2)
	for j := range chains {
		chains[j] = make([]float64, 500)
		for i := range chains[j] {
			chains[j][i] = math.Exp(rng.NormFloat64())
		}
	}

	raw, err := Diagnose(chains, true, false)
	if err != nil {
		t.Fatalf("Diagnose raw failed: %v", err)
	}
	logged, err := Diagnose(ApplyTransform(mcmc.TransformLog, chains), true, false)
	if err != nil {
		t.Fatalf("Diagnose transformed failed: %v", err)
	}

	for i := range logged.Quantiles {
		back := mcmc.TransformLog.Invert(logged.Quantiles[i])
		if math.Abs(back-raw.Quantiles[i]) > 0.02 {
			t.Errorf("Quantile %d round-trip mismatch: %f vs %f",
				i, back, raw.Quantiles[i])
		}
	}
}
