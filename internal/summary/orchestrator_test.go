package summary

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"gomcmc/domain/core"
	"gomcmc/domain/mcmc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeArray builds an n x m x k array of N(offset[v], 1) draws
func makeArray(seed int64, n, m int, offsets []float64, names []string) mcmc.Array {
	rng := rand.New(rand.NewSource(seed))
	draws := make([][][]float64, n)
	for i := range draws {
		draws[i] = make([][]float64, m)
		for j := range draws[i] {
			draws[i][j] = make([]float64, len(offsets))
			for v, off := range offsets {
				draws[i][j][v] = rng.NormFloat64() + off
			}
		}
	}
	return mcmc.New(draws, names)
}

func TestSummarize_MultiChainColumns(t *testing.T) {
	arr := makeArray(1, 200, 3, []float64{0, 5}, []string{"mu", "tau"})

	table, err := Summarize(context.Background(), arr, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"mean", "sd", "2.5%", "25%", "50%", "75%", "97.5%", "Rhat", "n.eff"}, table.Columns)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "mu", table.Rows[0].Name)
	assert.Equal(t, "tau", table.Rows[1].Name)
	assert.InDelta(t, 0, table.Rows[0].Mean, 0.2)
	assert.InDelta(t, 5, table.Rows[1].Mean, 0.2)
	assert.InDelta(t, 1, table.Rows[0].SD, 0.2)

	for _, row := range table.Rows {
		require.NotNil(t, row.Convergence)
		assert.Nil(t, row.Convergence.Rupper, "Rupper must be absent unless requested")
		assert.Greater(t, row.Convergence.ESS, 0.0)
		assert.LessOrEqual(t, row.Convergence.ESS, 300.0) // m * floor(n/2)
	}
}

func TestSummarize_UpperBoundColumn(t *testing.T) {
	arr := makeArray(2, 200, 2, []float64{0}, nil)

	table, err := Summarize(context.Background(), arr, Options{UpperBound: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"mean", "sd", "2.5%", "25%", "50%", "75%", "97.5%", "Rhat", "Rupper", "n.eff"}, table.Columns)
	conv := table.Rows[0].Convergence
	require.NotNil(t, conv)
	require.NotNil(t, conv.Rupper)
	assert.GreaterOrEqual(t, *conv.Rupper, conv.Rhat)
}

func TestSummarize_SingleChain(t *testing.T) {
	arr := makeArray(3, 100, 1, []float64{0}, nil)

	table, err := Summarize(context.Background(), arr, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"mean", "sd", "2.5%", "25%", "50%", "75%", "97.5%"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Nil(t, table.Rows[0].Convergence, "single-chain rows carry no convergence diagnostics")
	assert.Equal(t, "V1", table.Rows[0].Name)
}

func TestSummarize_BurnInDiscard(t *testing.T) {
	// First half of every chain sits at +100, second half at 0.
	n, m := 400, 2
	rng := rand.New(rand.NewSource(4))
	draws := make([][][]float64, n)
	for i := range draws {
		off := 0.0
		if i < n/2 {
			off = 100
		}
		draws[i] = make([][]float64, m)
		for j := range draws[i] {
			draws[i][j] = []float64{rng.NormFloat64() + off}
		}
	}
	arr := mcmc.New(draws, nil)

	table, err := Summarize(context.Background(), arr, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0, table.Rows[0].Mean, 0.5, "burn-in half should be discarded")

	kept, err := Summarize(context.Background(), arr, Options{KeepAll: true})
	require.NoError(t, err)
	assert.InDelta(t, 50, kept.Rows[0].Mean, 5, "keep-all should retain the warm-up prefix")
}

func TestSummarize_AutoLogMatchesIdentityQuantiles(t *testing.T) {
	// All-positive draws: auto-detection picks log, and the inverted
	// quantiles must agree with plain identity-scale quantiles.
	n, m := 500, 2
	rng := rand.New(rand.NewSource(6))
	draws := make([][][]float64, n)
	for i := range draws {
		draws[i] = make([][]float64, m)
		for j := range draws[i] {
			draws[i][j] = []float64{math.Exp(rng.NormFloat64())}
		}
	}
	arr := mcmc.New(draws, nil)

	auto, err := Summarize(context.Background(), arr, Options{})
	require.NoError(t, err)
	identity, err := Summarize(context.Background(), arr, Options{Transforms: []string{""}})
	require.NoError(t, err)

	for i := range auto.Rows[0].Quantiles {
		assert.InDelta(t, identity.Rows[0].Quantiles[i], auto.Rows[0].Quantiles[i], 0.05)
	}
	// Mean and sd are computed on the untransformed draws either way.
	assert.Equal(t, identity.Rows[0].Mean, auto.Rows[0].Mean)
	assert.Equal(t, identity.Rows[0].SD, auto.Rows[0].SD)
}

func TestSummarize_2DPromotion(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	matrix := make([][]float64, 100)
	for i := range matrix {
		matrix[i] = []float64{rng.NormFloat64(), rng.NormFloat64()}
	}

	table, err := Summarize(context.Background(), mcmc.From2D(matrix), Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1, "2-D input is a single variable")
	require.NotNil(t, table.Rows[0].Convergence, "columns of a 2-D input are chains")
}

func TestSummarize_InvalidTransformHint(t *testing.T) {
	arr := makeArray(9, 50, 2, []float64{0}, nil)

	_, err := Summarize(context.Background(), arr, Options{Transforms: []string{"sqrt"}})
	require.Error(t, err)
	assert.True(t, core.IsTransformError(err), "got %v", err)
}

func TestSummarize_TransformHintCountMismatch(t *testing.T) {
	arr := makeArray(10, 50, 2, []float64{0, 1}, nil)

	_, err := Summarize(context.Background(), arr, Options{Transforms: []string{"log"}})
	require.Error(t, err)
	assert.True(t, core.IsShapeError(err), "got %v", err)
}

func TestSummarize_DeclaredChainMismatch(t *testing.T) {
	arr := makeArray(11, 50, 2, []float64{0}, nil)

	_, err := Summarize(context.Background(), arr, Options{NChains: 5})
	require.Error(t, err)
	assert.True(t, core.IsShapeError(err), "got %v", err)
}

func TestSummarize_AbortsOnNonFiniteVariable(t *testing.T) {
	arr := makeArray(12, 100, 2, []float64{0, 0}, []string{"good", "bad"})
	// Poison the second variable inside the kept half.
	arr.Draws[90][0][1] = math.NaN()

	table, err := Summarize(context.Background(), arr, Options{})
	require.Error(t, err)
	assert.True(t, core.IsInputError(err), "got %v", err)
	assert.Contains(t, err.Error(), "bad")
	assert.Empty(t, table.Rows, "no partial table on failure")
}

func TestSummarize_TooFewIterations(t *testing.T) {
	arr := mcmc.New([][][]float64{{{1}, {2}}}, nil)

	_, err := Summarize(context.Background(), arr, Options{})
	require.Error(t, err)
	assert.True(t, core.IsInputError(err), "got %v", err)
}

func TestSummarize_SerialMatchesParallel(t *testing.T) {
	arr := makeArray(13, 200, 3, []float64{0, 1, 2, 3}, nil)

	serial, err := Summarize(context.Background(), arr, Options{Workers: 1})
	require.NoError(t, err)
	parallel, err := Summarize(context.Background(), arr, Options{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel, "scheduling must not change the table")
}
