package summary

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"gomcmc/domain/core"
	"gomcmc/domain/mcmc"
	"gomcmc/internal/diagnostics"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
)

// Options configures one summarization run
type Options struct {
	// NChains declares the expected chain count; 0 means "whatever the
	// array's chain axis says". A mismatch is a shape error.
	NChains int

	// Transforms holds one verbatim hint per variable ("", "log", "logit").
	// Nil enables per-variable auto-detection.
	Transforms []string

	// KeepAll skips the burn-in discard of the first half of iterations
	KeepAll bool

	// UpperBound requests the Brooks-Gelman upper bound column
	UpperBound bool

	// Workers bounds the per-variable parallelism; 0 means GOMAXPROCS
	Workers int
}

// Summarize computes the per-variable summary table for a draws array.
// Variables are independent, so they are fanned out across a bounded worker
// pool; the first failing variable cancels the rest and aborts the whole
// call. No partial table is ever returned.
func Summarize(ctx context.Context, arr mcmc.Array, opts Options) (mcmc.Summary, error) {
	if err := arr.Validate(); err != nil {
		return mcmc.Summary{}, err
	}

	m := arr.NumChains()
	if opts.NChains != 0 && opts.NChains != m {
		return mcmc.Summary{}, core.NewShapeError(
			fmt.Sprintf("declared %d chains, array has %d", opts.NChains, m))
	}
	k := arr.NumVariables()
	if opts.Transforms != nil && len(opts.Transforms) != k {
		return mcmc.Summary{}, core.NewShapeError(
			fmt.Sprintf("%d transform hints for %d variables", len(opts.Transforms), k))
	}

	kept := arr
	if !opts.KeepAll {
		kept = arr.DiscardBurnIn()
	}
	multi := m > 1

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		rows     = make([]mcmc.Row, k)
		sem      = semaphore.NewWeighted(int64(workers))
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for v := 0; v < k; v++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			// A previous variable failed and cancelled the run.
			break
		}
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			defer sem.Release(1)

			row, err := summarizeVariable(arr, kept, v, opts, multi)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("variable %s: %w", arr.Name(v), err)
					cancel()
				}
				mu.Unlock()
				return
			}
			rows[v] = row
		}(v)
	}
	wg.Wait()

	if firstErr != nil {
		return mcmc.Summary{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return mcmc.Summary{}, err
	}
	return mcmc.Summary{Columns: mcmc.Columns(multi, opts.UpperBound), Rows: rows}, nil
}

// summarizeVariable builds one table row. The transform is resolved against
// the full draw set, diagnostics run on the transformed post-burn-in matrix,
// and the five quantiles are mapped back to the original scale. Rhat, Rupper
// and n.eff are transform-invariant and pass through unchanged; mean and sd
// come from the untransformed post-burn-in draws.
func summarizeVariable(full, kept mcmc.Array, v int, opts Options, multi bool) (mcmc.Row, error) {
	var tr mcmc.Transform
	if opts.Transforms != nil {
		var err error
		if tr, err = mcmc.ParseTransform(opts.Transforms[v]); err != nil {
			return mcmc.Row{}, err
		}
	} else {
		tr = diagnostics.SelectTransform(full.VariableChains(v))
	}

	chains := kept.VariableChains(v)
	d, err := diagnostics.Diagnose(diagnostics.ApplyTransform(tr, chains), multi, opts.UpperBound)
	if err != nil {
		return mcmc.Row{}, err
	}
	for i := range d.Quantiles {
		d.Quantiles[i] = tr.Invert(d.Quantiles[i])
	}

	pooled := chains.Pool()
	mean, _ := stats.Mean(pooled)
	sd, _ := stats.StandardDeviationSample(pooled)

	return mcmc.Row{
		Name:        full.Name(v),
		Mean:        mean,
		SD:          sd,
		Quantiles:   d.Quantiles,
		Convergence: d.Convergence,
	}, nil
}
