package cmd

import (
	"context"

	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/probe"
	"github.com/sourcegraph/conc/pool"
)

// probeAll probes every candidate, without the short-circuit selection uses,
// so reports can show the whole list. Results keep the candidates' order.
func probeAll(ctx context.Context, p probe.Prober, candidates []core.Candidate, concurrency int) []core.ProbeResult {
	results := make([]core.ProbeResult, len(candidates))
	wp := pool.New().WithMaxGoroutines(max(concurrency, 1))
	for i, c := range candidates {
		wp.Go(func() {
			results[i] = p.Probe(ctx, c)
		})
	}
	wp.Wait()
	return results
}
