package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/probe"
	"github.com/quantmind-br/mpager/internal/registry"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// maxSuggestionDistance is the largest edit distance offered as a "did you mean" hint
const maxSuggestionDistance = 2

// Options configures a Policy
type Options struct {
	// Concurrency is the number of candidates probed at once (1 probes strictly one by one)
	Concurrency int
}

// Policy picks exactly one candidate, or none
type Policy struct {
	prober      probe.Prober
	registry    *registry.Registry
	concurrency int
	logger      *zerolog.Logger
}

// New creates a selection policy
func New(prober probe.Prober, reg *registry.Registry, opts Options, log *zerolog.Logger) *Policy {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Policy{
		prober:      prober,
		registry:    reg,
		concurrency: opts.Concurrency,
		logger:      log,
	}
}

// Select chooses a candidate.
//
// An OverridePrefer override is probed first (as an ad-hoc candidate when it
// is not in the list) and wins when available; otherwise an OverrideInvalid
// warning is logged and the default order is used. An OverrideReplace
// override substitutes the candidate list. Candidates are then probed in
// priority order, ties keeping list order, and probing stops at the first
// available one.
//
// The only error returned is the context's, when selection is interrupted;
// the selection is then empty.
func (p *Policy) Select(ctx context.Context, candidates []core.Candidate, override core.Override) (core.Selection, error) {
	var sel core.Selection

	if err := ctx.Err(); err != nil {
		return core.Selection{}, err
	}

	skip := ""
	switch override.Kind {
	case core.OverridePrefer:
		result, err := p.tryPreferred(ctx, candidates, override.Command)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return core.Selection{}, ctxErr
		}
		if result != nil {
			sel.Probes = append(sel.Probes, *result)
			if result.Available() {
				sel.Chosen = result
				p.logChoice(sel)
				return sel, nil
			}
			skip = result.Candidate.Name
		}
		sel.OverrideErr = err
		p.warnOverride(err, candidates)

	case core.OverrideReplace:
		replaced := p.registry.FromCommands(override.Order, core.SourceOverride)
		if len(replaced) == 0 {
			sel.OverrideErr = &core.Error{
				Kind: core.KindOverrideInvalid,
				Err:  fmt.Errorf("replacement order %q has no usable entries", override.Order),
			}
			p.warnOverride(sel.OverrideErr, candidates)
			break
		}
		candidates = replaced
	}

	ordered := Ordered(candidates)
	queue := make([]core.Candidate, 0, len(ordered))
	for _, c := range ordered {
		if c.Name != skip {
			queue = append(queue, c)
		}
	}

	for start := 0; start < len(queue); start += p.concurrency {
		end := min(start+p.concurrency, len(queue))
		results := p.probeWindow(ctx, queue[start:end])
		if err := ctx.Err(); err != nil {
			return core.Selection{}, err
		}

		for i := range results {
			sel.Probes = append(sel.Probes, results[i])
			if results[i].Available() && sel.Chosen == nil {
				chosen := results[i]
				sel.Chosen = &chosen
			}
		}
		if sel.Chosen != nil {
			p.logChoice(sel)
			return sel, nil
		}
	}

	p.logger.Debug().
		Strs("tried", sel.Tried()).
		Msg("no candidate available")
	return sel, nil
}

// tryPreferred probes the override. It returns the probe result when the
// override could be probed, and an OverrideInvalid error when it is not usable.
func (p *Policy) tryPreferred(ctx context.Context, candidates []core.Candidate, command string) (*core.ProbeResult, error) {
	adhoc, err := registry.Parse(command, core.SourceOverride)
	if err != nil {
		return nil, &core.Error{Kind: core.KindOverrideInvalid, Candidate: command, Err: err}
	}

	target := adhoc
	for _, c := range candidates {
		if c.Name == adhoc.Name {
			target = c
			// explicit arguments on the override beat the registered ones
			if len(adhoc.Args) > 0 {
				target.Args = adhoc.Args
			}
			break
		}
	}

	result := p.prober.Probe(ctx, target)
	if result.Available() {
		return &result, nil
	}
	return &result, &core.Error{Kind: core.KindOverrideInvalid, Candidate: adhoc.Name, Err: result.Err()}
}

func (p *Policy) probeWindow(ctx context.Context, window []core.Candidate) []core.ProbeResult {
	results := make([]core.ProbeResult, len(window))
	if len(window) == 1 {
		results[0] = p.prober.Probe(ctx, window[0])
		return results
	}

	wp := pool.New().WithMaxGoroutines(p.concurrency)
	for i, c := range window {
		wp.Go(func() {
			results[i] = p.prober.Probe(ctx, c)
		})
	}
	wp.Wait()
	return results
}

func (p *Policy) warnOverride(err error, candidates []core.Candidate) {
	event := p.logger.Warn().
		Str("kind", string(core.KindOverrideInvalid)).
		Err(err)

	var e *core.Error
	if errors.As(err, &e) && e.Candidate != "" {
		event = event.Str("override", e.Candidate)
		if hint := Suggest(e.Candidate, registry.Names(candidates)); hint != "" {
			event = event.Str("did_you_mean", hint)
		}
	}

	event.Msg("override not usable, falling back to default order")
}

func (p *Policy) logChoice(sel core.Selection) {
	p.logger.Debug().
		Str("pager", sel.Chosen.Candidate.Name).
		Str("path", sel.Chosen.Path).
		Int("probes", len(sel.Probes)).
		Msg("pager selected")
}

// Ordered returns candidates stably sorted by priority; equal priorities keep list order
func Ordered(candidates []core.Candidate) []core.Candidate {
	out := append([]core.Candidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Suggest returns the known name closest to name, when it is close enough to be a typo
func Suggest(name string, known []string) string {
	best, bestDistance := "", maxSuggestionDistance+1
	for _, k := range known {
		if k == name {
			continue
		}
		if d := levenshtein.ComputeDistance(name, k); d < bestDistance {
			best, bestDistance = k, d
		}
	}
	return best
}
