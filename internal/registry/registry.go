package registry

import (
	"fmt"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/security"
	"github.com/rs/zerolog"
)

// builtins is the documented default order. Changing it changes which pager users get.
var builtins = []core.Candidate{
	{Name: "less", Args: []string{"-R"}, Probe: core.ProbeStrategy{Kind: core.ProbeLiveness, Args: []string{"--version"}}},
	{Name: "moar", Probe: core.ProbeStrategy{Kind: core.ProbeLiveness, Args: []string{"--version"}}},
	{Name: "ov", Probe: core.ProbeStrategy{Kind: core.ProbeLiveness, Args: []string{"--version"}}},
	// most and more have no portable flag that exits without paging
	{Name: "most", Probe: core.ProbeStrategy{Kind: core.ProbePath}},
	{Name: "more", Probe: core.ProbeStrategy{Kind: core.ProbePath}},
}

// Builtins returns a copy of the built-in candidates in default order
func Builtins() []core.Candidate {
	out := make([]core.Candidate, len(builtins))
	for i, c := range builtins {
		c.Priority = i + 1
		c.Source = core.SourceBuiltin
		out[i] = clone(c)
	}
	return out
}

// Registry merges configured and built-in candidates
type Registry struct {
	logger *zerolog.Logger
}

// New creates a candidate registry
func New(log *zerolog.Logger) *Registry {
	return &Registry{logger: log}
}

// ListCandidates returns the merged candidate list: configured entries first in
// the order given, then the built-ins, without duplicate program names (first
// occurrence wins). Priority is the 1-based position in the result.
// Invalid configured entries are logged and skipped; the call never fails.
func (r *Registry) ListCandidates(cfg config.PagerConfig) []core.Candidate {
	merged := r.FromCommands(cfg.Candidates, core.SourceConfig)
	merged = append(merged, Builtins()...)
	return Dedupe(merged)
}

// FromCommands turns command lines into candidates, skipping invalid ones.
// The result is deduplicated and numbered but not merged with the built-ins.
func (r *Registry) FromCommands(lines []string, source core.Source) []core.Candidate {
	out := make([]core.Candidate, 0, len(lines))
	for _, line := range lines {
		c, err := Parse(line, source)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("entry", line).
				Str("source", string(source)).
				Msg("ignoring invalid pager entry")
			continue
		}
		out = append(out, c)
	}
	return Dedupe(out)
}

// Parse splits a command line with shell quoting rules into a candidate.
// Known programs inherit their built-in probe strategy.
func Parse(line string, source core.Source) (core.Candidate, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return core.Candidate{}, fmt.Errorf("parse %q: %w", line, err)
	}
	if err := security.ValidateCommand(fields); err != nil {
		return core.Candidate{}, fmt.Errorf("validate %q: %w", line, err)
	}

	c := core.Candidate{
		Name:   fields[0],
		Args:   fields[1:],
		Probe:  StrategyFor(fields[0]),
		Source: source,
	}
	if len(c.Args) == 0 {
		c.Args = nil
	}
	return c, nil
}

// StrategyFor returns the probe strategy used for a program name
func StrategyFor(name string) core.ProbeStrategy {
	base := filepath.Base(name)
	for _, b := range builtins {
		if b.Name == base {
			return core.ProbeStrategy{Kind: b.Probe.Kind, Args: append([]string(nil), b.Probe.Args...)}
		}
	}
	return core.ProbeStrategy{Kind: core.ProbePath}
}

// Dedupe drops later entries whose program name was already seen and
// renumbers priorities by position.
func Dedupe(candidates []core.Candidate) []core.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		c.Priority = len(out) + 1
		out = append(out, c)
	}
	return out
}

// Names lists candidate program names in order
func Names(candidates []core.Candidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return names
}

func clone(c core.Candidate) core.Candidate {
	c.Args = append([]string(nil), c.Args...)
	if len(c.Args) == 0 {
		c.Args = nil
	}
	c.Probe.Args = append([]string(nil), c.Probe.Args...)
	if len(c.Probe.Args) == 0 {
		c.Probe.Args = nil
	}
	return c
}
