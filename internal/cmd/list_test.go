//go:build unix

package cmd

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/probe"
	"github.com/quantmind-br/mpager/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListCmd(t *testing.T) {
	t.Parallel()

	cmd := NewListCmd(testConfig(t.TempDir()), testLogger())
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List candidate pagers", cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("json"))
	assert.NotNil(t, cmd.Flags().Lookup("name"))
}

func TestListJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "fakepager", "exit 0")

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"fakepager -X"}

	out, err := execute(t, NewListCmd(cfg, testLogger()), "", "--json")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 6, "the configured entry plus the five built-ins")

	first := entries[0]
	assert.Equal(t, 1, first.Priority)
	assert.Equal(t, "fakepager", first.Name)
	assert.Equal(t, []string{"-X"}, first.Args)
	assert.Equal(t, "config", first.Source)
	assert.Equal(t, "available", first.Outcome)
	assert.True(t, first.Selected)

	for _, e := range entries[1:] {
		assert.Equal(t, "builtin", e.Source)
		assert.Equal(t, "not-found", e.Outcome)
		assert.False(t, e.Selected)
	}
}

func TestListNameFilter(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewListCmd(testConfig(t.TempDir()), testLogger()), "", "--json", "--name", "LES")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "less", entries[0].Name)
}

func TestListTable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "fakepager", "exit 0")

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"fakepager"}

	out, err := execute(t, NewListCmd(cfg, testLogger()), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Candidate Pagers")
	assert.Contains(t, out, "Selected: fakepager")
	assert.Contains(t, out, "moar")

	out, err = execute(t, NewListCmd(cfg, testLogger()), "", "--name", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No candidates match "zzz"`)
}

func TestListNothingAvailable(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewListCmd(testConfig(t.TempDir()), testLogger()), "")
	require.NoError(t, err, "listing is informational")
	assert.Contains(t, out, "No pager available")
}

func TestFilterEntries(t *testing.T) {
	t.Parallel()
	entries := []listEntry{{Name: "less"}, {Name: "moar"}, {Name: "ov"}, {Name: "most"}, {Name: "more"}}

	assert.Len(t, filterEntries(entries, ""), 5)
	assert.Equal(t, []listEntry{{Name: "less"}}, filterEntries(entries, "lss"))
	assert.Equal(t, []listEntry{{Name: "moar"}, {Name: "more"}}, filterEntries(entries, "mr"))
	assert.Empty(t, filterEntries(entries, "emacs"))
}

func TestBuildEntries(t *testing.T) {
	t.Parallel()
	less := core.ProbeResult{Candidate: core.Candidate{Name: "less", Priority: 1, Source: core.SourceBuiltin}, Outcome: core.OutcomeAvailable, Path: "/bin/less"}
	most := core.ProbeResult{Candidate: core.Candidate{Name: "most", Priority: 2, Source: core.SourceBuiltin}, Outcome: core.OutcomeUnusable, Reason: "not executable"}

	entries := buildEntries([]core.ProbeResult{less, most}, core.Selection{Chosen: &less})
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Selected)
	assert.False(t, entries[1].Selected)
	assert.Equal(t, "not executable", entries[1].Reason)

	none := buildEntries([]core.ProbeResult{most}, core.Selection{})
	assert.False(t, none[0].Selected)

	t.Run("override args replace the registered ones", func(t *testing.T) {
		chosen := less
		chosen.Candidate.Args = []string{"-S"}
		entries := buildEntries([]core.ProbeResult{less, most}, core.Selection{Chosen: &chosen})
		require.Len(t, entries, 2)
		assert.True(t, entries[0].Selected)
		assert.Equal(t, []string{"-S"}, entries[0].Args)
	})

	t.Run("override outside the list", func(t *testing.T) {
		adhoc := core.ProbeResult{Candidate: core.Candidate{Name: "bat", Source: core.SourceOverride}, Outcome: core.OutcomeAvailable, Path: "/bin/bat"}
		entries := buildEntries([]core.ProbeResult{less, most}, core.Selection{Chosen: &adhoc})
		require.Len(t, entries, 3)
		assert.Equal(t, "bat", entries[0].Name)
		assert.Equal(t, "override", entries[0].Source)
		assert.True(t, entries[0].Selected)
		assert.False(t, entries[1].Selected)
		assert.False(t, entries[2].Selected)
	})
}

func TestListAdHocOverride(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "fakepager", "exit 0")

	cfg := testConfig(dir)
	cfg.Pager.Override = "fakepager -X"

	out, err := execute(t, NewListCmd(cfg, testLogger()), "", "--json")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 6, "the override plus the five built-ins")
	assert.Equal(t, "fakepager", entries[0].Name)
	assert.Equal(t, []string{"-X"}, entries[0].Args)
	assert.Equal(t, "override", entries[0].Source)
	assert.True(t, entries[0].Selected)

	out, err = execute(t, NewListCmd(cfg, testLogger()), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected: fakepager -X")
	assert.Contains(t, out, ui.Arrow+" fakepager")
}

func TestProbeAllKeepsOrder(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	p := probe.Func(func(_ context.Context, c core.Candidate) core.ProbeResult {
		calls.Add(1)
		return core.ProbeResult{Candidate: c, Outcome: core.OutcomeNotFound}
	})
	candidates := []core.Candidate{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}

	results := probeAll(context.Background(), p, candidates, 3)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, candidates[i].Name, r.Candidate.Name)
	}
	assert.Equal(t, int32(4), calls.Load(), "every candidate is probed")
}
