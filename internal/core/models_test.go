package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateCommandLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "less", Candidate{Name: "less"}.CommandLine())
	assert.Equal(t, "less -R -S", Candidate{Name: "less", Args: []string{"-R", "-S"}}.CommandLine())
}

func TestProbeResultErr(t *testing.T) {
	t.Parallel()
	less := Candidate{Name: "less"}

	t.Run("available", func(t *testing.T) {
		r := ProbeResult{Candidate: less, Outcome: OutcomeAvailable, Path: "/usr/bin/less"}
		assert.True(t, r.Available())
		assert.NoError(t, r.Err())
	})

	t.Run("not found", func(t *testing.T) {
		r := ProbeResult{Candidate: less, Outcome: OutcomeNotFound}
		assert.False(t, r.Available())
		assert.True(t, IsKind(r.Err(), KindCandidateNotFound))
		assert.ErrorIs(t, r.Err(), ErrNotOnPath)
	})

	t.Run("unusable", func(t *testing.T) {
		r := ProbeResult{Candidate: less, Outcome: OutcomeUnusable, Reason: "liveness check timed out"}
		err := r.Err()
		assert.True(t, IsKind(err, KindCandidateUnusable))
		assert.Contains(t, err.Error(), "liveness check timed out")
	})
}

func TestOverrideConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OverrideNone, NoOverride().Kind)
	assert.Equal(t, OverrideNone, Prefer("  ").Kind)

	prefer := Prefer("moar --no-linenumbers")
	assert.Equal(t, OverridePrefer, prefer.Kind)
	assert.Equal(t, "moar --no-linenumbers", prefer.Command)

	assert.Equal(t, OverrideNone, Replace([]string{"", " "}).Kind)
	replace := Replace([]string{"ov", "", "less"})
	assert.Equal(t, OverrideReplace, replace.Kind)
	assert.Equal(t, []string{"ov", "less"}, replace.Order)

	assert.Equal(t, "none", OverrideNone.String())
	assert.Equal(t, "prefer", OverridePrefer.String())
	assert.Equal(t, "replace", OverrideReplace.String())
}

func TestSelection(t *testing.T) {
	t.Parallel()

	none := Selection{Probes: []ProbeResult{
		{Candidate: Candidate{Name: "less"}, Outcome: OutcomeNotFound},
		{Candidate: Candidate{Name: "more"}, Outcome: OutcomeUnusable},
	}}
	assert.True(t, none.None())
	assert.Equal(t, []string{"less", "more"}, none.Tried())

	chosen := ProbeResult{Candidate: Candidate{Name: "ov"}, Outcome: OutcomeAvailable}
	some := Selection{Chosen: &chosen, Probes: []ProbeResult{chosen}}
	assert.False(t, some.None())
	assert.False(t, some.OverrideRejected())

	rejected := Selection{OverrideErr: &Error{Kind: KindOverrideInvalid, Candidate: "lesss"}}
	assert.True(t, rejected.OverrideRejected())
}

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"kind only", &Error{Kind: KindNoCandidateAvailable}, "NoCandidateAvailable"},
		{"with candidate", &Error{Kind: KindOverrideInvalid, Candidate: "lesss"}, "OverrideInvalid: lesss"},
		{"with cause", &Error{Kind: KindNoCandidateAvailable, Err: ErrNoCandidate}, "NoCandidateAvailable: no pager available"},
		{"with both", &Error{Kind: KindExecutionFailure, Candidate: "less", Err: errors.New("permission denied")}, "ExecutionFailure: less: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	assert.Equal(t, "less: permission denied", (&Error{Kind: KindExecutionFailure, Candidate: "less", Err: errors.New("permission denied")}).Detail())
	assert.Empty(t, (&Error{Kind: KindNoCandidateAvailable}).Detail())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("dispatch: %w", &Error{Kind: KindExecutionFailure, Candidate: "less"})
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindExecutionFailure, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, KindExecutionFailure))
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitSuccess, ExitCodeFor(nil))
	assert.Equal(t, 3, ExitCodeFor(&ExitError{Code: 3}))
	assert.Equal(t, ExitNoCandidate, ExitCodeFor(&Error{Kind: KindNoCandidateAvailable}))
	assert.Equal(t, ExitExecFailure, ExitCodeFor(fmt.Errorf("x: %w", &Error{Kind: KindExecutionFailure})))
	assert.Equal(t, ExitGeneral, ExitCodeFor(errors.New("boom")))

	silent := &ExitError{Code: 3}
	assert.Equal(t, "exit status 3", silent.Error())
	loud := &ExitError{Code: ExitConfig, Err: errors.New("bad config")}
	assert.Equal(t, "bad config", loud.Error())
	assert.Equal(t, ExitConfig, ExitCodeFor(fmt.Errorf("load: %w", loud)))
}
