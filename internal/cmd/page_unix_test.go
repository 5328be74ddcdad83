//go:build unix

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exitErr(t *testing.T, err error) *core.ExitError {
	t.Helper()
	var exitErr *core.ExitError
	require.True(t, errors.As(err, &exitErr), "want *core.ExitError, got %v", err)
	return exitErr
}

func TestPageHandsOff(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "fakepager", `echo "fakepager $*"; cat; exit 3`)

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"fakepager --raw"}

	out, err := execute(t, NewRootCmd(cfg, testLogger(), "dev"), "hello\n")

	e := exitErr(t, err)
	assert.Equal(t, 3, e.Code, "the pager's status is mpager's status")
	assert.NoError(t, e.Err, "a pager's own failure is not a diagnostic")
	assert.Equal(t, "fakepager --raw\nhello\n", out)
}

func TestPageSuccess(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "okpager", "cat")

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"okpager"}

	out, err := execute(t, NewRootCmd(cfg, testLogger(), "dev"), "content")
	require.NoError(t, err)
	assert.Equal(t, "content", out)
}

func TestPageFileArgument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "okpager", "cat")
	input := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(input, []byte("from file\n"), 0644))

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"okpager"}

	out, err := execute(t, NewRootCmd(cfg, testLogger(), "dev"), "from stdin\n", input)
	require.NoError(t, err)
	assert.Equal(t, "from file\n", out)

	_, err = execute(t, NewRootCmd(cfg, testLogger(), "dev"), "", filepath.Join(dir, "missing.txt"))
	assert.Equal(t, core.ExitNoInput, exitErr(t, err).Code)
}

func TestPageNoCandidate(t *testing.T) {
	t.Parallel()

	t.Run("abort", func(t *testing.T) {
		out, err := execute(t, NewRootCmd(testConfig(t.TempDir()), testLogger(), "dev"), "content")

		e := exitErr(t, err)
		assert.Equal(t, core.ExitNoCandidate, e.Code)
		assert.True(t, core.IsKind(e.Err, core.KindNoCandidateAvailable))
		assert.Empty(t, out, "nothing is written to the content stream")
	})

	t.Run("cat", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.Pager.Fallback = config.FallbackCat

		out, err := execute(t, NewRootCmd(cfg, testLogger(), "dev"), "content")
		require.NoError(t, err)
		assert.Equal(t, "content", out)
	})
}

func TestPageOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "first", "echo first")
	installScript(t, dir, "second", "echo second")
	installScript(t, dir, "third", "echo third")

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"first", "second"}

	tests := []struct {
		name     string
		override string
		args     []string
		want     string
	}{
		{"registry order", "", nil, "first\n"},
		{"pager flag", "", []string{"--pager", "second"}, "second\n"},
		{"ad-hoc pager flag", "", []string{"-p", "third"}, "third\n"},
		{"configured override", "second", nil, "second\n"},
		{"flag beats configured override", "second", []string{"-p", "third"}, "third\n"},
		{"missing override falls back", "nonexistent", nil, "first\n"},
		{"order flag", "", []string{"--order", "missing,third,second"}, "third\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := *cfg
			local.Pager.Override = tt.override

			out, err := execute(t, NewRootCmd(&local, testLogger(), "dev"), "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPageOneScreenWithoutTerminal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	installScript(t, dir, "okpager", "cat")

	cfg := testConfig(dir)
	cfg.Pager.Candidates = []string{"okpager"}

	out, err := execute(t, NewRootCmd(cfg, testLogger(), "dev"), "short\n", "-F", "--no-exec")
	require.NoError(t, err)
	assert.Equal(t, "short\n", out, "without a terminal size the pager still runs")
}
