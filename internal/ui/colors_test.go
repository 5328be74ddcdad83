package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestInitColors(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	t.Run("never", func(t *testing.T) {
		InitColors("never")
		assert.False(t, AreColorsEnabled())
	})

	t.Run("always", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitColors("always")
		assert.True(t, AreColorsEnabled())
	})

	t.Run("auto with NO_COLOR", func(t *testing.T) {
		color.NoColor = false
		t.Setenv("NO_COLOR", "1")
		InitColors("auto")
		assert.False(t, AreColorsEnabled())
	})

	t.Run("auto with TERM=dumb", func(t *testing.T) {
		color.NoColor = false
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "dumb")
		InitColors("auto")
		assert.False(t, AreColorsEnabled())
	})
}

func TestDiagnostic(t *testing.T) {
	withoutColor(t)

	t.Run("with detail", func(t *testing.T) {
		var buf bytes.Buffer
		Diagnostic(&buf, "NoCandidateAvailable", "tried less, more")
		assert.Equal(t, "mpager: NoCandidateAvailable: tried less, more\n", buf.String())
	})

	t.Run("without detail", func(t *testing.T) {
		var buf bytes.Buffer
		Diagnostic(&buf, "ExecutionFailure", "")
		assert.Equal(t, "mpager: ExecutionFailure\n", buf.String())
	})
}

func TestPrinters(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	PrintSuccess(&buf, "%s: found", "less")
	PrintError(&buf, "%s: missing", "most")
	PrintWarning(&buf, "careful")
	PrintInfo(&buf, "note %d", 1)
	PrintList(&buf, []string{"one", "two"})

	out := buf.String()
	assert.Contains(t, out, "✓ less: found")
	assert.Contains(t, out, "✗ most: missing")
	assert.Contains(t, out, "! careful")
	assert.Contains(t, out, "→ note 1")
	assert.Contains(t, out, "• one")
	assert.Contains(t, out, "• two")
}

func TestHeaders(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	PrintHeader(&buf, "Diagnostics")
	PrintSubheader(&buf, "Candidates")

	assert.Contains(t, buf.String(), "Diagnostics\n")
	assert.Contains(t, buf.String(), "Candidates\n")
}

func TestColorizeOutcome(t *testing.T) {
	withoutColor(t)
	assert.Equal(t, "available", ColorizeOutcome("available"))
	assert.Equal(t, "not-found", ColorizeOutcome("not-found"))
	assert.Equal(t, "unusable", ColorizeOutcome("unusable"))
	assert.Equal(t, "other", ColorizeOutcome("other"))
}
