package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/fsops"
	"github.com/quantmind-br/mpager/internal/helpers"
	"github.com/quantmind-br/mpager/internal/registry"
	"github.com/quantmind-br/mpager/internal/selection"
	"github.com/quantmind-br/mpager/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// doctorEnv lists the environment variables that influence paging
var doctorEnv = []string{"MPAGER", "MPAGER_PAGER_ORDER", "MPAGER_CONFIG", "PAGER", "LESS", "TERM", "NO_COLOR"}

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and installed pagers",
		Long:  `Check the configuration, the log location, the terminal and every candidate pager (including its version check).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			var issues []string
			var warnings []string

			ui.PrintHeader(out, "mpager Diagnostics")

			// 1. Configuration
			ui.PrintSubheader(out, "Configuration")
			ui.PrintInfo(out, "Fallback: %s", cfg.Pager.Fallback)
			ui.PrintInfo(out, "Replace process: %t", cfg.Exec.Replace)
			ui.PrintInfo(out, "Probe timeout: %s, concurrency: %d", cfg.Probe.Timeout, cfg.Probe.Concurrency)
			if cfg.Probe.SearchPath != "" {
				ui.PrintInfo(out, "Search path: %s", cfg.Probe.SearchPath)
			}

			// 2. Log location
			ui.PrintSubheader(out, "Log File")
			if cfg.Paths.LogFile == "" {
				ui.PrintInfo(out, "File logging disabled")
			} else if err := checkLogDir(afero.NewOsFs(), cfg.Paths.LogFile); err != nil {
				ui.PrintWarning(out, "%s: %v", cfg.Paths.LogFile, err)
				warnings = append(warnings, fmt.Sprintf("Log directory not writable: %s", filepath.Dir(cfg.Paths.LogFile)))
			} else {
				ui.PrintSuccess(out, "%s", cfg.Paths.LogFile)
			}

			// 3. Environment
			ui.PrintSubheader(out, "Environment")
			checkEnvironment(out)

			// 4. Terminal
			ui.PrintSubheader(out, "Terminal")
			checkTerminal(out)

			// 5. Candidates (always with the version check)
			ui.PrintSubheader(out, "Candidates")
			effective := *cfg
			effective.Probe.Liveness = true
			reg := registry.New(log)
			candidates := reg.ListCandidates(effective.Pager)
			prober := newProber(effective, log)
			runner := helpers.NewOSCommandRunner()

			available := 0
			for _, r := range probeAll(ctx, prober, candidates, effective.Probe.Concurrency) {
				switch r.Outcome {
				case core.OutcomeAvailable:
					available++
					if version := pagerVersion(ctx, runner, r, effective.Probe.Timeout); version != "" {
						ui.PrintSuccess(out, "%s: %s (%s)", r.Candidate.CommandLine(), r.Path, version)
					} else {
						ui.PrintSuccess(out, "%s: %s", r.Candidate.CommandLine(), r.Path)
					}
				case core.OutcomeUnusable:
					ui.PrintWarning(out, "%s: %s (%s)", r.Candidate.Name, r.Reason, r.Path)
					warnings = append(warnings, fmt.Sprintf("%s is installed but unusable: %s", r.Candidate.Name, r.Reason))
				default:
					ui.PrintInfo(out, "%s: not installed", r.Candidate.Name)
				}
			}
			if available == 0 {
				issues = append(issues, "No candidate pager is available")
			}

			// 6. Override
			override := overrideFor(effective.Pager)
			if override.Kind != core.OverrideNone {
				ui.PrintSubheader(out, "Override")
				sel, err := selection.New(prober, reg, selection.Options{Concurrency: effective.Probe.Concurrency}, log).
					Select(ctx, candidates, override)
				if err != nil {
					return fmt.Errorf("select pager: %w", err)
				}
				switch {
				case sel.OverrideRejected():
					ui.PrintError(out, "%v", sel.OverrideErr)
					issues = append(issues, overrideIssue(override, candidates))
				case sel.None():
					ui.PrintError(out, "%s: nothing available", override.Kind)
				default:
					ui.PrintSuccess(out, "%s %s %s", override.Kind, ui.Arrow, sel.Chosen.Candidate.CommandLine())
				}
			}

			// Summary
			ui.PrintHeader(out, "Summary")

			if len(issues) == 0 {
				ui.PrintSuccess(out, "All critical checks passed!")
			} else {
				ui.PrintError(out, "Found %d issue(s):", len(issues))
				ui.PrintList(out, issues)
			}

			if len(warnings) > 0 {
				ui.PrintWarning(out, "Found %d warning(s):", len(warnings))
				ui.PrintList(out, warnings)
			}

			fmt.Fprintln(out)

			if len(issues) > 0 {
				return fmt.Errorf("doctor found %d issue(s)", len(issues))
			}

			return nil
		},
	}

	return cmd
}

// checkLogDir makes sure the log file's directory exists and is writable
func checkLogDir(fs afero.Fs, logFile string) error {
	dir := filepath.Dir(logFile)
	if err := fsops.EnsureDir(fs, dir, 0755); err != nil {
		return err
	}
	return fsops.CheckWritable(fs, dir)
}

// pagerVersion returns the first line a pager prints for its version check,
// or "" for pagers without one
func pagerVersion(ctx context.Context, runner helpers.CommandRunner, r core.ProbeResult, timeout time.Duration) string {
	if r.Candidate.Probe.Kind != core.ProbeLiveness || r.Path == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runner.RunCommand(ctx, r.Path, r.Candidate.Probe.Args...)
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(line)
}

// overrideIssue describes a rejected override, with a suggestion when it looks like a typo
func overrideIssue(override core.Override, candidates []core.Candidate) string {
	if override.Kind != core.OverridePrefer {
		return fmt.Sprintf("Replacement order has no usable entries: %v", override.Order)
	}
	issue := fmt.Sprintf("Override %q is not usable", override.Command)
	if parsed, err := registry.Parse(override.Command, core.SourceOverride); err == nil {
		if hint := selection.Suggest(parsed.Name, registry.Names(candidates)); hint != "" {
			issue += fmt.Sprintf(" (did you mean %q?)", hint)
		}
	}
	return issue
}

// checkEnvironment reports the environment variables that influence paging
func checkEnvironment(w io.Writer) {
	for _, name := range doctorEnv {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			ui.PrintSuccess(w, "%s: %s", name, value)
		} else {
			ui.PrintInfo(w, "%s: not set", name)
		}
	}
}

// checkTerminal reports whether the standard streams are terminals
func checkTerminal(w io.Writer) {
	streams := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
	}

	for _, s := range streams {
		fd := int(s.file.Fd()) //nolint:gosec // fd conversion is safe on all supported platforms
		if !term.IsTerminal(fd) {
			ui.PrintInfo(w, "%s: not a terminal", s.name)
			continue
		}
		if width, height, err := term.GetSize(fd); err == nil {
			ui.PrintSuccess(w, "%s: terminal (%dx%d)", s.name, width, height)
		} else {
			ui.PrintSuccess(w, "%s: terminal", s.name)
		}
	}
}
