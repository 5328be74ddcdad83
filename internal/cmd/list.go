package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/registry"
	"github.com/quantmind-br/mpager/internal/selection"
	"github.com/quantmind-br/mpager/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// listEntry is one row of the list command
type listEntry struct {
	Priority int      `json:"priority"`
	Name     string   `json:"name"`
	Args     []string `json:"args,omitempty"`
	Source   string   `json:"source"`
	Outcome  string   `json:"outcome"`
	Path     string   `json:"path,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Selected bool     `json:"selected"`
}

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		filterName string
		liveness   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidate pagers",
		Long:  `List every candidate pager in priority order with its availability on this host, marking the one mpager would choose.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			effective := *cfg
			if liveness {
				effective.Probe.Liveness = true
			}

			reg := registry.New(log)
			candidates := reg.ListCandidates(effective.Pager)
			override := overrideFor(effective.Pager)
			prober := newProber(effective, log)

			sel, err := selection.New(prober, reg, selection.Options{Concurrency: effective.Probe.Concurrency}, log).
				Select(ctx, candidates, override)
			if err != nil {
				return fmt.Errorf("select pager: %w", err)
			}

			// a replacement order is what gets probed, so list that instead
			shown := candidates
			if override.Kind == core.OverrideReplace {
				if replaced := reg.FromCommands(override.Order, core.SourceOverride); len(replaced) > 0 {
					shown = replaced
				}
			}
			results := probeAll(ctx, prober, shown, effective.Probe.Concurrency)
			entries := buildEntries(results, sel)
			entries = filterEntries(entries, filterName)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				ui.PrintWarning(out, "No candidates match %q", filterName)
				return nil
			}

			printListSummary(out, sel, override)
			printCandidateTable(out, entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&filterName, "name", "", "filter by pager name (fuzzy match)")
	cmd.Flags().BoolVar(&liveness, "liveness", false, "run each candidate's version check")

	return cmd
}

// buildEntries turns probe results into rows, marking the selected candidate.
// The selected row shows the command line that would run. An override that
// is not in the list gets a row of its own at the top.
func buildEntries(results []core.ProbeResult, sel core.Selection) []listEntry {
	entries := make([]listEntry, 0, len(results)+1)
	marked := false
	for _, r := range results {
		if !marked && !sel.None() && sel.Chosen.Candidate.Name == r.Candidate.Name {
			marked = true
			entries = append(entries, entryFor(*sel.Chosen, true))
			continue
		}
		entries = append(entries, entryFor(r, false))
	}
	if !marked && !sel.None() {
		entries = append([]listEntry{entryFor(*sel.Chosen, true)}, entries...)
	}
	return entries
}

func entryFor(r core.ProbeResult, selected bool) listEntry {
	return listEntry{
		Priority: r.Candidate.Priority,
		Name:     r.Candidate.Name,
		Args:     r.Candidate.Args,
		Source:   string(r.Candidate.Source),
		Outcome:  string(r.Outcome),
		Path:     r.Path,
		Reason:   r.Reason,
		Selected: selected,
	}
}

// filterEntries keeps entries whose name fuzzily matches filter
func filterEntries(entries []listEntry, filter string) []listEntry {
	if filter == "" {
		return entries
	}
	filtered := make([]listEntry, 0, len(entries))
	for _, e := range entries {
		if fuzzy.MatchNormalizedFold(filter, e.Name) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func printListSummary(w io.Writer, sel core.Selection, override core.Override) {
	ui.PrintHeader(w, "Candidate Pagers")

	switch override.Kind {
	case core.OverridePrefer:
		fmt.Fprintf(w, "Override: %s\n", override.Command)
	case core.OverrideReplace:
		fmt.Fprintf(w, "Order: %s\n", strings.Join(override.Order, ", "))
	}
	if sel.OverrideRejected() {
		ui.PrintWarning(w, "%v", sel.OverrideErr)
	}

	if sel.None() {
		ui.PrintError(w, "No pager available")
	} else {
		ui.PrintSuccess(w, "Selected: %s (%s)", sel.Chosen.Candidate.CommandLine(), sel.Chosen.Path)
	}
	fmt.Fprintln(w)
}

func printCandidateTable(w io.Writer, entries []listEntry) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Pager", "Args", "Source", "Status", "Path / Reason"}),
		tablewriter.WithAlignment(tw.MakeAlign(6, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, e := range entries {
		name := e.Name
		if e.Selected {
			name = ui.Arrow + " " + name
		}

		args := strings.Join(e.Args, " ")
		if args == "" {
			args = "-"
		}

		detail := e.Path
		if e.Reason != "" {
			detail = e.Reason
		}
		if detail == "" {
			detail = "-"
		}

		priority := "-"
		if e.Priority > 0 {
			priority = strconv.Itoa(e.Priority)
		}

		table.Append(
			priority,
			name,
			args,
			e.Source,
			ui.ColorizeOutcome(e.Outcome),
			detail,
		)
	}

	table.Render()
}
