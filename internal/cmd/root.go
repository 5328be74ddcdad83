package cmd

import (
	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand pages
// FILE, or standard input when no FILE is given.
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	var opts pageOptions

	cmd := &cobra.Command{
		Use:   "mpager [FILE]",
		Short: "Page input with the best pager installed",
		Long: `mpager stands in for a terminal pager. It picks one of the pagers
installed on this host (configured candidates first, then less, moar, ov,
most and more) and hands the input over to it untouched.

Set MPAGER (or pager.override) to prefer one pager, or MPAGER_PAGER_ORDER
(pager.order) to replace the whole order.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &core.ExitError{Code: core.ExitUsage, Err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, cfg, log, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.pager, "pager", "p", "", "prefer this pager command line above all others")
	cmd.Flags().StringSliceVar(&opts.order, "order", nil, "replace the candidate order (comma separated command lines)")
	cmd.Flags().BoolVar(&opts.noExec, "no-exec", false, "run the pager as a child instead of replacing mpager")
	cmd.Flags().BoolVarP(&opts.quitIfOneScreen, "quit-if-one-screen", "F", false, "print input that fits on one screen instead of paging it")
	cmd.Flags().BoolVar(&opts.liveness, "liveness", false, "run each candidate's version check before choosing it")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &core.ExitError{Code: core.ExitUsage, Err: err}
	})

	// Add subcommands
	cmd.AddCommand(NewListCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
