package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/quantmind-br/mpager/internal/bridge"
	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/dispatch"
	"github.com/quantmind-br/mpager/internal/launcher"
	"github.com/quantmind-br/mpager/internal/probe"
	"github.com/quantmind-br/mpager/internal/registry"
	"github.com/quantmind-br/mpager/internal/screen"
	"github.com/quantmind-br/mpager/internal/selection"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// pageOptions are the root command flags
type pageOptions struct {
	pager           string
	order           []string
	noExec          bool
	quitIfOneScreen bool
	liveness        bool
}

// apply returns a copy of cfg with the flags given on the command line applied
func (o pageOptions) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("order") {
		cfg.Pager.Order = o.order
		cfg.Pager.Override = ""
	}
	if flags.Changed("pager") {
		cfg.Pager.Override = o.pager
	}
	if o.noExec {
		cfg.Exec.Replace = false
	}
	if o.quitIfOneScreen {
		cfg.Pager.QuitIfOneScreen = true
	}
	if o.liveness {
		cfg.Probe.Liveness = true
	}
	return cfg
}

// overrideFor turns the pager settings into the override for one invocation.
// A single preferred pager beats a replacement order.
func overrideFor(pager config.PagerConfig) core.Override {
	if o := core.Prefer(pager.Override); o.Kind != core.OverrideNone {
		return o
	}
	return core.Replace(pager.Order)
}

// newProber builds the availability prober from configuration
func newProber(cfg config.Config, log *zerolog.Logger) *probe.PathProber {
	return probe.New(probe.Options{
		SearchPath: cfg.Probe.SearchPath,
		Liveness:   cfg.Probe.Liveness,
		Timeout:    cfg.Probe.Timeout,
		Self:       probe.SelfPath(),
	}, log)
}

func runPage(cmd *cobra.Command, base *config.Config, log *zerolog.Logger, opts pageOptions, args []string) error {
	cfg := opts.apply(cmd, *base)

	streams := launcher.Streams{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}

	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return &core.ExitError{Code: core.ExitNoInput, Err: fmt.Errorf("open input: %w", err)}
		}
		defer f.Close()
		streams.Stdin = f
	}

	reg := registry.New(log)
	candidates := reg.ListCandidates(cfg.Pager)
	policy := selection.New(newProber(cfg, log), reg, selection.Options{Concurrency: cfg.Probe.Concurrency}, log)
	b := bridge.New(bridge.Options{Replace: cfg.Exec.Replace}, log)

	d := dispatch.New(policy, b, candidates, dispatch.Options{
		Override:        overrideFor(cfg.Pager),
		Fallback:        cfg.Pager.Fallback,
		QuitIfOneScreen: cfg.Pager.QuitIfOneScreen,
		ScreenSize:      screenSizeOf(streams.Stdout),
	}, log)

	res := d.Run(cmd.Context(), streams)
	if res.Err == nil && res.ExitCode == core.ExitSuccess {
		return nil
	}
	return &core.ExitError{Code: res.ExitCode, Err: res.Err}
}

// screenSizeOf reports the size of the terminal w writes to, if any
func screenSizeOf(w io.Writer) dispatch.SizeFunc {
	return func() (int, int, bool) {
		f, ok := w.(*os.File)
		if !ok {
			return 0, 0, false
		}
		return screen.Size(f)
	}
}
