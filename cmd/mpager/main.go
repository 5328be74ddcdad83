package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/mpager/internal/cmd"
	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/logging"
	"github.com/quantmind-br/mpager/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	// An interrupt before hand-off aborts selection; afterwards the pager handles it
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadFile(os.Getenv("MPAGER_CONFIG"))
	if err != nil {
		ui.Diagnostic(stderr, "ConfigError", err.Error())
		return core.ExitConfig
	}

	ui.InitColors(cfg.Logging.Color)

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: !ui.AreColorsEnabled(),
		Console: stderr,
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(ctx)
	if err == nil {
		return core.ExitSuccess
	}

	code := core.ExitCodeFor(err)
	report(stderr, err)
	log.Debug().Err(err).Int("exit_code", code).Msg("command finished with error")
	return code
}

// report prints the one-line diagnostic for err. Exit codes passed through
// from the pager carry no error and print nothing.
func report(w io.Writer, err error) {
	var exitErr *core.ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var coreErr *core.Error
	switch {
	case errors.As(err, &coreErr):
		ui.Diagnostic(w, string(coreErr.Kind), coreErr.Detail())
	case errors.Is(err, context.Canceled):
		ui.Diagnostic(w, "Interrupted", "")
	default:
		ui.Diagnostic(w, "Error", fmt.Sprint(err))
	}
}
