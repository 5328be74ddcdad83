package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/launcher"
	"github.com/quantmind-br/mpager/internal/logging"
	"github.com/rs/zerolog"
)

// Options configures a Bridge
type Options struct {
	// Replace allows exec-style replacement when the platform and streams permit it
	Replace bool
	// Signals feeds signal forwarding for spawned pagers (defaults to real process signals)
	Signals launcher.SignalListener
	// Launcher forces one launcher instead of choosing per hand-off
	Launcher launcher.Launcher
}

// Bridge hands the chosen candidate the caller's streams and reports how it ended
type Bridge struct {
	replace  bool
	signals  launcher.SignalListener
	launcher launcher.Launcher
	logger   *zerolog.Logger
}

// New creates an execution bridge
func New(opts Options, log *zerolog.Logger) *Bridge {
	if opts.Signals == nil {
		opts.Signals = launcher.NewNotifyListener()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Bridge{
		replace:  opts.Replace,
		signals:  opts.Signals,
		launcher: opts.Launcher,
		logger:   log,
	}
}

// Execute launches the selected program. A None selection is never launched
// and yields NoCandidateAvailable. A program that cannot be started yields
// ExecutionFailure; otherwise the outcome carries the program's own exit code.
// With exec-style replacement a successful Execute does not return.
func (b *Bridge) Execute(ctx context.Context, sel core.Selection, streams launcher.Streams) core.ExecutionOutcome {
	if sel.None() {
		cause := core.ErrNoCandidate
		if tried := sel.Tried(); len(tried) > 0 {
			cause = fmt.Errorf("%w (tried %s)", core.ErrNoCandidate, strings.Join(tried, ", "))
		}
		return core.ExecutionOutcome{
			ExitCode: core.ExitNoCandidate,
			Err:      &core.Error{Kind: core.KindNoCandidateAvailable, Err: cause},
		}
	}

	if err := ctx.Err(); err != nil {
		return core.ExecutionOutcome{ExitCode: core.ExitInterrupted, Err: err}
	}

	chosen := sel.Chosen
	l := b.launcherFor(streams)
	argv := append([]string{chosen.Candidate.Name}, chosen.Candidate.Args...)

	b.logger.Debug().
		Str("launcher", l.Name()).
		Str("path", chosen.Path).
		Strs("argv", argv).
		Msg("handing off")

	code, err := l.Launch(ctx, chosen.Path, argv, streams)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return core.ExecutionOutcome{ExitCode: core.ExitInterrupted, Err: err}
		}
		return core.ExecutionOutcome{
			ExitCode: core.ExitExecFailure,
			Err:      &core.Error{Kind: core.KindExecutionFailure, Candidate: chosen.Candidate.Name, Err: err},
		}
	}

	b.logger.Debug().
		Str("pager", chosen.Candidate.Name).
		Int("exit_code", code).
		Msg("pager finished")
	return core.ExecutionOutcome{ExitCode: code}
}

func (b *Bridge) launcherFor(streams launcher.Streams) launcher.Launcher {
	if b.launcher != nil {
		return b.launcher
	}
	return launcher.For(streams, b.replace, b.signals, b.logger)
}
