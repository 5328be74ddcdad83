package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/quantmind-br/mpager/internal/config"
	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/launcher"
	"github.com/quantmind-br/mpager/internal/screen"
	"github.com/rs/zerolog"
)

// State is a step of one invocation
type State int

const (
	StateStart State = iota
	StateReading
	StateSelecting
	StateSelected
	StateExecuting
	StateDone
	StateExecFailed
	StateNoneAvailable
	StateFallback
	StateAborted
)

var stateNames = map[State]string{
	StateStart:         "start",
	StateReading:       "reading",
	StateSelecting:     "selecting",
	StateSelected:      "selected",
	StateExecuting:     "executing",
	StateDone:          "done",
	StateExecFailed:    "exec-failed",
	StateNoneAvailable: "none-available",
	StateFallback:      "fallback",
	StateAborted:       "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateExecFailed, StateFallback, StateAborted:
		return true
	}
	return false
}

// Selector picks a candidate
type Selector interface {
	Select(ctx context.Context, candidates []core.Candidate, override core.Override) (core.Selection, error)
}

// Executor hands off to the selected candidate
type Executor interface {
	Execute(ctx context.Context, sel core.Selection, streams launcher.Streams) core.ExecutionOutcome
}

// SizeFunc reports the terminal size content is shown on
type SizeFunc func() (width, height int, ok bool)

// Options configures a Dispatcher
type Options struct {
	Override core.Override
	// Fallback is config.FallbackAbort or config.FallbackCat
	Fallback string
	// QuitIfOneScreen prints input that fits on one screen instead of paging it
	QuitIfOneScreen bool
	// ScreenSize is consulted in one-screen mode
	ScreenSize SizeFunc
}

// Result is how an invocation ended
type Result struct {
	ExitCode  int
	Err       error
	State     State
	Trace     []State
	Selection core.Selection
}

// Dispatcher runs one invocation through the selection and hand-off states
type Dispatcher struct {
	selector   Selector
	executor   Executor
	candidates []core.Candidate
	opts       Options
	logger     *zerolog.Logger
}

// New creates a dispatcher over an already merged candidate list
func New(selector Selector, executor Executor, candidates []core.Candidate, opts Options, log *zerolog.Logger) *Dispatcher {
	if opts.Fallback == "" {
		opts.Fallback = config.FallbackAbort
	}
	if opts.ScreenSize == nil {
		opts.ScreenSize = func() (int, int, bool) { return 0, 0, false }
	}
	return &Dispatcher{
		selector:   selector,
		executor:   executor,
		candidates: candidates,
		opts:       opts,
		logger:     log,
	}
}

type run struct {
	d      *Dispatcher
	result Result
}

func (r *run) enter(s State) {
	r.result.State = s
	r.result.Trace = append(r.result.Trace, s)
	r.d.logger.Debug().Str("state", s.String()).Msg("dispatch")
}

func (r *run) finish(s State, code int, err error) Result {
	r.enter(s)
	r.result.ExitCode = code
	r.result.Err = err
	return r.result
}

// Run executes one invocation. With exec-style replacement a successful
// hand-off does not return.
func (d *Dispatcher) Run(ctx context.Context, streams launcher.Streams) Result {
	r := &run{d: d}
	r.enter(StateStart)

	if d.opts.QuitIfOneScreen {
		if width, height, ok := d.opts.ScreenSize(); ok {
			r.enter(StateReading)
			prefix, err := readPrefix(ctx, streams.Stdin, width, height)
			if ctx.Err() != nil {
				return r.finish(StateAborted, core.ExitInterrupted, ctx.Err())
			}
			if err != nil {
				_, _ = streams.Stdout.Write(prefix.Data)
				return r.finish(StateDone, core.ExitGeneral, fmt.Errorf("read input: %w", err))
			}
			if prefix.Complete {
				d.logger.Debug().Int("bytes", len(prefix.Data)).Msg("input fits on one screen")
				if _, err := streams.Stdout.Write(prefix.Data); err != nil && !isBrokenPipe(err) {
					return r.finish(StateDone, core.ExitGeneral, fmt.Errorf("write output: %w", err))
				}
				return r.finish(StateDone, core.ExitSuccess, nil)
			}
			streams.Stdin = prefix.Reader(streams.Stdin)
		}
	}

	r.enter(StateSelecting)
	sel, err := d.selector.Select(ctx, d.candidates, d.opts.Override)
	r.result.Selection = sel
	if err != nil {
		return r.finish(StateAborted, core.ExitInterrupted, err)
	}

	if sel.None() {
		r.enter(StateNoneAvailable)
		outcome := d.executor.Execute(ctx, sel, streams)
		return r.fallback(streams, outcome)
	}

	r.enter(StateSelected)
	r.enter(StateExecuting)
	outcome := d.executor.Execute(ctx, sel, streams)
	switch {
	case outcome.Err == nil:
		return r.finish(StateDone, outcome.ExitCode, nil)
	case errors.Is(outcome.Err, context.Canceled) || errors.Is(outcome.Err, context.DeadlineExceeded):
		return r.finish(StateAborted, core.ExitInterrupted, outcome.Err)
	default:
		return r.finish(StateExecFailed, outcome.ExitCode, outcome.Err)
	}
}

func (r *run) fallback(streams launcher.Streams, outcome core.ExecutionOutcome) Result {
	d := r.d
	if d.opts.Fallback != config.FallbackCat {
		return r.finish(StateFallback, outcome.ExitCode, outcome.Err)
	}

	d.logger.Warn().
		Err(outcome.Err).
		Str("kind", string(core.KindNoCandidateAvailable)).
		Msg("no pager available, printing input directly")

	if _, err := io.Copy(streams.Stdout, streams.Stdin); err != nil && !isBrokenPipe(err) {
		return r.finish(StateFallback, core.ExitGeneral, fmt.Errorf("copy input: %w", err))
	}
	return r.finish(StateFallback, core.ExitSuccess, nil)
}

// readPrefix reads a screen-sized prefix, giving up when ctx ends. The read
// itself cannot be interrupted, so an abandoned read finishes in the background.
func readPrefix(ctx context.Context, in io.Reader, width, height int) (screen.Prefix, error) {
	type read struct {
		prefix screen.Prefix
		err    error
	}
	done := make(chan read, 1)
	go func() {
		p, err := screen.ReadPrefix(in, width, height)
		done <- read{p, err}
	}()

	select {
	case <-ctx.Done():
		return screen.Prefix{}, ctx.Err()
	case res := <-done:
		return res.prefix, res.err
	}
}
