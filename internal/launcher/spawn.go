package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/quantmind-br/mpager/internal/logging"
	"github.com/rs/zerolog"
)

// DefaultWaitDelay bounds how long Wait keeps copying non-file streams after the child exits
const DefaultWaitDelay = 200 * time.Millisecond

// Spawn starts the program as a child, relays termination signals to it and
// waits for it to finish.
type Spawn struct {
	signals   SignalListener
	waitDelay time.Duration
	logger    *zerolog.Logger
}

// NewSpawn creates a spawn launcher. A nil listener uses NewNotifyListener().
func NewSpawn(signals SignalListener, log *zerolog.Logger) *Spawn {
	if signals == nil {
		signals = NewNotifyListener()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Spawn{signals: signals, waitDelay: DefaultWaitDelay, logger: log}
}

// Name implements Launcher
func (s *Spawn) Name() string { return "spawn" }

// Launch implements Launcher. Once the child has started the context is no
// longer consulted: signals reach the child through the listener instead.
func (s *Spawn) Launch(ctx context.Context, path string, argv []string, streams Streams) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cmd := &exec.Cmd{
		Path:      path,
		Args:      argv,
		Stdin:     streams.Stdin,
		Stdout:    streams.Stdout,
		Stderr:    streams.Stderr,
		WaitDelay: s.waitDelay,
	}

	// listen before starting so nothing sent during startup is lost
	sigs := s.signals.Listen()
	defer s.signals.Stop()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", path, err)
	}
	s.logger.Debug().
		Str("path", path).
		Int("pid", cmd.Process.Pid).
		Msg("pager started")

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	for {
		select {
		case sig := <-sigs:
			s.logger.Debug().
				Str("signal", sig.String()).
				Int("pid", cmd.Process.Pid).
				Msg("forwarding signal")
			if err := cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				s.logger.Warn().Err(err).Str("signal", sig.String()).Msg("failed to forward signal")
			}
		case err := <-done:
			return exitStatus(cmd.ProcessState, err)
		}
	}
}

// exitStatus maps a finished child to the code mpager reports: its own exit
// code, or 128+N when it was killed by signal N.
func exitStatus(state *os.ProcessState, waitErr error) (int, error) {
	if state == nil {
		return 0, fmt.Errorf("wait: %w", waitErr)
	}
	if code, ok := signalStatus(state); ok {
		return code, nil
	}
	return state.ExitCode(), nil
}
