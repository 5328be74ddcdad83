package launcher

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Streams are the standard streams handed to the launched program.
// *os.File values are inherited by the program as-is; anything else is
// plumbed through a pipe by os/exec.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process's own standard streams
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Files returns the three streams as files when all of them are files
func (s Streams) Files() (stdin, stdout, stderr *os.File, ok bool) {
	stdin, ok1 := s.Stdin.(*os.File)
	stdout, ok2 := s.Stdout.(*os.File)
	stderr, ok3 := s.Stderr.(*os.File)
	if !ok1 || !ok2 || !ok3 || stdin == nil || stdout == nil || stderr == nil {
		return nil, nil, nil, false
	}
	return stdin, stdout, stderr, true
}

// Launcher runs a resolved program and reports its exit status.
//
// A non-nil error means the program could not be launched at all; the exit
// code is then meaningless. A program that ran and failed returns its own
// code and a nil error.
type Launcher interface {
	Name() string
	Launch(ctx context.Context, path string, argv []string, streams Streams) (int, error)
}

// For picks the launcher for a hand-off: process replacement when the
// platform supports it, replace is requested and all streams are files,
// spawn-and-wait otherwise.
func For(streams Streams, replace bool, signals SignalListener, log *zerolog.Logger) Launcher {
	if replace && CanReplace {
		if _, _, _, ok := streams.Files(); ok {
			return NewExec()
		}
	}
	return NewSpawn(signals, log)
}
