package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/mpager/internal/core"
	"github.com/quantmind-br/mpager/internal/fsops"
	"github.com/quantmind-br/mpager/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultTimeout bounds a liveness check when none is configured
const DefaultTimeout = 300 * time.Millisecond

// Prober tests whether a candidate can be launched on this host
type Prober interface {
	Probe(ctx context.Context, c core.Candidate) core.ProbeResult
}

// Func adapts a plain function to the Prober interface
type Func func(ctx context.Context, c core.Candidate) core.ProbeResult

// Probe implements Prober
func (f Func) Probe(ctx context.Context, c core.Candidate) core.ProbeResult {
	return f(ctx, c)
}

// Options configures a PathProber
type Options struct {
	// Fs is the filesystem executables are looked up on (defaults to the OS filesystem)
	Fs afero.Fs
	// SearchPath is a PATH-style list of directories (defaults to $PATH)
	SearchPath string
	// Liveness enables running candidates that declare a liveness probe
	Liveness bool
	// Timeout bounds each liveness run
	Timeout time.Duration
	// Runner executes liveness checks (defaults to the os/exec runner)
	Runner helpers.CommandRunner
	// Self is the running mpager binary; candidates resolving to it are unusable
	Self string
	// SameFile compares two resolved paths (defaults to os.SameFile on os.Stat results)
	SameFile func(a, b string) bool
}

// PathProber resolves candidates against a search path and optionally checks
// that they start. It keeps no state between probes.
type PathProber struct {
	fs       afero.Fs
	dirs     []string
	liveness bool
	timeout  time.Duration
	runner   helpers.CommandRunner
	self     string
	sameFile func(a, b string) bool
	logger   *zerolog.Logger
}

// New creates a PathProber
func New(opts Options, log *zerolog.Logger) *PathProber {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.SearchPath == "" {
		opts.SearchPath = os.Getenv("PATH")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Runner == nil {
		opts.Runner = helpers.NewOSCommandRunner()
	}
	if opts.SameFile == nil {
		opts.SameFile = sameOSFile
	}

	return &PathProber{
		fs:       opts.Fs,
		dirs:     filepath.SplitList(opts.SearchPath),
		liveness: opts.Liveness,
		timeout:  opts.Timeout,
		runner:   opts.Runner,
		self:     opts.Self,
		sameFile: opts.SameFile,
		logger:   log,
	}
}

// Probe implements Prober. Failures only downgrade this candidate.
func (p *PathProber) Probe(ctx context.Context, c core.Candidate) core.ProbeResult {
	result := p.probe(ctx, c)

	event := p.logger.Debug().
		Str("candidate", c.Name).
		Str("outcome", string(result.Outcome))
	if result.Path != "" {
		event = event.Str("path", result.Path)
	}
	if result.Reason != "" {
		event = event.Str("reason", result.Reason)
	}
	event.Msg("probed candidate")

	return result
}

func (p *PathProber) probe(ctx context.Context, c core.Candidate) core.ProbeResult {
	result := core.ProbeResult{Candidate: c}

	path, outcome, reason := p.Resolve(c.Name)
	result.Path = path
	result.Outcome = outcome
	result.Reason = reason
	if outcome != core.OutcomeAvailable {
		return result
	}

	if p.self != "" && p.sameFile(path, p.self) {
		result.Outcome = core.OutcomeUnusable
		result.Reason = "resolves to mpager itself"
		return result
	}

	if p.liveness && c.Probe.Kind == core.ProbeLiveness {
		if reason := p.checkLiveness(ctx, path, c.Probe.Args); reason != "" {
			result.Outcome = core.OutcomeUnusable
			result.Reason = reason
		}
	}

	return result
}

// Resolve looks a program name up on the search path without running it.
// Names containing a path separator are checked as given. Relative search
// path entries are ignored, matching os/exec's refusal to run programs found
// through the current directory, and so are entries that are not directories.
func (p *PathProber) Resolve(name string) (string, core.Outcome, string) {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		switch {
		case fsops.IsExecutable(p.fs, name):
			return name, core.OutcomeAvailable, ""
		case fsops.Exists(p.fs, name):
			return name, core.OutcomeUnusable, "not an executable file"
		default:
			return "", core.OutcomeNotFound, ""
		}
	}

	var notExecutable string
	for _, dir := range p.dirs {
		if dir == "" || !filepath.IsAbs(dir) || !fsops.IsDir(p.fs, dir) {
			continue
		}
		candidate := filepath.Join(dir, name)
		if fsops.IsExecutable(p.fs, candidate) {
			return candidate, core.OutcomeAvailable, ""
		}
		if notExecutable == "" && fsops.IsRegular(p.fs, candidate) {
			notExecutable = candidate
		}
	}

	if notExecutable != "" {
		return notExecutable, core.OutcomeUnusable, "not executable"
	}
	return "", core.OutcomeNotFound, ""
}

// checkLiveness runs the program with output discarded and returns a reason when it misbehaves
func (p *PathProber) checkLiveness(ctx context.Context, path string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.runner.RunCommandStreaming(ctx, nil, nil, path, args...)
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("liveness check timed out after %s", p.timeout)
	case errors.Is(err, context.Canceled):
		return "liveness check canceled"
	}
	if code := p.runner.GetExitCode(err); code > 0 {
		return fmt.Sprintf("liveness check exited with status %d", code)
	}
	return fmt.Sprintf("liveness check failed: %v", err)
}

// SelfPath returns the resolved path of the running binary, or "" when unknown
func SelfPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

func sameOSFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
