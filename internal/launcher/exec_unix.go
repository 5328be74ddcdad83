//go:build unix

package launcher

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CanReplace reports whether this platform supports exec-style replacement
const CanReplace = true

// NewExec creates a replacing launcher
func NewExec() *Exec {
	return &Exec{environ: os.Environ, exec: unix.Exec, dup2: unix.Dup2, dup: dupCloexec, close: unix.Close}
}

// dupCloexec copies fd above the standard descriptors; the copy does not
// survive a successful exec
func dupCloexec(fd int) (int, error) {
	return unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 3)
}

// Launch implements Launcher. Stream files that are not already descriptors
// 0, 1 and 2 are duplicated onto them first. When exec fails the caller's
// descriptors are put back.
func (e *Exec) Launch(ctx context.Context, path string, argv []string, streams Streams) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	stdin, stdout, stderr, ok := streams.Files()
	if !ok {
		return 0, fmt.Errorf("exec %s: streams must be files", path)
	}

	src := []int{int(stdin.Fd()), int(stdout.Fd()), int(stderr.Fd())}

	var saved []int
	defer func() {
		for _, fd := range saved {
			_ = e.close(fd)
		}
	}()
	keep := func(fd int) (int, error) {
		copied, err := e.dup(fd)
		if err != nil {
			return 0, fmt.Errorf("duplicate fd %d: %w", fd, err)
		}
		saved = append(saved, copied)
		return copied, nil
	}

	// Targets are overwritten in order, so a source that is itself one of
	// the standard descriptors is read from a copy taken beforehand.
	originals := make(map[int]int, len(src))
	for target, fd := range src {
		if fd == target {
			continue
		}
		orig, err := keep(target)
		if err != nil {
			return 0, err
		}
		originals[target] = orig
		if fd < len(src) {
			if src[target], err = keep(fd); err != nil {
				return 0, err
			}
		}
	}

	restore := func() {
		for target, orig := range originals {
			_ = e.dup2(orig, target)
		}
	}

	for target, fd := range src {
		if fd == target {
			continue
		}
		if err := e.dup2(fd, target); err != nil {
			restore()
			return 0, fmt.Errorf("redirect fd %d: %w", target, err)
		}
	}

	err := e.exec(path, argv, e.environ())
	restore()
	return 0, fmt.Errorf("exec %s: %w", path, err)
}
