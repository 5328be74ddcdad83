package launcher

import "errors"

// ErrReplaceUnsupported is returned by Exec on platforms without exec-style replacement
var ErrReplaceUnsupported = errors.New("process replacement is not supported on this platform")

// Exec replaces the mpager process with the program. On success Launch never
// returns; the program inherits the process id, the terminal and the
// caller's wait on it, so its exit status is the caller's exit status.
type Exec struct {
	environ func() []string
	exec    func(path string, argv []string, env []string) error
	dup2    func(oldfd, newfd int) error
	dup     func(fd int) (int, error)
	close   func(fd int) error
}

// Name implements Launcher
func (e *Exec) Name() string { return "exec" }
