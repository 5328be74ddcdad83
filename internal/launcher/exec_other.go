//go:build !unix

package launcher

import "context"

// CanReplace reports whether this platform supports exec-style replacement
const CanReplace = false

// NewExec creates a launcher that always fails with ErrReplaceUnsupported
func NewExec() *Exec {
	return &Exec{}
}

// Launch implements Launcher
func (e *Exec) Launch(ctx context.Context, path string, argv []string, streams Streams) (int, error) {
	return 0, ErrReplaceUnsupported
}
