package core

import (
	"errors"
	"fmt"
)

// Kind classifies dispatcher failures
type Kind string

const (
	KindCandidateNotFound    Kind = "CandidateNotFound"
	KindCandidateUnusable    Kind = "CandidateUnusable"
	KindNoCandidateAvailable Kind = "NoCandidateAvailable"
	KindExecutionFailure     Kind = "ExecutionFailure"
	KindOverrideInvalid      Kind = "OverrideInvalid"
)

var (
	// ErrNotOnPath is wrapped by CandidateNotFound errors
	ErrNotOnPath = errors.New("not found in search path")
	// ErrNoCandidate is wrapped by NoCandidateAvailable errors
	ErrNoCandidate = errors.New("no pager available")
)

// Error is a classified dispatcher error
type Error struct {
	Kind      Kind
	Candidate string // program or override involved, if any
	Err       error
}

func (e *Error) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, detail)
	}
	return string(e.Kind)
}

// Detail is the message without the kind prefix
func (e *Error) Detail() string {
	switch {
	case e.Candidate != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Candidate, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Candidate
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// ExitError carries a process exit code out of a command.
// A nil Err means the code should be used silently (e.g. the pager's own status).
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps an error to the exit code mpager reports
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch k, _ := KindOf(err); k {
	case KindNoCandidateAvailable:
		return ExitNoCandidate
	case KindExecutionFailure:
		return ExitExecFailure
	}
	return ExitGeneral
}
