package core

import (
	"fmt"
	"strings"
)

// Source identifies where a candidate came from
type Source string

const (
	SourceConfig   Source = "config"
	SourceBuiltin  Source = "builtin"
	SourceOverride Source = "override"
)

// ProbeKind selects how a candidate's availability is tested
type ProbeKind string

const (
	// ProbePath only checks that an executable exists on the search path
	ProbePath ProbeKind = "path"
	// ProbeLiveness additionally runs the program briefly with output discarded
	ProbeLiveness ProbeKind = "liveness"
)

// ProbeStrategy describes how to test a candidate
type ProbeStrategy struct {
	Kind ProbeKind `json:"kind"`
	Args []string  `json:"args,omitempty"` // arguments for the liveness run, e.g. --version
}

// Candidate is a pager program known to the dispatcher
type Candidate struct {
	Name     string        `json:"name"`
	Args     []string      `json:"args,omitempty"`
	Priority int           `json:"priority"`
	Probe    ProbeStrategy `json:"probe"`
	Source   Source        `json:"source"`
}

// CommandLine renders the candidate as it would be typed in a shell
func (c Candidate) CommandLine() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Outcome is the result of probing one candidate
type Outcome string

const (
	OutcomeAvailable Outcome = "available"
	OutcomeNotFound  Outcome = "not-found"
	OutcomeUnusable  Outcome = "unusable"
)

// ProbeResult records what the prober learned about a candidate
type ProbeResult struct {
	Candidate Candidate `json:"candidate"`
	Outcome   Outcome   `json:"outcome"`
	Path      string    `json:"path,omitempty"`   // resolved executable, when found
	Reason    string    `json:"reason,omitempty"` // set for Unusable
}

// Available reports whether the candidate can be launched
func (r ProbeResult) Available() bool {
	return r.Outcome == OutcomeAvailable
}

// Err converts a non-available result into the matching error kind
func (r ProbeResult) Err() error {
	switch r.Outcome {
	case OutcomeAvailable:
		return nil
	case OutcomeNotFound:
		return &Error{Kind: KindCandidateNotFound, Candidate: r.Candidate.Name, Err: ErrNotOnPath}
	default:
		return &Error{Kind: KindCandidateUnusable, Candidate: r.Candidate.Name, Err: fmt.Errorf("%s", r.Reason)}
	}
}

// OverrideKind enumerates the effect an override has on selection
type OverrideKind int

const (
	// OverrideNone leaves the registry order untouched
	OverrideNone OverrideKind = iota
	// OverridePrefer tries one program before the registry order
	OverridePrefer
	// OverrideReplace substitutes the whole candidate ordering
	OverrideReplace
)

func (k OverrideKind) String() string {
	switch k {
	case OverridePrefer:
		return "prefer"
	case OverrideReplace:
		return "replace"
	default:
		return "none"
	}
}

// Override is an explicit instruction for one invocation
type Override struct {
	Kind    OverrideKind
	Command string   // OverridePrefer: command line of the preferred program
	Order   []string // OverrideReplace: command lines in the desired order
}

// NoOverride returns the empty override
func NoOverride() Override {
	return Override{Kind: OverrideNone}
}

// Prefer returns an override preferring the given command line
func Prefer(command string) Override {
	if strings.TrimSpace(command) == "" {
		return NoOverride()
	}
	return Override{Kind: OverridePrefer, Command: command}
}

// Replace returns an override replacing the candidate ordering
func Replace(order []string) Override {
	var cleaned []string
	for _, entry := range order {
		if strings.TrimSpace(entry) != "" {
			cleaned = append(cleaned, entry)
		}
	}
	if len(cleaned) == 0 {
		return NoOverride()
	}
	return Override{Kind: OverrideReplace, Order: cleaned}
}

// Selection is the single chosen candidate, or none
type Selection struct {
	Chosen *ProbeResult  `json:"chosen,omitempty"`
	Probes []ProbeResult `json:"probes"` // every probe performed, in order

	// OverrideErr is an OverrideInvalid error when an override was given but not honored
	OverrideErr error `json:"-"`
}

// OverrideRejected reports whether an override was given but not honored
func (s Selection) OverrideRejected() bool {
	return s.OverrideErr != nil
}

// None reports whether no candidate was available
func (s Selection) None() bool {
	return s.Chosen == nil
}

// Tried lists the names of every probed candidate, in probe order
func (s Selection) Tried() []string {
	names := make([]string, 0, len(s.Probes))
	for _, p := range s.Probes {
		names = append(names, p.Candidate.Name)
	}
	return names
}

// ExecutionOutcome is what the execution bridge reports back
type ExecutionOutcome struct {
	ExitCode int
	Err      error // non-nil when the hand-off itself failed or never happened
}

// Exit codes. A successful hand-off reports the pager's own status instead.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsage       = 64 // EX_USAGE
	ExitNoInput     = 66 // EX_NOINPUT
	ExitNoCandidate = 69 // EX_UNAVAILABLE
	ExitExecFailure = 71 // EX_OSERR
	ExitConfig      = 78 // EX_CONFIG
	ExitInterrupted = 130
)
