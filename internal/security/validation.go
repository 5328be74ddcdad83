package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ValidProgramNameRegex allows bare names and paths made of common filename characters
	ValidProgramNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._+/~-]+$`)

	// ShellMetaCharacters never appear in a program name we are willing to launch.
	// Candidates are executed directly, so these usually mean the user expected a shell.
	ShellMetaCharacters = []string{
		";", "&", "|", "`", "$", "(", ")", "<", ">", "*", "?",
	}
)

// ValidateProgramName validates the program part of a candidate command line
func ValidateProgramName(name string) error {
	if name == "" {
		return fmt.Errorf("program name cannot be empty")
	}

	if len(name) >= 4096 {
		return fmt.Errorf("program name too long (max 4095 characters)")
	}

	if strings.Contains(name, "\x00") {
		return fmt.Errorf("program name contains null byte")
	}

	for _, char := range ShellMetaCharacters {
		if strings.Contains(name, char) {
			return fmt.Errorf("program name contains shell metacharacter %q (commands are not run through a shell)", char)
		}
	}

	if !ValidProgramNameRegex.MatchString(name) {
		return fmt.Errorf("invalid program name %q", name)
	}

	return nil
}

// ValidateCommandArg validates an argument passed to a pager.
// Arguments reach the program verbatim, so only bytes that cannot travel through argv are rejected.
func ValidateCommandArg(arg string) error {
	if strings.Contains(arg, "\x00") {
		return fmt.Errorf("argument contains null byte")
	}

	for _, r := range arg {
		if r == '\n' || r == '\r' {
			return fmt.Errorf("argument contains line break")
		}
	}

	return nil
}

// ValidateCommand validates an already split command line
func ValidateCommand(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("command cannot be empty")
	}

	if err := ValidateProgramName(fields[0]); err != nil {
		return err
	}

	for _, arg := range fields[1:] {
		if err := ValidateCommandArg(arg); err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
	}

	return nil
}
