package paths

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG base directories
const AppName = "mpager"

// Resolver centralizes mpager's default locations.
// It derives them from HOME and the XDG base directory variables.
type Resolver struct {
	homeDir string
	getenv  func(string) string
}

// NewResolver creates a Resolver for the current user
func NewResolver() *Resolver {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return &Resolver{homeDir: homeDir, getenv: os.Getenv}
}

// NewResolverWithEnv creates a Resolver with an explicit home and environment (useful for tests)
func NewResolverWithEnv(homeDir string, env map[string]string) *Resolver {
	return &Resolver{
		homeDir: homeDir,
		getenv:  func(key string) string { return env[key] },
	}
}

// HomeDir returns the resolved HOME directory
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// ConfigDir returns $XDG_CONFIG_HOME/mpager, or ~/.config/mpager
func (r *Resolver) ConfigDir() string {
	return filepath.Join(r.xdg("XDG_CONFIG_HOME", ".config"), AppName)
}

// StateDir returns $XDG_STATE_HOME/mpager, or ~/.local/state/mpager
func (r *Resolver) StateDir() string {
	return filepath.Join(r.xdg("XDG_STATE_HOME", filepath.Join(".local", "state")), AppName)
}

// LogFile returns the default log file location
func (r *Resolver) LogFile() string {
	return filepath.Join(r.StateDir(), AppName+".log")
}

// Expand expands a leading ~ and environment variables in path
func (r *Resolver) Expand(path string) string {
	if path == "" {
		return path
	}

	if path == "~" {
		path = r.homeDir
	} else if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		path = filepath.Join(r.homeDir, path[2:])
	}

	return os.Expand(path, r.getenv)
}

func (r *Resolver) xdg(key, fallback string) string {
	// Relative XDG values are ignored
	if dir := r.getenv(key); dir != "" && filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.homeDir, fallback)
}
