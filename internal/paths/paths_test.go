package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverDefaults(t *testing.T) {
	t.Parallel()
	r := NewResolverWithEnv("/home/alice", nil)

	assert.Equal(t, "/home/alice", r.HomeDir())
	assert.Equal(t, filepath.Join("/home/alice", ".config", "mpager"), r.ConfigDir())
	assert.Equal(t, filepath.Join("/home/alice", ".local", "state", "mpager"), r.StateDir())
	assert.Equal(t, filepath.Join("/home/alice", ".local", "state", "mpager", "mpager.log"), r.LogFile())
}

func TestResolverXDG(t *testing.T) {
	t.Parallel()

	t.Run("absolute values are honored", func(t *testing.T) {
		t.Parallel()
		r := NewResolverWithEnv("/home/alice", map[string]string{
			"XDG_CONFIG_HOME": "/cfg",
			"XDG_STATE_HOME":  "/state",
		})
		assert.Equal(t, "/cfg/mpager", r.ConfigDir())
		assert.Equal(t, "/state/mpager/mpager.log", r.LogFile())
	})

	t.Run("relative values are ignored", func(t *testing.T) {
		t.Parallel()
		r := NewResolverWithEnv("/home/alice", map[string]string{"XDG_CONFIG_HOME": "cfg"})
		assert.Equal(t, "/home/alice/.config/mpager", r.ConfigDir())
	})
}

func TestResolverExpand(t *testing.T) {
	t.Parallel()
	r := NewResolverWithEnv("/home/alice", map[string]string{"LOGS": "/var/log"})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty path", "", ""},
		{"absolute path", "/usr/local/bin", "/usr/local/bin"},
		{"home only", "~", "/home/alice"},
		{"home expansion", "~/test", "/home/alice/test"},
		{"env expansion", "$LOGS/mpager.log", "/var/log/mpager.log"},
		{"tilde in the middle", "/a/~b", "/a/~b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Expand(tt.input))
		})
	}
}
