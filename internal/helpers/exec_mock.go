package helpers

import (
	"context"
	"io"
	"sync"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	RunCommandFunc          func(ctx context.Context, name string, args ...string) (string, error)
	RunCommandStreamingFunc func(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
	GetExitCodeFunc         func(err error) int

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the commands run through the mock, in order
func (m *MockCommandRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCommandRunner) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// RunCommand implements CommandRunner.RunCommand
func (m *MockCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	m.record(name)
	if m.RunCommandFunc != nil {
		return m.RunCommandFunc(ctx, name, args...)
	}
	return "", nil
}

// RunCommandStreaming implements CommandRunner.RunCommandStreaming
func (m *MockCommandRunner) RunCommandStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	m.record(name)
	if m.RunCommandStreamingFunc != nil {
		return m.RunCommandStreamingFunc(ctx, stdout, stderr, name, args...)
	}
	return nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	if err != nil {
		return 1
	}
	return 0
}
