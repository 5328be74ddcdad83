package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CheckWritable checks if a directory is writable
func CheckWritable(fs afero.Fs, path string) error {
	testFile := filepath.Join(path, ".mpager_write_test")
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsRegular checks if a path is a regular file (after following symlinks)
func IsRegular(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsExecutable checks if a path is a regular file with at least one execute bit set
func IsExecutable(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
