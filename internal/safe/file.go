// Package safe opens user-supplied files with symlink, type and size checks.
package safe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultMaxFileSize is the default maximum file size for safe file operations (1MB).
const DefaultMaxFileSize = 1 << 20

// Options configures the checks applied before a file is opened.
type Options struct {
	// MaxSize is the maximum allowed file size in bytes. Zero means DefaultMaxFileSize.
	MaxSize int64
	// AllowSymlinks allows opening symlink targets. Default is false.
	AllowSymlinks bool
}

func check(path string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}
	maxSize := opts.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	cleanPath := filepath.Clean(path)

	// Check file info without following symlinks.
	info, err := os.Lstat(cleanPath)
	if err != nil {
		return "", err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !opts.AllowSymlinks {
			return "", fmt.Errorf("file %q is a symlink, which is not allowed", path)
		}
		info, err = os.Stat(cleanPath)
		if err != nil {
			return "", err
		}
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("path %q is not a regular file", path)
	}

	if info.Size() > maxSize {
		return "", fmt.Errorf("file %q exceeds maximum allowed size of %d bytes", path, maxSize)
	}

	return cleanPath, nil
}

// Open opens a file for streaming after validating it.
// The caller must close the returned file.
func Open(path string, opts *Options) (*os.File, error) {
	cleanPath, err := check(path, opts)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - validated above.
	return os.Open(cleanPath)
}

// ReadFile reads a whole file after validating it.
func ReadFile(path string, opts *Options) ([]byte, error) {
	f, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return io.ReadAll(f)
}
