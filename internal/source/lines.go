package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// maxLineSize bounds a single line of tool output. Demangled C++ names in
// objdump output can be long.
const maxLineSize = 1 << 20

// ScanLines calls fn for every line of r until r is exhausted, fn fails or
// ctx is done. A final line without a trailing newline is delivered too.
func ScanLines(ctx context.Context, r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// StreamLines runs the program at path and passes its standard output to fn
// line by line. Standard error is forwarded to the caller's standard error.
// The process is killed when fn fails or ctx is done; a non-zero exit status
// is reported as an error.
func StreamLines(ctx context.Context, path string, args []string, fn func(line string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	//nolint:gosec // G204: tool path and arguments come from configuration.
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe for %s: %w", path, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", path, err)
	}

	scanErr := ScanLines(ctx, stdout, fn)
	if scanErr != nil {
		// Stop the producer and unblock Wait.
		cancel()
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	if scanErr != nil {
		return scanErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fmt.Errorf("%s exited with code %d", path, exitErr.ExitCode())
		}
		return fmt.Errorf("%s failed: %w", path, waitErr)
	}
	return nil
}
