package source

import (
	"fmt"
	"io"

	"github.com/coral-mesh/callgraph/internal/safe"
)

// MaxReportSize bounds saved tool output read from disk (4GB).
const MaxReportSize = 4 << 30

func readReport(path string, fn func(io.Reader) error) error {
	f, err := safe.Open(path, &safe.Options{MaxSize: MaxReportSize, AllowSymlinks: true})
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return fn(f)
}
