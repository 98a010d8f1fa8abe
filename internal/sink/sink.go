// Package sink resolves where rendered output is written.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/agenda/internal/core/agenda"
)

// Open returns the output destination. An empty path writes to stdout, and
// closing it leaves stdout open. Otherwise the file is created or truncated.
func Open(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", agenda.ErrOutputSinkUnavailable, path, err)
	}

	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
