package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sceneimport/pkg/scene"
)

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

// formatBounds renders a box as its center and size.
func formatBounds(b scene.Bounds) string {
	if b.IsEmpty() {
		return "none"
	}
	c, s := b.Center(), b.Size()
	return fmt.Sprintf("center (%.3g, %.3g, %.3g)  size %.3g × %.3g × %.3g", c[0], c[1], c[2], s[0], s[1], s[2])
}
