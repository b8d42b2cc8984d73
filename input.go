package heif

import (
	"io"
	"os"
	"path/filepath"
)

// Inputs read from files and streams are owned by the package, so the context
// may borrow them without the caller having to keep them unmodified.

func readFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(path))
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
