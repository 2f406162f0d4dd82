// Package filex prepares the on-disk locations the client writes to.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataDir creates dir (relative paths resolve against the working
// directory) with owner-only permissions and returns its absolute path.
// An existing directory is left as is.
func EnsureDataDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
