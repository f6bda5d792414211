// Package filex contains file system helpers for the CLI.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateInDir creates dir (and parents) if needed and opens a new file name
// inside it. An existing file is never overwritten.
func CreateInDir(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	return f, nil
}
