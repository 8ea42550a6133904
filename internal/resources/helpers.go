package resources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avelinos/gatekeep/internal/config"
)

// findRoot walks up from cwd looking for a .workflow directory.
// Shared utility for resource handlers.
func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		if info, err := os.Stat(filepath.Join(current, config.WorkflowDir)); err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}
