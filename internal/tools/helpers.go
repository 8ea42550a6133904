// Package tools implements MCP tool handlers for workflow tracking and
// quality gates.
//
// Each tool is a function that receives dependencies via its struct (DIP)
// and returns a handler compatible with mcp-go's CallToolRequest signature.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on interfaces and injected collaborators, not concretions
// - OCP: new tools are added without modifying existing ones
package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avelinos/gatekeep/internal/config"
)

// findProjectRoot walks up from the current working directory looking
// for an existing .workflow/ directory. If none is found, returns cwd.
// This allows tools to work from any subdirectory of the project.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		candidate := filepath.Join(current, config.WorkflowDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root, no tracked project found.
			// Return original cwd — the caller decides what to do.
			return dir, nil
		}
		current = parent
	}
}

// modeLabel renders the gate mode for tool responses.
func modeLabel(strict bool) string {
	if strict {
		return "strict"
	}
	return "warning"
}
