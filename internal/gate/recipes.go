package gate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/avelinos/gatekeep/internal/workflow"
)

// recipe is one named validation routine bound to a transition key.
type recipe struct {
	name string
	run  func(e *Evaluator, ctx context.Context, projectRoot string) (bool, string)
}

// recipes maps the four guarded transitions to their validation routines.
// Transitions absent from this table are auto-approved: the lifecycle
// imposes no ordering of its own, only these checkpoints.
var recipes = map[Key]recipe{
	{From: workflow.PhaseDesign, To: workflow.PhaseImplement}: {
		name: "design artifacts",
		run:  (*Evaluator).checkDesignArtifacts,
	},
	{From: workflow.PhaseImplement, To: workflow.PhaseTest}: {
		name: "compile and lint",
		run:  (*Evaluator).checkCompileAndLint,
	},
	{From: workflow.PhaseTest, To: workflow.PhaseReview}: {
		name: "tests and coverage",
		run:  (*Evaluator).checkTestsAndCoverage,
	},
	{From: workflow.PhaseReview, To: workflow.PhaseRelease}: {
		name: "audit and changelog",
		run:  (*Evaluator).checkAuditAndChangelog,
	},
}

// HasRecipe reports whether a validation recipe is defined for the key.
func HasRecipe(key Key) bool {
	_, ok := recipes[key]
	return ok
}

// designArtifactPatterns are the filename globs that count as design
// artifacts for the design→implement gate.
var designArtifactPatterns = []string{"*.design.md", "*.schema.sql", "*.openapi.yml"}

// skipDirs are directory names excluded from artifact scans.
var skipDirs = map[string]bool{
	".git":         true,
	".workflow":    true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// findDesignArtifacts walks the project tree counting files that match any
// design artifact pattern.
func findDesignArtifacts(projectRoot string) (int, error) {
	count := 0
	err := filepath.WalkDir(projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries don't abort the scan
		}
		if d.IsDir() {
			if path != projectRoot && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		for _, pattern := range designArtifactPatterns {
			if ok, _ := filepath.Match(pattern, d.Name()); ok {
				count++
				break
			}
		}
		return nil
	})
	return count, err
}

// eslintConfigFiles are the configuration filenames that mark ESLint as
// configured for the project.
var eslintConfigFiles = []string{
	".eslintrc",
	".eslintrc.json",
	".eslintrc.js",
	".eslintrc.cjs",
	".eslintrc.yml",
	".eslintrc.yaml",
	"eslint.config.js",
	"eslint.config.mjs",
}

// changelogFiles are the filenames accepted by the review→release gate.
var changelogFiles = []string{"CHANGELOG.md", "CHANGELOG", "CHANGELOG.txt", "changelog.md"}

// fileExists reports whether a regular file exists at projectRoot/name.
func fileExists(projectRoot, name string) bool {
	info, err := os.Stat(filepath.Join(projectRoot, name))
	return err == nil && !info.IsDir()
}

// firstExisting returns the first of names that exists under projectRoot,
// or "" if none do.
func firstExisting(projectRoot string, names []string) string {
	for _, name := range names {
		if fileExists(projectRoot, name) {
			return name
		}
	}
	return ""
}
