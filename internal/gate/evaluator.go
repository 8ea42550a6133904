package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Evaluator runs validation recipes against a project. It is stateless
// between evaluations; every outcome it produces is recorded separately by
// the CheckLogger.
type Evaluator struct {
	runner            Runner
	coverageThreshold int
	probeTimeout      time.Duration
}

// NewEvaluator creates an evaluator. A nil runner defaults to ExecRunner;
// out-of-range thresholds and timeouts fall back to the documented defaults
// (80%, 3m).
func NewEvaluator(runner Runner, coverageThreshold int, probeTimeout time.Duration) *Evaluator {
	if runner == nil {
		runner = ExecRunner{}
	}
	if coverageThreshold <= 0 || coverageThreshold > 100 {
		coverageThreshold = 80
	}
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Minute
	}
	return &Evaluator{
		runner:            runner,
		coverageThreshold: coverageThreshold,
		probeTimeout:      probeTimeout,
	}
}

// Evaluate runs the validation recipe for key against the project at
// projectRoot. Transitions without a recipe are approved with an
// informational message — requesting an unguarded transition is normal,
// not an error.
func (e *Evaluator) Evaluate(ctx context.Context, key Key, projectRoot string) Result {
	res := Result{
		Transition: key.String(),
		Timestamp:  timeNow().UTC().Format(time.RFC3339),
	}

	r, ok := recipes[key]
	if !ok {
		res.Passed = true
		res.Message = fmt.Sprintf("no gate: no validation recipe defined for %s — transition approved", key)
		return res
	}

	res.Passed, res.Message = r.run(e, ctx, projectRoot)
	return res
}

// --- design→implement ---

func (e *Evaluator) checkDesignArtifacts(_ context.Context, projectRoot string) (bool, string) {
	count, err := findDesignArtifacts(projectRoot)
	if err != nil {
		return false, fmt.Sprintf("design artifacts: could not scan project: %v", err)
	}
	if count == 0 {
		return false, fmt.Sprintf(
			"design artifacts: no design documents found (expected %s)",
			strings.Join(designArtifactPatterns, ", "))
	}
	return true, fmt.Sprintf("design artifacts: found %d matching file(s)", count)
}

// --- implement→test ---

func (e *Evaluator) checkCompileAndLint(ctx context.Context, projectRoot string) (bool, string) {
	ran := 0

	if fileExists(projectRoot, "tsconfig.json") {
		out, perr := e.runProbe(ctx, "compile check", projectRoot, "npx", "tsc", "--noEmit")
		if perr != nil {
			if perr.TimedOut {
				return false, e.timeoutFailure("compile check")
			}
			return false, fmt.Sprintf("compile: could not run tsc: %v", perr.Err)
		}
		if out.ExitCode != 0 {
			return false, fmt.Sprintf("compile: tsc reported errors (exit %d)", out.ExitCode)
		}
		ran++
	}

	if cfg := firstExisting(projectRoot, eslintConfigFiles); cfg != "" {
		out, perr := e.runProbe(ctx, "lint", projectRoot, "npx", "eslint", ".")
		if perr != nil {
			if perr.TimedOut {
				return false, e.timeoutFailure("lint")
			}
			return false, fmt.Sprintf("lint: could not run eslint: %v", perr.Err)
		}
		if out.ExitCode != 0 {
			return false, fmt.Sprintf("lint: eslint reported problems (exit %d)", out.ExitCode)
		}
		ran++
	}

	if ran == 0 {
		return true, "skipped: no compile or lint configuration found — nothing to check"
	}
	return true, fmt.Sprintf("checks passed: %d static check(s) clean", ran)
}

// --- test→review ---

func (e *Evaluator) checkTestsAndCoverage(ctx context.Context, projectRoot string) (bool, string) {
	ranTests := false
	if hasTestScript(projectRoot) {
		out, perr := e.runProbe(ctx, "test suite", projectRoot, "npm", "test", "--silent")
		if perr != nil {
			if perr.TimedOut {
				return false, e.timeoutFailure("test suite")
			}
			return false, fmt.Sprintf("tests: could not run test suite: %v", perr.Err)
		}
		if out.ExitCode != 0 {
			return false, fmt.Sprintf("tests: test suite failed (exit %d)", out.ExitCode)
		}
		ranTests = true
	}

	coveragePath := filepath.Join("coverage", "coverage-summary.json")
	if fileExists(projectRoot, coveragePath) {
		pct, err := readCoveragePct(filepath.Join(projectRoot, coveragePath))
		if err != nil {
			// Fail closed: a coverage file we cannot read is not a pass.
			return false, fmt.Sprintf("coverage: could not parse %s: %v", coveragePath, err)
		}
		if pct < float64(e.coverageThreshold) {
			return false, fmt.Sprintf("coverage: %.1f%% is below the %d%% threshold", pct, e.coverageThreshold)
		}
		if ranTests {
			return true, fmt.Sprintf("checks passed: test suite clean, coverage %.1f%% meets the %d%% threshold", pct, e.coverageThreshold)
		}
		return true, fmt.Sprintf("checks passed: coverage %.1f%% meets the %d%% threshold", pct, e.coverageThreshold)
	}

	if !ranTests {
		return true, "skipped: no test configuration or coverage report found — nothing to check"
	}
	return true, "checks passed: test suite clean (no coverage report present)"
}

// hasTestScript reports whether package.json declares a test script.
func hasTestScript(projectRoot string) bool {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return false
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	return strings.TrimSpace(pkg.Scripts["test"]) != ""
}

// readCoveragePct extracts total line coverage from an istanbul-style
// coverage-summary.json.
func readCoveragePct(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var summary struct {
		Total struct {
			Lines struct {
				Pct float64 `json:"pct"`
			} `json:"lines"`
		} `json:"total"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return 0, err
	}
	return summary.Total.Lines.Pct, nil
}

// --- review→release ---

func (e *Evaluator) checkAuditAndChangelog(ctx context.Context, projectRoot string) (bool, string) {
	changelog := firstExisting(projectRoot, changelogFiles)
	if changelog == "" {
		return false, "changelog: no changelog file found (expected CHANGELOG.md)"
	}

	if !fileExists(projectRoot, "package.json") {
		return true, fmt.Sprintf("checks passed: %s present, no dependency manifest to audit", changelog)
	}

	out, perr := e.runProbe(ctx, "dependency audit", projectRoot, "npm", "audit", "--json")
	if perr != nil {
		if perr.TimedOut {
			return false, e.timeoutFailure("dependency audit")
		}
		return false, fmt.Sprintf("audit: could not run npm audit: %v", perr.Err)
	}

	// npm audit exits non-zero when findings exist; the JSON on stdout is
	// still the verdict we need.
	high, critical, err := parseAuditFindings(out.Stdout)
	if err != nil {
		return false, fmt.Sprintf("audit: could not parse npm audit output: %v", err)
	}
	if high+critical > 0 {
		return false, fmt.Sprintf("audit: %d high and %d critical finding(s)", high, critical)
	}
	return true, fmt.Sprintf("checks passed: no high/critical findings, %s present", changelog)
}

// parseAuditFindings extracts high/critical counts from npm audit --json.
func parseAuditFindings(stdout string) (high, critical int, err error) {
	var report struct {
		Metadata struct {
			Vulnerabilities struct {
				High     int `json:"high"`
				Critical int `json:"critical"`
			} `json:"vulnerabilities"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		return 0, 0, err
	}
	return report.Metadata.Vulnerabilities.High, report.Metadata.Vulnerabilities.Critical, nil
}
