// Package gate decides whether a requested phase transition should proceed.
//
// Four fixed transitions carry validation recipes (design→implement,
// implement→test, test→review, review→release); everything else is
// auto-approved with an informational message. A recipe runs external probe
// commands (compile check, lint, test suite, dependency audit) against the
// project and folds the outcome into a single pass/fail Result.
//
// Gate failures are data, not errors: they flow back as {passed, message}
// and the enforcement Mode decides whether a failure blocks the transition
// (strict) or merely warns (the default). Probes that cannot run at all
// fail the gate closed — a broken tool must not silently approve a release.
package gate

import (
	"fmt"
	"strings"

	"github.com/avelinos/gatekeep/internal/workflow"
)

// Separator joins the two phases of a transition key in its string form.
const Separator = "→"

// Key identifies a phase transition as a typed pair. Using the two Phase
// values (rather than a formatted string) keeps recipe lookups typo-proof:
// a malformed key fails parsing instead of silently matching nothing.
type Key struct {
	From workflow.Phase
	To   workflow.Phase
}

// String renders the key in the canonical "from→to" form used in logs
// and reports.
func (k Key) String() string {
	return string(k.From) + Separator + string(k.To)
}

// ParseKey converts a "from→to" string into a Key. Both the arrow and the
// ASCII "->" separator are accepted. Phase names must be legal.
func ParseKey(s string) (Key, error) {
	raw := strings.TrimSpace(s)
	var parts []string
	switch {
	case strings.Contains(raw, Separator):
		parts = strings.SplitN(raw, Separator, 2)
	case strings.Contains(raw, "->"):
		parts = strings.SplitN(raw, "->", 2)
	default:
		return Key{}, fmt.Errorf("invalid transition %q: expected \"from%sto\"", s, Separator)
	}

	from, err := workflow.ParsePhase(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("invalid transition %q: %w", s, err)
	}
	to, err := workflow.ParsePhase(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("invalid transition %q: %w", s, err)
	}
	return Key{From: from, To: to}, nil
}

// --- Enforcement mode ---

// Mode is the enforcement policy for failed gates.
type Mode string

const (
	// ModeWarning surfaces failures without blocking the transition.
	ModeWarning Mode = "warning"
	// ModeStrict blocks the transition when the gate fails.
	ModeStrict Mode = "strict"
)

// --- Evaluation result ---

// Result is the outcome of one gate evaluation. Messages follow a
// "category: detail" shape; the quality report groups failures by the
// segment before the first colon.
type Result struct {
	Transition string `json:"transition"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

// CheckRecord is the append-only log entry for one evaluation. Every
// evaluation is recorded — pass or fail, either mode — independent of
// whether enforcement blocked anything.
type CheckRecord struct {
	Transition string `json:"transition"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Mode       Mode   `json:"mode"`
	Blocked    bool   `json:"blocked"`
}

// NewCheckRecord derives the log entry for a result under the given mode.
// Blocked is true only for a failure under strict enforcement.
func NewCheckRecord(res Result, mode Mode) CheckRecord {
	return CheckRecord{
		Transition: res.Transition,
		Passed:     res.Passed,
		Message:    res.Message,
		Timestamp:  res.Timestamp,
		Mode:       mode,
		Blocked:    !res.Passed && mode == ModeStrict,
	}
}

// --- Probe errors ---

// ProbeError reports that an external probe could not run for reasons
// unrelated to its pass/fail semantics: the binary is missing, the process
// could not be spawned, or the probe timed out. Evaluation treats these as
// gate failures (fail-closed), never as crashes.
type ProbeError struct {
	Step     string
	TimedOut bool
	Err      error
}

func (e *ProbeError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("probe %s timed out: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("probe %s: %v", e.Step, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }
