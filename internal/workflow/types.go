// Package workflow tracks the lifecycle phase of a development session.
//
// It holds the process-wide phase state (which phase the work is in, which
// files were touched since the last transition) and keeps an append-only
// audit log of every phase transition. Legality of a transition is NOT
// decided here — that is the gate package's job. The tracker is deliberately
// phase-agnostic storage; the tool layer validates phase names before
// calling in.
//
// Design principles follow the rest of the codebase:
// - SRP: types, tracker, logger, and report generation in separate files
// - DIP: the logger writes to a path it is given; path layout lives in config
package workflow

import (
	"fmt"
	"strings"
)

// --- Phase enum ---

// Phase is a named stage in the development lifecycle.
type Phase string

const (
	PhasePlan      Phase = "plan"
	PhaseDesign    Phase = "design"
	PhaseImplement Phase = "implement"
	PhaseTest      Phase = "test"
	PhaseReview    Phase = "review"
	PhaseRelease   Phase = "release"
	PhaseOperate   Phase = "operate"

	// PhaseNone is the zero state before any phase has been set.
	PhaseNone Phase = "none"
)

// PhaseOrder lists the canonical lifecycle order. The order is advisory:
// nothing prevents moving backwards or skipping — gates only exist for the
// four forward transitions that have validation recipes.
var PhaseOrder = []Phase{
	PhasePlan,
	PhaseDesign,
	PhaseImplement,
	PhaseTest,
	PhaseReview,
	PhaseRelease,
	PhaseOperate,
}

// validPhases is the set of allowed phase names.
var validPhases = map[Phase]bool{
	PhasePlan:      true,
	PhaseDesign:    true,
	PhaseImplement: true,
	PhaseTest:      true,
	PhaseReview:    true,
	PhaseRelease:   true,
	PhaseOperate:   true,
}

// ParsePhase converts a raw string into a Phase, rejecting anything outside
// the seven legal names. The error message enumerates the legal values so
// the caller can surface it directly.
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	if !validPhases[p] {
		return "", fmt.Errorf("invalid phase %q: must be one of: %s", s, phaseList())
	}
	return p, nil
}

func phaseList() string {
	names := make([]string, len(PhaseOrder))
	for i, p := range PhaseOrder {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// --- Transition record ---

// Transition is an immutable record of one phase change. Records are
// appended to transitions.jsonl, one JSON object per line, and never
// mutated or deleted afterwards.
type Transition struct {
	Timestamp     string   `json:"timestamp"`
	From          Phase    `json:"from,omitempty"` // empty for the first transition
	To            Phase    `json:"to"`
	DurationMs    int64    `json:"duration_ms"` // time spent in the previous phase
	FilesModified []string `json:"files_modified,omitempty"`
}

// --- Error types ---

// PersistenceError reports a failed write to the transition log or a report
// file. Unlike notification failures (best-effort by design), losing an
// audit record is a correctness bug, so this error always propagates.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
