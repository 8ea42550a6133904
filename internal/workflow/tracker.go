package workflow

import "sync"

// Tracker holds the current lifecycle phase and the set of files modified
// since the last transition. It is an explicit state object constructed per
// server session and injected where needed — no package-level state, so
// tests can run in parallel against independent trackers.
//
// The tracker enforces no legality rules: SetPhase overwrites whatever was
// there. Gate evaluation happens in the tool layer before SetPhase is called.
type Tracker struct {
	mu         sync.Mutex
	current    Phase
	phaseStart int64 // unix millis of the last SetPhase; 0 if never set

	// files is an insertion-ordered set: fileSet for O(1) duplicate
	// detection, fileOrder for deterministic iteration.
	fileSet   map[string]bool
	fileOrder []string
}

// NewTracker creates an empty tracker with no phase set.
func NewTracker() *Tracker {
	return &Tracker{
		current: PhaseNone,
		fileSet: make(map[string]bool),
	}
}

// SetPhase records p as the current phase and resets the phase-start
// timestamp to now. Any previous phase is overwritten without validation.
func (t *Tracker) SetPhase(p Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = p
	t.phaseStart = timeNow().UnixMilli()
}

// Phase returns the current phase, or PhaseNone if never set.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// PhaseDurationMs returns the milliseconds elapsed since the current phase
// began, or 0 if no phase was ever started.
func (t *Tracker) PhaseDurationMs() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phaseStart == 0 {
		return 0
	}
	d := timeNow().UnixMilli() - t.phaseStart
	if d < 0 {
		return 0
	}
	return d
}

// AddModifiedFile adds path to the pending set. Duplicate inserts are no-ops.
func (t *Tracker) AddModifiedFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fileSet[path] {
		return
	}
	t.fileSet[path] = true
	t.fileOrder = append(t.fileOrder, path)
}

// ModifiedFiles returns the pending set in insertion order.
// The returned slice is a copy — callers cannot mutate tracker state.
func (t *Tracker) ModifiedFiles() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	files := make([]string, len(t.fileOrder))
	copy(files, t.fileOrder)
	return files
}

// ClearModifiedFiles empties the pending set. Called after a successful
// transition has been logged.
func (t *Tracker) ClearModifiedFiles() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fileSet = make(map[string]bool)
	t.fileOrder = nil
}
