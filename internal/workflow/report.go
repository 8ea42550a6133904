package workflow

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"
)

// PhaseStats aggregates transitions into a single target phase.
type PhaseStats struct {
	Count           int   `json:"count"`
	TotalDurationMs int64 `json:"total_duration_ms"`
}

// Report is a derived aggregate over the transition log. It is a pure
// projection: regenerated from the full log on every request, overwritten
// in place, and never itself a source of truth.
type Report struct {
	TotalTransitions int                   `json:"total_transitions"`
	Phases           map[Phase]*PhaseStats `json:"phases"`
	FilesChanged     []string              `json:"files_changed"`
	SkippedLines     int                   `json:"skipped_lines,omitempty"`
	GeneratedAt      string                `json:"generated_at"`
}

// GenerateReport reads the transition log at logPath, folds it into a
// Report, writes the result to reportPath, and returns it.
//
// A missing log file is an expected condition for a fresh project and
// returns (nil, nil) — the "no data" sentinel, not an error. Malformed
// lines (partial writes from a crash) are skipped and counted in
// SkippedLines rather than aborting the fold.
func GenerateReport(logPath, reportPath string) (*Report, error) {
	report := &Report{
		Phases:      make(map[Phase]*PhaseStats),
		GeneratedAt: timeNow().UTC().Format(time.RFC3339),
	}

	filesSeen := make(map[string]bool)
	found, err := EachLogLine(logPath, func(line []byte) {
		var tr Transition
		if err := json.Unmarshal(line, &tr); err != nil || tr.To == "" {
			report.SkippedLines++
			return
		}

		report.TotalTransitions++
		stats := report.Phases[tr.To]
		if stats == nil {
			stats = &PhaseStats{}
			report.Phases[tr.To] = stats
		}
		stats.Count++
		stats.TotalDurationMs += tr.DurationMs

		for _, file := range tr.FilesModified {
			filesSeen[file] = true
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	// Sorted for deterministic, idempotent output.
	report.FilesChanged = make([]string, 0, len(filesSeen))
	for file := range filesSeen {
		report.FilesChanged = append(report.FilesChanged, file)
	}
	sort.Strings(report.FilesChanged)

	if err := writeReport(reportPath, report); err != nil {
		return nil, err
	}
	return report, nil
}

// LastTransition returns the final valid record in the transition log, or
// (nil, nil) if the log does not exist or holds no valid records. Used to
// recover current-phase context after a process restart — the in-memory
// tracker does not survive, but the log does.
func LastTransition(logPath string) (*Transition, error) {
	var last *Transition
	_, err := EachLogLine(logPath, func(line []byte) {
		var tr Transition
		if err := json.Unmarshal(line, &tr); err != nil || tr.To == "" {
			return
		}
		copied := tr
		last = &copied
	})
	if err != nil {
		return nil, err
	}
	return last, nil
}

// EachLogLine opens the JSONL log at path and calls fn for every non-empty
// line. Lines are delivered whole regardless of length, so an oversized
// corrupt line reaches fn (where its JSON parse fails and it is counted as
// skipped) instead of aborting the read. Returns found=false without error
// when the log does not exist.
func EachLogLine(path string, fn func(line []byte)) (found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &PersistenceError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, rerr := r.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			fn(trimmed)
		}
		if rerr == io.EOF {
			return true, nil
		}
		if rerr != nil {
			return true, &PersistenceError{Path: path, Op: "scan", Err: rerr}
		}
	}
}

// writeReport marshals and overwrites the report file.
func writeReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return &PersistenceError{Path: path, Op: "encode report for", Err: err}
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PersistenceError{Path: path, Op: "write", Err: err}
	}
	return nil
}
