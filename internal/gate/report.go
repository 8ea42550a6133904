package gate

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/avelinos/gatekeep/internal/workflow"
)

// TransitionStats aggregates gate checks for one transition key.
type TransitionStats struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// QualityReport is a derived aggregate over the gate check log —
// recomputed from the full log on demand, overwritten in place, never a
// source of truth. CommonFailures is a histogram keyed by the failure
// message's leading "category:" segment; a coarse grouping, good enough
// for trend-spotting.
type QualityReport struct {
	TotalChecks    int                         `json:"total_checks"`
	Passed         int                         `json:"passed"`
	Failed         int                         `json:"failed"`
	Blocked        int                         `json:"blocked"`
	PassRate       float64                     `json:"pass_rate"`
	ByTransition   map[string]*TransitionStats `json:"by_transition"`
	CommonFailures map[string]int              `json:"common_failures"`
	SkippedLines   int                         `json:"skipped_lines,omitempty"`
	GeneratedAt    string                      `json:"generated_at"`
}

// GenerateQualityReport folds the gate check log at logPath into a
// QualityReport, writes it to reportPath, and returns it.
//
// A missing log returns (nil, nil) — fresh projects have no gate history
// yet. Malformed lines are skipped and counted, never fatal.
func GenerateQualityReport(logPath, reportPath string) (*QualityReport, error) {
	report := &QualityReport{
		ByTransition:   make(map[string]*TransitionStats),
		CommonFailures: make(map[string]int),
		GeneratedAt:    timeNow().UTC().Format(time.RFC3339),
	}

	found, err := workflow.EachLogLine(logPath, func(line []byte) {
		var rec CheckRecord
		if err := json.Unmarshal(line, &rec); err != nil || rec.Transition == "" {
			report.SkippedLines++
			return
		}

		report.TotalChecks++
		stats := report.ByTransition[rec.Transition]
		if stats == nil {
			stats = &TransitionStats{}
			report.ByTransition[rec.Transition] = stats
		}
		stats.Total++

		if rec.Passed {
			report.Passed++
			stats.Passed++
		} else {
			report.Failed++
			stats.Failed++
			report.CommonFailures[failureCategory(rec.Message)]++
		}
		if rec.Blocked {
			report.Blocked++
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	if report.TotalChecks > 0 {
		report.PassRate = float64(report.Passed) / float64(report.TotalChecks)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, &workflow.PersistenceError{Path: reportPath, Op: "encode report for", Err: err}
	}
	data = append(data, '\n')
	if err := os.WriteFile(reportPath, data, 0o644); err != nil {
		return nil, &workflow.PersistenceError{Path: reportPath, Op: "write", Err: err}
	}
	return report, nil
}

// failureCategory derives the histogram bucket from a failure message:
// everything before the first colon, or the whole message if there is none.
func failureCategory(message string) string {
	if idx := strings.Index(message, ":"); idx > 0 {
		return strings.TrimSpace(message[:idx])
	}
	return strings.TrimSpace(message)
}
