// Package config holds the environment-driven settings and the on-disk
// layout of the .workflow directory.
//
// All runtime behavior knobs arrive as GATEKEEP_* environment variables —
// there is no config file. Invalid values fall back to defaults rather than
// failing startup: a misconfigured threshold should not take the whole tool
// surface down.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// WorkflowDir is the project-scoped directory holding logs and reports.
	WorkflowDir = ".workflow"

	// TransitionsLogFile is the append-only phase transition log (JSONL).
	TransitionsLogFile = "transitions.jsonl"
	// ReportFile is the derived workflow report (overwritten on demand).
	ReportFile = "report.json"
	// GateLogFile is the append-only gate evaluation log (JSONL).
	GateLogFile = "quality-gates.jsonl"
	// QualityReportFile is the derived quality report (overwritten on demand).
	QualityReportFile = "quality-report.json"
)

// --- Path helpers ---

// WorkflowPath returns the absolute path to the .workflow directory.
func WorkflowPath(projectRoot string) string {
	return filepath.Join(projectRoot, WorkflowDir)
}

// TransitionsLogPath returns the path to transitions.jsonl.
func TransitionsLogPath(projectRoot string) string {
	return filepath.Join(WorkflowPath(projectRoot), TransitionsLogFile)
}

// ReportPath returns the path to report.json.
func ReportPath(projectRoot string) string {
	return filepath.Join(WorkflowPath(projectRoot), ReportFile)
}

// GateLogPath returns the path to quality-gates.jsonl.
func GateLogPath(projectRoot string) string {
	return filepath.Join(WorkflowPath(projectRoot), GateLogFile)
}

// QualityReportPath returns the path to quality-report.json.
func QualityReportPath(projectRoot string) string {
	return filepath.Join(WorkflowPath(projectRoot), QualityReportFile)
}

// Exists reports whether a .workflow directory is present at projectRoot.
func Exists(projectRoot string) bool {
	info, err := os.Stat(WorkflowPath(projectRoot))
	return err == nil && info.IsDir()
}

// --- Settings ---

// Settings holds the runtime configuration read from the environment.
type Settings struct {
	// TrackingEnabled gates the whole workflow subsystem. When false,
	// track/record tools respond with a disabled notice and write nothing.
	TrackingEnabled bool
	// StrictGates selects the enforcement mode: strict blocks transitions
	// on a failed gate, warning (the default) only surfaces the failure.
	StrictGates bool
	// CoverageThreshold is the minimum acceptable line coverage percentage
	// for the test→review gate.
	CoverageThreshold int
	// ProbeTimeout bounds each external probe command. A hung tool fails
	// the gate with a timeout message instead of wedging the caller.
	ProbeTimeout time.Duration
	// WebhookURL, when set, enables fire-and-forget gate/transition
	// notifications.
	WebhookURL string
	// DataDir is where the metrics database lives.
	DataDir string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		TrackingEnabled:   true,
		StrictGates:       false,
		CoverageThreshold: 80,
		ProbeTimeout:      3 * time.Minute,
		DataDir:           filepath.Join(home, ".gatekeep"),
	}
}

// FromEnv reads settings from GATEKEEP_* environment variables, starting
// from DefaultSettings. Unset or unparsable variables keep their defaults.
//
//	GATEKEEP_TRACKING            bool   (default true)
//	GATEKEEP_STRICT_GATES        bool   (default false)
//	GATEKEEP_COVERAGE_THRESHOLD  int    percent 0-100 (default 80)
//	GATEKEEP_PROBE_TIMEOUT       time.Duration, e.g. "90s" (default 3m)
//	GATEKEEP_WEBHOOK_URL         string (default unset)
//	GATEKEEP_DATA_DIR            string (default ~/.gatekeep)
func FromEnv() Settings {
	s := DefaultSettings()

	if v, ok := lookupBool("GATEKEEP_TRACKING"); ok {
		s.TrackingEnabled = v
	}
	if v, ok := lookupBool("GATEKEEP_STRICT_GATES"); ok {
		s.StrictGates = v
	}
	if raw := os.Getenv("GATEKEEP_COVERAGE_THRESHOLD"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n <= 100 {
			s.CoverageThreshold = n
		}
	}
	if raw := os.Getenv("GATEKEEP_PROBE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			s.ProbeTimeout = d
		}
	}
	if raw := os.Getenv("GATEKEEP_WEBHOOK_URL"); raw != "" {
		s.WebhookURL = raw
	}
	if raw := os.Getenv("GATEKEEP_DATA_DIR"); raw != "" {
		s.DataDir = raw
	}

	return s
}

// lookupBool parses a boolean env var, accepting the strconv forms plus
// "yes"/"no" and "on"/"off".
func lookupBool(key string) (value, ok bool) {
	raw, present := os.LookupEnv(key)
	if !present || raw == "" {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
