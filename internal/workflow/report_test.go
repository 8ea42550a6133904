package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeLog writes raw lines as a transition log fixture.
func writeLog(t *testing.T, lines ...string) (logPath, reportPath string) {
	t.Helper()
	dir := t.TempDir()
	logPath = filepath.Join(dir, "transitions.jsonl")
	reportPath = filepath.Join(dir, "report.json")

	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return logPath, reportPath
}

// --- GenerateReport ---

func TestGenerateReport_MissingLogIsNoData(t *testing.T) {
	dir := t.TempDir()
	report, err := GenerateReport(
		filepath.Join(dir, "transitions.jsonl"),
		filepath.Join(dir, "report.json"),
	)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report != nil {
		t.Errorf("report = %+v, want nil for missing log", report)
	}
	// The no-data sentinel must not create a report file either.
	if _, err := os.Stat(filepath.Join(dir, "report.json")); !os.IsNotExist(err) {
		t.Error("report file should not exist for missing log")
	}
}

func TestGenerateReport_AggregatesPhases(t *testing.T) {
	logPath, reportPath := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
		`{"timestamp":"2026-03-01T10:05:00Z","from":"plan","to":"implement","duration_ms":300000,"files_modified":["src/a.ts"]}`,
		`{"timestamp":"2026-03-01T11:00:00Z","from":"implement","to":"test","duration_ms":3300000,"files_modified":["src/a.ts","src/b.ts"]}`,
		`{"timestamp":"2026-03-01T11:30:00Z","from":"test","to":"implement","duration_ms":1800000}`,
	)

	report, err := GenerateReport(logPath, reportPath)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if report.TotalTransitions != 4 {
		t.Errorf("TotalTransitions = %d, want 4", report.TotalTransitions)
	}

	impl := report.Phases[PhaseImplement]
	if impl == nil {
		t.Fatal("implement stats missing")
	}
	if impl.Count != 2 {
		t.Errorf("implement count = %d, want 2", impl.Count)
	}
	// 300000 (into implement) + 1800000 (back into implement).
	if impl.TotalDurationMs != 2_100_000 {
		t.Errorf("implement duration = %d, want 2100000", impl.TotalDurationMs)
	}

	// Files are deduplicated across transitions and sorted.
	want := []string{"src/a.ts", "src/b.ts"}
	if !reflect.DeepEqual(report.FilesChanged, want) {
		t.Errorf("FilesChanged = %v, want %v", report.FilesChanged, want)
	}

	if report.SkippedLines != 0 {
		t.Errorf("SkippedLines = %d, want 0", report.SkippedLines)
	}
}

func TestGenerateReport_SkipsCorruptLines(t *testing.T) {
	logPath, reportPath := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
		`{"timestamp":"2026-03-01T10:01:00Z","to":"des`, // truncated write
		`not json at all`,
		`{"timestamp":"2026-03-01T10:02:00Z","duration_ms":5}`, // missing "to"
		`{"timestamp":"2026-03-01T10:03:00Z","from":"plan","to":"design","duration_ms":60000}`,
	)

	report, err := GenerateReport(logPath, reportPath)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if report.TotalTransitions != 2 {
		t.Errorf("TotalTransitions = %d, want 2", report.TotalTransitions)
	}
	if report.SkippedLines != 3 {
		t.Errorf("SkippedLines = %d, want 3", report.SkippedLines)
	}
}

func TestGenerateReport_SkipsOversizedCorruptLine(t *testing.T) {
	// A corrupt line far beyond any sane buffer size must be skipped like
	// any other, not abort the whole report.
	logPath, reportPath := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
		strings.Repeat("x", 2<<20),
		`{"timestamp":"2026-03-01T10:03:00Z","from":"plan","to":"design","duration_ms":60000}`,
	)

	report, err := GenerateReport(logPath, reportPath)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.TotalTransitions != 2 {
		t.Errorf("TotalTransitions = %d, want 2", report.TotalTransitions)
	}
	if report.SkippedLines != 1 {
		t.Errorf("SkippedLines = %d, want 1", report.SkippedLines)
	}
}

func TestLastTransition_SurvivesOversizedCorruptLine(t *testing.T) {
	logPath, _ := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
		strings.Repeat("x", 2<<20),
		`{"timestamp":"2026-03-01T10:03:00Z","from":"plan","to":"design","duration_ms":60000}`,
	)

	last, err := LastTransition(logPath)
	if err != nil {
		t.Fatalf("LastTransition: %v", err)
	}
	if last == nil || last.To != PhaseDesign {
		t.Errorf("last = %+v, want the design transition", last)
	}
}

func TestGenerateReport_WritesReportFile(t *testing.T) {
	logPath, reportPath := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
	)

	if _, err := GenerateReport(logPath, reportPath); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report file is not valid JSON: %v", err)
	}
	if parsed.TotalTransitions != 1 {
		t.Errorf("persisted TotalTransitions = %d, want 1", parsed.TotalTransitions)
	}
	if parsed.GeneratedAt == "" {
		t.Error("GeneratedAt should be set")
	}
}

func TestGenerateReport_IsIdempotent(t *testing.T) {
	// Regenerating from an unchanged log overwrites the report with the
	// same aggregate values.
	logPath, reportPath := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
		`{"timestamp":"2026-03-01T10:05:00Z","from":"plan","to":"design","duration_ms":300000,"files_modified":["x.md"]}`,
	)

	first, err := GenerateReport(logPath, reportPath)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	second, err := GenerateReport(logPath, reportPath)
	if err != nil {
		t.Fatalf("GenerateReport (second): %v", err)
	}

	if first.TotalTransitions != second.TotalTransitions {
		t.Errorf("TotalTransitions changed: %d vs %d", first.TotalTransitions, second.TotalTransitions)
	}
	if !reflect.DeepEqual(first.FilesChanged, second.FilesChanged) {
		t.Errorf("FilesChanged changed: %v vs %v", first.FilesChanged, second.FilesChanged)
	}
}

// --- LastTransition ---

func TestLastTransition_MissingLog(t *testing.T) {
	last, err := LastTransition(filepath.Join(t.TempDir(), "transitions.jsonl"))
	if err != nil {
		t.Fatalf("LastTransition: %v", err)
	}
	if last != nil {
		t.Errorf("last = %+v, want nil", last)
	}
}

func TestLastTransition_ReturnsFinalValidRecord(t *testing.T) {
	logPath, _ := writeLog(t,
		`{"timestamp":"2026-03-01T10:00:00Z","to":"plan","duration_ms":0}`,
		`{"timestamp":"2026-03-01T10:05:00Z","from":"plan","to":"implement","duration_ms":300000}`,
		`garbage trailing line`,
	)

	last, err := LastTransition(logPath)
	if err != nil {
		t.Fatalf("LastTransition: %v", err)
	}
	if last == nil {
		t.Fatal("last = nil, want a record")
	}
	if last.To != PhaseImplement {
		t.Errorf("last.To = %s, want implement", last.To)
	}
}
