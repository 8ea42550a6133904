package gate

import (
	"strings"
	"testing"

	"github.com/avelinos/gatekeep/internal/workflow"
)

// --- Key ---

func TestKey_String(t *testing.T) {
	key := Key{From: workflow.PhaseImplement, To: workflow.PhaseTest}
	if got := key.String(); got != "implement→test" {
		t.Errorf("String() = %q, want implement→test", got)
	}
}

func TestParseKey_ArrowSeparator(t *testing.T) {
	key, err := ParseKey("design→implement")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if key.From != workflow.PhaseDesign || key.To != workflow.PhaseImplement {
		t.Errorf("key = %s", key)
	}
}

func TestParseKey_ASCIISeparator(t *testing.T) {
	key, err := ParseKey("test->review")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if key.From != workflow.PhaseTest || key.To != workflow.PhaseReview {
		t.Errorf("key = %s", key)
	}
}

func TestParseKey_TrimsWhitespace(t *testing.T) {
	key, err := ParseKey("  review -> release ")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if key.From != workflow.PhaseReview || key.To != workflow.PhaseRelease {
		t.Errorf("key = %s", key)
	}
}

func TestParseKey_Rejects(t *testing.T) {
	tests := []string{
		"implement",          // no separator
		"implement→deploy",   // unknown phase
		"sprint->test",       // unknown phase
		"",                   // empty
		"implement→test→foo", // extra segment folds into an invalid phase
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseKey(raw); err == nil {
				t.Errorf("ParseKey(%q) should fail", raw)
			}
		})
	}
}

func TestParseKey_RoundTripsString(t *testing.T) {
	orig := Key{From: workflow.PhaseReview, To: workflow.PhaseRelease}
	parsed, err := ParseKey(orig.String())
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if parsed != orig {
		t.Errorf("round trip = %s, want %s", parsed, orig)
	}
}

// --- NewCheckRecord ---

func TestNewCheckRecord_BlockedMatrix(t *testing.T) {
	// Same result, different mode: passed/message identical, only the
	// enforcement outcome differs.
	tests := []struct {
		name    string
		passed  bool
		mode    Mode
		blocked bool
	}{
		{"pass warning", true, ModeWarning, false},
		{"pass strict", true, ModeStrict, false},
		{"fail warning", false, ModeWarning, false},
		{"fail strict", false, ModeStrict, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Result{
				Transition: "implement→test",
				Passed:     tt.passed,
				Message:    "compile: tsc reported errors (exit 2)",
				Timestamp:  "2026-03-01T10:00:00Z",
			}
			rec := NewCheckRecord(res, tt.mode)

			if rec.Blocked != tt.blocked {
				t.Errorf("Blocked = %v, want %v", rec.Blocked, tt.blocked)
			}
			if rec.Passed != tt.passed || rec.Mode != tt.mode {
				t.Errorf("record = %+v", rec)
			}
			if rec.Message != res.Message || rec.Transition != res.Transition {
				t.Error("record should carry the result fields unchanged")
			}
		})
	}
}

// --- ProbeError ---

func TestProbeError_Messages(t *testing.T) {
	err := &ProbeError{Step: "lint", Err: errContains("exec: not found")}
	if !strings.Contains(err.Error(), "probe lint") {
		t.Errorf("Error() = %q", err.Error())
	}

	timeout := &ProbeError{Step: "lint", TimedOut: true, Err: errContains("deadline")}
	if !strings.Contains(timeout.Error(), "timed out") {
		t.Errorf("Error() = %q", timeout.Error())
	}
}

type errContains string

func (e errContains) Error() string { return string(e) }
