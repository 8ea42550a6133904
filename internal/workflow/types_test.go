package workflow

import (
	"strings"
	"testing"
)

// --- ParsePhase ---

func TestParsePhase_AllLegalNames(t *testing.T) {
	for _, p := range PhaseOrder {
		t.Run(string(p), func(t *testing.T) {
			got, err := ParsePhase(string(p))
			if err != nil {
				t.Fatalf("ParsePhase(%s) failed: %v", p, err)
			}
			if got != p {
				t.Errorf("ParsePhase(%s) = %s", p, got)
			}
		})
	}
}

func TestParsePhase_NormalizesCaseAndSpace(t *testing.T) {
	tests := []struct {
		raw  string
		want Phase
	}{
		{"  plan  ", PhasePlan},
		{"IMPLEMENT", PhaseImplement},
		{"Review", PhaseReview},
	}

	for _, tt := range tests {
		got, err := ParsePhase(tt.raw)
		if err != nil {
			t.Errorf("ParsePhase(%q) failed: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePhase(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParsePhase_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "deploy", "planning", "none"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParsePhase(raw)
			if err == nil {
				t.Fatalf("ParsePhase(%q) should fail", raw)
			}
			// The error must enumerate the legal names so tools can
			// surface it directly.
			if !strings.Contains(err.Error(), "plan, design, implement, test, review, release, operate") {
				t.Errorf("error should list legal phases, got: %v", err)
			}
		})
	}
}

func TestPhaseOrder_CoversValidPhases(t *testing.T) {
	if len(PhaseOrder) != len(validPhases) {
		t.Fatalf("PhaseOrder has %d phases, validPhases has %d", len(PhaseOrder), len(validPhases))
	}
	for _, p := range PhaseOrder {
		if !validPhases[p] {
			t.Errorf("phase %s in PhaseOrder but not valid", p)
		}
	}
}
