package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/templates"
	"github.com/avelinos/gatekeep/internal/workflow"
)

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	if result == nil || len(result.Messages) == 0 {
		t.Fatal("prompt result has no messages")
	}
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("message content type = %T, want TextContent", result.Messages[0].Content)
	}
	return tc.Text
}

// --- Playbook ---

func TestPlaybook_CoversEveryPhase(t *testing.T) {
	for _, phase := range workflow.PhaseOrder {
		data, ok := Playbook(phase)
		if !ok {
			t.Errorf("no playbook for phase %s", phase)
			continue
		}
		if data.Role == "" || data.Objective == "" || len(data.Checklist) == 0 {
			t.Errorf("playbook for %s is incomplete: %+v", phase, data)
		}
		if data.NextPhase == "" {
			t.Errorf("playbook for %s has no next phase", phase)
		}
	}
}

func TestPlaybook_GatedPhasesCarryGateNotes(t *testing.T) {
	// The four gated transitions exit from these phases.
	for _, phase := range []workflow.Phase{
		workflow.PhaseDesign,
		workflow.PhaseImplement,
		workflow.PhaseTest,
		workflow.PhaseReview,
	} {
		data, _ := Playbook(phase)
		if data.GateNote == "" {
			t.Errorf("playbook for %s should describe its exit gate", phase)
		}
	}
}

func TestPlaybook_UnknownPhase(t *testing.T) {
	if _, ok := Playbook(workflow.Phase("shipping")); ok {
		t.Error("unknown phase should have no playbook")
	}
}

// --- StartPrompt ---

func TestStartPrompt_Handle_DefaultsToPlan(t *testing.T) {
	p := NewStartPrompt()

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := promptText(t, result)
	if !strings.Contains(text, "phase='plan'") {
		t.Errorf("default start should target plan: %s", text)
	}
	if !strings.Contains(text, "workflow_track_phase") {
		t.Errorf("start should instruct calling the tracking tool: %s", text)
	}
}

func TestStartPrompt_Handle_ExplicitPhase(t *testing.T) {
	p := NewStartPrompt()

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"phase": "implement"}

	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, result), "phase='implement'") {
		t.Error("start should target the requested phase")
	}
}

// --- PhasePrompt ---

func TestPhasePrompt_Handle_RendersPlaybook(t *testing.T) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	p := NewPhasePrompt(renderer)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"phase": "implement"}

	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := promptText(t, result)
	if !strings.Contains(text, "Senior engineer") {
		t.Errorf("prompt should carry the implement role: %s", text)
	}
	if !strings.Contains(text, "workflow_record_files") {
		t.Errorf("prompt should mention file recording: %s", text)
	}
	if !strings.Contains(text, "tsc") {
		t.Errorf("prompt should describe the exit gate: %s", text)
	}
}

func TestPhasePrompt_Handle_InvalidPhase(t *testing.T) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	p := NewPhasePrompt(renderer)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"phase": "shipping"}

	if _, err := p.Handle(context.Background(), req); err == nil {
		t.Error("unknown phase should be rejected")
	}
}

func TestPhasePrompt_Handle_MissingArgument(t *testing.T) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	p := NewPhasePrompt(renderer)

	if _, err := p.Handle(context.Background(), mcp.GetPromptRequest{}); err == nil {
		t.Error("missing phase argument should be rejected")
	}
}
