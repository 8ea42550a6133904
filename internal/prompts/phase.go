package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/templates"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// PhasePrompt handles the workflow-phase MCP prompt.
// It renders the command document for a lifecycle phase: the role to take
// on, the objective, the checklist, and the gate guarding the exit.
type PhasePrompt struct {
	renderer *templates.Renderer
}

// NewPhasePrompt creates a PhasePrompt.
func NewPhasePrompt(renderer *templates.Renderer) *PhasePrompt {
	return &PhasePrompt{renderer: renderer}
}

// Definition returns the MCP prompt definition for registration.
func (p *PhasePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("workflow-phase",
		mcp.WithPromptDescription(
			"Get the working instructions for a lifecycle phase: the role "+
				"to assume, the objective, a checklist, and the quality gate "+
				"guarding the next transition.",
		),
		mcp.WithArgument("phase",
			mcp.ArgumentDescription(
				"The phase to get instructions for: plan, design, implement, test, review, release, or operate",
			),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the workflow-phase prompt request.
func (p *PhasePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	raw := ""
	if args := req.Params.Arguments; args != nil {
		raw = args["phase"]
	}

	phase, err := workflow.ParsePhase(raw)
	if err != nil {
		return nil, err
	}

	data, ok := Playbook(phase)
	if !ok {
		return nil, fmt.Errorf("no playbook for phase %q", phase)
	}

	doc, err := p.renderer.RenderCommand(data)
	if err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Working instructions for the %s phase", phase),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(doc),
			},
		},
	}, nil
}
