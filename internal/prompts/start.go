package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the workflow-start MCP prompt.
// It guides the AI to begin tracking the development lifecycle for a project.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("workflow-start",
		mcp.WithPromptDescription(
			"Start tracking the development workflow for this project. "+
				"Sets the initial lifecycle phase and explains how phase "+
				"transitions and quality gates work from here on.",
		),
		mcp.WithArgument("phase",
			mcp.ArgumentDescription(
				"Phase to start in: plan, design, implement, test, review, release, or operate. Default: plan",
			),
		),
	)
}

// Handle processes the workflow-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	phase := "plan"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["phase"]; ok && v != "" {
			phase = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start workflow tracking in the %s phase", phase),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to start tracking my development workflow, beginning in the '%s' phase.\n\n"+
						"Please:\n"+
						"1. Run `workflow_track_phase` with phase='%s'\n"+
						"2. Run the `workflow-phase` prompt for '%s' and follow its role and checklist\n"+
						"3. As you modify files, record them with `workflow_record_files`\n"+
						"4. When the checklist is done, advance with `workflow_track_phase` — "+
						"quality gates guard design→implement, implement→test, test→review, and review→release\n\n"+
						"The lifecycle runs plan → design → implement → test → review → release → operate.",
					phase, phase, phase,
				)),
			},
		},
	}, nil
}
