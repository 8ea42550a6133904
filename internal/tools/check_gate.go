package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/gate"
)

// CheckGateTool handles the workflow_check_gate MCP tool.
// It evaluates the quality gate for a transition on demand, without
// changing the tracked phase. Useful for a dry run before advancing.
type CheckGateTool struct {
	loggers   *Loggers
	evaluator *gate.Evaluator
	settings  config.Settings
	observer  WorkflowObserver
}

// NewCheckGateTool creates a CheckGateTool with its dependencies.
func NewCheckGateTool(loggers *Loggers, evaluator *gate.Evaluator, settings config.Settings) *CheckGateTool {
	return &CheckGateTool{
		loggers:   loggers,
		evaluator: evaluator,
		settings:  settings,
	}
}

// SetObserver injects an optional WorkflowObserver for notifications.
func (t *CheckGateTool) SetObserver(obs WorkflowObserver) { t.observer = obs }

// Definition returns the MCP tool definition for registration.
func (t *CheckGateTool) Definition() mcp.Tool {
	return mcp.NewTool("workflow_check_gate",
		mcp.WithDescription(
			"Evaluate the quality gate for a phase transition without "+
				"changing the current phase. Gated transitions are "+
				"design→implement (design artifacts exist), implement→test "+
				"(compile and lint clean), test→review (tests pass, coverage "+
				"meets the threshold), and review→release (audit clean, "+
				"changelog present). The result is appended to the gate log "+
				"either way.",
		),
		mcp.WithString("transition",
			mcp.Required(),
			mcp.Description("The transition to check, e.g. \"implement→test\" or \"implement->test\""),
		),
	)
}

// Handle processes the workflow_check_gate tool call.
func (t *CheckGateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := gate.ParseKey(req.GetString("transition", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	mode := gate.ModeWarning
	if t.settings.StrictGates {
		mode = gate.ModeStrict
	}

	res := t.evaluator.Evaluate(ctx, key, projectRoot)
	rec := gate.NewCheckRecord(res, mode)
	if err := t.loggers.Gates(projectRoot).Append(rec); err != nil {
		return nil, fmt.Errorf("logging gate check: %w", err)
	}
	notifyGate(t.observer, rec)

	outcome := "❌ FAILED"
	if res.Passed {
		outcome = "✅ PASSED"
	}

	enforcement := "In warning mode this result would not block `workflow_track_phase`."
	if t.settings.StrictGates && !res.Passed {
		enforcement = "In strict mode this result would block `workflow_track_phase`."
	} else if t.settings.StrictGates {
		enforcement = "In strict mode a failure here would block `workflow_track_phase`."
	}

	response := fmt.Sprintf(
		"# Gate Check: %s\n\n"+
			"**Result:** %s\n"+
			"**Mode:** %s\n\n"+
			"%s\n\n"+
			"%s\n\n"+
			"The check was appended to `%s`. The tracked phase is unchanged.",
		key, outcome, rec.Mode, res.Message, enforcement,
		config.WorkflowDir+"/"+config.GateLogFile,
	)

	return mcp.NewToolResultText(response), nil
}
