package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// TrackPhaseTool handles the workflow_track_phase MCP tool.
// It is the workhorse of the subsystem — evaluates the quality gate for
// the requested transition, logs it, and moves the tracker to the new
// phase.
type TrackPhaseTool struct {
	tracker   *workflow.Tracker
	loggers   *Loggers
	evaluator *gate.Evaluator
	settings  config.Settings
	observer  WorkflowObserver
}

// NewTrackPhaseTool creates a TrackPhaseTool with its dependencies.
func NewTrackPhaseTool(tracker *workflow.Tracker, loggers *Loggers, evaluator *gate.Evaluator, settings config.Settings) *TrackPhaseTool {
	return &TrackPhaseTool{
		tracker:   tracker,
		loggers:   loggers,
		evaluator: evaluator,
		settings:  settings,
	}
}

// SetObserver injects an optional WorkflowObserver for notifications.
func (t *TrackPhaseTool) SetObserver(obs WorkflowObserver) { t.observer = obs }

// Definition returns the MCP tool definition for registration.
func (t *TrackPhaseTool) Definition() mcp.Tool {
	return mcp.NewTool("workflow_track_phase",
		mcp.WithDescription(
			"Move the development workflow to a new lifecycle phase. "+
				"If a quality gate guards the transition (design→implement, "+
				"implement→test, test→review, review→release) it is evaluated "+
				"first: in strict mode a failed gate blocks the transition, in "+
				"warning mode it proceeds with a warning. The transition is "+
				"appended to .workflow/transitions.jsonl together with the time "+
				"spent in the previous phase and the files recorded since the "+
				"last transition.",
		),
		mcp.WithString("phase",
			mcp.Required(),
			mcp.Description("Target phase: plan, design, implement, test, review, release, or operate"),
		),
	)
}

// Handle processes the workflow_track_phase tool call.
func (t *TrackPhaseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := workflow.ParsePhase(req.GetString("phase", ""))
	if err != nil {
		// Invalid phase: reject without touching tracker state.
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !t.settings.TrackingEnabled {
		return mcp.NewToolResultText(
			"Workflow tracking is disabled (GATEKEEP_TRACKING=false). " +
				"No transition was recorded.",
		), nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	current := t.tracker.Phase()
	mode := gate.ModeWarning
	if t.settings.StrictGates {
		mode = gate.ModeStrict
	}

	// Evaluate the gate before any state changes, so a strict block leaves
	// the tracker exactly where it was.
	gateNote := ""
	if current != workflow.PhaseNone {
		key := gate.Key{From: current, To: target}
		if gate.HasRecipe(key) {
			res := t.evaluator.Evaluate(ctx, key, projectRoot)
			rec := gate.NewCheckRecord(res, mode)
			if err := t.loggers.Gates(projectRoot).Append(rec); err != nil {
				return nil, fmt.Errorf("logging gate check: %w", err)
			}
			notifyGate(t.observer, rec)

			switch {
			case rec.Blocked:
				return mcp.NewToolResultError(fmt.Sprintf(
					"Quality gate failed for %s (strict mode):\n\n%s\n\n"+
						"The transition was blocked. Fix the findings and try again, "+
						"or inspect the gate with `workflow_check_gate`.",
					key, res.Message,
				)), nil
			case !res.Passed:
				gateNote = fmt.Sprintf(
					"\n\n⚠️ **Gate warning for %s:** %s\n\n"+
						"The transition proceeded because gates run in warning mode "+
						"(set GATEKEEP_STRICT_GATES=true to enforce).",
					key, res.Message,
				)
			default:
				gateNote = fmt.Sprintf("\n\n✅ **Gate passed for %s:** %s", key, res.Message)
			}
		}
	}

	durationMs := t.tracker.PhaseDurationMs()
	files := t.tracker.ModifiedFiles()

	logger := t.loggers.Transitions(projectRoot)
	tr, err := logger.LogTransition(current, target, durationMs, files)
	if err != nil {
		// Log append failed: leave the tracker untouched so a retry
		// produces the same transition.
		return nil, fmt.Errorf("logging transition: %w", err)
	}

	t.tracker.SetPhase(target)
	t.tracker.ClearModifiedFiles()

	notifyTransition(t.observer, *tr)

	fromLabel := string(current)
	if current == workflow.PhaseNone {
		fromLabel = "(start)"
	}

	response := fmt.Sprintf(
		"# Phase: %s\n\n"+
			"**Transition:** %s → %s\n"+
			"**Time in previous phase:** %s\n"+
			"**Files carried into the log:** %d\n"+
			"**Gate mode:** %s%s\n\n"+
			"Run the `workflow-phase` prompt for '%s' to get the role and "+
			"checklist for this phase. Record files you modify with "+
			"`workflow_record_files`.",
		target, fromLabel, target,
		formatDuration(durationMs), len(files),
		modeLabel(t.settings.StrictGates), gateNote,
		target,
	)

	return mcp.NewToolResultText(response), nil
}

// formatDuration renders a millisecond duration for tool responses.
func formatDuration(ms int64) string {
	if ms <= 0 {
		return "n/a"
	}
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	default:
		return fmt.Sprintf("%.1fm", float64(ms)/60_000)
	}
}
