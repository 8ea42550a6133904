package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// StatusTool handles the workflow_status MCP tool.
// It reports the current phase, pending modified files, and the gate mode.
// After a server restart (empty tracker) it falls back to the transition
// log so the caller can resume where the last session left off.
type StatusTool struct {
	tracker  *workflow.Tracker
	settings config.Settings
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(tracker *workflow.Tracker, settings config.Settings) *StatusTool {
	return &StatusTool{tracker: tracker, settings: settings}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("workflow_status",
		mcp.WithDescription(
			"Show the current workflow state: the tracked lifecycle phase, "+
				"files recorded since the last transition, and the gate "+
				"enforcement mode. If no phase is tracked in this session, "+
				"reports the last logged transition so work can resume.",
		),
	)
}

// Handle processes the workflow_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.settings.TrackingEnabled {
		return mcp.NewToolResultText("Workflow tracking is disabled (GATEKEEP_TRACKING=false)."), nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Workflow Status\n\n")

	phase := t.tracker.Phase()
	if phase != workflow.PhaseNone {
		fmt.Fprintf(&b, "**Current phase:** %s\n", phase)
		fmt.Fprintf(&b, "**Time in phase:** %s\n", formatDuration(t.tracker.PhaseDurationMs()))
	} else {
		// Nothing tracked this session — recover from the log.
		last, err := workflow.LastTransition(config.TransitionsLogPath(projectRoot))
		if err != nil {
			return nil, fmt.Errorf("reading transition log: %w", err)
		}
		if last == nil {
			b.WriteString("**Current phase:** none tracked yet\n\n")
			b.WriteString("Start with `workflow_track_phase` (phase='plan') or the `workflow-start` prompt.\n")
			return mcp.NewToolResultText(b.String()), nil
		}
		fmt.Fprintf(&b, "**Current phase:** not tracked in this session\n")
		fmt.Fprintf(&b, "**Last logged transition:** %s → %s at %s\n",
			displayPhase(last.From), last.To, last.Timestamp)
		fmt.Fprintf(&b, "\nCall `workflow_track_phase` with phase='%s' to resume tracking from there.\n", last.To)
	}

	pending := t.tracker.ModifiedFiles()
	fmt.Fprintf(&b, "**Pending modified files:** %d\n", len(pending))
	for _, p := range pending {
		fmt.Fprintf(&b, "  - %s\n", p)
	}

	fmt.Fprintf(&b, "**Gate mode:** %s\n", modeLabel(t.settings.StrictGates))
	fmt.Fprintf(&b, "**Coverage threshold:** %d%%\n", t.settings.CoverageThreshold)

	return mcp.NewToolResultText(b.String()), nil
}

// displayPhase renders a From phase; log records omit it for the first
// transition, so both the zero value and PhaseNone mean "start".
func displayPhase(p workflow.Phase) string {
	if p == "" || p == workflow.PhaseNone {
		return "(start)"
	}
	return string(p)
}
