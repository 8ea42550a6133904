package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// RecordFilesTool handles the workflow_record_files MCP tool.
// It accumulates modified file paths in the tracker; the set is attached
// to the next phase transition and then cleared.
type RecordFilesTool struct {
	tracker  *workflow.Tracker
	settings config.Settings
}

// NewRecordFilesTool creates a RecordFilesTool.
func NewRecordFilesTool(tracker *workflow.Tracker, settings config.Settings) *RecordFilesTool {
	return &RecordFilesTool{tracker: tracker, settings: settings}
}

// Definition returns the MCP tool definition for registration.
func (t *RecordFilesTool) Definition() mcp.Tool {
	return mcp.NewTool("workflow_record_files",
		mcp.WithDescription(
			"Record files modified during the current phase. Paths are "+
				"deduplicated and kept in the order first recorded; the "+
				"accumulated set is written with the next phase transition "+
				"and then cleared.",
		),
		mcp.WithString("files",
			mcp.Required(),
			mcp.Description("Comma- or newline-separated file paths, e.g. \"src/auth.ts, src/auth.test.ts\""),
		),
	)
}

// Handle processes the workflow_record_files tool call.
func (t *RecordFilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("files", "")
	paths := splitPaths(raw)
	if len(paths) == 0 {
		return mcp.NewToolResultError("'files' is required — provide one or more file paths separated by commas or newlines"), nil
	}

	if !t.settings.TrackingEnabled {
		return mcp.NewToolResultText(
			"Workflow tracking is disabled (GATEKEEP_TRACKING=false). " +
				"No files were recorded.",
		), nil
	}

	for _, p := range paths {
		t.tracker.AddModifiedFile(p)
	}
	pending := t.tracker.ModifiedFiles()

	response := fmt.Sprintf(
		"Recorded %d file(s). %d pending for the next transition:\n\n%s",
		len(paths), len(pending), "- "+strings.Join(pending, "\n- "),
	)
	return mcp.NewToolResultText(response), nil
}

// splitPaths parses the files argument: comma- or newline-separated,
// blanks dropped.
func splitPaths(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	var paths []string
	for _, f := range fields {
		if p := strings.TrimSpace(f); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
