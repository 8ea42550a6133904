package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// MetricsExporter writes a JSON snapshot of the usage counters.
// Optional dependency of the report tool.
type MetricsExporter interface {
	ExportJSON(path string) error
}

// ReportTool handles the workflow_report MCP tool.
// It regenerates both report projections from the JSONL logs and writes
// them next to the logs.
type ReportTool struct {
	settings config.Settings
	metrics  MetricsExporter
}

// NewReportTool creates a ReportTool.
func NewReportTool(settings config.Settings) *ReportTool {
	return &ReportTool{settings: settings}
}

// SetMetrics injects an optional metrics exporter.
func (t *ReportTool) SetMetrics(m MetricsExporter) { t.metrics = m }

// Definition returns the MCP tool definition for registration.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("workflow_report",
		mcp.WithDescription(
			"Generate the workflow and quality reports from the JSONL logs. "+
				"Writes .workflow/report.json (transitions per phase, time per "+
				"phase, files changed) and .workflow/quality-report.json (gate "+
				"pass rate, per-transition stats, common failure categories). "+
				"Reports are recomputed from the logs every time; corrupt log "+
				"lines are skipped and counted.",
		),
	)
}

// Handle processes the workflow_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	wr, err := workflow.GenerateReport(
		config.TransitionsLogPath(projectRoot),
		config.ReportPath(projectRoot),
	)
	if err != nil {
		return nil, fmt.Errorf("generating workflow report: %w", err)
	}

	qr, err := gate.GenerateQualityReport(
		config.GateLogPath(projectRoot),
		config.QualityReportPath(projectRoot),
	)
	if err != nil {
		return nil, fmt.Errorf("generating quality report: %w", err)
	}

	if wr == nil && qr == nil {
		return mcp.NewToolResultText(
			"No workflow data yet — neither transition nor gate logs exist. " +
				"Start tracking with `workflow_track_phase`.",
		), nil
	}

	var b strings.Builder
	b.WriteString("# Workflow Report\n\n")

	if wr == nil {
		b.WriteString("No transitions logged yet.\n\n")
	} else {
		fmt.Fprintf(&b, "**Transitions:** %d\n", wr.TotalTransitions)
		fmt.Fprintf(&b, "**Files changed:** %d\n", len(wr.FilesChanged))
		if wr.SkippedLines > 0 {
			fmt.Fprintf(&b, "**Corrupt log lines skipped:** %d\n", wr.SkippedLines)
		}
		b.WriteString("\n## Time per Phase\n\n")
		for _, phase := range workflow.PhaseOrder {
			stats, ok := wr.Phases[phase]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "- **%s:** %d transition(s), %s\n",
				phase, stats.Count, formatDuration(stats.TotalDurationMs))
		}
		fmt.Fprintf(&b, "\nWritten to `%s`.\n\n", filepath.Join(config.WorkflowDir, config.ReportFile))
	}

	b.WriteString("## Quality Gates\n\n")
	if qr == nil {
		b.WriteString("No gate checks logged yet.\n")
	} else {
		fmt.Fprintf(&b, "**Checks:** %d (%d passed, %d failed, %d blocked)\n",
			qr.TotalChecks, qr.Passed, qr.Failed, qr.Blocked)
		fmt.Fprintf(&b, "**Pass rate:** %.1f%%\n", qr.PassRate*100)
		if qr.SkippedLines > 0 {
			fmt.Fprintf(&b, "**Corrupt log lines skipped:** %d\n", qr.SkippedLines)
		}
		if len(qr.CommonFailures) > 0 {
			b.WriteString("\n**Common failure categories:**\n")
			categories := make([]string, 0, len(qr.CommonFailures))
			for c := range qr.CommonFailures {
				categories = append(categories, c)
			}
			sort.Slice(categories, func(i, j int) bool {
				if qr.CommonFailures[categories[i]] != qr.CommonFailures[categories[j]] {
					return qr.CommonFailures[categories[i]] > qr.CommonFailures[categories[j]]
				}
				return categories[i] < categories[j]
			})
			for _, c := range categories {
				fmt.Fprintf(&b, "- %s (%d)\n", c, qr.CommonFailures[c])
			}
		}
		fmt.Fprintf(&b, "\nWritten to `%s`.\n", filepath.Join(config.WorkflowDir, config.QualityReportFile))
	}

	if t.metrics != nil {
		snapshotPath := filepath.Join(t.settings.DataDir, "metrics.json")
		if err := t.metrics.ExportJSON(snapshotPath); err == nil {
			fmt.Fprintf(&b, "\nUsage counters exported to `%s`.\n", snapshotPath)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
