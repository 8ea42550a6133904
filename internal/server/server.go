// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/metrics"
	"github.com/avelinos/gatekeep/internal/notify"
	"github.com/avelinos/gatekeep/internal/prompts"
	"github.com/avelinos/gatekeep/internal/resources"
	"github.com/avelinos/gatekeep/internal/templates"
	"github.com/avelinos/gatekeep/internal/tools"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the log writers and the metrics
// database and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if metrics init failed.
func New() (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	settings := config.FromEnv()
	tracker := workflow.NewTracker()
	loggers := tools.NewLoggers()
	evaluator := gate.NewEvaluator(nil, settings.CoverageThreshold, settings.ProbeTimeout)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"gatekeep",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Wire observers ---
	//
	// Metrics and webhook notifications are independent subsystems: if
	// either fails to initialize, tracking and gating continue working.
	// Observers are best-effort by contract — they never fail a tool call.

	var observers tools.MultiObserver
	var counter tools.InvocationCounter
	cleanup := func() {
		if err := loggers.Close(); err != nil {
			log.Printf("WARNING: closing log writers: %v", err)
		}
	}

	metricsStore, metricsErr := metrics.Open(settings.DataDir)
	if metricsErr != nil {
		log.Printf("WARNING: metrics disabled: %v", metricsErr)
	} else {
		observers = append(observers, metricsStore)
		counter = metricsStore
		base := cleanup
		cleanup = func() {
			base()
			if err := metricsStore.Close(); err != nil {
				log.Printf("WARNING: metrics store close: %v", err)
			}
		}
	}

	if settings.WebhookURL != "" {
		observers = append(observers, notify.NewWebhook(settings.WebhookURL))
	}

	var observer tools.WorkflowObserver
	if len(observers) > 0 {
		observer = observers
	}

	// --- Register workflow tools ---

	trackPhaseTool := tools.NewTrackPhaseTool(tracker, loggers, evaluator, settings)
	trackPhaseTool.SetObserver(observer)
	s.AddTool(trackPhaseTool.Definition(), tools.Counted(counter, "workflow_track_phase", trackPhaseTool.Handle))

	checkGateTool := tools.NewCheckGateTool(loggers, evaluator, settings)
	checkGateTool.SetObserver(observer)
	s.AddTool(checkGateTool.Definition(), tools.Counted(counter, "workflow_check_gate", checkGateTool.Handle))

	recordFilesTool := tools.NewRecordFilesTool(tracker, settings)
	s.AddTool(recordFilesTool.Definition(), tools.Counted(counter, "workflow_record_files", recordFilesTool.Handle))

	statusTool := tools.NewStatusTool(tracker, settings)
	s.AddTool(statusTool.Definition(), tools.Counted(counter, "workflow_status", statusTool.Handle))

	reportTool := tools.NewReportTool(settings)
	if metricsErr == nil {
		reportTool.SetMetrics(metricsStore)
	}
	s.AddTool(reportTool.Definition(), tools.Counted(counter, "workflow_report", reportTool.Handle))

	scanTextTool := tools.NewScanTextTool()
	s.AddTool(scanTextTool.Definition(), tools.Counted(counter, "scan_text", scanTextTool.Handle))

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	phasePrompt := prompts.NewPhasePrompt(renderer)
	s.AddPrompt(phasePrompt.Definition(), phasePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(tracker, settings)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default before any
// closable dependency has been created.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the workflow tracker effectively.
func serverInstructions() string {
	return `You have access to gatekeep, a development workflow tracker with quality gates.

## WHAT IT DOES

gatekeep tracks which lifecycle phase the work is in, logs every phase
transition, and evaluates quality gates before risky transitions. The
lifecycle is:

  plan → design → implement → test → review → release → operate

Four transitions are guarded by quality gates:
- design→implement: design artifacts exist (*.design.md, *.schema.sql, *.openapi.yml)
- implement→test: compile check (tsc) and linter (eslint) exit clean
- test→review: test suite passes and coverage meets the threshold (default 80%)
- review→release: dependency audit is clean and a changelog file exists

Gates run in warning mode by default — a failure is reported but the
transition proceeds. With GATEKEEP_STRICT_GATES=true a failed gate blocks
the transition and the phase does not change.

## HOW TO USE IT

1. When starting work, call workflow_track_phase with the phase you are in
   (usually 'plan'). Use the workflow-phase prompt to get the role,
   objective, and checklist for that phase.
2. As you create or modify files, record them with workflow_record_files.
   The accumulated set is attached to the next transition and then cleared.
3. When the phase checklist is done, advance with workflow_track_phase.
   If a gate guards the transition it is evaluated automatically.
4. To preview a gate without changing phase, call workflow_check_gate
   (e.g. transition="implement→test").
5. Call workflow_status any time to see where you are — after a restart it
   recovers the last phase from the transition log.
6. Call workflow_report to regenerate the workflow and quality reports
   from the logs.

## IMPORTANT RULES

- Track transitions HONESTLY — do not skip phases to dodge a gate. The
  gate for a transition only runs when that transition is requested.
- A blocked transition (strict mode) leaves everything unchanged: fix the
  findings, then request the transition again.
- Record files as you go, not in one batch at the end — the per-phase
  file sets make the workflow report useful.
- Before pasting logs, diffs, or config anywhere external, run scan_text
  on the content to catch secrets and PII.
- Gate checks run real commands in the project (tsc, eslint, npm test,
  npm audit). They can take a while; each probe is bounded by
  GATEKEEP_PROBE_TIMEOUT (default 3m).`
}
