// Package resources implements MCP resource handlers for the workflow.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (workflow://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// Handler manages workflow resource endpoints.
type Handler struct {
	tracker  *workflow.Tracker
	settings config.Settings
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(tracker *workflow.Tracker, settings config.Settings) *Handler {
	return &Handler{tracker: tracker, settings: settings}
}

// StatusResource returns the MCP resource definition for workflow status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"workflow://status",
		"Workflow Status",
		mcp.WithResourceDescription("Current lifecycle phase, pending modified files, and gate mode"),
		mcp.WithMIMEType("application/json"),
	)
}

// status is the JSON shape served by the status resource.
type status struct {
	Phase           string               `json:"phase"`
	PendingFiles    []string             `json:"pending_files"`
	GateMode        string               `json:"gate_mode"`
	TrackingEnabled bool                 `json:"tracking_enabled"`
	LastTransition  *workflow.Transition `json:"last_transition,omitempty"`
}

// HandleStatus returns the current workflow status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	mode := "warning"
	if h.settings.StrictGates {
		mode = "strict"
	}

	st := status{
		PendingFiles:    h.tracker.ModifiedFiles(),
		GateMode:        mode,
		TrackingEnabled: h.settings.TrackingEnabled,
	}
	if phase := h.tracker.Phase(); phase != workflow.PhaseNone {
		st.Phase = string(phase)
	}
	if st.PendingFiles == nil {
		st.PendingFiles = []string{}
	}

	// The in-memory tracker is empty right after startup; fall back to the
	// transition log so the resource survives server restarts.
	if st.Phase == "" {
		if root, err := findRoot(); err == nil {
			last, err := workflow.LastTransition(config.TransitionsLogPath(root))
			if err == nil && last != nil {
				st.Phase = string(last.To)
				st.LastTransition = last
			}
		}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
