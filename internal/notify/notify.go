// Package notify delivers best-effort webhook notifications for workflow
// events.
//
// Delivery is fire-and-forget by design: no retries, no ordering, no
// delivery guarantee. A webhook outage must never affect tracking or
// gating — every failure here is logged to stderr and dropped.
package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// Webhook posts workflow events to a single URL as JSON.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier for the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// TransitionLogged posts a phase-transition event.
func (w *Webhook) TransitionLogged(tr workflow.Transition) {
	w.post(map[string]any{
		"event":       "phase_transition",
		"from":        tr.From,
		"to":          tr.To,
		"duration_ms": tr.DurationMs,
		"files":       len(tr.FilesModified),
		"timestamp":   tr.Timestamp,
	})
}

// GateEvaluated posts a gate-evaluation event.
func (w *Webhook) GateEvaluated(rec gate.CheckRecord) {
	w.post(map[string]any{
		"event":      "quality_gate",
		"transition": rec.Transition,
		"passed":     rec.Passed,
		"blocked":    rec.Blocked,
		"mode":       rec.Mode,
		"message":    rec.Message,
		"timestamp":  rec.Timestamp,
	})
}

// post sends one payload and swallows every failure.
func (w *Webhook) post(payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WARNING: notify: encode payload: %v", err)
		return
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("WARNING: notify: post %s: %v", w.url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("WARNING: notify: post %s: status %d", w.url, resp.StatusCode)
	}
}
