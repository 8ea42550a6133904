// Package templates renders the reusable workflow command documents from
// embedded templates.
//
// Each lifecycle phase has a command document: the role the assistant takes
// on, the objective for the phase, a working checklist, and the quality gate
// guarding the exit. Prompts and tools render these instead of assembling
// markdown by hand, so the command format stays consistent everywhere it
// appears.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed files/*.tmpl
var templateFS embed.FS

// CommandData feeds the phase command template.
type CommandData struct {
	Title     string   // display name of the phase, e.g. "Implement"
	Phase     string   // canonical phase name, e.g. "implement"
	Role      string   // the role the assistant takes on in this phase
	Objective string   // what the phase is for
	Checklist []string // the working checklist
	GateNote  string   // description of the gate guarding the exit, if any
	NextPhase string   // the canonical next phase, if any
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "files/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderCommand renders the phase command document.
func (r *Renderer) RenderCommand(data CommandData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "command.md.tmpl", data); err != nil {
		return "", fmt.Errorf("rendering command for %s: %w", data.Phase, err)
	}
	return buf.String(), nil
}
