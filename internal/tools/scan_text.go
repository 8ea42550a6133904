package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinos/gatekeep/internal/scan"
)

// ScanTextTool handles the scan_text MCP tool.
// It checks a block of text for secrets and PII before it leaves the
// machine — useful ahead of commits, pastes, or webhook payloads.
type ScanTextTool struct{}

// NewScanTextTool creates a ScanTextTool.
func NewScanTextTool() *ScanTextTool {
	return &ScanTextTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ScanTextTool) Definition() mcp.Tool {
	return mcp.NewTool("scan_text",
		mcp.WithDescription(
			"Scan a block of text for likely secrets and PII: cloud access "+
				"keys, API tokens, private key blocks, bearer tokens, and "+
				"email addresses. Matches are reported by category and line "+
				"number with the matched value redacted.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to scan"),
		),
	)
}

// Handle processes the scan_text tool call.
func (t *ScanTextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required — provide the text to scan"), nil
	}

	findings := scan.Text(text)
	if len(findings) == 0 {
		return mcp.NewToolResultText("✅ No secrets or PII detected."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# ⚠️ %d Finding(s)\n\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(&b, "- **%s** (line %d): `%s`\n", f.Category, f.Line, f.Match)
	}
	b.WriteString("\nReview these before sharing or committing the text.")

	return mcp.NewToolResultText(b.String()), nil
}
