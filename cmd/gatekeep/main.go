// Gatekeep: Development Workflow MCP Server
//
// A universal MCP server that integrates with any AI coding tool
// (Claude Code, OpenCode, Gemini CLI, Codex, Cursor, VS Code Copilot)
// to track lifecycle phases and enforce quality gates on transitions.
//
// Usage:
//
//	gatekeep serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	gkserver "github.com/avelinos/gatekeep/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("gatekeep v%s\n", gkserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := gkserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	stdio := server.NewStdioServer(s)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Gatekeep v%s — Development Workflow MCP Server

Usage:
  gatekeep serve    Start the MCP server (stdio transport)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "gatekeep": {
        "command": "gatekeep",
        "args": ["serve"]
      }
    }
  }

Environment:
  GATEKEEP_TRACKING             Enable workflow tracking (default: true)
  GATEKEEP_STRICT_GATES         Block transitions on failed gates (default: false)
  GATEKEEP_COVERAGE_THRESHOLD   Minimum line coverage percent (default: 80)
  GATEKEEP_PROBE_TIMEOUT        Per-probe command timeout (default: 3m)
  GATEKEEP_WEBHOOK_URL          POST workflow events to this URL (default: off)
  GATEKEEP_DATA_DIR             Metrics database location (default: ~/.gatekeep)
`, gkserver.Version)
}
