package gate

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ProbeOutput captures what an external probe command produced.
type ProbeOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes an external probe command in a project directory.
// Abstracted so evaluator tests can script probe outcomes without
// spawning real processes.
type Runner interface {
	// Run executes name with args in dir and returns its output.
	// A non-zero exit code is NOT an error — that is the probe's verdict.
	// An error means the command could not run at all (missing binary,
	// spawn failure, context cancellation).
	Run(ctx context.Context, dir, name string, args ...string) (ProbeOutput, error)
}

// ExecRunner runs probes as real subprocesses via exec.CommandContext.
// Cancelling the context kills the subprocess, so a cancelled tool call
// leaves no orphans behind.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (ProbeOutput, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	// Quiet, non-interactive: probes must never prompt.
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := ProbeOutput{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			// The command ran and exited non-zero: that is a result,
			// not a failure to run.
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, err
	}
	return out, nil
}

// runProbe executes one probe step under the evaluator's timeout and
// classifies the failure modes: timeout vs. could-not-run. The returned
// *ProbeError is nil when the command actually ran to completion.
func (e *Evaluator) runProbe(ctx context.Context, step, dir, name string, args ...string) (ProbeOutput, *ProbeError) {
	probeCtx, cancel := context.WithTimeout(ctx, e.probeTimeout)
	defer cancel()

	out, err := e.runner.Run(probeCtx, dir, name, args...)
	if err != nil {
		if probeCtx.Err() == context.DeadlineExceeded {
			return out, &ProbeError{Step: step, TimedOut: true, Err: err}
		}
		return out, &ProbeError{Step: step, Err: err}
	}
	return out, nil
}

// timeoutFailure formats the gate-failure message for a timed-out probe.
// "timed out" is its own failure category so hung tools show up distinctly
// in the quality report.
func (e *Evaluator) timeoutFailure(step string) string {
	return "timed out: " + step + " exceeded the " + e.probeTimeout.Round(time.Second).String() + " probe timeout"
}
