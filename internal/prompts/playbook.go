// Package prompts implements MCP prompt handlers for the workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"github.com/avelinos/gatekeep/internal/templates"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// playbook defines the role-specific command document for each lifecycle
// phase: the role the assistant assumes, the objective, the checklist, and
// the gate guarding the exit transition. This is the content behind the
// workflow-phase prompt.
var playbook = map[workflow.Phase]templates.CommandData{
	workflow.PhasePlan: {
		Title: "Plan", Phase: "plan",
		Role:      "Product-minded planner. You turn a vague request into a scoped, prioritized plan before anyone writes code.",
		Objective: "Establish what is being built and why: the problem, the users, the scope boundaries, and the acceptance criteria.",
		Checklist: []string{
			"State the problem in two or three sentences",
			"List what is explicitly out of scope",
			"Define measurable acceptance criteria",
			"Identify risks and open questions",
		},
		NextPhase: "design",
	},
	workflow.PhaseDesign: {
		Title: "Design", Phase: "design",
		Role:      "Software architect. You decide structure, data shapes, and interfaces before implementation locks them in.",
		Objective: "Produce the design artifacts the implement phase will build from: component boundaries, schemas, API contracts.",
		Checklist: []string{
			"Write the design document (*.design.md)",
			"Define data schemas (*.schema.sql) where the design touches storage",
			"Define API contracts (*.openapi.yml) where the design exposes endpoints",
			"Record significant decisions and rejected alternatives",
		},
		GateNote:  "design→implement requires at least one design artifact (*.design.md, *.schema.sql, or *.openapi.yml) to exist in the project.",
		NextPhase: "implement",
	},
	workflow.PhaseImplement: {
		Title: "Implement", Phase: "implement",
		Role:      "Senior engineer. You write the code the design calls for — no scope creep, no drive-by refactors.",
		Objective: "Implement the design, keeping the build compiling and the linter clean as you go.",
		Checklist: []string{
			"Work through the design component by component",
			"Record every file you touch with workflow_record_files",
			"Keep compile and lint clean — the exit gate runs both",
			"Note deviations from the design and why",
		},
		GateNote:  "implement→test runs the compile check (tsc, when tsconfig.json exists) and the linter (eslint, when configured). Both must exit clean.",
		NextPhase: "test",
	},
	workflow.PhaseTest: {
		Title: "Test", Phase: "test",
		Role:      "Test engineer. You prove the implementation does what the plan promised, including the unhappy paths.",
		Objective: "Cover the new behavior with tests and bring coverage up to the project threshold.",
		Checklist: []string{
			"Write tests for each acceptance criterion",
			"Cover error paths and edge cases, not just happy paths",
			"Run the full suite and fix failures",
			"Check the coverage report against the threshold",
		},
		GateNote:  "test→review runs the test suite (when configured) and compares the coverage report against the threshold (default 80%).",
		NextPhase: "review",
	},
	workflow.PhaseReview: {
		Title: "Review", Phase: "review",
		Role:      "Code reviewer. You read the change as an outsider would: correctness first, then clarity, then consistency.",
		Objective: "Find the problems a fresh pair of eyes catches before release does.",
		Checklist: []string{
			"Re-read the diff against the plan's acceptance criteria",
			"Check error handling on every external call",
			"Update the changelog with the user-visible changes",
			"Resolve or file every review finding",
		},
		GateNote:  "review→release runs the dependency audit (zero high/critical findings) and requires a changelog file to exist.",
		NextPhase: "release",
	},
	workflow.PhaseRelease: {
		Title: "Release", Phase: "release",
		Role:      "Release manager. You ship deliberately: versioned, documented, reversible.",
		Objective: "Get the change into users' hands with a clear record of what shipped.",
		Checklist: []string{
			"Bump the version and tag the release",
			"Verify the changelog matches what is shipping",
			"Run the release procedure end to end",
			"Confirm rollback is possible and documented",
		},
		NextPhase: "operate",
	},
	workflow.PhaseOperate: {
		Title: "Operate", Phase: "operate",
		Role:      "Operator. You watch the released change in production and feed what you learn into the next cycle.",
		Objective: "Confirm the release behaves in production and capture follow-up work.",
		Checklist: []string{
			"Check error rates and logs after rollout",
			"Verify the acceptance criteria hold under real traffic",
			"File follow-up issues for anything that surfaced",
			"Summarize learnings for the next planning phase",
		},
		NextPhase: "plan",
	},
}

// Playbook returns the command document data for a phase.
func Playbook(p workflow.Phase) (templates.CommandData, bool) {
	data, ok := playbook[p]
	return data, ok
}
