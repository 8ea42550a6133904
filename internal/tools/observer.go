package tools

import (
	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// WorkflowObserver is notified when a transition is logged or a gate is
// evaluated. It's an optional dependency — tools work fine with a nil
// observer, and implementations must be best-effort: they never block or
// fail the tool call that triggered them.
type WorkflowObserver interface {
	// TransitionLogged is called after a phase transition has been
	// appended to the transition log.
	TransitionLogged(tr workflow.Transition)

	// GateEvaluated is called after a gate check record has been appended
	// to the gate log.
	GateEvaluated(rec gate.CheckRecord)
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []WorkflowObserver

// TransitionLogged forwards the transition to every observer.
func (m MultiObserver) TransitionLogged(tr workflow.Transition) {
	for _, obs := range m {
		obs.TransitionLogged(tr)
	}
}

// GateEvaluated forwards the check record to every observer.
func (m MultiObserver) GateEvaluated(rec gate.CheckRecord) {
	for _, obs := range m {
		obs.GateEvaluated(rec)
	}
}

// notifyTransition is a nil-safe helper called from tool Handle methods.
func notifyTransition(obs WorkflowObserver, tr workflow.Transition) {
	if obs == nil {
		return
	}
	obs.TransitionLogged(tr)
}

// notifyGate is a nil-safe helper called from tool Handle methods.
func notifyGate(obs WorkflowObserver, rec gate.CheckRecord) {
	if obs == nil {
		return
	}
	obs.GateEvaluated(rec)
}
