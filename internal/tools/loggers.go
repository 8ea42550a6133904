package tools

import (
	"sync"

	"github.com/avelinos/gatekeep/internal/config"
	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// Loggers hands out the append-only log writers for a project root,
// creating each one on first use and reusing it afterwards. The project
// root is discovered per tool call, so the writers can't be constructed
// up front at server start.
type Loggers struct {
	mu          sync.Mutex
	transitions map[string]*workflow.Logger
	gates       map[string]*gate.CheckLogger
}

// NewLoggers creates an empty logger registry.
func NewLoggers() *Loggers {
	return &Loggers{
		transitions: make(map[string]*workflow.Logger),
		gates:       make(map[string]*gate.CheckLogger),
	}
}

// Transitions returns the transition logger for the project root.
func (l *Loggers) Transitions(projectRoot string) *workflow.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger, ok := l.transitions[projectRoot]
	if !ok {
		logger = workflow.NewLogger(config.TransitionsLogPath(projectRoot))
		l.transitions[projectRoot] = logger
	}
	return logger
}

// Gates returns the gate check logger for the project root.
func (l *Loggers) Gates(projectRoot string) *gate.CheckLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger, ok := l.gates[projectRoot]
	if !ok {
		logger = gate.NewCheckLogger(config.GateLogPath(projectRoot))
		l.gates[projectRoot] = logger
	}
	return logger
}

// Close closes every open log writer. Called on server shutdown.
func (l *Loggers) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, logger := range l.transitions {
		if err := logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, logger := range l.gates {
		if err := logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
