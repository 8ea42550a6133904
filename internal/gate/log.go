package gate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/avelinos/gatekeep/internal/workflow"
)

// CheckLogger appends CheckRecords to the quality-gates JSONL log.
// Same atomic-append contract as the transition logger: O_APPEND, one
// Write call per record, fsync, mutex across in-process writers.
type CheckLogger struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewCheckLogger creates a gate check logger writing to the given path.
// The file is opened lazily on first append.
func NewCheckLogger(path string) *CheckLogger {
	return &CheckLogger{path: path}
}

// Append writes one evaluation record to the log, creating the file and
// its parent directory if absent. Failures surface as *PersistenceError —
// the gate log is part of the audit trail.
func (l *CheckLogger) Append(rec CheckRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return &workflow.PersistenceError{Path: l.path, Op: "create log directory for", Err: err}
		}
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return &workflow.PersistenceError{Path: l.path, Op: "open", Err: err}
		}
		l.file = f
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return &workflow.PersistenceError{Path: l.path, Op: "encode entry for", Err: err}
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return &workflow.PersistenceError{Path: l.path, Op: "append to", Err: err}
	}
	if err := l.file.Sync(); err != nil {
		return &workflow.PersistenceError{Path: l.path, Op: "sync", Err: err}
	}
	return nil
}

// Close closes the underlying log file, if one was opened.
func (l *CheckLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
