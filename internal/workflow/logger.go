package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger appends Transition records to a JSONL log file.
//
// Appends are atomic: the file is opened with O_APPEND and each record goes
// out as a single Write call, so two near-simultaneous tool invocations
// cannot interleave partial lines. A mutex serializes writers within the
// process; readers (report generation) tolerate being one entry behind.
type Logger struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewLogger creates a transition logger writing to the given JSONL path.
// The file is opened lazily on first append so that a fresh project does
// not grow a .workflow directory until something actually happens.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// LogTransition constructs a Transition record and appends it to the log,
// creating the log file and its parent directory if absent. durationMs is
// the time spent in the previous phase (0 if no phase was ever started).
// A failed append returns a *PersistenceError — the audit trail must never
// lose records silently.
func (l *Logger) LogTransition(from, to Phase, durationMs int64, files []string) (*Transition, error) {
	tr := &Transition{
		Timestamp:     timeNow().UTC().Format(time.RFC3339),
		From:          normalizeFrom(from),
		To:            to,
		DurationMs:    durationMs,
		FilesModified: files,
	}

	if err := l.append(tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// normalizeFrom maps PhaseNone to the empty string so the first transition
// serializes without a "from" field.
func normalizeFrom(p Phase) Phase {
	if p == PhaseNone {
		return ""
	}
	return p
}

func (l *Logger) append(tr *Transition) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return &PersistenceError{Path: l.path, Op: "create log directory for", Err: err}
		}
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return &PersistenceError{Path: l.path, Op: "open", Err: err}
		}
		l.file = f
	}

	data, err := json.Marshal(tr)
	if err != nil {
		return &PersistenceError{Path: l.path, Op: "encode entry for", Err: err}
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return &PersistenceError{Path: l.path, Op: "append to", Err: err}
	}
	if err := l.file.Sync(); err != nil {
		return &PersistenceError{Path: l.path, Op: "sync", Err: err}
	}
	return nil
}

// Close closes the underlying log file, if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
