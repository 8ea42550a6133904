// Package metrics persists usage counters in a small SQLite database.
//
// The store is an observer of the workflow core: it counts tool
// invocations, transitions per target phase, and gate outcomes per
// transition. Counters survive across sessions (the database lives in the
// user's data dir, not the project) and can be exported as a JSON snapshot.
//
// Metrics are best-effort: recording failures are logged and dropped so a
// broken database never affects tracking or gating.
package metrics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avelinos/gatekeep/internal/gate"
	"github.com/avelinos/gatekeep/internal/workflow"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store is the counter store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the database with WAL
// mode, and ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("metrics: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metrics.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("metrics: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("metrics: pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS counters (
			name       TEXT PRIMARY KEY,
			value      INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("metrics: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Increment adds one to the named counter, creating it at 1 if absent.
func (s *Store) Increment(name string) error {
	_, err := s.db.Exec(`
		INSERT INTO counters (name, value, updated_at) VALUES (?, 1, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET value = value + 1, updated_at = datetime('now')`,
		name)
	if err != nil {
		return fmt.Errorf("metrics: increment %s: %w", name, err)
	}
	return nil
}

// Snapshot returns all counters by name.
func (s *Store) Snapshot() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT name, value FROM counters`)
	if err != nil {
		return nil, fmt.Errorf("metrics: snapshot: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]int64)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("metrics: snapshot scan: %w", err)
		}
		counters[name] = value
	}
	return counters, rows.Err()
}

// snapshotFile is the JSON export format.
type snapshotFile struct {
	ExportedAt string           `json:"exported_at"`
	Counters   map[string]int64 `json:"counters"`
}

// ExportJSON writes the current counters as a JSON snapshot to path.
// Map keys marshal in sorted order, so repeated exports of unchanged
// counters are byte-identical apart from the timestamp.
func (s *Store) ExportJSON(path string) error {
	counters, err := s.Snapshot()
	if err != nil {
		return err
	}

	out := snapshotFile{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Counters:   counters,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("metrics: encode snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("metrics: write snapshot: %w", err)
	}
	return nil
}

// --- Observer hooks ---
//
// The store implements the tool layer's WorkflowObserver so it can be wired
// alongside the webhook notifier. Failures are logged, never propagated.

// TransitionLogged counts the transition and its target phase.
func (s *Store) TransitionLogged(tr workflow.Transition) {
	s.count("transitions_total")
	s.count("transitions_to_" + string(tr.To))
}

// GateEvaluated counts the check, its outcome, and its transition key.
func (s *Store) GateEvaluated(rec gate.CheckRecord) {
	s.count("gate_checks_total")
	if rec.Passed {
		s.count("gate_checks_passed")
	} else {
		s.count("gate_checks_failed")
	}
	if rec.Blocked {
		s.count("gate_checks_blocked")
	}
	s.count("gate_checks_" + rec.Transition)
}

// ToolInvoked counts one call of the named MCP tool.
func (s *Store) ToolInvoked(name string) {
	s.count("tool_" + name)
}

func (s *Store) count(name string) {
	if err := s.Increment(name); err != nil {
		log.Printf("WARNING: %v", err)
	}
}
