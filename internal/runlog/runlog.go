// Package runlog is a JSON-lines event log for orchestrator runs: each
// event records which verb ran and what happened, such as a trace anomaly
// encountered along the way. A rotation failure is reported to stderr and
// logging continues; a write failure is returned to the caller.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// defaultMaxLogBytes is the file size at which the log is rotated.
const defaultMaxLogBytes = 10 * 1024 * 1024

// Event is one line of the run log.
type Event struct {
	Timestamp string `json:"timestamp"`
	Verb      string `json:"verb"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	TestID    string `json:"test_id,omitempty"`
	CodeID    string `json:"code_id,omitempty"`
}

// Logger appends Events to a JSON-lines file, rotating it when it grows
// past defaultMaxLogBytes.
type Logger struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// Open creates or appends to the log file at path.
func Open(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &Logger{path: path, file: file}, nil
}

// rotateIfNeeded renames the current file to <path>.1 (dropping any
// existing .1) and opens a fresh log file. Must be called with l.mu held.
func (l *Logger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("stat run log: %w", err)
	}
	if info.Size() < defaultMaxLogBytes {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close run log before rotation: %w", err)
	}

	rotated := l.path + ".1"
	_ = os.Remove(rotated)
	if err := os.Rename(l.path, rotated); err != nil {
		return fmt.Errorf("rotate run log: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open fresh run log after rotation: %w", err)
	}
	l.file = f
	return nil
}

// Log appends one event, stamping its timestamp.
func (l *Logger) Log(e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotateIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "tracelink: warning: run log rotation failed: %v\n", err)
	}

	e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

// Anomaly logs a TraceAnomaly event (spec §7): a malformed or inconsistent
// trace row, never fatal to the run.
func (l *Logger) Anomaly(verb, reason, testID string) error {
	return l.Log(Event{Verb: verb, Kind: "trace_anomaly", Message: reason, TestID: testID})
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
