// Package txlog records schema and data mutations in a per-database,
// append-only transaction log.
//
// Each entry is a single line in the form:
//
//	[2026-01-02T15:04:05Z] CREATE_TABLE products rows=0
//
// The log is an audit trail, not a recovery mechanism: entries are written
// after the corresponding files have been updated.
package txlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Log appends operation records to a single file. It is safe for concurrent
// use.
type Log struct {
	mu   sync.Mutex
	path string
}

// New returns a log writing to the given file path. The file is created on
// first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry recording an operation on a table and how many
// rows it touched.
func (l *Log) Append(operation, table string, rows int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s %s rows=%d\n",
		time.Now().UTC().Format(time.RFC3339), operation, table, rows)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append transaction log: %w", err)
	}
	return f.Sync()
}

// Entries reads back every line of the log. A missing file yields an empty
// slice.
func (l *Log) Entries() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read transaction log: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
