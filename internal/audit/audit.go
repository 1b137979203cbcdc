// Package audit records guard decisions in an append-only text log.
package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Tag classifies an audit record.
type Tag string

const (
	Allowed Tag = "ALLOWED"
	Blocked Tag = "BLOCKED"
	Error   Tag = "ERROR"
)

// Record is a single audit line.
type Record struct {
	Time time.Time
	Tag  Tag
	Text string
}

// String renders the record as "[timestamp] TAG: 'text'".
func (r Record) String() string {
	return fmt.Sprintf("[%s] %s: '%s'", r.Time.Format(time.RFC3339), r.Tag, r.Text)
}

// Sink accepts audit records.
type Sink interface {
	Write(rec Record) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(rec Record) error

// Write calls f(rec).
func (f SinkFunc) Write(rec Record) error {
	return f(rec)
}

// Discard is a Sink that drops every record.
var Discard Sink = SinkFunc(func(Record) error { return nil })

// FileSink appends records to a text file, one per line.
// The file is opened and closed on every write.
type FileSink struct {
	Path string
}

// NewFileSink creates a sink for the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Write appends the record, creating the file and its directory if needed.
func (s *FileSink) Write(rec Record) error {
	if s == nil || s.Path == "" {
		return errors.New("audit log path not set")
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("cannot create audit log directory: %w", err)
	}

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open audit log: %w", err)
	}

	_, werr := fmt.Fprintln(f, rec.String())
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("cannot write audit log: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("cannot close audit log: %w", cerr)
	}
	return nil
}
