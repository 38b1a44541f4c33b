package history

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Writer appends releases to the log, pruning the oldest entries.
type Writer struct {
	// StateDir is the directory containing the release log.
	StateDir string
	// MaxEntries is the maximum number of entries to retain.
	MaxEntries int
	// Warnings receives logging failures (default: os.Stderr).
	Warnings io.Writer
	// now is replaced in tests.
	now func() time.Time
}

// NewWriter creates a new release log writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
		Warnings:   os.Stderr,
		now:        time.Now,
	}
}

// LogEntry adds a new entry to the release log.
// Errors are non-fatal: they are written as warnings and don't cause command failures.
func (w *Writer) LogEntry(entry ReleaseEntry) {
	if err := w.logEntryInternal(entry); err != nil {
		fmt.Fprintf(w.Warnings, "Warning: failed to record release: %v\n", err)
	}
}

func (w *Writer) logEntryInternal(entry ReleaseEntry) error {
	h, err := LoadHistory(w.StateDir)
	if err != nil {
		return err
	}

	h.Entries = append(h.Entries, entry)

	if w.MaxEntries > 0 && len(h.Entries) > w.MaxEntries {
		excess := len(h.Entries) - w.MaxEntries
		h.Entries = h.Entries[excess:]
	}

	return SaveHistory(w.StateDir, h)
}

// LogRelease records the versions written for the range start..base.
// Releases that changed nothing are not recorded.
func (w *Writer) LogRelease(start, base string, changes []ModuleChange) {
	if len(changes) == 0 {
		return
	}
	w.LogEntry(ReleaseEntry{
		Timestamp: w.now().UTC(),
		Start:     start,
		Base:      base,
		Modules:   changes,
	})
}
