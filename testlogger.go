package tmeta

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is a single message captured by TestLogger.
type LogEntry struct {
	Level   slog.Level
	Message string
	Args    []any
}

// TestLogger is a LogBackend that records every message so tests can
// assert on what was logged. It is safe for concurrent use.
type TestLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewTestLogger creates an empty recording logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) record(level slog.Level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *TestLogger) Debug(msg string, args ...any) { l.record(slog.LevelDebug, msg, args) }
func (l *TestLogger) Info(msg string, args ...any)  { l.record(slog.LevelInfo, msg, args) }
func (l *TestLogger) Warn(msg string, args ...any)  { l.record(slog.LevelWarn, msg, args) }
func (l *TestLogger) Error(msg string, args ...any) { l.record(slog.LevelError, msg, args) }

// Log records a message at an arbitrary level, matching the slog.Logger
// method of the same name.
func (l *TestLogger) Log(_ context.Context, level slog.Level, msg string, args ...any) {
	l.record(level, msg, args)
}

// Count returns how many recorded entries have not been consumed by Next.
func (l *TestLogger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Next consumes and returns the oldest recorded entry, or nil if none
// remain.
func (l *TestLogger) Next() *LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	entry := l.entries[0]
	l.entries = l.entries[1:]
	return &entry
}

// Entries returns a copy of all recorded entries without consuming them.
func (l *TestLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// HasLevel reports whether any recorded entry was logged at the given
// level.
func (l *TestLogger) HasLevel(level slog.Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.Level == level {
			return true
		}
	}
	return false
}

// FindByMessage returns every recorded entry whose message matches
// exactly.
func (l *TestLogger) FindByMessage(msg string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var found []LogEntry
	for _, entry := range l.entries {
		if entry.Message == msg {
			found = append(found, entry)
		}
	}
	return found
}

// Clear drops all recorded entries.
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
