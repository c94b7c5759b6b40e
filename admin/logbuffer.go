package admin

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogEntry is one captured log line
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  log.Fields
}

// LogBuffer is a logrus hook keeping the latest entries for the logs page
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogBuffer keeps at most size entries
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = 500
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

// Levels implements log.Hook
func (b *LogBuffer) Levels() []log.Level {
	return log.AllLevels
}

// Fire implements log.Hook
func (b *LogBuffer) Fire(entry *log.Entry) error {
	fields := make(log.Fields, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = LogEntry{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
		Fields:  fields,
	}
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
	return nil
}

// Entries returns the buffered entries, newest first
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.next
	if b.full {
		count = len(b.entries)
	}
	out := make([]LogEntry, 0, count)
	for i := 1; i <= count; i++ {
		idx := (b.next - i + len(b.entries)) % len(b.entries)
		out = append(out, b.entries[idx])
	}
	return out
}
