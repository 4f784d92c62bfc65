// FILE: logflume/src/internal/sink/memory.go
package sink

import (
	"sync"
	"time"

	"logflume/src/internal/config"
	"logflume/src/internal/core"
)

// MemorySink retains the most recent entries in a bounded ring buffer for
// inspection and testing.
type MemorySink struct {
	name     string
	level    core.Level
	capacity int

	mu      sync.Mutex
	entries []core.Entry

	startTime time.Time
}

// NewMemorySink creates a new memory sink.
func NewMemorySink(name string, level core.Level, opts *config.MemorySinkOptions) *MemorySink {
	capacity := 100
	if opts != nil && opts.Capacity > 0 {
		capacity = opts.Capacity
	}

	if name == "" {
		name = "memory"
	}

	return &MemorySink{
		name:      name,
		level:     level,
		capacity:  capacity,
		entries:   make([]core.Entry, 0, capacity),
		startTime: time.Now(),
	}
}

func (m *MemorySink) Name() string {
	return m.name
}

func (m *MemorySink) Level() core.Level {
	return m.level
}

// Deliver stores a copy of the entry, discarding the oldest entry once the
// buffer is full.
func (m *MemorySink) Deliver(entry *core.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.capacity {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, *entry)
	return nil
}

// Entries returns a snapshot of the retained entries, oldest first.
func (m *MemorySink) Entries() []core.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of retained entries.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close discards the retained entries.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *MemorySink) GetStats() SinkStats {
	m.mu.Lock()
	retained := len(m.entries)
	m.mu.Unlock()

	return SinkStats{
		Type:      "memory",
		StartTime: m.startTime,
		Details: map[string]any{
			"retained": retained,
			"capacity": m.capacity,
		},
	}
}
