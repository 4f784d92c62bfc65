// FILE: logflume/src/internal/sink/sink.go
package sink

import (
	"time"

	"logflume/src/internal/core"
)

// Sink represents an output destination for log entries. Every sink owns its
// own minimum severity and lifecycle; the pipeline skips entries below a
// sink's level and isolates each sink's failures from its siblings.
type Sink interface {
	// Name identifies the sink for registration and removal
	Name() string

	// Level returns the sink's minimum severity
	Level() core.Level

	// Deliver processes a single entry
	Deliver(entry *core.Entry) error

	// Close releases the sink's resources
	Close() error
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type           string
	TotalProcessed uint64
	TotalFailed    uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// statsProvider is implemented by sinks that expose runtime statistics.
type statsProvider interface {
	GetStats() SinkStats
}

// Stats returns the sink's statistics when it exposes them.
func Stats(s Sink) (SinkStats, bool) {
	if sp, ok := s.(statsProvider); ok {
		return sp.GetStats(), true
	}
	return SinkStats{}, false
}
