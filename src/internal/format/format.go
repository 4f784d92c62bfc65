// FILE: logflume/src/internal/format/format.go
package format

import (
	"fmt"

	"logflume/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for transforming an Entry into a byte slice.
// Given the same entry and options the output is deterministic.
type Formatter interface {
	// Format takes an Entry and returns the formatted log line,
	// newline-terminated.
	Format(entry *core.Entry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// Options holds formatter construction options shared by all variants.
type Options struct {
	// TimestampFormat is a time layout string, RFC3339Nano when empty
	TimestampFormat string

	// Color enables ANSI level coloring (text formatter only)
	Color bool
}

// New creates a new Formatter based on the provided type name.
func New(name string, opts Options, logger *log.Logger) (Formatter, error) {
	// Default to text if no format specified
	if name == "" {
		name = "text"
	}

	switch name {
	case "json":
		return NewJSONFormatter(opts, logger), nil
	case "text", "txt":
		return NewTextFormatter(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
