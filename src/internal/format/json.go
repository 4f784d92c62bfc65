// FILE: logflume/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"logflume/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter produces one JSON object per line with the fields
// timestamp, level, message, context, error and meta.
type JSONFormatter struct {
	opts   Options
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts Options, logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{opts: opts, logger: logger}
}

// Format transforms a single entry into a JSON line. The level is encoded
// as its name and the timestamp as an RFC 3339 string.
func (f *JSONFormatter) Format(entry *core.Entry) ([]byte, error) {
	result, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}
	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// batchEnvelope is the wire body sent by the HTTP sink.
type batchEnvelope struct {
	Logs []*core.Entry `json:"logs"`
}

// FormatBatch serializes a batch of entries as a single {"logs": [...]}
// document for transmission.
func (f *JSONFormatter) FormatBatch(entries []*core.Entry) ([]byte, error) {
	body, err := json.Marshal(batchEnvelope{Logs: entries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}
	return body, nil
}
