// FILE: logflume/src/internal/format/text.go
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"logflume/src/internal/core"

	"github.com/lixenwraith/log"
)

// ANSI color codes by level ordinal
var levelColors = [...]string{
	core.TraceLevel: "\033[90m", // bright black
	core.DebugLevel: "\033[36m", // cyan
	core.InfoLevel:  "\033[32m", // green
	core.WarnLevel:  "\033[33m", // yellow
	core.ErrorLevel: "\033[31m", // red
	core.FatalLevel: "\033[35m", // magenta
}

const colorReset = "\033[0m"

// TextFormatter produces human-readable log lines:
//
//	<timestamp> [LEVEL] <message> <context JSON> [ERROR: <msg>] [STACK: <trace>]
type TextFormatter struct {
	opts   Options
	logger *log.Logger
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts Options, logger *log.Logger) *TextFormatter {
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = time.RFC3339Nano
	}
	return &TextFormatter{opts: opts, logger: logger}
}

// Format renders the entry as a single text line.
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(entry.Time.Format(f.opts.TimestampFormat))

	level := fmt.Sprintf("[%-5s]", entry.Level.String())
	if f.opts.Color && entry.Level.Valid() {
		level = levelColors[entry.Level] + level + colorReset
	}
	buf.WriteByte(' ')
	buf.WriteString(level)

	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	if len(entry.Context) > 0 {
		// Fields marshaling substitutes placeholders for bad values,
		// so this cannot fail the entry
		if ctx, err := json.Marshal(entry.Context); err == nil {
			buf.WriteByte(' ')
			buf.Write(ctx)
		}
	}

	if entry.Err != nil {
		fmt.Fprintf(&buf, " [ERROR: %s]", entry.Err.Message)
		if entry.Err.Stack != "" {
			fmt.Fprintf(&buf, " [STACK: %s]", entry.Err.Stack)
		}
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Name returns the formatter's type name.
func (f *TextFormatter) Name() string {
	return "text"
}
