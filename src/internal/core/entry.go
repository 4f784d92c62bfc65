// FILE: logflume/src/internal/core/entry.go
package core

import (
	"fmt"
	"time"
)

// Entry represents a single log record flowing through the pipeline.
// It is created once per log call, mutated in place by middleware, and
// discarded after the last sink has processed it.
type Entry struct {
	Time    time.Time  `json:"timestamp"`
	Level   Level      `json:"level"`
	Message string     `json:"message"`
	Context Fields     `json:"context,omitempty"`
	Err     *ErrorInfo `json:"error,omitempty"`
	Meta    Fields     `json:"meta,omitempty"`
}

// ErrorInfo is a captured failure attached to an entry.
type ErrorInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// NewEntry builds an entry with the timestamp assigned exactly once, before
// any middleware runs. Meta always exists, even when empty.
func NewEntry(level Level, message string, ctx Fields, err error, meta Fields) *Entry {
	e := &Entry{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Context: ctx,
		Meta:    meta,
	}
	if e.Meta == nil {
		e.Meta = Fields{}
	}
	if err != nil {
		e.Err = CaptureError(err)
	}
	return e
}

// CaptureError converts a Go error into the entry error record. The stack
// field is populated only when the error itself carries one.
func CaptureError(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	info := &ErrorInfo{
		Name:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}
	if st, ok := err.(interface{ StackTrace() string }); ok {
		info.Stack = st.StackTrace()
	}
	return info
}
