// FILE: logflume/src/internal/logger/logger.go
package logger

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"logflume/src/internal/core"
	"logflume/src/internal/middleware"
	"logflume/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Logger gates, enriches and fans out entries. It owns the middleware chain
// and the sink registry; a log call never raises to the caller regardless of
// sink failures.
type Logger struct {
	mu          sync.Mutex
	level       core.Level
	silent      bool
	exitOnFatal bool
	meta        core.Fields
	sinks       []sink.Sink
	chain       *middleware.Chain

	diag *log.Logger
	exit func(int)
}

// Options configures a new logger.
type Options struct {
	// Level is the minimum severity, entries below it are dropped
	Level core.Level

	// Silent suppresses all dispatch without altering the level
	Silent bool

	// ExitOnFatal terminates the process after a fatal entry is dispatched
	ExitOnFatal bool

	// Meta is default metadata stamped onto every entry
	Meta core.Fields

	// Sinks is the initial sink registry
	Sinks []sink.Sink

	// Diag receives sink failure reports; a fresh no-op logger when nil
	Diag *log.Logger
}

// New creates a logger. Construction fails fast on an invalid level.
func New(opts Options) (*Logger, error) {
	if !opts.Level.Valid() {
		return nil, fmt.Errorf("invalid log level: %d", opts.Level)
	}

	diag := opts.Diag
	if diag == nil {
		diag = log.NewLogger()
	}

	l := &Logger{
		level:       opts.Level,
		silent:      opts.Silent,
		exitOnFatal: opts.ExitOnFatal,
		meta:        opts.Meta.Clone(),
		sinks:       slices.Clone(opts.Sinks),
		chain:       &middleware.Chain{},
		diag:        diag,
		exit:        os.Exit,
	}
	return l, nil
}

// Log builds an entry and threads it through the middleware chain, then
// fans it out to every registered sink. The default metadata is
// shallow-copied so later mutation of the logger's metadata never affects
// already-dispatched entries.
func (l *Logger) Log(level core.Level, message string, ctx core.Fields, err error) {
	l.mu.Lock()
	if l.silent || level < l.level {
		l.mu.Unlock()
		return
	}
	meta := l.meta.Clone()
	chain := l.chain.Clone()
	sinks := slices.Clone(l.sinks)
	l.mu.Unlock()

	entry := core.NewEntry(level, message, ctx, err, meta)
	chain.Run(entry, func() {
		l.dispatch(entry, sinks)
	})
}

// dispatch delivers the entry to every sink concurrently. A sink whose
// minimum severity exceeds the entry's level is skipped silently. One
// sink's failure, error or panic, is reported to the diagnostic channel
// and never prevents delivery to the others. Dispatch completes only when
// every delivery attempt has settled.
func (l *Logger) dispatch(entry *core.Entry, sinks []sink.Sink) {
	var wg sync.WaitGroup
	for _, s := range sinks {
		if entry.Level < s.Level() {
			continue
		}
		wg.Add(1)
		go func(s sink.Sink) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					l.diag.Error("msg", "Sink delivery panicked",
						"component", "logger",
						"sink", s.Name(),
						"panic", r)
				}
			}()
			if err := s.Deliver(entry); err != nil {
				l.diag.Error("msg", "Sink delivery failed",
					"component", "logger",
					"sink", s.Name(),
					"error", err)
			}
		}(s)
	}
	wg.Wait()
}

// Trace logs at trace level.
func (l *Logger) Trace(message string, ctx ...core.Fields) {
	l.Log(core.TraceLevel, message, first(ctx), nil)
}

// Debug logs at debug level.
func (l *Logger) Debug(message string, ctx ...core.Fields) {
	l.Log(core.DebugLevel, message, first(ctx), nil)
}

// Info logs at info level.
func (l *Logger) Info(message string, ctx ...core.Fields) {
	l.Log(core.InfoLevel, message, first(ctx), nil)
}

// Warn logs at warn level.
func (l *Logger) Warn(message string, ctx ...core.Fields) {
	l.Log(core.WarnLevel, message, first(ctx), nil)
}

// Error logs at error level with an optional captured error.
func (l *Logger) Error(message string, err error, ctx ...core.Fields) {
	l.Log(core.ErrorLevel, message, first(ctx), err)
}

// Fatal logs at fatal level. When the logger is configured with
// ExitOnFatal, the process terminates after the fan-out has settled.
func (l *Logger) Fatal(message string, err error, ctx ...core.Fields) {
	l.Log(core.FatalLevel, message, first(ctx), err)

	l.mu.Lock()
	exitOnFatal := l.exitOnFatal
	exit := l.exit
	l.mu.Unlock()

	if exitOnFatal {
		exit(1)
	}
}

func first(ctx []core.Fields) core.Fields {
	if len(ctx) > 0 {
		return ctx[0]
	}
	return nil
}

// Use appends a middleware to the chain. Registration is not deduplicated.
func (l *Logger) Use(m middleware.Func) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chain.Append(m)
}

// Child derives a new logger sharing the current sinks, with the
// middleware chain and default metadata copied. extra wins on key
// collision. The child's level and silent state are independent of the
// parent's from this point on.
func (l *Logger) Child(extra core.Fields) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Logger{
		level:       l.level,
		silent:      l.silent,
		exitOnFatal: l.exitOnFatal,
		meta:        l.meta.Merge(extra),
		sinks:       slices.Clone(l.sinks),
		chain:       l.chain.Clone(),
		diag:        l.diag,
		exit:        l.exit,
	}
}

// SetLevel updates the minimum severity.
func (l *Logger) SetLevel(level core.Level) {
	if !level.Valid() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the minimum severity.
func (l *Logger) GetLevel() core.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetSilent toggles suppression of all dispatch.
func (l *Logger) SetSilent(silent bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.silent = silent
}

// Silent reports whether dispatch is suppressed.
func (l *Logger) Silent() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.silent
}

// AddSink registers a sink.
func (l *Logger) AddSink(s sink.Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// RemoveSink unregisters the first sink with the given name and reports
// whether one was found. The sink is not closed.
func (l *Logger) RemoveSink(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range l.sinks {
		if s.Name() == name {
			l.sinks = slices.Delete(l.sinks, i, i+1)
			return true
		}
	}
	return false
}

// Sinks returns a defensive copy of the sink registry.
func (l *Logger) Sinks() []sink.Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.sinks)
}

// Close releases every sink. A single sink's release failure is reported
// to the diagnostic channel and does not prevent the remaining sinks from
// being released; Close returns only after all sinks have been attempted.
func (l *Logger) Close() {
	l.mu.Lock()
	sinks := slices.Clone(l.sinks)
	l.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sinks {
		wg.Add(1)
		go func(s sink.Sink) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					l.diag.Error("msg", "Sink release panicked",
						"component", "logger",
						"sink", s.Name(),
						"panic", r)
				}
			}()
			if err := s.Close(); err != nil {
				l.diag.Error("msg", "Sink release failed",
					"component", "logger",
					"sink", s.Name(),
					"error", err)
			}
		}(s)
	}
	wg.Wait()
}
