// FILE: logflume/src/internal/logger/logger_test.go
package logger

import (
	"errors"
	"sync/atomic"
	"testing"

	"logflume/src/internal/core"
	"logflume/src/internal/sink"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

// failingSink always fails delivery and release.
type failingSink struct {
	name       string
	deliveries atomic.Int64
	closed     atomic.Bool
}

func (f *failingSink) Name() string      { return f.name }
func (f *failingSink) Level() core.Level { return core.TraceLevel }

func (f *failingSink) Close() error {
	f.closed.Store(true)
	return errors.New("release failed")
}

func (f *failingSink) Deliver(entry *core.Entry) error {
	f.deliveries.Add(1)
	return errors.New("delivery failed")
}

// panickingSink panics on delivery.
type panickingSink struct{}

func (panickingSink) Name() string                    { return "panicking" }
func (panickingSink) Level() core.Level               { return core.TraceLevel }
func (panickingSink) Close() error                    { return nil }
func (panickingSink) Deliver(entry *core.Entry) error { panic("sink panic") }

func newLoggerWithMemory(t *testing.T, level core.Level) (*Logger, *sink.MemorySink) {
	t.Helper()
	mem := sink.NewMemorySink("memory", core.TraceLevel, nil)
	l, err := New(Options{
		Level: level,
		Sinks: []sink.Sink{mem},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)
	return l, mem
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: core.Level(42)})
	assert.Error(t, err)
}

func TestLevelGate(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.InfoLevel)

	l.Trace("x")
	l.Info("y")

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "y", entries[0].Message)
	assert.Equal(t, core.InfoLevel, entries[0].Level)
}

func TestSilentSuppressesDispatchWithoutChangingLevel(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.InfoLevel)

	l.SetSilent(true)
	l.Error("dropped", nil)
	assert.Equal(t, 0, mem.Len())
	assert.Equal(t, core.InfoLevel, l.GetLevel())
	assert.True(t, l.Silent())

	l.SetSilent(false)
	l.Error("delivered", nil)
	assert.Equal(t, 1, mem.Len())
}

func TestSinkLevelFilter(t *testing.T) {
	warnOnly := sink.NewMemorySink("warn-only", core.WarnLevel, nil)
	all := sink.NewMemorySink("all", core.TraceLevel, nil)
	l, err := New(Options{
		Level: core.TraceLevel,
		Sinks: []sink.Sink{warnOnly, all},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	l.Info("info")
	l.Error("error", nil)

	assert.Equal(t, 1, warnOnly.Len())
	assert.Equal(t, 2, all.Len())
}

func TestMiddlewareOrder(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.TraceLevel)

	appendTag := func(tag string) func(e *core.Entry, next func()) {
		return func(e *core.Entry, next func()) {
			var tags []string
			if v, ok := e.Meta["tags"]; ok {
				tags = v.Any.([]string)
			}
			e.Meta["tags"] = core.Structured(append(tags, tag))
			next()
		}
	}

	l.Use(appendTag("a"))
	l.Use(appendTag("b"))

	l.Info("tagged")

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"a", "b"}, entries[0].Meta["tags"].Any.([]string))
}

func TestMiddlewareShortCircuit(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.TraceLevel)

	secondRan := false
	l.Use(func(e *core.Entry, next func()) {
		// continuation deliberately omitted
	})
	l.Use(func(e *core.Entry, next func()) {
		secondRan = true
		next()
	})

	l.Info("never delivered")

	assert.Equal(t, 0, mem.Len())
	assert.False(t, secondRan)
}

func TestMetaShallowCopyPerEntry(t *testing.T) {
	mem := sink.NewMemorySink("memory", core.TraceLevel, nil)
	l, err := New(Options{
		Level: core.TraceLevel,
		Meta:  core.Fields{"version": core.String("1")},
		Sinks: []sink.Sink{mem},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	l.Info("first")

	// Mutating dispatched-entry meta must not leak back into the logger
	entries := mem.Entries()
	require.Len(t, entries, 1)
	entries[0].Meta["version"] = core.String("2")

	l.Info("second")
	assert.Equal(t, "1", mem.Entries()[1].Meta["version"].Str)
}

func TestChildIndependentLevelAndSilent(t *testing.T) {
	parent, _ := newLoggerWithMemory(t, core.InfoLevel)
	child := parent.Child(nil)

	child.SetLevel(core.ErrorLevel)
	assert.Equal(t, core.InfoLevel, parent.GetLevel())

	parent.SetLevel(core.DebugLevel)
	assert.Equal(t, core.ErrorLevel, child.GetLevel())

	child.SetSilent(true)
	assert.False(t, parent.Silent())
}

func TestChildMetaMerge(t *testing.T) {
	mem := sink.NewMemorySink("memory", core.TraceLevel, nil)
	parent, err := New(Options{
		Level: core.TraceLevel,
		Meta:  core.Fields{"service": core.String("api"), "region": core.String("eu")},
		Sinks: []sink.Sink{mem},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	child := parent.Child(core.Fields{"region": core.String("us"), "worker": core.Int(3)})
	child.Info("from child")

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "api", entries[0].Meta["service"].Str)
	assert.Equal(t, "us", entries[0].Meta["region"].Str)
	assert.Equal(t, float64(3), entries[0].Meta["worker"].Num)
}

func TestChildSinkListSnapshot(t *testing.T) {
	parent, _ := newLoggerWithMemory(t, core.TraceLevel)
	child := parent.Child(nil)

	late := sink.NewMemorySink("late", core.TraceLevel, nil)
	parent.AddSink(late)

	child.Info("child entry")

	// sink added to the parent after child creation is not reflected
	assert.Equal(t, 0, late.Len())
	require.Len(t, child.Sinks(), 1)
	assert.Len(t, parent.Sinks(), 2)
}

func TestChildMiddlewareCopiedByValue(t *testing.T) {
	parent, mem := newLoggerWithMemory(t, core.TraceLevel)
	child := parent.Child(nil)

	parent.Use(func(e *core.Entry, next func()) {
		e.Meta["from"] = core.String("parent")
		next()
	})

	child.Info("child entry")

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Meta, "from")
}

func TestFailingSinkIsolated(t *testing.T) {
	failing := &failingSink{name: "failing"}
	mem := sink.NewMemorySink("memory", core.TraceLevel, nil)
	l, err := New(Options{
		Level: core.TraceLevel,
		Sinks: []sink.Sink{failing, mem},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	for range 5 {
		l.Info("entry")
	}

	assert.Equal(t, int64(5), failing.deliveries.Load())
	assert.Equal(t, 5, mem.Len())
}

func TestPanickingSinkIsolated(t *testing.T) {
	mem := sink.NewMemorySink("memory", core.TraceLevel, nil)
	l, err := New(Options{
		Level: core.TraceLevel,
		Sinks: []sink.Sink{panickingSink{}, mem},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() { l.Info("entry") })
	assert.Equal(t, 1, mem.Len())
}

func TestFatalDispatchesBeforeExit(t *testing.T) {
	mem := sink.NewMemorySink("memory", core.TraceLevel, nil)
	l, err := New(Options{
		Level:       core.TraceLevel,
		ExitOnFatal: true,
		Sinks:       []sink.Sink{mem},
		Diag:        newTestLogger(),
	})
	require.NoError(t, err)

	exitCode := -1
	deliveredBeforeExit := -1
	l.exit = func(code int) {
		exitCode = code
		deliveredBeforeExit = mem.Len()
	}

	l.Fatal("crash", errors.New("boom"))

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, 1, deliveredBeforeExit)
}

func TestFatalWithoutExitOnFatal(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.TraceLevel)
	l.exit = func(int) { t.Fatal("exit must not be called") }

	l.Fatal("crash", nil)
	assert.Equal(t, 1, mem.Len())
}

func TestSinksReturnsDefensiveCopy(t *testing.T) {
	l, _ := newLoggerWithMemory(t, core.TraceLevel)

	sinks := l.Sinks()
	sinks[0] = nil

	require.Len(t, l.Sinks(), 1)
	assert.NotNil(t, l.Sinks()[0])
}

func TestRemoveSinkByName(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.TraceLevel)

	assert.False(t, l.RemoveSink("missing"))
	assert.True(t, l.RemoveSink("memory"))
	assert.Empty(t, l.Sinks())

	l.Info("after removal")
	assert.Equal(t, 0, mem.Len())
}

func TestCloseReleasesAllSinksDespiteFailure(t *testing.T) {
	failing := &failingSink{name: "failing"}
	other := &failingSink{name: "other"}
	l, err := New(Options{
		Level: core.TraceLevel,
		Sinks: []sink.Sink{failing, other},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	l.Close()

	assert.True(t, failing.closed.Load())
	assert.True(t, other.closed.Load())
}

func TestLogNeverRaisesOnErrorSink(t *testing.T) {
	failing := &failingSink{name: "failing"}
	l, err := New(Options{
		Level: core.TraceLevel,
		Sinks: []sink.Sink{failing},
		Diag:  newTestLogger(),
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		l.Error("bad", errors.New("inner"))
		l.Warn("still fine")
	})
}

func TestErrorCaptured(t *testing.T) {
	l, mem := newLoggerWithMemory(t, core.TraceLevel)

	l.Error("failed", errors.New("boom"), core.Fields{"op": core.String("save")})

	entries := mem.Entries()
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Err)
	assert.Equal(t, "boom", entries[0].Err.Message)
	assert.Equal(t, "save", entries[0].Context["op"].Str)
}
