// FILE: logflume/src/internal/sink/console.go
package sink

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"logflume/src/internal/config"
	"logflume/src/internal/core"
	"logflume/src/internal/format"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// ConsoleSink writes formatted entries synchronously to stdout or stderr.
type ConsoleSink struct {
	name      string
	level     core.Level
	output    io.Writer
	formatter format.Formatter
	logger    *log.Logger

	mu        sync.Mutex
	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewConsoleSink creates a new console sink. The formatter is selected by
// the JSON flag; color is resolved from the color mode, with "auto"
// detecting whether the target is a terminal.
func NewConsoleSink(name string, level core.Level, opts *config.ConsoleSinkOptions, logger *log.Logger) (*ConsoleSink, error) {
	if opts == nil {
		opts = &config.ConsoleSinkOptions{}
	}

	output := os.Stderr
	fd := os.Stderr.Fd()
	if opts.Target == "stdout" {
		output = os.Stdout
		fd = os.Stdout.Fd()
	}

	color := false
	switch opts.Color {
	case "on":
		color = true
	case "auto":
		color = term.IsTerminal(int(fd))
	}

	var formatter format.Formatter
	if opts.JSON {
		formatter = format.NewJSONFormatter(format.Options{}, logger)
	} else {
		formatter = format.NewTextFormatter(format.Options{Color: color}, logger)
	}

	if name == "" {
		name = "console"
	}

	s := &ConsoleSink{
		name:      name,
		level:     level,
		output:    output,
		formatter: formatter,
		logger:    logger,
		startTime: time.Now(),
	}
	s.lastProcessed.Store(time.Time{})

	return s, nil
}

func (s *ConsoleSink) Name() string {
	return s.name
}

func (s *ConsoleSink) Level() core.Level {
	return s.level
}

// Deliver formats the entry and writes it to the target stream.
func (s *ConsoleSink) Deliver(entry *core.Entry) error {
	formatted, err := s.formatter.Format(entry)
	if err != nil {
		s.totalFailed.Add(1)
		return err
	}

	s.mu.Lock()
	_, err = s.output.Write(formatted)
	s.mu.Unlock()

	if err != nil {
		s.totalFailed.Add(1)
		return err
	}

	s.totalProcessed.Add(1)
	s.lastProcessed.Store(time.Now())
	return nil
}

// Close is a no-op; the process owns stdout and stderr.
func (s *ConsoleSink) Close() error {
	return nil
}

func (s *ConsoleSink) GetStats() SinkStats {
	lastProc, _ := s.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "console",
		TotalProcessed: s.totalProcessed.Load(),
		TotalFailed:    s.totalFailed.Load(),
		StartTime:      s.startTime,
		LastProcessed:  lastProc,
		Details:        map[string]any{},
	}
}
