// FILE: logflume/src/internal/logger/build.go
package logger

import (
	"fmt"

	"logflume/src/internal/config"
	"logflume/src/internal/core"
	"logflume/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Build assembles a logger from a pipeline configuration: parses the
// threshold, converts default metadata and constructs every configured sink.
// Construction of any sink failing fails the whole build.
func Build(cfg *config.PipelineConfig, diag *log.Logger) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := core.InfoLevel
	if cfg.Level != "" {
		parsed, err := core.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	meta := core.Fields{}
	for k, v := range cfg.Meta {
		meta[k] = core.String(v)
	}

	sinks := make([]sink.Sink, 0, len(cfg.Sinks))
	for i := range cfg.Sinks {
		s, err := createSink(&cfg.Sinks[i], diag)
		if err != nil {
			return nil, fmt.Errorf("failed to create sink[%d]: %w", i, err)
		}
		sinks = append(sinks, s)
	}

	return New(Options{
		Level:       level,
		Silent:      cfg.Silent,
		ExitOnFatal: cfg.ExitOnFatal,
		Meta:        meta,
		Sinks:       sinks,
		Diag:        diag,
	})
}

func createSink(sc *config.SinkConfig, diag *log.Logger) (sink.Sink, error) {
	level := sc.MinLevel()

	switch sc.Type {
	case "console":
		return sink.NewConsoleSink(sc.Name, level, sc.Console, diag)
	case "file":
		return sink.NewFileSink(sc.Name, level, sc.File, diag)
	case "http":
		return sink.NewHTTPSink(sc.Name, level, sc.HTTP, diag)
	case "memory":
		return sink.NewMemorySink(sc.Name, level, sc.Memory), nil
	default:
		return nil, fmt.Errorf("unknown sink type '%s'", sc.Type)
	}
}
