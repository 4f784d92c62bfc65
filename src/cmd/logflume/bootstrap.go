// FILE: logflume/src/cmd/logflume/bootstrap.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"logflume/src/internal/config"
	"logflume/src/internal/core"
	"logflume/src/internal/logger"
	"logflume/src/internal/middleware"
	"logflume/src/internal/sink"

	"github.com/lixenwraith/log"
)

// loadConfig starts from the LOGFLUME_ENV profile and lets an explicit
// config file plus environment and CLI arguments override it.
func loadConfig(cliArgs []string) (*config.Config, error) {
	if _, err := os.Stat(config.GetConfigPath()); err != nil {
		cfg := config.FromEnv()
		return cfg, cfg.Validate()
	}
	return config.LoadWithCLI(cliArgs)
}

// initializeDiagLogger sets up the process's own diagnostic logger
func initializeDiagLogger(cfg *config.Config) error {
	diag = log.NewLogger()

	levelValue, err := parseDiagLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	configArgs := []string{fmt.Sprintf("level=%d", levelValue)}

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		if cfg.Logging.File != nil {
			configArgs = append(configArgs,
				fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
				fmt.Sprintf("name=%s", cfg.Logging.File.Name),
				fmt.Sprintf("max_size_kb=%d", cfg.Logging.File.MaxSizeMB*1000))
		}

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if err := diag.ApplyConfigString(configArgs...); err != nil {
		return err
	}
	return diag.Start()
}

func parseDiagLevel(name string) (int, error) {
	switch strings.ToLower(name) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", name)
	}
}

// buildPipeline assembles the logger from configuration and tags every
// entry with the process identity.
func buildPipeline(cfg *config.Config) (*logger.Logger, error) {
	pipeline, err := logger.Build(&cfg.Pipeline, diag)
	if err != nil {
		return nil, err
	}

	pipeline.Use(middleware.Source("stdin"))
	pipeline.Use(middleware.Fields(core.Fields{
		"pid": core.Int(int64(os.Getpid())),
	}))

	return pipeline, nil
}

// logSinkStats reports each sink's runtime counters before shutdown.
func logSinkStats(pipeline *logger.Logger) {
	for _, s := range pipeline.Sinks() {
		stats, ok := sink.Stats(s)
		if !ok {
			continue
		}
		diag.Info("msg", "Sink statistics",
			"sink", s.Name(),
			"type", stats.Type,
			"total_processed", stats.TotalProcessed,
			"total_failed", stats.TotalFailed,
			"details", stats.Details)
	}
}

// forwardStdin reads lines from stdin and forwards them through the
// pipeline. A recognized leading level token selects the severity,
// everything else is logged at info.
func forwardStdin(pipeline *logger.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		level, message := splitLevel(line)
		pipeline.Log(level, message, nil, nil)
	}

	if err := scanner.Err(); err != nil {
		diag.Error("msg", "Failed to read stdin", "error", err)
	}
}

// splitLevel extracts an optional leading level token, bare or bracketed.
func splitLevel(line string) (core.Level, string) {
	token, rest, found := strings.Cut(line, " ")
	if !found {
		return core.InfoLevel, line
	}

	trimmed := strings.Trim(token, "[]:")
	if level, err := core.ParseLevel(trimmed); err == nil {
		return level, strings.TrimSpace(rest)
	}

	return core.InfoLevel, line
}
