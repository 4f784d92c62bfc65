// FILE: logflume/src/internal/config/logging.go
package config

import "fmt"

// LogConfig represents diagnostic logging configuration for the logflume
// process itself, not for the pipeline it runs.
type LogConfig struct {
	// Output mode: "file", "stdout", "stderr", "none"
	Output string `toml:"output"`

	// Log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// File output settings (when Output is "file")
	File *LogFileConfig `toml:"file"`
}

type LogFileConfig struct {
	// Directory for log files
	Directory string `toml:"directory"`

	// Base name for log files
	Name string `toml:"name"`

	// Maximum size per log file in MB
	MaxSizeMB int64 `toml:"max_size_mb"`
}

// DefaultLogConfig returns sensible diagnostic logging defaults
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output: "stderr",
		Level:  "warn",
		File: &LogFileConfig{
			Directory: "./log",
			Name:      "logflume",
			MaxSizeMB: 100,
		},
	}
}

func validateLogConfig(cfg *LogConfig) error {
	validOutputs := map[string]bool{
		"file": true, "stdout": true, "stderr": true, "none": true,
	}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	return nil
}
