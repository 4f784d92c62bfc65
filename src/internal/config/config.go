// FILE: logflume/src/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Logging  LogConfig      `toml:"logging"`
}

// PipelineConfig describes one logger pipeline: threshold, default metadata
// and the sinks entries fan out to.
type PipelineConfig struct {
	// Minimum severity: "trace", "debug", "info", "warn", "error", "fatal"
	Level string `toml:"level"`

	// Silent suppresses all dispatch without altering the configured level
	Silent bool `toml:"silent"`

	// ExitOnFatal terminates the process after a fatal entry is dispatched
	ExitOnFatal bool `toml:"exit_on_fatal"`

	// Meta is default metadata stamped onto every entry
	Meta map[string]string `toml:"meta"`

	// Sinks are the output destinations
	Sinks []SinkConfig `toml:"sinks"`
}

func defaults() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Level: "info",
			Sinks: []SinkConfig{
				{Type: "console", Console: &ConsoleSinkOptions{Target: "stderr"}},
			},
		},
		Logging: *DefaultLogConfig(),
	}
}

// LoadWithCLI layers defaults, config file, environment and CLI arguments.
func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("LOGFLUME_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig, ""); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.Validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "LOGFLUME_" + env
	return env
}

func GetConfigPath() string {
	if configFile := os.Getenv("LOGFLUME_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("LOGFLUME_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("LOGFLUME_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "logflume.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "logflume.toml")
	}

	return "logflume.toml"
}

// Validate fails fast on invalid construction arguments.
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return validateLogConfig(&c.Logging)
}

func (p *PipelineConfig) Validate() error {
	if _, err := parseLevelName(p.Level); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	for i := range p.Sinks {
		if err := p.Sinks[i].Validate(); err != nil {
			return fmt.Errorf("pipeline sink[%d]: %w", i, err)
		}
	}

	return nil
}
