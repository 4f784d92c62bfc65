// FILE: logflume/src/internal/config/sink.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	"logflume/src/internal/core"
)

// SinkConfig represents an output destination. Exactly one of the per-type
// option blocks must match Type.
type SinkConfig struct {
	// Sink type: "console", "file", "http", "memory"
	Type string `toml:"type"`

	// Minimum severity for this sink, empty means trace (no filter)
	Level string `toml:"level"`

	// Optional sink name override for registration/removal
	Name string `toml:"name"`

	Console *ConsoleSinkOptions `toml:"console"`
	File    *FileSinkOptions    `toml:"file"`
	HTTP    *HTTPSinkOptions    `toml:"http"`
	Memory  *MemorySinkOptions  `toml:"memory"`
}

type ConsoleSinkOptions struct {
	// Target for console output: "stdout" or "stderr"
	Target string `toml:"target"`

	// JSON selects the JSON formatter instead of text
	JSON bool `toml:"json"`

	// Color: "auto" (tty detection), "on", "off"
	Color string `toml:"color"`
}

type FileSinkOptions struct {
	// Path of the active log file
	Filename string `toml:"filename"`

	// Maximum size of the active file in bytes before rotation
	MaxSizeBytes int64 `toml:"max_size_bytes"`

	// Maximum number of retained rotated files
	MaxFiles int `toml:"max_files"`

	// JSON selects the JSON formatter instead of text
	JSON bool `toml:"json"`
}

type HTTPSinkOptions struct {
	// Destination URL, POST target
	URL string `toml:"url"`

	// Additional request headers
	Headers map[string]string `toml:"headers"`

	// Number of pending entries that triggers an immediate flush
	BatchSize int `toml:"batch_size"`

	// Recurring flush interval in milliseconds
	FlushIntervalMS int64 `toml:"flush_interval_ms"`

	// Request timeout in seconds
	TimeoutSec int64 `toml:"timeout_sec"`

	// Optional bearer token auth
	Auth *AuthOptions `toml:"auth"`
}

// AuthOptions configures outbound bearer token minting.
type AuthOptions struct {
	// HMAC signing key for HS256 tokens
	SigningKey string `toml:"signing_key"`

	// Token subject claim
	Subject string `toml:"subject"`

	// Token lifetime in seconds
	TTLSec int64 `toml:"ttl_sec"`
}

type MemorySinkOptions struct {
	// Number of entries retained in the ring buffer
	Capacity int `toml:"capacity"`
}

func (s *SinkConfig) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("missing type")
	}

	if _, err := parseLevelName(s.Level); err != nil {
		return err
	}

	switch s.Type {
	case "console":
		if s.Console != nil {
			switch s.Console.Target {
			case "", "stdout", "stderr":
			default:
				return fmt.Errorf("invalid console target: %s", s.Console.Target)
			}
			switch s.Console.Color {
			case "", "auto", "on", "off":
			default:
				return fmt.Errorf("invalid console color mode: %s", s.Console.Color)
			}
		}

	case "file":
		if s.File == nil || s.File.Filename == "" {
			return fmt.Errorf("file sink requires 'filename'")
		}
		if strings.Contains(s.File.Filename, "..") {
			return fmt.Errorf("filename contains directory traversal")
		}
		if s.File.MaxSizeBytes < 0 {
			return fmt.Errorf("max_size_bytes must not be negative: %d", s.File.MaxSizeBytes)
		}
		if s.File.MaxFiles < 0 {
			return fmt.Errorf("max_files must not be negative: %d", s.File.MaxFiles)
		}

	case "http":
		if s.HTTP == nil || s.HTTP.URL == "" {
			return fmt.Errorf("http sink requires 'url'")
		}
		u, err := url.Parse(s.HTTP.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("url scheme must be http or https: %s", u.Scheme)
		}
		if s.HTTP.BatchSize < 0 {
			return fmt.Errorf("batch_size must not be negative: %d", s.HTTP.BatchSize)
		}
		if s.HTTP.Auth != nil && s.HTTP.Auth.SigningKey == "" {
			return fmt.Errorf("http sink auth requires 'signing_key'")
		}

	case "memory":
		if s.Memory != nil && s.Memory.Capacity < 0 {
			return fmt.Errorf("capacity must not be negative: %d", s.Memory.Capacity)
		}

	default:
		return fmt.Errorf("unknown sink type '%s'", s.Type)
	}

	return nil
}

// MinLevel parses the sink's configured minimum severity.
func (s *SinkConfig) MinLevel() core.Level {
	lvl, _ := parseLevelName(s.Level)
	return lvl
}

// parseLevelName maps an optional level name to a Level; empty means trace.
func parseLevelName(name string) (core.Level, error) {
	if name == "" {
		return core.TraceLevel, nil
	}
	return core.ParseLevel(name)
}
