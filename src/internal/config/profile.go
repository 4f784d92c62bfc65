// FILE: logflume/src/internal/config/profile.go
package config

import "os"

// Environment profiles. The LOGFLUME_ENV variable selects between a
// development profile (debug threshold, colored console), a production
// profile (info threshold, JSON console plus file sink) and a test profile
// (silent, no sinks).

// Development returns the development pipeline profile.
func Development() *Config {
	cfg := defaults()
	cfg.Pipeline.Level = "debug"
	cfg.Pipeline.Sinks = []SinkConfig{
		{Type: "console", Console: &ConsoleSinkOptions{Target: "stderr", Color: "auto"}},
	}
	return cfg
}

// Production returns the production pipeline profile.
func Production() *Config {
	cfg := defaults()
	cfg.Pipeline.Level = "info"
	cfg.Pipeline.Sinks = []SinkConfig{
		{Type: "console", Console: &ConsoleSinkOptions{Target: "stdout", JSON: true}},
		{Type: "file", File: &FileSinkOptions{
			Filename:     "logflume.log",
			MaxSizeBytes: 10 * 1024 * 1024,
			MaxFiles:     5,
			JSON:         true,
		}},
	}
	return cfg
}

// Test returns the test pipeline profile: silent with no sinks.
func Test() *Config {
	cfg := defaults()
	cfg.Pipeline.Silent = true
	cfg.Pipeline.Sinks = nil
	return cfg
}

// FromEnv selects a profile from the LOGFLUME_ENV environment variable.
// Unknown or empty values fall back to development.
func FromEnv() *Config {
	switch os.Getenv("LOGFLUME_ENV") {
	case "production":
		return Production()
	case "test":
		return Test()
	default:
		return Development()
	}
}
