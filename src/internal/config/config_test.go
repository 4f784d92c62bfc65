// FILE: logflume/src/internal/config/config_test.go
package config

import (
	"path/filepath"
	"testing"

	"logflume/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	assert.Equal(t, "info", cfg.Pipeline.Level)
	assert.False(t, cfg.Pipeline.Silent)
	require.Len(t, cfg.Pipeline.Sinks, 1)
	assert.Equal(t, "console", cfg.Pipeline.Sinks[0].Type)
	assert.NoError(t, cfg.Validate())
}

func TestSinkConfigValidate(t *testing.T) {
	testCases := []struct {
		name        string
		sink        SinkConfig
		expectError string
	}{
		{
			name:        "MissingType",
			sink:        SinkConfig{},
			expectError: "missing type",
		},
		{
			name:        "UnknownType",
			sink:        SinkConfig{Type: "syslog"},
			expectError: "unknown sink type",
		},
		{
			name:        "InvalidLevel",
			sink:        SinkConfig{Type: "console", Level: "loud"},
			expectError: "unknown log level",
		},
		{
			name: "InvalidConsoleTarget",
			sink: SinkConfig{Type: "console", Console: &ConsoleSinkOptions{
				Target: "pipe",
			}},
			expectError: "invalid console target",
		},
		{
			name: "InvalidConsoleColor",
			sink: SinkConfig{Type: "console", Console: &ConsoleSinkOptions{
				Color: "always",
			}},
			expectError: "invalid console color",
		},
		{
			name:        "FileWithoutFilename",
			sink:        SinkConfig{Type: "file", File: &FileSinkOptions{}},
			expectError: "requires 'filename'",
		},
		{
			name: "FileTraversal",
			sink: SinkConfig{Type: "file", File: &FileSinkOptions{
				Filename: "../escape.log",
			}},
			expectError: "directory traversal",
		},
		{
			name: "FileNegativeSize",
			sink: SinkConfig{Type: "file", File: &FileSinkOptions{
				Filename:     "app.log",
				MaxSizeBytes: -1,
			}},
			expectError: "max_size_bytes",
		},
		{
			name:        "HTTPWithoutURL",
			sink:        SinkConfig{Type: "http", HTTP: &HTTPSinkOptions{}},
			expectError: "requires 'url'",
		},
		{
			name: "HTTPBadScheme",
			sink: SinkConfig{Type: "http", HTTP: &HTTPSinkOptions{
				URL: "ftp://collector.internal/logs",
			}},
			expectError: "scheme must be http or https",
		},
		{
			name: "HTTPAuthWithoutKey",
			sink: SinkConfig{Type: "http", HTTP: &HTTPSinkOptions{
				URL:  "https://collector.internal/logs",
				Auth: &AuthOptions{Subject: "svc"},
			}},
			expectError: "signing_key",
		},
		{
			name: "MemoryNegativeCapacity",
			sink: SinkConfig{Type: "memory", Memory: &MemorySinkOptions{
				Capacity: -5,
			}},
			expectError: "capacity",
		},
		{
			name: "ValidConsole",
			sink: SinkConfig{Type: "console", Level: "warn", Console: &ConsoleSinkOptions{
				Target: "stdout",
				Color:  "auto",
			}},
		},
		{
			name: "ValidHTTP",
			sink: SinkConfig{Type: "http", HTTP: &HTTPSinkOptions{
				URL:       "https://collector.internal/logs",
				BatchSize: 50,
			}},
		},
		{
			name: "ValidMemory",
			sink: SinkConfig{Type: "memory"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sink.Validate()
			if tc.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPipelineValidateReportsSinkIndex(t *testing.T) {
	cfg := defaults()
	cfg.Pipeline.Sinks = append(cfg.Pipeline.Sinks, SinkConfig{Type: "bogus"})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink[1]")
}

func TestPipelineValidateRejectsBadLevel(t *testing.T) {
	cfg := defaults()
	cfg.Pipeline.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestSinkMinLevel(t *testing.T) {
	s := SinkConfig{Type: "console", Level: "error"}
	assert.Equal(t, core.ErrorLevel, s.MinLevel())

	// empty level means no filter
	s.Level = ""
	assert.Equal(t, core.TraceLevel, s.MinLevel())
}

func TestGetConfigPath(t *testing.T) {
	t.Run("ExplicitAbsoluteFile", func(t *testing.T) {
		t.Setenv("LOGFLUME_CONFIG_FILE", "/etc/logflume/custom.toml")
		t.Setenv("LOGFLUME_CONFIG_DIR", "/ignored")
		assert.Equal(t, "/etc/logflume/custom.toml", GetConfigPath())
	})

	t.Run("RelativeFileJoinsDir", func(t *testing.T) {
		t.Setenv("LOGFLUME_CONFIG_FILE", "custom.toml")
		t.Setenv("LOGFLUME_CONFIG_DIR", "/etc/logflume")
		assert.Equal(t, filepath.Join("/etc/logflume", "custom.toml"), GetConfigPath())
	})

	t.Run("DirOnly", func(t *testing.T) {
		t.Setenv("LOGFLUME_CONFIG_FILE", "")
		t.Setenv("LOGFLUME_CONFIG_DIR", "/etc/logflume")
		assert.Equal(t, filepath.Join("/etc/logflume", "logflume.toml"), GetConfigPath())
	})
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "LOGFLUME_PIPELINE_LEVEL", customEnvTransform("pipeline.level"))
}

func TestProfiles(t *testing.T) {
	dev := Development()
	assert.Equal(t, "debug", dev.Pipeline.Level)
	require.Len(t, dev.Pipeline.Sinks, 1)
	assert.NoError(t, dev.Validate())

	prod := Production()
	assert.Equal(t, "info", prod.Pipeline.Level)
	require.Len(t, prod.Pipeline.Sinks, 2)
	assert.Equal(t, "file", prod.Pipeline.Sinks[1].Type)
	assert.NoError(t, prod.Validate())

	test := Test()
	assert.True(t, test.Pipeline.Silent)
	assert.Empty(t, test.Pipeline.Sinks)
	assert.NoError(t, test.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOGFLUME_ENV", "production")
	assert.Equal(t, "info", FromEnv().Pipeline.Level)

	t.Setenv("LOGFLUME_ENV", "test")
	assert.True(t, FromEnv().Pipeline.Silent)

	t.Setenv("LOGFLUME_ENV", "")
	assert.Equal(t, "debug", FromEnv().Pipeline.Level)
}
