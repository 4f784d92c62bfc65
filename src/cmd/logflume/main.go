// FILE: logflume/src/cmd/logflume/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logflume/src/internal/version"

	"github.com/lixenwraith/log"
)

var diag *log.Logger

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file")
	env := flag.String("env", "", "profile override: development, production, test")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if *configFile != "" {
		os.Setenv("LOGFLUME_CONFIG_FILE", *configFile)
	}
	if *env != "" {
		os.Setenv("LOGFLUME_ENV", *env)
	}

	cfg, err := loadConfig(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := initializeDiagLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer shutdownDiagLogger()

	diag.Info("msg", "logflume starting",
		"version", version.Short(),
		"config_file", *configFile,
		"sinks", len(cfg.Pipeline.Sinks))

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		diag.Error("msg", "Failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// Forward stdin in the background; EOF or a signal ends the run
	doneChan := make(chan struct{})
	go func() {
		forwardStdin(pipeline)
		close(doneChan)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		diag.Info("msg", "Shutdown signal received, starting graceful shutdown...")
	case <-doneChan:
		diag.Info("msg", "Input exhausted, shutting down")
	}

	logSinkStats(pipeline)
	pipeline.Close()
	diag.Info("msg", "Shutdown complete")
}

func shutdownDiagLogger() {
	if diag != nil {
		if err := diag.Shutdown(2 * time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
		}
	}
}
