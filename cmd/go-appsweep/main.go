package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/krisbarrett/go-appsweep/internal/config"
	"github.com/krisbarrett/go-appsweep/internal/executor"
	"github.com/krisbarrett/go-appsweep/internal/logging"
	"github.com/krisbarrett/go-appsweep/internal/scheduler"
	"github.com/krisbarrett/go-appsweep/internal/version"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml or /app/config.yaml)")
	simulate := flag.Bool("simulate", false, "Dry run - log what would be removed without invoking anything")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		info := version.Get()
		fmt.Printf("go-appsweep %s\n", info.Version)
		fmt.Printf("  Commit:     %s\n", info.Commit)
		fmt.Printf("  Built:      %s\n", info.BuildDate)
		fmt.Printf("  Go version: %s\n", info.GoVersion)
		fmt.Printf("  OS/Arch:    %s\n", info.Platform)
		os.Exit(0)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging - env vars override config
	logLevel := cfg.General.LogLevel
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logFormat := "json"
	if envFormat := os.Getenv("LOG_FORMAT"); envFormat != "" {
		logFormat = envFormat
	}
	logger := logging.Setup(logLevel, logFormat)
	info := version.Get()
	logger.Info("starting go-appsweep",
		"version", info.Version,
		"commit", info.Commit,
		"built", info.BuildDate,
		"apps", len(cfg.Apps),
	)

	descriptors, err := cfg.Descriptors()
	if err != nil {
		logger.Error("invalid app list", "error", err)
		os.Exit(1)
	}

	cmdExec := executor.NewCommandExecutor(logger, cfg.General.CommandTimeout)
	task, err := scheduler.NewTask(&scheduler.Config{
		ConcurrencyLimit: cfg.Scheduler.ConcurrencyLimit,
		OneLoudLimit:     cfg.Scheduler.OneLoudLimit,
		PreferQuiet:      cfg.Scheduler.PreferQuiet,
		Simulate:         cfg.Scheduler.Simulate || *simulate,
		PollInterval:     cfg.Scheduler.PollInterval,
	}, descriptors, cmdExec, logger)
	if err != nil {
		logger.Error("failed to build batch", "error", err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	task.Subscribe(func() {
		if task.Finished() {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})
	defer task.ClearListeners()

	task.Start()

	for {
		select {
		case <-sigChan:
			logger.Info("shutdown signal received, aborting remaining jobs")
			task.Abort()
			// Restore default disposition so a second signal kills us
			// outright; the first waits for running uninstallers.
			signal.Stop(sigChan)
			sigChan = nil
		case <-done:
			exitCode := 0
			for _, rec := range task.Records() {
				if rec.Status() == scheduler.StatusFailed {
					logger.Warn("job failed", "job_id", rec.ID(), "name", rec.Descriptor().Name, "error", rec.Err())
					exitCode = 1
				}
			}
			logger.Info("go-appsweep finished", "aborted", task.Aborted())
			os.Exit(exitCode)
		}
	}
}
